package model

import (
	"fmt"
	"runtime/debug"
)

type CustomError struct {
	Processor  string                 `json:"processor"`
	Inner      error                  `json:"innerError"`
	Message    string                 `json:"message"`
	StackTrace string                 `json:"stackTrace"`
	Misc       map[string]interface{} `json:"misc"`
}

func GenError(proc string, err error, misc map[string]interface{}, messagef string, args ...interface{}) CustomError {
	return CustomError{
		Processor:  proc,
		Inner:      err,
		Message:    fmt.Sprintf(messagef, args...),
		StackTrace: string(debug.Stack()),
		Misc:       misc,
	}
}

type ServerStats struct {
	Requests  int   `json:"requests"`
	Successes int   `json:"successes"`
	Failures  int   `json:"failures"`
	Uptime    int64 `json:"uptime"`
	Timestamp int64 `json:"timestamp"`
}

type RequestStats struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	Kind        string  `json:"kind"`
	Frames      int     `json:"frames"`
	AcquireTime float64 `json:"acquireTime"`
	DecodeTime  float64 `json:"decodeTime"`
	InferTime   float64 `json:"inferTime"`
	TotalTime   float64 `json:"totalTime"`
	Timestamp   int64   `json:"timestamp"`
}
