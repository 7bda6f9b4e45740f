package model

import (
	"encoding/json"
	"fmt"
)

// Kind classifies pipeline failures. Kinds stay distinguishable
// internally (logs, stats) even where the wire message coalesces them.
type Kind string

const (
	KindInitialization Kind = "initialization"
	KindDownload       Kind = "download"
	KindDecode         Kind = "decode"
	KindInference      Kind = "inference"
)

type PipelineError struct {
	Kind    Kind
	Message string
	Inner   error
}

func (e *PipelineError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Inner)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Inner
}

func GenPipelineError(kind Kind, err error, messagef string, args ...interface{}) *PipelineError {
	return &PipelineError{
		Kind:    kind,
		Message: fmt.Sprintf(messagef, args...),
		Inner:   err,
	}
}

// PredictionResult is the caller-visible outcome of one predict request.
// Success: {"status":"success","lvef":<float>,"units":"%"}
// Failure: {"error":"<message>"}
type PredictionResult struct {
	Status string
	LVEF   float64
	Units  string
	Err    string
	Kind   Kind
}

func (r PredictionResult) MarshalJSON() ([]byte, error) {
	if r.Err != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: r.Err})
	}

	return json.Marshal(struct {
		Status string  `json:"status"`
		LVEF   float64 `json:"lvef"`
		Units  string  `json:"units"`
	}{Status: r.Status, LVEF: r.LVEF, Units: r.Units})
}
