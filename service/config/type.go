package config

type IService interface {
	GetModeMaxShutdownTime() int
	GetAPIPort() int
	GetDownloadTimeout() int
	GetWeightsPath() string
	GetWeightsURL() string
	GetComputeTarget() string
	GetFrameEdge() int
	GetScratchFolder() string
	GetStatsFolder() string
	GetRequestLogFile() string
	GetResultWebhookURL() string
}
