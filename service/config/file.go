package config

import (
	"os"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

type fileSettings struct {
	ModeMaxShutdownTime int    `yaml:"modeMaxShutdownTime"`
	APIPort             int    `yaml:"apiPort"`
	DownloadTimeout     int    `yaml:"downloadTimeout"`
	WeightsPath         string `yaml:"weightsPath"`
	WeightsURL          string `yaml:"weightsUrl"`
	ComputeTarget       string `yaml:"computeTarget"`
	FrameEdge           int    `yaml:"frameEdge"`
	ScratchFolder       string `yaml:"scratchFolder"`
	StatsFolder         string `yaml:"statsFolder"`
	RequestLogFile      string `yaml:"requestLogFile"`
	ResultWebhookURL    string `yaml:"resultWebhookUrl"`
}

type fileService struct {
	settings fileSettings
}

// NewFile loads a yaml settings file once at startup. Defaults match the
// env-vars service; the file is never watched or re-read.
func NewFile(path string) (IService, error) {
	settings := fileSettings{
		ModeMaxShutdownTime: 5,
		APIPort:             8080,
		DownloadTimeout:     30,
		WeightsPath:         "./models/lvef_r2plus1d.onnx",
		ComputeTarget:       "cpu",
		FrameEdge:           112,
		ScratchFolder:       os.TempDir(),
		StatsFolder:         "./stats",
		RequestLogFile:      "requests.log",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("error reading settings file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, xerrors.Errorf("error parsing settings file %s: %w", path, err)
	}

	return &fileService{settings: settings}, nil
}

func (svc *fileService) GetModeMaxShutdownTime() int {
	return svc.settings.ModeMaxShutdownTime
}

func (svc *fileService) GetAPIPort() int {
	return svc.settings.APIPort
}

func (svc *fileService) GetDownloadTimeout() int {
	return svc.settings.DownloadTimeout
}

func (svc *fileService) GetWeightsPath() string {
	return svc.settings.WeightsPath
}

func (svc *fileService) GetWeightsURL() string {
	return svc.settings.WeightsURL
}

func (svc *fileService) GetComputeTarget() string {
	return svc.settings.ComputeTarget
}

func (svc *fileService) GetFrameEdge() int {
	return svc.settings.FrameEdge
}

func (svc *fileService) GetScratchFolder() string {
	return svc.settings.ScratchFolder
}

func (svc *fileService) GetStatsFolder() string {
	return svc.settings.StatsFolder
}

func (svc *fileService) GetRequestLogFile() string {
	return svc.settings.RequestLogFile
}

func (svc *fileService) GetResultWebhookURL() string {
	return svc.settings.ResultWebhookURL
}
