package config

import (
	"os"
	"strconv"
)

// All values resolve at startup from the environment. Nothing here is
// runtime-mutable: compute tier, weight location and timeouts are a
// deployment decision, not a per-request one.
type envVarsService struct {
}

func NewEnvVars() IService {
	return &envVarsService{}
}

func (svc *envVarsService) GetModeMaxShutdownTime() int {
	return intEnv("MODE_MAX_SHUTDOWN_TIME", 5)
}

func (svc *envVarsService) GetAPIPort() int {
	return intEnv("API_PORT", 8080)
}

func (svc *envVarsService) GetDownloadTimeout() int {
	// Seconds. Single attempt, fail-fast; retries are a caller concern.
	return intEnv("DOWNLOAD_TIMEOUT", 30)
}

func (svc *envVarsService) GetWeightsPath() string {
	return strEnv("WEIGHTS_PATH", "./models/lvef_r2plus1d.onnx")
}

func (svc *envVarsService) GetWeightsURL() string {
	return strEnv("WEIGHTS_URL", "")
}

func (svc *envVarsService) GetComputeTarget() string {
	// "cuda" or "cpu". Queried once at cold start.
	return strEnv("COMPUTE_TARGET", "cpu")
}

func (svc *envVarsService) GetFrameEdge() int {
	// Spatial resolution the network was trained at.
	return intEnv("FRAME_EDGE", 112)
}

func (svc *envVarsService) GetScratchFolder() string {
	return strEnv("SCRATCH_FOLDER", os.TempDir())
}

func (svc *envVarsService) GetStatsFolder() string {
	return strEnv("STATS_FOLDER", "./stats")
}

func (svc *envVarsService) GetRequestLogFile() string {
	return strEnv("REQUEST_LOG_FILE", "requests.log")
}

func (svc *envVarsService) GetResultWebhookURL() string {
	return strEnv("RESULT_WEBHOOK_URL", "")
}

func strEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
