package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnvVarsDefaults(t *testing.T) {
	// Blank values read as unset.
	for _, key := range []string{
		"DOWNLOAD_TIMEOUT", "FRAME_EDGE", "API_PORT",
		"COMPUTE_TARGET", "SCRATCH_FOLDER",
	} {
		t.Setenv(key, "")
	}

	svc := NewEnvVars()

	if got := svc.GetDownloadTimeout(); got != 30 {
		t.Errorf("download timeout: got %d, want 30", got)
	}
	if got := svc.GetFrameEdge(); got != 112 {
		t.Errorf("frame edge: got %d, want 112", got)
	}
	if got := svc.GetAPIPort(); got != 8080 {
		t.Errorf("api port: got %d, want 8080", got)
	}
	if got := svc.GetComputeTarget(); got != "cpu" {
		t.Errorf("compute target: got %q, want cpu", got)
	}
	if got := svc.GetScratchFolder(); got != os.TempDir() {
		t.Errorf("scratch folder: got %q, want %q", got, os.TempDir())
	}
}

func TestEnvVarsOverrides(t *testing.T) {
	t.Setenv("DOWNLOAD_TIMEOUT", "5")
	t.Setenv("COMPUTE_TARGET", "cuda")
	t.Setenv("WEIGHTS_PATH", "/opt/models/custom.onnx")

	svc := NewEnvVars()

	if got := svc.GetDownloadTimeout(); got != 5 {
		t.Errorf("download timeout: got %d, want 5", got)
	}
	if got := svc.GetComputeTarget(); got != "cuda" {
		t.Errorf("compute target: got %q, want cuda", got)
	}
	if got := svc.GetWeightsPath(); got != "/opt/models/custom.onnx" {
		t.Errorf("weights path: got %q", got)
	}
}

func TestEnvVarsBadIntFallsBack(t *testing.T) {
	t.Setenv("API_PORT", "not-a-number")

	svc := NewEnvVars()
	if got := svc.GetAPIPort(); got != 8080 {
		t.Errorf("api port: got %d, want fallback 8080", got)
	}
}

func TestFileSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := []byte(`
apiPort: 9090
downloadTimeout: 10
computeTarget: cuda
weightsPath: /opt/models/lvef.onnx
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	svc, err := NewFile(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}

	if got := svc.GetAPIPort(); got != 9090 {
		t.Errorf("api port: got %d, want 9090", got)
	}
	if got := svc.GetDownloadTimeout(); got != 10 {
		t.Errorf("download timeout: got %d, want 10", got)
	}
	if got := svc.GetComputeTarget(); got != "cuda" {
		t.Errorf("compute target: got %q, want cuda", got)
	}
	// Unset keys keep defaults.
	if got := svc.GetFrameEdge(); got != 112 {
		t.Errorf("frame edge: got %d, want 112", got)
	}
}

func TestFileSettingsMissingFile(t *testing.T) {
	if _, err := NewFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("load of missing settings file: got nil error")
	}
}
