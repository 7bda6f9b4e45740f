package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"

	"github.com/khaledhikmat/lvef-go/service/config"
	"github.com/khaledhikmat/lvef-go/service/inference"
	"github.com/khaledhikmat/lvef-go/service/storage"
	"github.com/khaledhikmat/lvef-go/service/webhook"
)

// --- test helpers -----------------------------------------------------------

// testServices builds a ServicesFactory over a throwaway scratch folder.
// Config comes from the env-vars service so individual tests can tweak
// behavior with t.Setenv.
func testServices(t *testing.T, inferenceSvc inference.IService) (ServicesFactory, string) {
	t.Helper()

	scratch := t.TempDir()
	t.Setenv("SCRATCH_FOLDER", scratch)
	t.Setenv("REQUEST_LOG_FILE", filepath.Join(t.TempDir(), "requests.log"))

	cfgSvc := config.NewEnvVars()
	return ServicesFactory{
		CfgSvc:       cfgSvc,
		StorageSvc:   storage.NewTemp(cfgSvc),
		InferenceSvc: inferenceSvc,
		WebhookSvc:   webhook.NewFake(cfgSvc),
	}, scratch
}

// writeClip synthesizes a small MJPG clip for decode tests.
func writeClip(t *testing.T, path string, frames, width, height int) {
	t.Helper()

	writer, err := gocv.VideoWriterFile(path, "MJPG", 25, width, height, true)
	if err != nil {
		t.Fatalf("open video writer: %v", err)
	}
	defer writer.Close()

	for i := 0; i < frames; i++ {
		img := gocv.NewMatWithSizeFromScalar(
			gocv.NewScalar(float64(i*5%255), 128, 200, 0),
			height, width, gocv.MatTypeCV8UC3)
		err := writer.Write(img)
		img.Close()
		if err != nil {
			t.Fatalf("write frame %d: %v", i, err)
		}
	}
}

// clipResource copies a clip into a scratch resource the way acquire
// would.
func clipResource(t *testing.T, svcs ServicesFactory, clipPath string) *storage.Resource {
	t.Helper()

	resource, err := svcs.StorageSvc.Allocate("clip-*.avi")
	if err != nil {
		t.Fatalf("allocate scratch resource: %v", err)
	}

	file, err := os.Open(clipPath)
	if err != nil {
		resource.Release()
		t.Fatalf("open clip: %v", err)
	}
	defer file.Close()

	if _, err := resource.Write(file); err != nil {
		resource.Release()
		t.Fatalf("write clip into resource: %v", err)
	}

	return resource
}

func scratchEntries(t *testing.T, scratch string) int {
	t.Helper()
	entries, err := os.ReadDir(scratch)
	if err != nil {
		t.Fatalf("read scratch folder: %v", err)
	}
	return len(entries)
}
