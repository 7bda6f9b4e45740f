package pipeline

import (
	"context"
	"net/http"
	"time"

	"github.com/khaledhikmat/lvef-go/model"
	"github.com/khaledhikmat/lvef-go/service/storage"
)

// acquire fetches the full video bytes into freshly allocated scratch
// storage, bounded by the configured download timeout. Single attempt,
// fail-fast; retries belong to the caller. On every failure path inside
// this stage the scratch resource is already released.
func acquire(canxCtx context.Context, svcs ServicesFactory, videoURL string) (*storage.Resource, error) {
	timeout := time.Duration(svcs.CfgSvc.GetDownloadTimeout()) * time.Second
	reqCtx, canxFn := context.WithTimeout(canxCtx, timeout)
	defer canxFn()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, videoURL, nil)
	if err != nil {
		return nil, model.GenPipelineError(model.KindDownload, err,
			"Download failed: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, model.GenPipelineError(model.KindDownload, err,
			"Download failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, model.GenPipelineError(model.KindDownload, nil,
			"Download failed: status %d for %s", resp.StatusCode, videoURL)
	}

	resource, err := svcs.StorageSvc.Allocate("video-*.mp4")
	if err != nil {
		return nil, model.GenPipelineError(model.KindDownload, err,
			"Download failed: %v", err)
	}

	if _, err := resource.Write(resp.Body); err != nil {
		resource.Release()
		return nil, model.GenPipelineError(model.KindDownload, err,
			"Download failed: %v", err)
	}

	return resource, nil
}
