package mode

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/khaledhikmat/lvef-go/pipeline"
	"github.com/khaledhikmat/lvef-go/service/lgr"
)

// Weights is the deploy-time weight download step: it bakes the model
// file into the image before the serving mode ever runs. A placeholder
// or missing URL skips the download instead of failing the build; the
// serving mode then degrades to test mode.
func Weights(canxCtx context.Context, svcs pipeline.ServicesFactory, _ pipeline.Predictor) error {
	url := svcs.CfgSvc.GetWeightsURL()
	if url == "" || strings.Contains(url, "INSERT") {
		lgr.Logger.Warn("no valid weights URL provided, skipping download")
		return nil
	}

	weightsPath := svcs.CfgSvc.GetWeightsPath()
	if err := os.MkdirAll(filepath.Dir(weightsPath), 0755); err != nil {
		return fmt.Errorf("error creating weights folder: %w", err)
	}

	req, err := http.NewRequestWithContext(canxCtx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error building weights request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("error downloading weights: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("error downloading weights: status %d", resp.StatusCode)
	}

	file, err := os.Create(weightsPath)
	if err != nil {
		return fmt.Errorf("error creating weights file: %w", err)
	}
	defer file.Close()

	n, err := io.Copy(file, resp.Body)
	if err != nil {
		return fmt.Errorf("error writing weights file: %w", err)
	}

	lgr.Logger.Info("weights downloaded",
		slog.String("path", weightsPath),
		slog.Int64("bytes", n),
	)

	return nil
}
