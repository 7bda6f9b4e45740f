package mode

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/khaledhikmat/lvef-go/pipeline"
)

// Predict is the local test entrypoint: one pipeline pass against the
// same services the server mode uses, with a human-readable banner.
func Predict(canxCtx context.Context, svcs pipeline.ServicesFactory, predictor pipeline.Predictor) error {
	videoURL := os.Getenv("TEST_VIDEO_URL")
	if videoURL == "" || strings.Contains(videoURL, "INSERT") {
		color.Red("TEST_VIDEO_URL must be set to a valid video URL to test.")
		return fmt.Errorf("no test video URL provided")
	}

	color.Cyan("Starting test run on: %s", videoURL)

	errorStream := make(chan interface{}, 10)
	statsStream := make(chan interface{}, 10)

	result := predictor(canxCtx, svcs, videoURL, errorStream, statsStream)

	banner := strings.Repeat("=", 40)
	fmt.Println(banner)
	if result.Err != "" {
		color.Red("ERROR: %s", result.Err)
	} else {
		color.Green("LVEF: %.2f %s", result.LVEF, result.Units)
		if svcs.InferenceSvc.TestMode() {
			color.Yellow("(test mode: score is not clinically meaningful)")
		}
	}
	fmt.Println(banner)

	// Drain anything the pipeline reported so it lands in the data store
	for {
		select {
		case err := <-errorStream:
			procError(svcs.DataSvc, err)
		case stats := <-statsStream:
			procStats(svcs.DataSvc, stats)
		default:
			return nil
		}
	}
}
