package mode

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/khaledhikmat/lvef-go/model"
	"github.com/khaledhikmat/lvef-go/pipeline"
	"github.com/khaledhikmat/lvef-go/service/lgr"
)

var serverStatsPeriod = 60 * time.Second

// Server exposes the predict pipeline over HTTP. The model context in
// svcs was initialized before this processor starts; if cold start had
// failed the process would never have reached here.
func Server(canxCtx context.Context, svcs pipeline.ServicesFactory, predictor pipeline.Predictor) error {
	// WARNING: buffered so a request is never blocked on a slow consumer
	errorStream := make(chan interface{}, 100)
	statsStream := make(chan interface{}, 100)

	h := newHandler(canxCtx, svcs, predictor, errorStream, statsStream)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", svcs.CfgSvc.GetAPIPort()),
		Handler: h,
	}

	serverResult := make(chan error, 1)
	go func() {
		lgr.Logger.Info("server starting...",
			slog.String("addr", server.Addr),
			slog.Bool("testMode", svcs.InferenceSvc.TestMode()),
		)
		serverResult <- server.ListenAndServe()
	}()

	if err := serveLoop(canxCtx, svcs, serverResult, errorStream, statsStream); err != nil {
		return err
	}

	shutdownCtx, canxFn := context.WithTimeout(context.Background(),
		time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime())*time.Second)
	defer canxFn()

	if err := server.Shutdown(shutdownCtx); err != nil {
		lgr.Logger.Error("error shutting down server",
			slog.Any("error", err),
		)
	}

	return nil
}

// serveLoop consumes errors and stats and emits periodic server stats
// until cancellation or a server fault. The stats ticker is created once
// so steady request traffic can never starve the periodic emission.
func serveLoop(canxCtx context.Context, svcs pipeline.ServicesFactory, serverResult chan error, errorStream chan interface{}, statsStream chan interface{}) error {
	var serverStartTime = time.Now().Unix()
	serverStats := model.ServerStats{}

	statsTicker := time.NewTicker(serverStatsPeriod)
	defer statsTicker.Stop()

	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"server context cancelled",
			)
			return nil

		case err := <-serverResult:
			if err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil

		case err := <-errorStream:
			procError(svcs.DataSvc, err)

		case stats := <-statsStream:
			switch s := stats.(type) {
			case model.RequestStats:
				serverStats.Requests++
				if s.Status == "success" {
					serverStats.Successes++
				} else {
					serverStats.Failures++
				}
			}
			procStats(svcs.DataSvc, stats)

		case <-statsTicker.C:
			serverStats.Uptime = time.Now().Unix() - serverStartTime
			procStats(svcs.DataSvc, serverStats)
		}
	}
}
