package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	xerrors "github.com/mdobak/go-xerrors"

	"github.com/khaledhikmat/lvef-go/mode"
	"github.com/khaledhikmat/lvef-go/pipeline"
	"github.com/khaledhikmat/lvef-go/service/config"
	"github.com/khaledhikmat/lvef-go/service/data"
	"github.com/khaledhikmat/lvef-go/service/inference"
	"github.com/khaledhikmat/lvef-go/service/lgr"
	"github.com/khaledhikmat/lvef-go/service/storage"
	"github.com/khaledhikmat/lvef-go/service/webhook"
)

const (
	// WARNING: this has to be bigger than the mode processor shutdown time
	waitOnShutdown = 8 * time.Second
)

var modeProcessors = map[string]mode.Processor{
	"server":  mode.Server,
	"predict": mode.Predict,
	"weights": mode.Weights,
}

func main() {
	rootCtx := context.Background()
	canxCtx, canxFn := context.WithCancel(rootCtx)

	// Hook up a signal handler to cancel the context
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		lgr.Logger.Info(
			"received kill signal",
			slog.Any("signal", sig),
		)
		canxFn()
	}()

	// Load env vars if we are in DEV mode
	if os.Getenv("RUN_TIME_ENV") == "dev" || os.Getenv("RUN_TIME_ENV") == "" {
		lgr.Logger.Info("loading env vars from .env file")
		err := godotenv.Load()
		if err != nil {
			lgr.Logger.Warn("error loading .env file", slog.Any("error", xerrors.New(err.Error())))
		}
	}

	modeType := "server"
	args := os.Args[1:]
	if len(args) > 0 {
		modeType = args[0]
	}

	modeProc, ok := modeProcessors[modeType]
	if !ok {
		lgr.Logger.Error("invalid mode", slog.String("mode", modeType))
		panic("invalid mode")
	}

	// Create the services needed for the mode processor
	// Config service
	var cfgSvc config.IService
	if settingsFile := os.Getenv("SETTINGS_FILE"); settingsFile != "" {
		var err error
		cfgSvc, err = config.NewFile(settingsFile)
		if err != nil {
			lgr.Logger.Error("error loading settings file", slog.Any("error", xerrors.New(err.Error())))
			panic("error loading settings file")
		}
	} else {
		cfgSvc = config.NewEnvVars()
	}
	// Data service
	dataSvc := data.NewFilesDB(cfgSvc)
	// Storage (scratch) service
	storageSvc := storage.NewTemp(cfgSvc)
	// Webhook service
	webhookSvc := webhook.NewHTTP(cfgSvc)

	// Cold start: initialize the model context exactly once, before any
	// request is served. Initialization failures are fatal; missing
	// weights are not (the context degrades to test mode instead).
	inferenceSvc, err := inference.NewONNX(cfgSvc)
	if err != nil {
		lgr.Logger.Error("error initializing model context", slog.Any("error", xerrors.New(err.Error())))
		panic("error initializing model context")
	}
	defer inferenceSvc.Close()

	svcs := pipeline.ServicesFactory{
		CfgSvc:       cfgSvc,
		DataSvc:      dataSvc,
		StorageSvc:   storageSvc,
		InferenceSvc: inferenceSvc,
		WebhookSvc:   webhookSvc,
	}

	// Create mode processor result
	modeProcResult := make(chan error)
	defer close(modeProcResult)

	// Start the mode processor
	go func() {
		modeProcResult <- modeProc(canxCtx, svcs, pipeline.Predict)
	}()

	// Wait for cancellation, mode proc or error
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"inference pod context cancelled",
			)
			goto resume

		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"inference pod mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
			goto resume
		}
	}

	// Wait in a non-blocking way for `waitOnShutdown` for all the go routines to exit
	// This is needed because the go routines may need to report errors as they are exiting
resume:
	// Cancel the context if not already cancelled
	if canxCtx.Err() == nil {
		// Force cancel the context
		canxFn()
	}

	lgr.Logger.Info(
		"inference pod is waiting for all go routines to exit",
	)

	// The only way to exit the main function is to wait for the shutdown
	// duration
	timer := time.NewTimer(waitOnShutdown)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			// Timer expired, proceed with shutdown
			lgr.Logger.Info(
				"inference pod shutdown waiting period expired. Exiting now",
				slog.Duration("period", waitOnShutdown),
			)

			return

		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"inference pod mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
		}
	}
}
