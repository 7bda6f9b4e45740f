package mode

import (
	"context"
	"log/slog"

	"github.com/khaledhikmat/lvef-go/model"
	"github.com/khaledhikmat/lvef-go/pipeline"
	"github.com/khaledhikmat/lvef-go/service/data"
	"github.com/khaledhikmat/lvef-go/service/lgr"
)

type Processor func(canxCtx context.Context,
	svcs pipeline.ServicesFactory,
	predictor pipeline.Predictor) error

func procStats(datasvc data.IService, stats interface{}) {
	switch stats := stats.(type) {
	case model.ServerStats:
		procServerStats(datasvc, stats)
	case model.RequestStats:
		procRequestStats(datasvc, stats)
	default:
		lgr.Logger.Error(
			"unknown stats type",
			slog.Any("stats", stats),
		)
	}
}

func procServerStats(datasvc data.IService, stats model.ServerStats) {
	err := datasvc.NewServerStats(stats)
	if err != nil {
		lgr.Logger.Error(
			"failed to store server stats",
			slog.Any("stats", stats),
			slog.Any("error", err),
		)
	}
}

func procRequestStats(datasvc data.IService, stats model.RequestStats) {
	err := datasvc.NewRequestStats(stats)
	if err != nil {
		lgr.Logger.Error(
			"failed to store request stats",
			slog.Any("stats", stats),
			slog.Any("error", err),
		)
	}
}

func procError(datasvc data.IService, err interface{}) {
	errTemp := datasvc.NewError(err)
	if errTemp != nil {
		lgr.Logger.Error(
			"failed to store error",
			slog.Any("error", errTemp),
		)
	}
}
