package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	xerrors "github.com/mdobak/go-xerrors"
	"github.com/natefinch/lumberjack"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/khaledhikmat/lvef-go/model"
	"github.com/khaledhikmat/lvef-go/service/lgr"
)

const coalescedErrorMessage = "Inference failed during processing."

var tracer trace.Tracer = otel.Tracer("lvef-go/pipeline")

// Global request log instance
var requestLogger = &lumberjack.Logger{
	Filename:   "requests.log",
	MaxSize:    10, // MB
	MaxBackups: 5,
	MaxAge:     7,    // days
	Compress:   true, // compress old logs
}

var requestLogOnce sync.Once

// Predict runs one request through acquire -> decode -> assemble ->
// forward pass against the shared model context. Exactly one scratch
// resource is allocated and exactly one is released on every exit path;
// every per-request failure is converted into a structured result here
// and never escapes as a crash.
func Predict(canxCtx context.Context, svcs ServicesFactory, videoURL string, errorStream chan interface{}, statsStream chan interface{}) model.PredictionResult {
	requestID := uuid.NewString()
	started := time.Now()

	requestLogOnce.Do(func() {
		if f := svcs.CfgSvc.GetRequestLogFile(); f != "" {
			requestLogger.Filename = f
		}
	})

	ctx, span := tracer.Start(canxCtx, "pipeline.predict")
	defer span.End()

	lgr.Logger.Info("predict request starting...",
		slog.String("requestID", requestID),
		slog.String("videoURL", videoURL),
	)

	stats := model.RequestStats{
		ID: requestID,
	}

	result, stageErr := run(ctx, svcs, videoURL, &stats)

	stats.TotalTime = time.Since(started).Seconds()
	if result.Err == "" {
		stats.Status = "success"
	} else {
		stats.Status = "error"
		stats.Kind = string(result.Kind)
	}

	if stageErr != nil {
		select {
		case errorStream <- model.GenError("pipeline_predict",
			stageErr,
			map[string]interface{}{"requestId": requestID},
			"predict request failed"):
		default:
			lgr.Logger.Warn("errorStream full, dropping error")
		}
	}

	// WARNING: We need a non-blocking send so a stalled consumer can
	// never wedge the request path
	select {
	case statsStream <- stats:
	default:
		lgr.Logger.Warn("statsStream full, dropping request stats")
	}

	logRequest(stats)
	notify(svcs, stats, result)

	return result
}

func run(ctx context.Context, svcs ServicesFactory, videoURL string, stats *model.RequestStats) (model.PredictionResult, error) {
	stageStart := time.Now()
	_, acquireSpan := tracer.Start(ctx, "pipeline.acquire")
	resource, err := acquire(ctx, svcs, videoURL)
	acquireSpan.End()
	stats.AcquireTime = time.Since(stageStart).Seconds()
	if err != nil {
		return resultFromError(err), err
	}
	// Scoped-acquisition contract: the scratch bytes are gone on every
	// exit path below, success or failure.
	defer func() {
		if rerr := resource.Release(); rerr != nil {
			lgr.Logger.Warn("error releasing scratch resource",
				slog.Any("error", rerr),
			)
		}
	}()

	stageStart = time.Now()
	_, decodeSpan := tracer.Start(ctx, "pipeline.decode")
	frames, err := decode(svcs, resource)
	decodeSpan.End()
	stats.DecodeTime = time.Since(stageStart).Seconds()
	if err != nil {
		return resultFromError(err), err
	}
	stats.Frames = len(frames)

	tensor, err := assemble(frames)
	if err != nil {
		return resultFromError(err), err
	}

	stageStart = time.Now()
	_, inferSpan := tracer.Start(ctx, "pipeline.infer")
	score, err := svcs.InferenceSvc.Predict(tensor)
	inferSpan.End()
	stats.InferTime = time.Since(stageStart).Seconds()
	if err != nil {
		return resultFromError(err), err
	}

	return model.PredictionResult{
		Status: "success",
		LVEF:   score,
		Units:  "%",
	}, nil
}

// resultFromError converts a stage failure into the caller-visible
// shape. Download failures surface their cause; decode and inference
// failures coalesce into one generic message on the wire while the kind
// stays distinct for logs and stats.
func resultFromError(err error) model.PredictionResult {
	var perr *model.PipelineError
	if !errors.As(err, &perr) {
		return model.PredictionResult{
			Err:  coalescedErrorMessage,
			Kind: model.KindInference,
		}
	}

	lgr.Logger.Error("predict request failed",
		slog.String("kind", string(perr.Kind)),
		slog.Any("error", xerrors.New(err.Error())),
	)

	if perr.Kind == model.KindDownload {
		return model.PredictionResult{
			Err:  perr.Message,
			Kind: perr.Kind,
		}
	}

	return model.PredictionResult{
		Err:  coalescedErrorMessage,
		Kind: perr.Kind,
	}
}

func logRequest(stats model.RequestStats) {
	entry := map[string]interface{}{
		"time":    time.Now().Format(time.RFC3339),
		"request": stats,
	}

	jsonData, err := json.MarshalIndent(entry, "", "  ") // pretty-print
	if err != nil {
		fmt.Println("Error marshaling request stats:", err)
		return
	}

	if _, err := requestLogger.Write(append(jsonData, '\n')); err != nil {
		fmt.Println("Error writing to request log file:", err)
	}
}

func notify(svcs ServicesFactory, stats model.RequestStats, result model.PredictionResult) {
	if svcs.WebhookSvc == nil || svcs.CfgSvc.GetResultWebhookURL() == "" {
		return
	}

	payload := map[string]interface{}{
		"requestId": stats.ID,
		"status":    stats.Status,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if result.Err != "" {
		payload["error"] = result.Err
	}

	if err := svcs.WebhookSvc.Post(payload); err != nil {
		lgr.Logger.Warn("error posting result webhook",
			slog.Any("error", err),
		)
	}
}
