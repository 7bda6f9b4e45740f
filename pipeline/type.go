package pipeline

import (
	"context"

	"github.com/khaledhikmat/lvef-go/model"
	"github.com/khaledhikmat/lvef-go/service/config"
	"github.com/khaledhikmat/lvef-go/service/data"
	"github.com/khaledhikmat/lvef-go/service/inference"
	"github.com/khaledhikmat/lvef-go/service/storage"
	"github.com/khaledhikmat/lvef-go/service/webhook"
)

type ServicesFactory struct {
	CfgSvc       config.IService
	DataSvc      data.IService
	StorageSvc   storage.IService
	InferenceSvc inference.IService
	WebhookSvc   webhook.IService
}

// Signature of predictor function
type Predictor func(canx context.Context, svcs ServicesFactory, videoURL string, errorStream chan interface{}, statsStream chan interface{}) model.PredictionResult
