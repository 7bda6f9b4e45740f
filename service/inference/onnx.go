package inference

import (
	"log/slog"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/khaledhikmat/lvef-go/model"
	"github.com/khaledhikmat/lvef-go/service/config"
	"github.com/khaledhikmat/lvef-go/service/lgr"
)

type onnxService struct {
	CfgSvc config.IService

	// WARNING: net is not thread-safe!!!
	// The lock serializes forward passes; the orchestration layer
	// scales by running more containers, not more in-flight requests.
	lock     sync.Mutex
	net      gocv.Net
	testMode bool
}

// NewONNX performs the cold-start routine: resolve the compute target
// once, load the network from the configured weights path and bind it to
// the target. A missing weights file is a degraded success (test mode)
// so a misconfigured deployment still answers with syntactically valid
// scores. A weights file that exists but fails to load is fatal; the
// process must not serve.
func NewONNX(cfgsvc config.IService) (IService, error) {
	svc := &onnxService{
		CfgSvc: cfgsvc,
	}

	weightsPath := cfgsvc.GetWeightsPath()
	if _, err := os.Stat(weightsPath); os.IsNotExist(err) {
		lgr.Logger.Warn("no model weights found, serving in test mode",
			slog.String("weightsPath", weightsPath),
		)
		svc.testMode = true
		return svc, nil
	}

	net, err := readNetwork(weightsPath)
	if err != nil {
		return nil, err
	}

	backend, target := resolveComputeTarget(cfgsvc.GetComputeTarget())
	if err := net.SetPreferableBackend(backend); err != nil {
		net.Close()
		return nil, model.GenPipelineError(model.KindInitialization, err,
			"error setting network backend")
	}
	if err := net.SetPreferableTarget(target); err != nil {
		// Fall back to CPU rather than refuse traffic on a box without
		// the accelerated target.
		lgr.Logger.Warn("falling back to CPU target",
			slog.Any("error", err),
		)
		if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
			net.Close()
			return nil, model.GenPipelineError(model.KindInitialization, err,
				"error setting CPU network target")
		}
	}

	lgr.Logger.Info("model context initialized",
		slog.String("weightsPath", weightsPath),
		slog.String("computeTarget", cfgsvc.GetComputeTarget()),
		slog.String("openCV", gocv.Version()),
	)

	svc.net = net
	return svc, nil
}

// readNetwork loads the network off disk. OpenCV faults on a malformed
// model file, so the load is recovered into an initialization error; a
// weights file that exists but cannot be parsed must fail cold start,
// never degrade to test mode.
func readNetwork(weightsPath string) (net gocv.Net, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = model.GenPipelineError(model.KindInitialization, nil,
				"recovered from model network load fault: %v", r)
		}
	}()

	net = gocv.ReadNet(weightsPath, "")
	if net.Empty() {
		err = model.GenPipelineError(model.KindInitialization, nil,
			"error reading model network from %s", weightsPath)
	}
	return
}

func resolveComputeTarget(tier string) (gocv.NetBackendType, gocv.NetTargetType) {
	if tier == "cuda" {
		return gocv.NetBackendCUDA, gocv.NetTargetCUDA
	}
	return gocv.NetBackendDefault, gocv.NetTargetCPU
}

// Predict runs one forward pass and extracts the scalar regression head.
// Device-side mats are closed on every path and faults are recovered so
// a bad tensor never takes down the warm process.
func (svc *onnxService) Predict(tensor model.InputTensor) (result float64, err error) {
	if svc.testMode {
		return testModeScore(tensor), nil
	}

	svc.lock.Lock()
	defer svc.lock.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = model.GenPipelineError(model.KindInference, nil,
				"recovered from forward pass fault: %v", r)
		}
	}()

	blob := gocv.NewMatWithSizes(tensor.Dims, gocv.MatTypeCV32F)
	defer blob.Close()

	data, derr := blob.DataPtrFloat32()
	if derr != nil {
		return 0, model.GenPipelineError(model.KindInference, derr,
			"error binding input tensor")
	}
	if len(data) != len(tensor.Data) {
		return 0, model.GenPipelineError(model.KindInference, nil,
			"input tensor size mismatch: blob %d vs tensor %d", len(data), len(tensor.Data))
	}
	copy(data, tensor.Data)

	svc.net.SetInput(blob, "")

	output := svc.net.Forward("")
	defer output.Close()

	if output.Empty() || output.Total() < 1 {
		return 0, model.GenPipelineError(model.KindInference, nil,
			"network produced no output")
	}

	scores, serr := output.DataPtrFloat32()
	if serr != nil || len(scores) < 1 {
		return 0, model.GenPipelineError(model.KindInference, serr,
			"error reading network output")
	}

	return float64(scores[0]), nil
}

func (svc *onnxService) TestMode() bool {
	return svc.testMode
}

func (svc *onnxService) Close() error {
	if svc.testMode {
		return nil
	}
	return svc.net.Close()
}

// testModeScore stands in for the randomly-initialized network of a
// weightless deployment: deterministic, finite, meaningless.
func testModeScore(tensor model.InputTensor) float64 {
	if len(tensor.Data) == 0 {
		return 0
	}

	var sum float64
	for _, v := range tensor.Data {
		sum += float64(v)
	}
	mean := sum / float64(len(tensor.Data))

	score := mean * 100.0
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
