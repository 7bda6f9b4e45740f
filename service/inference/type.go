package inference

import "github.com/khaledhikmat/lvef-go/model"

// IService is the long-lived model context: compute-target binding plus
// the loaded network. Constructed exactly once at cold start, read-only
// afterwards, shared by every request the process serves.
type IService interface {
	Predict(tensor model.InputTensor) (float64, error)
	TestMode() bool
	Close() error
}
