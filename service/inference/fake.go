package inference

import "github.com/khaledhikmat/lvef-go/model"

type fakeService struct {
	score float64
	err   error
}

func NewFake() IService {
	return &fakeService{
		score: 50.0,
	}
}

func NewFakeWithResult(score float64, err error) IService {
	return &fakeService{
		score: score,
		err:   err,
	}
}

func (svc *fakeService) Predict(_ model.InputTensor) (float64, error) {
	if svc.err != nil {
		return 0, svc.err
	}
	return svc.score, nil
}

func (svc *fakeService) TestMode() bool {
	return true
}

func (svc *fakeService) Close() error {
	return nil
}
