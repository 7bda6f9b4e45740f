package webhook

import "github.com/khaledhikmat/lvef-go/service/config"

type fakeService struct {
	CfgSvc config.IService
}

func NewFake(cfgsvc config.IService) IService {
	return &fakeService{
		CfgSvc: cfgsvc,
	}
}

func (svc *fakeService) Post(_ map[string]interface{}) error {
	return nil
}
