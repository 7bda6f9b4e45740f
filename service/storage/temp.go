package storage

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/khaledhikmat/lvef-go/service/config"
)

// Resource is an exclusively-owned handle to scratch storage holding one
// request's video bytes. The owner must call Release on every exit path;
// Release is idempotent so layered defers stay safe.
type Resource struct {
	path        string
	file        *os.File
	releaseOnce sync.Once
	releaseErr  error
}

func (r *Resource) Path() string {
	return r.path
}

// Write streams the reader into the backing file and closes it for
// writing. The path remains readable until Release.
func (r *Resource) Write(reader io.Reader) (int64, error) {
	if r.file == nil {
		return 0, fmt.Errorf("resource %s is not open for writing", r.path)
	}

	n, err := io.Copy(r.file, reader)
	closeErr := r.file.Close()
	r.file = nil
	if err != nil {
		return n, err
	}
	return n, closeErr
}

// Release frees the backing storage. Exactly one removal happens no
// matter how many times it is called.
func (r *Resource) Release() error {
	r.releaseOnce.Do(func() {
		if r.file != nil {
			r.file.Close()
			r.file = nil
		}
		r.releaseErr = os.Remove(r.path)
	})
	return r.releaseErr
}

type tempService struct {
	CfgSvc config.IService
}

func NewTemp(cfgsvc config.IService) IService {
	return &tempService{
		CfgSvc: cfgsvc,
	}
}

func (svc *tempService) Allocate(pattern string) (*Resource, error) {
	folder := svc.CfgSvc.GetScratchFolder()
	if err := os.MkdirAll(folder, 0755); err != nil {
		return nil, err
	}

	file, err := os.CreateTemp(folder, pattern)
	if err != nil {
		return nil, err
	}

	return &Resource{
		path: file.Name(),
		file: file,
	}, nil
}
