package storage

type IService interface {
	Allocate(pattern string) (*Resource, error)
}
