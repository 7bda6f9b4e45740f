package data

import "github.com/khaledhikmat/lvef-go/model"

// Only operational errors and stats are persisted. Video bytes and
// prediction values never touch this service (non-retentive design).
type IService interface {
	NewError(err interface{}) error
	NewServerStats(stats model.ServerStats) error
	NewRequestStats(stats model.RequestStats) error
}
