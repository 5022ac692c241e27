package domain

import "errors"

var (
	ErrPlanNotFound      = errors.New("plan not found")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrNoDevices         = errors.New("no devices available for planning")
	ErrUnknownDevice     = errors.New("unknown device")
	ErrInvalidRequest    = errors.New("invalid request")
)
