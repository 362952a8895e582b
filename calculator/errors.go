package calculator

import (
	"errors"

	"dhe/model"
)

var (
	ErrEmptyLayerList     = errors.New("calculator: empty soil layer list")
	ErrSpacingOutOfRange  = errors.New("calculator: exchanger spacing out of range")
	ErrConvergenceFailure = errors.New("calculator: sink temperature did not converge")
	ErrStopped            = errors.New("calculator: stopped")
	ErrInvalidConfig      = model.ErrInvalidConfig
)
