package services

import "errors"

var (
	// Bounded search failure modes. They are recovered with a straight-line
	// fallback and never leave CalcDeliveryPath.
	ErrSearchTimeout     = errors.New("path search timed out")
	ErrSearchInterrupted = errors.New("path search interrupted")
	ErrSearchExecution   = errors.New("path search failed")

	// ErrInvalidPlanInput marks structurally malformed planning input.
	ErrInvalidPlanInput = errors.New("invalid plan input")

	ErrDroneNotFound = errors.New("drone not found")
)
