package domain

import "errors"

var (
	ErrUnknownPlan     = errors.New("unknown plan type")
	ErrPaymentProvider = errors.New("payment provider request failed")
	ErrInvalidRequest  = errors.New("invalid request")
)
