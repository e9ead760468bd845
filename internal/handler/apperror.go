package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidPlan     = &AppError{http.StatusBadRequest, "INVALID_PLAN", `Invalid plan type. Must be "basic" or "premium"`}
	ErrPaymentProvider = &AppError{http.StatusBadRequest, "PAYMENT_PROVIDER_ERROR", "Payment system error. Please try again."}
)
