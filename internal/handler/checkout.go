package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/domain"
	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/logging"
	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/service"
)

type checkoutService interface {
	CreateSession(ctx context.Context, req service.CheckoutRequest) (*service.CheckoutSession, error)
	VerifySession(ctx context.Context, sessionID string) (*service.PaymentVerification, error)
}

type CheckoutHandler struct {
	checkout checkoutService
}

func NewCheckoutHandler(checkout checkoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type createCheckoutRequest struct {
	PlanType      string `json:"plan_type"`
	SuccessURL    string `json:"success_url"`
	CancelURL     string `json:"cancel_url"`
	CustomerEmail string `json:"customer_email"`
	AppVersion    string `json:"app_version"`
	UserID        string `json:"user_id"`
}

func (p createCheckoutRequest) validate() []FieldError {
	var errs []FieldError

	if !domain.PlanType(p.PlanType).IsValid() {
		errs = append(errs, FieldError{Field: "plan_type", Message: "must be basic or premium"})
	}

	return errs
}

type createCheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
	PlanType    string `json:"plan_type"`
}

func (h *CheckoutHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var payload createCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	// plan_type is optional, premium is the default
	if payload.PlanType == "" {
		payload.PlanType = string(domain.PlanPremium)
	}
	payload.PlanType = strings.ToLower(payload.PlanType)

	if fields := payload.validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	sess, err := h.checkout.CreateSession(r.Context(), service.CheckoutRequest{
		PlanType:      domain.PlanType(payload.PlanType),
		SuccessURL:    payload.SuccessURL,
		CancelURL:     payload.CancelURL,
		CustomerEmail: payload.CustomerEmail,
		AppVersion:    payload.AppVersion,
		UserID:        payload.UserID,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("checkout session creation failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, createCheckoutResponse{
		CheckoutURL: sess.CheckoutURL,
		SessionID:   sess.SessionID,
		PlanType:    string(sess.PlanType),
	})
}

type verifyPaymentRequest struct {
	SessionID string `json:"session_id"`
}

type verifyPaymentResponse struct {
	Paid          bool   `json:"paid"`
	PaymentStatus string `json:"payment_status"`
	CustomerEmail string `json:"customer_email,omitempty"`
	PlanType      string `json:"plan_type"`
}

func (h *CheckoutHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var payload verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if payload.SessionID == "" {
		RespondValidationError(w, []FieldError{{Field: "session_id", Message: "required"}})
		return
	}

	verification, err := h.checkout.VerifySession(r.Context(), payload.SessionID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("payment verification failed",
			"session_id", payload.SessionID,
			"error", err,
		)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, verifyPaymentResponse{
		Paid:          verification.Paid,
		PaymentStatus: verification.PaymentStatus,
		CustomerEmail: verification.CustomerEmail,
		PlanType:      verification.PlanType,
	})
}
