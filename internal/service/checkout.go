package service

import (
	"context"
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/config"
	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/domain"
	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/logging"
)

type stripeCheckoutAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// CheckoutService brokers Stripe Checkout Sessions for the plan catalog.
type CheckoutService struct {
	sessions   stripeCheckoutAPI
	prices     map[domain.PlanType]string
	successURL string
	cancelURL  string
}

func NewCheckoutService(api *client.API, cfg *config.Config) *CheckoutService {
	return &CheckoutService{
		sessions: api.CheckoutSessions,
		prices: map[domain.PlanType]string{
			domain.PlanBasic:   cfg.PriceIDBasic,
			domain.PlanPremium: cfg.PriceIDPremium,
		},
		successURL: cfg.DefaultSuccessURL,
		cancelURL:  cfg.DefaultCancelURL,
	}
}

type CheckoutRequest struct {
	PlanType      domain.PlanType
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	AppVersion    string
	UserID        string
}

type CheckoutSession struct {
	SessionID   string
	CheckoutURL string
	PlanType    domain.PlanType
}

func (s *CheckoutService) CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	priceID, ok := s.prices[req.PlanType]
	if !ok {
		return nil, fmt.Errorf("CreateSession: %q: %w", req.PlanType, domain.ErrUnknownPlan)
	}

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = s.successURL
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = s.cancelURL
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("plan_type", string(req.PlanType))
	params.AddMetadata("app_version", valueOr(req.AppVersion, "unknown"))
	params.AddMetadata("user_id", valueOr(req.UserID, "anonymous"))
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	sess, err := s.sessions.New(params)
	if err != nil {
		return nil, providerError("CreateSession", err)
	}

	logging.FromContext(ctx).Info("checkout session created",
		"session_id", sess.ID,
		"plan_type", req.PlanType,
	)

	return &CheckoutSession{
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
		PlanType:    req.PlanType,
	}, nil
}

type PaymentVerification struct {
	Paid          bool
	PaymentStatus string
	CustomerEmail string
	PlanType      string
}

func (s *CheckoutService) VerifySession(ctx context.Context, sessionID string) (*PaymentVerification, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := s.sessions.Get(sessionID, params)
	if err != nil {
		return nil, providerError("VerifySession", err)
	}

	verification := &PaymentVerification{
		Paid:          sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		PaymentStatus: string(sess.PaymentStatus),
		PlanType:      valueOr(sess.Metadata["plan_type"], "unknown"),
	}
	if sess.CustomerDetails != nil {
		verification.CustomerEmail = sess.CustomerDetails.Email
	}

	if verification.Paid {
		logging.FromContext(ctx).Info("payment verified", "session_id", sessionID)
	}

	return verification, nil
}

// providerError folds Stripe SDK failures into the ErrPaymentProvider
// sentinel so handlers never echo SDK detail back to the caller.
func providerError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return fmt.Errorf("%s: stripe %s: %w", op, stripeErr.Code, domain.ErrPaymentProvider)
	}
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrPaymentProvider)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
