package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

const (
	defaultWebhookTolerance = 5 * time.Minute
	defaultBreakerFailures  = 5
)

// sessionCreator создание checkout-сессии (*checkoutsession.Client)
type sessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Client клиент платежного провайдера (Stripe Checkout)
type Client struct {
	sessions         sessionCreator
	breaker          *gobreaker.CircuitBreaker[*stripe.CheckoutSession]
	webhookSecret    string
	webhookTolerance time.Duration
	successURL       string
	cancelURL        string
	sessionTTL       time.Duration
	now              func() time.Time
	log              Logger
}

// NewClient создает новый экземпляр клиента платежей
func NewClient(cfg Config, log Logger) *Client {
	sessions := &checkoutsession.Client{
		B:   stripe.GetBackend(stripe.APIBackend),
		Key: cfg.SecretKey,
	}
	return newClient(cfg, sessions, log)
}

func newClient(cfg Config, sessions sessionCreator, log Logger) *Client {
	tolerance := cfg.WebhookTolerance
	if tolerance <= 0 {
		tolerance = defaultWebhookTolerance
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = defaultBreakerFailures
	}

	breaker := gobreaker.NewCircuitBreaker[*stripe.CheckoutSession](gobreaker.Settings{
		Name:        "stripe-checkout",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Payments: circuit breaker %s changed state from=%s, to=%s", name, from.String(), to.String())
		},
	})

	return &Client{
		sessions:         sessions,
		breaker:          breaker,
		webhookSecret:    cfg.WebhookSecret,
		webhookTolerance: tolerance,
		successURL:       cfg.SuccessURL,
		cancelURL:        cfg.CancelURL,
		sessionTTL:       cfg.SessionTTL,
		now:              time.Now,
		log:              log,
	}
}

// CreateCheckout открывает платежную сессию на сумму бронирования
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if req.BookingID <= 0 || req.AmountOre <= 0 || req.Currency == "" {
		return nil, fmt.Errorf("%w: booking_id=%d, amount=%d, currency=%q",
			ErrInvalidRequest, req.BookingID, req.AmountOre, req.Currency)
	}

	params, err := c.checkoutParams(ctx, req)
	if err != nil {
		return nil, err
	}

	session, err := c.breaker.Execute(func() (*stripe.CheckoutSession, error) {
		return c.sessions.New(params)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.log.Warn("Payments: checkout skipped, provider unavailable: booking=%d", req.BookingID)
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if err != nil {
		c.log.Error("Payments: failed to create checkout: booking=%d, err=%v", req.BookingID, err)
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}

	c.log.Info("Payments: checkout created: booking=%d, session=%s", req.BookingID, session.ID)

	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (c *Client) checkoutParams(ctx context.Context, req CheckoutRequest) (*stripe.CheckoutSessionParams, error) {
	bookingID := strconv.FormatInt(req.BookingID, 10)

	successURL, err := withBookingID(c.successURL, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: success url: %v", ErrInvalidRequest, err)
	}
	cancelURL, err := withBookingID(c.cancelURL, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: cancel url: %v", ErrInvalidRequest, err)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(cancelURL),
		ClientReferenceID: stripe.String(bookingID),
		Locale:            stripe.String(string(req.Locale)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(req.AmountOre),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
			},
		},
	}

	if req.CustomerEmail != nil && *req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(*req.CustomerEmail)
	}
	if c.sessionTTL > 0 {
		params.ExpiresAt = stripe.Int64(c.now().Add(c.sessionTTL).Unix())
	}

	params.Context = ctx
	params.AddMetadata(metadataBookingID, bookingID)
	params.IdempotencyKey = stripe.String(uuid.NewString())

	return params, nil
}

// ParseWebhookEvent проверяет подпись и разбирает событие провайдера
func (c *Client) ParseWebhookEvent(payload []byte, signature string) (*Event, error) {
	if c.webhookSecret == "" {
		return nil, ErrWebhookNotConfigured
	}

	evt, err := webhook.ConstructEventWithTolerance(payload, signature, c.webhookSecret, c.webhookTolerance)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	event := &Event{ID: evt.ID, Type: string(evt.Type)}

	if !strings.HasPrefix(event.Type, "checkout.session.") {
		return event, nil
	}
	if evt.Data == nil {
		return nil, fmt.Errorf("%w: event %s has no data", ErrInvalidPayload, evt.ID)
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(evt.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: checkout session: %v", ErrInvalidPayload, err)
	}

	event.SessionID = session.ID
	event.Paid = session.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid

	ref := session.ClientReferenceID
	if ref == "" {
		ref = session.Metadata[metadataBookingID]
	}
	if ref != "" {
		id, err := strconv.ParseInt(ref, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: booking reference %q", ErrInvalidPayload, ref)
		}
		event.BookingID = id
	}

	return event, nil
}

// withBookingID добавляет booking_id в query строки URL возврата
func withBookingID(raw, bookingID string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(metadataBookingID, bookingID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
