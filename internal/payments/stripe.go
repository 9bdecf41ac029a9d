// Package payments wraps the Stripe integration: Checkout session creation
// at purchase initiation and signature-verified webhook events on the way
// back. The rest of the server only ever sees purchase ids.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"coursely/internal/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// EventKind classifies a webhook delivery for the enrollment ledger.
type EventKind int

const (
	// EventIgnored is a webhook event the ledger has no interest in.
	EventIgnored EventKind = iota
	// EventCompleted is a verified payment completion.
	EventCompleted
	// EventFailed is a checkout that expired or failed.
	EventFailed
)

// Event is a webhook delivery reduced to what the ledger needs.
type Event struct {
	Kind       EventKind
	PurchaseID string
}

// Config carries the Stripe keys and the storefront redirect targets.
type Config struct {
	APIKey        string
	WebhookSecret string
	Currency      string
	SuccessURL    string
	CancelURL     string
}

// Client creates Checkout sessions and parses webhook payloads.
type Client struct {
	api *client.API
	cfg Config
}

func NewClient(cfg Config) *Client {
	return &Client{
		api: client.New(cfg.APIKey, nil),
		cfg: cfg,
	}
}

// CreateCheckoutSession opens a Checkout session for a pending purchase and
// returns the URL the storefront should redirect the buyer to. The purchase
// id travels in the session metadata and comes back on the webhook.
func (c *Client) CreateCheckoutSession(ctx context.Context, purchase *models.Purchase, course *models.Course) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(c.cfg.SuccessURL),
		CancelURL:  stripe.String(c.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(c.cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(course.Title),
					},
					UnitAmount: stripe.Int64(int64(math.Round(purchase.Amount * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("purchaseId", purchase.ID)

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("error creating checkout session: %v", err)
	}
	return session.URL, nil
}

// ParseWebhookEvent verifies a webhook payload's signature and reduces it
// to an Event. Payloads with a bad signature return an error; event types
// the ledger does not care about come back as EventIgnored.
func (c *Client) ParseWebhookEvent(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.cfg.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("error verifying webhook signature: %v", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		purchaseID, err := purchaseIDFromSession(event.Data.Raw)
		if err != nil {
			return nil, err
		}
		return &Event{Kind: EventCompleted, PurchaseID: purchaseID}, nil
	case "checkout.session.expired":
		purchaseID, err := purchaseIDFromSession(event.Data.Raw)
		if err != nil {
			return nil, err
		}
		return &Event{Kind: EventFailed, PurchaseID: purchaseID}, nil
	default:
		return &Event{Kind: EventIgnored}, nil
	}
}

func purchaseIDFromSession(raw json.RawMessage) (string, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return "", fmt.Errorf("error parsing checkout session: %v", err)
	}

	purchaseID := session.Metadata["purchaseId"]
	if purchaseID == "" {
		return "", fmt.Errorf("checkout session %v has no purchaseId metadata", session.ID)
	}
	return purchaseID, nil
}
