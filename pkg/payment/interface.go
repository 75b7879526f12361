package payment

import "context"

// Gateway abstracts the recurring-billing providers. Checkout and plan
// lifecycle only; one-off charges are not part of the product.
type Gateway interface {
	Name() string
	CreateCustomer(ctx context.Context, request *CustomerRequest) (*Customer, error)
	CreateSubscription(ctx context.Context, request *SubscriptionRequest) (*SubscriptionResponse, error)
	CancelSubscription(ctx context.Context, subscriptionRef string, atPeriodEnd bool) error
	ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)
}

type CustomerRequest struct {
	Email    string            `json:"email"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type Customer struct {
	Ref   string `json:"ref"`
	Email string `json:"email"`
}

type SubscriptionRequest struct {
	CustomerRef string            `json:"customer_ref"`
	PlanRef     string            `json:"plan_ref"`
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type SubscriptionResponse struct {
	Ref              string `json:"ref"`
	Status           string `json:"status"`
	ClientSecret     string `json:"client_secret,omitempty"`
	CurrentPeriodEnd int64  `json:"current_period_end"`
}

type WebhookEventType string

const (
	EventSubscriptionUpdated  WebhookEventType = "subscription.updated"
	EventSubscriptionCanceled WebhookEventType = "subscription.canceled"
	EventPaymentFailed        WebhookEventType = "payment.failed"
	EventIgnored              WebhookEventType = "ignored"
)

type WebhookEvent struct {
	ID               string           `json:"id"`
	Type             WebhookEventType `json:"type"`
	SubscriptionRef  string           `json:"subscription_ref"`
	CustomerRef      string           `json:"customer_ref"`
	CurrentPeriodEnd int64            `json:"current_period_end"`
	RawType          string           `json:"raw_type"`
}
