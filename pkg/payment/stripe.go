package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeGateway struct {
	client        *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &StripeGateway{
		client:        sc,
		webhookSecret: webhookSecret,
	}
}

func (s *StripeGateway) Name() string {
	return "stripe"
}

func (s *StripeGateway) CreateCustomer(ctx context.Context, request *CustomerRequest) (*Customer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(request.Email),
		Name:  stripe.String(request.Name),
	}
	for key, value := range request.Metadata {
		params.AddMetadata(key, value)
	}

	customer, err := s.client.Customers.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create stripe customer: %w", err)
	}

	return &Customer{Ref: customer.ID, Email: customer.Email}, nil
}

func (s *StripeGateway) CreateSubscription(ctx context.Context, request *SubscriptionRequest) (*SubscriptionResponse, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(request.CustomerRef),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(request.PlanRef)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
	}
	params.AddExpand("latest_invoice.payment_intent")
	for key, value := range request.Metadata {
		params.AddMetadata(key, value)
	}

	subscription, err := s.client.Subscriptions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create stripe subscription: %w", err)
	}

	response := &SubscriptionResponse{
		Ref:              subscription.ID,
		Status:           string(subscription.Status),
		CurrentPeriodEnd: subscription.CurrentPeriodEnd,
	}
	if subscription.LatestInvoice != nil && subscription.LatestInvoice.PaymentIntent != nil {
		response.ClientSecret = subscription.LatestInvoice.PaymentIntent.ClientSecret
	}

	return response, nil
}

func (s *StripeGateway) CancelSubscription(ctx context.Context, subscriptionRef string, atPeriodEnd bool) error {
	if atPeriodEnd {
		_, err := s.client.Subscriptions.Update(subscriptionRef, &stripe.SubscriptionParams{
			CancelAtPeriodEnd: stripe.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("failed to schedule stripe cancellation: %w", err)
		}
		return nil
	}

	if _, err := s.client.Subscriptions.Cancel(subscriptionRef, nil); err != nil {
		return fmt.Errorf("failed to cancel stripe subscription: %w", err)
	}
	return nil
}

func (s *StripeGateway) ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid stripe webhook signature: %w", err)
	}

	result := &WebhookEvent{
		ID:      event.ID,
		RawType: string(event.Type),
		Type:    EventIgnored,
	}

	switch event.Type {
	case "customer.subscription.updated", "customer.subscription.created":
		result.Type = EventSubscriptionUpdated
	case "customer.subscription.deleted":
		result.Type = EventSubscriptionCanceled
	case "invoice.payment_failed":
		result.Type = EventPaymentFailed
	default:
		return result, nil
	}

	if result.Type == EventPaymentFailed {
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return nil, fmt.Errorf("failed to decode stripe invoice: %w", err)
		}
		if invoice.Subscription != nil {
			result.SubscriptionRef = invoice.Subscription.ID
		}
		if invoice.Customer != nil {
			result.CustomerRef = invoice.Customer.ID
		}
		return result, nil
	}

	var subscription stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
		return nil, fmt.Errorf("failed to decode stripe subscription: %w", err)
	}
	result.SubscriptionRef = subscription.ID
	result.CurrentPeriodEnd = subscription.CurrentPeriodEnd
	if subscription.Customer != nil {
		result.CustomerRef = subscription.Customer.ID
	}

	return result, nil
}
