package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/razorpay/razorpay-go"
)

type RazorpayGateway struct {
	client        *razorpay.Client
	webhookSecret string
}

func NewRazorpayGateway(keyID, keySecret, webhookSecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:        razorpay.NewClient(keyID, keySecret),
		webhookSecret: webhookSecret,
	}
}

func (r *RazorpayGateway) Name() string {
	return "razorpay"
}

func (r *RazorpayGateway) CreateCustomer(ctx context.Context, request *CustomerRequest) (*Customer, error) {
	data := map[string]interface{}{
		"email": request.Email,
		"name":  request.Name,
		"notes": request.Metadata,
	}

	customer, err := r.client.Customer.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay customer: %w", err)
	}

	return &Customer{
		Ref:   stringField(customer, "id"),
		Email: stringField(customer, "email"),
	}, nil
}

func (r *RazorpayGateway) CreateSubscription(ctx context.Context, request *SubscriptionRequest) (*SubscriptionResponse, error) {
	data := map[string]interface{}{
		"plan_id":         request.PlanRef,
		"customer_id":     request.CustomerRef,
		"total_count":     12,
		"customer_notify": 1,
		"notes":           request.Metadata,
	}

	subscription, err := r.client.Subscription.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay subscription: %w", err)
	}

	return &SubscriptionResponse{
		Ref:              stringField(subscription, "id"),
		Status:           stringField(subscription, "status"),
		CurrentPeriodEnd: int64Field(subscription, "current_end"),
	}, nil
}

func (r *RazorpayGateway) CancelSubscription(ctx context.Context, subscriptionRef string, atPeriodEnd bool) error {
	data := map[string]interface{}{
		"cancel_at_cycle_end": 0,
	}
	if atPeriodEnd {
		data["cancel_at_cycle_end"] = 1
	}

	if _, err := r.client.Subscription.Cancel(subscriptionRef, data, nil); err != nil {
		return fmt.Errorf("failed to cancel razorpay subscription: %w", err)
	}
	return nil
}

func (r *RazorpayGateway) ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error) {
	mac := hmac.New(sha256.New, []byte(r.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, fmt.Errorf("invalid razorpay webhook signature")
	}

	var body struct {
		Event   string `json:"event"`
		Payload struct {
			Subscription struct {
				Entity struct {
					ID         string `json:"id"`
					CustomerID string `json:"customer_id"`
					CurrentEnd int64  `json:"current_end"`
				} `json:"entity"`
			} `json:"subscription"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("failed to decode razorpay webhook: %w", err)
	}

	result := &WebhookEvent{
		RawType:          body.Event,
		Type:             EventIgnored,
		SubscriptionRef:  body.Payload.Subscription.Entity.ID,
		CustomerRef:      body.Payload.Subscription.Entity.CustomerID,
		CurrentPeriodEnd: body.Payload.Subscription.Entity.CurrentEnd,
	}

	switch body.Event {
	case "subscription.activated", "subscription.charged", "subscription.updated":
		result.Type = EventSubscriptionUpdated
	case "subscription.cancelled", "subscription.completed":
		result.Type = EventSubscriptionCanceled
	case "subscription.pending", "subscription.halted":
		result.Type = EventPaymentFailed
	}

	return result, nil
}

func stringField(m map[string]interface{}, key string) string {
	if value, ok := m[key].(string); ok {
		return value
	}
	return ""
}

func int64Field(m map[string]interface{}, key string) int64 {
	switch value := m[key].(type) {
	case float64:
		return int64(value)
	case int:
		return int64(value)
	case int64:
		return value
	default:
		return 0
	}
}
