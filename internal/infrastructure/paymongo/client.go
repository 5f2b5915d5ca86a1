package paymongo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pawlink/pool-service/internal/config"
	"github.com/pawlink/pool-service/internal/domain"
)

// Client talks to the PayMongo REST API. It implements
// domain.PaymentGateway; settlement stays asynchronous, so creating a
// checkout session never means the money arrived.
type Client struct {
	baseURL       string
	secretKey     string
	webhookSecret string
	httpClient    *http.Client
}

func NewClient(cfg config.PayMongo) *Client {
	return &Client{
		baseURL:       cfg.BaseURL,
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

type apiEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []apiError      `json:"errors"`
}

type apiError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

type checkoutSessionData struct {
	ID         string `json:"id"`
	Attributes struct {
		Status      string `json:"status"`
		CheckoutURL string `json:"checkout_url"`
		ExpiresAt   *int64 `json:"expires_at"`
		Payments    []struct {
			ID         string `json:"id"`
			Attributes struct {
				Status string `json:"status"`
				PaidAt *int64 `json:"paid_at"`
			} `json:"attributes"`
		} `json:"payments"`
	} `json:"attributes"`
}

type refundData struct {
	ID         string `json:"id"`
	Attributes struct {
		Status string `json:"status"`
	} `json:"attributes"`
}

func (c *Client) CreateCheckout(ctx context.Context, input domain.CheckoutInput) (*domain.CheckoutSession, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"attributes": map[string]interface{}{
				"line_items": []map[string]interface{}{
					{
						"currency": input.Currency,
						"amount":   input.Amount.Centavos(),
						"name":     input.Name,
						"quantity": 1,
					},
				},
				"payment_method_types": []string{"gcash", "card", "paymaya", "grab_pay"},
				"success_url":          input.SuccessURL,
				"cancel_url":           input.CancelURL,
				"description":          input.Description,
				"reference_number":     input.Reference,
			},
		},
	}

	var session checkoutSessionData
	if err := c.do(ctx, http.MethodPost, "/checkout_sessions", payload, &session); err != nil {
		return nil, err
	}

	result := &domain.CheckoutSession{
		CheckoutID:  session.ID,
		CheckoutURL: session.Attributes.CheckoutURL,
	}
	if session.Attributes.ExpiresAt != nil {
		expiresAt := time.Unix(*session.Attributes.ExpiresAt, 0)
		result.ExpiresAt = &expiresAt
	}
	return result, nil
}

func (c *Client) VerifyPayment(ctx context.Context, checkoutID string) (*domain.VerificationResult, error) {
	var session checkoutSessionData
	if err := c.do(ctx, http.MethodGet, "/checkout_sessions/"+checkoutID, nil, &session); err != nil {
		return nil, err
	}

	result := &domain.VerificationResult{
		Status: domain.GatewayCheckoutStatus(session.Attributes.Status),
	}

	// The session status can lag behind the payments array; a paid
	// payment record wins either way.
	for _, payment := range session.Attributes.Payments {
		if payment.Attributes.Status == "paid" {
			result.Status = domain.GatewayCheckoutPaid
			result.GatewayPaymentID = payment.ID
			if payment.Attributes.PaidAt != nil {
				paidAt := time.Unix(*payment.Attributes.PaidAt, 0)
				result.PaidAt = &paidAt
			}
			break
		}
	}

	return result, nil
}

func (c *Client) CreateRefund(ctx context.Context, gatewayPaymentID string, amountCentavos int64, reason string) (*domain.RefundResult, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"attributes": map[string]interface{}{
				"payment_id": gatewayPaymentID,
				"amount":     amountCentavos,
				"reason":     reason,
			},
		},
	}

	var refund refundData
	if err := c.do(ctx, http.MethodPost, "/refunds", payload, &refund); err != nil {
		return &domain.RefundResult{Success: false, Error: err.Error()}, nil
	}

	return &domain.RefundResult{
		Success:  true,
		RefundID: refund.ID,
		Status:   refund.Attributes.Status,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.secretKey, "")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(responseBodyBytes, &envelope); err != nil {
		return fmt.Errorf("paymongo: decoding response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		if len(envelope.Errors) > 0 {
			return fmt.Errorf("paymongo: %s", envelope.Errors[0].Detail)
		}
		return fmt.Errorf("paymongo: unexpected status %d", response.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("paymongo: decoding data: %w", err)
		}
	}
	return nil
}
