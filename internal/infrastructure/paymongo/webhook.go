package paymongo

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
)

var ErrInvalidSignature = errors.New("paymongo: invalid webhook signature")

// VerifyWebhookSignature checks the Paymongo-Signature header
// (t=<ts>,te=<test-sig>,li=<live-sig>) against the raw request body.
func (c *Client) VerifyWebhookSignature(payload []byte, signatureHeader string) error {
	var timestamp, testSig, liveSig string
	for _, part := range strings.Split(signatureHeader, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "te":
			testSig = value
		case "li":
			liveSig = value
		}
	}
	if timestamp == "" {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if hmac.Equal([]byte(expected), []byte(liveSig)) || hmac.Equal([]byte(expected), []byte(testSig)) {
		return nil
	}
	return ErrInvalidSignature
}

type WebhookEvent struct {
	Type       string `json:"type"`
	CheckoutID string `json:"checkout_id"`
	PaymentID  string `json:"payment_id"`
}

// ParseWebhookEvent pulls the event type and resource ids out of a
// webhook envelope. Unknown event types come back as-is for the caller
// to ignore.
func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var envelope struct {
		Data struct {
			Attributes struct {
				Type string `json:"type"`
				Data struct {
					ID         string `json:"id"`
					Attributes struct {
						CheckoutSessionID string `json:"checkout_session_id"`
					} `json:"attributes"`
				} `json:"data"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, err
	}
	event := &WebhookEvent{
		Type:       envelope.Data.Attributes.Type,
		CheckoutID: envelope.Data.Attributes.Data.Attributes.CheckoutSessionID,
		PaymentID:  envelope.Data.Attributes.Data.ID,
	}
	// checkout_session.* events carry the session itself as the
	// resource, so its id is the checkout id.
	if event.CheckoutID == "" && strings.HasPrefix(event.Type, "checkout_session.") {
		event.CheckoutID = envelope.Data.Attributes.Data.ID
	}
	return event, nil
}
