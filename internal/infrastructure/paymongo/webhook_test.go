package paymongo

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/pawlink/pool-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedHeader(secret string, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,te=%s,li=", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := NewClient(config.PayMongo{WebhookSecret: "whsk_test_secret"})
	payload := []byte(`{"data":{"attributes":{"type":"checkout_session.payment.paid"}}}`)

	header := signedHeader("whsk_test_secret", "1725148800", payload)
	assert.NoError(t, client.VerifyWebhookSignature(payload, header))

	assert.ErrorIs(t, client.VerifyWebhookSignature(payload, signedHeader("wrong_secret", "1725148800", payload)), ErrInvalidSignature)
	assert.ErrorIs(t, client.VerifyWebhookSignature([]byte(`{"tampered":true}`), header), ErrInvalidSignature)
	assert.ErrorIs(t, client.VerifyWebhookSignature(payload, "te=abc"), ErrInvalidSignature)
}

func TestParseWebhookEvent(t *testing.T) {
	payload := []byte(`{
		"data": {
			"id": "evt_1",
			"attributes": {
				"type": "checkout_session.payment.paid",
				"data": {"id": "cs_abc123", "attributes": {}}
			}
		}
	}`)
	event, err := ParseWebhookEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, "checkout_session.payment.paid", event.Type)
	assert.Equal(t, "cs_abc123", event.CheckoutID)

	payload = []byte(`{
		"data": {
			"attributes": {
				"type": "payment.paid",
				"data": {"id": "pay_9", "attributes": {"checkout_session_id": "cs_xyz"}}
			}
		}
	}`)
	event, err = ParseWebhookEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, "pay_9", event.PaymentID)
	assert.Equal(t, "cs_xyz", event.CheckoutID)

	_, err = ParseWebhookEvent([]byte(`{not json`))
	assert.Error(t, err)
}
