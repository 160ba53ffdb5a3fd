package stripebilling

import (
	"testing"

	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
)

const testSecret = "whsec_test_secret"

func signPayload(t *testing.T, payload []byte, secret string) string {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  secret,
	})
	return signed.Header
}

func TestVerifyPayload(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"api_version": "2025-04-30.basil",
		"data": {"object": {"id": "cs_1", "mode": "payment"}}
	}`)

	t.Run("Valid signature decodes the event", func(t *testing.T) {
		verifier := NewVerifier(testSecret)

		event, err := verifier.VerifyPayload(payload, signPayload(t, payload, testSecret))

		require.NoError(t, err)
		assert.Equal(t, "evt_1", event.ID)
		assert.Equal(t, "checkout.session.completed", event.Type)
		assert.Contains(t, string(event.Payload), "cs_1")
	})

	t.Run("Wrong secret fails closed", func(t *testing.T) {
		verifier := NewVerifier(testSecret)

		_, err := verifier.VerifyPayload(payload, signPayload(t, payload, "whsec_other"))

		assert.ErrorIs(t, err, errs.ErrInvalidSignature)
	})

	t.Run("Missing header fails closed", func(t *testing.T) {
		verifier := NewVerifier(testSecret)

		_, err := verifier.VerifyPayload(payload, "")

		assert.ErrorIs(t, err, errs.ErrInvalidSignature)
	})

	t.Run("Tampered payload fails closed", func(t *testing.T) {
		verifier := NewVerifier(testSecret)
		header := signPayload(t, payload, testSecret)

		tampered := []byte(`{"id": "evt_1", "type": "checkout.session.completed", "data": {"object": {"id": "cs_EVIL"}}}`)
		_, err := verifier.VerifyPayload(tampered, header)

		assert.ErrorIs(t, err, errs.ErrInvalidSignature)
	})
}
