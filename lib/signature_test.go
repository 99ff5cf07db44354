package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"type":"payment.updated"}`)
	url := "https://amiasbakery.com/api/square/webhook"
	sig := SignWebhook("secret", url, body)

	assert.True(t, VerifyWebhookSignature("secret", url, body, sig))
	assert.False(t, VerifyWebhookSignature("secret", url, append(body, ' '), sig))
	assert.False(t, VerifyWebhookSignature("other", url, body, sig))
	assert.False(t, VerifyWebhookSignature("secret", url+"x", body, sig))
	assert.False(t, VerifyWebhookSignature("secret", url, body, ""))
	assert.False(t, VerifyWebhookSignature("", url, body, sig))
}
