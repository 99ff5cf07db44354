package lib

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SignWebhook computes the Square webhook signature:
// base64(HMAC-SHA256(key, notificationURL + body)).
func SignWebhook(key, notificationURL string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(notificationURL))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature reports whether signature matches the body.
func VerifyWebhookSignature(key, notificationURL string, body []byte, signature string) bool {
	if key == "" || signature == "" {
		return false
	}
	expected := SignWebhook(key, notificationURL, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
