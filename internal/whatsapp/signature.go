package whatsapp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// ValidateSignature verifies the X-Twilio-Signature header: HMAC-SHA1 over
// the webhook URL concatenated with the sorted form parameters, base64
// encoded.
func ValidateSignature(r *http.Request, authToken, webhookURL string) bool {
	signature := r.Header.Get("X-Twilio-Signature")
	if signature == "" {
		return false
	}
	if err := r.ParseForm(); err != nil {
		return false
	}
	expected := ComputeSignature(webhookURL, r.PostForm, authToken)
	return hmac.Equal([]byte(signature), []byte(expected))
}

// ComputeSignature builds the Twilio webhook signature for a URL and form.
func ComputeSignature(webhookURL string, params url.Values, authToken string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var payload strings.Builder
	payload.WriteString(webhookURL)
	for _, key := range keys {
		for _, value := range params[key] {
			payload.WriteString(key)
			payload.WriteString(value)
		}
	}

	h := hmac.New(sha1.New, []byte(authToken))
	h.Write([]byte(payload.String()))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
