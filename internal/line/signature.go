package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SignatureHeader is the request header carrying the webhook signature.
const SignatureHeader = "X-Line-Signature"

// ValidateSignature checks a webhook body against its signature header:
// base64(HMAC-SHA256(secret, body)) must equal signature. The comparison is
// constant time. Returns false, never an error, on missing secret, missing
// signature or mismatch.
//
// body must be the exact raw bytes received; verifying a re-serialized body
// breaks the contract.
func ValidateSignature(secret, signature string, body []byte) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
