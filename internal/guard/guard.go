// Package guard rejects stale bearer tokens before a request is sent.
//
// The check only reads the token's exp claim; the signature is not verified.
// The API remains the authority on whether a token is accepted.
package guard

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Status is the outcome of a token check.
type Status int

const (
	Expired Status = iota
	Valid
)

func (s Status) String() string {
	if s == Valid {
		return "valid"
	}
	return "expired"
}

var parser = jwt.NewParser()

// Check classifies token at time now. Empty tokens, tokens that do not
// decode, and tokens without an exp claim are Expired. A token whose exp
// equals the current second is still Valid.
func Check(token string, now time.Time) Status {
	exp, ok := Expiry(token)
	if !ok {
		return Expired
	}
	if exp.Unix() < now.Unix() {
		return Expired
	}
	return Valid
}

// Expiry returns the token's exp claim, if it can be read. Only the payload
// segment is decoded; the header is not inspected.
func Expiry(token string) (time.Time, bool) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return time.Time{}, false
	}
	raw, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
