// Package auth signs and verifies expiring share links for saved plans
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBadToken   = errors.New("bad token")
	ErrBadSig     = errors.New("invalid signature")
	ErrExpired    = errors.New("expired")
	ErrBadPayload = errors.New("bad payload")
)

// DefaultShareTTL is how long a share link stays valid
const DefaultShareTTL = 7 * 24 * time.Hour

// ShareLink builds read-only links to a saved plan
type ShareLink struct {
	Secret  []byte
	BaseURL string // eg., http://localhost:8080
}

// NewSecret returns a random signing secret for when none is configured
func NewSecret() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate share secret: %w", err)
	}
	return b, nil
}

// Sign returns payload.signature, both URL-safe base64 without padding
func (s ShareLink) Sign(planID uuid.UUID, exp time.Time) string {
	msg := planID.String() + "|" + strconv.FormatInt(exp.Unix(), 10)
	payload := base64.RawURLEncoding.EncodeToString([]byte(msg))
	return payload + "." + s.sig([]byte(msg))
}

func (s ShareLink) sig(msg []byte) string {
	mac := hmac.New(sha256.New, s.Secret)
	mac.Write(msg)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify checks the signature and expiry and returns the plan ID
func (s ShareLink) Verify(token string) (uuid.UUID, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return uuid.Nil, ErrBadToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return uuid.Nil, ErrBadToken
	}
	if !hmac.Equal([]byte(s.sig(raw)), []byte(parts[1])) {
		return uuid.Nil, ErrBadSig
	}

	fields := strings.SplitN(string(raw), "|", 2)
	if len(fields) != 2 {
		return uuid.Nil, ErrBadPayload
	}
	id, err := uuid.Parse(fields[0])
	if err != nil {
		return uuid.Nil, ErrBadPayload
	}
	ts, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return uuid.Nil, ErrBadPayload
	}
	if time.Now().After(time.Unix(ts, 0)) {
		return uuid.Nil, ErrExpired
	}
	return id, nil
}

// URL returns an absolute /share link valid for ttl
func (s ShareLink) URL(planID uuid.UUID, ttl time.Duration) string {
	tok := s.Sign(planID, time.Now().Add(ttl))
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		u = &url.URL{}
	}
	u.Path = "/share"
	q := u.Query()
	q.Set("token", tok)
	u.RawQuery = q.Encode()
	return u.String()
}
