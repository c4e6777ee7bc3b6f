// ABOUTME: One-shot flash messages carried across a redirect
// ABOUTME: Messages live in the shared cache; the browser only holds a signed cache key

package web

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"tiktok-downloader/core/interfaces"
)

// CategoryError marks a failed download or rejected input. The category is
// rendered as the flash-<category> CSS class.
const CategoryError = "error"

const (
	// FlashCookieName is the cookie carrying the signed flash id
	FlashCookieName = "flash"

	// DefaultFlashTTL bounds how long a flash waits for the next page view
	DefaultFlashTTL = 5 * time.Minute

	flashKeyPrefix = "flash:"
)

// Message is a single flash message
type Message struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// FlashStore keeps flash messages in an interfaces.Cache keyed by a random id.
// The id travels in an HttpOnly cookie signed with HMAC-SHA256.
type FlashStore struct {
	cache  interfaces.Cache
	secret []byte
	ttl    time.Duration
	secure bool
}

// FlashOption configures a FlashStore
type FlashOption func(*FlashStore)

// WithFlashTTL overrides DefaultFlashTTL
func WithFlashTTL(ttl time.Duration) FlashOption {
	return func(s *FlashStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSecureCookie marks the flash cookie Secure, for HTTPS-only deployments
func WithSecureCookie(secure bool) FlashOption {
	return func(s *FlashStore) {
		s.secure = secure
	}
}

// NewFlashStore creates a flash store signing cookies with secret
func NewFlashStore(cache interfaces.Cache, secret string, opts ...FlashOption) *FlashStore {
	s := &FlashStore{
		cache:  cache,
		secret: []byte(secret),
		ttl:    DefaultFlashTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add queues msg for the next page the client renders. Messages already
// pending for the same client are kept.
func (s *FlashStore) Add(w http.ResponseWriter, r *http.Request, msg Message) error {
	ctx := r.Context()

	id, ok := s.idFromRequest(r)
	var pending []Message
	if ok {
		pending, _ = s.load(ctx, id)
	} else {
		id = uuid.NewString()
	}
	pending = append(pending, msg)

	payload, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, flashKeyPrefix+id, payload, s.ttl); err != nil {
		return err
	}

	http.SetCookie(w, s.cookie(s.sign(id), int(s.ttl.Seconds())))
	return nil
}

// Pop returns and deletes pending messages. A missing, tampered or expired
// cookie yields no messages.
func (s *FlashStore) Pop(w http.ResponseWriter, r *http.Request) []Message {
	id, ok := s.idFromRequest(r)
	if !ok {
		if _, err := r.Cookie(FlashCookieName); err == nil {
			s.clear(w)
		}
		return nil
	}

	ctx := r.Context()
	pending, err := s.load(ctx, id)
	_ = s.cache.Delete(ctx, flashKeyPrefix+id)
	s.clear(w)
	if err != nil {
		return nil
	}
	return pending
}

func (s *FlashStore) load(ctx context.Context, id string) ([]Message, error) {
	data, err := s.cache.Get(ctx, flashKeyPrefix+id)
	if err != nil {
		return nil, err
	}

	var pending []Message
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

func (s *FlashStore) idFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(FlashCookieName)
	if err != nil {
		return "", false
	}
	id, err := s.verify(c.Value)
	if err != nil {
		return "", false
	}
	return id, true
}

func (s *FlashStore) clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", -1))
}

func (s *FlashStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     FlashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

var errBadSignature = errors.New("flash: invalid cookie signature")

// sign returns "<id>.<base64url(hmac(id))>"
func (s *FlashStore) sign(id string) string {
	return id + "." + base64.RawURLEncoding.EncodeToString(s.mac(id))
}

func (s *FlashStore) verify(value string) (string, error) {
	id, sig, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", errBadSignature
	}

	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", errBadSignature
	}
	if !hmac.Equal(got, s.mac(id)) {
		return "", errBadSignature
	}
	return id, nil
}

func (s *FlashStore) mac(id string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(id))
	return h.Sum(nil)
}
