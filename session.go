package accounts

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionManager establishes and tears down the authenticated session for a
// request. The core treats it as opaque; the cookie implementation below is
// the default.
type SessionManager interface {
	Establish(c *fiber.Ctx, user *User) error
	End(c *fiber.Ctx)
	Current(c *fiber.Ctx) (*SessionObject, error)
}

// SessionObject holds the attributes decoded from a session token.
type SessionObject struct {
	UserID         string     `json:"user_id,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

// CookieSessionManager keeps the session in an HTTP-only cookie holding a
// signed token minted by the shared codec.
type CookieSessionManager struct {
	codec      *TokenCodec
	contextKey string
	duration   time.Duration
}

var _ SessionManager = (*CookieSessionManager)(nil)

func NewCookieSessionManager(codec *TokenCodec, cfg Config) *CookieSessionManager {
	return &CookieSessionManager{
		codec:      codec,
		contextKey: cfg.GetContextKey(),
		duration:   cfg.GetSessionTTL(),
	}
}

func (m *CookieSessionManager) Establish(c *fiber.Ctx, user *User) error {
	token, err := m.codec.Encode(map[string]any{
		"user_id": user.ID.String(),
	}, m.duration)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     m.contextKey,
		Value:    token,
		Expires:  time.Now().Add(m.duration),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return nil
}

func (m *CookieSessionManager) End(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.contextKey,
		Value:    "",
		Expires:  expiredCookieTime(),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// Current decodes the session cookie on the request, if any.
func (m *CookieSessionManager) Current(c *fiber.Ctx) (*SessionObject, error) {
	raw := c.Cookies(m.contextKey)
	if raw == "" {
		return nil, ErrUnableToFindSession
	}

	claims, err := m.codec.Decode(raw)
	if err != nil {
		return nil, ErrUnableToDecodeSession
	}

	uid, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrUnableToDecodeSession
	}

	return &SessionObject{UserID: uid}, nil
}

func expiredCookieTime() time.Time {
	return time.Now().Add(-time.Hour * (24 * 365))
}
