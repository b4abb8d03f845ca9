package session

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const contextKey = "session"

var ErrNoSession = errors.New("no session in request context")

// Session identifies the authenticated caller of a request. It is built once
// by the middleware from the verified token and passed through the request
// context as a typed value; nothing reads token claims or global auth state
// downstream of here.
type Session struct {
	UserID  uuid.UUID
	SalonID uuid.UUID
	Role    string
}

// Manager owns the signing secret and token lifetime. It is created once at
// startup and handed to whatever needs to issue or verify tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager reads JWT_SECRET and JWT_EXPIRY_HOURS (default 24) from the
// environment. A missing secret is a startup error, not something to discover
// on the first request.
func NewManager() (*Manager, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}

	expiryHours := 24
	if env := os.Getenv("JWT_EXPIRY_HOURS"); env != "" {
		if h, err := strconv.Atoi(env); err == nil {
			expiryHours = h
		}
	}

	return &Manager{
		secret: []byte(secret),
		ttl:    time.Duration(expiryHours) * time.Hour,
	}, nil
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for the given session.
func (m *Manager) Issue(s Session) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     s.UserID.String(),
		"salonId": s.SalonID.String(),
		"role":    s.Role,
		"exp":     now.Add(m.ttl).Unix(),
		"iat":     now.Unix(),
	})
	return token.SignedString(m.secret)
}

// Verify parses and validates a token and rebuilds the session it carries.
func (m *Manager) Verify(tokenString string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, errors.New("invalid token claims")
	}

	userID, err := uuid.Parse(claimString(claims, "sub"))
	if err != nil {
		return Session{}, errors.New("invalid subject claim")
	}
	salonID, err := uuid.Parse(claimString(claims, "salonId"))
	if err != nil {
		return Session{}, errors.New("invalid salon claim")
	}

	return Session{
		UserID:  userID,
		SalonID: salonID,
		Role:    claimString(claims, "role"),
	}, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// Middleware authenticates a request from the Authorization header (Bearer
// scheme) or the token cookie and attaches the resulting Session to the gin
// context.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if len(tokenString) > 7 && strings.EqualFold(tokenString[0:6], "bearer") {
			tokenString = tokenString[7:]
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Authorization required"})
			return
		}

		s, err := m.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": err.Error()})
			return
		}

		Attach(c, s)
		c.Next()
	}
}

// Attach stores a session on the gin context. Exposed for handler tests.
func Attach(c *gin.Context, s Session) {
	c.Set(contextKey, s)
}

// FromContext returns the session attached by the middleware.
func FromContext(c *gin.Context) (Session, error) {
	v, exists := c.Get(contextKey)
	if !exists {
		return Session{}, ErrNoSession
	}
	s, ok := v.(Session)
	if !ok {
		return Session{}, ErrNoSession
	}
	return s, nil
}
