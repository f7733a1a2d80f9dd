// utils/auth.go
package utils

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pawcare-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const sessionKey = "session"

var ErrInvalidToken = errors.New("invalid token")

// Session is the decoded identity attached to every authenticated request.
// UserID holds the groomer id for groomer sessions and a fixed subject for admins.
type Session struct {
	UserID       string
	CustomerID   string
	Role         string
	TokenVersion int
}

type sessionClaims struct {
	CustomerID   string `json:"customerId,omitempty"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	jwt.RegisteredClaims
}

// TokenVersionSource resolves the stored token version for an identity.
type TokenVersionSource interface {
	CurrentTokenVersion(ctx context.Context, role, subject string) (int, error)
}

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken signs a session token valid for ttl.
func GenerateToken(secret string, ttl time.Duration, s Session) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}
	now := time.Now()
	claims := sessionClaims{
		CustomerID:   s.CustomerID,
		Role:         s.Role,
		TokenVersion: s.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the signature and expiry and returns the embedded session.
func ParseToken(secret, raw string) (Session, error) {
	token, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Session{}, err
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return Session{}, ErrInvalidToken
	}
	return Session{
		UserID:       claims.Subject,
		CustomerID:   claims.CustomerID,
		Role:         claims.Role,
		TokenVersion: claims.TokenVersion,
	}, nil
}

// Auth middleware
func AuthMiddleware(secret string, versions TokenVersionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			// browser clients carry the token in a cookie set at login
			if cookie, err := c.Cookie("token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}

		session, err := ParseToken(secret, tokenString)
		if err != nil {
			RespondWithError(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		current, err := versions.CurrentTokenVersion(c.Request.Context(), session.Role, session.UserID)
		if err != nil || current != session.TokenVersion {
			RespondWithError(c, http.StatusUnauthorized, "Session expired, please login again")
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireRole rejects sessions whose role is not listed.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		s, ok := GetSession(c)
		if !ok {
			RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}
		if _, ok := allowed[s.Role]; !ok {
			RespondWithError(c, http.StatusForbidden, "You are not allowed to access this resource")
			return
		}
		c.Next()
	}
}

// GetSession returns the session stored by AuthMiddleware.
func GetSession(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}

// SetSession is used by tests and internal callers to attach a session directly.
func SetSession(c *gin.Context, s Session) {
	c.Set(sessionKey, s)
}

func IsAdmin(s Session) bool    { return s.Role == models.RoleAdmin }
func IsGroomer(s Session) bool  { return s.Role == models.RoleGroomer }
func IsCustomer(s Session) bool { return s.Role == models.RoleCustomer }
