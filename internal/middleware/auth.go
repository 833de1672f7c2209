// Package middleware provides authentication and request logging middleware
// for the development backend.
package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"uniconnect/internal/config"
	"uniconnect/internal/models"
	"uniconnect/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "uniconnect-api"
	tokenAudience = "uniconnect-client"
	tokenTTL      = 7 * 24 * time.Hour
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// IssueToken signs an HS256 token whose subject is the user id.
func IssueToken(secret string, userID uint, username string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates tokenString and returns its user id.
func ParseToken(secret, tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience))
	if err != nil || !token.Valid {
		return 0, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}
	// Subject claim per RFC 7519
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("invalid token subject")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, errors.New("invalid user ID in token")
	}
	return uint(userID), nil
}

func bearer(c *fiber.Ctx) (string, bool) {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization header required"))
	}
	tokenString, ok := bearer(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid authorization header format"))
	}

	userID, err := ParseToken(cfg.JWTSecret, tokenString)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(err.Error()))
	}

	c.Locals("userID", userID)
	c.SetUserContext(observability.WithActorID(c.UserContext(), strconv.FormatUint(uint64(userID), 10)))
	return c.Next()
}

// UserID returns the authenticated user id stored by AuthRequired.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}
