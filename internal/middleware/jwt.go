package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noppadol/classdesk-api/internal/utils"
)

// RevocationCheck reports whether the token with the given id has been revoked
// by a logout.
type RevocationCheck func(ctx context.Context, tokenID string) bool

// JWTProtected returns a middleware that validates JWT bearer tokens and
// rejects revoked ones. The revocation check may be nil.
func JWTProtected(secret string, revoked RevocationCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		tokenID, _ := claims["jti"].(string)
		if revoked != nil && revoked(c.Context(), tokenID) {
			return utils.SendError(c, fiber.StatusUnauthorized, "token revoked")
		}

		if subject, ok := claims["sub"].(string); ok {
			c.Locals("username", subject)
		}
		if role := normalizeRole(claims["role"]); role != "" {
			c.Locals("user_role", role)
		}
		c.Locals("token_id", tokenID)
		if exp, ok := claims["exp"].(float64); ok {
			c.Locals("token_expiry", time.Unix(int64(exp), 0))
		}

		return c.Next()
	}
}

// TokenIDFromCtx returns the token identifier bound by JWTProtected.
func TokenIDFromCtx(c *fiber.Ctx) string {
	if value, ok := c.Locals("token_id").(string); ok {
		return value
	}
	return ""
}

// TokenExpiryFromCtx returns the token expiry bound by JWTProtected.
func TokenExpiryFromCtx(c *fiber.Ctx) time.Time {
	if value, ok := c.Locals("token_expiry").(time.Time); ok {
		return value
	}
	return time.Time{}
}

func normalizeRole(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case []interface{}:
		for _, item := range v {
			if str, ok := item.(string); ok {
				role := strings.ToLower(strings.TrimSpace(str))
				if role != "" {
					return role
				}
			}
		}
	}
	return ""
}
