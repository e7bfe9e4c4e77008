package middleware

import (
	"context"
	"myShopHub/domain"
	"myShopHub/pkg/logger"
	"myShopHub/pkg/utils"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsonres "myShopHub/pkg/response"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "token"
	ContextEmail  = "email"
	ContextName   = "name"
)

// TokenValidator confirms a token is still live in the token store.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uint, error)
}

// AuthMiddleware resolves the bearer token into user_id, role, email and
// name on the echo context. With a nil validator only the JWT itself is
// checked; otherwise the token must also be present in the store, which
// makes logout effective before expiry.
func AuthMiddleware(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Missing authorization header", nil,
				))
			}

			tokenParts := strings.Fields(authHeader)
			if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid authorization format", nil,
				))
			}

			tokenString := tokenParts[1]

			claims, err := utils.ParseJWT(tokenString)
			if err != nil {
				logger.Debug("Failed to parse JWT", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid or expired token", nil,
				))
			}

			userID, err := strconv.ParseUint(claims.UserID, 10, 64)
			if err != nil {
				logger.Error("Invalid user ID in token", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid user ID in token", nil,
				))
			}

			if validator != nil {
				ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
				defer cancel()

				storedID, err := validator.ValidateToken(ctx, tokenString)
				if err != nil {
					logger.Debug("Token not found in store", err)
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"UNAUTHORIZED", "Token expired or revoked", nil,
					))
				}

				if storedID != uint(userID) {
					logger.Warn("UserID mismatch between JWT and token store", "jwt", userID, "store", storedID)
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"UNAUTHORIZED", "Invalid token", nil,
					))
				}
			}

			c.Set(ContextUserID, uint(userID))
			c.Set(ContextRole, claims.Role)
			c.Set(ContextToken, tokenString)
			c.Set(ContextEmail, claims.Email)
			c.Set(ContextName, claims.Name)

			return next(c)
		}
	}
}

// RequireRole admits callers whose role is one of roles. It must run after
// AuthMiddleware.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(ContextUserID).(uint); !ok {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "User not authenticated", nil,
				))
			}

			role, _ := c.Get(ContextRole).(string)
			for _, allowed := range roles {
				if strings.EqualFold(role, allowed) {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, jsonres.Error(
				"FORBIDDEN", "Insufficient role", nil,
			))
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}

// UserID returns the authenticated caller.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ContextUserID).(uint)
	return id, ok
}
