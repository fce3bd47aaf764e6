package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/P-ZeN/be-out-apps-sub001/internal/helpers"
	"github.com/P-ZeN/be-out-apps-sub001/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTAuthMiddleware verifies the Bearer token and puts the caller's verified
// user_id and role into the request context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			helpers.AbortWithError(c, http.StatusUnauthorized, "Missing or malformed authorization header.")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			helpers.AbortWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			helpers.AbortWithError(c, http.StatusUnauthorized, "Invalid token claims.")
			return
		}

		rawUserID, ok := claims["user_id"].(string)
		if !ok {
			helpers.AbortWithError(c, http.StatusUnauthorized, "Invalid token claims.")
			return
		}
		userID, err := uuid.Parse(rawUserID)
		if err != nil {
			helpers.AbortWithError(c, http.StatusUnauthorized, "Invalid token claims.")
			return
		}

		c.Set("user_id", userID)
		if role, ok := claims["role"].(string); ok {
			c.Set("role", role)
		}
		c.Next()
	}
}

// AdminMiddleware gates a route group to callers whose token carries the
// admin role. Must run after JWTAuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != models.RoleAdmin {
			helpers.AbortWithError(c, http.StatusForbidden, "Admin access required.")
			return
		}
		c.Next()
	}
}
