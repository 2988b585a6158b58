package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "userID"

// UserID is the authenticated caller, 0 on routes without auth.
func UserID(c *gin.Context) uint64 {
	return c.GetUint64(userIDKey)
}

// RequireAuth verifies an HS256 bearer token and stores its "id" claim as
// the caller's user id. Tokens are issued elsewhere.
func RequireAuth(secret []byte, log *logger.Logger) gin.HandlerFunc {
	log = log.With("middleware", "RequireAuth")
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (interface{}, error) { return secret, nil }

	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			unauthorized(c, "missing or invalid auth token")
			return
		}
		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
			log.Debug("token rejected", "error", err)
			unauthorized(c, "token validation failed: "+err.Error())
			return
		}
		id, err := userIDClaim(claims)
		if err != nil {
			unauthorized(c, err.Error())
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func userIDClaim(claims jwt.MapClaims) (uint64, error) {
	switch v := claims["id"].(type) {
	case float64:
		if v >= 1 && v == float64(uint64(v)) {
			return uint64(v), nil
		}
	case string:
		if id, err := strconv.ParseUint(v, 10, 64); err == nil && id > 0 {
			return id, nil
		}
	case nil:
		return 0, errors.New("token has no user id")
	}
	return 0, fmt.Errorf("token user id %v is not valid", claims["id"])
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorEnvelope{Error: APIError{Message: msg, Code: "unauthorized"}})
}

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if id := UserID(c); id != 0 {
			fields = append(fields, "user_id", id)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
