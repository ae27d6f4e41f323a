package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ContextSubject = "subject"
	ContextRole    = "role"
)

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// AuthMiddleware requires a valid bearer token.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "missing_authorization_header"})
			return
		}
		if code := authenticate(c, secret); code != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": code})
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is sent and lets
// anonymous requests through. A bad token is still rejected.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if code := authenticate(c, secret); code != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": code})
			return
		}
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error_code": "forbidden"})
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, secret string) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "invalid_authorization_header"
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "invalid_token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "invalid_token_claims"
	}

	sub, ok1 := claims["sub"].(string)
	role, ok2 := claims["role"].(string)
	if !ok1 || !ok2 || sub == "" {
		return "invalid_token_payload"
	}
	if role != RoleAdmin && role != RoleClient {
		return "invalid_token_payload"
	}

	c.Set(ContextSubject, sub)
	c.Set(ContextRole, role)
	return ""
}

// ClientID returns the registered client behind the request, if any.
func ClientID(c *gin.Context) (uuid.UUID, bool) {
	if c.GetString(ContextRole) != RoleClient {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.GetString(ContextSubject))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Actor names the caller for audit records.
func Actor(c *gin.Context) string {
	role := c.GetString(ContextRole)
	if role == "" {
		return "anonymous"
	}
	return role + ":" + c.GetString(ContextSubject)
}
