// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aragorn2909/media-dashboard/internal/services/cache"
)

const (
	// SessionTTL is how long a login session stays valid.
	SessionTTL = 24 * time.Hour

	sessionKeyPrefix = "session:"
)

// SessionData is what a session token resolves to in the cache.
type SessionData struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthMiddleware struct {
	cache cache.Store
}

func NewAuthMiddleware(cache cache.Store) *AuthMiddleware {
	return &AuthMiddleware{
		cache: cache,
	}
}

// SessionKey builds the cache key for a session token.
func SessionKey(token string) string {
	return sessionKeyPrefix + token
}

// RequireAuth middleware checks for valid authentication
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Session cookie first, Authorization header as fallback
		sessionToken, err := c.Cookie("session")
		if err != nil {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "No authentication provided"})
				c.Abort()
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
				c.Abort()
				return
			}
			sessionToken = parts[1]
		}

		var session SessionData
		if err := m.cache.Get(ctx, SessionKey(sessionToken), &session); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		c.Set("username", session.Username)
		c.Next()
	}
}
