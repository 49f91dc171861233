// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/aragorn2909/media-dashboard/internal/api/middleware"
	"github.com/aragorn2909/media-dashboard/internal/auth"
	"github.com/aragorn2909/media-dashboard/internal/database"
	"github.com/aragorn2909/media-dashboard/internal/services/cache"
)

const sessionTokenLength = 32

type AuthHandler struct {
	db    *database.DB
	cache cache.Store
}

func NewAuthHandler(db *database.DB, store cache.Store) *AuthHandler {
	return &AuthHandler{
		db:    db,
		cache: store,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies the credentials, creates a session and sets the session
// cookie. Every attempt lands in login_events.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	ctx := c.Request.Context()

	user, err := h.db.FindUser(ctx, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	authenticated := user != nil && auth.CheckPassword(req.Password, user.PasswordHash)

	if err := h.db.LogLogin(ctx, req.Username, authenticated, c.ClientIP()); err != nil {
		log.Warn().Err(err).Msg("Failed to record login event")
	}

	if !authenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	token, err := auth.GenerateSecureToken(sessionTokenLength)
	if err != nil {
		respondError(c, err)
		return
	}

	session := middleware.SessionData{Username: user.Username, CreatedAt: time.Now().UTC()}
	if err := h.cache.Set(ctx, middleware.SessionKey(token), session, middleware.SessionTTL); err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie("session", token, int(middleware.SessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"username": user.Username,
		"token":    token,
	})
}

// Logout drops the session from the cache and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie("session"); err == nil && token != "" {
		if err := h.cache.Delete(c.Request.Context(), middleware.SessionKey(token)); err != nil {
			log.Debug().Err(err).Msg("Failed to delete session from cache")
		}
	}

	c.SetCookie("session", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}
