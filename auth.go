package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"lg/nutrition-go-api/internal/nutrition"
)

// dummyHash is compared against when the username does not exist so unknown
// and known usernames take the same time to reject.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authenticate returns the user for a username/password pair, or an error
// wrapping nutrition.ErrUnauthorized.
func (h *Handler) authenticate(ctx context.Context, username, password string) (user, error) {
	u, err := queryOne[user](ctx, h.db,
		"SELECT id, username, email, auth_token, password, created_at FROM users WHERE username = @username",
		pgx.NamedArgs{"username": username})
	found := err == nil
	if err != nil && !errors.Is(err, nutrition.ErrNotFound) {
		return user{}, fmt.Errorf("look up user: %w", err)
	}

	hash := dummyHash
	if found {
		hash = []byte(u.Password)
	}
	if cmpErr := bcrypt.CompareHashAndPassword(hash, []byte(password)); cmpErr != nil || !found {
		return user{}, nutrition.ErrUnauthorized
	}
	return u, nil
}

// login exchanges credentials for the user's auth token.
// POST /api/login (public)
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.authenticate(c, req.Username, req.Password)
	switch {
	case errors.Is(err, nutrition.ErrUnauthorized):
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		h.logger.ErrorContext(c, "login failed", slog.Any("error", err))
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// authMiddleware resolves the Bearer token to a user and stores user_id on the
// context. Anything else aborts with 401.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}

		var userID int
		if err := h.db.QueryRow(c, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID); err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				h.logger.ErrorContext(c, "token lookup failed", slog.Any("error", err))
			}
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
