package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"labourconnect/middleware"
	"labourconnect/services"
	"labourconnect/store"
)

func SessionController(router *gin.Engine, s store.Store) {
	router.POST("/auth/refresh", middleware.RefreshTokenMiddleware(), func(c *gin.Context) {
		RefreshSession(c, s)
	})
	router.POST("/auth/logout", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		Logout(c, s)
	})
	router.GET("/auth/me", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		Me(c, s)
	})
}

// Me rehydrates the caller's profile from the access token, so a client
// can restore its state after a reload.
func Me(c *gin.Context, s store.Store) {
	user, err := s.GetUserByID(context.Background(), c.GetString("userId"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// RefreshSession rotates the token pair. The presented refresh token must
// match the stored hash; a token that was already rotated out is rejected.
func RefreshSession(c *gin.Context, s store.Store) {
	userID := c.GetString("userId")
	refreshToken := c.GetString("refreshToken")

	ctx := context.Background()
	rec, err := s.GetRefreshToken(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found, sign in again"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	if rec.Revoked || time.Now().Unix() > rec.ExpiresIn {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, sign in again"})
		return
	}
	if err := services.CompareRefreshToken(rec.RefreshToken, refreshToken); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token does not match"})
		return
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	accessToken, newRefreshToken, err := issueTokens(ctx, s, userID, user.UserType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": newRefreshToken,
	})
}

func Logout(c *gin.Context, s store.Store) {
	userID := c.GetString("userId")

	if err := s.RevokeRefreshToken(context.Background(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
