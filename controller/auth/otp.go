package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"labourconnect/dto"
	"labourconnect/services"
	"labourconnect/store"
)

func OTPController(router *gin.Engine, s store.Store, sender services.SMSSender, captcha services.CaptchaVerifier) {
	routes := router.Group("/auth")
	{
		routes.POST("/otp/send", func(c *gin.Context) {
			SendOTP(c, s, sender, captcha)
		})
		routes.POST("/otp/resend", func(c *gin.Context) {
			SendOTP(c, s, sender, captcha)
		})
		routes.POST("/otp/verify", func(c *gin.Context) {
			VerifyOTP(c, s)
		})
	}
}

// SendOTP serves both first sends and resends. The captcha gate runs
// before anything touches the store, and the mobile is validated before
// any network call.
func SendOTP(c *gin.Context, s store.Store, sender services.SMSSender, captcha services.CaptchaVerifier) {
	var request dto.SendOTPRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !services.ValidateIndianMobile(request.Mobile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid 10-digit mobile number"})
		return
	}

	result, err := captcha.Verify(c.Request.Context(), request.CaptchaToken, "send_otp", getClientIP(c), c.Request.UserAgent())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Captcha verification failed"})
		return
	}
	if result == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Captcha verification failed"})
		return
	}

	mobile := services.FormatPhone(request.Mobile)
	ctx := context.Background()

	ref, err := services.SendOTP(ctx, s, sender, mobile)
	if errors.Is(err, services.ErrTooManyRequests) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many OTP requests, try again later"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "OTP sent successfully",
		"ref":     ref,
	})
}

// VerifyOTP checks the code and, when the mobile belongs to a registered
// user, logs them in. Unknown mobiles get registered=false so the client
// can route to the registration form.
func VerifyOTP(c *gin.Context, s store.Store) {
	var request dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mobile := services.FormatPhone(request.Mobile)
	ctx := context.Background()

	err := services.VerifyOTP(ctx, s, mobile, request.Reference, request.OTP)
	switch {
	case errors.Is(err, services.ErrNoPendingRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No OTP request found, request a new code"})
		return
	case errors.Is(err, services.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "OTP has expired, request a new code"})
		return
	case errors.Is(err, services.ErrOTPUsed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "OTP already used, request a new code"})
		return
	case errors.Is(err, services.ErrOTPInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect OTP"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify OTP"})
		return
	}

	user, err := s.GetUserByMobile(ctx, mobile)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{
			"message":    "OTP verified",
			"registered": false,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	accessToken, refreshToken, err := issueTokens(ctx, s, user.UserID, user.UserType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "OTP verified",
		"registered":   true,
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func getClientIP(c *gin.Context) string {
	userIPAddress := c.ClientIP()
	if userIPAddress == "" {
		userIPAddress = c.Request.RemoteAddr
	}
	if idx := strings.Index(userIPAddress, ","); idx != -1 {
		userIPAddress = strings.TrimSpace(userIPAddress[:idx])
	}
	return userIPAddress
}
