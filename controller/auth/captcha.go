package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labourconnect/dto"
	"labourconnect/services"
)

func CaptchaController(router *gin.Engine, captcha services.CaptchaVerifier) {
	router.POST("/auth/captcha", func(c *gin.Context) {
		VerifyCaptcha(c, captcha)
	})
}

// VerifyCaptcha scores a token on its own, for clients that want to
// pre-validate before the OTP round trip.
func VerifyCaptcha(c *gin.Context, captcha services.CaptchaVerifier) {
	var request dto.CaptchaRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := captcha.Verify(c.Request.Context(), request.Token, request.Action, getClientIP(c), c.Request.UserAgent())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if result == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Captcha verification failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"score":   result.Score,
		"action":  result.Action,
		"reasons": result.Reasons,
		"message": "Captcha verified successfully",
	})
}
