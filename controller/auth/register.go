package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"labourconnect/dto"
	"labourconnect/model"
	"labourconnect/services"
	"labourconnect/store"
)

func RegisterController(router *gin.Engine, s store.Store) {
	router.POST("/auth/register", func(c *gin.Context) {
		Register(c, s)
	})
}

// Register creates the account and logs it in, in one round trip. Worker
// and professional accounts also feed the area and profession counters so
// search pages see them immediately.
func Register(c *gin.Context, s store.Store) {
	var request dto.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !services.ValidateIndianMobile(request.Mobile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid 10-digit mobile number"})
		return
	}
	if !model.IsValidUserType(request.UserType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user type"})
		return
	}
	// Workers and professionals both declare a trade; only customers
	// register with the bare contact fields.
	if request.UserType != model.UserTypeCustomer {
		if !model.IsValidProfession(request.Profession) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please select a profession"})
			return
		}
		if request.Experience != "" && !model.IsValidExperience(request.Experience) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid experience range"})
			return
		}
	}

	newUser := model.User{
		FullName:   request.FullName,
		Mobile:     services.FormatPhone(request.Mobile),
		UserType:   request.UserType,
		Profession: request.Profession,
		Experience: request.Experience,
		DailyRate:  request.DailyRate,
		Age:        request.Age,
		Skills:     request.Skills,
		Address:    request.Address,
		Area:       request.Area,
		Pincode:    request.Pincode,
	}

	ctx := context.Background()
	docID, err := s.CreateUser(ctx, newUser)
	if errors.Is(err, store.ErrAlreadyExists) {
		c.JSON(http.StatusConflict, gin.H{"error": "Mobile number is already registered"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	if request.UserType != model.UserTypeCustomer {
		if request.Area != "" {
			if err := s.UpsertAreaAggregate(ctx, request.Area); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update area listing"})
				return
			}
		}
		if err := s.UpsertProfessionAggregate(ctx, request.Profession); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profession listing"})
			return
		}
	}

	user, err := s.GetUserByID(ctx, docID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load created user"})
		return
	}

	accessToken, refreshToken, err := issueTokens(ctx, s, docID, user.UserType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Account created successfully",
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// issueTokens mints the access/refresh pair and stores the refresh hash,
// replacing any previous session for the user.
func issueTokens(ctx context.Context, s store.Store, userID, userType string) (string, string, error) {
	accessToken, err := services.CreateAccessToken(userID, userType)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := services.CreateRefreshToken(userID)
	if err != nil {
		return "", "", err
	}
	hashedToken, err := services.HashRefreshToken(refreshToken)
	if err != nil {
		return "", "", err
	}

	rec := model.RefreshTokenRecord{
		UserID:       userID,
		RefreshToken: hashedToken,
		CreatedAt:    time.Now().Unix(),
		Revoked:      false,
		ExpiresIn:    time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	if err := s.SaveRefreshToken(ctx, userID, rec); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
