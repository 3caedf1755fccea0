package user

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"labourconnect/dto"
	"labourconnect/middleware"
	"labourconnect/model"
	"labourconnect/services"
	"labourconnect/store"
)

// Profile pictures above this size are rejected outright.
const maxPictureSize = 5 << 20

func UserController(router *gin.Engine, s store.Store, uploader services.Uploader) {
	routes := router.Group("/user", middleware.AccessTokenMiddleware())
	{
		routes.GET("/profile", func(c *gin.Context) {
			GetProfile(c, s)
		})
		routes.PUT("/profile", func(c *gin.Context) {
			UpdateProfile(c, s)
		})
		routes.POST("/profile-picture", func(c *gin.Context) {
			UploadProfilePicture(c, s, uploader)
		})
	}
}

func GetProfile(c *gin.Context, s store.Store) {
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

func UpdateProfile(c *gin.Context, s store.Store) {
	var request dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if request.FullName != "" {
		updates["fullName"] = request.FullName
	}
	if request.Profession != "" {
		if !model.IsValidProfession(request.Profession) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please select a profession"})
			return
		}
		updates["profession"] = request.Profession
	}
	if request.Experience != "" {
		if !model.IsValidExperience(request.Experience) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid experience range"})
			return
		}
		updates["experience"] = request.Experience
	}
	if request.DailyRate > 0 {
		updates["dailyRate"] = request.DailyRate
	}
	if request.Age > 0 {
		updates["age"] = request.Age
	}
	if request.Skills != "" {
		updates["skills"] = request.Skills
	}
	if request.Address != "" {
		updates["address"] = request.Address
	}
	if request.Area != "" {
		updates["area"] = request.Area
	}
	if request.Pincode != "" {
		updates["pincode"] = request.Pincode
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	ctx := context.Background()
	userID := c.GetString("userId")
	if err := s.UpdateUser(ctx, userID, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load updated profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// UploadProfilePicture stores the image and writes its URL onto the
// profile. Re-uploading replaces the previous picture for the user.
func UploadProfilePicture(c *gin.Context, s store.Store, uploader services.Uploader) {
	fileHeader, err := c.FormFile("picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Picture file is required"})
		return
	}
	if fileHeader.Size > maxPictureSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Picture must be 5MB or smaller"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image uploads are allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer file.Close()

	ctx := context.Background()
	userID := c.GetString("userId")

	url, err := uploader.UploadProfilePicture(ctx, userID, contentType, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store picture"})
		return
	}

	if err := s.UpdateUser(ctx, userID, map[string]interface{}{"profileUrl": url}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Profile picture updated",
		"profileUrl": url,
	})
}
