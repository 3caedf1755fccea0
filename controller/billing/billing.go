package billing

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"labourconnect/middleware"
	"labourconnect/services"
	"labourconnect/store"
)

func BillingController(router *gin.Engine, s store.Store) {
	router.GET("/billing/plan", middleware.AccessTokenMiddleware(), middleware.ProfessionalOnlyMiddleware(), func(c *gin.Context) {
		GetPlan(c, s)
	})
}

// GetPlan reads the free-tier standing off the stored workersCount. No
// recount happens here; the counter is maintained by the add path.
func GetPlan(c *gin.Context, s store.Store) {
	user, err := s.GetUserByID(context.Background(), c.GetString("userId"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": services.PlanFor(user.WorkersCount)})
}
