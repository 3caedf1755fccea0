package worker

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"labourconnect/dto"
	"labourconnect/middleware"
	"labourconnect/model"
	"labourconnect/services"
	"labourconnect/store"
)

func WorkerController(router *gin.Engine, s store.Store) {
	router.GET("/workers", func(c *gin.Context) {
		SearchWorkers(c, s)
	})
	router.GET("/workers/:id", func(c *gin.Context) {
		GetWorker(c, s)
	})

	routes := router.Group("/workers", middleware.AccessTokenMiddleware(), middleware.ProfessionalOnlyMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			AddWorker(c, s)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateWorker(c, s)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			RemoveWorker(c, s)
		})
		routes.POST("/recount", func(c *gin.Context) {
			Recount(c, s)
		})
	}

	router.GET("/professional/workers", middleware.AccessTokenMiddleware(), middleware.ProfessionalOnlyMiddleware(), func(c *gin.Context) {
		ListMyWorkers(c, s)
	})
}

// SearchWorkers is the public listing. Area and profession go to the
// store as equality predicates; experience and the rate range are applied
// here because the document backend cannot combine them with the rest.
// An empty result is a 200 with an empty list, not an error.
func SearchWorkers(c *gin.Context, s store.Store) {
	filter := store.WorkerFilter{
		Area:       c.Query("area"),
		Profession: c.Query("profession"),
		ActiveOnly: true,
	}

	workers, err := s.ListWorkers(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load workers"})
		return
	}

	if experience := c.Query("experience"); experience != "" {
		filtered := workers[:0]
		for _, w := range workers {
			if w.Experience == experience {
				filtered = append(filtered, w)
			}
		}
		workers = filtered
	}
	if minRate, err := strconv.Atoi(c.Query("minRate")); err == nil {
		filtered := workers[:0]
		for _, w := range workers {
			if w.DailyRate >= minRate {
				filtered = append(filtered, w)
			}
		}
		workers = filtered
	}
	if maxRate, err := strconv.Atoi(c.Query("maxRate")); err == nil {
		filtered := workers[:0]
		for _, w := range workers {
			if w.DailyRate <= maxRate {
				filtered = append(filtered, w)
			}
		}
		workers = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"workers": workers,
		"count":   len(workers),
	})
}

func GetWorker(c *gin.Context, s store.Store) {
	worker, err := s.GetWorkerByID(context.Background(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load worker"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"worker": worker})
}

// AddWorker puts a worker on the caller's roster. The roster counter is
// bumped atomically with the insert, so the billing view never lags.
func AddWorker(c *gin.Context, s store.Store) {
	var request dto.AddWorkerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !services.ValidateIndianMobile(request.Mobile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid 10-digit mobile number"})
		return
	}
	if !model.IsValidProfession(request.Profession) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select a profession"})
		return
	}
	if request.Experience != "" && !model.IsValidExperience(request.Experience) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid experience range"})
		return
	}

	newWorker := model.Worker{
		FullName:   request.FullName,
		Mobile:     services.FormatPhone(request.Mobile),
		Profession: request.Profession,
		Experience: request.Experience,
		DailyRate:  request.DailyRate,
		Skills:     request.Skills,
		Area:       request.Area,
		AddedBy:    c.GetString("userId"),
	}

	ctx := context.Background()
	docID, err := s.AddWorker(ctx, newWorker)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add worker"})
		return
	}

	worker, err := s.GetWorkerByID(ctx, docID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load created worker"})
		return
	}

	user, err := s.GetUserByID(ctx, newWorker.AddedBy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Worker added successfully",
		"worker":  worker,
		"plan":    services.PlanFor(user.WorkersCount),
	})
}

func UpdateWorker(c *gin.Context, s store.Store) {
	var request dto.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := context.Background()
	worker, err := ownedWorker(ctx, c, s)
	if err != nil {
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
	if request.Skills != "" {
		updates["skills"] = request.Skills
	}
	if request.Area != "" {
		updates["area"] = request.Area
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := s.UpdateWorker(ctx, worker.WorkerID, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update worker"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Worker updated successfully"})
}

// RemoveWorker is a soft delete. The row stays and keeps counting toward
// the roster quota; only a recount reflects nothing because the row is
// still there.
func RemoveWorker(c *gin.Context, s store.Store) {
	ctx := context.Background()
	worker, err := ownedWorker(ctx, c, s)
	if err != nil {
		return
	}

	if err := s.DeactivateWorker(ctx, worker.WorkerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove worker"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Worker removed from listings"})
}

func ListMyWorkers(c *gin.Context, s store.Store) {
	workers, err := s.ListWorkersByProfessional(context.Background(), c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load workers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"workers": workers,
		"count":   len(workers),
	})
}

// Recount re-derives the roster counter from the worker rows, for
// repairing drift after manual data fixes.
func Recount(c *gin.Context, s store.Store) {
	count, err := services.RecountWorkers(context.Background(), s, c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recount workers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Workers recounted",
		"workersCount": count,
		"plan":         services.PlanFor(count),
	})
}

// ownedWorker loads the worker in the path and checks the caller added
// it. Writes the error response itself; callers just return on error.
func ownedWorker(ctx context.Context, c *gin.Context, s store.Store) (model.Worker, error) {
	worker, err := s.GetWorkerByID(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return model.Worker{}, err
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load worker"})
		return model.Worker{}, err
	}
	if worker.AddedBy != c.GetString("userId") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Worker belongs to another account"})
		return model.Worker{}, errors.New("not owner")
	}
	return worker, nil
}
