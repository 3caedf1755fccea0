package catalog

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"labourconnect/store"
)

func CatalogController(router *gin.Engine, s store.Store) {
	router.GET("/areas", func(c *gin.Context) {
		ListAreas(c, s)
	})
	router.GET("/professions", func(c *gin.Context) {
		ListProfessions(c, s)
	})
	router.GET("/stats", func(c *gin.Context) {
		Stats(c, s)
	})
	router.GET("/map/workers", func(c *gin.Context) {
		MapWorkers(c, s)
	})
}

// ListAreas returns the area counters, busiest first. Counters only grow
// with registrations, so stale highs are possible until a cleanup job
// exists.
func ListAreas(c *gin.Context, s store.Store) {
	areas, err := s.ListAreas(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load areas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"areas": areas})
}

func ListProfessions(c *gin.Context, s store.Store) {
	professions, err := s.ListProfessions(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load professions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"professions": professions})
}

// Stats feeds the landing page tiles.
func Stats(c *gin.Context, s store.Store) {
	ctx := context.Background()

	workers, err := s.ListWorkers(ctx, store.WorkerFilter{ActiveOnly: true})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	areas, err := s.ListAreas(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	professions, err := s.ListProfessions(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workers":     len(workers),
		"areas":       len(areas),
		"professions": len(professions),
	})
}

// MapWorkers feeds the map view. Workers have no coordinates yet, so the
// payload groups active workers per area and the client geocodes the area
// name.
func MapWorkers(c *gin.Context, s store.Store) {
	workers, err := s.ListWorkers(context.Background(), store.WorkerFilter{ActiveOnly: true})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load workers"})
		return
	}

	byArea := map[string]int{}
	for _, w := range workers {
		if w.Area != "" {
			byArea[w.Area]++
		}
	}
	c.JSON(http.StatusOK, gin.H{"areas": byArea})
}
