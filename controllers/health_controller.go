package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dataanalyzer-ai/backend/database"
	"dataanalyzer-ai/backend/middlewares"
)

func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "Universal Data Analyzer is running! 🤖📊"})
	}
}

// History returns the latest uploads and analyses recorded for the caller's
// session.
func History() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !database.Enabled() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is not configured"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		sid := middlewares.SessionID(c)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		uploads, err := database.RecentUploads(ctx, sid, limit)
		if err != nil {
			log.Printf("[history] uploads query failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		analyses, err := database.RecentAnalyses(ctx, sid, limit)
		if err != nil {
			log.Printf("[history] analyses query failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"uploads": uploads, "analyses": analyses, "limit": limit})
	}
}
