package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"dataanalyzer-ai/backend/analysis"
	"dataanalyzer-ai/backend/config"
	"dataanalyzer-ai/backend/database"
	"dataanalyzer-ai/backend/middlewares"
	"dataanalyzer-ai/backend/routes"
	"dataanalyzer-ai/backend/session"
	"dataanalyzer-ai/backend/utils"
)

func main() {
	cfg := config.Load()
	if err := database.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer database.Close()
	database.EnsureSchema()

	var llm analysis.LLM
	ai, err := utils.NewGeminiClient(context.Background(), utils.AIConfig{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	})
	if err != nil {
		log.Printf("[insight] gemini disabled, using fallback summaries: %v", err)
	} else {
		defer ai.Close()
		llm = ai
		log.Printf("[insight] gemini model %s", cfg.GeminiModel)
	}
	gen := analysis.NewGenerator(llm, cfg.LLMTimeout)
	store := session.NewStore(cfg.SessionTTL)

	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(middlewares.CORS())
	routes.Register(r, cfg, store, gen)
	log.Printf("server on :%s (profile %s)", cfg.Port, cfg.Profile)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
