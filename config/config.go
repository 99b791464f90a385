package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string // optional; enables upload/analysis history
	GeminiAPIKey     string
	GeminiModel      string
	LLMTimeout       time.Duration
	LLMMaxTokens     int32
	LLMTemperature   float32
	SessionSecret    string
	SessionTTL       time.Duration
	Profile          string // generic | realestate
	AnalyzeAllOnMiss bool
	MaxUploadBytes   int64
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:             get("PORT", "8000"),
		DatabaseURL:      get("DATABASE_URL", ""),
		GeminiAPIKey:     get("GEMINI_API_KEY", ""),
		GeminiModel:      get("GEMINI_MODEL", "gemini-2.5-flash"),
		LLMTimeout:       time.Duration(getInt("LLM_TIMEOUT_SECONDS", 20)) * time.Second,
		LLMMaxTokens:     int32(getInt("LLM_MAX_TOKENS", 400)),
		LLMTemperature:   float32(getFloat("LLM_TEMPERATURE", 0.7)),
		SessionSecret:    get("SESSION_SECRET", ""),
		SessionTTL:       time.Duration(getInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
		Profile:          strings.ToLower(get("ANALYZER_PROFILE", "generic")),
		AnalyzeAllOnMiss: getBool("ANALYZE_ALL_ON_MISS", false),
		MaxUploadBytes:   int64(getInt("MAX_UPLOAD_MB", 32)) << 20,
	}
	if cfg.SessionSecret == "" {
		// tokens issued with a random secret do not survive a restart, same as the sessions they point to
		cfg.SessionSecret = randomSecret()
		log.Printf("SESSION_SECRET not set; using an ephemeral secret")
	}
	if cfg.GeminiAPIKey == "" {
		log.Printf("GEMINI_API_KEY not set; insights will use the fallback summary")
	}
	return cfg
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("invalid %s=%q, using %d", k, v, def)
		return def
	}
	return n
}

func getFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		log.Printf("invalid %s=%q, using %g", k, v, def)
		return def
	}
	return f
}

func getBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %t", k, v, def)
		return def
	}
	return b
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("session secret: %v", err)
	}
	return hex.EncodeToString(b)
}
