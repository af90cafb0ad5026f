package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/BekirBz/invoice-ai-mvp/pkg/chat"
	"github.com/BekirBz/invoice-ai-mvp/pkg/ingest"
	"github.com/BekirBz/invoice-ai-mvp/pkg/llm"
	"github.com/BekirBz/invoice-ai-mvp/pkg/logging"
	"github.com/BekirBz/invoice-ai-mvp/pkg/ocr"
	"github.com/BekirBz/invoice-ai-mvp/pkg/pipeline"
)

var jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)

func main() {
	// Load ./.env if present before reading vars; existing env wins.
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	log := logging.L()

	st, err := openStore()
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer st.Close()

	// Lightweight migrate command: `./invoice-ai migrate` runs AutoMigrate
	// and exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := st.Migrate(); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
		fmt.Println("migration completed")
		return
	}

	extractor := ocr.New(ocrConfigFromEnv())
	pipe := pipeline.New(extractor, st)

	var answerer chat.Answerer
	if client := llm.NewFromEnv(); client != nil {
		answerer = client
	} else {
		log.Info("OPENROUTER_API_KEY not set; chat runs without LLM fallback")
	}
	engine := chat.New(st, answerer)

	if dir := os.Getenv("INGEST_DIR"); dir != "" {
		user := os.Getenv("INGEST_USER")
		w := ingest.New(dir, user, pipe)
		go func() {
			if err := w.Run(context.Background()); err != nil && err != context.Canceled {
				log.WithError(err).Error("ingest watcher stopped")
			}
		}()
	}

	r := gin.Default()
	setupRoutes(r, newServer(st, pipe, engine))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func ocrConfigFromEnv() ocr.Config {
	cfg := ocr.Config{
		Pdftoppm: os.Getenv("OCR_PDFTOPPM"),
		Language: os.Getenv("OCR_LANG"),
	}
	if v := os.Getenv("OCR_DPI"); v != "" {
		if dpi, err := strconv.Atoi(v); err == nil {
			cfg.DPI = dpi
		}
	}
	if v := os.Getenv("OCR_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}
	return cfg
}
