package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/dimiro1/banner"
	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"github.com/pezkuwi/wallet-config/internal/config"
	"github.com/pezkuwi/wallet-config/internal/preview"
	"github.com/sirupsen/logrus"
)

const bannerText = `
{{ .Title "Config Preview" "" 0 }}
{{ .AnsiBackground.BrightBlue }}{{ .AnsiColor.White }}
{{ .AnsiReset }}
`

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load(".env.local"); err != nil {
			fmt.Printf("No .env or .env.local file found. Using environment variables.\n")
		}
	}

	banner.Init(colorable.NewColorableStdout(), true, true, strings.NewReader(bannerText))

	configPath := flag.String("config", "config/config.json", "path to config file")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          false,
		DisableTimestamp:       false,
		TimestampFormat:        "2006-01-02T15:04:05-07:00",
		DisableLevelTruncation: false,
		PadLevelText:           false,
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ttl, err := time.ParseDuration(cfg.Preview.CacheTTL)
	if err != nil {
		logger.Fatalf("Invalid preview cache TTL: %v", err)
	}

	logger.Debugf("Serving %s with cache TTL %s", cfg.Paths.OutputDir, ttl)

	handler := preview.NewHandler(cfg.Paths.OutputDir, ttl, logger)

	if err := preview.StartServer(handler, cfg.Preview.Port); err != nil {
		logger.Fatalf("Preview server failed: %v", err)
	}

	logger.Info("Preview server stopped")
}
