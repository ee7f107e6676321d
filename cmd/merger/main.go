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
	"github.com/pezkuwi/wallet-config/internal/notifications"
	"github.com/pezkuwi/wallet-config/internal/syncer"
	"github.com/sirupsen/logrus"
)

const bannerText = `
{{ .Title "Pezkuwi Config" "" 0 }}
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
	manifestPath := flag.String("manifest", "", "path to overlay manifest (default: search for config/overlay.yaml)")
	version := flag.String("version", "v22", "chain config version to merge")
	all := flag.Bool("all", false, "merge every version found under the base directory")
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

	manifest, err := config.LoadOverlayManifest(*manifestPath)
	if err != nil {
		logger.Fatalf("Failed to load overlay manifest: %v", err)
	}

	logger.Debugf("Base dir: %s", cfg.Paths.BaseDir)
	logger.Debugf("Overlay dir: %s", cfg.Paths.OverlayDir)
	logger.Debugf("Output dir: %s", cfg.Paths.OutputDir)

	var versions []string
	if !*all {
		versions = []string{*version}
	}

	s := syncer.New(cfg, manifest, logger)

	start := time.Now()
	summary, err := s.Run(versions)
	if err != nil {
		logger.Fatalf("Sync failed: %v", err)
	}

	logger.Infof("Sync completed in %s", time.Since(start))
	for _, v := range summary.Versions {
		logger.Infof("  %s: %d chains (%d overlay first)", v.Version, v.Merged, v.Overlay)
	}

	slack, err := notifications.NewSlackService(logger)
	if err != nil {
		logger.Debugf("Slack notifications disabled: %v", err)
		return
	}
	if err := slack.SendSyncSummary(summary); err != nil {
		logger.Warnf("Failed to send Slack notification: %v", err)
	}
}
