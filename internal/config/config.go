package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths   PathsConfig   `json:"paths"`
	Preview PreviewConfig `json:"preview"`
}

type PathsConfig struct {
	BaseDir    string `json:"base_dir"`
	OverlayDir string `json:"overlay_dir"`
	OutputDir  string `json:"output_dir"`
}

type PreviewConfig struct {
	Port     string `json:"port"`
	CacheTTL string `json:"cache_ttl"`
}

// OverlayManifest lists the overlay source files, relative to the
// overlay directory.
type OverlayManifest struct {
	Chains       string   `yaml:"chains"`
	XCM          XCMPaths `yaml:"xcm"`
	GlobalConfig string   `yaml:"global_config"`
}

type XCMPaths struct {
	Static  string `yaml:"static"`
	Dynamic string `yaml:"dynamic"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if err := godotenv.Load(); err != nil {
			if err := godotenv.Load(".env.local"); err != nil {
				fmt.Printf("No .env or .env.local file found. Using environment variables.\n")
			}
		}

		return &Config{
			Paths: PathsConfig{
				BaseDir:    getEnv("NOVA_BASE_DIR", "nova-base"),
				OverlayDir: getEnv("PEZKUWI_OVERLAY_DIR", "pezkuwi-overlay"),
				OutputDir:  getEnv("OUTPUT_DIR", "."),
			},
			Preview: PreviewConfig{
				Port:     getEnv("PREVIEW_PORT", "8080"),
				CacheTTL: getEnv("PREVIEW_CACHE_TTL", "15m"),
			},
		}, nil
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			BaseDir:    "nova-base",
			OverlayDir: "pezkuwi-overlay",
			OutputDir:  ".",
		},
		Preview: PreviewConfig{
			Port:     "8080",
			CacheTTL: "15m",
		},
	}
}

func applyDefaults(config *Config) {
	defaults := DefaultConfig()
	if config.Paths.BaseDir == "" {
		config.Paths.BaseDir = defaults.Paths.BaseDir
	}
	if config.Paths.OverlayDir == "" {
		config.Paths.OverlayDir = defaults.Paths.OverlayDir
	}
	if config.Paths.OutputDir == "" {
		config.Paths.OutputDir = defaults.Paths.OutputDir
	}
	if config.Preview.Port == "" {
		config.Preview.Port = defaults.Preview.Port
	}
	if config.Preview.CacheTTL == "" {
		config.Preview.CacheTTL = defaults.Preview.CacheTTL
	}
}

// DefaultOverlayManifest matches the layout the overlay repo has always
// used.
func DefaultOverlayManifest() *OverlayManifest {
	return &OverlayManifest{
		Chains: filepath.Join("chains", "pezkuwi-chains.json"),
		XCM: XCMPaths{
			Static:  filepath.Join("xcm", "pezkuwi-xcm.json"),
			Dynamic: filepath.Join("xcm", "pezkuwi-xcm-dynamic.json"),
		},
		GlobalConfig: filepath.Join("config", "global_config_overlay.json"),
	}
}

// LoadOverlayManifest reads the overlay manifest from manifestPath. An
// empty path searches for config/overlay.yaml upward from the working
// directory; if none is found, the default layout applies.
func LoadOverlayManifest(manifestPath string) (*OverlayManifest, error) {
	if manifestPath == "" {
		found, err := findManifest()
		if err != nil {
			return DefaultOverlayManifest(), nil
		}
		manifestPath = found
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read overlay manifest: %w", err)
	}

	manifest := DefaultOverlayManifest()
	if err := yaml.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("failed to parse overlay manifest: %w", err)
	}

	return manifest, nil
}

func findManifest() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	for i := 0; i < 3; i++ {
		manifestPath := filepath.Join(wd, "config", "overlay.yaml")
		if _, err := os.Stat(manifestPath); err == nil {
			return manifestPath, nil
		}

		if i == 0 {
			manifestPath = filepath.Join(wd, "overlay.yaml")
			if _, err := os.Stat(manifestPath); err == nil {
				return manifestPath, nil
			}
		}

		wd = filepath.Dir(wd)
		if wd == "/" {
			break
		}
	}

	return "", fmt.Errorf("overlay manifest not found")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
