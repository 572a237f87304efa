// Package config loads settings for the bota example programs from the
// environment and optional .env files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/eltonkola/bota"
	"github.com/eltonkola/bota/ggraster"
	"github.com/eltonkola/bota/internal/sample"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. BOTA_WIDTH.
const Prefix = "BOTA"

type Config struct {
	ShapesPath    string  `envconfig:"SHAPES" default:""`
	GeoJSONPath   string  `envconfig:"GEOJSON" default:""`
	Width         int     `envconfig:"WIDTH" default:"1000"`
	Height        int     `envconfig:"HEIGHT" default:"500"`
	Resizable     bool    `envconfig:"RESIZABLE" default:"true"`
	Debug         bool    `envconfig:"DEBUG" default:"false"`
	LogLevel      string  `envconfig:"LOG_LEVEL" default:"info"`
	HitStrategy   string  `envconfig:"HIT_STRATEGY" default:"pixel"`
	HitPadding    float64 `envconfig:"HIT_PADDING" default:"10"`
	HitThreshold  float64 `envconfig:"HIT_THRESHOLD" default:"0.5"`
	Rasterizer    string  `envconfig:"RASTERIZER" default:"vector"`
	Hover         bool    `envconfig:"HOVER" default:"true"`
	ScreenshotDir string  `envconfig:"SCREENSHOT_DIR" default:"screenshots"`
	TestScript    string  `envconfig:"TEST_SCRIPT" default:""`
	Output        string  `envconfig:"OUTPUT" default:"map.png"`
}

// Load reads the given .env files (missing files are ignored, the default
// is ".env") and then processes BOTA_* environment variables. Variables
// already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("config: window size %dx%d must be positive", cfg.Width, cfg.Height)
	}
	if _, err := cfg.Strategy(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Strategy returns the hit strategy named by HitStrategy: "pixel",
// "polygon" or "bbox". Pixel tests rasterize with the backend named by
// Rasterizer.
func (c *Config) Strategy() (bota.HitStrategy, error) {
	switch strings.ToLower(c.HitStrategy) {
	case "", "pixel":
		r, err := c.rasterizer()
		if err != nil {
			return nil, err
		}
		return bota.PixelPerfect{Rasterizer: r, Padding: c.HitPadding, Threshold: c.HitThreshold}, nil
	case "polygon":
		return bota.Polygon{}, nil
	case "bbox":
		return bota.BoundingBox{}, nil
	}
	return nil, fmt.Errorf("config: unknown hit strategy %q", c.HitStrategy)
}

// rasterizer maps Rasterizer to a backend: "vector" (x/image/vector), "gg"
// (gogpu/gg) or "gpu" (ebiten readback, valid only inside the game loop).
func (c *Config) rasterizer() (bota.Rasterizer, error) {
	switch strings.ToLower(c.Rasterizer) {
	case "", "vector":
		return bota.NewVectorRasterizer(), nil
	case "gg":
		return ggraster.NewRasterizer(), nil
	case "gpu":
		return bota.NewEbitenRasterizer(), nil
	}
	return nil, fmt.Errorf("config: unknown rasterizer %q", c.Rasterizer)
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	if c.Debug && l > slog.LevelDebug {
		return slog.LevelDebug
	}
	return l
}

// MapConfig builds the widget configuration.
func (c *Config) MapConfig() bota.Config {
	strategy, _ := c.Strategy()
	return bota.Config{
		HitStrategy:   strategy,
		Hover:         c.Hover,
		ScreenshotDir: c.ScreenshotDir,
		Debug:         c.Debug,
	}
}

// LoadDataset reads GeoJSONPath or ShapesPath, in that order, and falls back
// to the embedded sample world.
func (c *Config) LoadDataset() (*bota.Dataset, error) {
	switch {
	case c.GeoJSONPath != "":
		data, err := os.ReadFile(c.GeoJSONPath)
		if err != nil {
			return nil, fmt.Errorf("config: read geojson: %w", err)
		}
		return bota.LoadGeoJSON(data, bota.GeoJSONOptions{})
	case c.ShapesPath != "":
		data, err := os.ReadFile(c.ShapesPath)
		if err != nil {
			return nil, fmt.Errorf("config: read shapes: %w", err)
		}
		return bota.LoadShapesJSON(data)
	}
	return sample.Dataset()
}
