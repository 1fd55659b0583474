package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/binsight/footfall-backend-go/internal/models"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string

	// Analysis region (bounding box, degrees)
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64

	// Hex cell radius in meters (centre to vertex)
	CellRadiusMeters float64

	// Per-type influence radii in meters
	TransitRadiusMeters  float64
	StreetRadiusMeters   float64
	PremisesRadiusMeters float64

	// Per-type composite weights; must sum to 1
	TransitWeight  float64
	StreetWeight   float64
	PremisesWeight float64

	// Number of footfall categories
	Categories int

	// Sensor optimizer defaults
	TargetSensors    int
	MinSensorSpacing float64 // meters
}

// WeightTolerance is the allowed deviation of the weight sum from 1.
const WeightTolerance = 1e-6

// Load reads configuration from environment variables with Westminster
// defaults matching the published analysis parameters.
func Load() *Config {
	cfg := &Config{
		Port:      envString("PORT", ":8080"),
		DBPath:    envString("DB_PATH", "./data/footfall/footfall.db"),
		JWTSecret: os.Getenv("JWT_SECRET"),

		MinLat: envFloat("REGION_MIN_LAT", 51.485),
		MaxLat: envFloat("REGION_MAX_LAT", 51.535),
		MinLon: envFloat("REGION_MIN_LON", -0.20),
		MaxLon: envFloat("REGION_MAX_LON", -0.11),

		CellRadiusMeters: envFloat("CELL_RADIUS_M", 60),

		TransitRadiusMeters:  envFloat("TRANSIT_RADIUS_M", 500),
		StreetRadiusMeters:   envFloat("STREET_RADIUS_M", 200),
		PremisesRadiusMeters: envFloat("PREMISES_RADIUS_M", 150),

		TransitWeight:  envFloat("TRANSIT_WEIGHT", 0.45),
		StreetWeight:   envFloat("STREET_WEIGHT", 0.30),
		PremisesWeight: envFloat("PREMISES_WEIGHT", 0.25),

		Categories: envInt("FOOTFALL_CATEGORIES", 8),

		TargetSensors:    envInt("TARGET_SENSORS", 1000),
		MinSensorSpacing: envFloat("MIN_SENSOR_SPACING_M", 50),
	}
	return cfg
}

// Validate checks the configuration before any analysis work starts.
// Violations are configuration errors: the run must fail fast.
func (c *Config) Validate() error {
	if c.MinLat >= c.MaxLat || c.MinLon >= c.MaxLon {
		return fmt.Errorf("invalid region: min (%f, %f) must be south-west of max (%f, %f)",
			c.MinLat, c.MinLon, c.MaxLat, c.MaxLon)
	}
	if c.CellRadiusMeters <= 0 {
		return fmt.Errorf("invalid cell radius: %f", c.CellRadiusMeters)
	}
	if c.Categories < 1 {
		return fmt.Errorf("invalid category count: %d", c.Categories)
	}
	for t, r := range c.Radii() {
		if r <= 0 {
			return fmt.Errorf("invalid influence radius for %s: %f", t, r)
		}
	}
	sum := 0.0
	for t, w := range c.Weights() {
		if w < 0 {
			return fmt.Errorf("negative weight for %s: %f", t, w)
		}
		sum += w
	}
	if math.Abs(sum-1) > WeightTolerance {
		return fmt.Errorf("source type weights must sum to 1, got %f", sum)
	}
	if c.TargetSensors < 1 {
		return fmt.Errorf("invalid target sensor count: %d", c.TargetSensors)
	}
	if c.MinSensorSpacing < 0 {
		return fmt.Errorf("invalid minimum sensor spacing: %f", c.MinSensorSpacing)
	}
	return nil
}

// Weights returns the per-type composite weights.
func (c *Config) Weights() map[models.SourceType]float64 {
	return map[models.SourceType]float64{
		models.SourceTransit:  c.TransitWeight,
		models.SourceStreet:   c.StreetWeight,
		models.SourcePremises: c.PremisesWeight,
	}
}

// Radii returns the per-type influence radii in meters.
func (c *Config) Radii() map[models.SourceType]float64 {
	return map[models.SourceType]float64{
		models.SourceTransit:  c.TransitRadiusMeters,
		models.SourceStreet:   c.StreetRadiusMeters,
		models.SourcePremises: c.PremisesRadiusMeters,
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
