package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/pathloss/internal/units"
)

// DefaultConfigPath is the path to the example fit configuration shipped
// with the repository.
const DefaultConfigPath = "config/fit.defaults.json"

// Model names accepted in FitConfig.Models.
const (
	ModelFI = "fi"
	ModelCI = "ci"
)

// Default values returned by the getters when a field is unset.
const (
	defaultFrequency         = 3.5
	defaultFrequencyUnits    = units.GHz
	defaultReferenceDistance = 1.0
	defaultDistanceColumn    = 0
	defaultLossColumn        = 2
)

// FitConfig holds the parameters for a path-loss fitting run. Every field is
// optional; the Get* methods fall back to defaults for anything not set, so
// partial JSON files are safe.
type FitConfig struct {
	// Close-In anchor
	Frequency         *float64 `json:"frequency,omitempty"`
	FrequencyUnits    *string  `json:"frequency_units,omitempty"` // hz, khz, mhz, ghz
	ReferenceDistance *float64 `json:"reference_distance_m,omitempty"`

	// Geometry
	AntennaHeight *float64 `json:"antenna_height_m,omitempty"`
	SlantDistance *bool    `json:"slant_distance,omitempty"`

	// Input layout
	DistanceColumn *int `json:"distance_column,omitempty"`
	LossColumn     *int `json:"loss_column,omitempty"`

	// Models to fit, any of "fi" and "ci"
	Models []string `json:"models,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyFitConfig returns a FitConfig with all fields unset.
func EmptyFitConfig() *FitConfig {
	return &FitConfig{}
}

// DefaultFitConfig returns a FitConfig with every field populated with its default.
func DefaultFitConfig() *FitConfig {
	return &FitConfig{
		Frequency:         ptrFloat64(defaultFrequency),
		FrequencyUnits:    ptrString(defaultFrequencyUnits),
		ReferenceDistance: ptrFloat64(defaultReferenceDistance),
		AntennaHeight:     ptrFloat64(units.AntennaHeightOffset),
		SlantDistance:     ptrBool(false),
		DistanceColumn:    ptrInt(defaultDistanceColumn),
		LossColumn:        ptrInt(defaultLossColumn),
		Models:            []string{ModelFI, ModelCI},
	}
}

// LoadFitConfig loads a FitConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadFitConfig(path string) (*FitConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyFitConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *FitConfig) Validate() error {
	if c.Frequency != nil && !(*c.Frequency > 0 && !math.IsInf(*c.Frequency, 0)) {
		return fmt.Errorf("frequency must be positive, got %f", *c.Frequency)
	}
	if c.FrequencyUnits != nil && !units.IsValidFrequencyUnit(*c.FrequencyUnits) {
		return fmt.Errorf("invalid frequency_units %q, must be one of: %s", *c.FrequencyUnits, units.GetValidFrequencyUnitsString())
	}
	if c.ReferenceDistance != nil && !(*c.ReferenceDistance > 0) {
		return fmt.Errorf("reference_distance_m must be positive, got %f", *c.ReferenceDistance)
	}
	if c.AntennaHeight != nil && !(*c.AntennaHeight >= 0) {
		return fmt.Errorf("antenna_height_m must be non-negative, got %f", *c.AntennaHeight)
	}
	if c.DistanceColumn != nil && *c.DistanceColumn < 0 {
		return fmt.Errorf("distance_column must be non-negative, got %d", *c.DistanceColumn)
	}
	if c.LossColumn != nil && *c.LossColumn < 0 {
		return fmt.Errorf("loss_column must be non-negative, got %d", *c.LossColumn)
	}
	if c.GetDistanceColumn() == c.GetLossColumn() {
		return fmt.Errorf("distance_column and loss_column must differ, both are %d", c.GetDistanceColumn())
	}
	for _, m := range c.Models {
		if _, err := ParseModel(m); err != nil {
			return err
		}
	}
	return nil
}

// ParseModel normalises a model name and rejects unknown ones.
func ParseModel(name string) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(name)); m {
	case ModelFI, ModelCI:
		return m, nil
	default:
		return "", fmt.Errorf("unknown model %q, must be %q or %q", name, ModelFI, ModelCI)
	}
}

// GetFrequencyGHz returns the carrier frequency converted to GHz.
func (c *FitConfig) GetFrequencyGHz() float64 {
	f := defaultFrequency
	if c.Frequency != nil {
		f = *c.Frequency
	}
	u := defaultFrequencyUnits
	if c.FrequencyUnits != nil {
		u = *c.FrequencyUnits
	}
	return units.ConvertFrequencyToHz(f, u) / 1e9
}

// GetReferenceDistance returns reference_distance_m or the default.
func (c *FitConfig) GetReferenceDistance() float64 {
	if c.ReferenceDistance == nil {
		return defaultReferenceDistance
	}
	return *c.ReferenceDistance
}

// GetAntennaHeight returns antenna_height_m or the default offset.
func (c *FitConfig) GetAntennaHeight() float64 {
	if c.AntennaHeight == nil {
		return units.AntennaHeightOffset
	}
	return *c.AntennaHeight
}

// GetSlantDistance returns slant_distance or false.
func (c *FitConfig) GetSlantDistance() bool {
	if c.SlantDistance == nil {
		return false
	}
	return *c.SlantDistance
}

// GetDistanceColumn returns distance_column or the default.
func (c *FitConfig) GetDistanceColumn() int {
	if c.DistanceColumn == nil {
		return defaultDistanceColumn
	}
	return *c.DistanceColumn
}

// GetLossColumn returns loss_column or the default.
func (c *FitConfig) GetLossColumn() int {
	if c.LossColumn == nil {
		return defaultLossColumn
	}
	return *c.LossColumn
}

// GetModels returns the normalised, de-duplicated model list, or both
// models when none are configured.
func (c *FitConfig) GetModels() []string {
	if len(c.Models) == 0 {
		return []string{ModelFI, ModelCI}
	}
	seen := make(map[string]bool, len(c.Models))
	out := make([]string, 0, len(c.Models))
	for _, m := range c.Models {
		name, err := ParseModel(m)
		if err != nil || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// WantsModel reports whether the named model is selected.
func (c *FitConfig) WantsModel(name string) bool {
	for _, m := range c.GetModels() {
		if m == name {
			return true
		}
	}
	return false
}
