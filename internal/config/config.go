// =============================================================================
// Order Slip Generator - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file. Every
// setting has a default, so the generator also runs without any config file.
//
// EXAMPLE (config.yaml):
//   output_dir: ./orders_output
//   zip_file: ./orders.zip
//   per_run_subdir: false
//   layout_file: ./assets/layout.yaml
//   template_file: ./assets/slip_template.xlsx
//   schemas_dir: ./schemas
//   log_level: info
//   grouping:
//     normalize_keys: false
//   tax:
//     vat_rate: 0.12
//     legacy_formula: false
//   input:
//     delimiter: ","
//     encoding: UTF-8
//     sheet: ""
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is the directory rendered documents are written to.
	// It is cleared at the start of every write phase.
	// Default: "./orders_output"
	OutputDir string `yaml:"output_dir"`

	// ZipFile, when set, bundles all documents into this archive instead of
	// writing them to OutputDir.
	ZipFile string `yaml:"zip_file"`

	// PerRunSubdir writes each run into <output_dir>/<run id> so concurrent
	// or repeated runs never share a destination.
	PerRunSubdir bool `yaml:"per_run_subdir"`

	// =========================================================================
	// ASSET SETTINGS
	// =========================================================================

	// LayoutFile is an optional YAML layout overriding the built-in geometry.
	LayoutFile string `yaml:"layout_file"`

	// TemplateFile is an optional pre-built XLSX template every document
	// starts from.
	TemplateFile string `yaml:"template_file"`

	// SchemasDir is an optional directory of extra platform schema files.
	SchemasDir string `yaml:"schemas_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	Grouping GroupingSettings `yaml:"grouping"`
	Tax      TaxSettings      `yaml:"tax"`
	Input    InputSettings    `yaml:"input"`
}

// GroupingSettings controls how lines are grouped into orders.
type GroupingSettings struct {
	// NormalizeKeys trims and collapses whitespace in customer name and order
	// date before grouping, and case-folds the customer name. Off by default:
	// exact matching is the established behavior.
	NormalizeKeys bool `yaml:"normalize_keys"`
}

// TaxSettings controls the VAT breakdown.
type TaxSettings struct {
	// VATRate is the inclusive tax rate. Default: 0.12
	VATRate float64 `yaml:"vat_rate"`

	// LegacyFormula computes tax as gross × rate instead of
	// gross − round(net, 2). Only for reproducing historical documents.
	LegacyFormula bool `yaml:"legacy_formula"`
}

// InputSettings controls parsing of the uploaded export.
type InputSettings struct {
	// Delimiter is the CSV field separator. Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the CSV character encoding. Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// Sheet selects the worksheet of an XLSX export. Default: first sheet.
	Sheet string `yaml:"sheet"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//   - optional:   When true, a missing file yields the defaults instead of
//     an error.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string, optional bool) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "./orders_output"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Tax.VATRate == 0 {
		config.Tax.VATRate = 0.12
	}
	if config.Input.Delimiter == "" {
		config.Input.Delimiter = ","
	}
	if config.Input.Encoding == "" {
		config.Input.Encoding = "UTF-8"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error (got %q)", config.LogLevel)
	}

	if config.Tax.VATRate < 0 || config.Tax.VATRate >= 1 {
		return fmt.Errorf("tax.vat_rate must be in [0, 1) (got %v)", config.Tax.VATRate)
	}

	if config.TemplateFile != "" {
		if _, err := os.Stat(config.TemplateFile); err != nil {
			return fmt.Errorf("template_file: %w", err)
		}
	}
	if config.LayoutFile != "" {
		if _, err := os.Stat(config.LayoutFile); err != nil {
			return fmt.Errorf("layout_file: %w", err)
		}
	}

	return nil
}
