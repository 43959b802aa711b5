package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. ATTRITION_CHART_DPI.
const EnvPrefix = "ATTRITION"

// Global configuration structure.
type Global struct {
	OutputDir  string  `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	ReportName string  `mapstructure:"report_name" yaml:"report_name" validate:"required,excludesall=/\\"`
	Charts     bool    `mapstructure:"charts" yaml:"charts"`
	ChartDPI   float64 `mapstructure:"chart_dpi" yaml:"chart_dpi" validate:"gte=50,lte=300"`
	FailFast   bool    `mapstructure:"fail_fast" yaml:"fail_fast"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`

	// Input parsing; empty means detect.
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter" validate:"omitempty,max=2"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator" validate:"omitempty,oneof=. 0x2C dot comma"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator" validate:"omitempty,oneof=. 0x2C space"`
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var defaults = map[string]any{
	"output_dir":          "output",
	"report_name":         "HR_Attrition_Report_Text.txt",
	"charts":              true,
	"chart_dpi":           100.0,
	"fail_fast":           false,
	"log_level":           "info",
	"log_format":          "text",
	"delimiter":           "",
	"decimal_separator":   "",
	"thousands_separator": "",
}

// Default returns the built-in configuration.
func Default() *Global {
	return &Global{
		OutputDir:  defaults["output_dir"].(string),
		ReportName: defaults["report_name"].(string),
		Charts:     true,
		ChartDPI:   defaults["chart_dpi"].(float64),
		LogLevel:   defaults["log_level"].(string),
		LogFormat:  defaults["log_format"].(string),
	}
}

var validate = validator.New()

// Validate checks every field against its constraints.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Set assigns one key from its string form and validates the result.
func (c *Global) Set(key, val string) error {
	switch key {
	case "output_dir":
		c.OutputDir = val
	case "report_name":
		c.ReportName = val
	case "charts", "fail_fast":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		if key == "charts" {
			c.Charts = b
		} else {
			c.FailFast = b
		}
	case "chart_dpi":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for chart_dpi: %w", err)
		}
		c.ChartDPI = f
	case "log_level":
		c.LogLevel = strings.ToLower(val)
	case "log_format":
		c.LogFormat = strings.ToLower(val)
	case "delimiter":
		c.Delimiter = val
	case "decimal_separator":
		c.DecimalSeparator = val
	case "thousands_separator":
		c.ThousandsSeparator = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return c.Validate()
}

// Get returns the string form of one key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "output_dir":
		return c.OutputDir, nil
	case "report_name":
		return c.ReportName, nil
	case "charts":
		return strconv.FormatBool(c.Charts), nil
	case "chart_dpi":
		return strconv.FormatFloat(c.ChartDPI, 'f', -1, 64), nil
	case "fail_fast":
		return strconv.FormatBool(c.FailFast), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "delimiter":
		return c.Delimiter, nil
	case "decimal_separator":
		return c.DecimalSeparator, nil
	case "thousands_separator":
		return c.ThousandsSeparator, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Path returns the config file path: cfgFile when set, otherwise
// ~/.attrition/config.yaml.
func Path(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".attrition", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.attrition/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := Path(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from .env, env, file and defaults.
// Precedence: env > config file > defaults; flags are applied by the caller.
// A .env file in the working directory is read first and never overrides
// variables already set.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	path, err := Path(cfgFile)
	if err != nil {
		return nil, err
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		// A missing default file is fine; an explicit one must exist.
		if cfgFile != "" || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
