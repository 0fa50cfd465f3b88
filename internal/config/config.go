package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	InputPath  string `mapstructure:"input_path" yaml:"input_path" validate:"required"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path" validate:"required"`
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex int    `mapstructure:"sheet_index" yaml:"sheet_index" validate:"gte=1"`

	// Charts
	PlotsEnabled  bool   `mapstructure:"plots_enabled" yaml:"plots_enabled"`
	PlotsDir      string `mapstructure:"plots_dir" yaml:"plots_dir"`
	HistogramBins int    `mapstructure:"histogram_bins" yaml:"histogram_bins" validate:"gte=1,lte=200"`
	CurvePoints   int    `mapstructure:"curve_points" yaml:"curve_points" validate:"gte=2,lte=100000"`
}

// Keys lists the configuration keys in display order.
var Keys = []string{
	"input_path", "output_path", "sheet_name", "sheet_index",
	"plots_enabled", "plots_dir", "histogram_bins", "curve_points",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input_path", "lista-de-produtos.xlsx")
	v.SetDefault("output_path", "plantas_classificadas.xlsx")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("plots_enabled", true)
	v.SetDefault("plots_dir", ".")
	v.SetDefault("histogram_bins", 15)
	v.SetDefault("curve_points", 500)
}

// Defaults returns the built-in configuration, ignoring files and env.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// DefaultPath is ~/.harvestrank/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".harvestrank", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.harvestrank/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := Validate(c); err != nil {
		return err
	}
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
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

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("HARVESTRANK")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Get returns the value of key formatted for display.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "input_path":
		return c.InputPath, nil
	case "output_path":
		return c.OutputPath, nil
	case "sheet_name":
		return c.SheetName, nil
	case "sheet_index":
		return strconv.Itoa(c.SheetIndex), nil
	case "plots_enabled":
		return strconv.FormatBool(c.PlotsEnabled), nil
	case "plots_dir":
		return c.PlotsDir, nil
	case "histogram_bins":
		return strconv.Itoa(c.HistogramBins), nil
	case "curve_points":
		return strconv.Itoa(c.CurvePoints), nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set parses val into key. The result is validated, and c is left unchanged
// when validation fails.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "input_path":
		next.InputPath = val
	case "output_path":
		next.OutputPath = val
	case "sheet_name":
		next.SheetName = val
	case "plots_dir":
		next.PlotsDir = val
	case "plots_enabled":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		next.PlotsEnabled = b
	case "sheet_index", "histogram_bins", "curve_points":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "sheet_index":
			next.SheetIndex = i
		case "histogram_bins":
			next.HistogramBins = i
		default:
			next.CurvePoints = i
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := Validate(&next); err != nil {
		return err
	}
	*c = next
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report config keys rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks field ranges and reports every violation by its config key.
func Validate(c *Global) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s fails %q (got %v)", fe.Field(), tagWithParam(fe), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func tagWithParam(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
