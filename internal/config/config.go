package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"fv-simulator/internal/chart"
	"fv-simulator/internal/data"
	"fv-simulator/internal/model"
	"fv-simulator/internal/report"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Calculator CalculatorConfig `yaml:"calculator"`
	Log        LogConfig        `yaml:"log"`
	Sessions   SessionConfig    `yaml:"sessions"`
	Chart      ChartConfig      `yaml:"chart"`
	Currency   report.Currency  `yaml:"currency"`
	Report     report.Options   `yaml:"report"`

	// Directory of parameter presets (*.yaml with a top-level "params" key).
	PresetsDir string `yaml:"presets_dir"`

	// Optional: load default project parameters from a separate YAML.
	// If both ParamsFile and Params are provided, Params overrides ParamsFile.
	ParamsFile string              `yaml:"params_file"`
	Params     model.ProjectParams `yaml:"params"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	Env         string   `yaml:"env"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type CalculatorConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
	// Purge is a cron spec, e.g. "@every 1m".
	Purge string `yaml:"purge"`
}

type ChartConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	return Config{
		Server:     ServerConfig{Port: "8080", Env: "development", CORSOrigins: []string{"*"}},
		Calculator: CalculatorConfig{BaseURL: data.DefaultCalculatorURL, Timeout: 30 * time.Second},
		Log:        LogConfig{Level: "info"},
		Sessions:   SessionConfig{TTL: data.DefaultSessionTTL, Purge: "@every 1m"},
		Chart:      ChartConfig{Width: 1024, Height: 480, Title: chart.DefaultOptions().Title},
		Currency:   report.COP(),
		Report:     report.DefaultOptions(),
		PresetsDir: "configs/params",
		Params:     model.DefaultParams(),
	}
}

// Load reads path (if non-empty), applies environment overrides and validates.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	ApplyEnv(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return &c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Params are decoded separately so that a params_file sits between the
	// defaults and the inline overrides.
	c.Params = model.ProjectParams{}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	inline := c.Params
	params := model.DefaultParams()

	if c.ParamsFile != "" {
		paramsPath := c.ParamsFile
		if !filepath.IsAbs(paramsPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), paramsPath)
			if _, err := os.Stat(cand); err == nil {
				paramsPath = cand
			}
		}
		loaded, err := LoadParamsFile(paramsPath)
		if err != nil {
			return nil, err
		}
		params = MergeParams(params, loaded)
	}
	c.Params = MergeParams(params, inline)

	if c.PresetsDir != "" && !filepath.IsAbs(c.PresetsDir) {
		if cand := filepath.Join(filepath.Dir(path), c.PresetsDir); isDir(cand) {
			c.PresetsDir = cand
		}
	}
	return &c, nil
}

// ApplyEnv overlays the deployment environment variables onto c.
func ApplyEnv(c *Config) {
	if v := os.Getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("CALCULATOR_URL"); v != "" {
		c.Calculator.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PRESETS_DIR"); v != "" {
		c.PresetsDir = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Sessions.TTL = d
		}
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	u, err := url.Parse(c.Calculator.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("calculator.base_url must be an http(s) URL, got %q", c.Calculator.BaseURL)
	}
	if c.Calculator.Timeout <= 0 {
		return errors.New("calculator.timeout must be > 0")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level invalid: %w", err)
	}
	if c.Sessions.TTL <= 0 {
		return errors.New("sessions.ttl must be > 0")
	}
	if _, err := cron.ParseStandard(c.Sessions.Purge); err != nil {
		return fmt.Errorf("sessions.purge invalid: %w", err)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return errors.New("chart.width and chart.height must be > 0")
	}
	if c.Currency.Code == "" {
		return errors.New("currency.code is required")
	}
	if c.Currency.Decimals < 0 || c.Currency.Decimals > 6 {
		return errors.New("currency.decimals must be in [0, 6]")
	}
	if err := c.Params.Validate(); err != nil {
		return fmt.Errorf("params invalid: %w", err)
	}
	return nil
}

// ChartOptions returns the renderer options, with y-axis ticks written in the
// configured currency.
func (c *Config) ChartOptions() chart.Options {
	format := c.Formatter()
	return chart.Options{
		Title:        c.Chart.Title,
		CurrencyCode: c.Currency.Code,
		FormatValue:  func(v float64) string { return format(v) },
	}
}

// Formatter is the currency formatter shared by the chart and both exports.
func (c *Config) Formatter() report.Formatter {
	return report.NewCurrencyFormatter(c.Currency)
}

// NewLogger builds the JSON logger used across the service.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

type paramsFileWrapper struct {
	Name   string              `yaml:"name"`
	Params model.ProjectParams `yaml:"params"`
}

func readParamsFile(path string) (paramsFileWrapper, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return paramsFileWrapper{}, err
	}
	var w paramsFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return paramsFileWrapper{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w, nil
}

// LoadParamsFile reads project parameters from a YAML file with a top-level
// "params" key.
func LoadParamsFile(path string) (model.ProjectParams, error) {
	w, err := readParamsFile(path)
	return w.Params, err
}

// MergeParams overlays non-zero fields from override onto base.
// Growth rates of exactly 0 cannot be expressed as an override.
func MergeParams(base, override model.ProjectParams) model.ProjectParams {
	out := base
	if override.GeneracionAnualKWh != 0 {
		out.GeneracionAnualKWh = override.GeneracionAnualKWh
	}
	if override.PorcentajeAutoconsumo != 0 {
		out.PorcentajeAutoconsumo = override.PorcentajeAutoconsumo
	}
	if override.ConsumoAnualUsuario != 0 {
		out.ConsumoAnualUsuario = override.ConsumoAnualUsuario
	}
	if override.PrecioCompraKWh != 0 {
		out.PrecioCompraKWh = override.PrecioCompraKWh
	}
	if override.CrecimientoEnergia != 0 {
		out.CrecimientoEnergia = override.CrecimientoEnergia
	}
	if override.PrecioBolsa != 0 {
		out.PrecioBolsa = override.PrecioBolsa
	}
	if override.CrecimientoBolsa != 0 {
		out.CrecimientoBolsa = override.CrecimientoBolsa
	}
	if override.ComponenteComercializacion != 0 {
		out.ComponenteComercializacion = override.ComponenteComercializacion
	}
	if override.Capex != 0 {
		out.Capex = override.Capex
	}
	if override.OpexAnual != 0 {
		out.OpexAnual = override.OpexAnual
	}
	if override.HorizonteAnios != 0 {
		out.HorizonteAnios = override.HorizonteAnios
	}
	if override.TasaDescuento != 0 {
		out.TasaDescuento = override.TasaDescuento
	}
	if override.AniosDeduccionRenta != 0 {
		out.AniosDeduccionRenta = override.AniosDeduccionRenta
	}
	return out
}
