package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Drivers del almacén de decisiones.
const (
	DriverSQLite = "sqlite"
	DriverYAML   = "yaml"
)

// Config es la configuración completa de grocersplit.
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	Printer PrinterConfig `yaml:"printer"`
	Report  ReportConfig  `yaml:"report"`
	Log     LogConfig     `yaml:"log"`
}

// CacheConfig controla dónde se persisten las decisiones recordadas.
type CacheConfig struct {
	Driver string `yaml:"driver"` // sqlite | yaml
	Path   string `yaml:"path"`   // fichero SQLite o YAML
}

// PrinterConfig controla la impresora de tickets.
type PrinterConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Device          string `yaml:"device"` // p.ej. /dev/usb/lp0
	Header          string `yaml:"header"`
	CutDelaySeconds int    `yaml:"cut_delay_seconds"`
}

// ReportConfig controla la presentación en consola.
type ReportConfig struct {
	Currency string `yaml:"currency"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Si el YAML no existe se usan solo los defaults; si existe y no se puede
// parsear, es un error.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// sin fichero: defaults + entorno
	case err != nil:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// CutDelay devuelve la pausa entre tickets como time.Duration.
func (c *Config) CutDelay() time.Duration {
	return time.Duration(c.Printer.CutDelaySeconds) * time.Second
}

func (c *Config) validate() error {
	switch c.Cache.Driver {
	case DriverSQLite, DriverYAML:
	default:
		return fmt.Errorf("unknown cache driver %q (want %s or %s)", c.Cache.Driver, DriverSQLite, DriverYAML)
	}
	if c.Printer.Enabled && c.Printer.Device == "" {
		return errors.New("printer enabled but printer.device is empty")
	}
	return nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("GROCERSPLIT_CACHE_DRIVER"); v != "" {
		cfg.Cache.Driver = v
	}
	if v := os.Getenv("GROCERSPLIT_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("GROCERSPLIT_PRINTER_DEVICE"); v != "" {
		cfg.Printer.Device = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = DriverSQLite
	}
	if cfg.Cache.Path == "" {
		if cfg.Cache.Driver == DriverYAML {
			cfg.Cache.Path = "grocersplit-cache.yaml"
		} else {
			cfg.Cache.Path = "grocersplit.db"
		}
	}
	if cfg.Printer.CutDelaySeconds <= 0 {
		cfg.Printer.CutDelaySeconds = 5
	}
	if cfg.Report.Currency == "" {
		cfg.Report.Currency = "£"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
