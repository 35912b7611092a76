package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tripsurvey/internal/logging"
	"github.com/goliatone/go-tripsurvey/pkg/payload"
	"github.com/goliatone/go-tripsurvey/pkg/persistence"
	"github.com/goliatone/go-tripsurvey/pkg/transport"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "tripsurvey.yaml"

// Environment overrides applied after the file is read.
const (
	EnvCollectorEndpoint = "TRIPSURVEY_COLLECTOR_ENDPOINT"
	EnvStorageDriver     = "TRIPSURVEY_STORAGE_DRIVER"
	EnvStoragePath       = "TRIPSURVEY_STORAGE_PATH"
	EnvRedisAddr         = "TRIPSURVEY_REDIS_ADDR"
	EnvRedisPassword     = "TRIPSURVEY_REDIS_PASSWORD"
	EnvLogLevel          = "TRIPSURVEY_LOG_LEVEL"
	EnvHTTPListen        = "TRIPSURVEY_HTTP_LISTEN"
)

var ErrInvalid = errors.New("config: invalid configuration")

// Config is the tripsurvey configuration file.
type Config struct {
	Collector     CollectorConfig     `yaml:"collector"`
	Storage       persistence.Config  `yaml:"storage"`
	Routing       RoutingConfig       `yaml:"routing"`
	Questionnaire QuestionnaireConfig `yaml:"questionnaire"`
	Report        ReportConfig        `yaml:"report"`
	Log           logging.Config      `yaml:"log"`
	HTTP          HTTPConfig          `yaml:"http"`
}

// CollectorConfig points at the remote collector.
type CollectorConfig struct {
	Endpoint string            `yaml:"endpoint"`
	Encoding string            `yaml:"encoding"`
	Timeout  string            `yaml:"timeout"`
	Headers  map[string]string `yaml:"headers"`
}

// RecipientConfig is one configured Product Manager.
type RecipientConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// RoutingConfig lists the known recipients and the domain free-text
// addresses must end with.
type RoutingConfig struct {
	DomainSuffix string            `yaml:"domain_suffix"`
	Recipients   []RecipientConfig `yaml:"recipients"`
}

// QuestionnaireConfig tunes the generated questionnaire.
type QuestionnaireConfig struct {
	TourCodes []string `yaml:"tour_codes"`
	// TourCodesSource is a catalogue file path or http(s) URL; its codes
	// are added after TourCodes.
	TourCodesSource string `yaml:"tour_codes_source"`
	// OverlayDir holds JSON/YAML label overlays.
	OverlayDir string `yaml:"overlay_dir"`
}

type ReportConfig struct {
	Title string `yaml:"title"`
}

type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Collector: CollectorConfig{
			Encoding: string(transport.EncodingForm),
			Timeout:  "30s",
		},
		Storage: persistence.Config{
			Driver: persistence.DriverFile,
		},
		Routing: RoutingConfig{
			DomainSuffix: payload.DefaultDomainSuffix,
		},
		Log: logging.Config{
			Level:  "info",
			Format: logging.FormatConsole,
		},
		HTTP: HTTPConfig{
			Listen: "127.0.0.1:8080",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if value := os.Getenv(EnvCollectorEndpoint); value != "" {
		c.Collector.Endpoint = value
	}
	if value := os.Getenv(EnvStorageDriver); value != "" {
		c.Storage.Driver = value
	}
	if value := os.Getenv(EnvStoragePath); value != "" {
		c.Storage.Path = value
	}
	if value := os.Getenv(EnvRedisAddr); value != "" {
		c.Storage.Redis.Addr = value
	}
	if value := os.Getenv(EnvRedisPassword); value != "" {
		c.Storage.Redis.Password = value
	}
	if value := os.Getenv(EnvLogLevel); value != "" {
		c.Log.Level = value
	}
	if value := os.Getenv(EnvHTTPListen); value != "" {
		c.HTTP.Listen = value
	}
}

// Validate checks every section and joins the problems found.
func (c *Config) Validate() error {
	var problems []error

	switch transport.Encoding(strings.ToLower(strings.TrimSpace(c.Collector.Encoding))) {
	case "", transport.EncodingForm, transport.EncodingJSON:
	default:
		problems = append(problems, fmt.Errorf("collector.encoding %q must be form or json", c.Collector.Encoding))
	}
	if _, err := c.CollectorTimeout(); err != nil {
		problems = append(problems, err)
	}

	switch strings.ToLower(strings.TrimSpace(c.Storage.Driver)) {
	case "", persistence.DriverFile, persistence.DriverSQLite, persistence.DriverMemory:
	case persistence.DriverRedis:
		if strings.TrimSpace(c.Storage.Redis.Addr) == "" {
			problems = append(problems, errors.New("storage.redis.addr is required for the redis driver"))
		}
	default:
		problems = append(problems, fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver))
	}

	suffix := c.domainSuffix()
	if !strings.HasPrefix(suffix, "@") {
		problems = append(problems, fmt.Errorf("routing.domain_suffix %q must start with @", suffix))
	}
	for i, recipient := range c.Routing.Recipients {
		email := strings.TrimSpace(recipient.Email)
		if email == "" {
			problems = append(problems, fmt.Errorf("routing.recipients[%d].email is required", i))
			continue
		}
		if !strings.HasSuffix(strings.ToLower(email), strings.ToLower(suffix)) {
			problems = append(problems, fmt.Errorf("routing.recipients[%d].email %q must end with %s", i, email, suffix))
		}
	}

	if err := c.Log.Validate(); err != nil {
		problems = append(problems, err)
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(problems...))
}

// CollectorTimeout parses collector.timeout; blank means no timeout.
func (c *Config) CollectorTimeout() (time.Duration, error) {
	raw := strings.TrimSpace(c.Collector.Timeout)
	if raw == "" {
		return 0, nil
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	timeout, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("collector.timeout %q: %w", raw, err)
	}
	if timeout < 0 {
		return 0, fmt.Errorf("collector.timeout %q must not be negative", raw)
	}
	return timeout, nil
}

// Router builds the recipient router from the routing section.
func (c *Config) Router() payload.Router {
	recipients := make([]payload.Recipient, 0, len(c.Routing.Recipients))
	for _, recipient := range c.Routing.Recipients {
		recipients = append(recipients, payload.Recipient{
			Name:  strings.TrimSpace(recipient.Name),
			Email: strings.TrimSpace(recipient.Email),
		})
	}
	return payload.NewRouter(c.domainSuffix(), recipients)
}

func (c *Config) domainSuffix() string {
	suffix := strings.TrimSpace(c.Routing.DomainSuffix)
	if suffix == "" {
		return payload.DefaultDomainSuffix
	}
	return suffix
}
