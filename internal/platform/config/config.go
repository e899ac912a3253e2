// Package config loads importer configuration. Values are resolved in order
// of priority: environment variables, then the YAML file, then defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"phonebook/pkg/platform/sentinel"
	"phonebook/pkg/platform/strings"
)

// Config is the full importer configuration.
type Config struct {
	Import   Import   `yaml:"import"`
	Snapshot Snapshot `yaml:"snapshot"`
	Output   Output   `yaml:"output"`
	Store    Store    `yaml:"store"`
	Database Database `yaml:"database"`
	Redis    Redis    `yaml:"redis"`
	Kafka    Kafka    `yaml:"kafka"`
	Mail     Mail     `yaml:"mail"`
	Server   Server   `yaml:"server"`
	Log      Log      `yaml:"log"`
}

// Import tunes reconciliation and convergence.
type Import struct {
	BatchSize      int           `yaml:"batchSize" validate:"gte=1,lte=1000"`
	MaxAttempts    int           `yaml:"maxAttempts" validate:"gte=1,lte=100"`
	AttemptBackoff time.Duration `yaml:"attemptBackoff" validate:"gte=0"`
	BatchBackoff   time.Duration `yaml:"batchBackoff" validate:"gte=0"`
	// DefaultActive is the active flag given to every incoming user when no
	// organisation status data is read.
	DefaultActive    bool          `yaml:"defaultActive"`
	RequireOrgStatus bool          `yaml:"requireOrgStatus"`
	PhoneRegion      string        `yaml:"phoneRegion" validate:"len=2,uppercase"`
	Interval         time.Duration `yaml:"interval" validate:"gt=0"`
}

// Snapshot lists the extract files combined into the incoming snapshot.
type Snapshot struct {
	Paths []string `yaml:"paths" validate:"dive,required"`
}

type Output struct {
	PhoneNumbersPath string `yaml:"phoneNumbersPath"`
}

// Store limits the throughput the importer may spend on the user store.
type Store struct {
	// RequestUnitsPerSecond of zero disables throttling.
	RequestUnitsPerSecond float64 `yaml:"requestUnitsPerSecond" validate:"gte=0"`
}

type Database struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"maxOpenConns" validate:"gte=1"`
	MaxIdleConns    int           `yaml:"maxIdleConns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime" validate:"gte=0"`
}

type Redis struct {
	URL          string        `yaml:"url"`
	OrgStatusTTL time.Duration `yaml:"orgStatusTTL" validate:"gt=0"`
	PoolSize     int           `yaml:"poolSize" validate:"gte=1"`
	MinIdleConns int           `yaml:"minIdleConns" validate:"gte=0"`
	DialTimeout  time.Duration `yaml:"dialTimeout" validate:"gte=0"`
	ReadTimeout  time.Duration `yaml:"readTimeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"writeTimeout" validate:"gte=0"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic" validate:"required_with=Brokers"`
}

// Mail configures SMTP report delivery. Reports are logged when Host is empty.
type Mail struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port" validate:"gte=1,lte=65535"`
	User     string   `yaml:"user"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from" validate:"required_with=Host"`
	To       []string `yaml:"to" validate:"required_with=Host,dive,email"`
}

type Server struct {
	Addr string `yaml:"addr" validate:"required"`
}

type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Import: Import{
			BatchSize:      100,
			MaxAttempts:    10,
			AttemptBackoff: 10 * time.Second,
			BatchBackoff:   time.Second,
			DefaultActive:  true,
			PhoneRegion:    "GB",
			Interval:       24 * time.Hour,
		},
		Output: Output{PhoneNumbersPath: "phone-numbers.csv"},
		Database: Database{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: Redis{
			OrgStatusTTL: time.Hour,
			PoolSize:     10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka:  Kafka{Topic: "phonebook.import.runs"},
		Mail:   Mail{Port: 587},
		Server: Server{Addr: ":8080"},
		Log:    Log{Level: "info", Format: "json"},
	}
}

// Load reads the YAML file at path (optional, may be empty), applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse config file: %v", sentinel.ErrInvalidInput, err)
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field constraint and reports all violations at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Errorf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: invalid config: %w", sentinel.ErrInvalidInput, errors.Join(msgs...))
}

// envSetter applies one environment variable to the config.
type envSetter func(cfg *Config, value string) error

var envVars = map[string]envSetter{
	"IMPORT_ATTEMPT_SLEEP_DURATION":    millis(func(c *Config) *time.Duration { return &c.Import.AttemptBackoff }),
	"IMPORT_BULK_BATCH_SLEEP_DURATION": millis(func(c *Config) *time.Duration { return &c.Import.BatchBackoff }),
	"IMPORT_BATCH_SIZE":                integer(func(c *Config) *int { return &c.Import.BatchSize }),
	"IMPORT_MAX_ATTEMPTS":              integer(func(c *Config) *int { return &c.Import.MaxAttempts }),
	"IMPORT_DEFAULT_ACTIVE":            boolean(func(c *Config) *bool { return &c.Import.DefaultActive }),
	"IMPORT_REQUIRE_ORG_STATUS":        boolean(func(c *Config) *bool { return &c.Import.RequireOrgStatus }),
	"IMPORT_PHONE_REGION":              str(func(c *Config) *string { return &c.Import.PhoneRegion }),
	"IMPORT_SCHEDULE":                  duration(func(c *Config) *time.Duration { return &c.Import.Interval }),
	"SNAPSHOT_PATHS":                   list(func(c *Config) *[]string { return &c.Snapshot.Paths }),
	"PHONE_NUMBERS_PATH":               str(func(c *Config) *string { return &c.Output.PhoneNumbersPath }),
	"STORE_REQUEST_UNITS_PER_SECOND":   float(func(c *Config) *float64 { return &c.Store.RequestUnitsPerSecond }),
	"DATABASE_URL":                     str(func(c *Config) *string { return &c.Database.URL }),
	"REDIS_URL":                        str(func(c *Config) *string { return &c.Redis.URL }),
	"REDIS_ORG_STATUS_TTL":             duration(func(c *Config) *time.Duration { return &c.Redis.OrgStatusTTL }),
	"KAFKA_BROKERS":                    list(func(c *Config) *[]string { return &c.Kafka.Brokers }),
	"KAFKA_TOPIC":                      str(func(c *Config) *string { return &c.Kafka.Topic }),
	"MAIL_HOST":                        str(func(c *Config) *string { return &c.Mail.Host }),
	"MAIL_PORT":                        integer(func(c *Config) *int { return &c.Mail.Port }),
	"MAIL_USER":                        str(func(c *Config) *string { return &c.Mail.User }),
	"MAIL_PASS":                        str(func(c *Config) *string { return &c.Mail.Password }),
	"MAIL_FROM":                        str(func(c *Config) *string { return &c.Mail.From }),
	"MAIL_TO":                          list(func(c *Config) *[]string { return &c.Mail.To }),
	"HTTP_ADDR":                        str(func(c *Config) *string { return &c.Server.Addr }),
	"LOG_LEVEL":                        str(func(c *Config) *string { return &c.Log.Level }),
	"LOG_FORMAT":                       str(func(c *Config) *string { return &c.Log.Format }),
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error
	for name, set := range envVars {
		value, ok := lookup(name)
		if !ok || value == "" {
			continue
		}
		if err := set(cfg, value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: environment: %w", sentinel.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

func str(field func(*Config) *string) envSetter {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func list(field func(*Config) *[]string) envSetter {
	return func(c *Config, v string) error {
		*field(c) = strings.SplitList(v)
		return nil
	}
}

func integer(field func(*Config) *int) envSetter {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("not an integer: %q", v)
		}
		*field(c) = n
		return nil
	}
}

func float(field func(*Config) *float64) envSetter {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", v)
		}
		*field(c) = f
		return nil
	}
}

func boolean(field func(*Config) *bool) envSetter {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("not a boolean: %q", v)
		}
		*field(c) = b
		return nil
	}
}

// millis reads a whole number of milliseconds.
func millis(field func(*Config) *time.Duration) envSetter {
	return func(c *Config, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("not a millisecond count: %q", v)
		}
		*field(c) = time.Duration(n) * time.Millisecond
		return nil
	}
}

func duration(field func(*Config) *time.Duration) envSetter {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("not a duration: %q", v)
		}
		*field(c) = d
		return nil
	}
}
