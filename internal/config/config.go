package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"mediatrace/pkg/serrors"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config represents the application configuration structure.
// Lists left empty fall back to the built-in classifier defaults.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// Browser configures the monitored Chrome session.
	Browser struct {
		// Bin is the browser executable; empty lets go-rod locate or download one
		Bin string `env:"BROWSER_BIN" yaml:"bin"`
		// Headless hides the browser window
		Headless bool `env:"BROWSER_HEADLESS" env-default:"false" yaml:"headless"`
		// NoSandbox disables the Chrome sandbox, needed in some containers
		NoSandbox bool `env:"BROWSER_NO_SANDBOX" env-default:"false" yaml:"noSandbox"`
		// UserDataDir keeps the browser profile between sessions
		UserDataDir string `env:"BROWSER_USER_DATA_DIR" yaml:"userDataDir"`
		// StartURL is opened when the session starts
		StartURL string `env:"BROWSER_START_URL" yaml:"startURL"`
		// CookiesPath is where session cookies are restored from and saved to
		CookiesPath string `env:"BROWSER_COOKIES_PATH" env-default:"data/cookies.json" yaml:"cookiesPath"`
		// ReplyTimeout bounds how long an intercepted request waits for a decision
		ReplyTimeout time.Duration `env:"BROWSER_REPLY_TIMEOUT" env-default:"5s" yaml:"replyTimeout"`
	} `yaml:"browser"`

	// Storage selects where learned domains are kept.
	Storage struct {
		// Backend is "file" or "postgres"
		Backend string `env:"STORAGE_BACKEND" env-default:"file" yaml:"backend"`
		// VideoPath is the JSON file of confirmed video domains
		VideoPath string `env:"STORAGE_VIDEO_PATH" env-default:"data/video-domains.json" yaml:"videoPath"`
		// AudioPath is the JSON file of confirmed audio domains; empty keeps audio in memory only
		AudioPath string `env:"STORAGE_AUDIO_PATH" yaml:"audioPath"`
		// QueueSize bounds pending writes
		QueueSize int `env:"STORAGE_QUEUE_SIZE" env-default:"64" yaml:"queueSize"`
		// WriteTimeout bounds a single write
		WriteTimeout time.Duration `env:"STORAGE_WRITE_TIMEOUT" env-default:"10s" yaml:"writeTimeout"`
	} `yaml:"storage"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"mediatrace" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mediatrace" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"mediatrace" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"4" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"1" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// Filter configures the request-time filter.
	Filter struct {
		// Mode is "discover" or "strict"
		Mode              string   `env:"FILTER_MODE" env-default:"discover" yaml:"mode"`
		IgnoreHosts       []string `env:"FILTER_IGNORE_HOSTS" env-separator:"," yaml:"ignoreHosts"`
		SkipHosts         []string `env:"FILTER_SKIP_HOSTS" env-separator:"," yaml:"skipHosts"`
		RejectExtensions  []string `env:"FILTER_REJECT_EXTENSIONS" env-separator:"," yaml:"rejectExtensions"`
		ReferencePatterns []string `env:"FILTER_REFERENCE_PATTERNS" env-separator:"," yaml:"referencePatterns"`
		RequiredSegments  []string `env:"FILTER_REQUIRED_SEGMENTS" env-separator:"," yaml:"requiredSegments"`
		VideoExtensions   []string `env:"FILTER_VIDEO_EXTENSIONS" env-separator:"," yaml:"videoExtensions"`
	} `yaml:"filter"`

	// Classifier configures the response-time classifier.
	Classifier struct {
		// Policy is "size" or "pattern"
		Policy string `env:"CLASSIFIER_POLICY" env-default:"size" yaml:"policy"`
		// SizeThreshold is the byte size above which a response counts as video
		SizeThreshold int64    `env:"CLASSIFIER_SIZE_THRESHOLD" env-default:"2000000" yaml:"sizeThreshold"`
		MIMETypes     []string `env:"CLASSIFIER_MIME_TYPES" env-separator:"," yaml:"mimeTypes"`
		// ReferenceVideoHosts always seed the video set
		ReferenceVideoHosts []string `env:"CLASSIFIER_REFERENCE_VIDEO_HOSTS" env-separator:"," yaml:"referenceVideoHosts"`
	} `yaml:"classifier"`

	// Tracker bounds the set of in-flight candidates.
	Tracker struct {
		TTL           time.Duration `env:"TRACKER_TTL" env-default:"2m" yaml:"ttl"`
		MaxEntries    int           `env:"TRACKER_MAX_ENTRIES" env-default:"10000" yaml:"maxEntries"`
		SweepInterval time.Duration `env:"TRACKER_SWEEP_INTERVAL" env-default:"30s" yaml:"sweepInterval"`
	} `yaml:"tracker"`

	// Metrics exposes the Prometheus endpoint.
	Metrics struct {
		// Enabled starts the metrics webserver with the watch command
		Enabled bool `env:"METRICS_ENABLED" env-default:"false" yaml:"enabled"`
		// Addr is the address and port the metrics server will listen on
		Addr string `env:"METRICS_ADDR" env-default:"127.0.0.1:9464" yaml:"addr"`
		// Path defines the URL path where metrics are exposed
		Path string `env:"METRICS_PATH" env-default:"/metrics" yaml:"path"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"METRICS_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// Pprof mounts the net/http/pprof handlers under /debug/pprof
		Pprof bool `env:"METRICS_PPROF" env-default:"false" yaml:"pprof"`
	} `yaml:"metrics"`

	// Export configures the export key and command.
	Export struct {
		Dir string `env:"EXPORT_DIR" env-default:"exports" yaml:"dir"`
		// Format is "csv" or "xlsx"
		Format string `env:"EXPORT_FORMAT" env-default:"csv" yaml:"format"`
	} `yaml:"export"`

	// GracefulShutdownTimeout bounds browser close and the final write flush
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
// A missing file is not an error: defaults and environment variables apply.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks option values that have a fixed set of choices.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendPostgres:
	default:
		return serrors.With(serrors.ErrBadRequest, "unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Export.Format {
	case "csv", "xlsx":
	default:
		return serrors.With(serrors.ErrBadRequest, "unknown export format %q", c.Export.Format)
	}
	if c.Classifier.SizeThreshold < 0 {
		return serrors.With(serrors.ErrBadRequest, "size threshold must not be negative")
	}

	return nil
}
