package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores process-level runtime configuration. Settings operators change
// while the service runs (event display switch, TBA API key, team number,
// webhook secret) live in the app_config table, not here.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	DBURL                      string
	DBDisablePreparedBinary    bool
	CacheEnabled               bool
	CacheTTL                   time.Duration
	CORSAllowedOrigins         []string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	SwaggerEnabled             bool
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	TBABaseURL                 string
	TBATimeout                 time.Duration
	TBACircuitEnabled          bool
	TBACircuitFailureCount     int
	TBACircuitOpenTimeout      time.Duration
	TBACircuitHalfOpenMaxReq   int
	EventCheckInterval         time.Duration
	EventRefreshInterval       time.Duration
	CacheCleanupInterval       time.Duration
	EventRatingsCacheTTL       time.Duration
	InternalJobToken           string
	LogLevel                   logging.Level
}

// Load reads every setting from the environment in one pass so a bad value
// fails startup instead of surfacing mid-sync. loadService runs first because
// later sections default from AppEnv and ServiceName.
func Load() (Config, error) {
	var cfg Config

	steps := []func(*Config) error{
		loadService,
		loadHTTP,
		loadDatabase,
		loadCache,
		loadObservability,
		loadTBA,
		loadSyncSchedule,
	}
	for _, step := range steps {
		if err := step(&cfg); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func loadService(cfg *Config) error {
	appEnv, err := parseAppEnv(envString("APP_ENV", EnvDev))
	if err != nil {
		return err
	}

	cfg.AppEnv = appEnv
	cfg.ServiceName = envString("APP_SERVICE_NAME", "swat-website-api")
	cfg.ServiceVersion = envString("APP_SERVICE_VERSION", "dev")
	cfg.LogLevel = parseLogLevel(envString("APP_LOG_LEVEL", "info"))
	cfg.InternalJobToken = strings.TrimSpace(envString("INTERNAL_JOB_TOKEN", ""))

	return nil
}

func loadHTTP(cfg *Config) error {
	cfg.HTTPAddr = envString("APP_HTTP_ADDR", ":8080")

	readTimeout, err := envDuration("APP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return err
	}
	writeTimeout, err := envDuration("APP_WRITE_TIMEOUT", 15*time.Second)
	if err != nil {
		return err
	}
	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout

	cfg.CORSAllowedOrigins = splitCSV(envString("CORS_ALLOWED_ORIGINS", "*"))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	swaggerEnabled, err := envBool("SWAGGER_ENABLED", cfg.AppEnv != EnvProd)
	if err != nil {
		return err
	}
	cfg.SwaggerEnabled = swaggerEnabled

	return nil
}

func loadDatabase(cfg *Config) error {
	cfg.DBURL = strings.TrimSpace(envString("DATABASE_URL", ""))

	disable, err := envBool("DB_DISABLE_PREPARED_BINARY_RESULT", true)
	if err != nil {
		return err
	}
	cfg.DBDisablePreparedBinary = disable

	return nil
}

func loadCache(cfg *Config) error {
	enabled, err := envBool("CACHE_ENABLED", true)
	if err != nil {
		return err
	}
	ttl, err := envPositiveDuration("CACHE_TTL", time.Minute)
	if err != nil {
		return err
	}

	cfg.CacheEnabled = enabled
	cfg.CacheTTL = ttl

	return nil
}

func loadObservability(cfg *Config) error {
	uptraceEnabled, err := envBool("UPTRACE_ENABLED", false)
	if err != nil {
		return err
	}
	dsn := strings.TrimSpace(envString("UPTRACE_DSN", ""))
	if dsn == "" {
		dsn = uptraceDSNFromOTLPHeaders(envString("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && dsn == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	logsEnabled, err := envBool("UPTRACE_LOGS_ENABLED", true)
	if err != nil {
		return err
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = dsn
	cfg.UptraceLogsEnabled = logsEnabled

	pprofEnabled, err := envBool("PPROF_ENABLED", false)
	if err != nil {
		return err
	}
	cfg.PprofEnabled = pprofEnabled
	cfg.PprofAddr = strings.TrimSpace(envString("PPROF_ADDR", ":6060"))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	return loadPyroscope(cfg)
}

func loadPyroscope(cfg *Config) error {
	enabled, err := envBool("PYROSCOPE_ENABLED", false)
	if err != nil {
		return err
	}
	cfg.PyroscopeEnabled = enabled

	cfg.PyroscopeServerAddress = strings.TrimSpace(envString("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}

	cfg.PyroscopeAppName = strings.TrimSpace(envString("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	cfg.PyroscopeAuthToken = strings.TrimSpace(envString("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(envString("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(envString("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))

	rate, err := envPositiveDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return err
	}
	cfg.PyroscopeUploadRate = rate

	return nil
}

func loadTBA(cfg *Config) error {
	cfg.TBABaseURL = strings.TrimSpace(envString("TBA_BASE_URL", "https://www.thebluealliance.com/api/v3"))

	timeout, err := envPositiveDuration("TBA_TIMEOUT", 20*time.Second)
	if err != nil {
		return err
	}
	cfg.TBATimeout = timeout

	circuitEnabled, err := envBool("TBA_CIRCUIT_ENABLED", true)
	if err != nil {
		return err
	}
	cfg.TBACircuitEnabled = circuitEnabled

	failures, err := envIntAtLeast("TBA_CIRCUIT_FAILURE_COUNT", 5, 1)
	if err != nil {
		return err
	}
	cfg.TBACircuitFailureCount = failures

	openTimeout, err := envPositiveDuration("TBA_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return err
	}
	cfg.TBACircuitOpenTimeout = openTimeout

	probes, err := envIntAtLeast("TBA_CIRCUIT_HALF_OPEN_MAX_REQ", 2, 1)
	if err != nil {
		return err
	}
	cfg.TBACircuitHalfOpenMaxReq = probes

	return nil
}

func loadSyncSchedule(cfg *Config) error {
	check, err := envPositiveDuration("EVENT_CHECK_INTERVAL", time.Hour)
	if err != nil {
		return err
	}
	refresh, err := envPositiveDuration("EVENT_REFRESH_INTERVAL", 5*time.Minute)
	if err != nil {
		return err
	}
	cleanup, err := envPositiveDuration("CACHE_CLEANUP_INTERVAL", 24*time.Hour)
	if err != nil {
		return err
	}
	ratings, err := envPositiveDuration("EVENT_RATINGS_CACHE_TTL", 30*time.Minute)
	if err != nil {
		return err
	}

	cfg.EventCheckInterval = check
	cfg.EventRefreshInterval = refresh
	cfg.CacheCleanupInterval = cleanup
	cfg.EventRatingsCacheTTL = ratings

	return nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	}

	return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

// envString returns the raw value of key, or fallback when the variable is
// unset or blank.
func envString(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func envBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}

	return value, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return value, nil
}

func envPositiveDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, err := envDuration(key, fallback)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return value, nil
}

func envIntAtLeast(key string, fallback, floor int) (int, error) {
	value := fallback
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", key, err)
		}
		value = parsed
	}
	if value < floor {
		return 0, fmt.Errorf("%s must be >= %d", key, floor)
	}

	return value, nil
}

// uptraceDSNFromOTLPHeaders pulls the uptrace-dsn entry out of an
// OTEL_EXPORTER_OTLP_HEADERS value like `uptrace-dsn="https://t@host/1",x=y`.
func uptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(name), "uptrace-dsn") {
			continue
		}

		return strings.Trim(strings.TrimSpace(value), "\"'")
	}

	return ""
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}

	return out
}
