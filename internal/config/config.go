package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	S3         S3Config
	Log        LogConfig
	CORS       CORSConfig
	Upload     UploadConfig
	Bias       BiasConfig
	Summarizer SummarizerConfig
	Appeal     AppealConfig
	Prediction PredictionConfig
	Providers  ProvidersConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings. The database is only used
// when Bias.Store is "postgres".
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for heatmap snapshots. An empty Bucket
// disables publishing.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Enabled reports whether heatmap snapshots should be published.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UploadConfig bounds claim document uploads.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// BiasConfig holds bias aggregation policy.
type BiasConfig struct {
	Store             string        `mapstructure:"store"`
	Salt              string        `mapstructure:"salt"`
	MinSample         int64         `mapstructure:"min_sample"`
	RelativeRisk      float64       `mapstructure:"relative_risk"`
	MinHeatmapBuckets int           `mapstructure:"min_heatmap_buckets"`
	HeatmapTTL        time.Duration `mapstructure:"heatmap_ttl"`
	RepeatPolicy      string        `mapstructure:"repeat_policy"`
	RepeatCap         int           `mapstructure:"repeat_cap"`
	RepeatWindow      time.Duration `mapstructure:"repeat_window"`

	// EphemeralSalt is set when no salt was configured and Load generated a
	// random one for this process. Buckets hashed with it do not survive a
	// restart.
	EphemeralSalt bool `mapstructure:"-"`
}

// RequiresStableSalt reports whether buckets outlive the process or are
// served publicly, so the salt must be an operator-provided secret.
func (c *Config) RequiresStableSalt() bool {
	return c.Server.Environment == "production" || c.Bias.Store == "postgres"
}

// knownSalts are placeholder values that appear in sample configs and docs.
var knownSalts = map[string]bool{
	"change-me-in-production": true,
	"changeme":                true,
	"change-me":               true,
	"secret":                  true,
	"salt":                    true,
}

// SummarizerConfig holds the summarization fallback chain settings.
type SummarizerConfig struct {
	Order         []string      `mapstructure:"order"`
	ChainTimeout  time.Duration `mapstructure:"chain_timeout"`
	MaxInputChars int           `mapstructure:"max_input_chars"`
	LocalMaxChars int           `mapstructure:"local_max_chars"`
}

// AppealConfig holds the appeal generation provider order.
type AppealConfig struct {
	Order         []string `mapstructure:"order"`
	MaxInputChars int      `mapstructure:"max_input_chars"`
}

// PredictionConfig points at an optional scoring table override.
type PredictionConfig struct {
	TablesPath string `mapstructure:"tables_path"`
}

// ProviderConfig holds settings for a single external provider. API keys are
// never configured here; they arrive with each request.
type ProviderConfig struct {
	BaseURL       string  `mapstructure:"base_url"`
	DefaultModel  string  `mapstructure:"default_model"`
	TimeoutSecs   int     `mapstructure:"timeout_secs"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
	MaxTokens     int     `mapstructure:"max_tokens"`
	Temperature   float32 `mapstructure:"temperature"`
}

// Timeout returns the provider call timeout, defaulting to 25s.
func (p *ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSecs <= 0 {
		return 25 * time.Second
	}
	return time.Duration(p.TimeoutSecs) * time.Second
}

// ProvidersConfig groups the per-provider settings by name.
type ProvidersConfig struct {
	OpenAI     ProviderConfig `mapstructure:"openai"`
	XAI        ProviderConfig `mapstructure:"xai"`
	Dedalus    ProviderConfig `mapstructure:"dedalus"`
	CapitalOne ProviderConfig `mapstructure:"capitalone"`
	Knot       ProviderConfig `mapstructure:"knot"`
	Amplitude  ProviderConfig `mapstructure:"amplitude"`
}

// ByName returns the provider config registered under name, or nil.
func (p *ProvidersConfig) ByName(name string) *ProviderConfig {
	switch name {
	case "openai":
		return &p.OpenAI
	case "xai":
		return &p.XAI
	case "dedalus":
		return &p.Dedalus
	case "capitalone":
		return &p.CapitalOne
	case "knot":
		return &p.Knot
	case "amplitude":
		return &p.Amplitude
	default:
		return nil
	}
}

var providerNames = []string{"openai", "xai", "dedalus", "capitalone", "knot", "amplitude"}

// Load reads configuration from environment variables with the CLAIMEQUITY_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CLAIMEQUITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":5000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.shutdown_timeout", "20s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "claimequity")
	v.SetDefault("db.password", "claimequity_secret")
	v.SetDefault("db.name", "claimequity_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("upload.max_file_size_mb", 20)

	// Bias defaults
	v.SetDefault("bias.store", "memory")
	v.SetDefault("bias.min_sample", 20)
	v.SetDefault("bias.relative_risk", 1.3)
	v.SetDefault("bias.min_heatmap_buckets", 2)
	v.SetDefault("bias.heatmap_ttl", "1m")
	v.SetDefault("bias.repeat_policy", "count_all")
	v.SetDefault("bias.repeat_cap", 3)
	v.SetDefault("bias.repeat_window", "24h")

	// Summarizer defaults
	v.SetDefault("summarizer.order", "xai,openai")
	v.SetDefault("summarizer.chain_timeout", "45s")
	v.SetDefault("summarizer.max_input_chars", 4000)
	v.SetDefault("summarizer.local_max_chars", 600)

	v.SetDefault("appeal.order", "dedalus,openai")
	v.SetDefault("appeal.max_input_chars", 3000)

	v.SetDefault("prediction.tables_path", "")

	// Provider defaults
	v.SetDefault("providers.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("providers.openai.default_model", "gpt-4o-mini")
	v.SetDefault("providers.openai.max_tokens", 500)
	v.SetDefault("providers.openai.temperature", 0.3)
	v.SetDefault("providers.xai.base_url", "https://api.x.ai/v1")
	v.SetDefault("providers.xai.default_model", "grok-3")
	v.SetDefault("providers.xai.max_tokens", 500)
	v.SetDefault("providers.xai.temperature", 0.7)
	v.SetDefault("providers.dedalus.base_url", "https://api.dedaluslabs.ai/v1/agents/execute")
	v.SetDefault("providers.dedalus.default_model", "gpt-4")
	v.SetDefault("providers.dedalus.max_tokens", 1500)
	v.SetDefault("providers.capitalone.base_url", "https://api.capitalone.com/accounts/simulated")
	v.SetDefault("providers.knot.base_url", "https://api.knotapi.com/v1/transactions")
	v.SetDefault("providers.amplitude.base_url", "https://api2.amplitude.com/2/httpapi")
	for _, name := range providerNames {
		v.SetDefault("providers."+name+".timeout_secs", 25)
		v.SetDefault("providers."+name+".rate_per_second", 5)
		v.SetDefault("providers."+name+".burst", 10)
	}
	// Analytics calls are best-effort and should give up sooner.
	v.SetDefault("providers.amplitude.timeout_secs", 10)
	v.SetDefault("providers.amplitude.rate_per_second", 20)
	v.SetDefault("providers.amplitude.burst", 40)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "CLAIMEQUITY_SERVER_PORT",
		"server.read_timeout":        "CLAIMEQUITY_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "CLAIMEQUITY_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout":    "CLAIMEQUITY_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":         "CLAIMEQUITY_SERVER_ENVIRONMENT",
		"db.host":                    "CLAIMEQUITY_DB_HOST",
		"db.port":                    "CLAIMEQUITY_DB_PORT",
		"db.user":                    "CLAIMEQUITY_DB_USER",
		"db.password":                "CLAIMEQUITY_DB_PASSWORD",
		"db.name":                    "CLAIMEQUITY_DB_NAME",
		"db.sslmode":                 "CLAIMEQUITY_DB_SSLMODE",
		"db.max_open":                "CLAIMEQUITY_DB_MAX_OPEN",
		"db.max_idle":                "CLAIMEQUITY_DB_MAX_IDLE",
		"s3.region":                  "CLAIMEQUITY_S3_REGION",
		"s3.bucket":                  "CLAIMEQUITY_S3_BUCKET",
		"s3.endpoint":                "CLAIMEQUITY_S3_ENDPOINT",
		"s3.access_key":              "CLAIMEQUITY_S3_ACCESS_KEY",
		"s3.secret_key":              "CLAIMEQUITY_S3_SECRET_KEY",
		"log.level":                  "CLAIMEQUITY_LOG_LEVEL",
		"log.format":                 "CLAIMEQUITY_LOG_FORMAT",
		"cors.allowed_origins":       "CLAIMEQUITY_CORS_ALLOWED_ORIGINS",
		"upload.max_file_size_mb":    "CLAIMEQUITY_UPLOAD_MAX_FILE_SIZE_MB",
		"bias.store":                 "CLAIMEQUITY_BIAS_STORE",
		"bias.salt":                  "CLAIMEQUITY_BIAS_SALT",
		"bias.min_sample":            "CLAIMEQUITY_BIAS_MIN_SAMPLE",
		"bias.relative_risk":         "CLAIMEQUITY_BIAS_RELATIVE_RISK",
		"bias.min_heatmap_buckets":   "CLAIMEQUITY_BIAS_MIN_HEATMAP_BUCKETS",
		"bias.heatmap_ttl":           "CLAIMEQUITY_BIAS_HEATMAP_TTL",
		"bias.repeat_policy":         "CLAIMEQUITY_BIAS_REPEAT_POLICY",
		"bias.repeat_cap":            "CLAIMEQUITY_BIAS_REPEAT_CAP",
		"bias.repeat_window":         "CLAIMEQUITY_BIAS_REPEAT_WINDOW",
		"summarizer.order":           "CLAIMEQUITY_SUMMARIZER_ORDER",
		"summarizer.chain_timeout":   "CLAIMEQUITY_SUMMARIZER_CHAIN_TIMEOUT",
		"summarizer.max_input_chars": "CLAIMEQUITY_SUMMARIZER_MAX_INPUT_CHARS",
		"summarizer.local_max_chars": "CLAIMEQUITY_SUMMARIZER_LOCAL_MAX_CHARS",
		"appeal.order":               "CLAIMEQUITY_APPEAL_ORDER",
		"appeal.max_input_chars":     "CLAIMEQUITY_APPEAL_MAX_INPUT_CHARS",
		"prediction.tables_path":     "CLAIMEQUITY_PREDICTION_TABLES_PATH",
	}
	for _, name := range providerNames {
		for _, field := range []string{"base_url", "default_model", "timeout_secs", "rate_per_second", "burst", "max_tokens", "temperature"} {
			key := "providers." + name + "." + field
			envBindings[key] = "CLAIMEQUITY_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		}
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if CLAIMEQUITY_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CLAIMEQUITY_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: SplitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Bias = BiasConfig{
		Store:             v.GetString("bias.store"),
		Salt:              v.GetString("bias.salt"),
		MinSample:         v.GetInt64("bias.min_sample"),
		RelativeRisk:      v.GetFloat64("bias.relative_risk"),
		MinHeatmapBuckets: v.GetInt("bias.min_heatmap_buckets"),
		HeatmapTTL:        v.GetDuration("bias.heatmap_ttl"),
		RepeatPolicy:      v.GetString("bias.repeat_policy"),
		RepeatCap:         v.GetInt("bias.repeat_cap"),
		RepeatWindow:      v.GetDuration("bias.repeat_window"),
	}
	cfg.Summarizer = SummarizerConfig{
		Order:         SplitList(v.GetString("summarizer.order")),
		ChainTimeout:  v.GetDuration("summarizer.chain_timeout"),
		MaxInputChars: v.GetInt("summarizer.max_input_chars"),
		LocalMaxChars: v.GetInt("summarizer.local_max_chars"),
	}
	cfg.Appeal = AppealConfig{
		Order:         SplitList(v.GetString("appeal.order")),
		MaxInputChars: v.GetInt("appeal.max_input_chars"),
	}
	cfg.Prediction = PredictionConfig{
		TablesPath: v.GetString("prediction.tables_path"),
	}
	for _, name := range providerNames {
		p := cfg.Providers.ByName(name)
		prefix := "providers." + name + "."
		*p = ProviderConfig{
			BaseURL:       v.GetString(prefix + "base_url"),
			DefaultModel:  v.GetString(prefix + "default_model"),
			TimeoutSecs:   v.GetInt(prefix + "timeout_secs"),
			RatePerSecond: v.GetFloat64(prefix + "rate_per_second"),
			Burst:         v.GetInt(prefix + "burst"),
			MaxTokens:     v.GetInt(prefix + "max_tokens"),
			Temperature:   float32(v.GetFloat64(prefix + "temperature")),
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Bias.Salt == "" {
		salt, err := randomSalt()
		if err != nil {
			return nil, err
		}
		cfg.Bias.Salt = salt
		cfg.Bias.EphemeralSalt = true
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	switch c.Bias.Store {
	case "memory", "postgres":
	default:
		return fmt.Errorf("invalid bias.store %q: must be memory or postgres", c.Bias.Store)
	}
	switch c.Bias.RepeatPolicy {
	case "count_all", "cap":
	default:
		return fmt.Errorf("invalid bias.repeat_policy %q: must be count_all or cap", c.Bias.RepeatPolicy)
	}
	if c.RequiresStableSalt() {
		salt := strings.TrimSpace(c.Bias.Salt)
		if salt == "" {
			return fmt.Errorf("bias.salt is required when server.environment=production or bias.store=postgres")
		}
		if knownSalts[strings.ToLower(salt)] {
			return fmt.Errorf("bias.salt must not be a placeholder value")
		}
	}
	if c.Bias.RelativeRisk < 1 {
		return fmt.Errorf("bias.relative_risk must be >= 1, got %v", c.Bias.RelativeRisk)
	}
	if c.Bias.MinSample < 1 {
		return fmt.Errorf("bias.min_sample must be >= 1, got %d", c.Bias.MinSample)
	}
	return nil
}

func randomSalt() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating bias salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// SplitList parses a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
