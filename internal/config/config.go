package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	cutoffLayout      = "2006-01-02"
	configPathEnv     = "DIGEST_CONFIG"
	providerEnv       = "LLM_PROVIDER"
	modelEnv          = "LLM_MODEL"
	geminiAPIKeyEnv   = "GEMINI_API_KEY"
	openAIAPIKeyEnv   = "OPENAI_API_KEY"
	cohereAPIKeyEnv   = "COHERE_API_KEY"
	emailSenderEnv    = "EMAIL_SENDER"
	emailPasswordEnv  = "EMAIL_PASSWORD"
	emailRecipientEnv = "EMAIL_RECIPIENT"
	smtpHostEnv       = "SMTP_HOST"
	smtpPortEnv       = "SMTP_PORT"
	historyFileEnv    = "HISTORY_FILE"
	pushgatewayEnv    = "PUSHGATEWAY_URL"
	logLevelEnv       = "LOG_LEVEL"
)

// ErrMissingConfig is returned by Validate when required credentials are absent.
var ErrMissingConfig = errors.New("missing required configuration")

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Feeds      []string         `yaml:"feeds"`
	Filter     FilterConfig     `yaml:"filter"`
	History    HistoryConfig    `yaml:"history"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Email      EmailConfig      `yaml:"email"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	HTTP       HTTPConfig       `yaml:"http"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ScheduleConfig defines the weekday guard and the timezone dates are stamped in.
type ScheduleConfig struct {
	Timezone string         `yaml:"timezone"`
	SkipDays []string       `yaml:"skipDays"`
	location *time.Location `yaml:"-"`
}

// Location resolves the schedule timezone string to a time.Location.
func (s ScheduleConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// Weekdays parses SkipDays; unknown names are ignored.
func (s ScheduleConfig) Weekdays() []time.Weekday {
	days := make([]time.Weekday, 0, len(s.SkipDays))
	for _, name := range s.SkipDays {
		if d, ok := parseWeekday(name); ok {
			days = append(days, d)
		}
	}
	return days
}

// FilterConfig holds the relevance rules.
type FilterConfig struct {
	Cutoff  string        `yaml:"cutoff"`
	Include []string      `yaml:"include"`
	Exclude []string      `yaml:"exclude"`
	Primary PrimaryConfig `yaml:"primary"`
}

// CutoffTime parses Cutoff as a UTC date.
func (f FilterConfig) CutoffTime() (time.Time, error) {
	t, err := time.ParseInLocation(cutoffLayout, strings.TrimSpace(f.Cutoff), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cutoff %q: %w", f.Cutoff, err)
	}
	return t, nil
}

// PrimaryConfig lists predicates that mark an article as coming from an authoritative source.
type PrimaryConfig struct {
	FeedSubstrings []string `yaml:"feedSubstrings"`
	TitlePatterns  []string `yaml:"titlePatterns"`
	Label          string   `yaml:"label"`
}

// HistoryConfig describes the delivered-ids ledger.
type HistoryConfig struct {
	Path  string `yaml:"path"`
	Limit int    `yaml:"limit"`
}

// SummarizerConfig defines how to contact the LLM backend.
type SummarizerConfig struct {
	Provider     string        `yaml:"provider"`
	Endpoint     string        `yaml:"endpoint"`
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"apiKey"`
	SystemPrompt string        `yaml:"systemPrompt"`
	Intro        string        `yaml:"intro"`
	MaxAttempts  int           `yaml:"maxAttempts"`
	RetryDelay   time.Duration `yaml:"retryDelay"`
	Timeout      time.Duration `yaml:"timeout"`
}

// EmailConfig wires all data required to send the digest.
type EmailConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Sender        string `yaml:"sender"`
	Password      string `yaml:"password"`
	Recipient     string `yaml:"recipient"`
	SubjectPrefix string `yaml:"subjectPrefix"`
}

// MetricsConfig points at an optional Prometheus Pushgateway.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgatewayUrl"`
	Job            string `yaml:"job"`
}

// HTTPConfig tunes feed fetching.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An explicit path wins over DIGEST_CONFIG.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

// Validate checks that everything needed before the first network call is present.
func (c Config) Validate() error {
	var missing []string
	if c.Summarizer.APIKey == "" {
		missing = append(missing, apiKeyEnvFor(c.Summarizer.Provider))
	}
	if c.Email.Password == "" {
		missing = append(missing, emailPasswordEnv)
	}
	if c.Email.Sender == "" {
		missing = append(missing, emailSenderEnv)
	}
	if c.Email.Recipient == "" {
		missing = append(missing, emailRecipientEnv)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	if len(c.Feeds) == 0 {
		return fmt.Errorf("no feeds configured")
	}
	if _, err := c.Filter.CutoffTime(); err != nil {
		return err
	}
	for _, p := range c.Filter.Primary.TitlePatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid primary title pattern %q: %w", p, err)
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.ToLower(os.Getenv(providerEnv)); v != "" && v != c.Summarizer.Provider {
		c.Summarizer.Provider = v
		c.Summarizer.Model = ""
	}
	if v := os.Getenv(modelEnv); v != "" {
		c.Summarizer.Model = v
	}
	if v := os.Getenv(apiKeyEnvFor(c.Summarizer.Provider)); v != "" {
		c.Summarizer.APIKey = v
	}

	if v := os.Getenv(emailSenderEnv); v != "" {
		c.Email.Sender = v
	}
	if v := os.Getenv(emailPasswordEnv); v != "" {
		c.Email.Password = v
	}
	if v := os.Getenv(emailRecipientEnv); v != "" {
		c.Email.Recipient = v
	}
	if v := os.Getenv(smtpHostEnv); v != "" {
		c.Email.Host = v
	}
	if v := os.Getenv(smtpPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Email.Port = port
		} else {
			log.Printf("config: ignoring invalid %s=%q", smtpPortEnv, v)
		}
	}

	if v := os.Getenv(historyFileEnv); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv(pushgatewayEnv); v != "" {
		c.Metrics.PushgatewayURL = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Schedule.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Schedule.location = loc
}

func apiKeyEnvFor(provider string) string {
	switch provider {
	case "openai":
		return openAIAPIKeyEnv
	case "cohere":
		return cohereAPIKeyEnv
	default:
		return geminiAPIKeyEnv
	}
}

func parseWeekday(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, true
		}
	}
	return 0, false
}
