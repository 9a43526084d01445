package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/roomspot/core/algo"
	"github.com/huangsam/roomspot/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit    = 10
	MaxResultLimit        = 1000
	DefaultPrecision      = 1
	DefaultWorkers        = 8
	DefaultHours          = 1.0
	DefaultFetchDays      = 7
	DefaultTimezone       = "Europe/Zurich"
	DefaultBaseURL        = "https://ethz.ch/bin/ethz/roominfo"
	DefaultRequestTimeout = 10 * time.Second
)

// Layouts accepted by --when, tried in order after RFC3339.
var whenLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// WeightsRawInput holds custom signal weights from the YAML config file.
// Unset fields keep their default weight.
type WeightsRawInput struct {
	Availability *float64 `mapstructure:"availability"`
	Distance     *float64 `mapstructure:"distance"`
	PriorUsage   *float64 `mapstructure:"prior_usage"`
	RoomType     *float64 `mapstructure:"room_type"`
	Longevity    *float64 `mapstructure:"longevity"`
	Capacity     *float64 `mapstructure:"capacity"`
}

// Config holds the runtime configuration for a search.
// This struct remains the "final, validated" config.
type Config struct {
	Location     string
	Building     string
	When         time.Time
	Duration     time.Duration
	ResultLimit  int
	Workers      int
	ForceRefresh bool

	Detail     bool
	Explain    bool
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Verbose    bool

	Timezone       *time.Location
	ClosingHour    int
	FetchDays      int
	EmptyWindow    schema.EmptyWindowPolicy
	BaseURL        string
	RequestTimeout time.Duration

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Weights algo.Weights
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Limit            int    `mapstructure:"limit"`
	Workers          int    `mapstructure:"workers"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Detail           bool   `mapstructure:"detail"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Verbose          bool   `mapstructure:"verbose"`
	Timezone         string `mapstructure:"timezone"`
	BaseURL          string `mapstructure:"base-url"`
	RequestTimeout   string `mapstructure:"request-timeout"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from searchCmd.Flags() ---
	Location     string  `mapstructure:"location"`
	Building     string  `mapstructure:"building"`
	When         string  `mapstructure:"when"`
	Hours        float64 `mapstructure:"hours"`
	ForceRefresh bool    `mapstructure:"force-refresh"`
	Explain      bool    `mapstructure:"explain"`

	// --- Tuning from config file or env ---
	ClosingHour int    `mapstructure:"closing-hour"`
	FetchDays   int    `mapstructure:"fetch-days"`
	EmptyWindow string `mapstructure:"empty-window"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// SearchQuery builds the search request described by the config.
func (c *Config) SearchQuery() schema.SearchQuery {
	return schema.SearchQuery{
		Location:     c.Location,
		Building:     c.Building,
		From:         c.When,
		Duration:     c.Duration,
		Count:        c.ResultLimit,
		ForceRefresh: c.ForceRefresh,
	}
}

// ScoreOptions returns the scoring options described by the config.
func (c *Config) ScoreOptions() algo.ScoreOptions {
	opts := algo.DefaultScoreOptions()
	opts.Weights = c.Weights
	opts.ClosingHour = c.ClosingHour
	opts.EmptyWindow = c.EmptyWindow
	return opts
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. The now argument anchors relative times.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processRemoteSettings(cfg, input); err != nil {
		return err
	}
	if err := processSearchWindow(cfg, input, now); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend turns a backend flag value into a DatabaseBackend. Empty means none.
func ParseBackend(s string) (schema.DatabaseBackend, error) {
	if s == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(s))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	backend, err := ParseBackend(input.CacheBackend)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	backend, err = ParseBackend(input.HistoryBackend)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// Cache and history must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates output and concurrency fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Building = strings.TrimSpace(input.Building)
	cfg.Location = strings.TrimSpace(input.Location)
	cfg.ForceRefresh = input.ForceRefresh
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Explain = input.Explain
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose

	// Location is optional here; the search itself rejects a missing one
	if cfg.Location != "" && !schema.IsKnownLocation(cfg.Location) {
		return fmt.Errorf("%w: %q. must be one of: %s", schema.ErrInvalidLocation, cfg.Location, strings.Join(schema.AllLocations, ", "))
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	return nil
}

// processRemoteSettings validates the room-info service and timeline settings.
func processRemoteSettings(cfg *Config, input *ConfigRawInput) error {
	tzName := input.Timezone
	if tzName == "" {
		tzName = DefaultTimezone
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tzName, err)
	}
	cfg.Timezone = loc

	cfg.BaseURL = input.BaseURL
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	cfg.RequestTimeout = DefaultRequestTimeout
	if input.RequestTimeout != "" {
		timeout, err := time.ParseDuration(input.RequestTimeout)
		if err != nil || timeout <= 0 {
			return fmt.Errorf("invalid request timeout %q: expected a positive duration like 10s", input.RequestTimeout)
		}
		cfg.RequestTimeout = timeout
	}

	cfg.ClosingHour = input.ClosingHour
	if cfg.ClosingHour == 0 {
		cfg.ClosingHour = algo.DefaultClosingHour
	}
	if cfg.ClosingHour < 1 || cfg.ClosingHour > 24 {
		return fmt.Errorf("closing hour must be between 1 and 24 (received %d)", input.ClosingHour)
	}

	cfg.FetchDays = input.FetchDays
	if cfg.FetchDays == 0 {
		cfg.FetchDays = DefaultFetchDays
	}
	if cfg.FetchDays < 1 || cfg.FetchDays > 31 {
		return fmt.Errorf("fetch days must be between 1 and 31 (received %d)", input.FetchDays)
	}

	cfg.EmptyWindow = schema.EmptyWindowPolicy(strings.ToLower(input.EmptyWindow))
	if cfg.EmptyWindow == "" {
		cfg.EmptyWindow = schema.EmptyWindowAvailable
	}
	if _, ok := schema.ValidEmptyWindowPolicies[cfg.EmptyWindow]; !ok {
		return fmt.Errorf("invalid empty-window policy '%s'. must be available or busy", input.EmptyWindow)
	}

	return nil
}

// processSearchWindow resolves the start and duration of the requested window.
func processSearchWindow(cfg *Config, input *ConfigRawInput, now time.Time) error {
	when, err := ParseWhen(input.When, cfg.Timezone, now)
	if err != nil {
		return err
	}
	cfg.When = when

	hours := input.Hours
	if hours == 0 {
		hours = DefaultHours
	}
	if hours < 0 || hours > 24 {
		return fmt.Errorf("hours must be between 0 and 24 (received %g)", input.Hours)
	}
	cfg.Duration = time.Duration(hours * float64(time.Hour))
	return nil
}

// RevalidateSearch applies search overrides from an MCP request to cfg.
// Empty strings and a zero hours value keep what cfg already holds.
func RevalidateSearch(cfg *Config, location, building, when string, hours float64, now time.Time) error {
	if location = strings.TrimSpace(location); location != "" {
		if !schema.IsKnownLocation(location) {
			return fmt.Errorf("%w: %q. must be one of: %s", schema.ErrInvalidLocation, location, strings.Join(schema.AllLocations, ", "))
		}
		cfg.Location = location
	}
	if building = strings.TrimSpace(building); building != "" {
		cfg.Building = building
	}

	loc := cfg.Timezone
	if loc == nil {
		loc = time.UTC
	}
	start, err := ParseWhen(when, loc, now)
	if err != nil {
		return err
	}
	cfg.When = start

	if hours != 0 {
		if hours < 0 || hours > 24 {
			return fmt.Errorf("hours must be between 0 and 24 (received %g)", hours)
		}
		cfg.Duration = time.Duration(hours * float64(time.Hour))
	}
	if cfg.Duration <= 0 {
		cfg.Duration = time.Duration(DefaultHours * float64(time.Hour))
	}
	return nil
}

// ParseWhen parses a window start in the given location. An empty string means now.
// Accepts RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02" and
// "15:04" (today).
func ParseWhen(s string, loc *time.Location, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	now = now.In(loc)
	if s == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.ParseInLocation("15:04", s, loc); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid --when value %q: expected RFC3339, YYYY-MM-DDTHH:MM, YYYY-MM-DD or HH:MM", s)
}

// ProcessWeightsRawInput overlays custom weights on the defaults and validates the result.
func ProcessWeightsRawInput(raw WeightsRawInput) (algo.Weights, error) {
	w := algo.DefaultWeights()
	overlay := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	overlay(&w.Availability, raw.Availability)
	overlay(&w.Distance, raw.Distance)
	overlay(&w.PriorUsage, raw.PriorUsage)
	overlay(&w.RoomType, raw.RoomType)
	overlay(&w.Longevity, raw.Longevity)
	overlay(&w.Capacity, raw.Capacity)

	if err := w.Validate(); err != nil {
		return algo.Weights{}, fmt.Errorf("invalid weights: %w", err)
	}
	return w, nil
}

// processCustomWeights computes the final weights from defaults and config overrides.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	weights, err := ProcessWeightsRawInput(input.Weights)
	if err != nil {
		return err
	}
	cfg.Weights = weights
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
