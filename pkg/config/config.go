package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/noah-isme/class-insights-api/internal/models"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Source drivers.
const (
	DriverSheets = "sheets"
	DriverXLSX   = "xlsx"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Sources   SourcesConfig
	Sheets    SheetsConfig
	Dashboard DashboardConfig
	Import    ImportConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SourcesConfig maps each importable year to its sheet locations.
type SourcesConfig struct {
	Driver      string
	DefaultYear int
	Years       map[int]models.YearSources
}

// Lookup returns the sources configured for year.
func (c SourcesConfig) Lookup(year int) (models.YearSources, bool) {
	src, ok := c.Years[year]
	return src, ok
}

// AvailableYears returns configured years in ascending order.
func (c SourcesConfig) AvailableYears() []int {
	years := make([]int, 0, len(c.Years))
	for y := range c.Years {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// SheetsConfig configures the Google Sheets client and its row cache.
type SheetsConfig struct {
	CredentialsFile string
	APIKey          string
	BaseURL         string
	Timeout         time.Duration
	CacheEnabled    bool
	CacheTTL        time.Duration
}

// DashboardConfig governs how dates are read and how large default rankings are.
type DashboardConfig struct {
	Timezone    string
	Location    *time.Location
	DefaultTopN int
}

// ImportConfig controls background imports. A zero RefreshInterval disables periodic refresh.
type ImportConfig struct {
	OnStart         bool
	RefreshInterval time.Duration
	Timeout         time.Duration
	QueueSize       int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Sheets = SheetsConfig{
		CredentialsFile: v.GetString("GOOGLE_CREDENTIALS_FILE"),
		APIKey:          v.GetString("GOOGLE_API_KEY"),
		BaseURL:         strings.TrimRight(v.GetString("SHEETS_BASE_URL"), "/"),
		Timeout:         parseDuration(v.GetString("SHEETS_TIMEOUT"), 30*time.Second),
		CacheEnabled:    v.GetBool("SHEETS_CACHE_ENABLED"),
		CacheTTL:        parseDuration(v.GetString("SHEETS_CACHE_TTL"), 10*time.Minute),
	}

	tz := v.GetString("DATE_TIMEZONE")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load DATE_TIMEZONE %q: %w", tz, err)
	}
	cfg.Dashboard = DashboardConfig{
		Timezone:    tz,
		Location:    loc,
		DefaultTopN: v.GetInt("DASHBOARD_DEFAULT_TOP_N"),
	}

	cfg.Import = ImportConfig{
		OnStart:         v.GetBool("IMPORT_ON_START"),
		RefreshInterval: parseDuration(v.GetString("IMPORT_REFRESH_INTERVAL"), 0),
		Timeout:         parseDuration(v.GetString("IMPORT_TIMEOUT"), 2*time.Minute),
		QueueSize:       v.GetInt("IMPORT_QUEUE_SIZE"),
	}

	driver := strings.ToLower(v.GetString("SOURCE_DRIVER"))
	if driver != DriverSheets && driver != DriverXLSX {
		return nil, fmt.Errorf("unsupported SOURCE_DRIVER %q", driver)
	}
	years, err := loadYears(v)
	if err != nil {
		return nil, err
	}
	cfg.Sources = SourcesConfig{
		Driver:      driver,
		DefaultYear: v.GetInt("DEFAULT_YEAR"),
		Years:       years,
	}

	return cfg, nil
}

// loadYears reads YEAR_<yyyy>_* keys for every year listed in SOURCE_YEARS.
func loadYears(v *viper.Viper) (map[int]models.YearSources, error) {
	years := make(map[int]models.YearSources)
	for _, raw := range splitAndTrim(v.GetString("SOURCE_YEARS")) {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q in SOURCE_YEARS: %w", raw, err)
		}
		prefix := fmt.Sprintf("YEAR_%d_", year)
		src := models.YearSources{
			Year: year,
			PlatformA: models.SheetRef{
				URL:   v.GetString(prefix + "FB_URL"),
				Sheet: stringOr(v.GetString(prefix+"FB_SHEET"), "Fb"),
			},
			PlatformB: models.SheetRef{
				URL:   v.GetString(prefix + "APP_URL"),
				Sheet: stringOr(v.GetString(prefix+"APP_SHEET"), "App"),
			},
			Images: models.SheetRef{
				URL:   v.GetString(prefix + "IMAGES_URL"),
				Sheet: stringOr(v.GetString(prefix+"IMAGES_SHEET"), "Images"),
			},
		}
		if src.PlatformA.URL == "" || src.PlatformB.URL == "" {
			return nil, fmt.Errorf("year %d needs both %sFB_URL and %sAPP_URL", year, prefix, prefix)
		}
		years[year] = src
	}
	return years, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SOURCE_DRIVER", DriverSheets)
	v.SetDefault("SOURCE_YEARS", "")
	v.SetDefault("DEFAULT_YEAR", 0)
	v.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	v.SetDefault("GOOGLE_API_KEY", "")
	v.SetDefault("SHEETS_BASE_URL", "https://sheets.googleapis.com")
	v.SetDefault("SHEETS_TIMEOUT", "30s")
	v.SetDefault("SHEETS_CACHE_ENABLED", false)
	v.SetDefault("SHEETS_CACHE_TTL", "10m")

	v.SetDefault("DATE_TIMEZONE", "UTC")
	v.SetDefault("DASHBOARD_DEFAULT_TOP_N", 10)

	v.SetDefault("IMPORT_ON_START", true)
	v.SetDefault("IMPORT_REFRESH_INTERVAL", "")
	v.SetDefault("IMPORT_TIMEOUT", "2m")
	v.SetDefault("IMPORT_QUEUE_SIZE", 4)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func stringOr(raw, fallback string) string {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	return raw
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
