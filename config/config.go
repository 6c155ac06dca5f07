// Package config loads service settings from defaults, an optional YAML file
// and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/guttosm/scaffold-service/internal/scaffold"
)

// FileEnv names the environment variable pointing at a YAML config file.
const FileEnv = "CONFIG_FILE"

// Store backends.
const (
	StoreMemory  = "memory"
	StoreMongoDB = "mongodb"
	StoreSQLite  = "sqlite"
)

var storeBackends = []string{StoreMemory, StoreMongoDB, StoreSQLite}

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Log      LogConfig
	Store    StoreConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
	Stock    StockConfig
}

type ServerConfig struct {
	Port string
	// RateLimit requests per RateWindow per client. Zero disables limiting.
	RateLimit         int
	RateWindow        time.Duration
	RequestTimeout    time.Duration
	EnableIdempotency bool
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string
}

// CacheConfig sizes the plan cache. A zero size disables it.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

type AuthConfig struct {
	Enabled        bool
	APIKeys        map[string]bool
	JWTSecretKey   string
	JWTIssuer      string
	AccessTokenTTL time.Duration
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// StoreConfig selects where stock lives.
type StoreConfig struct {
	Backend    string
	SQLitePath string
}

// DatabaseConfig is the MongoDB connection and the breaker guarding it.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	// Enabled persists request logs even when stock is not in MongoDB.
	Enabled bool

	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// CatalogConfig holds the modular sizes the engine plans with.
// Empty slices select the built-in catalog values.
type CatalogConfig struct {
	LevelHeight   float64
	LedgerLengths []float64
	DeckWidths    []float64
	Resolution    int
	// MaxDimension caps height, length and width in meters.
	MaxDimension  float64
}

type StockConfig struct {
	LowStockThreshold int
	RecentDays        int
	RecentLimit       int
}

// setting binds a config key to its environment variable and default.
type setting struct {
	key string
	env string
	def interface{}
}

var settings = []setting{
	{"server.port", "PORT", "8080"},
	{"server.rate_limit", "RATE_LIMIT", 100},
	{"server.rate_window", "RATE_WINDOW", time.Minute},
	{"server.request_timeout", "REQUEST_TIMEOUT", 10 * time.Second},
	{"server.idempotency", "IDEMPOTENCY_ENABLED", true},
	{"server.cors_origins", "CORS_ORIGINS", ""},
	{"server.swagger_user", "SWAGGER_USER", ""},
	{"server.swagger_pass", "SWAGGER_PASS", ""},

	{"cache.size", "CACHE_SIZE", 1000},
	{"cache.ttl", "CACHE_TTL", 5 * time.Minute},

	{"auth.enabled", "AUTH_ENABLED", false},
	{"auth.api_keys", "API_KEYS", ""},
	{"auth.jwt_secret", "JWT_SECRET_KEY", ""},
	{"auth.jwt_issuer", "JWT_ISSUER", "scaffold-service"},
	{"auth.access_token_ttl", "JWT_ACCESS_TOKEN_TTL", 15 * time.Minute},

	{"log.level", "LOG_LEVEL", "info"},
	{"log.pretty", "LOG_PRETTY", false},

	{"store.backend", "STORE_BACKEND", StoreMemory},
	{"store.sqlite_path", "SQLITE_PATH", "scaffold.db"},

	{"mongodb.uri", "MONGODB_URI", "mongodb://localhost:27017"},
	{"mongodb.database", "MONGODB_DATABASE", "scaffold_service"},
	{"mongodb.logs_ttl", "MONGODB_LOGS_TTL", 30 * 24 * time.Hour},
	{"mongodb.enabled", "MONGODB_ENABLED", false},
	{"mongodb.circuit_breaker.failure_threshold", "CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5},
	{"mongodb.circuit_breaker.success_threshold", "CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2},
	{"mongodb.circuit_breaker.timeout", "CIRCUIT_BREAKER_TIMEOUT", 30 * time.Second},

	{"catalog.level_height", "CATALOG_LEVEL_HEIGHT", 2.0},
	{"catalog.ledger_lengths", "CATALOG_LEDGER_LENGTHS", ""},
	{"catalog.deck_widths", "CATALOG_DECK_WIDTHS", ""},
	{"catalog.resolution", "CATALOG_RESOLUTION", 100},
	{"catalog.max_dimension", "SCAFFOLD_MAX_DIMENSION", scaffold.DefaultMaxDimension},

	{"stock.low_stock_threshold", "LOW_STOCK_THRESHOLD", 10},
	{"stock.recent_days", "RECENT_WITHDRAWALS_DAYS", 7},
	{"stock.recent_limit", "RECENT_WITHDRAWALS_LIMIT", 50},
}

// devCORSOrigins are always allowed so a local frontend works out of the box.
var devCORSOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

// Load reads the file named by CONFIG_FILE, when set, and the environment.
func Load() (Config, error) {
	return LoadFile(os.Getenv(FileEnv))
}

// LoadFile reads path, which may be empty, and the environment. Every
// malformed value is reported in the returned error.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		_ = v.BindEnv(s.key, s.env)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	r := &reader{v: v}
	cfg := Config{
		Server: ServerConfig{
			Port:              r.str("server.port"),
			RateLimit:         r.nonNegativeInt("server.rate_limit"),
			RateWindow:        r.duration("server.rate_window"),
			RequestTimeout:    r.duration("server.request_timeout"),
			EnableIdempotency: r.flag("server.idempotency"),
			CORSOrigins:       append(slices.Clone(devCORSOrigins), r.list("server.cors_origins")...),
			SwaggerUser:       r.str("server.swagger_user"),
			SwaggerPass:       r.str("server.swagger_pass"),
		},
		Cache: CacheConfig{
			Size: r.nonNegativeInt("cache.size"),
			TTL:  r.duration("cache.ttl"),
		},
		Auth: AuthConfig{
			Enabled:        r.flag("auth.enabled"),
			APIKeys:        keySet(r.list("auth.api_keys")),
			JWTSecretKey:   r.str("auth.jwt_secret"),
			JWTIssuer:      r.str("auth.jwt_issuer"),
			AccessTokenTTL: r.duration("auth.access_token_ttl"),
		},
		Log: LogConfig{
			Level:  r.str("log.level"),
			Pretty: r.flag("log.pretty"),
		},
		Store: StoreConfig{
			Backend:    strings.ToLower(r.str("store.backend")),
			SQLitePath: r.str("store.sqlite_path"),
		},
		Database: DatabaseConfig{
			URI:                            r.str("mongodb.uri"),
			DatabaseName:                   r.str("mongodb.database"),
			LogsTTL:                        r.duration("mongodb.logs_ttl"),
			Enabled:                        r.flag("mongodb.enabled"),
			CircuitBreakerFailureThreshold: r.nonNegativeInt("mongodb.circuit_breaker.failure_threshold"),
			CircuitBreakerSuccessThreshold: r.nonNegativeInt("mongodb.circuit_breaker.success_threshold"),
			CircuitBreakerTimeout:          r.duration("mongodb.circuit_breaker.timeout"),
		},
		Catalog: CatalogConfig{
			LevelHeight:   r.positiveFloat("catalog.level_height"),
			LedgerLengths: r.sizes("catalog.ledger_lengths"),
			DeckWidths:    r.sizes("catalog.deck_widths"),
			Resolution:    r.nonNegativeInt("catalog.resolution"),
			MaxDimension:  r.positiveFloat("catalog.max_dimension"),
		},
		Stock: StockConfig{
			LowStockThreshold: r.nonNegativeInt("stock.low_stock_threshold"),
			RecentDays:        r.nonNegativeInt("stock.recent_days"),
			RecentLimit:       r.nonNegativeInt("stock.recent_limit"),
		},
	}

	if !slices.Contains(storeBackends, cfg.Store.Backend) {
		r.fail("store.backend", fmt.Errorf("%q is not one of %s", cfg.Store.Backend, strings.Join(storeBackends, ", ")))
	}
	if cfg.Catalog.MaxDimension > scaffold.MaxDimensionCeiling {
		r.fail("catalog.max_dimension", fmt.Errorf("%g exceeds %g", cfg.Catalog.MaxDimension, scaffold.MaxDimensionCeiling))
	}
	if err := errors.Join(r.errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MongoDBRequired reports whether a MongoDB connection is needed.
func (c Config) MongoDBRequired() bool {
	return c.Store.Backend == StoreMongoDB || c.Database.Enabled
}

// reader converts viper values and collects conversion errors.
type reader struct {
	v    *viper.Viper
	errs []error
}

func (r *reader) fail(key string, err error) {
	r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
}

func (r *reader) str(key string) string {
	return strings.TrimSpace(r.v.GetString(key))
}

func (r *reader) flag(key string) bool {
	b, err := cast.ToBoolE(r.v.Get(key))
	if err != nil {
		r.fail(key, err)
	}
	return b
}

func (r *reader) nonNegativeInt(key string) int {
	n, err := cast.ToIntE(r.v.Get(key))
	if err == nil && n < 0 {
		err = fmt.Errorf("%d must not be negative", n)
	}
	if err != nil {
		r.fail(key, err)
	}
	return n
}

func (r *reader) positiveFloat(key string) float64 {
	f, err := cast.ToFloat64E(r.v.Get(key))
	if err == nil && f <= 0 {
		err = fmt.Errorf("%g must be positive", f)
	}
	if err != nil {
		r.fail(key, err)
	}
	return f
}

func (r *reader) duration(key string) time.Duration {
	d, err := cast.ToDurationE(r.v.Get(key))
	if err == nil && d < 0 {
		err = fmt.Errorf("%s must not be negative", d)
	}
	if err != nil {
		r.fail(key, err)
	}
	return d
}

// list accepts a YAML sequence or a comma separated string. Blank items are
// dropped.
func (r *reader) list(key string) []string {
	var items []string
	switch raw := r.v.Get(key).(type) {
	case nil:
		return nil
	case string:
		items = strings.Split(raw, ",")
	default:
		var err error
		if items, err = cast.ToStringSliceE(raw); err != nil {
			r.fail(key, err)
			return nil
		}
	}

	out := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// sizes parses a list of positive lengths in meters.
func (r *reader) sizes(key string) []float64 {
	items := r.list(key)
	if items == nil {
		return nil
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, err := cast.ToFloat64E(item)
		if err == nil && f <= 0 {
			err = fmt.Errorf("%g must be positive", f)
		}
		if err != nil {
			r.fail(key, err)
			continue
		}
		out = append(out, f)
	}
	return out
}

func keySet(keys []string) map[string]bool {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
