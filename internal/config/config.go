// Package config loads server configuration from an optional TOML file
// with environment variable overrides for deployment settings.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/snapbill/snapbill/internal/parser"
)

// Config holds the full server configuration.
type Config struct {
	// Listen is the HTTP listen address, e.g. ":8080".
	Listen string `toml:"listen"`

	// DBPath is the SQLite database file path.
	DBPath string `toml:"db_path"`

	// JWTSecret signs session tokens. Must be set in production; the
	// default exists so local development works out of the box.
	JWTSecret string `toml:"jwt_secret"`

	// TokenTTLHours is how long issued tokens stay valid.
	TokenTTLHours int `toml:"token_ttl_hours"`

	Parser ParserConfig `toml:"parser"`
	Split  SplitConfig  `toml:"split"`
}

// ParserConfig configures the receipt text parser.
type ParserConfig struct {
	// TaxPolicy is "flat" or "proportional".
	TaxPolicy string `toml:"tax_policy"`

	// FlatTaxRate is the rate for the flat policy (and the proportional
	// policy's flat fallback).
	FlatTaxRate float64 `toml:"flat_tax_rate"`

	// ProportionalFallback is "flat" or "zero": what the proportional
	// policy does when the tax/subtotal anchors were not found in the text.
	ProportionalFallback string `toml:"proportional_fallback"`

	// StoreTokens maps lowercase brand tokens to canonical store names.
	StoreTokens map[string]string `toml:"store_tokens"`

	// DefaultStore is the placeholder store name when no token matched.
	DefaultStore string `toml:"default_store"`
}

// SplitConfig configures the allocation engine.
type SplitConfig struct {
	// IncludeTax divides price+tax per item instead of price alone.
	IncludeTax bool `toml:"include_tax"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	pc := parser.DefaultConfig()
	return Config{
		Listen:        ":8080",
		DBPath:        "./data/snapbill.db",
		JWTSecret:     "dev-secret-change-me",
		TokenTTLHours: 24,
		Parser: ParserConfig{
			TaxPolicy:            string(pc.TaxPolicy),
			FlatTaxRate:          pc.FlatTaxRate,
			ProportionalFallback: string(pc.ProportionalFallback),
			StoreTokens:          pc.StoreTokens,
			DefaultStore:         pc.DefaultStore,
		},
	}
}

// Load reads the TOML file at path (if it exists), then applies environment
// overrides. A missing file is not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env overrides.
		case err != nil:
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.Listen = getEnv("SNAPBILL_LISTEN", cfg.Listen)
	cfg.DBPath = getEnv("SNAPBILL_DB_PATH", cfg.DBPath)
	cfg.JWTSecret = getEnv("SNAPBILL_JWT_SECRET", cfg.JWTSecret)

	return cfg, nil
}

// ParserSettings converts the file representation into the parser's config.
func (c Config) ParserSettings() parser.Config {
	pc := parser.DefaultConfig()
	if c.Parser.TaxPolicy != "" {
		pc.TaxPolicy = parser.TaxPolicy(c.Parser.TaxPolicy)
	}
	if c.Parser.FlatTaxRate > 0 {
		pc.FlatTaxRate = c.Parser.FlatTaxRate
	}
	if c.Parser.ProportionalFallback != "" {
		pc.ProportionalFallback = parser.ProportionalFallback(c.Parser.ProportionalFallback)
	}
	if len(c.Parser.StoreTokens) > 0 {
		pc.StoreTokens = c.Parser.StoreTokens
	}
	if c.Parser.DefaultStore != "" {
		pc.DefaultStore = c.Parser.DefaultStore
	}
	return pc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
