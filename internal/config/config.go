// Package config defines the top-level configuration for the tradehook
// service and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by TRADEHOOK_* environment
// variables.
type Config struct {
	AWS      AWSConfig     `toml:"aws"`
	Dydx     DydxConfig    `toml:"dydx"`
	Trading  TradingConfig `toml:"trading"`
	Server   ServerConfig  `toml:"server"`
	Notify   NotifyConfig  `toml:"notify"`
	LogLevel string        `toml:"log_level"`
}

// AWSConfig names the parameter-store and secret-store entries the service
// reads, and the region they live in.
type AWSConfig struct {
	Region         string `toml:"region"`
	SecretName     string `toml:"secret_name"`     // {address, mnemonic} JSON secret
	AllowListParam string `toml:"allowlist_param"` // comma-separated IP list
	MessageParam   string `toml:"message_param"`   // webhook id/token JSON parameter
}

// DydxConfig holds dYdX v4 endpoints and account selection.
type DydxConfig struct {
	IndexerHost string `toml:"indexer_host"`
	NodeHost    string `toml:"node_host"`
	ChainID     string `toml:"chain_id"`
	Subaccount  int    `toml:"subaccount"`
}

// TradingConfig holds the order-execution thresholds and bounds.
type TradingConfig struct {
	// FreeCollateralMin is the strict lower bound on free collateral; the
	// order sub-pipeline runs only when collateral is strictly above it.
	FreeCollateralMin float64 `toml:"free_collateral_min"`
	// PriceFloor and PriceCeiling bound the sentinel market-order price:
	// sells use the floor, buys the ceiling. Both sit far outside any
	// realistic market price.
	PriceFloor   float64 `toml:"price_floor"`
	PriceCeiling float64 `toml:"price_ceiling"`
	// GoodTilBlocks is the validity window added to the observed chain
	// height when constructing an order.
	GoodTilBlocks uint32 `toml:"good_til_blocks"`
	// ClientIDStrategy selects how client order ids are generated:
	// "random" (default, matches the exchange client libraries) or
	// "counter" (monotonic, collision-free within the process).
	ClientIDStrategy string `toml:"client_id_strategy"`
	// DedupTTL is how long an identical signal is treated as a duplicate
	// redelivery. Zero disables deduplication.
	DedupTTL duration `toml:"dedup_ttl"`
}

// ServerConfig holds the HTTP trigger surface configuration.
type ServerConfig struct {
	Port int `toml:"port"`
	// ForwardedHeader is the header carrying the caller's claimed source IP.
	// The edge in front of this service must overwrite (not append to) this
	// header for the allow-list to be trustworthy.
	ForwardedHeader string `toml:"forwarded_header"`
}

// NotifyConfig holds operator-notification settings. The webhook id and token
// themselves come from the parameter store, not from this file.
type NotifyConfig struct {
	Username string `toml:"username"`
}

// duration wraps time.Duration so TOML can parse "30s"-style strings.
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Defaults returns a Config populated with reasonable default values. The
// dYdX hosts default to the public testnet.
func Defaults() Config {
	return Config{
		AWS: AWSConfig{
			Region:         "ap-northeast-1",
			SecretName:     "tradehook/dydx",
			AllowListParam: "tradehook/allowlist",
			MessageParam:   "tradehook/webhook",
		},
		Dydx: DydxConfig{
			IndexerHost: "https://indexer.v4testnet.dydx.exchange",
			NodeHost:    "https://test-dydx-rest.kingnodes.com",
			ChainID:     "dydx-testnet-4",
			Subaccount:  0,
		},
		Trading: TradingConfig{
			FreeCollateralMin: 10.0,
			PriceFloor:        0,
			PriceCeiling:      4000,
			GoodTilBlocks:     10,
			ClientIDStrategy:  "random",
			DedupTTL:          duration{30 * time.Second},
		},
		Server: ServerConfig{
			Port:            8080,
			ForwardedHeader: "X-Forwarded-For",
		},
		Notify: NotifyConfig{
			Username: "TradingView Webhook",
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validClientIDStrategies enumerates the accepted client id generators.
var validClientIDStrategies = map[string]bool{
	"random":  true,
	"counter": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.AWS.Region == "" {
		errs = append(errs, "aws: region must be set")
	}
	if c.AWS.SecretName == "" {
		errs = append(errs, "aws: secret_name must be set")
	}
	if c.AWS.AllowListParam == "" {
		errs = append(errs, "aws: allowlist_param must be set")
	}
	if c.AWS.MessageParam == "" {
		errs = append(errs, "aws: message_param must be set")
	}

	if c.Dydx.IndexerHost == "" {
		errs = append(errs, "dydx: indexer_host must be set")
	}
	if c.Dydx.NodeHost == "" {
		errs = append(errs, "dydx: node_host must be set")
	}
	if c.Dydx.ChainID == "" {
		errs = append(errs, "dydx: chain_id must be set")
	}
	if c.Dydx.Subaccount < 0 {
		errs = append(errs, "dydx: subaccount must not be negative")
	}

	if c.Trading.FreeCollateralMin < 0 {
		errs = append(errs, "trading: free_collateral_min must not be negative")
	}
	if c.Trading.PriceCeiling <= c.Trading.PriceFloor {
		errs = append(errs, "trading: price_ceiling must be greater than price_floor")
	}
	if c.Trading.GoodTilBlocks == 0 {
		errs = append(errs, "trading: good_til_blocks must be at least 1")
	}
	if !validClientIDStrategies[c.Trading.ClientIDStrategy] {
		errs = append(errs, fmt.Sprintf("trading: unknown client_id_strategy %q (valid: random, counter)", c.Trading.ClientIDStrategy))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: invalid port %d", c.Server.Port))
	}
	if c.Server.ForwardedHeader == "" {
		errs = append(errs, "server: forwarded_header must be set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
