package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies TRADEHOOK_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known TRADEHOOK_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject deployment parameters without touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── AWS ──
	setStr(&cfg.AWS.Region, "TRADEHOOK_AWS_REGION")
	setStr(&cfg.AWS.Region, "REGION_NAME") // compatibility alias
	setStr(&cfg.AWS.SecretName, "TRADEHOOK_AWS_SECRET_NAME")
	setStr(&cfg.AWS.SecretName, "SECRET_NAME") // compatibility alias
	setStr(&cfg.AWS.AllowListParam, "TRADEHOOK_AWS_ALLOWLIST_PARAM")
	setStr(&cfg.AWS.AllowListParam, "WEBHOOK_SSM_NAME") // compatibility alias
	setStr(&cfg.AWS.MessageParam, "TRADEHOOK_AWS_MESSAGE_PARAM")
	setStr(&cfg.AWS.MessageParam, "MESSAGE_NAME") // compatibility alias

	// ── dYdX ──
	setStr(&cfg.Dydx.IndexerHost, "TRADEHOOK_DYDX_INDEXER_HOST")
	setStr(&cfg.Dydx.NodeHost, "TRADEHOOK_DYDX_NODE_HOST")
	setStr(&cfg.Dydx.ChainID, "TRADEHOOK_DYDX_CHAIN_ID")
	setInt(&cfg.Dydx.Subaccount, "TRADEHOOK_DYDX_SUBACCOUNT")

	// ── Trading ──
	setFloat64(&cfg.Trading.FreeCollateralMin, "TRADEHOOK_TRADING_FREE_COLLATERAL_MIN")
	setFloat64(&cfg.Trading.PriceFloor, "TRADEHOOK_TRADING_PRICE_FLOOR")
	setFloat64(&cfg.Trading.PriceCeiling, "TRADEHOOK_TRADING_PRICE_CEILING")
	setUint32(&cfg.Trading.GoodTilBlocks, "TRADEHOOK_TRADING_GOOD_TIL_BLOCKS")
	setStr(&cfg.Trading.ClientIDStrategy, "TRADEHOOK_TRADING_CLIENT_ID_STRATEGY")
	setDuration(&cfg.Trading.DedupTTL, "TRADEHOOK_TRADING_DEDUP_TTL")

	// ── Server ──
	setInt(&cfg.Server.Port, "TRADEHOOK_SERVER_PORT")
	setStr(&cfg.Server.ForwardedHeader, "TRADEHOOK_SERVER_FORWARDED_HEADER")

	// ── Notify ──
	setStr(&cfg.Notify.Username, "TRADEHOOK_NOTIFY_USERNAME")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "TRADEHOOK_LOG_LEVEL")
}

// setStr overwrites dst with the value of the environment variable when set.
func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// setInt overwrites dst when the environment variable parses as an int.
func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// setUint32 overwrites dst when the environment variable parses as a uint32.
func setUint32(dst *uint32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			*dst = uint32(n)
		}
	}
}

// setFloat64 overwrites dst when the environment variable parses as a float.
func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// setDuration overwrites dst when the environment variable parses as a
// time.Duration string such as "45s" or "2m".
func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
