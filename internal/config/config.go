// Package config loads the gateway's process-wide configuration from the
// closed environment-variable surface in spec §6.5. No config file, no
// flags — viper is used only for its AutomaticEnv plumbing.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"chaingateway/internal/chain"
)

// Config is the closed set of process-wide settings.
type Config struct {
	Port            string
	Host            string
	DefaultChainID  string
	LogLevel        string
	SSLCertPath     string
	SSLKeyPath      string
	SSLCAPath       string
	siblingOverride map[string]siblingEnv
}

type siblingEnv struct {
	nodeURL  string
	jwt      string
	mnemonic string
}

// siblingShortNames is the closed set of `<SIBLING>_*` env prefixes this
// process understands (spec §0/§6.5).
var siblingShortNames = []string{"IOTA", "SHIMMER", "IOTA_TESTNET"}

// Load reads the environment into Config. Unlike the older
// config.Load, there is no config file and no pflag binding: the spec
// closes the configuration surface to environment variables only.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := Config{
		Port:            v.GetString("PORT"),
		Host:            v.GetString("HOST"),
		DefaultChainID:  v.GetString("DEFAULT_CHAIN_ID"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		SSLCertPath:     v.GetString("SSL_CERT_PATH"),
		SSLKeyPath:      v.GetString("SSL_KEY_PATH"),
		SSLCAPath:       v.GetString("SSL_CA_PATH"),
		siblingOverride: make(map[string]siblingEnv),
	}

	for _, name := range siblingShortNames {
		cfg.siblingOverride[name] = siblingEnv{
			nodeURL:  v.GetString(name + "_NODE_URL"),
			jwt:      v.GetString(name + "_JWT_TOKEN"),
			mnemonic: v.GetString(name + "_MNEMONIC"),
		}
	}

	return cfg
}

// RPCURLOverride returns the `<SIBLING>_NODE_URL` override for a sibling
// short name, or "" if unset. Non-sibling networks never have overrides
// (spec §6.5 scopes node-url/jwt/mnemonic keys to siblings only).
func (c Config) RPCURLOverride(shortName string) string {
	return c.siblingOverride[envKey(shortName)].nodeURL
}

// TLSOptions builds the chain.Options for shortName, applying the
// `<SIBLING>_JWT_TOKEN` bearer and the process-wide SSL material.
func (c Config) TLSOptions(shortName string) chain.Options {
	return chain.Options{
		CertPath:    c.SSLCertPath,
		KeyPath:     c.SSLKeyPath,
		CAPath:      c.SSLCAPath,
		BearerToken: c.siblingOverride[envKey(shortName)].jwt,
	}
}

// Mnemonic returns the `<SIBLING>_MNEMONIC` seed for the signer submodule
// (out of scope for this package beyond surfacing the env value).
func (c Config) Mnemonic(shortName string) string {
	return c.siblingOverride[envKey(shortName)].mnemonic
}

func envKey(shortName string) string {
	return strings.ToUpper(strings.ReplaceAll(shortName, "-", "_"))
}
