package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/AraBlocks/TinyAra/pkg/wallet"

	"github.com/tyler-smith/go-bip39/wordlists"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultWordlist = "english"
	DefaultLogLevel = "info"
)

type Config struct {
	Identity IdentityConfig
	Logging  LoggingConfig
}

type IdentityConfig struct {
	MnemonicStrength         int
	Wordlist                 string
	WalletPath               string
	MaxConcurrentDerivations int
	DerivationsPerSecond     float64
	DerivationBurst          int
}

type LoggingConfig struct {
	Level string
}

// FileConfig is the on-disk layout. Zero values leave defaults untouched.
type FileConfig struct {
	Identity FileIdentityConfig `yaml:"identity"`
	Logging  FileLoggingConfig  `yaml:"logging"`
}

type FileIdentityConfig struct {
	MnemonicStrength         int     `yaml:"mnemonicStrength"`
	Wordlist                 string  `yaml:"wordlist"`
	WalletPath               string  `yaml:"walletPath"`
	MaxConcurrentDerivations int     `yaml:"maxConcurrentDerivations"`
	DerivationsPerSecond     float64 `yaml:"derivationsPerSecond"`
	DerivationBurst          int     `yaml:"derivationBurst"`
}

type FileLoggingConfig struct {
	Level string `yaml:"level"`
}

var wordlistsByName = map[string][]string{
	"english":             wordlists.English,
	"japanese":            wordlists.Japanese,
	"korean":              wordlists.Korean,
	"spanish":             wordlists.Spanish,
	"chinese_simplified":  wordlists.ChineseSimplified,
	"chinese_traditional": wordlists.ChineseTraditional,
	"french":              wordlists.French,
	"italian":             wordlists.Italian,
	"czech":               wordlists.Czech,
}

func DefaultConfig() Config {
	return Config{
		Identity: IdentityConfig{
			MnemonicStrength: 128,
			Wordlist:         DefaultWordlist,
			WalletPath:       wallet.DefaultPath,
		},
		Logging: LoggingConfig{Level: DefaultLogLevel},
	}
}

// LoadFromPath reads configPath, or the first readable default candidate when
// configPath is empty, then applies environment overrides and validates the
// result. A missing default candidate is not an error; a missing explicit
// path is.
func LoadFromPath(configPath string) (Config, error) {
	cfg := DefaultConfig()

	candidates := []string{configPath}
	if configPath == "" {
		candidates = []string{"configs/tinyara.yaml", "tinyara.yaml"}
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if configPath == "" && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}

		var parsed FileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
		}
		Merge(&cfg, parsed)
		break
	}

	ApplyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Merge(dst *Config, src FileConfig) {
	if src.Identity.MnemonicStrength != 0 {
		dst.Identity.MnemonicStrength = src.Identity.MnemonicStrength
	}
	if src.Identity.Wordlist != "" {
		dst.Identity.Wordlist = src.Identity.Wordlist
	}
	if src.Identity.WalletPath != "" {
		dst.Identity.WalletPath = src.Identity.WalletPath
	}
	if src.Identity.MaxConcurrentDerivations != 0 {
		dst.Identity.MaxConcurrentDerivations = src.Identity.MaxConcurrentDerivations
	}
	if src.Identity.DerivationsPerSecond != 0 {
		dst.Identity.DerivationsPerSecond = src.Identity.DerivationsPerSecond
	}
	if src.Identity.DerivationBurst != 0 {
		dst.Identity.DerivationBurst = src.Identity.DerivationBurst
	}
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
}

func ApplyEnvOverrides(cfg *Config) {
	id := &cfg.Identity
	id.MnemonicStrength = envIntWithFallback("TINYARA_MNEMONIC_STRENGTH", id.MnemonicStrength)
	if v := envString("TINYARA_WORDLIST"); v != "" {
		id.Wordlist = v
	}
	if v := envString("TINYARA_WALLET_PATH"); v != "" {
		id.WalletPath = v
	}
	id.MaxConcurrentDerivations = envIntWithFallback("TINYARA_MAX_CONCURRENT_DERIVATIONS", id.MaxConcurrentDerivations)
	id.DerivationsPerSecond = envFloatWithFallback("TINYARA_DERIVATIONS_PER_SECOND", id.DerivationsPerSecond)
	id.DerivationBurst = envIntWithFallback("TINYARA_DERIVATION_BURST", id.DerivationBurst)
	if v := envString("TINYARA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func (c Config) Validate() error {
	id := c.Identity
	if id.MnemonicStrength%32 != 0 || id.MnemonicStrength < 128 || id.MnemonicStrength > 256 {
		return fmt.Errorf("%w: mnemonicStrength must be a multiple of 32 in [128, 256], got %d", ErrInvalidConfig, id.MnemonicStrength)
	}
	if _, err := Wordlist(id.Wordlist); err != nil {
		return err
	}
	if _, err := wallet.ParsePath(id.WalletPath); err != nil {
		return fmt.Errorf("%w: walletPath: %w", ErrInvalidConfig, err)
	}
	if id.MaxConcurrentDerivations < 0 || id.DerivationsPerSecond < 0 || id.DerivationBurst < 0 {
		return fmt.Errorf("%w: derivation limits must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Wordlist resolves a BIP-39 wordlist by name. Names are case-insensitive.
func Wordlist(name string) ([]string, error) {
	list, ok := wordlistsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown wordlist %q", ErrInvalidConfig, name)
	}
	return list, nil
}

func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return 0, fmt.Errorf("%w: logging level %q", ErrInvalidConfig, l.Level)
	}
	return level, nil
}
