package tinyara

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/AraBlocks/TinyAra/internal/config"
	"github.com/AraBlocks/TinyAra/internal/platform/privacylog"
	"github.com/AraBlocks/TinyAra/pkg/identity"
	"github.com/AraBlocks/TinyAra/pkg/wallet"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tyler-smith/go-bip39"
)

// ErrWordlistConflict is returned by Open when the configured wordlist
// differs from the one an earlier Open activated. go-bip39 validates and
// generates against a single process-wide list.
var ErrWordlistConflict = errors.New("a different BIP-39 wordlist is already active")

var activeWordlist struct {
	sync.Mutex
	name string
}

type Options struct {
	// ConfigPath is read instead of the default candidates when set.
	ConfigPath string
	// Logger defaults to JSON on stderr at the configured level. It is
	// always wrapped with the privacy sanitizer.
	Logger *slog.Logger
	// Registerer receives the factory metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
}

type Service struct {
	factory *identity.Factory
	logger  *slog.Logger
	cfg     config.Config
}

// Open loads configuration and builds a Service. The first Open in a process
// fixes the BIP-39 wordlist; a later Open configured with another wordlist
// fails with ErrWordlistConflict and leaves existing Services untouched.
func Open(opts Options) (*Service, error) {
	cfg, err := config.LoadFromPath(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	return newService(cfg, opts)
}

func newService(cfg config.Config, opts Options) (*Service, error) {
	if err := activateWordlist(cfg.Identity.Wordlist); err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		level, err := cfg.Logging.SlogLevel()
		if err != nil {
			return nil, err
		}
		opts.Logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	logger := privacylog.Wrap(opts.Logger)

	metrics, err := identity.NewMetrics(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	factory, err := identity.NewFactory(identity.FactoryOptions{
		Wallets:                  wallet.Deriver{Path: cfg.Identity.WalletPath},
		MnemonicStrength:         cfg.Identity.MnemonicStrength,
		MaxConcurrentDerivations: cfg.Identity.MaxConcurrentDerivations,
		DerivationsPerSecond:     cfg.Identity.DerivationsPerSecond,
		DerivationBurst:          cfg.Identity.DerivationBurst,
		Logger:                   logger,
		Metrics:                  metrics,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("tinyara ready",
		"wordlist", cfg.Identity.Wordlist,
		"wallet_path", cfg.Identity.WalletPath,
		"strength", cfg.Identity.MnemonicStrength,
	)
	return &Service{factory: factory, logger: logger, cfg: cfg}, nil
}

// activateWordlist selects the process-wide wordlist on the first call and
// afterwards only accepts the same name. English is go-bip39's built-in
// default and is never written.
func activateWordlist(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	list, err := config.Wordlist(name)
	if err != nil {
		return err
	}

	activeWordlist.Lock()
	defer activeWordlist.Unlock()
	switch activeWordlist.name {
	case name:
		return nil
	case "":
		if name != config.DefaultWordlist {
			bip39.SetWordList(list)
		}
		activeWordlist.name = name
		return nil
	default:
		return fmt.Errorf("%w: %s is active, %s requested", ErrWordlistConflict, activeWordlist.name, name)
	}
}

// Create derives an identity and wallet. See identity.Factory.Create.
func (s *Service) Create(ctx context.Context, opts identity.CreateOptions) (*identity.Result, error) {
	return s.factory.Create(ctx, opts)
}

func (s *Service) Factory() *identity.Factory {
	return s.factory
}

// WalletPath is the derivation path used when CreateOptions.WalletPath is
// empty.
func (s *Service) WalletPath() string {
	return s.cfg.Identity.WalletPath
}
