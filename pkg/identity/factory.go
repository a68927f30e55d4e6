package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/AraBlocks/TinyAra/pkg/crypto"
	"github.com/AraBlocks/TinyAra/pkg/wallet"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var errCanceled = errors.New("identity creation canceled")

// Primitives hashes seeds and generates key pairs.
type Primitives interface {
	Blake2b(b []byte) []byte
	KeyPair(seed []byte) (crypto.KeyPair, error)
}

// WalletDeriver derives a wallet from a mnemonic. An empty path selects the
// deriver's default.
type WalletDeriver interface {
	DeriveWallet(mnemonic, path string) (*wallet.Wallet, error)
}

type FactoryOptions struct {
	Primitives Primitives
	Wallets    WalletDeriver
	// MnemonicStrength is the entropy size in bits of generated mnemonics.
	MnemonicStrength int
	// MaxConcurrentDerivations bounds the CPU-heavy seed derivations in
	// flight across all Create calls. Zero means GOMAXPROCS.
	MaxConcurrentDerivations int
	// DerivationsPerSecond admits Create calls through a token bucket when
	// positive.
	DerivationsPerSecond float64
	DerivationBurst      int
	Logger               *slog.Logger
	Metrics              *Metrics
}

// Factory creates identities and wallets from mnemonics. It is safe for
// concurrent use.
type Factory struct {
	primitives Primitives
	wallets    WalletDeriver
	strength   int
	workers    *semaphore.Weighted
	admission  *rate.Limiter
	logger     *slog.Logger
	metrics    *Metrics
}

type CreateOptions struct {
	// Mnemonic is an existing phrase. When it and MnemonicBytes are empty a
	// new phrase is generated.
	Mnemonic      string
	MnemonicBytes []byte
	// WalletPath overrides the wallet deriver's default path.
	WalletPath string
	// Fields are merged into the identity. Setting FieldPublicKey or
	// FieldSecretKey fails with ErrInvalidInput; the derived keys are never
	// overridden.
	Fields Fields
}

type Result struct {
	Identity *Identity
	Wallet   *wallet.Wallet
}

func NewFactory(opts FactoryOptions) (*Factory, error) {
	if opts.Primitives == nil {
		opts.Primitives = crypto.Primitives{}
	}
	if opts.Wallets == nil {
		opts.Wallets = wallet.Deriver{}
	}
	if opts.MnemonicStrength == 0 {
		opts.MnemonicStrength = DefaultMnemonicStrength
	}
	if opts.MnemonicStrength%32 != 0 || opts.MnemonicStrength < 128 || opts.MnemonicStrength > 256 {
		return nil, fmt.Errorf("mnemonic strength must be a multiple of 32 in [128, 256], got %d", opts.MnemonicStrength)
	}
	if opts.MaxConcurrentDerivations < 0 || opts.DerivationsPerSecond < 0 || opts.DerivationBurst < 0 {
		return nil, errors.New("derivation limits must not be negative")
	}
	if opts.MaxConcurrentDerivations == 0 {
		opts.MaxConcurrentDerivations = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	f := &Factory{
		primitives: opts.Primitives,
		wallets:    opts.Wallets,
		strength:   opts.MnemonicStrength,
		workers:    semaphore.NewWeighted(int64(opts.MaxConcurrentDerivations)),
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}
	if opts.DerivationsPerSecond > 0 {
		burst := opts.DerivationBurst
		if burst == 0 {
			burst = 1
		}
		f.admission = rate.NewLimiter(rate.Limit(opts.DerivationsPerSecond), burst)
	}
	return f, nil
}

var defaultFactory = sync.OnceValue(func() *Factory {
	f, err := NewFactory(FactoryOptions{})
	if err != nil {
		panic(err)
	}
	return f
})

// Create runs Factory.Create on a factory with default options.
func Create(ctx context.Context, opts CreateOptions) (*Result, error) {
	return defaultFactory().Create(ctx, opts)
}

// Create validates or generates a mnemonic, derives the identity key pair
// and the wallet from it, and returns both. The same mnemonic always yields
// the same keys and wallet. Cancelling ctx abandons any derivation still
// running; no partial result is returned.
func (f *Factory) Create(ctx context.Context, opts CreateOptions) (*Result, error) {
	start := time.Now()
	res, generated, err := f.create(ctx, opts)
	f.metrics.observe(err, time.Since(start))
	if err != nil {
		f.logger.Warn("identity creation failed", "error", err)
		return nil, err
	}
	f.logger.Debug("identity created",
		"did", res.Identity.DID(),
		"address", res.Wallet.Address(),
		"generated", generated,
	)
	return res, nil
}

func (f *Factory) create(ctx context.Context, opts CreateOptions) (*Result, bool, error) {
	if err := checkCreateOptions(opts); err != nil {
		return nil, false, err
	}
	mnemonic, generated, err := f.resolveMnemonic(opts)
	if err != nil {
		return nil, false, err
	}
	if f.admission != nil {
		if err := f.admission.Wait(ctx); err != nil {
			return nil, false, fmt.Errorf("%w: %w", errCanceled, err)
		}
	}

	var (
		id *Identity
		w  *wallet.Wallet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return f.bounded(gctx, func() error {
			var err error
			id, err = f.deriveIdentity(mnemonic, opts.Fields)
			return err
		})
	})
	g.Go(func() error {
		return f.bounded(gctx, func() error {
			var err error
			w, err = f.wallets.DeriveWallet(mnemonic, opts.WalletPath)
			if err != nil {
				return fmt.Errorf("derive wallet: %w", err)
			}
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return nil, false, err
	}
	return &Result{Identity: id, Wallet: w}, generated, nil
}

func (f *Factory) resolveMnemonic(opts CreateOptions) (string, bool, error) {
	mnemonic := opts.Mnemonic
	if len(opts.MnemonicBytes) > 0 {
		fromBytes := string(opts.MnemonicBytes)
		if mnemonic != "" && NormalizeMnemonic(mnemonic) != NormalizeMnemonic(fromBytes) {
			return "", false, fmt.Errorf("%w: Mnemonic and MnemonicBytes disagree", ErrInvalidInput)
		}
		mnemonic = fromBytes
	}

	if mnemonic == "" {
		generated, err := GenerateMnemonic(f.strength)
		if err != nil {
			return "", false, fmt.Errorf("generate mnemonic: %w", err)
		}
		return generated, true, nil
	}

	mnemonic = NormalizeMnemonic(mnemonic)
	if !ValidateMnemonic(mnemonic) {
		return "", false, ErrInvalidMnemonic
	}
	return mnemonic, false, nil
}

func (f *Factory) deriveIdentity(mnemonic string, extra Fields) (*Identity, error) {
	entropy := f.primitives.Blake2b(mnemonicSeed(mnemonic))
	kp, err := f.primitives.KeyPair(entropy)
	if err != nil {
		return nil, fmt.Errorf("derive key pair: %w", err)
	}
	return FromInput(PartialFields{
		FieldPublicKey: []byte(kp.PublicKey),
		FieldSecretKey: []byte(kp.SecretKey),
	}, extra)
}

// bounded runs fn on the derivation worker pool. The slot is held until fn
// returns even when ctx ends first, so abandoned work still counts against
// the pool.
func (f *Factory) bounded(ctx context.Context, fn func() error) error {
	if err := f.workers.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %w", errCanceled, err)
	}
	done := make(chan error, 1)
	go func() {
		defer f.workers.Release(1)
		done <- fn()
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", errCanceled, ctx.Err())
	}
}

func checkCreateOptions(opts CreateOptions) error {
	for _, name := range []string{FieldPublicKey, FieldSecretKey} {
		if _, ok := opts.Fields[name]; ok {
			return fmt.Errorf("%w: options may not set %s", ErrInvalidInput, name)
		}
	}
	if opts.WalletPath != "" {
		if _, err := wallet.ParsePath(opts.WalletPath); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	return nil
}
