package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"charm-dblog-tui/domain"
	"charm-dblog-tui/rpc"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
)

// NotificationKind distinguishes provider notifications
type NotificationKind int

const (
	// AccountsChanged carries the provider's current account list.
	AccountsChanged NotificationKind = iota
	// ChainChanged carries the new chain ID.
	ChainChanged
)

func (k NotificationKind) String() string {
	switch k {
	case AccountsChanged:
		return "accountsChanged"
	case ChainChanged:
		return "chainChanged"
	default:
		return "unknown"
	}
}

// Notification is an asynchronous event reported by the provider
type Notification struct {
	Kind     NotificationKind
	Accounts []common.Address
	ChainID  *big.Int
}

// Provider mediates account access and transaction signing using a
// go-ethereum keystore directory and a JSON-RPC node.
type Provider struct {
	client     *rpc.Client
	ks         *keystore.KeyStore
	passphrase string

	watcher *rpc.ChainWatcher
	notes   chan Notification
	sub     event.Subscription

	mu       sync.Mutex
	unlocked map[common.Address]bool
	closed   bool
	quit     chan struct{}
}

// Options configures a Provider
type Options struct {
	KeystoreDir string
	Passphrase  string
	Watcher     *rpc.ChainWatcher
}

// Open creates a provider over an existing keystore directory. A missing
// directory or a missing RPC client means no provider is available.
func Open(client *rpc.Client, opts Options) (*Provider, error) {
	if client == nil || client.Client == nil {
		return nil, fmt.Errorf("%w: no RPC connection", domain.ErrProviderUnavailable)
	}
	if opts.KeystoreDir == "" {
		return nil, fmt.Errorf("%w: no keystore configured", domain.ErrProviderUnavailable)
	}
	if fi, err := os.Stat(opts.KeystoreDir); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: keystore %s not found", domain.ErrProviderUnavailable, opts.KeystoreDir)
	}

	p := &Provider{
		client:     client,
		ks:         keystore.NewKeyStore(opts.KeystoreDir, keystore.StandardScryptN, keystore.StandardScryptP),
		passphrase: opts.Passphrase,
		watcher:    opts.Watcher,
		notes:      make(chan Notification, 8),
		unlocked:   make(map[common.Address]bool),
		quit:       make(chan struct{}),
	}
	p.start()
	return p, nil
}

func (p *Provider) start() {
	events := make(chan accounts.WalletEvent, 8)
	p.sub = p.ks.Subscribe(events)

	go func() {
		for {
			select {
			case ev := <-events:
				if ev.Kind == accounts.WalletArrived || ev.Kind == accounts.WalletDropped {
					p.emit(Notification{Kind: AccountsChanged, Accounts: p.addresses()})
				}
			case <-p.sub.Err():
				return
			case <-p.quit:
				return
			}
		}
	}()

	if p.watcher != nil {
		go p.watcher.Run(func(id *big.Int) {
			p.emit(Notification{Kind: ChainChanged, ChainID: id})
		})
	}
}

func (p *Provider) emit(n Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.notes <- n:
	default:
		// Drop when nobody is listening; the next event carries fresh state.
	}
}

func (p *Provider) addresses() []common.Address {
	accs := p.ks.Accounts()
	out := make([]common.Address, 0, len(accs))
	for _, a := range accs {
		out = append(out, a.Address)
	}
	return out
}

// Notifications delivers accountsChanged / chainChanged events
func (p *Provider) Notifications() <-chan Notification {
	return p.notes
}

// RequestAccounts returns the keystore accounts after unlocking the first
// one with the configured passphrase.
func (p *Provider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	addrs := p.addresses()
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: keystore holds no accounts", domain.ErrProviderUnavailable)
	}
	if err := p.Unlock(addrs[0], p.passphrase); err != nil {
		return nil, err
	}
	return addrs, nil
}

// Unlock unlocks an account until the provider is closed. A wrong
// passphrase counts as the user declining access.
func (p *Provider) Unlock(addr common.Address, passphrase string) error {
	p.mu.Lock()
	done := p.unlocked[addr]
	p.mu.Unlock()
	if done {
		return nil
	}

	if err := p.ks.Unlock(accounts.Account{Address: addr}, passphrase); err != nil {
		return Classify(err, domain.ErrProviderUnavailable)
	}

	p.mu.Lock()
	p.unlocked[addr] = true
	p.mu.Unlock()
	return nil
}

// SetPassphrase replaces the passphrase used by RequestAccounts
func (p *Provider) SetPassphrase(passphrase string) {
	p.mu.Lock()
	p.passphrase = passphrase
	p.mu.Unlock()
}

// BalanceAt returns the latest balance of addr in wei
func (p *Provider) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	return p.client.Balance(ctx, addr)
}

// TransactOpts returns keystore-backed signing options for from
func (p *Provider) TransactOpts(ctx context.Context, from common.Address) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyStoreTransactorWithChainID(p.ks, accounts.Account{Address: from}, p.client.ChainID)
	if err != nil {
		return nil, Classify(err, domain.ErrTransaction)
	}
	opts.Context = ctx
	return opts, nil
}

// Close stops the notification sources and closes the notification channel
func (p *Provider) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.quit)
	close(p.notes)
	unlocked := make([]common.Address, 0, len(p.unlocked))
	for addr := range p.unlocked {
		unlocked = append(unlocked, addr)
	}
	p.unlocked = make(map[common.Address]bool)
	p.mu.Unlock()

	if p.sub != nil {
		p.sub.Unsubscribe()
	}
	if p.watcher != nil {
		p.watcher.Stop()
	}
	for _, addr := range unlocked {
		_ = p.ks.Lock(addr)
	}
}

// rejectedCode is the EIP-1193 "user rejected request" code.
const rejectedCode = 4001

// Classify maps provider errors onto the domain taxonomy. Rejections are
// detected by error code 4001, an external signer denying the request, a
// wrong passphrase, or a locked account. Everything else becomes fallback.
func Classify(err error, fallback error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUserRejected) || errors.Is(err, domain.ErrTransaction) ||
		errors.Is(err, domain.ErrProviderUnavailable) || errors.Is(err, domain.ErrRead) {
		return err
	}
	if IsRejection(err) {
		return fmt.Errorf("%w: %w", domain.ErrUserRejected, err)
	}
	return fmt.Errorf("%w: %w", fallback, err)
}

// IsRejection reports whether err means the user declined the request
func IsRejection(err error) bool {
	var coded interface{ ErrorCode() int }
	if errors.As(err, &coded) && coded.ErrorCode() == rejectedCode {
		return true
	}
	if errors.Is(err, keystore.ErrDecrypt) || errors.Is(err, keystore.ErrLocked) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "request denied")
}
