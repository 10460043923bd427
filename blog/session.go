package blog

import (
	"context"
	"io"
	"math/big"
	"sync"
	"time"

	"charm-dblog-tui/domain"
	"charm-dblog-tui/wallet"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/afero"
)

// Provider is the wallet side of a session
type Provider interface {
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error)
	Notifications() <-chan wallet.Notification
	Close()
}

// Gateway reads and writes posts on the ledger
type Gateway interface {
	GetAllPosts(ctx context.Context) ([]domain.Post, error)
	CreatePost(ctx context.Context, from common.Address, title, content, imageHash string) (common.Hash, error)
	TipPost(ctx context.Context, from common.Address, postID, value *big.Int) (common.Hash, error)
}

// Pinner stores image files and resolves their public URL
type Pinner interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
	GatewayURL(hash string) string
}

// Deps are the collaborators a session is built from. Provider and
// Pinner may be nil.
type Deps struct {
	Provider      Provider
	Gateway       Gateway
	Pinner        Pinner
	Notifier      Notifier
	Logger        *log.Logger
	Fs            afero.Fs
	RPCTimeout    time.Duration
	UploadTimeout time.Duration
}

// Session is the application context: collaborator handles plus the
// active account, its balance and the pending tip target. Commands run
// on their own goroutines so every field is guarded.
type Session struct {
	provider Provider
	gateway  Gateway
	pinner   Pinner
	notifier Notifier
	logger   *log.Logger
	fs       afero.Fs

	rpcTimeout    time.Duration
	uploadTimeout time.Duration

	mu        sync.RWMutex
	account   common.Address
	connected bool
	balance   *big.Int
	tipTarget *big.Int
	closed    bool
}

func NewSession(d Deps) *Session {
	s := &Session{
		provider:      d.Provider,
		gateway:       d.Gateway,
		pinner:        d.Pinner,
		notifier:      d.Notifier,
		logger:        d.Logger,
		fs:            d.Fs,
		rpcTimeout:    d.RPCTimeout,
		uploadTimeout: d.UploadTimeout,
	}
	if s.notifier == nil {
		s.notifier = discardNotifier{}
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.rpcTimeout <= 0 {
		s.rpcTimeout = 12 * time.Second
	}
	if s.uploadTimeout <= 0 {
		s.uploadTimeout = 60 * time.Second
	}
	return s
}

// Close releases the provider and forgets all session state
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.account = common.Address{}
	s.connected = false
	s.balance = nil
	s.tipTarget = nil
	s.mu.Unlock()

	if s.provider != nil {
		s.provider.Close()
	}
}

// Notifications returns the provider's event channel, or nil without a provider
func (s *Session) Notifications() <-chan wallet.Notification {
	if s.provider == nil {
		return nil
	}
	return s.provider.Notifications()
}

func (s *Session) Account() (common.Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account, s.connected
}

// AccountHex returns the active account as hex, or "" when disconnected
func (s *Session) AccountHex() string {
	addr, ok := s.Account()
	if !ok {
		return ""
	}
	return addr.Hex()
}

func (s *Session) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *Session) setAccount(addr common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account != addr {
		s.balance = nil
	}
	s.account = addr
	s.connected = true
}

func (s *Session) clearAccount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = common.Address{}
	s.connected = false
	s.balance = nil
	s.tipTarget = nil
}

// Balance returns the last fetched balance in wei, nil if unknown
func (s *Session) Balance() *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.balance == nil {
		return nil
	}
	return new(big.Int).Set(s.balance)
}

func (s *Session) setBalance(wei *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance = new(big.Int).Set(wei)
}

// TipTarget returns the post selected for tipping
func (s *Session) TipTarget() (*big.Int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tipTarget == nil {
		return nil, false
	}
	return new(big.Int).Set(s.tipTarget), true
}

func (s *Session) setTipTarget(id *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tipTarget = new(big.Int).Set(id)
}

// ClearTipTarget cancels a pending tip
func (s *Session) ClearTipTarget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tipTarget = nil
}

func (s *Session) rpcContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.rpcTimeout)
}

// App bundles a session with its controllers
type App struct {
	Session   *Session
	Wallet    *Wallet
	Feed      *Feed
	Authoring *Authoring
	Tipping   *Tipping
}

func New(d Deps) *App {
	s := NewSession(d)
	w := &Wallet{s: s}
	return &App{
		Session:   s,
		Wallet:    w,
		Feed:      &Feed{s: s},
		Authoring: &Authoring{s: s},
		Tipping:   &Tipping{s: s, wallet: w},
	}
}

// Close tears down the session
func (a *App) Close() {
	a.Session.Close()
}
