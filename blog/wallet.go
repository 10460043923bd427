package blog

import (
	"context"
	"errors"
	"fmt"

	"charm-dblog-tui/domain"
	"charm-dblog-tui/helpers"
	"charm-dblog-tui/wallet"

	"github.com/ethereum/go-ethereum/common"
)

// Action tells the caller what to do after a provider notification
type Action int

const (
	ActionNone Action = iota
	ActionReloadFeed
	ActionRestart
)

func (a Action) String() string {
	switch a {
	case ActionReloadFeed:
		return "reload-feed"
	case ActionRestart:
		return "restart"
	default:
		return "none"
	}
}

// Wallet manages the connection between the session and its provider
type Wallet struct {
	s *Session
}

// Connect requests account access and makes the first account active
func (w *Wallet) Connect(ctx context.Context) (common.Address, error) {
	s := w.s
	if s.provider == nil {
		s.notifier.Notify(LevelWarning, MsgNoProvider)
		return common.Address{}, domain.ErrProviderUnavailable
	}

	rctx, cancel := s.rpcContext(ctx)
	defer cancel()

	accounts, err := s.provider.RequestAccounts(rctx)
	if err == nil && len(accounts) == 0 {
		err = fmt.Errorf("%w: provider returned no accounts", domain.ErrProviderUnavailable)
	}
	if err != nil {
		s.logger.Error("Error connecting wallet", "err", err)
		switch {
		case errors.Is(err, domain.ErrUserRejected):
			s.notifier.Notify(LevelError, MsgConnectRejected)
		case errors.Is(err, domain.ErrProviderUnavailable):
			s.notifier.Notify(LevelWarning, MsgNoProvider)
		default:
			s.notifier.Notify(LevelError, MsgConnectFailed)
		}
		return common.Address{}, err
	}

	s.setAccount(accounts[0])
	w.RefreshBalance(ctx)

	s.notifier.Notify(LevelSuccess, MsgConnected)
	s.logger.Info("Connected", "account", accounts[0].Hex())
	return accounts[0], nil
}

// Disconnect forgets the active account. Provider permissions are untouched.
func (w *Wallet) Disconnect() {
	w.s.clearAccount()
	w.s.notifier.Notify(LevelInfo, MsgDisconnected)
	w.s.logger.Info("Wallet disconnected")
}

// RefreshBalance fetches the active account's balance. Failures are only
// logged; the previous value is kept.
func (w *Wallet) RefreshBalance(ctx context.Context) {
	s := w.s
	addr, ok := s.Account()
	if !ok || s.provider == nil {
		return
	}

	rctx, cancel := s.rpcContext(ctx)
	defer cancel()

	wei, err := s.provider.BalanceAt(rctx, addr)
	if err != nil {
		s.logger.Warn("Error fetching balance", "account", helpers.ShortenAddr(addr.Hex()), "err", err)
		return
	}
	// the account may have switched while the call was in flight
	if cur, ok := s.Account(); !ok || cur != addr {
		return
	}
	s.setBalance(wei)
	s.logger.Debug("Balance updated", "account", helpers.ShortenAddr(addr.Hex()), "eth", helpers.FormatEther(wei))
}

// HandleNotification applies a provider event to the session
func (w *Wallet) HandleNotification(ctx context.Context, n wallet.Notification) Action {
	s := w.s
	switch n.Kind {
	case wallet.AccountsChanged:
		if len(n.Accounts) == 0 {
			if s.Connected() {
				w.Disconnect()
			}
			return ActionNone
		}
		// a non-empty list starts a session even without an explicit connect
		cur, ok := s.Account()
		next := n.Accounts[0]
		if ok && next == cur {
			return ActionNone
		}
		s.setAccount(next)
		if ok {
			s.logger.Info("Account changed", "account", next.Hex())
			s.notifier.Notify(LevelInfo, fmt.Sprintf(MsgAccountSwitched, helpers.ShortenAddr(next.Hex())))
		} else {
			s.logger.Info("Connected by provider", "account", next.Hex())
			s.notifier.Notify(LevelSuccess, MsgConnected)
		}
		w.RefreshBalance(ctx)
		return ActionReloadFeed

	case wallet.ChainChanged:
		s.logger.Warn("Chain changed", "chainID", n.ChainID)
		s.notifier.Notify(LevelInfo, MsgNetworkChanged)
		return ActionRestart
	}
	return ActionNone
}
