package blog

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"charm-dblog-tui/domain"
	"charm-dblog-tui/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWallet_Connect(t *testing.T) {
	t.Run("no provider", func(t *testing.T) {
		notes := &recorder{}
		app := New(Deps{Notifier: notes})

		_, err := app.Wallet.Connect(bg())
		assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
		assert.False(t, app.Session.Connected())
		assert.Equal(t, note{LevelWarning, MsgNoProvider}, notes.last())
	})

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.provider.On("RequestAccounts", anyCtx).Return([]common.Address{alice, bob}, nil)
		f.provider.On("BalanceAt", anyCtx, alice).Return(eth("2500000000000000000"), nil)

		addr, err := f.app.Wallet.Connect(bg())
		require.NoError(t, err)
		assert.Equal(t, alice, addr)

		got, ok := f.app.Session.Account()
		assert.True(t, ok)
		assert.Equal(t, alice, got)
		assert.Equal(t, eth("2500000000000000000"), f.app.Session.Balance())
		assert.Equal(t, note{LevelSuccess, MsgConnected}, f.notes.last())
	})

	t.Run("rejected", func(t *testing.T) {
		f := newFixture(t)
		f.provider.On("RequestAccounts", anyCtx).Return(nil, fmt.Errorf("%w: bad passphrase", domain.ErrUserRejected))

		_, err := f.app.Wallet.Connect(bg())
		assert.ErrorIs(t, err, domain.ErrUserRejected)
		assert.False(t, f.app.Session.Connected())
		assert.Equal(t, note{LevelError, MsgConnectRejected}, f.notes.last())
		f.provider.AssertNotCalled(t, "BalanceAt", anyCtx, alice)
	})

	t.Run("other failure", func(t *testing.T) {
		f := newFixture(t)
		f.provider.On("RequestAccounts", anyCtx).Return(nil, errors.New("dial tcp: connection refused"))

		_, err := f.app.Wallet.Connect(bg())
		require.Error(t, err)
		assert.Equal(t, note{LevelError, MsgConnectFailed}, f.notes.last())
	})
}

func TestWallet_RefreshBalanceSoftFails(t *testing.T) {
	f := newFixture(t)
	f.connect(alice)
	f.provider.On("BalanceAt", anyCtx, alice).Return(big.NewInt(42), nil).Once()
	f.provider.On("BalanceAt", anyCtx, alice).Return(nil, errors.New("node down")).Once()

	f.app.Wallet.RefreshBalance(bg())
	assert.Equal(t, big.NewInt(42), f.app.Session.Balance())

	f.app.Wallet.RefreshBalance(bg())
	assert.Equal(t, big.NewInt(42), f.app.Session.Balance())
	assert.Empty(t, f.notes.messages())
}

func TestWallet_Disconnect(t *testing.T) {
	f := newFixture(t)
	f.connect(alice)
	require.NoError(t, f.app.Tipping.Open(big.NewInt(1)))

	f.app.Wallet.Disconnect()

	assert.False(t, f.app.Session.Connected())
	assert.Nil(t, f.app.Session.Balance())
	_, ok := f.app.Session.TipTarget()
	assert.False(t, ok)
	assert.Equal(t, note{LevelInfo, MsgDisconnected}, f.notes.last())
}

func TestWallet_HandleNotification(t *testing.T) {
	t.Run("empty account list disconnects", func(t *testing.T) {
		f := newFixture(t)
		f.connect(alice)

		action := f.app.Wallet.HandleNotification(bg(), wallet.Notification{Kind: wallet.AccountsChanged})
		assert.Equal(t, ActionNone, action)
		assert.False(t, f.app.Session.Connected())
		assert.Equal(t, "", f.app.Session.AccountHex())
		assert.Equal(t, note{LevelInfo, MsgDisconnected}, f.notes.last())
	})

	t.Run("switch account reloads feed", func(t *testing.T) {
		f := newFixture(t)
		f.connect(alice)
		f.provider.On("BalanceAt", anyCtx, bob).Return(big.NewInt(7), nil)

		action := f.app.Wallet.HandleNotification(bg(), wallet.Notification{
			Kind:     wallet.AccountsChanged,
			Accounts: []common.Address{bob, alice},
		})
		assert.Equal(t, ActionReloadFeed, action)
		addr, _ := f.app.Session.Account()
		assert.Equal(t, bob, addr)
		assert.Equal(t, big.NewInt(7), f.app.Session.Balance())
	})

	t.Run("same account is ignored", func(t *testing.T) {
		f := newFixture(t)
		f.connect(alice)

		action := f.app.Wallet.HandleNotification(bg(), wallet.Notification{
			Kind:     wallet.AccountsChanged,
			Accounts: []common.Address{alice},
		})
		assert.Equal(t, ActionNone, action)
		assert.Empty(t, f.notes.messages())
	})

	t.Run("accounts while disconnected start a session", func(t *testing.T) {
		f := newFixture(t)
		f.provider.On("BalanceAt", anyCtx, alice).Return(eth("2500000000000000000"), nil)

		action := f.app.Wallet.HandleNotification(bg(), wallet.Notification{
			Kind:     wallet.AccountsChanged,
			Accounts: []common.Address{alice},
		})
		assert.Equal(t, ActionReloadFeed, action)
		require.True(t, f.app.Session.Connected())
		addr, _ := f.app.Session.Account()
		assert.Equal(t, alice, addr)
		assert.Equal(t, eth("2500000000000000000"), f.app.Session.Balance())
		assert.Equal(t, note{LevelSuccess, MsgConnected}, f.notes.last())
		f.provider.AssertNotCalled(t, "RequestAccounts", mock.Anything)
	})

	t.Run("chain change restarts", func(t *testing.T) {
		f := newFixture(t)
		action := f.app.Wallet.HandleNotification(bg(), wallet.Notification{Kind: wallet.ChainChanged, ChainID: big.NewInt(5)})
		assert.Equal(t, ActionRestart, action)
	})
}

func TestSession_Close(t *testing.T) {
	f := newFixture(t)
	f.connect(alice)
	f.provider.On("Close").Return().Once()

	f.app.Close()
	f.app.Close()

	assert.False(t, f.app.Session.Connected())
	f.provider.AssertNumberOfCalls(t, "Close", 1)
}
