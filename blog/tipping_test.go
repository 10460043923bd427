package blog

import (
	"fmt"
	"math/big"
	"testing"

	"charm-dblog-tui/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTipping_ConfirmWithoutOpenIsNoop(t *testing.T) {
	f := newFixture(t)
	f.connect(alice)

	_, err := f.app.Tipping.Confirm(bg(), "0.01")
	assert.ErrorIs(t, err, domain.ErrNoTipTarget)
	assert.Empty(t, f.gateway.Calls)
	assert.Empty(t, f.notes.messages())
}

func TestTipping_ConfirmDisconnectedIsNoop(t *testing.T) {
	f := newFixture(t)
	f.connect(alice)
	require.NoError(t, f.app.Tipping.Open(big.NewInt(1)))
	f.app.Session.clearAccount()

	_, err := f.app.Tipping.Confirm(bg(), "0.01")
	assert.ErrorIs(t, err, domain.ErrNoTipTarget)
	assert.Empty(t, f.gateway.Calls)
}

func TestTipping_OpenRequiresWallet(t *testing.T) {
	f := newFixture(t)

	err := f.app.Tipping.Open(big.NewInt(3))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, note{LevelWarning, MsgConnectToTip}, f.notes.last())
	_, ok := f.app.Session.TipTarget()
	assert.False(t, ok)
}

func TestTipping_OpenReplacesTarget(t *testing.T) {
	f := newFixture(t)
	f.connect(alice)

	require.NoError(t, f.app.Tipping.Open(big.NewInt(1)))
	require.NoError(t, f.app.Tipping.Open(big.NewInt(2)))

	id, ok := f.app.Session.TipTarget()
	require.True(t, ok)
	assert.Equal(t, int64(2), id.Int64())

	f.app.Tipping.Cancel()
	_, ok = f.app.Session.TipTarget()
	assert.False(t, ok)
}

func TestTipping_Confirm(t *testing.T) {
	f := newFixture(t)
	f.connect(bob)
	require.NoError(t, f.app.Tipping.Open(big.NewInt(4)))

	f.gateway.On("TipPost", anyCtx, bob, bigEq(big.NewInt(4)), bigEq(eth("10000000000000000"))).
		Return(txHash, nil).Once()
	f.provider.On("BalanceAt", anyCtx, bob).Return(big.NewInt(99), nil).Once()

	res, err := f.app.Tipping.Confirm(bg(), "0.01")
	require.NoError(t, err)
	assert.Equal(t, txHash, res.TxHash)

	_, ok := f.app.Session.TipTarget()
	assert.False(t, ok)
	assert.Equal(t, big.NewInt(99), f.app.Session.Balance())
	assert.Equal(t, []string{MsgSendingTip, MsgTipSent}, f.notes.messages())
	f.gateway.AssertExpectations(t)
	f.provider.AssertExpectations(t)
}

func TestTipping_InvalidAmount(t *testing.T) {
	for _, amount := range []string{"", "0", "-1", "abc", "1e18", "0.0000000000000000001"} {
		t.Run(fmt.Sprintf("%q", amount), func(t *testing.T) {
			f := newFixture(t)
			f.connect(bob)
			require.NoError(t, f.app.Tipping.Open(big.NewInt(4)))

			_, err := f.app.Tipping.Confirm(bg(), amount)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, f.gateway.Calls)
			_, ok := f.app.Session.TipTarget()
			assert.True(t, ok)
		})
	}
}

func TestTipping_FailureKeepsDialogOpen(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rejected", fmt.Errorf("%w: denied", domain.ErrUserRejected), MsgTipRejected},
		{"failed", fmt.Errorf("%w: insufficient funds", domain.ErrTransaction), MsgTipFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.connect(bob)
			require.NoError(t, f.app.Tipping.Open(big.NewInt(4)))
			f.gateway.On("TipPost", anyCtx, bob, bigEq(big.NewInt(4)), bigEq(eth("1000000000000000000"))).
				Return(common.Hash{}, tt.err)

			_, err := f.app.Tipping.Confirm(bg(), "1")
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, note{LevelError, tt.want}, f.notes.last())

			id, ok := f.app.Session.TipTarget()
			require.True(t, ok)
			assert.Equal(t, int64(4), id.Int64())
			f.provider.AssertNotCalled(t, "BalanceAt", anyCtx, bob)
		})
	}
}

func TestTipping_SelfTipIsNotBlocked(t *testing.T) {
	f := newFixture(t)
	f.connect(alice)
	require.NoError(t, f.app.Tipping.Open(big.NewInt(0)))
	f.gateway.On("TipPost", anyCtx, alice, bigEq(big.NewInt(0)), bigEq(eth("1000000000000000"))).Return(txHash, nil)
	f.provider.On("BalanceAt", anyCtx, alice).Return(big.NewInt(1), nil)

	_, err := f.app.Tipping.Confirm(bg(), "0.001")
	require.NoError(t, err)
	f.gateway.AssertNumberOfCalls(t, "TipPost", 1)
}
