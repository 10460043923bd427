package blog

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"charm-dblog-tui/domain"
	"charm-dblog-tui/helpers"
)

// Tipping sends value to post authors through the contract
type Tipping struct {
	s      *Session
	wallet *Wallet
}

// Open selects postID as the tip target, replacing any earlier one
func (t *Tipping) Open(postID *big.Int) error {
	s := t.s
	if !s.Connected() {
		s.notifier.Notify(LevelWarning, MsgConnectToTip)
		return fmt.Errorf("%w: wallet not connected", domain.ErrValidation)
	}
	if postID == nil {
		return fmt.Errorf("%w: no post selected", domain.ErrValidation)
	}
	s.setTipTarget(postID)
	s.logger.Debug("Tip target selected", "post", postID)
	return nil
}

// Cancel drops the pending target
func (t *Tipping) Cancel() {
	t.s.ClearTipTarget()
}

// Confirm tips the pending target amountEther ether. Without an account
// or a target nothing is sent. On failure the target is kept so the
// user can retry.
func (t *Tipping) Confirm(ctx context.Context, amountEther string) (Result, error) {
	s := t.s
	from, connected := s.Account()
	postID, ok := s.TipTarget()
	if !connected || !ok {
		return Result{}, domain.ErrNoTipTarget
	}

	wei, err := helpers.ParseEther(amountEther)
	if err != nil {
		s.notifier.Notify(LevelWarning, MsgInvalidTip)
		return Result{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if s.gateway == nil {
		err := fmt.Errorf("%w: blockchain connection not available", domain.ErrTransaction)
		s.logger.Error("Error sending tip", "err", err)
		s.notifier.Notify(LevelError, MsgTipFailed)
		return Result{}, err
	}

	s.notifier.Notify(LevelInfo, MsgSendingTip)

	rctx, cancel := s.rpcContext(ctx)
	defer cancel()

	tx, err := s.gateway.TipPost(rctx, from, postID, wei)
	if err != nil {
		s.logger.Error("Error sending tip", "post", postID, "err", err)
		if errors.Is(err, domain.ErrUserRejected) {
			s.notifier.Notify(LevelError, MsgTipRejected)
		} else {
			s.notifier.Notify(LevelError, MsgTipFailed)
		}
		return Result{}, err
	}

	s.ClearTipTarget()
	t.wallet.RefreshBalance(ctx)
	s.notifier.Notify(LevelSuccess, MsgTipSent)
	s.logger.Info("Tip sent", "post", postID, "eth", helpers.FormatEther(wei), "tx", tx.Hex())
	return Result{TxHash: tx}, nil
}
