package main

import (
	"charm-dblog-tui/blog"
	"charm-dblog-tui/rpc"
	"charm-dblog-tui/wallet"

	"github.com/ethereum/go-ethereum/common"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}

// rpcConnectedMsg contains result of RPC connection attempt
type rpcConnectedMsg struct {
	client *rpc.Client
	gen    int
	err    error
}

// sessionReadyMsg carries a freshly built session. provider is nil when
// no keystore could be opened.
type sessionReadyMsg struct {
	app      *blog.App
	provider *wallet.Provider
	gen      int
	err      error
}

// notificationMsg is a provider event for the session of generation gen
type notificationMsg struct {
	n   wallet.Notification
	gen int
}

// notificationHandledMsg reports what the session wants done after an event
type notificationHandledMsg struct {
	action blog.Action
	gen    int
}

// walletConnectedMsg contains the result of a connect request
type walletConnectedMsg struct {
	addr common.Address
	err  error
}

// feedLoadedMsg carries the result of feed load number seq
type feedLoadedMsg struct {
	seq int
	res blog.FeedResult
}

// postSubmittedMsg contains the result of publishing a post
type postSubmittedMsg struct {
	res blog.Result
	err error
}

// tipSentMsg contains the result of a tip
type tipSentMsg struct {
	res blog.Result
	err error
}

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct {
	what string
	err  error
}

// clearFlashMsg clears the copy feedback line
type clearFlashMsg struct{}

// metricsStoppedMsg reports that the metrics endpoint exited
type metricsStoppedMsg struct {
	err error
}
