package main

import (
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"charm-dblog-tui/blog"
	"charm-dblog-tui/config"
	"charm-dblog-tui/domain"
	"charm-dblog-tui/views/toast"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) *model {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dblog.json")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	m := newModel(cfg, path)
	return &m
}

func testPost(id int64) domain.Post {
	return domain.Post{
		ID:        big.NewInt(id),
		Author:    common.HexToAddress("0x00000000000000000000000000000000000000a1"),
		Title:     "post",
		Content:   "body",
		TipAmount: big.NewInt(0),
		Timestamp: id,
	}
}

func TestFeedLoaded_DropsStaleResults(t *testing.T) {
	m := newTestModel(t)
	m.app = blog.New(blog.Deps{})

	m.reloadFeed()
	m.reloadFeed()
	require.Equal(t, 2, m.feedSeq)

	m.Update(feedLoadedMsg{seq: 1, res: blog.FeedResult{State: blog.FeedReady, Posts: []domain.Post{testPost(1)}}})
	assert.Empty(t, m.posts, "an older request must not overwrite the feed")
	assert.True(t, m.feed.Loading)

	m.Update(feedLoadedMsg{seq: 2, res: blog.FeedResult{State: blog.FeedReady, Posts: []domain.Post{testPost(2), testPost(1)}}})
	assert.Len(t, m.posts, 2)
	assert.False(t, m.feed.Loading)
	assert.True(t, m.feed.Loaded)
}

func TestFeedLoaded_ClampsSelection(t *testing.T) {
	m := newTestModel(t)
	m.app = blog.New(blog.Deps{})
	m.feed.Selected = 5
	m.feed.Expanded = true

	m.reloadFeed()
	m.Update(feedLoadedMsg{seq: m.feedSeq, res: blog.FeedResult{State: blog.FeedEmpty}})
	assert.Equal(t, 0, m.feed.Selected)
	assert.False(t, m.feed.Expanded)
}

func TestSessionReady_IgnoresOldGeneration(t *testing.T) {
	m := newTestModel(t)
	old := blog.New(blog.Deps{})
	m.app = old

	m.restart()
	assert.Equal(t, 1, m.gen)
	assert.Nil(t, m.app)

	m.Update(sessionReadyMsg{app: blog.New(blog.Deps{}), gen: 0})
	assert.Nil(t, m.app, "a session built before the restart must be discarded")

	fresh := blog.New(blog.Deps{})
	m.Update(sessionReadyMsg{app: fresh, gen: 1})
	assert.Same(t, fresh, m.app)
	assert.Equal(t, 1, m.feedSeq, "a new session loads the feed")
}

func TestToastLifecycle(t *testing.T) {
	m := newTestModel(t)

	m.Update(toast.Msg{Toast: toast.Toast{ID: "a", Level: blog.LevelSuccess, Message: "Post created successfully!"}})
	m.Update(toast.Msg{Toast: toast.Toast{ID: "b", Level: blog.LevelInfo, Message: "Sending tip..."}})
	require.Len(t, m.toastList, 2)

	m.Update(toast.ExpiredMsg{ID: "a"})
	require.Len(t, m.toastList, 1)
	assert.Equal(t, "b", m.toastList[0].ID)
}

func TestFeedState_EmptyCallToActionFollowsConnection(t *testing.T) {
	m := newTestModel(t)
	m.app = blog.New(blog.Deps{})
	m.feed.Loaded = true
	m.feed.Result = blog.FeedEmpty
	m.feed.Empty = blog.EmptyActionCreatePost

	assert.Equal(t, blog.EmptyActionConnectWallet, m.feedState().Empty)
}

func TestClipboardFlash(t *testing.T) {
	m := newTestModel(t)

	m.Update(clipboardCopiedMsg{what: "author address"})
	assert.Equal(t, "✓ Copied author address to clipboard", m.feed.Flash)

	// a newer copy keeps the message up
	m.Update(clearFlashMsg{})
	assert.NotEmpty(t, m.feed.Flash)

	m.flashTime = time.Now().Add(-3 * time.Second)
	m.Update(clearFlashMsg{})
	assert.Empty(t, m.feed.Flash)
}

func TestToggleLogger_SavesConfig(t *testing.T) {
	m := newTestModel(t)
	require.False(t, m.logEnabled)

	m.toggleLogger()
	assert.True(t, m.logEnabled)

	cfg, err := config.Load(m.configPath)
	require.NoError(t, err)
	assert.True(t, cfg.Logger)

	m.toggleLogger()
	cfg, err = config.Load(m.configPath)
	require.NoError(t, err)
	assert.False(t, cfg.Logger)
}

func TestTipFailureKeepsDialog(t *testing.T) {
	m := newTestModel(t)
	m.app = blog.New(blog.Deps{})
	m.showTipDialog = true
	m.tipSending = true

	m.Update(tipSentMsg{err: domain.ErrUserRejected})
	assert.True(t, m.showTipDialog)
	assert.False(t, m.tipSending)
	assert.NotNil(t, m.tipForm)

	m.Update(tipSentMsg{err: domain.ErrNoTipTarget})
	assert.False(t, m.showTipDialog)
}
