package blog

import (
	"fmt"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"charm-dblog-tui/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func post(id int64, author common.Address, ts int64) domain.Post {
	return domain.Post{
		ID:        big.NewInt(id),
		Author:    author,
		Title:     fmt.Sprintf("post %d", id),
		Content:   "line one\nline two",
		TipAmount: new(big.Int),
		Timestamp: ts,
	}
}

func TestFeed_LoadSortsNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.gateway.On("GetAllPosts", anyCtx).Return([]domain.Post{
		post(0, alice, 500),
		post(1, bob, 900),
		post(2, alice, 100),
		post(3, bob, 900),
		post(4, alice, 700),
	}, nil)

	res := f.app.Feed.Load(bg())
	require.Equal(t, FeedReady, res.State)
	require.NoError(t, res.Err)
	require.Len(t, res.Posts, 5)

	for i := 1; i < len(res.Posts); i++ {
		assert.GreaterOrEqual(t, res.Posts[i-1].Timestamp, res.Posts[i].Timestamp)
	}
	ids := make([]int64, 0, len(res.Posts))
	for _, p := range res.Posts {
		ids = append(ids, p.ID.Int64())
	}
	// equal timestamps keep storage order
	assert.Equal(t, []int64{1, 3, 4, 0, 2}, ids)
	assert.False(t, f.app.Feed.Loading())
}

func TestFeed_EmptyStateCallToAction(t *testing.T) {
	t.Run("disconnected offers connect wallet", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.On("GetAllPosts", anyCtx).Return([]domain.Post{}, nil)

		res := f.app.Feed.Load(bg())
		assert.Equal(t, FeedEmpty, res.State)
		assert.Equal(t, EmptyActionConnectWallet, res.Empty)
	})

	t.Run("connected offers create post", func(t *testing.T) {
		f := newFixture(t)
		f.connect(alice)
		f.gateway.On("GetAllPosts", anyCtx).Return(nil, nil)

		res := f.app.Feed.Load(bg())
		assert.Equal(t, FeedEmpty, res.State)
		assert.Equal(t, EmptyActionCreatePost, res.Empty)
	})
}

func TestFeed_LoadError(t *testing.T) {
	f := newFixture(t)
	f.gateway.On("GetAllPosts", anyCtx).Return(nil, fmt.Errorf("%w: node unreachable", domain.ErrRead))

	res := f.app.Feed.Load(bg())
	assert.Equal(t, FeedError, res.State)
	assert.ErrorIs(t, res.Err, domain.ErrRead)
	assert.Empty(t, res.Posts)
	assert.False(t, f.app.Feed.Loading())
	assert.Equal(t, note{LevelError, MsgLoadFailed}, f.notes.last())
}

func TestFeed_NoGateway(t *testing.T) {
	app := New(Deps{})
	res := app.Feed.Load(bg())
	assert.Equal(t, FeedError, res.State)
	assert.Error(t, res.Err)
}

func TestFeed_LoadingFlagAndCoalescing(t *testing.T) {
	f := newFixture(t)
	started := make(chan struct{})
	release := make(chan struct{})
	f.gateway.On("GetAllPosts", anyCtx).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return([]domain.Post{post(0, alice, 1)}, nil).Once()

	var wg sync.WaitGroup
	results := make([]FeedResult, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = f.app.Feed.Load(bg())
	}()

	<-started
	assert.True(t, f.app.Feed.Loading())

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1] = f.app.Feed.Load(bg())
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.False(t, f.app.Feed.Loading())
	f.gateway.AssertNumberOfCalls(t, "GetAllPosts", 1)
	for _, res := range results {
		assert.Equal(t, FeedReady, res.State)
		assert.Len(t, res.Posts, 1)
	}
}

func TestFeed_Render(t *testing.T) {
	f := newFixture(t)

	p := post(7, alice, time.Now().Add(-3*time.Hour).Unix())
	p.TipAmount = eth("2500000000000000000")
	p.ImageHash = "QmdfTbBqBPQ7VNxZEYEj14VmRuZBkqFbiwReogJgS1zR1n"

	t.Run("author sees no tip control", func(t *testing.T) {
		v := f.app.Feed.Render(p, strings.ToLower(alice.Hex()))
		assert.True(t, v.IsAuthor)
		assert.False(t, v.Tippable)
	})

	t.Run("other viewers can tip", func(t *testing.T) {
		v := f.app.Feed.Render(p, bob.Hex())
		assert.False(t, v.IsAuthor)
		assert.True(t, v.Tippable)
	})

	t.Run("disconnected viewer can tip", func(t *testing.T) {
		v := f.app.Feed.Render(p, "")
		assert.False(t, v.IsAuthor)
		assert.True(t, v.Tippable)
	})

	t.Run("display fields", func(t *testing.T) {
		v := f.app.Feed.Render(p, "")
		h := alice.Hex()
		assert.Equal(t, h[:6]+"..."+h[len(h)-4:], v.AuthorShort)
		assert.Equal(t, "2.5000", v.TipDisplay)
		assert.Equal(t, "https://gateway.test/ipfs/"+p.ImageHash, v.ImageURL)
		assert.Equal(t, "3 hours ago", v.Age)
		assert.NotEmpty(t, v.Date)
	})

	t.Run("no image", func(t *testing.T) {
		q := post(8, bob, 1)
		v := f.app.Feed.Render(q, "")
		assert.Empty(t, v.ImageURL)
		assert.Equal(t, "0.0000", v.TipDisplay)
	})
}

func TestFeed_RenderAllUsesActiveAccount(t *testing.T) {
	f := newFixture(t)
	f.connect(bob)

	views := f.app.Feed.RenderAll([]domain.Post{post(0, alice, 2), post(1, bob, 1)})
	require.Len(t, views, 2)
	assert.True(t, views[0].Tippable)
	assert.False(t, views[1].Tippable)
}

func TestSortNewestFirst_Property(t *testing.T) {
	sets := [][]int64{
		{},
		{1},
		{3, 1, 2},
		{5, 5, 5},
		{1, 2, 3, 4, 5, 6},
		{10, 0, 10, 3, 9999999999, 42},
	}
	for _, set := range sets {
		posts := make([]domain.Post, 0, len(set))
		for i, ts := range set {
			posts = append(posts, post(int64(i), alice, ts))
		}
		SortNewestFirst(posts)
		for i := 1; i < len(posts); i++ {
			if posts[i-1].Timestamp < posts[i].Timestamp {
				t.Errorf("set %v: order broken at %d", set, i)
			}
		}
	}
}
