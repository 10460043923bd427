package blog

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"charm-dblog-tui/domain"
	"charm-dblog-tui/helpers"
	"charm-dblog-tui/pinning"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/singleflight"
)

type FeedState int

const (
	FeedReady FeedState = iota
	FeedEmpty
	FeedError
)

// EmptyAction is the call to action offered by an empty feed
type EmptyAction int

const (
	EmptyActionNone EmptyAction = iota
	EmptyActionCreatePost
	EmptyActionConnectWallet
)

// FeedResult is the outcome of one feed load
type FeedResult struct {
	State    FeedState
	Posts    []domain.Post
	Empty    EmptyAction
	Err      error
	LoadedAt time.Time
}

// PostView is a post prepared for display to a given viewer
type PostView struct {
	Post        domain.Post
	IsAuthor    bool
	AuthorShort string
	Tippable    bool
	TipDisplay  string
	ImageURL    string
	Date        string
	Age         string
}

// Feed loads and renders the post list
type Feed struct {
	s       *Session
	group   singleflight.Group
	loading atomic.Bool
}

// Loading reports whether a read is in flight
func (f *Feed) Loading() bool {
	return f.loading.Load()
}

// Load reads every post and sorts them newest first. Concurrent loads
// share a single read.
func (f *Feed) Load(ctx context.Context) FeedResult {
	s := f.s
	v, err, shared := f.group.Do("posts", func() (interface{}, error) {
		f.loading.Store(true)
		defer f.loading.Store(false)

		if s.gateway == nil {
			return nil, errors.New("blockchain connection not available")
		}
		rctx, cancel := s.rpcContext(ctx)
		defer cancel()

		posts, err := s.gateway.GetAllPosts(rctx)
		if err != nil {
			return nil, err
		}
		SortNewestFirst(posts)
		return posts, nil
	})
	if shared {
		s.logger.Debug("Feed load coalesced")
	}

	res := FeedResult{LoadedAt: time.Now()}
	if err != nil {
		s.logger.Error("Error loading posts", "err", err)
		if !shared {
			s.notifier.Notify(LevelError, MsgLoadFailed)
		}
		res.State = FeedError
		res.Err = err
		return res
	}

	posts := v.([]domain.Post)
	if len(posts) == 0 {
		res.State = FeedEmpty
		if s.Connected() {
			res.Empty = EmptyActionCreatePost
		} else {
			res.Empty = EmptyActionConnectWallet
		}
		return res
	}

	res.State = FeedReady
	res.Posts = append([]domain.Post(nil), posts...)
	s.logger.Info("Posts loaded", "count", len(posts))
	return res
}

// SortNewestFirst orders posts by descending timestamp; ties keep their
// storage order.
func SortNewestFirst(posts []domain.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp > posts[j].Timestamp
	})
}

// Render prepares a post for the viewer, an account hex or "" when
// disconnected. The tip control is hidden only for the author; the
// contract itself does not prevent self-tips.
func (f *Feed) Render(post domain.Post, viewer string) PostView {
	author := post.Author.Hex()
	isAuthor := helpers.SameAddress(author, viewer)

	view := PostView{
		Post:        post,
		IsAuthor:    isAuthor,
		AuthorShort: helpers.ShortenAddr(author),
		Tippable:    !isAuthor,
		TipDisplay:  helpers.FormatEther(post.TipAmount),
	}
	if post.HasImage() {
		if f.s.pinner != nil {
			view.ImageURL = f.s.pinner.GatewayURL(post.ImageHash)
		} else {
			view.ImageURL = pinning.GatewayURL("", post.ImageHash)
		}
	}
	if post.Timestamp > 0 {
		created := post.CreatedAt()
		view.Date = created.Local().Format("Jan 2, 2006")
		view.Age = humanize.Time(created)
	}
	return view
}

// RenderAll renders posts for the session's active account
func (f *Feed) RenderAll(posts []domain.Post) []PostView {
	viewer := f.s.AccountHex()
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, f.Render(p, viewer))
	}
	return out
}
