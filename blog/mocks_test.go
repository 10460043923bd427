package blog

import (
	"context"
	"io"
	"math/big"
	"sync"

	"charm-dblog-tui/domain"
	"charm-dblog-tui/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
)

type mockProvider struct {
	mock.Mock
	notes chan wallet.Notification
}

func (m *mockProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	args := m.Called(ctx)
	accs, _ := args.Get(0).([]common.Address)
	return accs, args.Error(1)
}

func (m *mockProvider) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	args := m.Called(ctx, addr)
	wei, _ := args.Get(0).(*big.Int)
	return wei, args.Error(1)
}

func (m *mockProvider) Notifications() <-chan wallet.Notification {
	return m.notes
}

func (m *mockProvider) Close() {
	m.Called()
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) GetAllPosts(ctx context.Context) ([]domain.Post, error) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]domain.Post)
	return posts, args.Error(1)
}

func (m *mockGateway) CreatePost(ctx context.Context, from common.Address, title, content, imageHash string) (common.Hash, error) {
	args := m.Called(ctx, from, title, content, imageHash)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *mockGateway) TipPost(ctx context.Context, from common.Address, postID, value *big.Int) (common.Hash, error) {
	args := m.Called(ctx, from, postID, value)
	return args.Get(0).(common.Hash), args.Error(1)
}

type mockPinner struct {
	mock.Mock
}

func (m *mockPinner) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, name, data)
	return args.String(0), args.Error(1)
}

func (m *mockPinner) GatewayURL(hash string) string {
	return "https://gateway.test/ipfs/" + hash
}

type note struct {
	Level   Level
	Message string
}

// recorder collects notifications in order
type recorder struct {
	mu    sync.Mutex
	notes []note
}

func (r *recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{level, message})
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, n.Message)
	}
	return out
}

func (r *recorder) last() note {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return note{}
	}
	return r.notes[len(r.notes)-1]
}
