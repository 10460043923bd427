package blog

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"
)

var (
	alice = common.HexToAddress("0xAbCdEf1234567890aBcDeF1234567890AbCdEf12")
	bob   = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

type fixture struct {
	app      *App
	provider *mockProvider
	gateway  *mockGateway
	pinner   *mockPinner
	notes    *recorder
	fs       afero.Fs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		provider: &mockProvider{},
		gateway:  &mockGateway{},
		pinner:   &mockPinner{},
		notes:    &recorder{},
		fs:       afero.NewMemMapFs(),
	}
	f.app = New(Deps{
		Provider: f.provider,
		Gateway:  f.gateway,
		Pinner:   f.pinner,
		Notifier: f.notes,
		Fs:       f.fs,
	})
	return f
}

// connect makes addr the active account without going through the provider
func (f *fixture) connect(addr common.Address) {
	f.app.Session.setAccount(addr)
}

func bigEq(want *big.Int) interface{} {
	return mock.MatchedBy(func(v *big.Int) bool { return v != nil && v.Cmp(want) == 0 })
}

func eth(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad number " + s)
	}
	return v
}

var anyCtx = mock.Anything

func bg() context.Context { return context.Background() }
