package contract

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"charm-dblog-tui/domain"
	"charm-dblog-tui/metrics"
	"charm-dblog-tui/wallet"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// BlogPost mirrors the contract's Post struct. Field names follow the
// ABI component names so go-ethereum can convert the call output.
type BlogPost struct {
	Id        *big.Int
	Author    common.Address
	Title     string
	Content   string
	ImageHash string
	TipAmount *big.Int
	Timestamp *big.Int
}

// Signer produces signing options for an account
type Signer interface {
	TransactOpts(ctx context.Context, from common.Address) (*bind.TransactOpts, error)
}

// Gateway exposes the blog contract's read and write operations
type Gateway struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	signer   Signer
	metrics  *metrics.Recorder
}

// NewGateway binds the contract at address. backend is usually the
// ethclient; signer may be nil for a read-only gateway.
func NewGateway(address common.Address, backend bind.ContractBackend, signer Signer, rec *metrics.Recorder) (*Gateway, error) {
	parsed, err := abi.JSON(strings.NewReader(BlogABI))
	if err != nil {
		return nil, fmt.Errorf("parsing contract ABI: %w", err)
	}
	return &Gateway{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		signer:   signer,
		metrics:  rec,
	}, nil
}

// Address returns the bound contract address
func (g *Gateway) Address() common.Address {
	return g.address
}

// GetAllPosts reads every post in storage order
func (g *Gateway) GetAllPosts(ctx context.Context) (posts []domain.Post, err error) {
	defer g.observe("getAllPosts", time.Now(), &err)

	var out []interface{}
	if err := g.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getAllPosts"); err != nil {
		return nil, fmt.Errorf("%w: getAllPosts: %w", domain.ErrRead, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: getAllPosts returned no values", domain.ErrRead)
	}

	raw := *abi.ConvertType(out[0], new([]BlogPost)).(*[]BlogPost)
	posts = make([]domain.Post, 0, len(raw))
	for _, p := range raw {
		posts = append(posts, toDomain(p))
	}
	return posts, nil
}

// CreatePost submits a createPost transaction signed by from. It returns
// once the signed transaction is accepted by the node.
func (g *Gateway) CreatePost(ctx context.Context, from common.Address, title, content, imageHash string) (hash common.Hash, err error) {
	defer g.observe("createPost", time.Now(), &err)
	return g.transact(ctx, from, nil, "createPost", title, content, imageHash)
}

// TipPost submits a payable tipPost transaction transferring value wei.
func (g *Gateway) TipPost(ctx context.Context, from common.Address, postID, value *big.Int) (hash common.Hash, err error) {
	defer g.observe("tipPost", time.Now(), &err)
	return g.transact(ctx, from, value, "tipPost", postID)
}

func (g *Gateway) transact(ctx context.Context, from common.Address, value *big.Int, method string, params ...interface{}) (common.Hash, error) {
	if g.signer == nil {
		return common.Hash{}, fmt.Errorf("%w: no signer", domain.ErrProviderUnavailable)
	}
	opts, err := g.signer.TransactOpts(ctx, from)
	if err != nil {
		return common.Hash{}, wallet.Classify(err, domain.ErrTransaction)
	}
	if value != nil {
		opts.Value = value
	}

	tx, err := g.contract.Transact(opts, method, params...)
	if err != nil {
		return common.Hash{}, wallet.Classify(fmt.Errorf("%s: %w", method, err), domain.ErrTransaction)
	}
	return tx.Hash(), nil
}

func (g *Gateway) observe(method string, start time.Time, err *error) {
	if g.metrics == nil {
		return
	}
	g.metrics.ObserveContractCall(method, time.Since(start), *err)
}

func toDomain(p BlogPost) domain.Post {
	post := domain.Post{
		ID:        p.Id,
		Author:    p.Author,
		Title:     p.Title,
		Content:   p.Content,
		ImageHash: p.ImageHash,
		TipAmount: p.TipAmount,
	}
	if post.ID == nil {
		post.ID = new(big.Int)
	}
	if post.TipAmount == nil {
		post.TipAmount = new(big.Int)
	}
	if p.Timestamp != nil {
		post.Timestamp = p.Timestamp.Int64()
	}
	return post
}
