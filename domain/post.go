package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Post is a blog post as stored by the contract.
// Only TipAmount ever changes after creation, and only on-chain.
type Post struct {
	ID        *big.Int
	Author    common.Address
	Title     string
	Content   string
	ImageHash string
	TipAmount *big.Int // wei
	Timestamp int64    // unix seconds
}

// CreatedAt returns the post timestamp as local time.
func (p Post) CreatedAt() time.Time {
	return time.Unix(p.Timestamp, 0)
}

// HasImage reports whether the post references a pinned image.
func (p Post) HasImage() bool {
	return p.ImageHash != ""
}
