package portal

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Wave is one message sent to the portal. Waves are immutable once received.
type Wave struct {
	Address   string
	Timestamp time.Time
	Message   string
	TxHash    common.Hash // zero for waves read in bulk
}

// Key identifies a wave independently of how it was delivered
func (w Wave) Key() string {
	return fmt.Sprintf("%s/%d/%s", strings.ToLower(w.Address), w.Timestamp.Unix(), w.Message)
}

// WaveRecord mirrors the WavePortal.Wave struct returned by getAllWaves
type WaveRecord struct {
	Waver     common.Address
	Message   string
	Timestamp *big.Int
}

// NewWave is the decoded NewWave event
type NewWave struct {
	From      common.Address
	Timestamp *big.Int
	Message   string
	Raw       types.Log
}

// chainTime converts on-chain unix seconds to a time scaled through milliseconds
func chainTime(seconds *big.Int) time.Time {
	if seconds == nil {
		return time.Time{}
	}
	return time.UnixMilli(seconds.Int64() * 1000)
}

// Wave converts a bulk record into a Wave
func (r WaveRecord) Wave() Wave {
	return Wave{
		Address:   r.Waver.Hex(),
		Timestamp: chainTime(r.Timestamp),
		Message:   r.Message,
	}
}

// Wave converts a live event into a Wave
func (e *NewWave) Wave() Wave {
	return Wave{
		Address:   e.From.Hex(),
		Timestamp: chainTime(e.Timestamp),
		Message:   e.Message,
		TxHash:    e.Raw.TxHash,
	}
}
