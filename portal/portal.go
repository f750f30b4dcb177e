// Package portal is the client side of the WavePortal contract: reads,
// the wave write, mined waits and the NewWave event feed.
package portal

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// Backend is everything the portal needs from a node connection
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Contract is the surface the UI uses; *Portal implements it
type Contract interface {
	TotalWaves(ctx context.Context) (*big.Int, error)
	AllWaves(ctx context.Context) ([]Wave, error)
	Wave(opts *bind.TransactOpts, message string) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	WatchNewWave(ctx context.Context, sink chan<- *NewWave) (event.Subscription, error)
}

// Portal is a WavePortal binding at a fixed address
type Portal struct {
	address      common.Address
	abi          abi.ABI
	contract     *bind.BoundContract
	backend      Backend
	pollInterval time.Duration
}

// New binds the WavePortal ABI at address to backend. pollInterval is used
// for the NewWave feed when the backend cannot push logs.
func New(address common.Address, backend Backend, pollInterval time.Duration) (*Portal, error) {
	parsed, err := abi.JSON(strings.NewReader(WavePortalABI))
	if err != nil {
		return nil, fmt.Errorf("parse WavePortal ABI: %w", err)
	}
	if pollInterval <= 0 {
		pollInterval = 4 * time.Second
	}
	return &Portal{
		address:      address,
		abi:          parsed,
		contract:     bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend:      backend,
		pollInterval: pollInterval,
	}, nil
}

// Address returns the contract address
func (p *Portal) Address() common.Address { return p.address }

// TotalWaves calls getTotalWaves
func (p *Portal) TotalWaves(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	if err := p.contract.Call(&bind.CallOpts{Context: ctx}, &out, methodGetTotalWaves); err != nil {
		return nil, fmt.Errorf("%s: %w", methodGetTotalWaves, err)
	}
	total := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return total, nil
}

// AllWaves calls getAllWaves and converts the records in contract order
func (p *Portal) AllWaves(ctx context.Context) ([]Wave, error) {
	var out []interface{}
	if err := p.contract.Call(&bind.CallOpts{Context: ctx}, &out, methodGetAllWaves); err != nil {
		return nil, fmt.Errorf("%s: %w", methodGetAllWaves, err)
	}
	records := *abi.ConvertType(out[0], new([]WaveRecord)).(*[]WaveRecord)

	waves := make([]Wave, 0, len(records))
	for _, r := range records {
		waves = append(waves, r.Wave())
	}
	return waves, nil
}

// Wave sends wave(message). opts must carry a signer; its GasLimit is sent as is.
func (p *Portal) Wave(opts *bind.TransactOpts, message string) (*types.Transaction, error) {
	tx, err := p.contract.Transact(opts, methodWave, message)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodWave, err)
	}
	return tx, nil
}

// WaitMined blocks until tx is mined and fails for reverted transactions
func (p *Portal) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, p.backend, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("transaction %s reverted in block %s", tx.Hash().Hex(), receipt.BlockNumber)
	}
	return receipt, nil
}

// ParseNewWave decodes a NewWave log
func (p *Portal) ParseNewWave(log types.Log) (*NewWave, error) {
	ev := new(NewWave)
	if err := p.contract.UnpackLog(ev, eventNewWave, log); err != nil {
		return nil, err
	}
	ev.Raw = log
	return ev, nil
}

// WatchNewWave streams NewWave events into sink. Transports without push
// notifications fall back to polling eth_getLogs from the current head.
func (p *Portal) WatchNewWave(ctx context.Context, sink chan<- *NewWave) (event.Subscription, error) {
	logs, sub, err := p.contract.WatchLogs(&bind.WatchOpts{Context: ctx}, eventNewWave)
	if errors.Is(err, gethrpc.ErrNotificationsUnsupported) {
		return p.pollNewWave(ctx, sink)
	}
	if err != nil {
		return nil, err
	}

	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer sub.Unsubscribe()
		for {
			select {
			case log := <-logs:
				if err := p.deliver(log, sink, quit); err != nil {
					return quietQuit(err)
				}
			case err := <-sub.Err():
				return err
			case <-quit:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}), nil
}

func (p *Portal) pollNewWave(ctx context.Context, sink chan<- *NewWave) (event.Subscription, error) {
	head, err := p.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("read head block: %w", err)
	}
	next := new(big.Int).Add(head.Number, common.Big1)
	topic := p.abi.Events[eventNewWave].ID

	return event.NewSubscription(func(quit <-chan struct{}) error {
		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}

			head, err := p.backend.HeaderByNumber(ctx, nil)
			if err != nil {
				return fmt.Errorf("read head block: %w", err)
			}
			if head.Number.Cmp(next) < 0 {
				continue
			}
			logs, err := p.backend.FilterLogs(ctx, ethereum.FilterQuery{
				FromBlock: next,
				ToBlock:   head.Number,
				Addresses: []common.Address{p.address},
				Topics:    [][]common.Hash{{topic}},
			})
			if err != nil {
				return fmt.Errorf("get logs: %w", err)
			}
			for _, log := range logs {
				if err := p.deliver(log, sink, quit); err != nil {
					return quietQuit(err)
				}
			}
			next = new(big.Int).Add(head.Number, common.Big1)
		}
	}), nil
}

// errQuit stops delivery without reporting an error
var errQuit = errors.New("quit")

func quietQuit(err error) error {
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (p *Portal) deliver(log types.Log, sink chan<- *NewWave, quit <-chan struct{}) error {
	if log.Removed {
		return nil
	}
	ev, err := p.ParseNewWave(log)
	if err != nil {
		return fmt.Errorf("unpack %s: %w", eventNewWave, err)
	}
	select {
	case sink <- ev:
		return nil
	case <-quit:
		return errQuit
	}
}
