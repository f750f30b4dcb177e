package portal

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

var testPortalAddr = common.HexToAddress("0x8bE8DEbF36A198d6F10841CeFF135eAAF01c14af")

// fakeBackend answers only what the portal uses. The embedded interface is
// nil, so anything else panics.
type fakeBackend struct {
	Backend

	mu       sync.Mutex
	outputs  map[string][]byte // method name -> ABI encoded return data
	parsed   abi.ABI
	head     int64
	logs     []types.Log
	sent     []*types.Transaction
	receipt  *types.Receipt
	pushLogs []types.Log // delivered through SubscribeFilterLogs when set
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(WavePortalABI))
	if err != nil {
		t.Fatalf("parse abi: %v", err)
	}
	return &fakeBackend{outputs: map[string][]byte{}, parsed: parsed, head: 10}
}

func (f *fakeBackend) setOutput(t *testing.T, method string, values ...interface{}) {
	t.Helper()
	data, err := f.parsed.Methods[method].Outputs.Pack(values...)
	if err != nil {
		t.Fatalf("pack %s: %v", method, err)
	}
	f.outputs[method] = data
}

func (f *fakeBackend) CallContract(ctx context.Context, call ethereum.CallMsg, block *big.Int) ([]byte, error) {
	for name, m := range f.parsed.Methods {
		if len(call.Data) >= 4 && string(call.Data[:4]) == string(m.ID) {
			return f.outputs[name], nil
		}
	}
	return nil, errors.New("unknown selector")
}

func (f *fakeBackend) CodeAt(ctx context.Context, account common.Address, block *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.head++
	return &types.Header{Number: big.NewInt(f.head)}, nil
}

func (f *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1e9), nil
}

func (f *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return 7, nil
}

func (f *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if f.receipt == nil {
		return nil, ethereum.NotFound
	}
	return f.receipt, nil
}

func (f *fakeBackend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.Log
	for _, l := range f.logs {
		n := new(big.Int).SetUint64(l.BlockNumber)
		if n.Cmp(q.FromBlock) >= 0 && n.Cmp(q.ToBlock) <= 0 {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeBackend) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	if f.pushLogs == nil {
		return nil, gethrpc.ErrNotificationsUnsupported
	}
	logs := f.pushLogs
	return event.NewSubscription(func(quit <-chan struct{}) error {
		for _, l := range logs {
			select {
			case ch <- l:
			case <-quit:
				return nil
			}
		}
		<-quit
		return nil
	}), nil
}

func newTestPortal(t *testing.T, backend *fakeBackend) *Portal {
	t.Helper()
	p, err := New(testPortalAddr, backend, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("new portal: %v", err)
	}
	return p
}

func newWaveLog(t *testing.T, parsed abi.ABI, from common.Address, ts int64, msg string, block uint64) types.Log {
	t.Helper()
	ev := parsed.Events[eventNewWave]
	data, err := ev.Inputs.NonIndexed().Pack(big.NewInt(ts), msg)
	if err != nil {
		t.Fatalf("pack event: %v", err)
	}
	return types.Log{
		Address:     testPortalAddr,
		Topics:      []common.Hash{ev.ID, common.BytesToHash(from.Bytes())},
		Data:        data,
		BlockNumber: block,
		TxHash:      common.BytesToHash([]byte(msg)),
	}
}

func TestAllWaves(t *testing.T) {
	backend := newFakeBackend(t)
	records := []WaveRecord{
		{Waver: common.HexToAddress("0xAA00000000000000000000000000000000000001"), Message: "example.com/x", Timestamp: big.NewInt(1650000000)},
		{Waver: common.HexToAddress("0xBB00000000000000000000000000000000000002"), Message: "http://example.com/y", Timestamp: big.NewInt(1650003600)},
	}
	backend.setOutput(t, methodGetAllWaves, records)

	waves, err := newTestPortal(t, backend).AllWaves(context.Background())
	if err != nil {
		t.Fatalf("AllWaves: %v", err)
	}
	if len(waves) != len(records) {
		t.Fatalf("expected %d waves, got %d", len(records), len(waves))
	}
	for i, w := range waves {
		r := records[i]
		if w.Address != r.Waver.Hex() {
			t.Errorf("wave %d: address %s, want %s", i, w.Address, r.Waver.Hex())
		}
		if w.Message != r.Message {
			t.Errorf("wave %d: message %q, want %q", i, w.Message, r.Message)
		}
		if w.Timestamp.UnixMilli() != r.Timestamp.Int64()*1000 {
			t.Errorf("wave %d: timestamp %d ms, want %d", i, w.Timestamp.UnixMilli(), r.Timestamp.Int64()*1000)
		}
		if w.TxHash != (common.Hash{}) {
			t.Errorf("wave %d: bulk waves carry no tx hash", i)
		}
	}
}

func TestAllWavesEmpty(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setOutput(t, methodGetAllWaves, []WaveRecord{})

	waves, err := newTestPortal(t, backend).AllWaves(context.Background())
	if err != nil {
		t.Fatalf("AllWaves: %v", err)
	}
	if len(waves) != 0 {
		t.Errorf("expected no waves, got %d", len(waves))
	}
}

func TestTotalWaves(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setOutput(t, methodGetTotalWaves, big.NewInt(42))

	total, err := newTestPortal(t, backend).TotalWaves(context.Background())
	if err != nil {
		t.Fatalf("TotalWaves: %v", err)
	}
	if total.Int64() != 42 {
		t.Errorf("expected 42, got %s", total)
	}
}

func TestWaveSendsFixedGas(t *testing.T) {
	backend := newFakeBackend(t)
	p := newTestPortal(t, backend)

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(1337))
	if err != nil {
		t.Fatal(err)
	}
	opts.GasLimit = 300000

	tx, err := p.Wave(opts, "example.com/x")
	if err != nil {
		t.Fatalf("Wave: %v", err)
	}
	if len(backend.sent) != 1 {
		t.Fatalf("expected one sent transaction, got %d", len(backend.sent))
	}
	if tx.Gas() != 300000 {
		t.Errorf("expected gas 300000, got %d", tx.Gas())
	}
	if tx.To() == nil || *tx.To() != testPortalAddr {
		t.Errorf("unexpected recipient %v", tx.To())
	}

	method := backend.parsed.Methods[methodWave]
	if string(tx.Data()[:4]) != string(method.ID) {
		t.Fatalf("calldata does not call wave")
	}
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	if err != nil {
		t.Fatalf("unpack args: %v", err)
	}
	if args[0].(string) != "example.com/x" {
		t.Errorf("unexpected message %v", args[0])
	}
}

func TestWaitMined(t *testing.T) {
	tx := types.NewTx(&types.LegacyTx{Nonce: 1, Gas: 300000, GasPrice: big.NewInt(1)})

	t.Run("success", func(t *testing.T) {
		backend := newFakeBackend(t)
		backend.receipt = &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(11), TxHash: tx.Hash()}
		receipt, err := newTestPortal(t, backend).WaitMined(context.Background(), tx)
		if err != nil {
			t.Fatalf("WaitMined: %v", err)
		}
		if receipt.BlockNumber.Int64() != 11 {
			t.Errorf("unexpected block %s", receipt.BlockNumber)
		}
	})

	t.Run("reverted", func(t *testing.T) {
		backend := newFakeBackend(t)
		backend.receipt = &types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(11)}
		if _, err := newTestPortal(t, backend).WaitMined(context.Background(), tx); err == nil {
			t.Fatal("expected error for reverted transaction")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		backend := newFakeBackend(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := newTestPortal(t, backend).WaitMined(ctx, tx); err == nil {
			t.Fatal("expected error for cancelled wait")
		}
	})
}

func TestParseNewWave(t *testing.T) {
	backend := newFakeBackend(t)
	p := newTestPortal(t, backend)
	from := common.HexToAddress("0xAA00000000000000000000000000000000000001")

	ev, err := p.ParseNewWave(newWaveLog(t, backend.parsed, from, 1650000000, "example.com/x", 12))
	if err != nil {
		t.Fatalf("ParseNewWave: %v", err)
	}
	if ev.From != from || ev.Message != "example.com/x" || ev.Timestamp.Int64() != 1650000000 {
		t.Errorf("unexpected event %+v", ev)
	}
	w := ev.Wave()
	if w.TxHash != ev.Raw.TxHash {
		t.Error("expected the tx hash to be carried over")
	}
	if !w.Timestamp.Equal(time.Unix(1650000000, 0)) {
		t.Errorf("unexpected timestamp %s", w.Timestamp)
	}
}

func receiveWave(t *testing.T, sink <-chan *NewWave) *NewWave {
	t.Helper()
	select {
	case ev := <-sink:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for NewWave")
		return nil
	}
}

func TestWatchNewWavePolling(t *testing.T) {
	backend := newFakeBackend(t)
	from := common.HexToAddress("0xAA00000000000000000000000000000000000001")
	// the head is 11 at subscription time, so only later blocks are reported
	backend.logs = []types.Log{
		newWaveLog(t, backend.parsed, from, 1, "old", 5),
		newWaveLog(t, backend.parsed, from, 2, "fresh", 13),
	}

	sink := make(chan *NewWave, 4)
	sub, err := newTestPortal(t, backend).WatchNewWave(context.Background(), sink)
	if err != nil {
		t.Fatalf("WatchNewWave: %v", err)
	}
	defer sub.Unsubscribe()

	ev := receiveWave(t, sink)
	if ev.Message != "fresh" {
		t.Errorf("expected only new logs, got %q", ev.Message)
	}
}

func TestWatchNewWavePush(t *testing.T) {
	backend := newFakeBackend(t)
	from := common.HexToAddress("0xAA00000000000000000000000000000000000001")
	removed := newWaveLog(t, backend.parsed, from, 1, "reorged", 12)
	removed.Removed = true
	backend.pushLogs = []types.Log{
		removed,
		newWaveLog(t, backend.parsed, from, 2, "kept", 13),
	}

	sink := make(chan *NewWave, 4)
	sub, err := newTestPortal(t, backend).WatchNewWave(context.Background(), sink)
	if err != nil {
		t.Fatalf("WatchNewWave: %v", err)
	}
	defer sub.Unsubscribe()

	ev := receiveWave(t, sink)
	if ev.Message != "kept" {
		t.Errorf("removed logs should be dropped, got %q", ev.Message)
	}
}
