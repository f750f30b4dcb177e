package portal

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func wave(addr string, secs int64, msg string) Wave {
	return Wave{Address: addr, Timestamp: time.UnixMilli(secs * 1000), Message: msg}
}

func TestFeedReplaceKeepsOrder(t *testing.T) {
	var f Feed
	f.Append(wave("0xAA", 1, "stale"))

	bulk := []Wave{wave("0xBB", 3, "b"), wave("0xAA", 2, "a")}
	f.Replace(bulk)

	if f.Len() != 2 {
		t.Fatalf("expected 2 waves, got %d", f.Len())
	}
	if f.At(0).Message != "b" || f.At(1).Message != "a" {
		t.Errorf("order not preserved: %+v", f.Waves())
	}

	bulk[0].Message = "mutated"
	if f.At(0).Message != "b" {
		t.Error("feed must not alias the caller's slice")
	}
}

func TestFeedAppend(t *testing.T) {
	var f Feed
	f.Replace([]Wave{wave("0xAA", 1, "first"), wave("0xBB", 2, "second")})

	live := wave("0xCC", 3, "third")
	live.TxHash = common.HexToHash("0x01")
	if !f.Append(live) {
		t.Fatal("expected new wave to be appended")
	}
	if f.Len() != 3 {
		t.Fatalf("expected 3 waves, got %d", f.Len())
	}
	got := f.Waves()
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Message != want {
			t.Errorf("wave %d: got %q, want %q", i, got[i].Message, want)
		}
	}
}

func TestFeedDropsDuplicates(t *testing.T) {
	var f Feed
	f.Replace([]Wave{wave("0xaa", 1, "hello")})

	// the event for a wave the bulk load already returned
	dup := wave("0xAA", 1, "hello")
	dup.TxHash = common.HexToHash("0x02")
	if f.Append(dup) {
		t.Error("live duplicate of a bulk wave should be dropped")
	}

	next := wave("0xAA", 5, "again")
	if !f.Append(next) || f.Append(next) {
		t.Error("second delivery of the same event should be dropped")
	}
	if f.Len() != 2 {
		t.Errorf("expected 2 waves, got %d", f.Len())
	}
}

func TestWaveKey(t *testing.T) {
	a := wave("0xAbC", 10, "x")
	b := wave("0xabc", 10, "x")
	if a.Key() != b.Key() {
		t.Error("key should ignore address case")
	}
	if a.Key() == wave("0xabc", 11, "x").Key() {
		t.Error("key should include the timestamp")
	}
}
