package feed

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"waveportal-tui/portal"
)

func TestCard(t *testing.T) {
	w := portal.Wave{
		Address:   "0xAA00000000000000000000000000000000000001",
		Timestamp: time.Date(2022, time.April, 15, 12, 0, 0, 0, time.Local),
		Message:   "example.com/x",
	}

	out := Card(w, nil)
	for _, want := range []string{"example.com/x", "Sent: 4/15/2022", "From: 0xAA00000000000000000000000000000000000001"} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}

	named := Card(w, map[string]string{strings.ToLower(w.Address): "matt.eth"})
	if !strings.Contains(named, "From: matt.eth (0xAA00…0001)") {
		t.Errorf("expected ENS name in card:\n%s", named)
	}
}

func TestRender(t *testing.T) {
	if out := Render(nil, 0, nil, 60, 0); !strings.Contains(out, "No links yet.") {
		t.Errorf("expected empty state:\n%s", out)
	}

	waves := []portal.Wave{
		{Address: "0xAA", Timestamp: time.Unix(1650000000, 0), Message: "first.example"},
		{Address: "0xBB", Timestamp: time.Unix(1650003600, 0), Message: "http://second.example"},
	}
	out := Render(waves, 1, nil, 60, 0)
	first := strings.Index(out, "first.example")
	second := strings.Index(out, "second.example")
	if first < 0 || second < 0 || first > second {
		t.Errorf("expected both cards in order:\n%s", out)
	}
	if !strings.Contains(out, Header) {
		t.Errorf("missing header:\n%s", out)
	}
}

func TestRenderWindowKeepsSelection(t *testing.T) {
	var waves []portal.Wave
	for i := 0; i < 20; i++ {
		waves = append(waves, portal.Wave{
			Address:   "0xAA",
			Timestamp: time.Unix(1650000000, 0),
			Message:   fmt.Sprintf("link-%02d.example", i),
		})
	}

	out := Render(waves, 17, nil, 60, 14)
	if !strings.Contains(out, "link-17.example") {
		t.Errorf("selected card not visible:\n%s", out)
	}
	if strings.Contains(out, "link-00.example") {
		t.Errorf("expected early cards to scroll out:\n%s", out)
	}
}
