package chronicle

import (
	"bytes"
	"errors"
	"testing"

	"hunter_ai/hunter"
	"hunter_ai/session"
)

func TestWriteProducesPDF(t *testing.T) {
	h := hunter.New("Sung Jinwoo", 24)
	h.Rank = hunter.RankS
	h.Inventory = []hunter.Item{{ID: "k1", Name: "Kasaka Fang", Type: hunter.ItemWeapon, Rank: hunter.RankB}}
	h, _ = hunter.Equip(h, h.Inventory[0])
	h.AwakeningHistory = &hunter.AwakeningHistory{Date: "01/01/2026", OriginalRank: hunter.RankE}
	st := session.State{
		Hunter: &h,
		History: []session.Exchange{
			{Role: session.RoleUser, Text: "Arise"},
			{Role: session.RoleSystem, Text: "The shadows answer."},
		},
	}

	var buf bytes.Buffer
	if err := write(&buf, st, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("not a pdf: %q", out[:min(len(out), 16)])
	}
	for _, want := range []string{"Sung Jinwoo", "Kasaka Fang", "The shadows answer."} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("pdf missing %q", want)
		}
	}
}

func TestWriteCompressed(t *testing.T) {
	h := hunter.New("Jin", 20)
	var buf bytes.Buffer
	if err := Write(&buf, session.State{Hunter: &h}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("not a pdf")
	}
}

func TestWriteRequiresHunter(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, session.State{}); !errors.Is(err, session.ErrNoHunter) {
		t.Fatalf("err = %v", err)
	}
	if buf.Len() != 0 {
		t.Fatal("wrote output without a hunter")
	}
}
