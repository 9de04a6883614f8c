package symbols

import (
	"bytes"
	"testing"

	"github.com/pontaoski/oxide/types"
)

func TestStatics(t *testing.T) {
	table := NewTable()

	a, err := table.AddStatic("answer", types.I32, types.NumericLiteral{Number: types.Int(42)})
	if err != nil {
		t.Fatal(err)
	}
	b, err := table.AddStatic("flag", types.Bool, types.BoolLiteral(true))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := table.AddStatic("big", types.U8, types.NumericLiteral{Number: types.Int(300)}); err == nil {
		t.Fatalf("300 should not be accepted as u8")
	}

	entries := table.Statics()
	if len(entries) != 2 || entries[0].ID != a || entries[1].ID != b {
		t.Fatalf("unexpected static order %v", entries)
	}
	if !bytes.Equal(entries[0].Encoded, []byte{42, 0, 0, 0}) {
		t.Fatalf("unexpected encoding %v", entries[0].Encoded)
	}

	id, ok := table.LookupStatic("flag")
	if !ok || id != b {
		t.Fatalf("lookup of flag returned %d, %v", id, ok)
	}
}

func TestFreshIDs(t *testing.T) {
	table := NewTable()
	table.ReserveLabel(4)
	if l := table.NewLabel(); l != 5 {
		t.Fatalf("expected label 5 after reserving 4, got %d", l)
	}
	table.ReserveTn(2)
	table.ReserveTn(1)
	if tn := table.NewTn(); tn != 3 {
		t.Fatalf("expected tn 3, got %d", tn)
	}
	if s1, s2 := table.NewScope(), table.NewScope(); s1 == s2 {
		t.Fatalf("scope ids must be unique")
	}
}
