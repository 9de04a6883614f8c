// Package symbols is the part of the symbol table that the back end relies
// on: static data entries and fresh ids for labels, temporaries and scopes.
package symbols

import (
	"sort"

	"github.com/pontaoski/oxide/types"
)

type StaticID uint64
type LabelID uint64
type TnID uint64
type ScopeID uint64

type StaticValue struct {
	Name     string
	DataType types.DataType
	Value    types.LiteralValue
	// Encoded is the literal's static representation.
	Encoded []byte
}

type Table struct {
	statics   map[StaticID]*StaticValue
	byName    map[string]StaticID
	nextStat  StaticID
	nextLabel LabelID
	nextTn    TnID
	nextScope ScopeID
}

func NewTable() *Table {
	return &Table{
		statics: map[StaticID]*StaticValue{},
		byName:  map[string]StaticID{},
	}
}

// AddStatic encodes value as dataType and registers it as static data.
func (t *Table) AddStatic(name string, dataType types.DataType, value types.LiteralValue) (StaticID, error) {
	encoded, err := types.Encode(value, dataType)
	if err != nil {
		return 0, err
	}
	return t.AddEncodedStatic(name, dataType, value, encoded), nil
}

// AddEncodedStatic registers static data whose bytes were produced elsewhere.
func (t *Table) AddEncodedStatic(name string, dataType types.DataType, value types.LiteralValue, encoded []byte) StaticID {
	id := t.nextStat
	t.nextStat++
	t.statics[id] = &StaticValue{
		Name:     name,
		DataType: dataType,
		Value:    value,
		Encoded:  encoded,
	}
	if name != "" {
		t.byName[name] = id
	}
	return id
}

func (t *Table) Static(id StaticID) (*StaticValue, bool) {
	v, ok := t.statics[id]
	return v, ok
}

func (t *Table) LookupStatic(name string) (StaticID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

type StaticEntry struct {
	ID StaticID
	*StaticValue
}

// Statics returns every static entry in registration order.
func (t *Table) Statics() []StaticEntry {
	entries := make([]StaticEntry, 0, len(t.statics))
	for id, v := range t.statics {
		entries = append(entries, StaticEntry{id, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries
}

func (t *Table) NewLabel() LabelID {
	id := t.nextLabel
	t.nextLabel++
	return id
}

// ReserveLabel makes sure NewLabel never hands out id.
func (t *Table) ReserveLabel(id LabelID) {
	if id >= t.nextLabel {
		t.nextLabel = id + 1
	}
}

func (t *Table) NewTn() TnID {
	id := t.nextTn
	t.nextTn++
	return id
}

// ReserveTn makes sure NewTn never hands out id.
func (t *Table) ReserveTn(id TnID) {
	if id >= t.nextTn {
		t.nextTn = id + 1
	}
}

func (t *Table) NewScope() ScopeID {
	id := t.nextScope
	t.nextScope++
	return id
}
