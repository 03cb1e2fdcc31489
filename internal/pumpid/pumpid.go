// Package pumpid translates the input file's string-keyed pumps
// ("pump1-1", "pump2-3", ...) into a fixed enumeration addressed by
// index, per the design note in spec.md §9: dynamic string keys are
// resolved once at load time, everything downstream uses indices.
package pumpid

import "fmt"

// Class is a pump performance class.
type Class int

const (
	Small Class = iota
	Big
)

func (c Class) String() string {
	if c == Small {
		return "small"
	}
	return "big"
}

// Pump describes one of the eight fixed pumps in the fleet.
type Pump struct {
	Index int    // 0..7, stable across a run
	ID    string // "1.1", "2.3", ...
	Hall  int    // 1 or 2
	Slot  int    // 1..4 within the hall
	Class Class
}

// All is the fixed, ordered enumeration of the fleet. Index i always
// refers to All[i]; order is hall-major, slot-minor.
var All = buildFleet()

// Count is the number of pumps in the fleet.
const Count = 8

func buildFleet() []Pump {
	pumps := make([]Pump, 0, Count)
	for hall := 1; hall <= 2; hall++ {
		for slot := 1; slot <= 4; slot++ {
			class := Big
			if slot == 1 {
				class = Small
			}
			pumps = append(pumps, Pump{
				Index: len(pumps),
				ID:    fmt.Sprintf("%d.%d", hall, slot),
				Hall:  hall,
				Slot:  slot,
				Class: class,
			})
		}
	}
	return pumps
}

// ByID indexes All by the "H.I" id form.
var ByID = buildIndex()

func buildIndex() map[string]int {
	idx := make(map[string]int, Count)
	for _, p := range All {
		idx[p.ID] = p.Index
	}
	return idx
}

// InputKey returns the JSON object key the input file uses for a pump,
// e.g. "pump1-1" for id "1.1".
func (p Pump) InputKey() string {
	return fmt.Sprintf("pump%d-%d", p.Hall, p.Slot)
}

// Lookup resolves an "H.I" id to its fixed index. ok is false for an
// unrecognised id.
func Lookup(id string) (index int, ok bool) {
	i, ok := ByID[id]
	return i, ok
}

// ClassIndices returns the fleet indices belonging to a class, in
// ascending index order.
func ClassIndices(c Class) []int {
	out := make([]int, 0, Count/2)
	for _, p := range All {
		if p.Class == c {
			out = append(out, p.Index)
		}
	}
	return out
}
