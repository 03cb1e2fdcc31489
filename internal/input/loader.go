// Package input parses, validates, and trims the horizon of the
// optimiser's input file (spec.md §6). It translates the input's
// dynamic "pumpH-I" keys into the fixed enumeration of
// internal/pumpid at load time, per the design note in spec.md §9.
package input

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"pumpsched/internal/pumpid"
	"pumpsched/pkg/apperror"
)

// rawPumpState mirrors the input file's pump object.
type rawPumpState struct {
	On           bool `json:"on"`
	Locked       int  `json:"locked"`
	TotalMinutes int  `json:"totalMinutes"`
}

// rawItem mirrors one element of the input file's "items" array.
type rawItem struct {
	Date             string  `json:"date"`
	WaterInflow      float64 `json:"waterInflow"`
	ElectricityPrice float64 `json:"electricityPrice"`
}

// rawDocument mirrors the whole input file.
type rawDocument struct {
	InitialWaterLevel           float64                  `json:"initialWaterLevel"`
	UnderThresholdWithinMinutes *float64                 `json:"underThresholdWithinMinutes"`
	Items                       []rawItem                `json:"items"`
	Pumps                       map[string]rawPumpState  `json:"-"`
}

// Options controls parsing beyond the raw JSON shape: the horizon
// length, an explicit record offset (spec.md §9 flags the
// items[960:960+N] bug in one source variant; here the offset is a
// documented parameter, defaulting to 0). The price unit conversion is
// not an option: Load always reads electricityPrice as cents/kWh and
// divides by 100 (spec.md §6).
type Options struct {
	HorizonIntervals int
	OffsetIntervals  int
}

// Load parses and validates an input document from r.
func Load(r io.Reader, opts Options) (*Document, error) {
	raw, err := decodeRaw(r)
	if err != nil {
		return nil, err
	}

	if raw.InitialWaterLevel < 0 || raw.InitialWaterLevel > 14.1 {
		return nil, apperror.New(apperror.CodeInvalidLevel,
			fmt.Sprintf("initialWaterLevel %.4f outside [0, 14.1]", raw.InitialWaterLevel)).
			WithField("initialWaterLevel")
	}

	if len(raw.Items) == 0 {
		return nil, apperror.New(apperror.CodeMissingItems, "items array is empty").WithField("items")
	}

	end := opts.OffsetIntervals + opts.HorizonIntervals
	if len(raw.Items) < end {
		return nil, apperror.New(apperror.CodeShortHorizon,
			fmt.Sprintf("items array has %d records, need at least %d (offset %d + horizon %d)",
				len(raw.Items), end, opts.OffsetIntervals, opts.HorizonIntervals)).
			WithField("items")
	}

	window := raw.Items[opts.OffsetIntervals:end]
	items := make([]Record, 0, len(window))
	var prevDate time.Time
	for i, it := range window {
		date, err := time.Parse(time.RFC3339, it.Date)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeMalformedRecord,
				fmt.Sprintf("items[%d].date is not ISO8601", opts.OffsetIntervals+i)).
				WithField(fmt.Sprintf("items[%d].date", opts.OffsetIntervals+i))
		}
		if !prevDate.IsZero() && !date.After(prevDate) {
			return nil, apperror.New(apperror.CodeMalformedRecord,
				fmt.Sprintf("items[%d].date does not strictly increase", opts.OffsetIntervals+i)).
				WithField(fmt.Sprintf("items[%d].date", opts.OffsetIntervals+i))
		}
		prevDate = date

		if it.WaterInflow < 0 {
			return nil, apperror.New(apperror.CodeNegativeInflow,
				fmt.Sprintf("items[%d].waterInflow is negative", opts.OffsetIntervals+i)).
				WithField(fmt.Sprintf("items[%d].waterInflow", opts.OffsetIntervals+i))
		}

		items = append(items, Record{
			Date:             date,
			WaterInflowM3:    it.WaterInflow,
			ElectricityPrice: it.ElectricityPrice / 100, // cents/kWh -> €/kWh, per spec.md §6
		})
	}

	doc := &Document{
		InitialWaterLevel: raw.InitialWaterLevel,
		Items:             items,
	}
	if raw.UnderThresholdWithinMinutes != nil {
		d := int(*raw.UnderThresholdWithinMinutes)
		doc.UnderThresholdWithinMinutes = &d
	}

	for _, p := range pumpid.All {
		rp, present := raw.Pumps[p.InputKey()]
		if !present {
			continue // defaults to {on:false, locked:0, totalMinutes:0}
		}
		if rp.Locked < 0 {
			return nil, apperror.New(apperror.CodeNegativeMinutes,
				fmt.Sprintf("%s.locked is negative", p.InputKey())).WithField(p.InputKey() + ".locked")
		}
		if rp.TotalMinutes < 0 {
			return nil, apperror.New(apperror.CodeNegativeMinutes,
				fmt.Sprintf("%s.totalMinutes is negative", p.InputKey())).WithField(p.InputKey() + ".totalMinutes")
		}
		doc.Pumps[p.Index] = PumpState{
			On:            rp.On,
			LockedMinutes: rp.Locked,
			TotalMinutes:  rp.TotalMinutes,
		}
	}

	return doc, nil
}

// decodeRaw does a two-pass decode: one into the typed fields, one
// into a generic map to pick out the dynamic "pumpH-I" keys, since
// their names aren't known ahead of time (spec.md §9).
func decodeRaw(r io.Reader) (*rawDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeIO, "failed to read input file")
	}

	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeMalformedRecord, "input file is not valid JSON")
	}

	var generic map[string]json.RawMessage
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeMalformedRecord, "input file is not a JSON object")
	}

	doc.Pumps = make(map[string]rawPumpState, pumpid.Count)
	for _, p := range pumpid.All {
		raw, ok := generic[p.InputKey()]
		if !ok {
			continue
		}
		var state rawPumpState
		if err := json.Unmarshal(raw, &state); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeMalformedRecord,
				fmt.Sprintf("%s is malformed", p.InputKey())).WithField(p.InputKey())
		}
		doc.Pumps[p.InputKey()] = state
	}

	return &doc, nil
}
