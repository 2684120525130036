package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// OrderedTotals accumulates cost per key while remembering the order in
// which keys were first seen. Plain Go maps would lose that order, which
// exporters rely on for deterministic output.
type OrderedTotals struct {
	keys   []string
	values map[string]float64
}

// Total is one key/cost pair of a breakdown.
type Total struct {
	Key  string
	Cost float64
}

func NewOrderedTotals() *OrderedTotals {
	return &OrderedTotals{values: make(map[string]float64)}
}

// Add accumulates amount under key, registering the key on first use.
func (t *OrderedTotals) Add(key string, amount float64) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] += amount
}

// Get returns the cumulative cost for key, zero when absent.
func (t *OrderedTotals) Get(key string) float64 {
	return t.values[key]
}

// Keys returns the keys in first-encounter order.
func (t *OrderedTotals) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

func (t *OrderedTotals) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Sum returns the total across all keys.
func (t *OrderedTotals) Sum() float64 {
	var sum float64
	for _, v := range t.values {
		sum += v
	}
	return sum
}

// Sorted returns the entries in descending cost order. Ties keep the
// insertion order.
func (t *OrderedTotals) Sorted() []Total {
	out := make([]Total, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, Total{Key: k, Cost: t.values[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost > out[j].Cost })
	return out
}

// MarshalJSON renders a JSON object whose members appear in insertion
// order.
func (t *OrderedTotals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(t.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object member by member so key order
// survives a round trip.
func (t *OrderedTotals) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	t.keys = nil
	t.values = make(map[string]float64)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return fmt.Errorf("expected numeric value for %q, got %v", key, valTok)
		}
		val, err := num.Float64()
		if err != nil {
			return err
		}
		t.Add(key, val)
	}

	_, err = dec.Token() // closing brace
	return err
}
