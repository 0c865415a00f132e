package models

import (
	"bytes"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Distribution is a string->count mapping that remembers the order in which
// keys were first seen. It marshals to a JSON object in that order.
type Distribution struct {
	counts *orderedmap.OrderedMap[string, int]
}

// NewDistribution seeds a distribution with zero-valued keys in the given order.
func NewDistribution(keys ...string) Distribution {
	var d Distribution
	for _, k := range keys {
		d.Set(k, 0)
	}
	return d
}

func (d *Distribution) init() {
	if d.counts == nil {
		d.counts = orderedmap.New[string, int]()
	}
}

// Inc adds n to key, appending key to the order if it is new.
func (d *Distribution) Inc(key string, n int) {
	d.init()
	cur, _ := d.counts.Get(key)
	d.counts.Set(key, cur+n)
}

// Set overwrites the count for key.
func (d *Distribution) Set(key string, n int) {
	d.init()
	d.counts.Set(key, n)
}

func (d Distribution) Get(key string) (int, bool) {
	if d.counts == nil {
		return 0, false
	}
	return d.counts.Get(key)
}

// Keys returns the keys in first-seen order.
func (d Distribution) Keys() []string {
	out := make([]string, 0, d.Len())
	if d.counts == nil {
		return out
	}
	for pair := d.counts.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func (d Distribution) Len() int {
	if d.counts == nil {
		return 0
	}
	return d.counts.Len()
}

func (d Distribution) Sum() int {
	total := 0
	if d.counts == nil {
		return total
	}
	for pair := d.counts.Oldest(); pair != nil; pair = pair.Next() {
		total += pair.Value
	}
	return total
}

// ToMap returns an unordered copy.
func (d Distribution) ToMap() map[string]int {
	out := make(map[string]int, d.Len())
	if d.counts == nil {
		return out
	}
	for pair := d.counts.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// MarshalJSON writes an empty distribution as {} rather than null.
func (d Distribution) MarshalJSON() ([]byte, error) {
	if d.counts == nil {
		return []byte("{}"), nil
	}
	return d.counts.MarshalJSON()
}

func (d *Distribution) UnmarshalJSON(data []byte) error {
	*d = Distribution{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	d.init()
	return d.counts.UnmarshalJSON(data)
}
