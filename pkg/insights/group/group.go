// Package group partitions visit records along a secondary dimension
// (center, industry or partner role) so each part can be aggregated on its
// own.
package group

import (
	"sort"

	"github.com/cognicore/insights/pkg/insights/record"
)

// Dimension assigns each visit to exactly one key.
type Dimension interface {
	// Name identifies the dimension in logs and reports.
	Name() string
	// Keys lists every key in display order, fallback included.
	Keys() []string
	// KeyOf returns the key for v. It never returns a key outside Keys.
	KeyOf(v record.Visit) string
}

// Partition is the result of splitting records along one dimension.
type Partition struct {
	dim     string
	keys    []string
	records map[string][]record.Visit
}

// By splits visits along dim. Every visit lands in exactly one group and
// input order is preserved inside each group.
func By(visits []record.Visit, dim Dimension) Partition {
	p := Partition{
		dim:     dim.Name(),
		keys:    dim.Keys(),
		records: make(map[string][]record.Visit, len(dim.Keys())),
	}
	for _, v := range visits {
		k := dim.KeyOf(v)
		p.records[k] = append(p.records[k], v)
	}
	return p
}

// Dimension returns the name of the dimension the partition was built on.
func (p Partition) Dimension() string {
	return p.dim
}

// Keys returns all keys of the dimension, including empty groups.
func (p Partition) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Records returns the visits of one group; nil for empty or unknown keys.
func (p Partition) Records(key string) []record.Visit {
	return p.records[key]
}

// Sizes returns the group sizes, keyed by group key.
func (p Partition) Sizes() map[string]int {
	out := make(map[string]int, len(p.keys))
	for _, k := range p.keys {
		out[k] = len(p.records[k])
	}
	return out
}

// Len returns the number of visits over all groups.
func (p Partition) Len() int {
	n := 0
	for _, rs := range p.records {
		n += len(rs)
	}
	return n
}

// RankedKeys returns the non-empty keys by size, largest first; ties keep
// dimension order.
func (p Partition) RankedKeys() []string {
	var keys []string
	for _, k := range p.keys {
		if len(p.records[k]) > 0 {
			keys = append(keys, k)
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return len(p.records[keys[i]]) > len(p.records[keys[j]])
	})
	return keys
}

// Counts returns the group sizes in dimension key order.
func (p Partition) Counts() []int {
	out := make([]int, len(p.keys))
	for i, k := range p.keys {
		out[i] = len(p.records[k])
	}
	return out
}
