// Package solver provides constraint programming abstractions.
// This file implements the sparse-set domain representation for integer
// variables: O(1) membership and removal over a bounded universe, with
// O(changes) rollback for backtracking.
package solver

import (
	"fmt"
	"sort"
	"strings"
)

// IntDomain is a sparse set over the bounded universe [lo, lo+len(pos)-1].
//
// The live members are dense[0:size]. Removing a value swaps it with the last
// live member and shrinks size, so every mutation is a permutation of the
// live prefix followed by a shrink. That makes a checkpoint just the triple
// (size, min, max): restoring the size re-admits the values removed since the
// checkpoint without copying the domain.
//
// An empty domain (size == 0) signals local failure during propagation;
// it is never an error to produce one, only to keep dereferencing it.
type IntDomain struct {
	lo    int64   // universe lower bound, fixed for the domain's lifetime
	dense []int64 // dense[0:size] are the current members
	pos   []int32 // pos[v-lo] = index of v in dense, -1 if v never existed
	size  int
	min   int64
	max   int64
}

// IntCheckpoint is an opaque rollback token for an IntDomain.
type IntCheckpoint struct {
	size int
	min  int64
	max  int64
}

// newIntDomain creates the full domain [lo, hi]. Callers validate lo <= hi.
func newIntDomain(lo, hi int64) *IntDomain {
	n := int(hi - lo + 1)
	d := &IntDomain{
		lo:    lo,
		dense: make([]int64, n),
		pos:   make([]int32, n),
		size:  n,
		min:   lo,
		max:   hi,
	}
	for i := 0; i < n; i++ {
		d.dense[i] = lo + int64(i)
		d.pos[i] = int32(i)
	}
	return d
}

// newIntDomainValues creates a domain holding exactly the given values.
// Callers validate that values is non-empty. Duplicates are collapsed.
func newIntDomainValues(values []int64) *IntDomain {
	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	lo, hi := sorted[0], sorted[len(sorted)-1]
	n := int(hi - lo + 1)
	d := &IntDomain{
		lo:    lo,
		dense: make([]int64, 0, len(sorted)),
		pos:   make([]int32, n),
		min:   lo,
		max:   hi,
	}
	for i := range d.pos {
		d.pos[i] = -1
	}
	for _, v := range sorted {
		if d.pos[v-lo] >= 0 {
			continue // duplicate
		}
		d.pos[v-lo] = int32(len(d.dense))
		d.dense = append(d.dense, v)
	}
	d.size = len(d.dense)
	return d
}

// Size returns the number of values currently in the domain.
func (d *IntDomain) Size() int { return d.size }

// Empty reports whether the domain has been wiped out.
func (d *IntDomain) Empty() bool { return d.size == 0 }

// IsFixed reports whether the domain is a singleton.
func (d *IntDomain) IsFixed() bool { return d.size == 1 }

// Min returns the smallest value in the domain. Undefined when empty.
func (d *IntDomain) Min() int64 { return d.min }

// Max returns the largest value in the domain. Undefined when empty.
func (d *IntDomain) Max() int64 { return d.max }

// Contains reports membership of v. O(1).
func (d *IntDomain) Contains(v int64) bool {
	if v < d.lo || v >= d.lo+int64(len(d.pos)) {
		return false
	}
	p := d.pos[v-d.lo]
	return p >= 0 && int(p) < d.size
}

// swapOut moves the member at live index i past the live boundary. O(1).
func (d *IntDomain) swapOut(i int) {
	last := d.size - 1
	vi, vl := d.dense[i], d.dense[last]
	d.dense[i], d.dense[last] = vl, vi
	d.pos[vi-d.lo], d.pos[vl-d.lo] = int32(last), int32(i)
	d.size--
}

// rescanBounds recomputes min/max from the live prefix. O(size).
func (d *IntDomain) rescanBounds() {
	if d.size == 0 {
		return
	}
	mn, mx := d.dense[0], d.dense[0]
	for _, v := range d.dense[1:d.size] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	d.min, d.max = mn, mx
}

// Remove deletes v from the domain. Removing an absent value is a no-op.
// Returns true if the domain changed. Callers must check Empty afterwards.
func (d *IntDomain) Remove(v int64) bool {
	if !d.Contains(v) {
		return false
	}
	d.swapOut(int(d.pos[v-d.lo]))
	if d.size > 0 && (v == d.min || v == d.max) {
		d.rescanBounds()
	}
	return true
}

// RemoveBelow deletes every value < v. Returns true if the domain changed.
func (d *IntDomain) RemoveBelow(v int64) bool {
	if d.size == 0 || v <= d.min {
		return false
	}
	changed := false
	for i := 0; i < d.size; {
		if d.dense[i] < v {
			d.swapOut(i)
			changed = true
		} else {
			i++
		}
	}
	if changed {
		d.rescanBounds()
	}
	return changed
}

// RemoveAbove deletes every value > v. Returns true if the domain changed.
func (d *IntDomain) RemoveAbove(v int64) bool {
	if d.size == 0 || v >= d.max {
		return false
	}
	changed := false
	for i := 0; i < d.size; {
		if d.dense[i] > v {
			d.swapOut(i)
			changed = true
		} else {
			i++
		}
	}
	if changed {
		d.rescanBounds()
	}
	return changed
}

// Fix reduces the domain to exactly v, or wipes it out if v is not a member.
// Returns true if the domain changed.
func (d *IntDomain) Fix(v int64) bool {
	if !d.Contains(v) {
		if d.size == 0 {
			return false
		}
		d.size = 0
		return true
	}
	if d.size == 1 {
		return false
	}
	// Swap v into slot 0 so the singleton prefix is exactly {v}. The swap
	// stays within the live prefix, which keeps checkpoints restorable.
	i := int(d.pos[v-d.lo])
	if i != 0 {
		v0 := d.dense[0]
		d.dense[0], d.dense[i] = v, v0
		d.pos[v-d.lo], d.pos[v0-d.lo] = 0, int32(i)
	}
	d.size = 1
	d.min, d.max = v, v
	return true
}

// Values returns the current members in ascending order. Intended for small
// domains (branching, solution extraction, diagnostics).
func (d *IntDomain) Values() []int64 {
	out := make([]int64, d.size)
	copy(out, d.dense[:d.size])
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Checkpoint returns a rollback token for the current domain contents.
func (d *IntDomain) Checkpoint() IntCheckpoint {
	return IntCheckpoint{size: d.size, min: d.min, max: d.max}
}

// Restore rolls the domain back to the state captured by the token.
// The token must come from this domain, with no intervening restores to an
// older token. O(1).
func (d *IntDomain) Restore(c IntCheckpoint) {
	d.size = c.size
	d.min = c.min
	d.max = c.max
}

// String renders the domain like {1..9} or {1,3,5}.
func (d *IntDomain) String() string {
	if d.size == 0 {
		return "{}"
	}
	vals := d.Values()
	if d.size == 1 {
		return fmt.Sprintf("{%d}", vals[0])
	}
	if int64(d.size) == d.max-d.min+1 {
		return fmt.Sprintf("{%d..%d}", d.min, d.max)
	}
	var b strings.Builder
	b.WriteString("{")
	for i, v := range vals {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%d", v)
		if i >= 19 && len(vals) > 20 {
			fmt.Fprintf(&b, ",...+%d more", len(vals)-20)
			break
		}
	}
	b.WriteString("}")
	return b.String()
}
