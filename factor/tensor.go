package factor

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Tensor is a plain scope-plus-table factor: a set of variables and a
// probability (or unnormalized weight) for every combination of their
// values. Unlike Factor it carries no reference to the originating
// dataset or distinction between head and parents; it is what Product and
// Marginalize produce and what variable elimination multiplies and sums
// out uniformly.
type Tensor struct {
	vars   []string
	domain map[string][]string
	table  map[string]float64 // key: values joined in vars order, "\x1f"-separated
}

func newTensor(vars []string) *Tensor {
	return &Tensor{
		vars:   append([]string(nil), vars...),
		domain: make(map[string][]string),
		table:  make(map[string]float64),
	}
}

const sep = "\x1f"

func rowKey(vals []string) string { return strings.Join(vals, sep) }

func (t *Tensor) set(vals []string, p float64) {
	t.table[rowKey(vals)] = p
	for i, v := range t.vars {
		found := false
		for _, d := range t.domain[v] {
			if d == vals[i] {
				found = true
				break
			}
		}
		if !found {
			t.domain[v] = append(t.domain[v], vals[i])
		}
	}
}

// Vars returns the tensor's scope, in its internal (not necessarily
// sorted) order.
func (t *Tensor) Vars() []string {
	out := make([]string, len(t.vars))
	copy(out, t.vars)
	return out
}

// Domain returns the observed values for variable v within this tensor.
func (t *Tensor) Domain(v string) []string {
	d := t.domain[v]
	out := make([]string, len(d))
	copy(out, d)
	return out
}

// Key returns a canonical, sort-order-independent identifier for the
// tensor's scope, used to group survivors of elimination by shared scope
// without depending on the order factors were multiplied in.
func (t *Tensor) Key() string { return key(t.vars) }

// Value looks up the table entry for vals, given in t.Vars() order.
func (t *Tensor) Value(vals []string) (float64, bool) {
	p, ok := t.table[rowKey(vals)]
	return p, ok
}

// Entries iterates every (values, probability) row in the table. values is
// given in t.Vars() order. The callback must not retain the slice.
func (t *Tensor) Entries(fn func(vals []string, p float64)) {
	for k, p := range t.table {
		fn(strings.Split(k, sep), p)
	}
}

// Sum returns the sum of every table entry, the normalizing constant when
// the tensor is not already a probability distribution.
func (t *Tensor) Sum() float64 {
	var total float64
	for _, p := range t.table {
		total += p
	}
	return total
}

// Normalize returns a copy of t with every entry divided by Sum(), so the
// table sums to 1. Returns an error if the tensor is empty or its sum is
// zero.
func (t *Tensor) Normalize() (*Tensor, error) {
	total := t.Sum()
	if total == 0 {
		return nil, errors.New("tensor: cannot normalize, sum is zero")
	}
	out := newTensor(t.vars)
	t.Entries(func(vals []string, p float64) {
		out.set(vals, p/total)
	})
	return out, nil
}

// Filter restricts the tensor to rows consistent with evidence (a map of
// variable to required value); variables the tensor does not contain are
// ignored. If drop is true, matching variables are dropped from
// the resulting scope instead of merely filtering rows (the conventional
// use when evidence fixes a variable out of the inference problem).
func (t *Tensor) Filter(evidence map[string]string, drop bool) *Tensor {
	keepIdx := make([]int, 0, len(t.vars))
	fixedIdx := make([]int, 0)
	fixedVal := make([]string, 0)
	for i, v := range t.vars {
		if val, ok := evidence[v]; ok {
			fixedIdx = append(fixedIdx, i)
			fixedVal = append(fixedVal, val)
			if !drop {
				keepIdx = append(keepIdx, i)
			}
		} else {
			keepIdx = append(keepIdx, i)
		}
	}

	outVars := make([]string, len(keepIdx))
	for i, idx := range keepIdx {
		outVars[i] = t.vars[idx]
	}
	out := newTensor(outVars)

	t.Entries(func(vals []string, p float64) {
		for i, idx := range fixedIdx {
			if vals[idx] != fixedVal[i] {
				return
			}
		}
		row := make([]string, len(keepIdx))
		for i, idx := range keepIdx {
			row[i] = vals[idx]
		}
		out.set(row, p)
	})
	return out
}

// Product multiplies two tensors, joining on shared variables (including
// the degenerate cases of a scalar tensor, scope []string{}, broadcasting
// against everything, and disjoint scopes producing a full Cartesian
// product).
func Product(a, b *Tensor) *Tensor {
	shared := make([]string, 0)
	sharedSet := make(map[string]bool)
	aOnly := make([]string, 0)
	for _, v := range a.vars {
		found := false
		for _, w := range b.vars {
			if v == w {
				found = true
				break
			}
		}
		if found {
			shared = append(shared, v)
			sharedSet[v] = true
		} else {
			aOnly = append(aOnly, v)
		}
	}
	bOnly := make([]string, 0)
	for _, w := range b.vars {
		if !sharedSet[w] {
			bOnly = append(bOnly, w)
		}
	}

	outVars := append(append(append([]string{}, shared...), aOnly...), bOnly...)
	out := newTensor(outVars)

	aIndex := indexOf(a.vars)
	bIndex := indexOf(b.vars)

	a.Entries(func(aVals []string, ap float64) {
		b.Entries(func(bVals []string, bp float64) {
			for _, s := range shared {
				if aVals[aIndex[s]] != bVals[bIndex[s]] {
					return
				}
			}
			row := make([]string, 0, len(outVars))
			for _, v := range shared {
				row = append(row, aVals[aIndex[v]])
			}
			for _, v := range aOnly {
				row = append(row, aVals[aIndex[v]])
			}
			for _, v := range bOnly {
				row = append(row, bVals[bIndex[v]])
			}
			out.set(row, ap*bp)
		})
	})
	return out
}

func indexOf(vars []string) map[string]int {
	m := make(map[string]int, len(vars))
	for i, v := range vars {
		m[v] = i
	}
	return m
}

// Marginalize sums out variable v from t, returning a tensor over the
// remaining scope. If v is not in t.Vars(), t is returned unchanged.
func Marginalize(t *Tensor, v string) *Tensor {
	idx := -1
	for i, w := range t.vars {
		if w == v {
			idx = i
			break
		}
	}
	if idx < 0 {
		return t
	}

	outVars := make([]string, 0, len(t.vars)-1)
	for i, w := range t.vars {
		if i != idx {
			outVars = append(outVars, w)
		}
	}
	out := newTensor(outVars)

	t.Entries(func(vals []string, p float64) {
		row := make([]string, 0, len(outVars))
		for i, val := range vals {
			if i != idx {
				row = append(row, val)
			}
		}
		k := rowKey(row)
		out.table[k] += p
		for i, ov := range outVars {
			found := false
			for _, d := range out.domain[ov] {
				if d == row[i] {
					found = true
					break
				}
			}
			if !found {
				out.domain[ov] = append(out.domain[ov], row[i])
			}
		}
	})
	return out
}

// sortVars returns a sorted copy of vars, the same canonical ordering
// Tensor.Key() uses. It is unexported and not used by other packages.
func sortVars(vars []string) []string {
	out := append([]string(nil), vars...)
	sort.Strings(out)
	return out
}
