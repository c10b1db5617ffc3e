// Package dataset owns the observation table that the rest of the module
// learns from: it enumerates each column's domain and answers count
// queries M[vars=vals] used by the factor and scoring packages.
package dataset

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Dataset is a finite ordered collection of rows, each row a mapping from
// variable name to categorical value. Variable names are unique; all
// values are strings from a closed domain per variable. A Dataset is
// immutable once built.
type Dataset struct {
	columns []string
	rows    []map[string]string
	vars    map[string]*Variable

	// index maps a single (variable, value) pair to the set of row
	// indices where that variable holds that value. Count intersects
	// these sets across the requested (var, val) pairs instead of
	// scanning every row, so its cost is bounded by the total length of
	// the requested posting lists rather than by M.
	index map[string]map[string][]int
}

// Variable is the essential identity of one column: its name and its
// observed domain. Variables are created once from the dataset and are
// immutable thereafter.
type Variable struct {
	name   string
	domain []string
}

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

// Domain returns the ordered sequence of distinct values observed for this
// variable. Order is deterministic: first-seen in the dataset.
func (v *Variable) Domain() []string {
	out := make([]string, len(v.domain))
	copy(out, v.domain)
	return out
}

// Card returns |domain(V)|.
func (v *Variable) Card() int { return len(v.domain) }

// New builds a Dataset from an ordered list of column names and rows of
// values (each row must have exactly len(columns) values, same order as
// columns). This is the shape bnio.Load produces from a CSV file.
func New(columns []string, rows [][]string) (*Dataset, error) {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return nil, errors.Errorf("duplicate column name %q", c)
		}
		seen[c] = true
	}

	ds := &Dataset{
		columns: append([]string(nil), columns...),
		rows:    make([]map[string]string, 0, len(rows)),
		vars:    make(map[string]*Variable, len(columns)),
		index:   make(map[string]map[string][]int, len(columns)),
	}

	domainOrder := make(map[string][]string, len(columns))
	domainSeen := make(map[string]map[string]bool, len(columns))
	for _, c := range columns {
		domainSeen[c] = make(map[string]bool)
		ds.index[c] = make(map[string][]int)
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.Errorf("row %d has %d values, expected %d", i, len(row), len(columns))
		}
		rec := make(map[string]string, len(columns))
		for j, col := range columns {
			val := row[j]
			rec[col] = val
			if !domainSeen[col][val] {
				domainSeen[col][val] = true
				domainOrder[col] = append(domainOrder[col], val)
			}
			ds.index[col][val] = append(ds.index[col][val], i)
		}
		ds.rows = append(ds.rows, rec)
	}

	for _, c := range columns {
		ds.vars[c] = &Variable{name: c, domain: domainOrder[c]}
	}

	return ds, nil
}

// Columns returns the dataset's variable names in their original order.
func (ds *Dataset) Columns() []string {
	out := make([]string, len(ds.columns))
	copy(out, ds.columns)
	return out
}

// Len returns M, the number of rows.
func (ds *Dataset) Len() int { return len(ds.rows) }

// Variable returns the catalog entry for name, or nil if name is not a
// column of this dataset.
func (ds *Dataset) Variable(name string) *Variable { return ds.vars[name] }

// Domain returns dom(V): the ordered sequence of distinct values observed
// for variable v.
func (ds *Dataset) Domain(v string) []string {
	variable, ok := ds.vars[v]
	if !ok {
		return nil
	}
	return variable.Domain()
}

// Card returns card(V) = |dom(V)|.
func (ds *Dataset) Card(v string) int {
	variable, ok := ds.vars[v]
	if !ok {
		return 0
	}
	return variable.Card()
}

// HasColumn reports whether name is a column of this dataset.
func (ds *Dataset) HasColumn(name string) bool {
	_, ok := ds.vars[name]
	return ok
}

// HasValue reports whether val is in the observed domain of variable v.
func (ds *Dataset) HasValue(v, val string) bool {
	variable, ok := ds.vars[v]
	if !ok {
		return false
	}
	for _, d := range variable.domain {
		if d == val {
			return true
		}
	}
	return false
}

// Count returns M[vars=vals], the number of rows satisfying the
// conjunction of equality constraints. Requires len(vars) == len(vals).
func (ds *Dataset) Count(vars []string, vals []string) (int, error) {
	if len(vars) != len(vals) {
		return 0, errors.Errorf("count: %d variables but %d values", len(vars), len(vals))
	}
	if len(vars) == 0 {
		return len(ds.rows), nil
	}

	// Intersect posting lists starting from the smallest, which keeps the
	// running candidate set as small as possible.
	lists := make([][]int, len(vars))
	for i, v := range vars {
		col, ok := ds.index[v]
		if !ok {
			return 0, errors.Errorf("count: unknown variable %q", v)
		}
		lists[i] = col[vals[i]]
	}
	sort.Slice(lists, func(i, j int) bool { return len(lists[i]) < len(lists[j]) })

	candidates := make(map[int]bool, len(lists[0]))
	for _, idx := range lists[0] {
		candidates[idx] = true
	}
	for _, list := range lists[1:] {
		if len(candidates) == 0 {
			break
		}
		next := make(map[int]bool, len(candidates))
		for _, idx := range list {
			if candidates[idx] {
				next[idx] = true
			}
		}
		candidates = next
	}
	return len(candidates), nil
}

// Row returns row i as a variable->value map. The map is the dataset's
// own, not a copy.
func (ds *Dataset) Row(i int) map[string]string { return ds.rows[i] }

// Rows returns every row as a variable->value map, in original order. The
// returned slice and maps are owned by the caller.
func (ds *Dataset) Rows() []map[string]string {
	out := make([]map[string]string, len(ds.rows))
	for i, r := range ds.rows {
		cp := make(map[string]string, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}

// String renders the dataset's shape for debugging/log messages.
func (ds *Dataset) String() string {
	return strings.Join(ds.columns, ",") + " (" + strconv.Itoa(len(ds.rows)) + " rows)"
}
