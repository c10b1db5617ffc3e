// Package inference answers P(target | evidence) by eliminating hidden
// variables from the product of a network's factors.
package inference

import (
	"github.com/pkg/errors"

	"github.com/mwinters-dev/bnlearn/dataset"
	"github.com/mwinters-dev/bnlearn/factor"
	"github.com/mwinters-dev/bnlearn/search"
)

// Predict runs variable elimination over the DAG's factors, built fresh
// from ds at the given smoothing level, and returns the normalized
// posterior distribution over target conditioned on evidence.
//
// Evidence variables are fixed at their given values and dropped from
// every factor's scope before elimination begins. Hidden variables (every
// node that is neither target nor evidence) are eliminated one at a time,
// in the topological order of the DAG restricted to that set.
func Predict(ds *dataset.Dataset, dag *search.DAG, target string, evidenceVars, evidenceVals []string, alpha float64) (*factor.Tensor, error) {
	if len(evidenceVars) != len(evidenceVals) {
		return nil, errors.Errorf("inference: %d evidence variables but %d values", len(evidenceVars), len(evidenceVals))
	}
	if !ds.HasColumn(target) {
		return nil, errors.Errorf("inference: unknown target variable %q", target)
	}
	evidence := make(map[string]string, len(evidenceVars))
	for i, v := range evidenceVars {
		if !ds.HasColumn(v) {
			return nil, errors.Errorf("inference: unknown evidence variable %q", v)
		}
		if !ds.HasValue(v, evidenceVals[i]) {
			return nil, errors.Errorf("inference: value %q is not in the domain of %q", evidenceVals[i], v)
		}
		evidence[v] = evidenceVals[i]
	}

	nodes := dag.Nodes()
	tensors := make([]*factor.Tensor, 0, len(nodes))
	for _, node := range nodes {
		f, err := factor.New(ds, node, dag.Parents(node), alpha)
		if err != nil {
			return nil, errors.Wrap(err, "inference: building factor")
		}
		t, err := f.ConditionalDistribution()
		if err != nil {
			return nil, errors.Wrap(err, "inference: building factor")
		}
		tensors = append(tensors, t.Filter(evidence, true))
	}

	fixed := make(map[string]bool, len(evidence)+1)
	for v := range evidence {
		fixed[v] = true
	}
	fixed[target] = true

	hidden := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if !fixed[n] {
			hidden = append(hidden, n)
		}
	}
	order, err := dag.TopoSort(hidden)
	if err != nil {
		return nil, errors.Wrap(err, "inference: ordering hidden variables")
	}

	for _, h := range order {
		tensors = eliminate(h, tensors)
	}

	tensors = consolidate(tensors)
	if len(tensors) == 0 {
		return nil, errors.New("inference: no factors remain after elimination")
	}

	result := tensors[0]
	for _, t := range tensors[1:] {
		result = factor.Product(result, t)
	}

	normalized, err := result.Normalize()
	if err != nil {
		return nil, errors.Wrap(err, "inference: normalizing posterior")
	}
	return normalized, nil
}

// eliminate sums h out of the product of every tensor that mentions it,
// dropping the result if it collapses to a scalar (its only variable was
// the one just eliminated, a constant that cannot affect the target's
// argmax).
func eliminate(h string, tensors []*factor.Tensor) []*factor.Tensor {
	relevant := make([]*factor.Tensor, 0)
	irrelevant := make([]*factor.Tensor, 0)
	for _, t := range tensors {
		mentions := false
		for _, v := range t.Vars() {
			if v == h {
				mentions = true
				break
			}
		}
		if mentions {
			relevant = append(relevant, t)
		} else {
			irrelevant = append(irrelevant, t)
		}
	}

	if len(relevant) == 0 {
		return irrelevant
	}

	product := relevant[0]
	for _, t := range relevant[1:] {
		product = factor.Product(product, t)
	}

	marginal := factor.Marginalize(product, h)
	if len(marginal.Vars()) == 0 {
		return irrelevant
	}
	return append(irrelevant, marginal)
}

// consolidate multiplies together any tensors left sharing an identical
// scope, so the final product loop never double-counts a variable set
// produced by independent elimination steps.
func consolidate(tensors []*factor.Tensor) []*factor.Tensor {
	groups := make(map[string][]*factor.Tensor)
	order := make([]string, 0)
	for _, t := range tensors {
		k := t.Key()
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], t)
	}

	out := make([]*factor.Tensor, 0, len(order))
	for _, k := range order {
		group := groups[k]
		merged := group[0]
		for _, t := range group[1:] {
			merged = factor.Product(merged, t)
		}
		out = append(out, merged)
	}
	return out
}
