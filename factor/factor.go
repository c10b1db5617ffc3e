// Package factor implements the probabilistic algebra the rest of the
// module is built on: Laplace-smoothed conditional and joint distributions
// over a dataset.Dataset, and the product/marginalize operations variable
// elimination composes.
package factor

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/mwinters-dev/bnlearn/dataset"
)

// Factor is a conditional probability table P(X | Y) estimated from a
// dataset, where X is the head variable and Y its parent set. A Factor
// with no parents is a marginal P(X). All probabilities are Laplace
// smoothed with the additive constant alpha.
type Factor struct {
	ds     *dataset.Dataset
	head   string
	parents []string
	alpha  float64
}

// New builds the CPT for head given parents, backed by ds. parents may be
// empty for a marginal factor. alpha is the Laplace smoothing constant
// added to every joint count (alpha = 0 recovers the unsmoothed MLE, and
// is only safe when every parent configuration is observed).
func New(ds *dataset.Dataset, head string, parents []string, alpha float64) (*Factor, error) {
	if !ds.HasColumn(head) {
		return nil, errors.Errorf("factor: unknown head variable %q", head)
	}
	for _, p := range parents {
		if !ds.HasColumn(p) {
			return nil, errors.Errorf("factor: unknown parent variable %q", p)
		}
	}
	if alpha < 0 {
		return nil, errors.New("factor: alpha must be >= 0")
	}
	return &Factor{ds: ds, head: head, parents: append([]string(nil), parents...), alpha: alpha}, nil
}

// Head returns the factor's head variable.
func (f *Factor) Head() string { return f.head }

// Parents returns the factor's parent set, in the order supplied to New.
func (f *Factor) Parents() []string {
	out := make([]string, len(f.parents))
	copy(out, f.parents)
	return out
}

// Vars returns head followed by parents: the full scope of the factor.
func (f *Factor) Vars() []string {
	return append([]string{f.head}, f.parents...)
}

// Probability returns the Laplace-smoothed conditional probability
// P(head=x | parents=y), where y gives one value per entry of Parents().
//
//	P(x | y) = (M[x,y] + alpha) / (M[y] + alpha * card(head))
func (f *Factor) Probability(x string, y []string) (float64, error) {
	if len(y) != len(f.parents) {
		return 0, errors.Errorf("factor: expected %d parent values, got %d", len(f.parents), len(y))
	}

	jointVars := append([]string{f.head}, f.parents...)
	jointVals := append([]string{x}, y...)
	numer, err := f.ds.Count(jointVars, jointVals)
	if err != nil {
		return 0, errors.Wrap(err, "factor: probability")
	}

	var denom int
	if len(f.parents) == 0 {
		denom = f.ds.Len()
	} else {
		denom, err = f.ds.Count(f.parents, y)
		if err != nil {
			return 0, errors.Wrap(err, "factor: probability")
		}
	}

	card := float64(f.ds.Card(f.head))
	return (float64(numer) + f.alpha) / (float64(denom) + f.alpha*card), nil
}

// JointProbability returns the Laplace-smoothed joint probability of the
// full scope (head plus parents) taking on the given values, estimated
// directly against the dataset size rather than via the chain rule.
//
//	P(x, y) = (M[x,y] + alpha) / (M + alpha * card(head) * prod(card(Y)))
func (f *Factor) JointProbability(x string, y []string) (float64, error) {
	if len(y) != len(f.parents) {
		return 0, errors.Errorf("factor: expected %d parent values, got %d", len(f.parents), len(y))
	}

	jointVars := append([]string{f.head}, f.parents...)
	jointVals := append([]string{x}, y...)
	numer, err := f.ds.Count(jointVars, jointVals)
	if err != nil {
		return 0, errors.Wrap(err, "factor: joint probability")
	}

	space := float64(f.ds.Card(f.head))
	for _, p := range f.parents {
		space *= float64(f.ds.Card(p))
	}
	return (float64(numer) + f.alpha) / (float64(f.ds.Len()) + f.alpha*space), nil
}

// ConditionalDistribution materializes the full table P(head | parents) as
// a Tensor, one entry per combination of head value and parent
// configuration.
func (f *Factor) ConditionalDistribution() (*Tensor, error) {
	vars := f.Vars()
	domains := make([][]string, len(vars))
	for i, v := range vars {
		domains[i] = f.ds.Domain(v)
	}

	t := newTensor(vars)
	for _, combo := range cartesian(domains) {
		x := combo[0]
		y := combo[1:]
		p, err := f.Probability(x, y)
		if err != nil {
			return nil, err
		}
		t.set(combo, p)
	}
	return t, nil
}

// JointDistribution materializes the full joint table P(head, parents) as
// a Tensor.
func (f *Factor) JointDistribution() (*Tensor, error) {
	vars := f.Vars()
	domains := make([][]string, len(vars))
	for i, v := range vars {
		domains[i] = f.ds.Domain(v)
	}

	t := newTensor(vars)
	for _, combo := range cartesian(domains) {
		x := combo[0]
		y := combo[1:]
		p, err := f.JointProbability(x, y)
		if err != nil {
			return nil, err
		}
		t.set(combo, p)
	}
	return t, nil
}

// cartesian returns the Cartesian product of domains, preserving the
// order of domains and, within each, the order of values.
func cartesian(domains [][]string) [][]string {
	if len(domains) == 0 {
		return [][]string{{}}
	}
	rest := cartesian(domains[1:])
	out := make([][]string, 0, len(domains[0])*len(rest))
	for _, v := range domains[0] {
		for _, r := range rest {
			combo := append([]string{v}, r...)
			out = append(out, combo)
		}
	}
	return out
}

// sortedCopy returns a sorted copy of vars, used to build canonical,
// join-order-independent partition keys.
func sortedCopy(vars []string) []string {
	out := append([]string(nil), vars...)
	sort.Strings(out)
	return out
}

func key(vars []string) string {
	return strings.Join(sortedCopy(vars), ",")
}
