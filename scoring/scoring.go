// Package scoring computes entropy, AIC, MDL, and K2 scores of a
// candidate DAG against a dataset: the objective functions structure
// search optimizes.
package scoring

import (
	"math"

	"github.com/pkg/errors"

	"github.com/mwinters-dev/bnlearn/dataset"
	"github.com/mwinters-dev/bnlearn/factor"
)

// Log2Safe returns log2(x), treating x <= 0 as contributing 0 so that the
// 0*log(0) convention in entropy sums is handled without a NaN.
func Log2Safe(x float64) float64 {
	if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Log2(x)
}

// Parents maps every node to its parent set; Entropy, AIC, MDL, and K2
// all take one as the DAG under evaluation.
type Parents map[string][]string

// Entropy computes the negative log-likelihood score of the DAG: smaller
// is better.
//
//	LL = M * sum_v sum_a P_joint(a; alpha) * log2 P_cond(X=a_X | Y=a_Y; alpha)
//	Entropy = -LL
func Entropy(ds *dataset.Dataset, parents Parents, alpha float64) (float64, error) {
	var ll float64
	m := float64(ds.Len())

	for v, ps := range parents {
		f, err := factor.New(ds, v, ps, alpha)
		if err != nil {
			return 0, errors.Wrapf(err, "scoring: entropy node %s", v)
		}
		joint, err := f.JointDistribution()
		if err != nil {
			return 0, errors.Wrapf(err, "scoring: entropy node %s", v)
		}
		cond, err := f.ConditionalDistribution()
		if err != nil {
			return 0, errors.Wrapf(err, "scoring: entropy node %s", v)
		}

		joint.Entries(func(vals []string, pj float64) {
			pc, ok := cond.Value(vals)
			if !ok {
				return
			}
			ll += pj * Log2Safe(pc)
		})
	}
	return -ll * m, nil
}

// Complexity computes k(G) = sum_v (card(v)-1) * prod_{y in parents(v)} card(y).
func Complexity(ds *dataset.Dataset, parents Parents) float64 {
	var k float64
	for v, ps := range parents {
		term := float64(ds.Card(v) - 1)
		for _, p := range ps {
			term *= float64(ds.Card(p))
		}
		k += term
	}
	return k
}

// AIC returns Entropy + k(G). Smaller is better.
func AIC(ds *dataset.Dataset, parents Parents, alpha float64) (float64, error) {
	h, err := Entropy(ds, parents, alpha)
	if err != nil {
		return 0, err
	}
	return h + Complexity(ds, parents), nil
}

// MDL returns Entropy + (k/2)*log2(M). Smaller is better.
func MDL(ds *dataset.Dataset, parents Parents, alpha float64) (float64, error) {
	h, err := Entropy(ds, parents, alpha)
	if err != nil {
		return 0, err
	}
	k := Complexity(ds, parents)
	return h + (k/2)*Log2Safe(float64(ds.Len())), nil
}

// K2Log computes the log-domain K2 score of the whole DAG: the sum over
// nodes of K2NodeLog. Larger is better (comparisons under the log
// transform agree with the product-of-factorials form in the source
// definition since log is monotonic).
func K2Log(ds *dataset.Dataset, parents Parents) (float64, error) {
	var total float64
	for v, ps := range parents {
		s, err := K2NodeLog(ds, v, ps)
		if err != nil {
			return 0, errors.Wrapf(err, "scoring: k2 node %s", v)
		}
		total += s
	}
	return total, nil
}

// K2NodeLog computes the log K2 score of a single node v given its
// parent set ps:
//
//	log score(v) = sum_j [ lgamma(card(v)) - lgamma(N_vj + card(v)) + sum_k lgamma(N_vjk + 1) ]
//
// where j ranges over parent configurations and N_vjk = M[v=k,
// parents=j]. An empty parent set collapses j to a single configuration.
func K2NodeLog(ds *dataset.Dataset, v string, ps []string) (float64, error) {
	cardV := ds.Card(v)
	if cardV == 0 {
		return 0, errors.Errorf("scoring: unknown variable %q", v)
	}
	domV := ds.Domain(v)

	configs, err := parentConfigs(ds, ps)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, cfg := range configs {
		var nVJ float64
		perK := make([]float64, len(domV))
		for i, k := range domV {
			vars := append(append([]string{v}, ps...))
			vals := append(append([]string{k}, cfg...))
			n, err := ds.Count(vars, vals)
			if err != nil {
				return 0, err
			}
			perK[i] = float64(n)
			nVJ += float64(n)
		}

		lg, _ := math.Lgamma(float64(cardV))
		lgN, _ := math.Lgamma(nVJ + float64(cardV))
		total += lg - lgN
		for _, n := range perK {
			lgk, _ := math.Lgamma(n + 1)
			total += lgk
		}
	}
	return total, nil
}

// parentConfigs enumerates every combination of parent values observed as
// a Cartesian product of domains (even combinations unobserved in the
// data are included, since N_vjk is simply zero for them and K2 sums
// lgamma(1) = 0 for those cells).
func parentConfigs(ds *dataset.Dataset, ps []string) ([][]string, error) {
	if len(ps) == 0 {
		return [][]string{{}}, nil
	}
	domains := make([][]string, len(ps))
	for i, p := range ps {
		d := ds.Domain(p)
		if d == nil {
			return nil, errors.Errorf("scoring: unknown parent variable %q", p)
		}
		domains[i] = d
	}
	return cartesian(domains), nil
}

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
