package search

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mwinters-dev/bnlearn/dataset"
)

// ChiSquareTest tests whether x and y are conditionally independent given
// z in ds, returning the chi-square statistic and its p-value. A
// z-stratum (one configuration of z) with fewer than 5 rows is skipped
// entirely, a minimum-count guard for the chi-square approximation; when
// every stratum is skipped the p-value is 1.
func ChiSquareTest(ds *dataset.Dataset, x, y string, z []string) (chiSquare, pValue float64) {
	xDom := ds.Domain(x)
	yDom := ds.Domain(y)
	zConfigs := configurations(ds, z)

	df := 0.0
	for _, cfg := range zConfigs {
		total, _ := ds.Count(z, cfg)
		if total < 5 {
			continue
		}

		xMarginal := make([]float64, len(xDom))
		yMarginal := make([]float64, len(yDom))
		counts := make([][]float64, len(xDom))
		for i := range counts {
			counts[i] = make([]float64, len(yDom))
		}

		for i, xv := range xDom {
			for j, yv := range yDom {
				vars := append(append([]string{x, y}, z...))
				vals := append(append([]string{xv, yv}, cfg...))
				n, err := ds.Count(vars, vals)
				if err != nil {
					continue
				}
				counts[i][j] = float64(n)
				xMarginal[i] += float64(n)
				yMarginal[j] += float64(n)
			}
		}

		totalF := float64(total)
		for i := range xDom {
			for j := range yDom {
				expected := xMarginal[i] * yMarginal[j] / totalF
				if expected > 0 {
					observed := counts[i][j]
					chiSquare += math.Pow(observed-expected, 2) / expected
				}
			}
		}
		df += float64((len(xDom) - 1) * (len(yDom) - 1))
	}

	if df <= 0 {
		return chiSquare, 1.0
	}

	dist := distuv.ChiSquared{K: df}
	pValue = 1 - dist.CDF(chiSquare)
	return chiSquare, pValue
}

// configurations enumerates every observed-domain combination of the
// variables in z, collapsing to a single empty configuration when z is
// empty.
func configurations(ds *dataset.Dataset, z []string) [][]string {
	if len(z) == 0 {
		return [][]string{{}}
	}
	domains := make([][]string, len(z))
	for i, v := range z {
		domains[i] = ds.Domain(v)
	}
	return cartesianProduct(domains)
}

func cartesianProduct(domains [][]string) [][]string {
	if len(domains) == 0 {
		return [][]string{{}}
	}
	rest := cartesianProduct(domains[1:])
	out := make([][]string, 0, len(domains[0])*len(rest))
	for _, v := range domains[0] {
		for _, r := range rest {
			combo := append([]string{v}, r...)
			out = append(out, combo)
		}
	}
	return out
}

// combinations generates all size-k subsets of elements, preserving
// relative order within each subset.
func combinations(elements []string, k int) [][]string {
	if k == 0 {
		return [][]string{{}}
	}
	if len(elements) < k {
		return [][]string{}
	}

	result := make([][]string, 0)
	withFirst := combinations(elements[1:], k-1)
	for _, combo := range withFirst {
		newCombo := make([]string, 0, k)
		newCombo = append(newCombo, elements[0])
		newCombo = append(newCombo, combo...)
		result = append(result, newCombo)
	}
	result = append(result, combinations(elements[1:], k)...)
	return result
}
