// Package learn is the thin orchestrator tying structure search to
// scoring and exposing the two top-level operations a caller needs:
// learning the best DAG for a dataset, and predicting from a learned one.
package learn

import (
	"github.com/pkg/errors"

	"github.com/mwinters-dev/bnlearn/dataset"
	"github.com/mwinters-dev/bnlearn/factor"
	"github.com/mwinters-dev/bnlearn/inference"
	"github.com/mwinters-dev/bnlearn/scoring"
	"github.com/mwinters-dev/bnlearn/search"
)

// Metric names a scoring function.
type Metric string

const (
	MetricEntropy Metric = "entropy"
	MetricAIC     Metric = "aic"
	MetricMDL     Metric = "mdl"
	MetricK2      Metric = "k2"
)

// Algorithm names a structure-search strategy.
type Algorithm string

const (
	AlgorithmK2     Algorithm = "k2"
	AlgorithmGreedy Algorithm = "greedy"
	AlgorithmPC     Algorithm = "pc"
)

// K2Params configures the K2 algorithm.
type K2Params struct {
	MaxParents int
	NodesOrder []string
}

// GreedyParams configures greedy hill-climbing.
type GreedyParams struct {
	StartUnconnected bool
	Start            *search.DAG
	VisitSpace       float64
}

// PCParams configures the constraint-based PC algorithm.
type PCParams struct {
	Alpha float64
}

// Params bundles every algorithm's parameters; only the field matching
// the chosen Algorithm is consulted.
type Params struct {
	K2     K2Params
	Greedy GreedyParams
	PC     PCParams
}

// Result is what LearnStructure returns.
type Result struct {
	DAG            *search.DAG
	Score          float64
	VisitedPercent float64
	Steps          int
}

// LearnStructure dispatches to K2, greedy, or PC, enforcing that the K2
// metric is only ever paired with the K2 algorithm (entropy, AIC, and MDL
// can drive either K2 or greedy; PC does not consume a metric at all,
// since it is constraint-based rather than score-based).
func LearnStructure(ds *dataset.Dataset, metric Metric, algorithm Algorithm, alpha float64, params Params) (*Result, error) {
	if err := validate(metric, algorithm, params, ds); err != nil {
		return nil, err
	}

	switch algorithm {
	case AlgorithmK2:
		nodeMetric, err := nodeMetricFor(ds, metric, alpha)
		if err != nil {
			return nil, err
		}
		res, err := search.K2(params.K2.NodesOrder, params.K2.MaxParents, nodeMetric)
		if err != nil {
			return nil, errors.Wrap(err, "learn: k2")
		}
		return &Result{DAG: res.DAG, Score: res.Score, VisitedPercent: res.VisitedPercent, Steps: res.Steps}, nil

	case AlgorithmGreedy:
		graphMetric, err := graphMetricFor(ds, metric, alpha)
		if err != nil {
			return nil, err
		}
		var start *search.DAG
		if !params.Greedy.StartUnconnected {
			start = params.Greedy.Start
		}
		res, err := search.Greedy(ds.Columns(), start, graphMetric, params.Greedy.VisitSpace)
		if err != nil {
			return nil, errors.Wrap(err, "learn: greedy")
		}
		return &Result{DAG: res.DAG, Score: res.Score, Steps: res.SeenCases}, nil

	case AlgorithmPC:
		res, err := search.PC(ds, ds.Columns(), params.PC.Alpha)
		if err != nil {
			return nil, errors.Wrap(err, "learn: pc")
		}
		return &Result{DAG: res.DAG, Steps: res.Tests}, nil

	default:
		return nil, errors.Errorf("learn: unknown algorithm %q", algorithm)
	}
}

func validate(metric Metric, algorithm Algorithm, params Params, ds *dataset.Dataset) error {
	switch algorithm {
	case AlgorithmK2, AlgorithmGreedy, AlgorithmPC:
	default:
		return errors.Errorf("learn: algorithm must be one of k2, greedy, pc, got %q", algorithm)
	}

	if algorithm == AlgorithmPC {
		return nil
	}

	switch metric {
	case MetricEntropy, MetricAIC, MetricMDL, MetricK2:
	default:
		return errors.Errorf("learn: metric must be one of entropy, aic, mdl, k2, got %q", metric)
	}

	if metric == MetricK2 && algorithm != AlgorithmK2 {
		return errors.New("learn: k2 metric is only valid with the k2 algorithm")
	}

	if algorithm == AlgorithmK2 {
		if params.K2.MaxParents < 0 {
			return errors.New("learn: max_parents must be >= 0")
		}
		if !isPermutation(params.K2.NodesOrder, ds.Columns()) {
			return errors.New("learn: nodes_order must be a permutation of the dataset's columns")
		}
	}

	if algorithm == AlgorithmGreedy {
		if params.Greedy.VisitSpace <= 0 || params.Greedy.VisitSpace > 1 {
			return errors.New("learn: visit_space must be in (0, 1]")
		}
	}

	return nil
}

func isPermutation(order, columns []string) bool {
	if len(order) != len(columns) {
		return false
	}
	want := make(map[string]int, len(columns))
	for _, c := range columns {
		want[c]++
	}
	for _, o := range order {
		if want[o] == 0 {
			return false
		}
		want[o]--
	}
	for _, n := range want {
		if n != 0 {
			return false
		}
	}
	return true
}

func nodeMetricFor(ds *dataset.Dataset, metric Metric, alpha float64) (search.NodeMetric, error) {
	switch metric {
	case MetricK2:
		return func(node string, parents []string) (float64, error) {
			return scoring.K2NodeLog(ds, node, parents)
		}, nil
	case MetricEntropy, MetricAIC, MetricMDL:
		return func(node string, parents []string) (float64, error) {
			s, err := perNodeInformationCriterion(ds, metric, node, parents, alpha)
			if err != nil {
				return 0, err
			}
			return -s, nil // larger-is-better convention; these metrics are smaller-is-better.
		}, nil
	default:
		return nil, errors.Errorf("learn: unsupported metric %q", metric)
	}
}

func graphMetricFor(ds *dataset.Dataset, metric Metric, alpha float64) (search.GraphMetric, error) {
	switch metric {
	case MetricEntropy:
		return func(parents map[string][]string) (float64, error) {
			h, err := scoring.Entropy(ds, scoring.Parents(parents), alpha)
			return -h, err
		}, nil
	case MetricAIC:
		return func(parents map[string][]string) (float64, error) {
			a, err := scoring.AIC(ds, scoring.Parents(parents), alpha)
			return -a, err
		}, nil
	case MetricMDL:
		return func(parents map[string][]string) (float64, error) {
			m, err := scoring.MDL(ds, scoring.Parents(parents), alpha)
			return -m, err
		}, nil
	default:
		return nil, errors.Errorf("learn: metric %q is not valid for greedy search", metric)
	}
}

// perNodeInformationCriterion scores a single node's contribution to
// entropy/AIC/MDL in isolation, the per-node decomposition K2 needs but
// the whole-DAG scoring package only exposes at DAG granularity.
func perNodeInformationCriterion(ds *dataset.Dataset, metric Metric, node string, parents []string, alpha float64) (float64, error) {
	single := scoring.Parents{node: parents}
	h, err := scoring.Entropy(ds, single, alpha)
	if err != nil {
		return 0, err
	}
	switch metric {
	case MetricEntropy:
		return h, nil
	case MetricAIC:
		return h + scoring.Complexity(ds, single), nil
	case MetricMDL:
		k := scoring.Complexity(ds, single)
		return h + (k/2)*scoring.Log2Safe(float64(ds.Len())), nil
	default:
		return 0, errors.Errorf("learn: unsupported metric %q", metric)
	}
}

// Predict runs variable elimination over the learned DAG's factors and
// returns a normalized posterior distribution over target.
func Predict(ds *dataset.Dataset, dag *search.DAG, target string, evidenceVars, evidenceVals []string, alpha float64) (*factor.Tensor, error) {
	return inference.Predict(ds, dag, target, evidenceVars, evidenceVals, alpha)
}
