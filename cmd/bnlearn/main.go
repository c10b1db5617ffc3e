// Command bnlearn is the CLI front end for the bnlearn module: it loads a
// categorical CSV dataset, learns a DAG structure from it, and answers
// posterior queries over a learned (or supplied) structure.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mwinters-dev/bnlearn/bnconfig"
	"github.com/mwinters-dev/bnlearn/bnio"
	"github.com/mwinters-dev/bnlearn/bnlog"
	"github.com/mwinters-dev/bnlearn/learn"
	"github.com/mwinters-dev/bnlearn/report"
	"github.com/mwinters-dev/bnlearn/scoring"
	"github.com/mwinters-dev/bnlearn/search"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "learn":
		err = runLearn(os.Args[2:])
	case "predict":
		err = runPredict(os.Args[2:])
	case "demo":
		err = runDemo(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "bnlearn: unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "bnlearn: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bnlearn <learn|predict|demo> [flags]")
	fmt.Fprintln(os.Stderr, "  bnlearn learn   --data <csv> --metric <entropy|aic|mdl|k2> --algorithm <k2|greedy|pc>")
	fmt.Fprintln(os.Stderr, "  bnlearn predict --data <csv> --edges <A>B,B>C> --target T --evidence A=a,B=b")
	fmt.Fprintln(os.Stderr, "  bnlearn demo    --data <csv> --order A,B,C")
}

func setupLogging(cfg *bnconfig.Config) {
	bnlog.Init(bnlog.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
}

func runLearn(args []string) error {
	cfg, err := bnconfig.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("learn", flag.ExitOnError)
	data := fs.String("data", cfg.Dataset.Path, "path to the input CSV")
	encoding := fs.String("encoding", cfg.Dataset.Encoding, "input CSV encoding (utf-8, big5, gb18030, utf-16)")
	metric := fs.String("metric", cfg.Learn.Metric, "entropy, aic, mdl, or k2")
	algorithm := fs.String("algorithm", cfg.Learn.Algorithm, "k2, greedy, or pc")
	alpha := fs.Float64("alpha", cfg.Learn.Alpha, "Laplace smoothing pseudocount")
	maxParents := fs.Int("max-parents", cfg.Learn.MaxParents, "k2: maximum parents per node")
	order := fs.String("order", "", "k2: comma-separated node ordering (default: dataset column order)")
	startUnconnected := fs.Bool("start-unconnected", true, "greedy: start search from the empty graph")
	visitSpace := fs.Float64("visit-space", cfg.Learn.VisitSpace, "greedy: fraction of DAG space to explore")
	pcAlpha := fs.Float64("pc-alpha", cfg.Learn.PCAlpha, "pc: significance level for independence tests")
	if err := fs.Parse(args); err != nil {
		return err
	}

	setupLogging(cfg)

	ds, err := bnio.Load(*data, *encoding)
	if err != nil {
		return err
	}

	nodesOrder := ds.Columns()
	if *order != "" {
		nodesOrder = strings.Split(*order, ",")
	}

	params := learn.Params{
		K2: learn.K2Params{
			MaxParents: *maxParents,
			NodesOrder: nodesOrder,
		},
		Greedy: learn.GreedyParams{
			StartUnconnected: *startUnconnected,
			VisitSpace:       *visitSpace,
		},
		PC: learn.PCParams{
			Alpha: *pcAlpha,
		},
	}

	result, err := learn.LearnStructure(ds, learn.Metric(strings.ToLower(*metric)), learn.Algorithm(strings.ToLower(*algorithm)), *alpha, params)
	if err != nil {
		return err
	}

	fmt.Printf("learned structure (%s/%s):\n", *algorithm, *metric)
	for _, node := range result.DAG.Nodes() {
		parents := result.DAG.Parents(node)
		if len(parents) == 0 {
			fmt.Printf("  %s: (root)\n", node)
			continue
		}
		fmt.Printf("  %s: parents = %v\n", node, parents)
	}
	fmt.Printf("score: %.6f\n", result.Score)
	return nil
}

func runPredict(args []string) error {
	cfg, err := bnconfig.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	data := fs.String("data", cfg.Dataset.Path, "path to the input CSV")
	encoding := fs.String("encoding", cfg.Dataset.Encoding, "input CSV encoding")
	edges := fs.String("edges", "", "comma-separated edges, each Parent>Child")
	target := fs.String("target", "", "query variable")
	evidence := fs.String("evidence", "", "comma-separated evidence assignments, each Var=value")
	alpha := fs.Float64("alpha", cfg.Learn.Alpha, "Laplace smoothing pseudocount")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *target == "" {
		return fmt.Errorf("predict: --target is required")
	}

	setupLogging(cfg)

	ds, err := bnio.Load(*data, *encoding)
	if err != nil {
		return err
	}

	dag, err := parseEdges(ds.Columns(), *edges)
	if err != nil {
		return err
	}

	evidenceVars, evidenceVals, err := parseEvidence(*evidence)
	if err != nil {
		return err
	}

	dist, err := learn.Predict(ds, dag, *target, evidenceVars, evidenceVals, *alpha)
	if err != nil {
		return err
	}

	fmt.Printf("P(%s | %s):\n", *target, strings.Join(evidenceAssignments(evidenceVars, evidenceVals), ", "))
	dist.Entries(func(vals []string, p float64) {
		fmt.Printf("  %s=%s: %.6f\n", *target, vals[0], p)
	})
	return nil
}

func runDemo(args []string) error {
	cfg, err := bnconfig.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	data := fs.String("data", cfg.Dataset.Path, "path to the input CSV")
	encoding := fs.String("encoding", cfg.Dataset.Encoding, "input CSV encoding")
	order := fs.String("order", "", "comma-separated node ordering (default: dataset column order)")
	maxParents := fs.Int("max-parents", cfg.Learn.MaxParents, "maximum parents per node")
	visitSpace := fs.Float64("visit-space", cfg.Learn.VisitSpace, "fraction of DAG space to explore across the permutation sweep")
	reportPath := fs.String("report", "", "write the permutation sweep report to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	setupLogging(cfg)

	ds, err := bnio.Load(*data, *encoding)
	if err != nil {
		return err
	}

	nodesOrder := ds.Columns()
	if *order != "" {
		nodesOrder = strings.Split(*order, ",")
	}

	out := os.Stdout
	if *reportPath != "" {
		f, err := os.Create(*reportPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	w := report.New(out)

	nodeMetric := func(node string, parents []string) (float64, error) {
		return scoring.K2NodeLog(ds, node, parents)
	}

	capPercent := *visitSpace * 100

	// Sweep every ordering of the nodes, running K2 under each, stopping
	// once the cumulative DAG-space-visited budget is exhausted.
	for _, permutation := range search.Permutations(nodesOrder) {
		res, err := search.K2(permutation, *maxParents, nodeMetric)
		if err != nil {
			return err
		}
		w.TryPermutation(permutation, res)
		if w.Done(capPercent) {
			break
		}
	}
	w.Summary()
	return nil
}

func parseEdges(columns []string, spec string) (*search.DAG, error) {
	dag := search.NewDAG()
	for _, c := range columns {
		dag.AddNode(c)
	}
	if spec == "" {
		return dag, nil
	}
	for _, e := range strings.Split(spec, ",") {
		parts := strings.SplitN(e, ">", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("predict: malformed edge %q, want Parent>Child", e)
		}
		if _, err := dag.AddEdge(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])); err != nil {
			return nil, err
		}
	}
	return dag, nil
}

func parseEvidence(spec string) (vars, vals []string, err error) {
	if spec == "" {
		return nil, nil, nil
	}
	for _, a := range strings.Split(spec, ",") {
		parts := strings.SplitN(a, "=", 2)
		if len(parts) != 2 {
			return nil, nil, fmt.Errorf("predict: malformed evidence %q, want Var=value", a)
		}
		vars = append(vars, strings.TrimSpace(parts[0]))
		vals = append(vals, strings.TrimSpace(parts[1]))
	}
	return vars, vals, nil
}

func evidenceAssignments(vars, vals []string) []string {
	out := make([]string, len(vars))
	for i := range vars {
		out[i] = fmt.Sprintf("%s=%s", vars[i], vals[i])
	}
	return out
}
