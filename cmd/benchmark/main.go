// Command benchmark runs pkg/harness's statistical benchmark against an
// in-process paratree Container and prints throughput with a 95%
// confidence interval plus latency percentiles. paratree is an embedded
// data structure, not a network service, so the run is direct and
// in-process rather than driving load over a client connection.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"paratree/pkg/config"
	"paratree/pkg/harness"
	"paratree/pkg/paratree"
	"paratree/pkg/workload"
)

func main() {
	cfg := config.Default()

	strategy := paratree.Intelligent
	if len(os.Args) > 1 {
		s, err := paratree.ParseStrategy(os.Args[1])
		if err != nil {
			fmt.Printf("invalid strategy %q, using INTELLIGENT: %v\n", os.Args[1], err)
		} else {
			strategy = s
		}
	}

	fmt.Println("=== paratree Benchmark ===")
	fmt.Printf("strategy=%s shards=%d rounds=%d ops_per_round=%d\n",
		strategy, cfg.Container.NumShards, cfg.Harness.Rounds, cfg.Harness.OpsPerRound)
	fmt.Println()

	container, err := paratree.New[string, string](paratree.Config{
		NumShards:               cfg.Container.NumShards,
		Strategy:                strategy,
		VirtualNodesPerShard:    cfg.Container.VirtualNodesPerShard,
		HotspotFactor:           cfg.Container.HotspotFactor,
		HotspotMinAbs:           cfg.Container.HotspotMinAbs,
		MaxConsecutiveRedirects: cfg.Container.MaxConsecutiveRedirects,
		RedirectCooldown:        cfg.Container.RedirectCooldown,
		RefreshPeriod:           cfg.Container.RefreshPeriod,
	})
	if err != nil {
		fmt.Printf("failed to construct container: %v\n", err)
		os.Exit(1)
	}
	defer container.Close()

	h := harness.New[string, string](container, nil,
		func(n int64) string { return strconv.FormatInt(n, 10) },
		func(n int64) string { return "value-" + strconv.FormatInt(n, 10) },
	)

	gen, err := workload.NewZipfian(1, 0.99, 0, 1_000_000)
	if err != nil {
		fmt.Printf("failed to construct workload generator: %v\n", err)
		os.Exit(1)
	}

	report, err := h.Run(context.Background(), harness.RunConfig{
		WarmupOps:   cfg.Harness.WarmupOps,
		OpsPerRound: cfg.Harness.OpsPerRound,
		Rounds:      cfg.Harness.Rounds,
		Concurrency: 8,
		InsertRatio: 0.3,
		RemoveRatio: 0.1,
	}, gen, 1)
	if err != nil {
		fmt.Printf("benchmark run failed: %v\n", err)
		os.Exit(1)
	}

	printReport(report)
}

func printReport(r harness.Report) {
	fmt.Printf("run_id: %s\n", r.RunID)
	fmt.Printf("rounds: %d\n", len(r.Rounds))
	for i, round := range r.Rounds {
		fmt.Printf("  round %2d: ops=%d duration=%v ops/sec=%.1f\n", i, round.Ops, round.Duration, round.OpsPerSec)
	}
	fmt.Println()
	fmt.Printf("mean ops/sec:   %.1f\n", r.MeanOpsPerSec)
	fmt.Printf("stddev ops/sec: %.1f\n", r.StddevOpsPerSec)
	fmt.Printf("95%% CI:         [%.1f, %.1f]\n", r.CI95Low, r.CI95High)
	fmt.Println()
	fmt.Printf("P50 latency:    %v\n", r.P50)
	fmt.Printf("P90 latency:    %v\n", r.P90)
	fmt.Printf("P99 latency:    %v\n", r.P99)
	fmt.Printf("P99.9 latency:  %v\n", r.P999)
}
