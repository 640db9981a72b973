package main

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/shivam-909/bidtree/internal/index"
)

var cmdDump = &cli.Command{
	Name:  "dump",
	Usage: "load the csv and print every bid",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "order",
			Usage: "traversal order: in, pre or post",
			Value: "in",
		},
	},
	Action: func(cctx *cli.Context) error {
		order, err := index.ParseOrder(cctx.String("order"))
		if err != nil {
			return err
		}
		ix, err := loadIndex(cctx)
		if err != nil {
			return err
		}
		defer ix.Destroy()

		displayAll(cctx.App.Writer, ix, order)
		return nil
	},
}

var cmdFind = &cli.Command{
	Name:      "find",
	Usage:     "load the csv and look up one bid",
	ArgsUsage: "[bid-id]",
	Action: func(cctx *cli.Context) error {
		id := cctx.Args().First()
		if id == "" {
			id = cctx.String("key")
		}
		ix, err := loadIndex(cctx)
		if err != nil {
			return err
		}
		defer ix.Destroy()

		findBid(cctx.App.Writer, ix, id)
		return nil
	},
}

var cmdRemove = &cli.Command{
	Name:      "remove",
	Usage:     "load the csv, remove bids and print what is left",
	ArgsUsage: "[bid-id...]",
	Action: func(cctx *cli.Context) error {
		ids := cctx.Args().Slice()
		if len(ids) == 0 {
			ids = []string{cctx.String("key")}
		}
		ix, err := loadIndex(cctx)
		if err != nil {
			return err
		}
		defer ix.Destroy()

		for _, id := range ids {
			if !ix.Remove(id) {
				fmt.Fprintf(cctx.App.Writer, "Bid Id %s not found.\n", id)
			}
		}
		displayAll(cctx.App.Writer, ix, index.InOrder)
		return nil
	},
}

var cmdBench = &cli.Command{
	Name:  "bench",
	Usage: "time a random insert/remove workload against every backend",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "ops",
			Usage: "operations per backend",
			Value: 1000000,
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "workload seed; equal seeds replay equal workloads",
			Value: 42,
		},
	},
	Action: func(cctx *cli.Context) error {
		results, err := bench(cctx, cctx.Int("ops"), cctx.Int64("seed"))
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintln(cctx.App.Writer, r)
		}
		return nil
	},
}

type benchResult struct {
	backend string
	ops     int
	size    int
	elapsed time.Duration
}

func (r benchResult) String() string {
	var average time.Duration
	if r.ops > 0 {
		average = r.elapsed / time.Duration(r.ops)
	}
	return fmt.Sprintf("%-8s || %d OPS || %d BIDS LEFT || TOTAL: %v || AVERAGE: %v", r.backend, r.ops, r.size, r.elapsed, average)
}

// bench runs one goroutine per backend. Each goroutine owns its tree.
func bench(cctx *cli.Context, ops int, seed int64) ([]benchResult, error) {
	names := []string{"manual", "standard"}
	results := make([]benchResult, len(names))

	g, ctx := errgroup.WithContext(cctx.Context)
	for i, name := range names {
		g.Go(func() error {
			ix := backends[name]()
			defer ix.Destroy()
			w := index.NewWorkload(seed)

			start := time.Now()
			for op := range ops {
				if op%4096 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				w.Act(ix)
			}
			results[i] = benchResult{
				backend: name,
				ops:     ops,
				size:    ix.Len(),
				elapsed: time.Since(start),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func displayBid(w io.Writer, r index.Record) {
	fmt.Fprintln(w, index.Format(r))
}

func displayAll(w io.Writer, ix index.Index, order index.Order) {
	index.Walk(ix, order, func(r index.Record) bool {
		displayBid(w, r)
		return true
	})
}

func findBid(w io.Writer, ix index.Index, id string) {
	start := time.Now()
	r, ok := ix.Search(id)
	elapsed := time.Since(start)

	if ok {
		displayBid(w, r)
	} else {
		fmt.Fprintf(w, "Bid Id %s not found.\n", id)
	}
	printElapsed(w, elapsed)
}

func printElapsed(w io.Writer, d time.Duration) {
	fmt.Fprintf(w, "time: %d microseconds\n", d.Microseconds())
	fmt.Fprintf(w, "time: %f seconds\n", d.Seconds())
}
