package main

import (
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/shivam-909/bidtree/internal/index"
	manualindex "github.com/shivam-909/bidtree/internal/index/manual"
	standardindex "github.com/shivam-909/bidtree/internal/index/standard"
	"github.com/shivam-909/bidtree/internal/loader"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var backends = map[string]func() index.Index{
	"manual":   manualindex.New,
	"standard": standardindex.New,
}

func newApp() *cli.App {
	var prof interface{ Stop() }

	app := &cli.App{
		Name:    "bids",
		Usage:   "load auction bids into a binary search tree and query them",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "csv",
				Usage:   "path to the bids csv export (- for stdin, .gz accepted)",
				Value:   "eBid_Monthly_Sales.csv",
				EnvVars: []string{"BIDS_CSV"},
			},
			&cli.StringFlag{
				Name:    "key",
				Usage:   "default bid id for find and remove",
				Value:   "98223",
				EnvVars: []string{"BIDS_KEY"},
			},
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "tree node management: manual or standard",
				Value:   "manual",
				EnvVars: []string{"BIDS_BACKEND"},
			},
			&cli.StringFlag{
				Name:    "symbol",
				Usage:   "currency symbol stripped from amounts",
				Value:   "$",
				EnvVars: []string{"BIDS_SYMBOL"},
			},
			&cli.StringFlag{
				Name:    "profile",
				Usage:   "write a cpu or mem profile to the working directory",
				EnvVars: []string{"BIDS_PROFILE"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log every loaded row",
			},
		},
		Before: func(cctx *cli.Context) error {
			logLevel := slog.LevelInfo
			if cctx.Bool("verbose") {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cctx.App.ErrWriter, &slog.HandlerOptions{Level: logLevel})))

			if _, ok := backends[cctx.String("backend")]; !ok {
				return fmt.Errorf("unknown backend %q", cctx.String("backend"))
			}
			if len([]rune(cctx.String("symbol"))) != 1 {
				return fmt.Errorf("currency symbol must be a single character, got %q", cctx.String("symbol"))
			}

			switch mode := cctx.String("profile"); mode {
			case "":
			case "cpu":
				prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
			case "mem":
				prof = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
			default:
				return fmt.Errorf("unknown profile mode %q", mode)
			}
			return nil
		},
		After: func(cctx *cli.Context) error {
			if prof != nil {
				prof.Stop()
			}
			return nil
		},
		Action: runMenu,
	}
	app.Commands = []*cli.Command{
		cmdMenu,
		cmdDump,
		cmdFind,
		cmdRemove,
		cmdBench,
	}
	return app
}

func run(args []string) error {
	return newApp().Run(args)
}

func newIndex(cctx *cli.Context) index.Index {
	return backends[cctx.String("backend")]()
}

func newLoader(cctx *cli.Context) *loader.Loader {
	l := loader.New(slog.Default())
	l.Symbol = []rune(cctx.String("symbol"))[0]
	return l
}

// loadIndex builds an index from the configured csv. A load that stops part
// way keeps what was read; the error is logged.
func loadIndex(cctx *cli.Context) (index.Index, error) {
	ix := newIndex(cctx)
	n, err := newLoader(cctx).LoadFile(cctx.Context, cctx.String("csv"), ix)
	if err != nil {
		if n == 0 {
			ix.Destroy()
			return nil, err
		}
		slog.Error("csv load stopped early", "loaded", n, "err", err)
	}
	slog.Info("bids loaded", "count", n, "backend", cctx.String("backend"))
	return ix, nil
}
