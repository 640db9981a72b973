package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/shivam-909/bidtree/internal/index"
)

var cmdMenu = &cli.Command{
	Name:   "menu",
	Usage:  "interactive menu (the default)",
	Action: runMenu,
}

const menuText = `Menu:
  1. Load Bids
  2. Display All Bids
  3. Find Bid
  4. Remove Bid
  5. Display Bids Pre-Order
  6. Display Bids Post-Order
  9. Exit
Enter choice: `

type menu struct {
	cctx *cli.Context
	in   *bufio.Scanner
	out  io.Writer
	ix   index.Index
}

func runMenu(cctx *cli.Context) error {
	m := &menu{
		cctx: cctx,
		in:   bufio.NewScanner(cctx.App.Reader),
		out:  cctx.App.Writer,
		ix:   newIndex(cctx),
	}
	defer m.ix.Destroy()
	return m.loop()
}

// readLine returns the next trimmed input line; ok is false at end of input.
func (m *menu) readLine() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// promptID asks for a bid id, falling back to the --key default on an
// empty answer.
func (m *menu) promptID() (string, bool) {
	def := m.cctx.String("key")
	fmt.Fprintf(m.out, "Enter bid id [%s]: ", def)
	id, ok := m.readLine()
	if !ok {
		return "", false
	}
	if id == "" {
		id = def
	}
	return id, true
}

func (m *menu) loop() error {
	for {
		fmt.Fprint(m.out, menuText)
		line, ok := m.readLine()
		if !ok {
			break
		}
		choice, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(m.out, "Invalid choice %q.\n", line)
			continue
		}

		switch choice {
		case 1:
			if err := m.load(); err != nil {
				return err
			}
		case 2:
			displayAll(m.out, m.ix, index.InOrder)
		case 3:
			id, ok := m.promptID()
			if !ok {
				break
			}
			findBid(m.out, m.ix, id)
		case 4:
			id, ok := m.promptID()
			if !ok {
				break
			}
			if !m.ix.Remove(id) {
				fmt.Fprintf(m.out, "Bid Id %s not found.\n", id)
			}
		case 5:
			displayAll(m.out, m.ix, index.PreOrder)
		case 6:
			displayAll(m.out, m.ix, index.PostOrder)
		case 9:
			fmt.Fprintln(m.out, "Good bye.")
			return nil
		default:
			fmt.Fprintf(m.out, "Invalid choice %d.\n", choice)
		}
	}
	if err := m.in.Err(); err != nil {
		return fmt.Errorf("reading menu input: %w", err)
	}
	fmt.Fprintln(m.out, "Good bye.")
	return nil
}

// load reads the csv into the current tree, on top of anything already
// loaded. A missing file is reported and the menu continues.
func (m *menu) load() error {
	path := m.cctx.String("csv")
	fmt.Fprintf(m.out, "Loading CSV file %s\n", path)

	start := time.Now()
	n, err := newLoader(m.cctx).LoadFile(m.cctx.Context, path, m.ix)
	elapsed := time.Since(start)
	if err != nil {
		if ctxErr := m.cctx.Context.Err(); ctxErr != nil {
			return ctxErr
		}
		fmt.Fprintf(m.out, "load stopped: %v\n", err)
	}

	fmt.Fprintf(m.out, "%d bids read\n", n)
	printElapsed(m.out, elapsed)
	return nil
}
