package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/brightsteps/brightsteps/internal/dashboard/export"
	"github.com/brightsteps/brightsteps/internal/kpi"
	"github.com/brightsteps/brightsteps/internal/roster"
)

// RosterOptions defines available flags for the roster command.
type RosterOptions struct {
	Format  string
	Seed    uint64
	Today   time.Time
	Summary bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// ParseRosterFlags reads roster command flags from args.
func ParseRosterFlags(args []string, stderr io.Writer) (RosterOptions, error) {
	fs := flag.NewFlagSet("roster", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := RosterOptions{Stderr: stderr}
	fs.StringVar(&opts.Format, "format", "csv", "output format: csv or json")
	fs.Uint64Var(&opts.Seed, "seed", 0, "random seed; 0 picks a fresh one")
	fs.BoolVar(&opts.Summary, "summary", false, "print KPI summaries instead of weekly records")
	if err := fs.Parse(args); err != nil {
		return RosterOptions{}, err
	}
	return opts, nil
}

// RosterCommand generates a synthetic roster and writes it to stdout.
func RosterCommand(opts RosterOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Today.IsZero() {
		opts.Today = time.Now()
	}
	rng := roster.NewRand()
	if opts.Seed != 0 {
		rng = roster.NewSeededRand(opts.Seed)
	}
	r := roster.New(opts.Today, rng)

	if opts.Summary {
		return writeSummaries(opts, r, rng)
	}

	var err error
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "csv", "":
		err = export.WriteRosterCSV(opts.Stdout, r)
	case "json":
		err = export.WriteRosterJSON(opts.Stdout, r)
	default:
		_, _ = fmt.Fprintf(opts.Stderr, "roster: unknown format %q (expected csv or json)\n", opts.Format)
		return 2
	}
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "roster: %v\n", err)
		return 1
	}
	return 0
}

func writeSummaries(opts RosterOptions, r roster.Roster, rng roster.Rand) int {
	for _, c := range r.Clients {
		s, err := kpi.Compute(c.Records, rng)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "roster: client %d: %v\n", c.ID, err)
			return 1
		}
		_, _ = fmt.Fprintf(opts.Stdout, "%d\t%s\tmastery=%s\tbehavior=%s\tparent=%s\tforecast=%s\n",
			c.ID, c.Name, s.Mastery(), s.BehaviorReduction(), s.ParentTraining(), s.Forecast())
	}
	return 0
}
