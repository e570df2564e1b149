// Program to check that a dataset source is reachable and parses.
// Prints row counts, the year extent and the demographic groups found.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/dataset"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/filter"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

func main() {
	cfg := model.DefaultConfig()
	flag.StringVar(&cfg.Source.Owner, "owner", cfg.Source.Owner, "GitHub owner")
	flag.StringVar(&cfg.Source.Repo, "repo", cfg.Source.Repo, "GitHub repository")
	flag.StringVar(&cfg.Source.Path, "path", cfg.Source.Path, "CSV path inside the repository")
	flag.StringVar(&cfg.Source.Branch, "branch", cfg.Source.Branch, "branch")
	flag.BoolVar(&cfg.HTTP.RespectRobots, "robots", false, "check robots.txt before downloading")
	flag.Parse()

	fmt.Println("=== Dataset Source Check ===")
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rawURL, err := dataset.SourceURL(cfg.HTTP.BaseURL, cfg.Source)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Source: %s\n", cfg.Source)
	fmt.Printf("URL:    %s\n", rawURL)
	fmt.Println(strings.Repeat("-", 60))

	start := time.Now()
	body, err := dataset.NewFetcher(cfg.HTTP).Fetch(ctx, rawURL)
	if err != nil {
		fail(err)
	}
	fmt.Printf("  ✓ Downloaded %d bytes in %v\n", len(body), time.Since(start).Round(time.Millisecond))

	table, stats, err := dataset.Parse(bytes.NewReader(body), cfg.Load.CauseFilter)
	if err != nil {
		fail(err)
	}
	fmt.Printf("  ✓ Parsed %d rows, %d match %q\n", stats.Rows, stats.CauseMatch, cfg.Load.CauseFilter)
	if stats.MissingYear > 0 {
		fmt.Printf("  ⚠️  Dropped %d rows without a year\n", stats.MissingYear)
	}
	if stats.MissingVal > 0 {
		fmt.Printf("  ⚠️  Dropped %d rows without a numeric val\n", stats.MissingVal)
	}

	first, last, ok := filter.YearBounds(table)
	if !ok {
		fmt.Println("  ✗ No rows left after filtering")
		os.Exit(1)
	}
	fmt.Printf("  Years:  %d to %d\n", first, last)
	fmt.Printf("  Groups: %s\n", strings.Join(filter.UniqueRaces(table), ", "))

	var missing []string
	for _, a := range model.AgeGroups() {
		if filter.ForDistribution(table, []string{a}, nil, nil).Empty() {
			missing = append(missing, a)
		}
	}
	if len(missing) > 0 {
		fmt.Printf("  ⚠️  Age groups without rows: %s\n", strings.Join(missing, ", "))
	} else {
		fmt.Println("  ✓ All 19 age groups present")
	}
}

func fail(err error) {
	fmt.Printf("  ✗ %v\n", err)
	os.Exit(1)
}
