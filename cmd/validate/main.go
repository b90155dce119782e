// Command validate performs the setup-time validation scrape for a single
// location path, the check a configuration front-end runs before accepting a
// location. It distinguishes all three failure kinds so the caller can show
// a specific message: unknown location, transient connectivity, or a site
// markup change.
//
// Usage:
//
//	go run ./cmd/validate -location nederland/amsterdam
//
// Exit codes: 0 valid, 1 connection failure, 2 unknown location, 3 parsing
// failure.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/malosaaa/weerplaza-scraper/internal/config"
	"github.com/malosaaa/weerplaza-scraper/internal/domain"
	"github.com/malosaaa/weerplaza-scraper/internal/scrape"
)

func main() {
	location := flag.String("location", "", "weerplaza location path, e.g. nederland/amsterdam")
	baseURL := flag.String("base-url", config.DefaultBaseURL, "site base address")
	timeout := flag.Duration("timeout", config.DefaultTimeout, "overall scrape deadline")
	flag.Parse()

	if *location == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*baseURL, *location, *timeout))
}

func run(baseURL, location string, timeout time.Duration) int {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := scrape.NewClient(baseURL, timeout, logger)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rec, err := client.Scrape(ctx, location)
	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindNoData:
			fmt.Fprintf(os.Stderr, "INVALID: %q is not a known weerplaza location (404)\n", location)
			return 2
		case domain.KindParsing:
			fmt.Fprintf(os.Stderr, "PARSE ERROR: the weerplaza page layout has changed and the extraction rules need updating\n  cause: %v\n", err)
			return 3
		default:
			fmt.Fprintf(os.Stderr, "CONNECTION ERROR: could not reach weerplaza (transient?)\n  cause: %v\n", err)
			return 1
		}
	}

	if rec == nil {
		fmt.Printf("OK: %q resolved, page currently holds no extractable content\n", location)
		return 0
	}

	fmt.Printf("OK: %q resolved\n", location)
	fmt.Printf("  warning presence:   %s\n", rec.WarningPresence)
	if rec.Warning != nil {
		fmt.Printf("  warning:            %s — %s\n", rec.Warning.Code, rec.Warning.Description)
	}
	if rec.FlashMessage != nil {
		fmt.Printf("  flash message:      %s\n", rec.FlashMessage.Title)
	}
	fmt.Printf("  hourly entries:     %d\n", len(rec.Hourly))
	fmt.Printf("  daily entries:      %d\n", len(rec.Daily))
	if rec.CurrentTemperature != "" {
		fmt.Printf("  current temp:       %s\n", rec.CurrentTemperature)
	}
	return 0
}
