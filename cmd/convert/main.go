package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"kameo_report/internal/config"
	"kameo_report/internal/logger"
	"kameo_report/internal/services/converter"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	inputFlag := flag.String("input", cfg.SourcePath, "Investment export: local path, file://, http(s):// or s3://bucket/key")
	outputFlag := flag.String("output", cfg.OutputDir, "Directory for the report files (empty skips local files)")
	formatsFlag := flag.String("formats", strings.Join(cfg.OutputFormats, ","), "Comma separated output formats: xlsx, csv")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Kameo investment report converter

Reads a Kameo investment export and writes a per-transaction table
(transformed_kameo) and a per-company summary (transformed_kameo_lender).
Backends enabled in the environment (S3, Postgres, Mongo) receive the
report too.

Usage:
  convert [flags]

Flags:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *versionFlag {
		fmt.Printf("kameo-report-convert v%s\n", version)
		os.Exit(0)
	}

	cfg.SourcePath = *inputFlag
	cfg.OutputDir = *outputFlag
	cfg.OutputFormats = config.SplitList(*formatsFlag)

	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := cfg.Connect(setupCtx); err != nil {
		cfg.Close(context.Background())
		log.Fatal().Err(err).Msg("backend connection failed")
	}
	defer cfg.Close(context.Background())

	svc, err := converter.FromConfig(setupCtx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	res, err := svc.Convert(ctx, converter.Request{FilePath: cfg.SourcePath})
	printSummary(res)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printSummary(res converter.Result) {
	fmt.Printf("Run:          %s\n", res.RunID)
	fmt.Printf("Source:       %s\n", res.FilePath)
	fmt.Printf("Transactions: %d\n", res.Transactions)
	fmt.Printf("Lenders:      %d\n", res.Lenders)
	if res.Skipped > 0 {
		fmt.Printf("Skipped:      %d (LOG_LEVEL=debug lists them)\n", res.Skipped)
	}
	for _, o := range res.Outputs {
		fmt.Printf("  -> %s\n", o)
	}
	fmt.Printf("Took:         %s\n", res.Duration.Round(time.Millisecond))
}

