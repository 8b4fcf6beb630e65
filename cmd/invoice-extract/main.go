package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/internal/export"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
	"github.com/joseph-ayodele/invoice-extractor/internal/pdf"
	"github.com/joseph-ayodele/invoice-extractor/internal/pipeline"
	"github.com/joseph-ayodele/invoice-extractor/internal/template"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		input        = flag.String("input", "", "path to the invoice PDF (required)")
		templateName = flag.String("template", "", "template name, e.g. zomato (required unless --template-file)")
		templateFile = flag.String("template-file", "", "explicit template YAML path, overrides --template")
		templatesDir = flag.String("templates-dir", "templates", "directory holding <name>.yaml template files")
		out          = flag.String("output", "", "output XLSX path (defaults to <input dir>/output/<invoice_number>_extracted.xlsx)")
		verbose      = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *input == "" {
		printError("Error: --input is required\n")
		os.Exit(2)
	}
	tplPath := *templateFile
	if tplPath == "" {
		if *templateName == "" {
			printError("Error: --template or --template-file is required\n")
			os.Exit(2)
		}
		tplPath = filepath.Join(*templatesDir, *templateName+".yaml")
	}

	tpl, err := template.LoadFile(tplPath)
	if err != nil {
		printError("[ERROR] %s: %v\n", invoice.FailureKind(err), err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	loader := pdf.NewLoader(logger)
	runner := pipeline.NewRunner(loader, loader, logger)

	inv, err := runner.Run(ctx, *input, tpl)
	if err != nil {
		printError("[ERROR] %s: %v\n", invoice.FailureKind(err), err)
		printError("  File: %s\n", *input)
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outDir := filepath.Join(filepath.Dir(*input), "output")
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			printError("Error: create output dir: %v\n", err)
			os.Exit(1)
		}
		outPath = filepath.Join(outDir, inv.InvoiceNumber+"_extracted.xlsx")
	}

	if err := export.NewWriter(logger).WriteFile(inv, outPath); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("invoice extraction OK",
		"invoice_number", inv.InvoiceNumber,
		"line_items", len(inv.LineItems),
		"grand_total", inv.GrandTotalRounded.StringFixed(2),
		"output", outPath,
	)
}
