// Package pipeline coordinates one document run: load, extract, classify,
// assemble, certify. Each stage is a pure function of its predecessor's
// output; a run either ends with a certified Invoice or fails atomically
// with a typed error. Runners share nothing across runs except the
// immutable template, so independent documents may be processed
// concurrently with separate Run calls.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/assemble"
	"github.com/joseph-ayodele/invoice-extractor/internal/classify"
	"github.com/joseph-ayodele/invoice-extractor/internal/extract"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
	"github.com/joseph-ayodele/invoice-extractor/internal/template"
	"github.com/joseph-ayodele/invoice-extractor/internal/validate"
)

// Runner wires the external collaborators to the extraction stages.
type Runner struct {
	logger *slog.Logger
	loader DocumentLoader
	tables TableSource
}

func NewRunner(loader DocumentLoader, tables TableSource, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger, loader: loader, tables: tables}
}

// Run processes a single document against a template and returns the
// certified invoice.
func (r *Runner) Run(ctx context.Context, path string, tpl *template.Template) (*invoice.Invoice, error) {
	logger := r.logger.With("run_id", uuid.New().String(), "template", tpl.Meta.Name, "file", path)

	doc, err := r.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	logger.Info("pipeline.load.ok", "pages", doc.PageCount())

	switch tpl.TableExtraction.Mode {
	case constants.TableModeLattice:
		return r.runLattice(ctx, doc, tpl, logger)
	case constants.TableModeText:
		return r.runText(doc, tpl, logger)
	default:
		// unreachable: template.Load rejects unknown modes
		return nil, fmt.Errorf("unhandled table mode %q", tpl.TableExtraction.Mode)
	}
}

// runLattice drives the bordered-table path: headers from page-1 text,
// rows from the geometry extractor.
func (r *Runner) runLattice(ctx context.Context, doc Document, tpl *template.Template, logger *slog.Logger) (*invoice.Invoice, error) {
	if doc.PageCount() > 1 {
		logger.Warn("pipeline.multipage", "pages", doc.PageCount(), "processing_page", 1)
	}
	text := doc.PageTexts[0]

	headers, err := extract.Headers(text, tpl.HeaderExtraction.Fields, logger)
	if err != nil {
		return nil, err
	}
	headers[constants.HeaderState] = extract.State(headers[constants.HeaderState])

	rows, err := r.latticeRows(ctx, doc.Path, tpl, logger)
	if err != nil {
		return nil, err
	}

	classified := classify.Rows(rows, tpl.RowClassification, logger)

	// Lattice tables carry their own total row; unlike the text path there
	// is no regex fallback when it is missing.
	gt, found, err := classify.GrandTotalFromRows(classified, logger)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &invoice.TableExtractionError{Message: "no grand-total row classified in table"}
	}

	return r.finish(tpl, headers, classified, gt, logger)
}

// latticeRows asks the geometry collaborator for candidate tables and
// normalizes the first one whose header matches the template's columns.
func (r *Runner) latticeRows(ctx context.Context, path string, tpl *template.Template, logger *slog.Logger) ([]extract.RawRow, error) {
	tables, err := r.tables.Tables(ctx, path, 1)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, &invoice.TableExtractionError{Message: "no bordered tables found on page 1"}
	}

	for i, table := range tables {
		rows, err := extract.NormalizeTable(table, tpl.TableExtraction, logger)
		if err == nil {
			logger.Debug("pipeline.table.selected", "index", i, "rows", len(rows))
			return rows, nil
		}
	}
	return nil, &invoice.TableExtractionError{Message: fmt.Sprintf(
		"none of %d detected tables match required columns %v",
		len(tables), tpl.TableExtraction.RequiredColumns)}
}

// runText drives the lineless path: the invoice page is located among all
// pages and parsed from raw text.
func (r *Runner) runText(doc Document, tpl *template.Template, logger *slog.Logger) (*invoice.Invoice, error) {
	section, err := extract.TextSectionFromPages(doc.PageTexts, tpl, logger)
	if err != nil {
		return nil, err
	}

	classified := classify.Rows(section.Rows, tpl.RowClassification, logger)

	gt, found, err := classify.GrandTotalFromRows(classified, logger)
	if err != nil {
		return nil, err
	}
	if !found {
		gt, err = classify.GrandTotalFromText(section.Text, tpl.GrandTotal)
		if err != nil {
			return nil, err
		}
		logger.Info("pipeline.total.fallback", "raw", gt.Raw)
	}

	return r.finish(tpl, section.Headers, classified, gt, logger)
}

// finish assembles the draft and hands it to the certification gate.
func (r *Runner) finish(tpl *template.Template, headers map[string]string, classified []classify.ClassifiedRow, gt classify.GrandTotal, logger *slog.Logger) (*invoice.Invoice, error) {
	asm := assemble.New(tpl, logger)
	items, err := asm.LineItems(classified)
	if err != nil {
		return nil, err
	}
	draft, err := asm.Draft(headers, items, gt)
	if err != nil {
		return nil, err
	}

	inv, err := validate.Certify(draft, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("pipeline.certify.ok",
		"invoice_number", inv.InvoiceNumber,
		"line_items", len(inv.LineItems),
		"grand_total", inv.GrandTotalRounded,
	)
	return inv, nil
}
