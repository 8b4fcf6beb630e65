// Package pdf adapts the tabula PDF library to the pipeline's collaborator
// contracts: plain text per page and bordered-table cell geometry.
package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/tabula"

	"github.com/joseph-ayodele/invoice-extractor/internal/extract"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
	"github.com/joseph-ayodele/invoice-extractor/internal/pipeline"
)

// minTextLen is the threshold below which page-1 text is treated as absent:
// scanned/image-based documents render a handful of stray glyphs at most.
const minTextLen = 10

// Loader implements pipeline.DocumentLoader and pipeline.TableSource on top
// of tabula.
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load validates the path and extracts the text of every page. A document
// whose first page has no usable text layer is unsupported.
func (l *Loader) Load(_ context.Context, path string) (pipeline.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return pipeline.Document{}, &invoice.DocumentLoadError{Path: path, Message: err.Error()}
	}
	if info.IsDir() {
		return pipeline.Document{}, &invoice.DocumentLoadError{Path: path, Message: "is a directory"}
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pipeline.Document{}, &invoice.DocumentLoadError{Path: path, Message: "not a PDF file"}
	}

	count, err := tabula.Open(path).PageCount()
	if err != nil {
		return pipeline.Document{}, &invoice.DocumentLoadError{Path: path, Message: fmt.Sprintf("open: %v", err)}
	}
	if count == 0 {
		return pipeline.Document{}, &invoice.DocumentLoadError{Path: path, Message: "document has no pages"}
	}

	texts := make([]string, 0, count)
	for page := 1; page <= count; page++ {
		text, warnings, err := tabula.Open(path).Pages(page).Text()
		if err != nil {
			return pipeline.Document{}, &invoice.DocumentLoadError{Path: path, Message: fmt.Sprintf("extract page %d: %v", page, err)}
		}
		for _, w := range warnings {
			l.logger.Warn("pdf.extract.warning", "page", page, "warning", w.Message)
		}
		texts = append(texts, text)
	}

	if len(strings.TrimSpace(texts[0])) < minTextLen {
		return pipeline.Document{}, &invoice.UnsupportedDocumentError{Path: path}
	}

	l.logger.Debug("pdf.load.ok", "pages", count)
	return pipeline.Document{Path: path, PageTexts: texts}, nil
}

// Tables returns the bordered tables detected on one page, first row as
// header.
func (l *Loader) Tables(_ context.Context, path string, page int) ([]extract.Table, error) {
	doc, err := tabula.AnalyzeDocument(path)
	if err != nil {
		return nil, &invoice.TableExtractionError{Message: fmt.Sprintf("analyze %s: %v", path, err)}
	}
	p := doc.GetPage(page)
	if p == nil {
		return nil, nil
	}

	var tables []extract.Table
	for _, t := range p.ExtractTables() {
		if t.RowCount() < 2 {
			continue
		}
		header := make([]string, 0, t.ColCount())
		for _, cell := range t.Rows[0] {
			header = append(header, cell.Text)
		}
		rows := make([][]string, 0, t.RowCount()-1)
		for _, row := range t.Rows[1:] {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				cells = append(cells, cell.Text)
			}
			rows = append(rows, cells)
		}
		tables = append(tables, extract.Table{Header: header, Rows: rows})
	}
	l.logger.Debug("pdf.tables.ok", "page", page, "tables", len(tables))
	return tables, nil
}
