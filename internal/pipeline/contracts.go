package pipeline

import (
	"context"

	"github.com/joseph-ayodele/invoice-extractor/internal/extract"
)

// Document is the loaded view of one input file: page count and extractable
// plain text per page, in order.
type Document struct {
	Path      string
	PageTexts []string
}

// PageCount returns the number of pages with extracted text.
func (d Document) PageCount() int { return len(d.PageTexts) }

// DocumentLoader opens and validates the input document. Implementations
// return *invoice.DocumentLoadError for missing/unreadable/non-PDF inputs
// and *invoice.UnsupportedDocumentError when no text layer exists.
type DocumentLoader interface {
	Load(ctx context.Context, path string) (Document, error)
}

// TableSource returns zero or more candidate bordered tables detected on a
// page (1-indexed), each as a header row plus data rows of cell strings.
type TableSource interface {
	Tables(ctx context.Context, path string, page int) ([]extract.Table, error)
}
