package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
	"github.com/joseph-ayodele/invoice-extractor/internal/normalize"
	"github.com/joseph-ayodele/invoice-extractor/internal/template"
)

// Text-mode extraction for templates without bordered tables. The invoice
// page is located among all pages, then headers come from the template's
// field regexes plus layout heuristics while line items are recovered from
// the numeric tail of each row line.

// TextSection is the parsed view of the product invoice page.
type TextSection struct {
	Text    string
	Headers map[string]string
	Rows    []RawRow
}

var (
	// qty gross discount taxable igst [cess] total
	reItemNumbers = regexp.MustCompile(`\b(\d+)\s+([\d,]+\.?\d*)\s+(-?[\d,]+\.?\d*)\s+([\d,]+\.?\d*)\s+([\d,]+\.?\d*)\s+(?:([\d,]+\.?\d*)\s+)?([\d,]+\.?\d*)\s*$`)
	reTableHeader = regexp.MustCompile(`(?i)(?:Product|Particulars).*(?:Qty|Quantity).*(?:Total)`)
	reSubHeader   = regexp.MustCompile(`^\s*(?:Amount|Value|₹|\s)+\s*$`)
	reIGSTRate    = regexp.MustCompile(`(?i)IGST:\s*([\d.]+)\s*%`)
	reHSN         = regexp.MustCompile(`(?i)HSN(?:/SAC)?\s*:\s*\d+`)
	reInState     = regexp.MustCompile(`IN-([A-Z]{2})`)
	reInStateTag  = regexp.MustCompile(`IN-\w+`)
	reProperName  = regexp.MustCompile(`(?:OD\d+\s+)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`)
	reInlineName  = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*$`)
	reBillTo      = regexp.MustCompile(`(?i)Bill\s*To`)
	reBillShipTo  = regexp.MustCompile(`(?i)Bill\s*To|Ship\s*To`)
)

// Lines that are metadata, footers, or legal boilerplate rather than item
// rows or descriptions.
var skipLinePatterns = compileAll(
	`^fsn:`, `imei`, `^\|.*cess`, `fksb_`, `handling\s*fee.*0\.00`,
	`total\s*items`, `total\s*price`, `total\s*qty`, `all\s*values`,
	`grand\s*total`, `seller\s*registered`, `fssai`, `ordered\s*through`,
	`authorized`, `e\.\s*&\s*o\.e`, `signature`, `returns\s*policy`,
	`regd\.\s*office`, `contact\s*flipkart`, `page\s+\d+\s+of\s+\d+`,
	`^\|\s*cess`, `^\|\s*$`, `^the\s+goods\s+sold`,
	`^[A-Z0-9]{10,}$`, `^[A-Z0-9]{10,}\s`,
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

var stateCodes = map[string]string{
	"MH": "Maharashtra", "KA": "Karnataka", "DL": "Delhi",
	"UP": "Uttar Pradesh", "TN": "Tamil Nadu", "GJ": "Gujarat",
	"RJ": "Rajasthan", "AP": "Andhra Pradesh", "TS": "Telangana",
	"KL": "Kerala", "WB": "West Bengal", "HR": "Haryana",
	"PB": "Punjab", "BR": "Bihar", "OR": "Odisha",
	"GA": "Goa", "MP": "Madhya Pradesh", "CG": "Chhattisgarh",
	"JH": "Jharkhand", "UK": "Uttarakhand", "HP": "Himachal Pradesh",
	"AS": "Assam",
}

// TextSectionFromPages locates the product invoice page among all page
// texts and extracts headers and line item rows from it.
func TextSectionFromPages(pageTexts []string, tpl *template.Template, logger *slog.Logger) (*TextSection, error) {
	if logger == nil {
		logger = slog.Default()
	}

	page, ok := findInvoicePage(pageTexts, tpl.GrandTotal.Keywords)
	if !ok {
		return nil, &invoice.TableExtractionError{Message: "no product invoice page found in document"}
	}
	logger.Debug("extract.textmode.page", "chars", len(page))

	headers, err := Headers(page, tpl.HeaderExtraction.Fields, logger)
	if err != nil {
		return nil, err
	}
	fillTextModeHeaders(headers, page)

	rows, err := lineItemRows(page, logger)
	if err != nil {
		return nil, err
	}

	return &TextSection{Text: page, Headers: headers, Rows: rows}, nil
}

// findInvoicePage scans pages last-to-first for the one carrying the actual
// tax invoice. Courier slips and order summaries precede it in multi-page
// documents.
func findInvoicePage(pageTexts []string, totalKeywords []string) (string, bool) {
	markers := append([]string{"grand total", "total price", "total items"}, totalKeywords...)
	for i := len(pageTexts) - 1; i >= 0; i-- {
		text := pageTexts[i]
		lowered := strings.ToLower(text)
		if !strings.Contains(lowered, "tax invoice") {
			continue
		}
		if containsAnyKeyword(lowered, markers) ||
			(strings.Contains(lowered, "order") && strings.Contains(text, "OD")) {
			return text, true
		}
	}
	return "", false
}

// fillTextModeHeaders supplies the header values the template regexes cannot
// express: a missing GST defaults to the sentinel, the customer name comes
// from the Bill To block, and the state is resolved from address lines.
func fillTextModeHeaders(headers map[string]string, page string) {
	lines := strings.Split(page, "\n")

	if headers[constants.HeaderVendorGST] == "" {
		headers[constants.HeaderVendorGST] = constants.GSTUnregistered
	}
	if headers[constants.HeaderCustomerName] == "" {
		headers[constants.HeaderCustomerName] = customerName(lines, headers[constants.HeaderVendorName])
	}

	state := headers[constants.HeaderState]
	if state != "" {
		state = normalize.Text(strings.TrimSuffix(reInStateTag.ReplaceAllString(State(state), ""), ","))
	}
	if state == "" {
		state = resolveState(lines, page)
	}
	headers[constants.HeaderState] = state
}

// customerName recovers the buyer's name from the Bill To block, or from the
// inline "VENDOR, Customer ," layout when there is no block.
func customerName(lines []string, vendorName string) string {
	for i, line := range lines {
		if !reBillTo.MatchString(line) {
			continue
		}
		for j := i + 1; j < len(lines) && j < i+3; j++ {
			m := reProperName.FindStringSubmatch(strings.TrimSpace(lines[j]))
			if m == nil {
				continue
			}
			return dedupeName(m[1])
		}
	}

	if vendorName != "" {
		for _, line := range lines {
			if !strings.Contains(line, vendorName) {
				continue
			}
			parts := strings.Split(line, ",")
			if len(parts) < 2 {
				continue
			}
			candidate := strings.TrimSpace(parts[1])
			if reInlineName.MatchString(candidate) {
				return candidate
			}
		}
	}
	return "Unknown"
}

// dedupeName collapses "Name Surname Name Surname" duplication that appears
// when billing and shipping names render side by side.
func dedupeName(name string) string {
	words := strings.Fields(name)
	if len(words) >= 4 && len(words)%2 == 0 {
		half := len(words) / 2
		first := strings.Join(words[:half], " ")
		if first == strings.Join(words[half:], " ") {
			return first
		}
	}
	return name
}

// resolveState tries, in order: state names near the Bill To / Ship To
// block, the last IN-XX address code, and a whole-text state name scan.
func resolveState(lines []string, page string) string {
	billTo := -1
	for i, line := range lines {
		if reBillShipTo.MatchString(line) {
			billTo = i
			break
		}
	}
	if billTo >= 0 {
		for j := billTo; j < len(lines) && j < billTo+12; j++ {
			for _, name := range stateCodes {
				if strings.Contains(lines[j], name) {
					return name
				}
			}
		}
	}

	if codes := reInState.FindAllStringSubmatch(page, -1); len(codes) > 0 {
		last := codes[len(codes)-1][1]
		if name, ok := stateCodes[last]; ok {
			return name
		}
		return last
	}

	found := ""
	for _, name := range stateCodes {
		if strings.Contains(page, name) {
			found = name
		}
	}
	if found != "" {
		return found
	}
	return "Unknown"
}

// lineItemRows walks the invoice page line by line after the table header,
// accumulating description text until a numeric tail completes an item row.
func lineItemRows(page string, logger *slog.Logger) ([]RawRow, error) {
	columns := []string{
		constants.FieldDescription, constants.FieldGrossValue, constants.FieldDiscount,
		constants.FieldNetValue, constants.FieldIGSTRate, constants.FieldIGSTAmount,
		constants.FieldCessAmount, constants.FieldTotal,
	}

	var rows []RawRow
	var descParts []string
	igstRate := decimal.Zero
	tableStarted := false

	for _, line := range strings.Split(page, "\n") {
		line = strings.TrimSpace(line)

		if !tableStarted {
			if reTableHeader.MatchString(line) {
				tableStarted = true
			}
			continue
		}
		if reSubHeader.MatchString(line) {
			continue
		}
		if m := reIGSTRate.FindStringSubmatch(line); m != nil {
			if rate, ok := normalize.ParsePercentage(m[1]); ok {
				igstRate = rate
			}
			continue
		}
		if reHSN.MatchString(line) {
			continue
		}
		if matchesAny(line, skipLinePatterns) {
			continue
		}

		m := reItemNumbers.FindStringSubmatchIndex(line)
		if m == nil {
			if len(line) > 2 && !strings.HasPrefix(line, "|") && !strings.HasPrefix(line, "#") {
				descParts = append(descParts, line)
			}
			continue
		}

		groups := reItemNumbers.FindStringSubmatch(line)
		prefix := strings.TrimSpace(line[:m[0]])
		switch strings.ToLower(prefix) {
		case "total", "total price", "grand total":
			// summary tail of the table, not an item
			descParts = nil
			continue
		}
		if prefix != "" {
			descParts = append(descParts, prefix)
		}
		description := normalize.Text(strings.Join(descParts, " "))
		if description == "" {
			descParts = nil
			continue
		}

		discount := groups[3]
		if d, ok := normalize.ParseDecimal(discount); ok {
			discount = d.Abs().String()
		}
		cess := groups[6]
		if cess == "" {
			cess = "0"
		}

		rows = append(rows, RawRow{
			Position: len(rows),
			Columns:  columns,
			Cells: map[string]string{
				constants.FieldDescription: description,
				constants.FieldGrossValue:  groups[2],
				constants.FieldDiscount:    discount,
				constants.FieldNetValue:    groups[4],
				constants.FieldIGSTRate:    igstRate.String(),
				constants.FieldIGSTAmount:  groups[5],
				constants.FieldCessAmount:  cess,
				constants.FieldTotal:       groups[7],
			},
		})
		logger.Debug("extract.textmode.item", "description", description)

		descParts = nil
		igstRate = decimal.Zero
	}

	if len(rows) == 0 {
		return nil, &invoice.TableExtractionError{Message: "no line items found in invoice text"}
	}
	return rows, nil
}

func matchesAny(line string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}
