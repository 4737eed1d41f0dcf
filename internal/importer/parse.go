package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"stridewms/internal"
	"stridewms/internal/util"
)

var ErrNoRows = errors.New("file contains no data rows")

// ParseFile dispatches on the uploaded file's extension.
func ParseFile(name string, blob []byte, aliases FieldAliases) ([]internal.ImportRow, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ParseCSV(bytes.NewReader(blob), aliases)
	case ".xlsx", ".xls":
		return ParseXLSX(blob, aliases)
	case ".pdf":
		return ParsePDF(blob)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", name)
	}
}

func ParseCSV(r io.Reader, aliases FieldAliases) ([]internal.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("reading header row: %w", err)
	}
	fields := aliases.Resolve(headers)

	out := []internal.ImportRow{}
	lineNo := 1
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", lineNo+1, err)
		}
		lineNo++
		if isEmptyRow(cells) {
			continue
		}
		out = append(out, rowFromCells(fields, cells, lineNo))
	}

	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

func ParseXLSX(blob []byte, aliases FieldAliases) ([]internal.ImportRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []internal.ImportRow{}
	lineNo := 0
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}

		fields := aliases.Resolve(rows[0])
		if len(fields) == 0 {
			continue
		}
		for i, cells := range rows[1:] {
			if isEmptyRow(cells) {
				continue
			}
			lineNo++
			row := rowFromCells(fields, cells, i+2)
			row.LineNo = lineNo
			out = append(out, row)
		}
	}

	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

// rate-sheet PDFs carry no header row; each usable line is expected to be
// "CODE  Service name  Unit  Rate". Best effort; anything else is skipped.
var pdfLinePattern = regexp.MustCompile(`^(\S+)\s+(.+?)\s+(Day|Item|Task)\s+\$?(-?[\d.,]+)$`)

func ParsePDF(blob []byte) ([]internal.ImportRow, error) {
	r, err := pdf.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, err
	}

	out := []internal.ImportRow{}
	lineNo := 0
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, line := range splitLines(text) {
			m := pdfLinePattern.FindStringSubmatch(util.CollapseSpaces(line))
			if m == nil {
				continue
			}
			lineNo++
			rate, _ := util.ParseRate(m[4])
			out = append(out, internal.ImportRow{
				LineNo:      lineNo,
				ServiceCode: util.NormalizeServiceCode(m[1]),
				ServiceName: m[2],
				BillingUnit: m[3],
				Rate:        rate,
				RateRaw:     m[4],
				Active:      true,
			})
		}
	}

	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

func rowFromCells(fields map[string]int, cells []string, lineNo int) internal.ImportRow {
	pick := func(field string) (string, bool) {
		idx, ok := fields[field]
		if !ok || idx >= len(cells) {
			return "", false
		}
		return strings.TrimSpace(cells[idx]), true
	}

	row := internal.ImportRow{LineNo: lineNo, Active: true}

	if v, ok := pick(FieldClassCode); ok {
		row.ClassCode = strings.ToUpper(v)
	}
	if v, ok := pick(FieldServiceCode); ok {
		row.ServiceCode = util.NormalizeServiceCode(v)
	}
	if v, ok := pick(FieldServiceName); ok {
		row.ServiceName = util.CollapseSpaces(v)
	}
	if v, ok := pick(FieldBillingUnit); ok {
		row.BillingUnit = canonicalBillingUnit(v)
	}
	if v, ok := pick(FieldRate); ok {
		row.RateRaw = v
		// Unparseable rates fall back to 0, which validation accepts.
		// Kept from the original behavior; the raw cell is preserved so
		// the preview shows what was read.
		if parsed, ok := util.ParseRate(v); ok {
			row.Rate = parsed
		}
	}
	if v, ok := pick(FieldTaxable); ok {
		row.Taxable = util.ParseBool(v)
	}
	if v, ok := pick(FieldAssemblyRequired); ok {
		row.AssemblyRequired = util.ParseBool(v)
	}
	if v, ok := pick(FieldActive); ok {
		row.Active = util.ParseBool(v)
	}
	if v, ok := pick(FieldNotes); ok {
		row.Notes = v
	}

	return row
}

// canonicalBillingUnit normalizes case but keeps unknown values verbatim so
// validation can report them.
func canonicalBillingUnit(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "day":
		return string(internal.BillingDay)
	case "item":
		return string(internal.BillingItem)
	case "task":
		return string(internal.BillingTask)
	default:
		return strings.TrimSpace(v)
	}
}

func isEmptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
