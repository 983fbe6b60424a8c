package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bolso-dev/bolso/internal/model"
)

// NubankParser parses NuConta account statement CSV exports. The layout
// is "Data,Valor,Identificador,Descrição" with DD/MM/YYYY dates and
// dot-decimal amounts, credits positive and debits negative.
type NubankParser struct{}

const (
	nubankDateFormat = "02/01/2006"
	nubankNumFields  = 4
	nubankColDate    = 0
	nubankColAmount  = 1
	nubankColRef     = 2
	nubankColDesc    = 3
)

// Format returns the parser name.
func (p *NubankParser) Format() string { return "nubank" }

// Parse reads a NuConta CSV and returns StatementEntries.
func (p *NubankParser) Parse(r io.Reader) ([]model.StatementEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = nubankNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading nubank CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []model.StatementEntry
	for i, rec := range records[1:] {
		entry, err := parseNubankRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseNubankRow(rec []string) (model.StatementEntry, error) {
	date, err := time.Parse(nubankDateFormat, rec[nubankColDate])
	if err != nil {
		return model.StatementEntry{}, fmt.Errorf("parsing date %q: %w", rec[nubankColDate], err)
	}

	amount, err := decimal.NewFromString(rec[nubankColAmount])
	if err != nil {
		return model.StatementEntry{}, fmt.Errorf("parsing amount %q: %w", rec[nubankColAmount], err)
	}

	ref := strings.TrimSpace(rec[nubankColRef])
	if ref == "" {
		ref = makeNubankRef(date, rec[nubankColDesc])
	}

	return model.StatementEntry{
		Date:        date,
		Description: rec[nubankColDesc],
		Amount:      amount,
		Reference:   ref,
	}, nil
}

// makeNubankRef creates a fallback reference like nubank_20240115_PIXJOAO.
func makeNubankRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("nubank_%s_%s", date.Format("20060102"), prefix)
}
