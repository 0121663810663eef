package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"fixture_lend_tool/models"
)

const fixtureSheet = "Fixtures"

// XLSX reads the fixture inventory and borrow ledger from two spreadsheet
// files, the same files the shop floor already maintains by hand.
type XLSX struct {
	FixturePath string
	LedgerPath  string
}

func NewXLSX(fixturePath, ledgerPath string) *XLSX {
	return &XLSX{FixturePath: fixturePath, LedgerPath: ledgerPath}
}

func (x *XLSX) LoadFixtures(ctx context.Context) ([]models.FixtureRecord, error) {
	f, err := excelize.OpenFile(x.FixturePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrSourceUnavailable, x.FixturePath, err)
	}
	defer f.Close()

	rows, err := f.GetRows(fixtureSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrSchema, fixtureSheet, err)
	}

	// The sheet carries a title row above the real header, so scan for the
	// row that actually contains "Article".
	header := -1
	var cols map[string]int
	for i, row := range rows {
		m := indexColumns(row)
		if _, ok := m["Article"]; ok {
			header, cols = i, m
			break
		}
	}
	if header < 0 {
		return nil, fmt.Errorf("%w: no header row with an Article column", ErrSchema)
	}
	for _, required := range []string{"Article", "Fixture Type", "Location"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchema, required)
		}
	}

	var out []models.FixtureRecord
	for _, row := range rows[header+1:] {
		rec := models.FixtureRecord{
			Article:     cell(row, cols, "Article"),
			PartNumber:  cell(row, cols, "Part Number"),
			Name:        cell(row, cols, "Name"),
			FixtureType: cell(row, cols, "Fixture Type"),
			Description: cell(row, cols, "Fixture Description"),
			Location:    cell(row, cols, "Location"),
			TotalUnits:  parseUnits(cell(row, cols, "Available Units (Qty.)")),
		}
		if rec.Article == "" {
			continue
		}
		rec.Classify()
		out = append(out, rec)
	}
	return out, nil
}

func (x *XLSX) LoadLoans(ctx context.Context) ([]models.LoanRecord, error) {
	if _, err := os.Stat(x.LedgerPath); os.IsNotExist(err) {
		// first run: persist an empty ledger with the canonical schema
		if err := x.SaveLoans(ctx, nil); err != nil {
			return nil, err
		}
		return nil, nil
	}
	f, err := excelize.OpenFile(x.LedgerPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrSourceUnavailable, x.LedgerPath, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Only the canonical columns are read back; anything legacy on disk is
	// dropped at the next save, missing columns come back empty.
	cols := indexColumns(rows[0])
	var out []models.LoanRecord
	for _, row := range rows[1:] {
		rec := models.LoanRecord{
			ID:          cell(row, cols, "borrow_id"),
			Article:     cell(row, cols, "Article"),
			PartNumber:  cell(row, cols, "Part Number"),
			System:      cell(row, cols, "System"),
			Quantity:    atoiOrZero(cell(row, cols, "Quantity")),
			ClientName:  cell(row, cols, "Client Name"),
			ClientPhone: cell(row, cols, "Client Phone"),
			Location:    cell(row, cols, "Location"),
			BorrowedAt:  parseTime(cell(row, cols, "Borrowed At")),
		}
		if rec.ID == "" {
			continue
		}
		if t := parseTime(cell(row, cols, "Returned At")); !t.IsZero() {
			rec.ReturnedAt = &t
		}
		out = append(out, rec)
	}
	return out, nil
}

// SaveLoans rewrites the ledger file. The workbook is written to a sibling
// temp file and renamed over the old one so a concurrent LoadLoans never sees
// a half-written ledger.
func (x *XLSX) SaveLoans(ctx context.Context, loans []models.LoanRecord) error {
	if dir := filepath.Dir(x.LedgerPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(models.LedgerColumns))
	for i, c := range models.LedgerColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	for i, l := range loans {
		returned := ""
		if l.ReturnedAt != nil {
			returned = l.ReturnedAt.Format(models.TimeLayout)
		}
		row := []interface{}{
			l.ID, l.Article, l.PartNumber, l.System, l.Quantity,
			l.ClientName, l.ClientPhone, l.Location,
			l.BorrowedAt.Format(models.TimeLayout), returned,
		}
		addr, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
	}

	tmp := x.LedgerPath + ".tmp"
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrSourceUnavailable, tmp, err)
	}
	if err := os.Rename(tmp, x.LedgerPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replace %s: %v", ErrSourceUnavailable, x.LedgerPath, err)
	}
	return nil
}

func indexColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, name := range header {
		if name = strings.TrimSpace(name); name != "" {
			if _, dup := m[name]; !dup {
				m[name] = i
			}
		}
	}
	return m
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseUnits coerces a quantity cell to a non-negative int, 0 when the cell
// holds junk. Excel hands numeric cells back as floats ("5.0") at times.
func parseUnits(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		n = int(fl)
	}
	if n < 0 {
		return 0
	}
	return n
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseTime(s string) time.Time {
	t, err := time.ParseInLocation(models.TimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
