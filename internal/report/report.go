// Package report renders the confirmed video domains of a registry for
// humans: a console listing and file exports in CSV or XLSX.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"mediatrace/pkg/serrors"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	header    = "domain"
	sheetName = "domains"
)

// ErrNothingToExport is returned by Export for an empty domain list.
var ErrNothingToExport = serrors.With(serrors.ErrEmpty, "nothing to export")

// Console writes domains in alphabetical order followed by a total.
func Console(w io.Writer, domains []string) error {
	sorted := slices.Clone(domains)
	slices.Sort(sorted)

	var b strings.Builder
	b.WriteString("Confirmed video domains:\n")
	if len(sorted) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, d := range sorted {
		fmt.Fprintf(&b, "%4d. %s\n", i+1, d)
	}
	fmt.Fprintf(&b, "Total: %d\n", len(sorted))

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}

	return nil
}

// FileName builds a timestamped export path inside dir.
func FileName(dir, format string, now time.Time) string {
	if format == "" {
		format = FormatCSV
	}

	return filepath.Join(dir, "video-domains-"+now.Format("20060102-150405")+"."+format)
}

// Export writes domains to path, choosing the format from its extension.
// Nothing is written for an empty list.
func Export(path string, domains []string) error {
	if len(domains) == 0 {
		return ErrNothingToExport
	}

	sorted := slices.Clone(domains)
	slices.Sort(sorted)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create export directory: %w", err)
		}
	}

	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case FormatXLSX:
		return writeXLSX(path, sorted)
	default:
		return writeCSV(path, sorted)
	}
}

// CSV renders the header and one quoted domain per line. Every field is
// quoted, embedded quotes are doubled.
func CSV(domains []string) []byte {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, d := range domains {
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(d, `"`, `""`))
		b.WriteString("\"\n")
	}

	return []byte(b.String())
}

func writeCSV(path string, domains []string) error {
	if err := os.WriteFile(path, CSV(domains), 0o644); err != nil {
		return fmt.Errorf("could not write csv export: %w", err)
	}

	return nil
}

func writeXLSX(path string, domains []string) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("could not close workbook: %w", cerr)
		}
	}()

	if err = f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("could not name sheet: %w", err)
	}
	if err = f.SetCellValue(sheetName, "A1", header); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}
	for i, d := range domains {
		cell, cerr := excelize.CoordinatesToCellName(1, i+2)
		if cerr != nil {
			return fmt.Errorf("could not address row %d: %w", i+2, cerr)
		}
		if err = f.SetCellValue(sheetName, cell, d); err != nil {
			return fmt.Errorf("could not write %q: %w", d, err)
		}
	}
	if err = f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save xlsx export: %w", err)
	}

	return nil
}
