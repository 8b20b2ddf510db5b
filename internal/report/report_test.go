package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mediatrace/internal/report"
	"mediatrace/pkg/serrors"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Console(&buf, []string{"b.example", "a.example"}))

	out := buf.String()
	require.Contains(t, out, "   1. a.example\n   2. b.example\n")
	require.Contains(t, out, "Total: 2\n")
}

func TestConsole_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Console(&buf, nil))
	require.Contains(t, buf.String(), "(none)")
	require.Contains(t, buf.String(), "Total: 0")
}

func TestCSV(t *testing.T) {
	got := string(report.CSV([]string{"a.example", `we"ird.example`}))
	require.Equal(t, "domain\n\"a.example\"\n\"we\"\"ird.example\"\n", got)
}

func TestExport(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		domains []string
		wantErr error
	}{
		{name: "csv", file: "out.csv", domains: []string{"b.example", "a.example"}},
		{name: "xlsx", file: "out.xlsx", domains: []string{"b.example", "a.example"}},
		{name: "nested dir", file: "nested/dir/out.csv", domains: []string{"a.example"}},
		{name: "empty", file: "empty.csv", wantErr: serrors.ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)

			err := report.Export(path, tt.domains)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.EqualError(t, err, "nothing to export")
				_, statErr := os.Stat(path)
				require.ErrorIs(t, statErr, os.ErrNotExist)

				return
			}
			require.NoError(t, err)
			require.FileExists(t, path)
		})
	}
}

func TestExport_CSVIsSorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, report.Export(path, []string{"b.example", "a.example"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "domain\n\"a.example\"\n\"b.example\"\n", string(raw))
}

func TestExport_XLSXRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, report.Export(path, []string{"b.example", "a.example"}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("domains")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"domain"}, {"a.example"}, {"b.example"}}, rows)
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	require.Equal(t, filepath.Join("exports", "video-domains-20240305-140709.csv"), report.FileName("exports", "", now))
	require.Equal(t, filepath.Join("exports", "video-domains-20240305-140709.xlsx"), report.FileName("exports", report.FormatXLSX, now))
}
