package report

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aerissecure/docmerge/batch"
)

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "Receipt_report.xlsx"), Path("out", "Receipt"))
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Receipt_report.xlsx")
	out := batch.Outcome{
		State:     batch.StateCancelled,
		Total:     5,
		Processed: 2,
		Rows: []batch.RowResult{
			{Row: 1, Output: "/out/Receipt_1.pdf"},
			{Row: 2, Err: errors.New("soffice crashed")},
		},
		Consolidated:   "",
		ConsolidateErr: errors.New("no pages"),
	}
	require.NoError(t, Write(path, out))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, []string{"Row", "Status", "Output", "Error"}, rows[0])
	assert.Equal(t, []string{"1", "ok", "/out/Receipt_1.pdf"}, rows[1])
	assert.Equal(t, []string{"2", "failed", "", "soffice crashed"}, rows[2])
	assert.Empty(t, rows[3])
	assert.Equal(t, []string{"State", "cancelled"}, rows[4])
	assert.Equal(t, []string{"Processed", "2/5"}, rows[5])
	assert.Equal(t, []string{"Consolidated"}, rows[6])
	assert.Equal(t, []string{"Consolidation error", "no pages"}, rows[7])
}
