package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unidoc/unioffice/document"
	"github.com/xuri/excelize/v2"

	"github.com/aerissecure/docmerge/batch"
)

func writeInputs(t *testing.T, dir string) (sheet, template string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"Namn", "Adress", "Postadress", "Registreringsnr"},
		{"Anna", "Storgatan 1", 12345, "ABC123"},
		{"Bo", "Lillgatan 2", 54321, "XYZ789"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	sheet = filepath.Join(dir, "kunder.xlsx")
	require.NoError(t, f.SaveAs(sheet))

	doc := document.New()
	doc.AddParagraph().AddRun().AddText("Kvitto till {{Name}}")
	doc.AddParagraph().AddRun().AddText("Reg: {{Car Number}}")
	template = filepath.Join(dir, "kvitto.docx")
	require.NoError(t, doc.SaveToFile(template))
	return sheet, template
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunHTML(t *testing.T) {
	dir := t.TempDir()
	sheet, template := writeInputs(t, dir)
	outDir := filepath.Join(dir, "out")
	state := filepath.Join(dir, "state")

	stdout, err := execute(t, "run",
		"-s", sheet, "-t", template, "-o", outDir,
		"--format", "html", "--report", "--state-dir", state, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generating 2 documents...")
	assert.Contains(t, stdout, "Completed 2 rows.")

	for _, name := range []string{"Receipt_1.html", "Receipt_2.html", "All_Receipt.html", "Receipt_report.xlsx"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	leftovers, _ := filepath.Glob(filepath.Join(outDir, "*_modified.docx"))
	assert.Empty(t, leftovers)

	all, err := os.ReadFile(filepath.Join(outDir, "All_Receipt.html"))
	require.NoError(t, err)
	text := string(all)
	anna, bo := strings.Index(text, "Kvitto till Anna"), strings.Index(text, "Kvitto till Bo")
	require.GreaterOrEqual(t, anna, 0)
	require.GreaterOrEqual(t, bo, 0)
	assert.Less(t, anna, bo)
	assert.Contains(t, text, "Reg: ABC123")

	// the paths are remembered, so a bare run reuses them
	stdout, err = execute(t, "paths", "--state-dir", state)
	require.NoError(t, err)
	assert.Contains(t, stdout, "excel    "+sheet)
	assert.Contains(t, stdout, "output   "+outDir)

	stdout, err = execute(t, "run", "--format", "html", "--state-dir", state, "--log-level", "error", "--consolidate=false")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Completed 2 rows.")

	_, err = execute(t, "paths", "--clear", "--state-dir", state)
	require.NoError(t, err)
	stdout, err = execute(t, "paths", "--state-dir", state)
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestRunMissingInputs(t *testing.T) {
	_, err := execute(t, "run", "--format", "html", "--state-dir", t.TempDir(), "--log-level", "error")
	assert.ErrorIs(t, err, batch.ErrConfig)
}

func TestRunUnknownFormat(t *testing.T) {
	_, err := execute(t, "run", "--format", "rtf", "--state-dir", t.TempDir(), "--log-level", "error")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestVersion(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", stdout)
}

type fakeController struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeController) record(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
}

func (f *fakeController) RequestPause()  { f.record("pause") }
func (f *fakeController) RequestResume() { f.record("resume") }
func (f *fakeController) RequestCancel() { f.record("cancel") }
func (f *fakeController) Progress() batch.Progress {
	return batch.Progress{Current: 2, Total: 5, Status: "Paused...", State: batch.StatePaused}
}

func TestControl(t *testing.T) {
	c := &fakeController{}
	var out bytes.Buffer
	control(context.Background(), strings.NewReader("pause\n\nstatus\n R \nfly\ncancel\n"), &out, c)

	assert.Equal(t, []string{"pause", "resume", "cancel"}, c.calls)
	assert.Equal(t, "Paused...: 2/5 (paused)\nunknown command \"fly\" (pause, resume, cancel, status)\n", out.String())
}

func TestPick(t *testing.T) {
	assert.Equal(t, "a", pick("", "a", "b"))
	assert.Equal(t, "", pick("", ""))
}
