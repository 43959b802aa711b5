package dataset_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/attrition-cli/internal/dataset"
	"github.com/KaramelBytes/attrition-cli/internal/testutil"
)

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	p := testutil.WriteCSV(t, dir, "hr.csv", testutil.Records(12))

	raw, err := dataset.Load(p, dataset.Options{})
	require.NoError(t, err)
	assert.Equal(t, "hr.csv", raw.Name)
	assert.Equal(t, 12, raw.Rows())
	assert.Len(t, raw.Header(), 35)

	ages, ok := raw.Column("Age")
	require.True(t, ok)
	assert.Equal(t, "18", ages[0])
	assert.Equal(t, "25", ages[1])

	_, ok = raw.Column("Salary")
	assert.False(t, ok)
}

func TestLoadTSVPadsShortRows(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "short.tsv")
	require.NoError(t, os.WriteFile(p, []byte("a\tb\tc\n1\t2\n4\t5\t6\n"), 0o644))

	raw, err := dataset.Load(p, dataset.Options{})
	require.NoError(t, err)
	c, ok := raw.Column("c")
	require.True(t, ok)
	assert.Equal(t, []string{"", "6"}, c)
}

func TestReadCSVRejectsHeaderOnly(t *testing.T) {
	_, err := dataset.ReadCSV(strings.NewReader("a,b\n"), "empty.csv", ',')
	assert.True(t, errors.Is(err, dataset.ErrNoRows))
}

func TestLoadUnsupported(t *testing.T) {
	_, err := dataset.Load("report.pdf", dataset.Options{})
	assert.ErrorIs(t, err, dataset.ErrUnsupported)
}

func TestDropAndDuplicates(t *testing.T) {
	recs := [][]string{
		{"id", "x", "y"},
		{"1", "a", "b"},
		{"2", "a", "b"},
		{"3", "a", "c"},
	}
	raw, err := dataset.FromRecords("t", recs)
	require.NoError(t, err)
	assert.Equal(t, 0, raw.Duplicates(), "unique ids make every row distinct")

	dropped, err := raw.Drop("id", "missing")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, dropped.Header())
	assert.Equal(t, 1, dropped.Duplicates())
	assert.Equal(t, []string{"id", "x", "y"}, raw.Header(), "source table unchanged")
}

func TestLoadXLSX(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "hr.xlsx")
	recs := testutil.Records(5)

	f := excelize.NewFile()
	_, err := f.NewSheet("Employees")
	require.NoError(t, err)
	for i, rec := range recs {
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Employees", cell, &row))
	}
	require.NoError(t, f.SaveAs(p))
	require.NoError(t, f.Close())

	raw, err := dataset.Load(p, dataset.Options{SheetName: "Employees"})
	require.NoError(t, err)
	assert.Equal(t, 5, raw.Rows())
	dept, ok := raw.Column("Department")
	require.True(t, ok)
	assert.Equal(t, "Human Resources", dept[0])

	raw, err = dataset.Load(p, dataset.Options{SheetIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, raw.Rows())

	_, err = dataset.Load(p, dataset.Options{SheetName: "Nope"})
	assert.Error(t, err)
	_, err = dataset.Load(p, dataset.Options{SheetIndex: 9})
	assert.Error(t, err)
}
