package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadTable_CSV(t *testing.T) {
	path := writeTestFile(t, "schools.csv", "name,latitude,longitude\nA,12.9,80.2\n")

	tbl, err := ReadTable(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "latitude", "longitude"}, tbl.Header)
	assert.Equal(t, [][]string{{"A", "12.9", "80.2"}}, tbl.Rows)
}

func TestReadTable_TSV(t *testing.T) {
	path := writeTestFile(t, "schools.tsv", "name\tlatitude\tlongitude\nA\t12.9\t80.2\n")

	tbl, err := ReadTable(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A", "12.9", "80.2"}}, tbl.Rows)
}

func TestReadTable_XLSX(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"name", "latitude", "longitude"},
			{"A", "12.9", "80.2"},
		},
	})

	tbl, err := ReadTable(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "latitude", "longitude"}, tbl.Header)
	assert.Equal(t, [][]string{{"A", "12.9", "80.2"}}, tbl.Rows)
}

func TestReadTable_MissingFile(t *testing.T) {
	_, err := ReadTable(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher: open")
}

func TestReadTable_Unsupported(t *testing.T) {
	_, err := ReadTable(context.Background(), "schools.parquet")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnsupportedFormat))
}
