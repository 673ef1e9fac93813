package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/schoolmap/internal/dataset"
)

func TestLoadDataset(t *testing.T) {
	ds, err := loadDataset(context.Background(), testConfig(t))
	require.NoError(t, err)
	assert.Equal(t, "Tamil Nadu", ds.Region().Name)
	assert.Equal(t, 3, ds.NumSchools())
	assert.Len(t, ds.Hazards(), 1)
}

func TestLoadDataset_MissingFile(t *testing.T) {
	c := testConfig(t)
	c.Data.SchoolsPath = filepath.Join(t.TempDir(), "missing.csv")

	_, err := loadDataset(context.Background(), c)
	require.Error(t, err)
	assert.True(t, eris.Is(err, dataset.ErrNotFound))
}

func TestLoadDataset_InvalidConfig(t *testing.T) {
	c := testConfig(t)
	c.Analysis.KmPerDegree = 0

	_, err := loadDataset(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "km_per_degree")
}

func TestLoadDataset_SampleData(t *testing.T) {
	c := testConfig(t)
	c.Data.RegionPath = "../data/tamil_nadu.geojson"
	c.Data.SchoolsPath = "../data/schools.csv"
	c.Data.HazardsPath = "../data/hazards.geojson"

	ds, err := loadDataset(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "Tamil Nadu", ds.Region().Name)
	assert.Equal(t, 20, ds.NumSchools())
	assert.Len(t, ds.Hazards(), 3)
	assert.Equal(t, []string{"district"}, ds.ExtraColumns())
}
