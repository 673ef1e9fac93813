package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/schoolmap/internal/config"
	"github.com/sells-group/schoolmap/internal/dataset"
	"github.com/sells-group/schoolmap/internal/fetcher"
)

// loadDataset validates the config, fetches any remote sources and loads the
// three inputs.
func loadDataset(ctx context.Context, c *config.Config) (*dataset.Dataset, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	paths := dataset.Paths{
		Region:     c.Data.RegionPath,
		Schools:    c.Data.SchoolsPath,
		Hazards:    c.Data.HazardsPath,
		RegionName: c.Data.RegionName,
	}

	resolved, err := paths.Resolve(ctx, fetcher.NewResolver(c.Data.CacheDir, c.Data.FetchTimeout))
	if err != nil {
		return nil, eris.Wrap(err, "load dataset")
	}

	ds, err := dataset.Load(ctx, resolved)
	if err != nil {
		return nil, eris.Wrap(err, "load dataset")
	}
	return ds, nil
}
