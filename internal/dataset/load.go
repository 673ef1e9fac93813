package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/schoolmap/internal/fetcher"
	"github.com/sells-group/schoolmap/internal/geofile"
)

var (
	// ErrNotFound marks a missing input file.
	ErrNotFound = eris.New("dataset: input file not found")
	// ErrMalformed marks an input file that exists but cannot be parsed.
	ErrMalformed = eris.New("dataset: input file malformed")
)

// inputError tags a failure as ErrNotFound or ErrMalformed and keeps the
// underlying error reachable through Unwrap.
type inputError struct {
	kind  error
	msg   string
	cause error
}

func (e *inputError) Error() string { return e.msg + ": " + e.cause.Error() }

func (e *inputError) Unwrap() error { return e.cause }

func (e *inputError) Is(target error) bool { return target == e.kind }

func wrapInput(kind, cause error, format string, args ...any) error {
	return &inputError{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

// Paths locates the three input files.
type Paths struct {
	Region     string
	Schools    string
	Hazards    string
	RegionName string // fallback when the outline has no name attribute
}

// Resolver maps a configured source (URL, archive or plain path) to a local
// file. *fetcher.Resolver satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, src string) (string, error)
}

// Resolve returns a copy of p with every source replaced by its local file.
// The three sources are fetched concurrently; a source that cannot be
// fetched is reported as ErrNotFound.
func (p Paths) Resolve(ctx context.Context, r Resolver) (Paths, error) {
	out := p
	g, gctx := errgroup.WithContext(ctx)
	for _, field := range []*string{&out.Region, &out.Schools, &out.Hazards} {
		src := *field
		if src == "" {
			continue
		}
		g.Go(func() error {
			local, err := r.Resolve(gctx, src)
			if err != nil {
				return wrapInput(ErrNotFound, err, "dataset: fetch %s", src)
			}
			*field = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return p, err
	}
	return out, nil
}

// Load reads the region outline, school table and hazard zones. Any missing
// or unparseable file fails the whole load.
func Load(ctx context.Context, paths Paths) (*Dataset, error) {
	log := zap.L().With(zap.String("component", "dataset"))

	region, err := loadRegion(paths.Region, paths.RegionName)
	if err != nil {
		return nil, err
	}

	schools, extra, err := loadSchools(ctx, paths.Schools)
	if err != nil {
		return nil, err
	}

	hazards, err := loadHazards(paths.Hazards)
	if err != nil {
		return nil, err
	}

	ds := New(region, schools, hazards, extra...)
	log.Info("dataset loaded",
		zap.String("region", region.Name),
		zap.Int("region_polygons", len(region.Geometry)),
		zap.Int("schools", len(schools)),
		zap.Int("hazard_zones", len(hazards)),
	)
	return ds, nil
}

// Cached loads a dataset at most once and hands every caller the same handle.
type Cached struct {
	paths Paths
	once  sync.Once
	ds    *Dataset
	err   error
}

// NewCached returns a load-once wrapper around Load.
func NewCached(paths Paths) *Cached {
	return &Cached{paths: paths}
}

// Get runs Load on the first call and returns its result on every call.
func (c *Cached) Get(ctx context.Context) (*Dataset, error) {
	c.once.Do(func() {
		c.ds, c.err = Load(ctx, c.paths)
	})
	return c.ds, c.err
}

func checkFile(path string) error {
	if path == "" {
		return eris.Wrap(ErrNotFound, "dataset: empty path")
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return eris.Wrapf(ErrNotFound, "dataset: %s", path)
		}
		return wrapInput(ErrMalformed, err, "dataset: stat %s", path)
	}
	if info.IsDir() {
		return eris.Wrapf(ErrMalformed, "dataset: %s is a directory", path)
	}
	return nil
}

func loadRegion(path, fallbackName string) (Region, error) {
	if err := checkFile(path); err != nil {
		return Region{}, err
	}
	features, err := geofile.ReadLayer(path)
	if err != nil {
		return Region{}, wrapInput(ErrMalformed, err, "dataset: region %s", path)
	}

	var mp orb.MultiPolygon
	for _, f := range features {
		mp = append(mp, f.Geometry...)
	}

	props := features[0].Properties
	name := fallbackName
	for _, key := range []string{"name", "NAME", "st_nm", "ST_NM", "state"} {
		if v, ok := props[key].(string); ok && v != "" {
			name = v
			break
		}
	}

	return Region{Name: name, Geometry: mp, Properties: props}, nil
}

func loadHazards(path string) ([]HazardZone, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	features, err := geofile.ReadLayer(path)
	if err != nil {
		return nil, wrapInput(ErrMalformed, err, "dataset: hazards %s", path)
	}

	zones := make([]HazardZone, len(features))
	for i, f := range features {
		zones[i] = HazardZone{Index: i, Geometry: f.Geometry, Properties: f.Properties}
	}
	return zones, nil
}

func loadSchools(ctx context.Context, path string) ([]School, []string, error) {
	if err := checkFile(path); err != nil {
		return nil, nil, err
	}
	tbl, err := fetcher.ReadTable(ctx, path)
	if err != nil {
		return nil, nil, wrapInput(ErrMalformed, err, "dataset: schools %s", path)
	}

	nameIdx := tbl.Index("name")
	latIdx := tbl.Index("latitude")
	lonIdx := tbl.Index("longitude")
	var missing []string
	if nameIdx < 0 {
		missing = append(missing, "name")
	}
	if latIdx < 0 {
		missing = append(missing, "latitude")
	}
	if lonIdx < 0 {
		missing = append(missing, "longitude")
	}
	if len(missing) > 0 {
		return nil, nil, eris.Wrapf(ErrMalformed, "dataset: schools %s: missing columns %s", path, strings.Join(missing, ", "))
	}

	var extraIdx []int
	var extra []string
	for i, h := range tbl.Header {
		if i == nameIdx || i == latIdx || i == lonIdx || strings.TrimSpace(h) == "" {
			continue
		}
		extraIdx = append(extraIdx, i)
		extra = append(extra, strings.TrimSpace(h))
	}

	schools := make([]School, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		lat, err := strconv.ParseFloat(tbl.Cell(row, latIdx), 64)
		if err != nil {
			return nil, nil, eris.Wrapf(ErrMalformed, "dataset: schools %s: row %d latitude %q", path, i+1, tbl.Cell(row, latIdx))
		}
		lon, err := strconv.ParseFloat(tbl.Cell(row, lonIdx), 64)
		if err != nil {
			return nil, nil, eris.Wrapf(ErrMalformed, "dataset: schools %s: row %d longitude %q", path, i+1, tbl.Cell(row, lonIdx))
		}

		s := School{
			Row:       i,
			Name:      norm.NFC.String(tbl.Cell(row, nameIdx)),
			Latitude:  lat,
			Longitude: lon,
		}
		if len(extraIdx) > 0 {
			s.Extra = make(map[string]string, len(extraIdx))
			for k, col := range extraIdx {
				s.Extra[extra[k]] = tbl.Cell(row, col)
			}
		}
		schools = append(schools, s)
	}

	return schools, extra, nil
}
