// Package dataset loads the region outline, school table and hazard zones
// once and exposes them through a read-only handle.
package dataset

import (
	"slices"
	"time"

	"github.com/paulmach/orb"
)

// Dataset is the immutable result of Load. Accessors return copies of the
// slices; the geometries and attribute maps inside must be treated as read-only.
type Dataset struct {
	region   Region
	schools  []School
	hazards  []HazardZone
	columns  []string
	points   []orb.Point
	loadedAt time.Time
}

// New builds a Dataset from already-parsed parts. Extra columns are taken in
// the order given.
func New(region Region, schools []School, hazards []HazardZone, extraColumns ...string) *Dataset {
	points := make([]orb.Point, len(schools))
	for i, s := range schools {
		points[i] = s.Point()
	}
	return &Dataset{
		region:   region,
		schools:  slices.Clone(schools),
		hazards:  slices.Clone(hazards),
		columns:  slices.Clone(extraColumns),
		points:   points,
		loadedAt: time.Now(),
	}
}

// Region returns the state outline.
func (d *Dataset) Region() Region { return d.region }

// Schools returns every school in table order.
func (d *Dataset) Schools() []School { return slices.Clone(d.schools) }

// School returns the school at row i.
func (d *Dataset) School(i int) School { return d.schools[i] }

// NumSchools is the number of rows in the school table.
func (d *Dataset) NumSchools() int { return len(d.schools) }

// SchoolPoints returns the school locations, index-aligned with Schools.
func (d *Dataset) SchoolPoints() []orb.Point { return slices.Clone(d.points) }

// Hazards returns the hazard zones in file order.
func (d *Dataset) Hazards() []HazardZone { return slices.Clone(d.hazards) }

// ExtraColumns lists school table columns beyond name, latitude and longitude.
func (d *Dataset) ExtraColumns() []string { return slices.Clone(d.columns) }

// LoadedAt is when the dataset was built.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }
