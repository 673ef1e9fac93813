package analysis

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/sells-group/schoolmap/internal/config"
	"github.com/sells-group/schoolmap/internal/dataset"
	"github.com/sells-group/schoolmap/internal/render"
	"github.com/sells-group/schoolmap/internal/spatial"
)

// WindyURL is the live wind map centered near Chennai.
const WindyURL = config.DefaultWeatherURL

// ViewSchools marks every school in table order and lists them all.
func ViewSchools(ds *dataset.Dataset) *Plan {
	schools := ds.Schools()
	extra := ds.ExtraColumns()

	plan := &Plan{
		Mode:         ModeViewSchools,
		Title:        "School Locations in " + ds.Region().Name,
		Instructions: make([]render.Instruction, 0, len(schools)+1),
		Matches:      make([]Match, 0, len(schools)),
		Table: &render.Table{
			Caption: "Schools & Universities",
			Columns: append([]string{"name", "latitude", "longitude"}, extra...),
			Rows:    make([][]string, 0, len(schools)),
		},
	}

	for _, s := range schools {
		plan.Instructions = append(plan.Instructions, schoolMarker(s, render.ColorBlue, render.IconInfo, s.Name))
		plan.Matches = append(plan.Matches, Match{School: s, Zone: -1})

		row := schoolRow(s)
		for _, col := range extra {
			row = append(row, s.Extra[col])
		}
		plan.Table.Rows = append(plan.Table.Rows, row)
	}
	plan.Instructions = append(plan.Instructions, regionLayer(ds))
	plan.Description = plural(len(schools), "school")
	return plan
}

// Access finds schools strictly inside a circle of radiusKm around the user,
// measured in degrees with a flat km-per-degree conversion.
func Access(ds *dataset.Dataset, lat, lon float64, radiusKm int, opts Options) *Plan {
	opts = opts.withDefaults()
	center := orb.Point{lon, lat}
	radius := spatial.DegreesFromKm(float64(radiusKm), opts.KmPerDegree)

	plan := &Plan{
		Mode:  ModeAccess,
		Title: "Access Analysis",
		Instructions: []render.Instruction{
			render.Marker{Lat: lat, Lon: lon, Color: render.ColorRed, Icon: render.IconHome, Popup: "Your Location"},
		},
		Table: &render.Table{
			Caption: "Nearby Schools",
			Columns: []string{"name", "latitude", "longitude"},
			Rows:    [][]string{},
		},
	}

	for _, s := range ds.Schools() {
		if !spatial.WithinCircle(center, s.Point(), radius) {
			continue
		}
		plan.Instructions = append(plan.Instructions, schoolMarker(s, render.ColorGreen, render.IconInfo, s.Name))
		plan.Matches = append(plan.Matches, Match{School: s, Zone: -1})
		plan.Table.Rows = append(plan.Table.Rows, schoolRow(s))
	}
	plan.Instructions = append(plan.Instructions, regionLayer(ds))
	plan.Description = fmt.Sprintf("%s within %d km of (%s, %s), taking 1 degree as %s km.",
		plural(len(plan.Matches), "school"), radiusKm, formatCoord(lat), formatCoord(lon), formatCoord(opts.KmPerDegree))
	return plan
}

// HazardSets is the result of the hazard joins. InZone holds one pair per
// (school, zone) intersection with the raw polygons; NearZone holds the pairs
// against the buffered polygons for schools absent from InZone.
type HazardSets struct {
	InZone   []spatial.Pair
	NearZone []spatial.Pair
	Buffered []spatial.Buffered
}

// JoinHazards computes both hazard sets for bufferKm. Overlapping zones yield
// one pair per zone.
func JoinHazards(ds *dataset.Dataset, bufferKm int, opts Options) HazardSets {
	opts = opts.withDefaults()
	zones := ds.Hazards()
	points := ds.SchoolPoints()

	buffered := make([]spatial.Buffered, len(zones))
	for i, z := range zones {
		buffered[i] = spatial.BufferMeters(z.Geometry, float64(bufferKm)*1000, opts.Projection)
	}

	inZone := spatial.JoinPoints(points, len(zones), func(p orb.Point, z int) bool {
		return spatial.IntersectsPoint(zones[z].Geometry, p)
	})
	near := spatial.JoinPoints(points, len(buffered), func(p orb.Point, z int) bool {
		return buffered[z].Intersects(p)
	})

	return HazardSets{
		InZone:   inZone,
		NearZone: spatial.ExcludePoints(near, inZone),
		Buffered: buffered,
	}
}

// Hazard draws the hazard zones, schools inside them and schools within
// bufferKm of them.
func Hazard(ds *dataset.Dataset, bufferKm int, opts Options) *Plan {
	sets := JoinHazards(ds, bufferKm, opts)
	zones := ds.Hazards()

	features := make([]*geojson.Feature, len(zones))
	for i, z := range zones {
		f := geojson.NewFeature(z.Geometry)
		for k, v := range z.Properties {
			f.Properties[k] = v
		}
		features[i] = f
	}
	style := render.HazardStyle

	plan := &Plan{
		Mode:         ModeHazard,
		Title:        "Hazard Analysis",
		Instructions: []render.Instruction{render.NewPolygons("Hazard Zones", &style, features...)},
		Table: &render.Table{
			Caption: "Schools in and near hazard zones",
			Columns: []string{"name", "latitude", "longitude", "zone", "status"},
			Rows:    [][]string{},
		},
	}

	add := func(pairs []spatial.Pair, color, icon, suffix, status string) {
		for _, p := range pairs {
			s := ds.School(p.Point)
			plan.Instructions = append(plan.Instructions, schoolMarker(s, color, icon, s.Name+suffix))
			plan.Matches = append(plan.Matches, Match{School: s, Zone: p.Zone, Status: status})
			plan.Table.Rows = append(plan.Table.Rows, append(schoolRow(s), fmt.Sprint(p.Zone), status))
		}
	}
	add(sets.InZone, render.ColorRed, render.IconWarning, " (In Hazard Zone)", StatusInZone)
	add(sets.NearZone, render.ColorOrange, render.IconInfo, " (Near Hazard Zone)", StatusNearZone)

	plan.Instructions = append(plan.Instructions, regionLayer(ds))
	plan.Description = fmt.Sprintf("%d in zone, %d within %d km of a zone.",
		len(sets.InZone), len(sets.NearZone), bufferKm)
	return plan
}

// Weather returns the fixed live weather embed. It does not read the dataset.
func Weather(opts Options) *Plan {
	embed := opts.Weather
	if embed.URL == "" {
		embed = DefaultOptions().Weather
	}
	return &Plan{
		Mode:        ModeWeather,
		Title:       "Current Weather and Cyclone Status",
		Description: "This feature displays live cyclone and weather data from Windy.",
		Embed:       &embed,
	}
}
