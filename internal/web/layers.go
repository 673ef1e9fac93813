package web

import (
	"maps"

	"github.com/paulmach/orb/geojson"

	"github.com/sells-group/schoolmap/internal/dataset"
)

func regionCollection(ds *dataset.Dataset) *geojson.FeatureCollection {
	region := ds.Region()
	f := geojson.NewFeature(region.Geometry)
	maps.Copy(f.Properties, region.Properties)
	f.Properties["name"] = region.Name

	fc := geojson.NewFeatureCollection()
	fc.Append(f)
	return fc
}

func hazardCollection(ds *dataset.Dataset) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, z := range ds.Hazards() {
		f := geojson.NewFeature(z.Geometry)
		maps.Copy(f.Properties, z.Properties)
		f.ID = z.Index
		fc.Append(f)
	}
	return fc
}

func schoolCollection(ds *dataset.Dataset) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range ds.Schools() {
		f := geojson.NewFeature(s.Point())
		for k, v := range s.Extra {
			f.Properties[k] = v
		}
		f.Properties["name"] = s.Name
		f.Properties["row"] = s.Row
		f.ID = s.Row
		fc.Append(f)
	}
	return fc
}
