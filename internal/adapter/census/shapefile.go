package census

import (
	"errors"
	"fmt"
	"strings"

	"github.com/couchcryptid/risk-map-service/internal/domain"
	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// Attribute names in the census cartographic boundary files.
const (
	fieldName  = "NAME"
	fieldGEOID = "GEOID"
	fieldUSPS  = "STUSPS"
)

var errNoNameField = errors.New("shapefile has no NAME attribute")

// readShapefileZip decodes every polygon feature in a zipped shapefile into a
// Region. Features that are not polygons, or have no usable ring, are skipped.
func readShapefileZip(path string, g domain.Granularity) ([]domain.Region, error) {
	zr, err := shp.OpenZip(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile archive: %w", err)
	}
	defer zr.Close()

	fields := fieldIndex(zr.Fields())
	nameIdx, ok := fields[fieldName]
	if !ok {
		return nil, errNoNameField
	}
	geoidIdx, hasGEOID := fields[fieldGEOID]
	uspsIdx, hasUSPS := fields[fieldUSPS]

	var regions []domain.Region
	for zr.Next() {
		_, shape := zr.Shape()
		geom := toMultiPolygon(shape)
		if len(geom) == 0 {
			continue
		}

		r := domain.Region{
			Name:        attribute(zr, nameIdx),
			Granularity: g,
			Geometry:    geom,
		}
		if hasGEOID {
			r.GEOID = attribute(zr, geoidIdx)
		}
		if hasUSPS {
			r.StateCode = attribute(zr, uspsIdx)
		}
		regions = append(regions, r)
	}
	if err := zr.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile: %w", err)
	}
	return regions, nil
}

func fieldIndex(fields []shp.Field) map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[strings.ToUpper(strings.TrimSpace(f.String()))] = i
	}
	return idx
}

func attribute(zr *shp.ZipReader, i int) string {
	return strings.TrimRight(strings.TrimSpace(zr.Attribute(i)), "\x00")
}

// toMultiPolygon groups shapefile polygon parts into polygons. Shapefiles list
// outer rings clockwise and holes counter-clockwise, with each hole following
// its outer ring. Rings are reversed on output so exteriors are
// counter-clockwise as GeoJSON expects.
func toMultiPolygon(shape shp.Shape) orb.MultiPolygon {
	p, ok := shape.(*shp.Polygon)
	if !ok || p.NumParts == 0 {
		return nil
	}

	var mp orb.MultiPolygon
	for i := range p.Parts {
		start := int(p.Parts[i])
		end := len(p.Points)
		if i+1 < len(p.Parts) {
			end = int(p.Parts[i+1])
		}
		if start < 0 || end > len(p.Points) || end-start < 4 {
			continue
		}

		ring := make(orb.Ring, 0, end-start)
		for _, pt := range p.Points[start:end] {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}

		outer := ring.Orientation() == orb.CW
		ring.Reverse()
		if outer || len(mp) == 0 {
			mp = append(mp, orb.Polygon{ring})
			continue
		}
		mp[len(mp)-1] = append(mp[len(mp)-1], ring)
	}
	return mp
}
