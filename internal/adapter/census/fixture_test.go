package census

import (
	"archive/zip"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/require"
)

// fixtureRegion is one feature of a generated test shapefile. Each part is a
// closed ring in shapefile winding: clockwise for outer rings.
type fixtureRegion struct {
	name  string
	geoid string
	usps  string
	parts [][]shp.Point
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// cwSquare returns a clockwise closed ring with its lower-left corner at x,y.
func cwSquare(x, y, size float64) []shp.Point {
	return []shp.Point{
		{X: x, Y: y},
		{X: x, Y: y + size},
		{X: x + size, Y: y + size},
		{X: x + size, Y: y},
		{X: x, Y: y},
	}
}

// ccwSquare returns a counter-clockwise closed ring, used for holes.
func ccwSquare(x, y, size float64) []shp.Point {
	return []shp.Point{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
		{X: x, Y: y},
	}
}

func threeStates() []fixtureRegion {
	return []fixtureRegion{
		{name: "Alpha", geoid: "01", usps: "AA", parts: [][]shp.Point{cwSquare(0, 0, 1)}},
		{name: "Bravo", geoid: "02", usps: "BB", parts: [][]shp.Point{cwSquare(2, 0, 1), cwSquare(4, 0, 1)}},
		{name: "Charlie", geoid: "03", usps: "CC", parts: [][]shp.Point{cwSquare(0, 2, 10), ccwSquare(2, 4, 2)}},
	}
}

// writeShapefileZip writes the regions as a polygon shapefile and zips the
// .shp, .shx, and .dbf parts the way the census archives ship them.
func writeShapefileZip(t *testing.T, regions []fixtureRegion, withName bool) string {
	t.Helper()
	dir := t.TempDir()
	base := filepath.Join(dir, "cb_test")

	w, err := shp.Create(base+".shp", shp.POLYGON)
	require.NoError(t, err)

	fields := []shp.Field{shp.StringField("GEOID", 10), shp.StringField("STUSPS", 2)}
	if withName {
		fields = append([]shp.Field{shp.StringField("NAME", 50)}, fields...)
	}
	require.NoError(t, w.SetFields(fields))

	for _, r := range regions {
		poly := shp.Polygon(*shp.NewPolyLine(r.parts))
		row := int(w.Write(&poly))
		values := []string{r.geoid, r.usps}
		if withName {
			values = append([]string{r.name}, values...)
		}
		for i, v := range values {
			require.NoError(t, w.WriteAttribute(row, i, v))
		}
	}
	w.Close()
	// go-shp names the attribute table base+"dbf", without the dot.
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))

	zipPath := filepath.Join(dir, "cb_test.zip")
	out, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		src, err := os.ReadFile(base + ext)
		require.NoError(t, err)
		dst, err := zw.Create("cb_test" + ext)
		require.NoError(t, err)
		_, err = dst.Write(src)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
	return zipPath
}

func shapefileZipBytes(t *testing.T, regions []fixtureRegion) []byte {
	t.Helper()
	data, err := os.ReadFile(writeShapefileZip(t, regions, true))
	require.NoError(t, err)
	return data
}
