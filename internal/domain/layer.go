package domain

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Fill and border opacity applied to every region polygon.
const (
	FillOpacity = 0.7
	LineOpacity = 0.2
)

// BaseTiles is the light basemap drawn under the risk layer.
const BaseTiles = "cartodbpositron"

// DefaultView centers the map on the contiguous United States over the light
// basemap, with the layer toggle shown.
var DefaultView = View{Center: orb.Point{-95.7129, 37.0902}, Zoom: 4, Tiles: BaseTiles, LayerControl: true}

// View is the initial map viewport. Center is [lon, lat].
type View struct {
	Center       orb.Point `json:"center"`
	Zoom         int       `json:"zoom"`
	Tiles        string    `json:"tiles"`
	LayerControl bool      `json:"layer_control"`
}

// StyledRegion is a region with its score, fill color, and tooltip resolved
// for one hazard.
type StyledRegion struct {
	Region    Region
	Score     int
	Matched   bool
	FillColor string
	Tooltip   string
}

// MapLayer is a choropleth layer ready for a map renderer to draw.
type MapLayer struct {
	Name        string
	Legend      string
	Granularity Granularity
	Hazard      Hazard
	Buckets     []Bucket
	Regions     []StyledRegion
	FillOpacity float64
	LineOpacity float64
	View        View
	GeneratedAt time.Time
}

// NewMapLayer joins scores onto regions by exact name and styles each region
// for the selected hazard. Regions missing from the table score NoScore.
func NewMapLayer(g Granularity, h Hazard, regions []Region, table ScoreTable, now time.Time) MapLayer {
	styled := make([]StyledRegion, len(regions))
	for i := range regions {
		score, ok := table.Lookup(regions[i].Name, h)
		styled[i] = StyledRegion{
			Region:    regions[i],
			Score:     score,
			Matched:   ok,
			FillColor: FillColor(score),
			Tooltip:   Tooltip(regions[i].Name, score),
		}
	}

	return MapLayer{
		Name:        fmt.Sprintf("%s %s Risk", g, h),
		Legend:      LegendName(h),
		Granularity: g,
		Hazard:      h,
		Buckets:     Buckets(),
		Regions:     styled,
		FillOpacity: FillOpacity,
		LineOpacity: LineOpacity,
		View:        DefaultView,
		GeneratedAt: now,
	}
}

// LegendName is the legend caption for a hazard's score scale.
func LegendName(h Hazard) string {
	return fmt.Sprintf("%s Risk Score", h)
}

// FeatureCollection encodes the layer as GeoJSON. Each feature carries the
// region attributes plus the style and tooltip fields the renderer reads.
func (l MapLayer) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	regionAlias := fmt.Sprintf("%s:", l.Granularity)
	scoreAlias := fmt.Sprintf("%s Risk Score:", l.Hazard)

	for i := range l.Regions {
		r := l.Regions[i]
		f := geojson.NewFeature(r.Region.Geometry)
		if r.Region.GEOID != "" {
			f.ID = r.Region.GEOID
		}
		f.Properties["NAME"] = r.Region.Name
		if r.Region.StateCode != "" {
			f.Properties["STUSPS"] = r.Region.StateCode
		}
		f.Properties["score"] = r.Score
		f.Properties["matched"] = r.Matched
		f.Properties["fill_color"] = r.FillColor
		f.Properties["fill_opacity"] = l.FillOpacity
		f.Properties["line_opacity"] = l.LineOpacity
		f.Properties["tooltip"] = r.Tooltip
		f.Properties["tooltip_aliases"] = []string{regionAlias, scoreAlias}
		fc.Append(f)
	}
	return fc
}

// LayerSummary describes a built layer without its geometry.
type LayerSummary struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Granularity  Granularity `json:"granularity"`
	Hazard       Hazard      `json:"hazard"`
	Regions      int         `json:"regions"`
	Unmatched    int         `json:"unmatched"`
	BucketCounts []int       `json:"bucket_counts"`
	GeneratedAt  time.Time   `json:"generated_at"`
}

// Summary counts regions per bucket and unmatched regions.
func (l MapLayer) Summary(id string) LayerSummary {
	s := LayerSummary{
		ID:           id,
		Name:         l.Name,
		Granularity:  l.Granularity,
		Hazard:       l.Hazard,
		Regions:      len(l.Regions),
		BucketCounts: make([]int, len(l.Buckets)),
		GeneratedAt:  l.GeneratedAt,
	}
	for i := range l.Regions {
		if !l.Regions[i].Matched {
			s.Unmatched++
		}
		s.BucketCounts[BucketIndex(l.Regions[i].Score)]++
	}
	return s
}
