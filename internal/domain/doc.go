// Package domain models the US hazard risk map: regions, risk scores, and the
// styled choropleth layer handed to the map renderer.
//
// # Data Source
//
// Region boundaries come from the US Census Bureau cartographic boundary
// shapefiles (https://www.census.gov/geographies/mapping-files.html), 2020
// vintage at 1:20,000,000 resolution. Two archives are used: one for states and
// one for counties. Each feature carries a NAME attribute, which is the only
// key used to join scores onto regions.
//
// # Risk Scores
//
// Scores are integers in [1,10] with no connection to real hazard data. They
// are drawn from a seeded generator created per build, so the same seed and
// the same region list always give the same scores:
//
//	one earthquake score per region, in region order,
//	then one flood score per region, in region order.
//
// Names are matched exactly. County names repeat across states ("Washington"
// appears 30 times); the first occurrence's scores apply to every region with
// that name. Regions missing from the score table get a score of 0, so no
// region reaches the renderer without a score.
//
// # Color Scale
//
// Thresholds {0,1,3,5,7,10} split scores into five buckets:
//
//	[0,1)  #1a9641  no data
//	[1,3)  #a6d96a  low
//	[3,5)  #ffffbf  moderate
//	[5,7)  #fdae61  elevated
//	[7,10] #d7191c  high
//
// Low scores are green and high scores are red (ColorBrewer RdYlGn, reversed).
// The upper bound of the last bucket is inclusive.
package domain
