package dashboard

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrend_FullSeries(t *testing.T) {
	series, err := Generator{Seed: 42}.Trend(0)
	require.NoError(t, err)

	require.Len(t, series, LastYear-FirstYear+1)
	for i, p := range series {
		assert.Equal(t, FirstYear+i, p.Year)
		assert.GreaterOrEqual(t, p.Earthquake, 50)
		assert.Less(t, p.Earthquake, 500)
		assert.GreaterOrEqual(t, p.Flood, 100)
		assert.Less(t, p.Flood, 1000)
	}
}

func TestTrend_YearFilterCutsSeries(t *testing.T) {
	g := Generator{Seed: 42}
	full, err := g.Trend(0)
	require.NoError(t, err)

	cut, err := g.Trend(2010)
	require.NoError(t, err)

	require.Len(t, cut, 11)
	assert.Equal(t, 2010, cut[len(cut)-1].Year)
	if diff := cmp.Diff(full[:11], cut); diff != "" {
		t.Errorf("filtered series diverged from full series (-full +cut):\n%s", diff)
	}
}

func TestTrend_Deterministic(t *testing.T) {
	a, err := Generator{Seed: 9}.Trend(0)
	require.NoError(t, err)
	b, err := Generator{Seed: 9}.Trend(0)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Generator{Seed: 10}.Trend(0)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestTrend_InvalidYear(t *testing.T) {
	for _, year := range []int{1999, 2024, -1} {
		_, err := Generator{}.Trend(year)
		require.ErrorIs(t, err, ErrInvalidYear, "year %d", year)
	}
}

func TestKPIs(t *testing.T) {
	g := Generator{Seed: 42}
	series, err := g.Trend(2015)
	require.NoError(t, err)
	cur, prev := series[len(series)-1], series[len(series)-2]

	kpis, err := g.KPIs(2015)
	require.NoError(t, err)
	require.Len(t, kpis, 4)

	assert.Equal(t, "earthquake_events", kpis[0].Key)
	assert.Equal(t, "Earthquakes (2015)", kpis[0].Label)
	assert.InDelta(t, cur.Earthquake, kpis[0].Value, 0)
	assert.InDelta(t, cur.Flood, kpis[1].Value, 0)
	assert.InDelta(t, cur.Total(), kpis[2].Value, 0)
	assert.Equal(t, "%", kpis[3].Unit)
	assert.InDelta(t, percentChange(prev.Total(), cur.Total()), kpis[3].Value, 0)
}

func TestKPIs_FirstYearHasNoChange(t *testing.T) {
	kpis, err := Generator{Seed: 42}.KPIs(FirstYear)
	require.NoError(t, err)
	assert.InDelta(t, 0, kpis[3].Value, 0)
}

func TestKPIs_InvalidYear(t *testing.T) {
	_, err := Generator{}.KPIs(1850)
	require.ErrorIs(t, err, ErrInvalidYear)
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 50.0, percentChange(200, 300), 0)
	assert.InDelta(t, -33.3, percentChange(300, 200), 1e-9)
	assert.InDelta(t, 0, percentChange(0, 100), 0)
}
