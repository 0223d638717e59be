package expiry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/signcare/internal/domain/models"
)

func located(id string, days int, lat, lng float64) models.ExpiryInfo {
	info := infoWithDays(id, days)
	info.GPSLat = &lat
	info.GPSLng = &lng
	return info
}

func TestGroupByAreaBucketDefault(t *testing.T) {
	list := []models.ExpiryInfo{
		located("milan-a", 400, 45.4641, 9.1901),
		located("milan-b", -2, 45.4638, 9.1899),
		located("turin", 10, 45.0703, 7.6869),
		infoWithDays("nogps", 60),
		located("milan-c", 50, 45.4649, 9.1904),
	}

	groups := GroupByArea(list)
	require.Len(t, groups, 3)

	// turin: high(3); milan: low+critical+medium = (1+4+2)/3; nogps: medium(2)
	assert.Equal(t, "45.07,7.69", groups[0].AreaKey)
	assert.InDelta(t, 3.0, groups[0].MeanPriority, 1e-9)
	assert.Equal(t, 1, groups[0].EstimatedDays)

	milan := groups[1]
	assert.Equal(t, "45.46,9.19", milan.AreaKey)
	assert.Equal(t, []string{"milan-a", "milan-b", "milan-c"}, ids(milan.Members))
	assert.InDelta(t, 7.0/3.0, milan.MeanPriority, 1e-9)
	assert.Equal(t, 2, milan.EstimatedDays)
	assert.InDelta(t, (45.4641+45.4638+45.4649)/3, milan.Centroid.Lat, 1e-9)
	assert.InDelta(t, (9.1901+9.1899+9.1904)/3, milan.Centroid.Lng, 1e-9)

	assert.Equal(t, "unlocated", groups[2].AreaKey)
	assert.Equal(t, models.GeoPoint{}, groups[2].Centroid)
}

func TestGroupByAreaMaxDistanceDoesNotChangeBuckets(t *testing.T) {
	list := []models.ExpiryInfo{
		located("a", 100, 45.461, 9.19),
		located("b", 100, 45.449, 9.19),
	}

	assert.Len(t, GroupByArea(list), 2)
	assert.Len(t, GroupByArea(list, WithMaxDistanceKm(50)), 2)
}

func TestGroupByAreaGridStrategy(t *testing.T) {
	list := []models.ExpiryInfo{
		located("a", 100, 45.47, 9.19),
		located("b", 100, 45.46, 9.19),
		located("far", 100, 41.9, 12.49),
	}

	groups := GroupByArea(list, WithStrategy(StrategyGrid), WithMaxDistanceKm(5))
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"a", "b"}, ids(groups[0].Members))
	assert.Len(t, GroupByArea(list), 3, "the bucket strategy keeps them apart")
	assert.Contains(t, groups[0].AreaKey, "grid:")
}

func TestGroupByAreaEmpty(t *testing.T) {
	assert.Empty(t, GroupByArea(nil))
}

func TestParseStrategy(t *testing.T) {
	s, ok := ParseStrategy("grid")
	assert.True(t, ok)
	assert.Equal(t, StrategyGrid, s)

	s, ok = ParseStrategy("kmeans")
	assert.False(t, ok)
	assert.Equal(t, StrategyBucket, s)
}
