package expiry

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/mamadbah2/signcare/internal/domain/models"
)

const (
	// DefaultMaxDistanceKm is the planning radius accepted by GroupByArea.
	DefaultMaxDistanceKm = 5.0
	// InterventionsPerDay is the crew throughput assumed by estimated days.
	InterventionsPerDay = 2

	unlocatedKey = "unlocated"
	kmPerDegree  = 111.32
)

// Strategy names how products are bucketed into areas.
type Strategy string

const (
	// StrategyBucket rounds coordinates to two decimals. It is the default and
	// matches the planning output the back office has always produced.
	StrategyBucket Strategy = "bucket"
	// StrategyGrid snaps coordinates to square cells of maxDistanceKm side.
	StrategyGrid Strategy = "grid"
)

// ParseStrategy returns the named strategy, or StrategyBucket with ok=false.
func ParseStrategy(raw string) (Strategy, bool) {
	switch Strategy(raw) {
	case StrategyBucket, StrategyGrid:
		return Strategy(raw), true
	}
	return StrategyBucket, false
}

type groupOptions struct {
	maxDistanceKm float64
	strategy      Strategy
}

// GroupOption customizes GroupByArea.
type GroupOption func(*groupOptions)

// WithMaxDistanceKm sets the planning radius. Only StrategyGrid uses it.
func WithMaxDistanceKm(km float64) GroupOption {
	return func(o *groupOptions) {
		if km > 0 {
			o.maxDistanceKm = km
		}
	}
}

// WithStrategy selects the bucketing strategy.
func WithStrategy(s Strategy) GroupOption {
	return func(o *groupOptions) { o.strategy = s }
}

// GroupByArea buckets products for route planning. Groups are sorted by mean
// priority, highest first; equal means keep first-seen order.
func GroupByArea(list []models.ExpiryInfo, opts ...GroupOption) []models.AreaGroup {
	options := groupOptions{maxDistanceKm: DefaultMaxDistanceKm, strategy: StrategyBucket}
	for _, opt := range opts {
		opt(&options)
	}

	keyFn := bucketKey
	if options.strategy == StrategyGrid {
		keyFn = gridKey(options.maxDistanceKm)
	}

	var order []string
	members := make(map[string][]models.ExpiryInfo)
	for _, info := range list {
		key := unlocatedKey
		if pos, ok := info.Position(); ok {
			key = keyFn(pos)
		}
		if _, seen := members[key]; !seen {
			order = append(order, key)
		}
		members[key] = append(members[key], info)
	}

	groups := make([]models.AreaGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, buildGroup(key, members[key]))
	}

	slices.SortStableFunc(groups, func(a, b models.AreaGroup) int {
		switch {
		case a.MeanPriority > b.MeanPriority:
			return -1
		case a.MeanPriority < b.MeanPriority:
			return 1
		default:
			return 0
		}
	})
	return groups
}

func buildGroup(key string, infos []models.ExpiryInfo) models.AreaGroup {
	var weight int
	var lat, lng float64
	var located int
	for _, info := range infos {
		weight += info.Priority.Weight()
		if pos, ok := info.Position(); ok {
			lat += pos.Lat
			lng += pos.Lng
			located++
		}
	}

	group := models.AreaGroup{
		AreaKey:       key,
		Members:       infos,
		MeanPriority:  float64(weight) / float64(len(infos)),
		EstimatedDays: (len(infos) + InterventionsPerDay - 1) / InterventionsPerDay,
	}
	if located > 0 {
		group.Centroid = models.GeoPoint{Lat: lat / float64(located), Lng: lng / float64(located)}
	}
	return group
}

func bucketKey(p models.GeoPoint) string {
	return formatCoord(round2(p.Lat)) + "," + formatCoord(round2(p.Lng))
}

// round2 rounds half toward positive infinity, like the back office did.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func gridKey(cellKm float64) func(models.GeoPoint) string {
	latStep := cellKm / kmPerDegree
	return func(p models.GeoPoint) string {
		row := int(math.Floor(p.Lat / latStep))
		cellLat := (float64(row) + 0.5) * latStep
		lngStep := cellKm / (kmPerDegree * math.Max(math.Cos(cellLat*math.Pi/180), 0.01))
		col := int(math.Floor(p.Lng / lngStep))
		return fmt.Sprintf("grid:%d:%d", row, col)
	}
}
