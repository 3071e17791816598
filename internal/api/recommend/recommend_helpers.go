package recommend

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
const EarthRadiusMeters = 6371000.0

// Distance returns the haversine great-circle distance in meters between two
// points given in degrees. Missing (NaN) coordinates yield NaN.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	sinDLat := math.Sin((lat2Rad - lat1Rad) / 2)
	sinDLon := math.Sin((lon2Rad - lon1Rad) / 2)
	a := sinDLat*sinDLat + math.Cos(lat1Rad)*math.Cos(lat2Rad)*sinDLon*sinDLon
	if a > 1 {
		a = 1
	}
	return EarthRadiusMeters * 2 * math.Asin(math.Sqrt(a))
}

// BudgetLevel maps a budget to its tier. Branches are checked in order and the
// first match wins, so 1000 itself lands in tier 1 rather than tier 0.
func BudgetLevel(budget float64) int {
	switch {
	case 0 < budget && budget < 1000:
		return 0
	case budget <= 1000:
		return 1
	case budget <= 2000:
		return 2
	case budget <= 3000:
		return 3
	case budget <= 4000:
		return 4
	default:
		return 5
	}
}

// cosineSimilarity returns 0 for mismatched lengths or a zero vector.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Fingerprint is a stable hash of the filter inputs. Category order does not matter.
func Fingerprint(req types.TripRequest) string {
	categories := slices.Clone(req.Categories)
	slices.Sort(categories)

	key := strings.Join([]string{
		formatFloat(req.Budget),
		formatFloat(req.MinHotelRating),
		formatFloat(req.MinHotelStarRating),
		formatFloat(req.MinRestaurantRating),
		strings.Join(categories, "_"),
	}, "_")
	return fmt.Sprintf("%016x", xxhash.Sum64String(key))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ResolveCriteria turns validated request inputs into filter criteria.
func ResolveCriteria(req types.TripRequest) (types.Criteria, error) {
	var set types.CategorySet
	for _, name := range req.Categories {
		i, ok := types.CategoryIndex(name)
		if !ok {
			return types.Criteria{}, fmt.Errorf("%w: unknown place category %q", ErrInvalidRequest, name)
		}
		set = set.With(i)
	}
	return types.Criteria{
		BudgetLevel:         BudgetLevel(req.Budget),
		MinHotelRating:      req.MinHotelRating,
		MinHotelStarRating:  req.MinHotelStarRating,
		MinRestaurantRating: req.MinRestaurantRating,
		Categories:          set,
	}, nil
}
