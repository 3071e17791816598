package recommend

import (
	"cmp"
	"errors"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// DefaultTopK is the number of similar hotels and places returned per day.
const DefaultTopK = 4

var (
	ErrInvalidRequest = errors.New("invalid trip request")
	ErrNoAnchor       = errors.New("no restaurant among the filtered rows")
)

// Candidate is a hotel or place row scored against the day's anchor.
type Candidate struct {
	Row            *types.PlaceRecord
	DistanceMeters float64 // NaN when either side has no coordinates
	Similarity     float64
}

// Selection is what one day of a trip resolves to.
type Selection struct {
	Fingerprint   string
	Anchor        *types.PlaceRecord
	NearestHotel  *Candidate
	NearestPlace  *Candidate
	SimilarHotels []Candidate
	SimilarPlaces []Candidate
}

// PickAnchor draws a restaurant-bearing row uniformly from rows.
func PickAnchor(rows []*types.PlaceRecord, rnd *rand.Rand) (*types.PlaceRecord, error) {
	var pool []*types.PlaceRecord
	for _, r := range rows {
		if r.HasRestaurant() {
			pool = append(pool, r)
		}
	}
	if len(pool) == 0 {
		return nil, ErrNoAnchor
	}
	return pool[rnd.IntN(len(pool))], nil
}

// Rank scores the hotels and places of rows against anchor. It never mutates
// rows and returns the same Selection for the same inputs.
func Rank(rows []*types.PlaceRecord, anchor *types.PlaceRecord, topK int, fingerprint string) *Selection {
	if topK <= 0 {
		topK = DefaultTopK
	}
	sel := &Selection{Fingerprint: fingerprint, Anchor: anchor}

	anchorProfile := []float64{
		anchor.Hotel.ReviewScore.OrZero(),
		anchor.Hotel.StarRating.OrZero(),
		float64(anchor.BudgetLevel),
	}
	lat, lon := float64(anchor.Restaurant.Latitude), float64(anchor.Restaurant.Longitude)

	hotels := rankHotels(rows, lat, lon)
	if len(hotels) > 0 {
		nearest := hotels[0]
		sel.NearestHotel = &nearest
	}
	sel.SimilarHotels = mostSimilar(hotels, anchorProfile, topK, hotelProfile)

	places := rankPlaces(rows, lat, lon)
	if len(places) > 0 {
		nearest := places[0]
		sel.NearestPlace = &nearest
	}
	sel.SimilarPlaces = mostSimilar(places, anchorProfile, topK, placeProfile)

	return sel
}

func rankHotels(rows []*types.PlaceRecord, lat, lon float64) []Candidate {
	var out []Candidate
	for _, r := range rows {
		if !r.HasHotel() {
			continue
		}
		d := Distance(lat, lon, float64(r.Hotel.Latitude), float64(r.Hotel.Longitude))
		out = append(out, Candidate{Row: r, DistanceMeters: d})
	}
	slices.SortStableFunc(out, func(a, b Candidate) int {
		if c := compareDistance(a.DistanceMeters, b.DistanceMeters); c != 0 {
			return c
		}
		if c := compareDesc(float64(a.Row.Hotel.ReviewScore), float64(b.Row.Hotel.ReviewScore)); c != 0 {
			return c
		}
		if c := compareDesc(float64(a.Row.Hotel.StarRating), float64(b.Row.Hotel.StarRating)); c != 0 {
			return c
		}
		return cmp.Compare(a.Row.Index, b.Row.Index)
	})
	return out
}

func rankPlaces(rows []*types.PlaceRecord, lat, lon float64) []Candidate {
	var out []Candidate
	for _, r := range rows {
		if !r.HasPlace() {
			continue
		}
		d := Distance(lat, lon, float64(r.Place.Latitude), float64(r.Place.Longitude))
		out = append(out, Candidate{Row: r, DistanceMeters: d})
	}
	slices.SortStableFunc(out, func(a, b Candidate) int {
		if c := compareDistance(a.DistanceMeters, b.DistanceMeters); c != 0 {
			return c
		}
		if c := compareDesc(float64(a.Row.Place.Rating), float64(b.Row.Place.Rating)); c != 0 {
			return c
		}
		return cmp.Compare(a.Row.Index, b.Row.Index)
	})
	return out
}

func hotelProfile(r *types.PlaceRecord) []float64 {
	return []float64{r.Hotel.ReviewScore.OrZero(), r.Hotel.StarRating.OrZero(), float64(r.BudgetLevel)}
}

func placeProfile(r *types.PlaceRecord) []float64 {
	return []float64{r.Place.Rating.OrZero(), r.Restaurant.Rating.OrZero(), float64(r.BudgetLevel)}
}

// mostSimilar keeps the ranked order among equal similarities.
func mostSimilar(ranked []Candidate, anchor []float64, topK int, profile func(*types.PlaceRecord) []float64) []Candidate {
	scored := make([]Candidate, len(ranked))
	for i, c := range ranked {
		c.Similarity = cosineSimilarity(anchor, profile(c.Row))
		scored[i] = c
	}
	slices.SortStableFunc(scored, func(a, b Candidate) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// compareDistance orders ascending with NaN last.
func compareDistance(a, b float64) int {
	if math.IsNaN(a) {
		a = math.Inf(1)
	}
	if math.IsNaN(b) {
		b = math.Inf(1)
	}
	return cmp.Compare(a, b)
}

// compareDesc orders descending with NaN last.
func compareDesc(a, b float64) int {
	return cmp.Compare(b, a)
}
