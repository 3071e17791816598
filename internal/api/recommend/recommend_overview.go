package recommend

import (
	"cmp"
	"slices"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const overviewTopN = 5

var budgetSplit = []struct {
	category string
	share    float64
}{
	{"Hotels", 0.4},
	{"Restaurants", 0.3},
	{"Activities", 0.3},
}

// Overview summarises the filtered rows for charting: how the budget splits
// and which hotels and restaurants rate best.
func Overview(rows []*types.PlaceRecord, budget float64) *types.TripOverview {
	ov := &types.TripOverview{
		BudgetDistribution: make([]types.BudgetShare, 0, len(budgetSplit)),
	}
	for _, b := range budgetSplit {
		ov.BudgetDistribution = append(ov.BudgetDistribution, types.BudgetShare{Category: b.category, Amount: budget * b.share})
	}

	ov.TopHotels = topRated(rows, func(r *types.PlaceRecord) (string, types.Score) {
		return r.Hotel.Name, r.Hotel.ReviewScore
	})
	ov.TopRestaurants = topRated(rows, func(r *types.PlaceRecord) (string, types.Score) {
		return r.Restaurant.Name, r.Restaurant.Rating
	})
	return ov
}

// topRated skips unnamed or unrated rows; ties keep dataset order.
func topRated(rows []*types.PlaceRecord, pick func(*types.PlaceRecord) (string, types.Score)) []types.RatedName {
	out := make([]types.RatedName, 0, overviewTopN)
	for _, r := range rows {
		name, score := pick(r)
		if name == "" || !score.Valid() {
			continue
		}
		out = append(out, types.RatedName{Name: name, Rating: score})
	}
	slices.SortStableFunc(out, func(a, b types.RatedName) int {
		return cmp.Compare(float64(b.Rating), float64(a.Rating))
	})
	if len(out) > overviewTopN {
		out = out[:overviewTopN]
	}
	return out
}
