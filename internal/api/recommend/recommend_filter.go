package recommend

import "github.com/FACorreiaa/go-trip-planner/internal/types"

// Filter returns the rows matching c, in dataset order. Missing ratings never
// satisfy a threshold. An empty result means no recommendation is possible.
func Filter(records []types.PlaceRecord, c types.Criteria) []*types.PlaceRecord {
	var rows []*types.PlaceRecord
	for i := range records {
		rec := &records[i]
		if rec.BudgetLevel != c.BudgetLevel {
			continue
		}
		if !(float64(rec.Hotel.ReviewScore) >= c.MinHotelRating) ||
			!(float64(rec.Hotel.StarRating) >= c.MinHotelStarRating) ||
			!(float64(rec.Restaurant.Rating) >= c.MinRestaurantRating) {
			continue
		}
		if c.Categories != 0 && !rec.Categories.Any(c.Categories) {
			continue
		}
		rows = append(rows, rec)
	}
	return rows
}
