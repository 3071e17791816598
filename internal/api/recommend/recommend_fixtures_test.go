package recommend

import (
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type fakeDataset struct {
	records []types.PlaceRecord
}

func (f *fakeDataset) Records() []types.PlaceRecord { return f.records }

func score(v float64) types.Score { return types.Score(v) }

func restaurant(name string, lat, lon, rating float64) types.Restaurant {
	return types.Restaurant{Name: name, Latitude: score(lat), Longitude: score(lon), Rating: score(rating)}
}

func hotel(name string, lat, lon, review, stars float64) types.Hotel {
	return types.Hotel{Name: name, Latitude: score(lat), Longitude: score(lon), ReviewScore: score(review), StarRating: score(stars)}
}

func place(name string, lat, lon, rating float64) types.Place {
	return types.Place{Name: name, Latitude: score(lat), Longitude: score(lon), Rating: score(rating)}
}

func categories(names ...string) types.CategorySet {
	var set types.CategorySet
	for _, n := range names {
		i, ok := types.CategoryIndex(n)
		if !ok {
			panic("unknown category " + n)
		}
		set = set.With(i)
	}
	return set
}

// scenarioRecords has five rows. Only rows 1 and 3 are tier 2 with a hotel
// rated 3 or better. Row 3's hotel sits next to row 1's restaurant.
func scenarioRecords() []types.PlaceRecord {
	return []types.PlaceRecord{
		{
			Index:       0,
			Restaurant:  restaurant("Vaishali", 18.52, 73.84, 4.5),
			Hotel:       hotel("Hotel Sagar Plaza", 18.53, 73.87, 4.2, 4),
			Place:       place("Shaniwar Wada", 18.519, 73.855, 4.4),
			BudgetLevel: 1,
			Categories:  categories("tourist_attraction_Place"),
		},
		{
			Index:       1,
			Restaurant:  restaurant("Cafe Goodluck", 18.50, 73.80, 4.0),
			Hotel:       hotel("Hotel Shreyas", 18.60, 73.90, 4.0, 3),
			Place:       place("Aga Khan Palace", 18.55, 73.85, 4.0),
			BudgetLevel: 2,
			Categories:  categories("museum_Place", "tourist_attraction_Place"),
		},
		{
			Index:       2,
			Restaurant:  restaurant("Kayani Bakery", 18.51, 73.88, 4.6),
			Hotel:       hotel("Hotel Ashirwad", 18.52, 73.87, 2.5, 2),
			Place:       place("Pataleshwar Cave", 18.527, 73.849, 4.2),
			BudgetLevel: 2,
			Categories:  categories("hindu_temple_Place"),
		},
		{
			Index:       3,
			Restaurant:  restaurant("Shabree", 18.52, 73.86, 3.5),
			Hotel:       hotel("Hotel Sunderban", 18.51, 73.81, 3.5, 4),
			Place:       place("Sinhagad Fort", 18.70, 74.00, 3.0),
			BudgetLevel: 2,
			Categories:  categories("park_Place"),
		},
		{
			Index:       4,
			Restaurant:  restaurant("Malaka Spice", 18.54, 73.89, 4.3),
			Hotel:       hotel("JW Marriott", 18.53, 73.83, 4.8, 5),
			Place:       place("Pune Okayama Garden", 18.49, 73.84, 4.1),
			BudgetLevel: 3,
			Categories:  categories("park_Place"),
		},
	}
}

func scenarioRequest() types.TripRequest {
	return types.TripRequest{
		Budget:              1500,
		MinHotelRating:      3,
		MinHotelStarRating:  1,
		MinRestaurantRating: 1,
		Days:                1,
	}
}
