package types

import (
	"math"
	"strconv"
)

// Score is a numeric dataset value that may be missing. Missing values are NaN
// and encode as JSON null, as do infinities.
type Score float64

// Missing is the zero-information Score.
var Missing = Score(math.NaN())

func (s Score) Valid() bool {
	f := float64(s)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// OrZero returns the value, or 0 when missing.
func (s Score) OrZero() float64 {
	if !s.Valid() {
		return 0
	}
	return float64(s)
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(s), 'f', -1, 64), nil
}

// PlaceCategories are the place category columns of the dataset, in column order.
var PlaceCategories = []string{
	"amusement_park_Place", "art_gallery_Place", "campground_Place", "car_rental_Place",
	"cemetery_Place", "church_Place", "establishment_Place", "finance_Place", "food_Place",
	"gym_Place", "health_Place", "hindu_temple_Place", "lodging_Place", "museum_Place",
	"park_Place", "place_of_worship_Place", "point_of_interest_Place", "real_estate_agency_Place",
	"shopping_mall_Place", "store__Place", "synagogue_Place", "tourist_attraction_Place",
	"travel_agency_Place", "zoo_Place",
}

var categoryIndex = func() map[string]int {
	m := make(map[string]int, len(PlaceCategories))
	for i, c := range PlaceCategories {
		m[c] = i
	}
	return m
}()

// CategoryIndex returns the bit position of a category name.
func CategoryIndex(name string) (int, bool) {
	i, ok := categoryIndex[name]
	return i, ok
}

// CategorySet is a bitset over PlaceCategories.
type CategorySet uint32

func (c CategorySet) Has(i int) bool { return c&(1<<uint(i)) != 0 }

func (c CategorySet) With(i int) CategorySet { return c | 1<<uint(i) }

// Any reports whether c and other share at least one category.
func (c CategorySet) Any(other CategorySet) bool { return c&other != 0 }

// Names lists the set members in column order.
func (c CategorySet) Names() []string {
	var names []string
	for i, name := range PlaceCategories {
		if c.Has(i) {
			names = append(names, name)
		}
	}
	return names
}

func (c CategorySet) MarshalJSON() ([]byte, error) {
	names := c.Names()
	if names == nil {
		return []byte("[]"), nil
	}
	b := []byte{'['}
	for i, n := range names {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendQuote(b, n)
	}
	return append(b, ']'), nil
}

type Restaurant struct {
	Name      string `json:"name"`
	Latitude  Score  `json:"latitude"`
	Longitude Score  `json:"longitude"`
	Rating    Score  `json:"rating"`
}

type Hotel struct {
	Name        string `json:"name"`
	Latitude    Score  `json:"latitude"`
	Longitude   Score  `json:"longitude"`
	ReviewScore Score  `json:"review_score"`
	StarRating  Score  `json:"star_rating"`
}

type Place struct {
	Name      string `json:"name"`
	Latitude  Score  `json:"latitude"`
	Longitude Score  `json:"longitude"`
	Rating    Score  `json:"rating"`
}

// PlaceRecord is one row of the dataset: a restaurant, a hotel and a place
// sharing a budget level. Any of the three may be absent (empty name).
type PlaceRecord struct {
	Index       int         `json:"index"` // position after duplicate removal
	Restaurant  Restaurant  `json:"restaurant"`
	Hotel       Hotel       `json:"hotel"`
	Place       Place       `json:"place"`
	BudgetLevel int         `json:"budget_level"`
	Categories  CategorySet `json:"categories"`
}

func (p *PlaceRecord) HasRestaurant() bool { return p.Restaurant.Name != "" }

func (p *PlaceRecord) HasHotel() bool { return p.Hotel.Name != "" }

func (p *PlaceRecord) HasPlace() bool { return p.Place.Name != "" }
