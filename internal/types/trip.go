package types

// TripRequest carries the user's filter inputs.
type TripRequest struct {
	Budget              float64  `json:"budget" validate:"gte=0,lte=5000"`
	MinHotelRating      float64  `json:"min_hotel_rating" validate:"gte=1,lte=5"`
	MinHotelStarRating  float64  `json:"min_hotel_star_rating" validate:"gte=1,lte=5"`
	MinRestaurantRating float64  `json:"min_restaurant_rating" validate:"gte=1,lte=5"`
	Categories          []string `json:"categories,omitempty" validate:"omitempty,dive,place_category"`
	Days                int      `json:"days" validate:"gte=1,lte=7"`
}

// Criteria is a TripRequest resolved against the dataset.
type Criteria struct {
	BudgetLevel         int
	MinHotelRating      float64
	MinHotelStarRating  float64
	MinRestaurantRating float64
	Categories          CategorySet
}

type Suggestion struct {
	Name           string      `json:"name"`
	Latitude       Score       `json:"latitude"`
	Longitude      Score       `json:"longitude"`
	Rating         Score       `json:"rating"`
	StarRating     *Score      `json:"star_rating,omitempty"`
	DistanceMeters *Score      `json:"distance_meters,omitempty"`
	Similarity     *float64    `json:"similarity,omitempty"`
	Categories     CategorySet `json:"categories,omitempty"`
}

type MapPoint struct {
	Name      string `json:"name"`
	Latitude  Score  `json:"latitude"`
	Longitude Score  `json:"longitude"`
	Type      string `json:"type"` // Restaurant, Hotel or Place
}

type DayPlan struct {
	Day           int          `json:"day"`
	Restaurant    Suggestion   `json:"restaurant"`
	Hotel         *Suggestion  `json:"hotel"`
	Place         *Suggestion  `json:"place"`
	SimilarHotels []Suggestion `json:"similar_hotels"`
	SimilarPlaces []Suggestion `json:"similar_places"`
	MapPoints     []MapPoint   `json:"map_points,omitempty"`
	Cached        bool         `json:"cached"`
}

type BudgetShare struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type RatedName struct {
	Name   string `json:"name"`
	Rating Score  `json:"rating"`
}

// TripOverview is the summary a UI charts under the itinerary.
type TripOverview struct {
	BudgetDistribution []BudgetShare `json:"budget_distribution"`
	TopHotels          []RatedName   `json:"top_hotels"`
	TopRestaurants     []RatedName   `json:"top_restaurants"`
}

type TripPlan struct {
	City             string        `json:"city"`
	MapCenter        MapPoint      `json:"map_center"`
	BudgetLevel      int           `json:"budget_level"`
	Fingerprint      string        `json:"fingerprint"`
	NoRecommendation bool          `json:"no_recommendation"`
	Message          string        `json:"message,omitempty"`
	Days             []DayPlan     `json:"days"`
	Overview         *TripOverview `json:"overview,omitempty"`
}
