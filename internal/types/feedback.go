package types

import "time"

type FeedbackRequest struct {
	Day              int    `json:"day" validate:"gte=1"`
	Restaurant       string `json:"restaurant" validate:"required"`
	RestaurantRating int    `json:"restaurant_rating" validate:"gte=1,lte=5"`
	Hotel            string `json:"hotel" validate:"required"`
	HotelRating      int    `json:"hotel_rating" validate:"gte=1,lte=5"`
	Place            string `json:"place" validate:"required"`
	PlaceRating      int    `json:"place_rating" validate:"gte=1,lte=5"`
	Comment          string `json:"comment" validate:"max=2000"`
}

// FeedbackEntry is one stored feedback row.
type FeedbackEntry struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Day              int       `json:"day"`
	Restaurant       string    `json:"restaurant"`
	RestaurantRating int       `json:"restaurant_rating"`
	Hotel            string    `json:"hotel"`
	HotelRating      int       `json:"hotel_rating"`
	Place            string    `json:"place"`
	PlaceRating      int       `json:"place_rating"`
	Comment          string    `json:"comment"`
	CreatedAt        time.Time `json:"created_at"`
}

type FeedbackResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}
