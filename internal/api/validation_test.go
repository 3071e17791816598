package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func TestValidateTripRequest(t *testing.T) {
	valid := types.TripRequest{
		Budget:              1500,
		MinHotelRating:      3,
		MinHotelStarRating:  3,
		MinRestaurantRating: 3,
		Categories:          []string{"museum_Place", "zoo_Place"},
		Days:                3,
	}
	assert.NoError(t, ValidateStruct(valid))

	t.Run("UnknownCategory", func(t *testing.T) {
		req := valid
		req.Categories = []string{"casino_Place"}
		err := ValidateStruct(req)
		assert.ErrorContains(t, err, "unknown place category")
	})

	t.Run("TooManyDays", func(t *testing.T) {
		req := valid
		req.Days = 8
		err := ValidateStruct(req)
		assert.ErrorContains(t, err, "Days must be at most 7")
	})

	t.Run("RatingBelowOne", func(t *testing.T) {
		req := valid
		req.MinHotelRating = 0
		assert.Error(t, ValidateStruct(req))
	})
}

func TestValidateFeedbackRequest(t *testing.T) {
	req := types.FeedbackRequest{Day: 1, Restaurant: "A", RestaurantRating: 6, Hotel: "B", HotelRating: 3, Place: "C", PlaceRating: 3}
	err := ValidateStruct(req)
	assert.ErrorContains(t, err, "RestaurantRating must be at most 5")
}
