package dataset

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// csvRow describes one dataset line; categories are listed by name.
type csvRow struct {
	restaurant, rLat, rLon, rRating    string
	hotel, hLat, hLon, hReview, hStars string
	place, pLat, pLon, pRating, budget string
	categories                         []string
}

func buildCSV(rows ...csvRow) string {
	header := append(append([]string{}, requiredColumns...), types.PlaceCategories...)
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteString("\n")
	for _, r := range rows {
		fields := []string{
			r.restaurant, r.rLat, r.rLon, r.rRating,
			r.hotel, r.hLat, r.hLon, r.hReview, r.hStars,
			r.place, r.pLat, r.pLon, r.pRating, r.budget,
		}
		selected := map[string]bool{}
		for _, c := range r.categories {
			selected[c] = true
		}
		for _, c := range types.PlaceCategories {
			if selected[c] {
				fields = append(fields, "True")
			} else {
				fields = append(fields, "False")
			}
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteString("\n")
	}
	return b.String()
}

func TestLoadCSV(t *testing.T) {
	t.Run("ParsesRowsAndDropsDuplicates", func(t *testing.T) {
		row := csvRow{
			restaurant: "Vaishali", rLat: "18.5204", rLon: "73.8412", rRating: "4.5",
			hotel: "Hotel Sagar Plaza", hLat: "18.5300", hLon: "73.8700", hReview: "4.1", hStars: "3",
			place: "Shaniwar Wada", pLat: "18.5195", pLon: "73.8553", pRating: "4.4", budget: "2.0",
			categories: []string{"tourist_attraction_Place", "point_of_interest_Place"},
		}
		other := row
		other.restaurant = "Cafe Goodluck"

		records, dropped, err := LoadCSV(strings.NewReader(buildCSV(row, row, other)))
		require.NoError(t, err)
		assert.Equal(t, 1, dropped)
		require.Len(t, records, 2)

		first := records[0]
		assert.Equal(t, 0, first.Index)
		assert.Equal(t, "Vaishali", first.Restaurant.Name)
		assert.InDelta(t, 4.5, float64(first.Restaurant.Rating), 1e-9)
		assert.InDelta(t, 4.1, float64(first.Hotel.ReviewScore), 1e-9)
		assert.Equal(t, 2, first.BudgetLevel)
		idx, _ := types.CategoryIndex("tourist_attraction_Place")
		assert.True(t, first.Categories.Has(idx))
		assert.ElementsMatch(t, []string{"point_of_interest_Place", "tourist_attraction_Place"}, first.Categories.Names())

		assert.Equal(t, 1, records[1].Index)
		assert.Equal(t, "Cafe Goodluck", records[1].Restaurant.Name)
	})

	t.Run("DuplicatesCompareParsedValues", func(t *testing.T) {
		row := csvRow{
			restaurant: "Vaishali", rLat: "18.5204", rLon: "73.8412", rRating: "4",
			place: "Shaniwar Wada", pLat: "18.5195", pLon: "73.8553", pRating: "4.4", budget: "2",
			categories: []string{"tourist_attraction_Place"},
		}
		reformatted := row
		reformatted.rRating = "4.0"
		reformatted.budget = "2.0"
		reformatted.pRating = " 4.40"

		lines := strings.Split(strings.TrimSuffix(buildCSV(row, reformatted), "\n"), "\n")
		lines[2] = strings.Replace(lines[2], "True", "true", 1)

		records, dropped, err := LoadCSV(strings.NewReader(strings.Join(lines, "\n") + "\n"))
		require.NoError(t, err)
		assert.Equal(t, 1, dropped)
		require.Len(t, records, 1)
		assert.InDelta(t, 4.0, float64(records[0].Restaurant.Rating), 1e-9)
	})

	t.Run("MissingSubRecordsLoadAsAbsent", func(t *testing.T) {
		row := csvRow{
			restaurant: "Vaishali", rLat: "18.52", rLon: "73.84", rRating: "4",
			budget: "1",
		}
		records, _, err := LoadCSV(strings.NewReader(buildCSV(row)))
		require.NoError(t, err)
		require.Len(t, records, 1)

		rec := records[0]
		assert.True(t, rec.HasRestaurant())
		assert.False(t, rec.HasHotel())
		assert.False(t, rec.HasPlace())
		assert.False(t, rec.Hotel.ReviewScore.Valid())
		assert.False(t, rec.Place.Latitude.Valid())
	})

	t.Run("MissingBudgetNeverMatchesATier", func(t *testing.T) {
		records, _, err := LoadCSV(strings.NewReader(buildCSV(csvRow{restaurant: "X"})))
		require.NoError(t, err)
		assert.Equal(t, -1, records[0].BudgetLevel)
	})

	t.Run("MissingColumnIsFatal", func(t *testing.T) {
		_, _, err := LoadCSV(strings.NewReader("Restaurant_Name,Hotel_name\nA,B\n"))
		var verr CSVValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "budget_level")
		assert.Contains(t, verr.Message, "zoo_Place")
	})

	t.Run("EmptyFile", func(t *testing.T) {
		_, _, err := LoadCSV(strings.NewReader(""))
		assert.ErrorAs(t, err, &CSVValidationError{})
	})

	t.Run("BadNumberIsRejected", func(t *testing.T) {
		row := csvRow{restaurant: "X", rRating: "four", budget: "1"}
		_, _, err := LoadCSV(strings.NewReader(buildCSV(row)))
		var verr CSVValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, colRestaurantRating)
	})
}

func TestNewRepositoryFromReader(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	row := csvRow{restaurant: "Vaishali", budget: "0"}

	repo, err := NewRepositoryFromReader(strings.NewReader(buildCSV(row)), logger)
	require.NoError(t, err)
	assert.Len(t, repo.Records(), 1)
}

func TestNewRepositoryMissingFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := NewRepository("does/not/exist.csv", logger)
	assert.Error(t, err)
}

func TestTruthy(t *testing.T) {
	for in, want := range map[string]bool{
		"True": true, "true": true, "1": true, "1.0": true,
		"False": false, "0": false, "0.0": false, "": false, "nan": false, "yes": false,
	} {
		assert.Equal(t, want, truthy(in), in)
	}
}
