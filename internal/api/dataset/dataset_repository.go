package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository serves the static place table. Records are shared and must not be mutated.
type Repository interface {
	Records() []types.PlaceRecord
}

// CSVValidationError reports a dataset file that does not have the expected shape.
type CSVValidationError struct {
	Message string
}

func (e CSVValidationError) Error() string {
	return e.Message
}

const (
	colRestaurantName   = "Restaurant_Name"
	colRestaurantLat    = "Latitude_x__Restaurant"
	colRestaurantLon    = "Longitude_x__Restaurant"
	colRestaurantRating = "Ratings_out_of_5_Restaurant"
	colHotelName        = "Hotel_name"
	colHotelLat         = "Latitude_Hotel"
	colHotelLon         = "Longitude_Hotel"
	colHotelReview      = "mmt_review_score_Hotel"
	colHotelStars       = "hotel_star_rating_Hotel"
	colPlaceName        = "Name_Place"
	colPlaceLat         = "Latitude_place_0_x"
	colPlaceLon         = "Longitude_place_0_x"
	colPlaceRating      = "Rating_Place"
	colBudgetLevel      = "budget_level"
)

var requiredColumns = []string{
	colRestaurantName, colRestaurantLat, colRestaurantLon, colRestaurantRating,
	colHotelName, colHotelLat, colHotelLon, colHotelReview, colHotelStars,
	colPlaceName, colPlaceLat, colPlaceLon, colPlaceRating,
	colBudgetLevel,
}

type RepositoryImpl struct {
	logger  *slog.Logger
	records []types.PlaceRecord
}

// NewRepository loads the CSV at path. Any error is fatal for the caller: the
// planner cannot serve without its table.
func NewRepository(path string, logger *slog.Logger) (*RepositoryImpl, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	repo, err := NewRepositoryFromReader(f, logger)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return repo, nil
}

func NewRepositoryFromReader(r io.Reader, logger *slog.Logger) (*RepositoryImpl, error) {
	records, dropped, err := LoadCSV(r)
	if err != nil {
		return nil, err
	}
	logger.Info("Dataset loaded",
		slog.Int("rows", len(records)),
		slog.Int("duplicates_dropped", dropped))
	return &RepositoryImpl{logger: logger, records: records}, nil
}

func (r *RepositoryImpl) Records() []types.PlaceRecord {
	return r.records
}

// LoadCSV parses the dataset and drops rows whose parsed values repeat an earlier row.
// It returns the surviving records, indexed in file order, and the number dropped.
func LoadCSV(r io.Reader) ([]types.PlaceRecord, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, CSVValidationError{Message: "dataset is empty"}
		}
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}

	index, err := buildHeaderIndex(header)
	if err != nil {
		return nil, 0, err
	}

	var (
		records = make([]types.PlaceRecord, 0, 256)
		seen    = make(map[string]struct{})
		dropped int
		rowNum  = 1
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read csv row %d: %w", rowNum+1, err)
		}
		rowNum++

		rec, err := parseRow(row, index)
		if err != nil {
			return nil, 0, CSVValidationError{Message: fmt.Sprintf("row %d: %v", rowNum, err)}
		}

		key := dedupeKey(&rec)
		if _, dup := seen[key]; dup {
			dropped++
			continue
		}
		seen[key] = struct{}{}

		rec.Index = len(records)
		records = append(records, rec)
	}
	return records, dropped, nil
}

// dedupeKey renders the parsed fields so that "4" and "4.0", or "True" and "1",
// collide. NaN renders as "NaN", so rows with the same missing cells match too.
func dedupeKey(rec *types.PlaceRecord) string {
	var b strings.Builder
	score := func(s types.Score) {
		b.WriteString(strconv.FormatFloat(float64(s), 'g', -1, 64))
		b.WriteByte('\x1f')
	}
	name := func(n string) {
		b.WriteString(n)
		b.WriteByte('\x1f')
	}

	name(rec.Restaurant.Name)
	score(rec.Restaurant.Latitude)
	score(rec.Restaurant.Longitude)
	score(rec.Restaurant.Rating)
	name(rec.Hotel.Name)
	score(rec.Hotel.Latitude)
	score(rec.Hotel.Longitude)
	score(rec.Hotel.ReviewScore)
	score(rec.Hotel.StarRating)
	name(rec.Place.Name)
	score(rec.Place.Latitude)
	score(rec.Place.Longitude)
	score(rec.Place.Rating)
	b.WriteString(strconv.Itoa(rec.BudgetLevel))
	b.WriteByte('\x1f')
	b.WriteString(strconv.FormatUint(uint64(rec.Categories), 16))
	return b.String()
}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if _, exists := index[col]; !exists {
			index[col] = i
		}
	}

	var missing []string
	for _, required := range requiredColumns {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	for _, category := range types.PlaceCategories {
		if _, ok := index[category]; !ok {
			missing = append(missing, category)
		}
	}
	if len(missing) > 0 {
		return nil, CSVValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

func parseRow(row []string, index map[string]int) (types.PlaceRecord, error) {
	var (
		rec  types.PlaceRecord
		perr error
	)
	num := func(col string) types.Score {
		v, err := parseOptionalFloat(row[index[col]])
		if err != nil && perr == nil {
			perr = fmt.Errorf("column %s: %w", col, err)
		}
		return v
	}
	text := func(col string) string {
		return normalizeName(row[index[col]])
	}

	rec.Restaurant = types.Restaurant{
		Name:      text(colRestaurantName),
		Latitude:  num(colRestaurantLat),
		Longitude: num(colRestaurantLon),
		Rating:    num(colRestaurantRating),
	}
	rec.Hotel = types.Hotel{
		Name:        text(colHotelName),
		Latitude:    num(colHotelLat),
		Longitude:   num(colHotelLon),
		ReviewScore: num(colHotelReview),
		StarRating:  num(colHotelStars),
	}
	rec.Place = types.Place{
		Name:      text(colPlaceName),
		Latitude:  num(colPlaceLat),
		Longitude: num(colPlaceLon),
		Rating:    num(colPlaceRating),
	}

	// Missing budget levels never match a tier.
	rec.BudgetLevel = -1
	if budget := num(colBudgetLevel); budget.Valid() {
		rec.BudgetLevel = int(math.Round(float64(budget)))
	}

	for i, category := range types.PlaceCategories {
		if truthy(row[index[category]]) {
			rec.Categories = rec.Categories.With(i)
		}
	}
	return rec, perr
}

func parseOptionalFloat(value string) (types.Score, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return types.Missing, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return types.Missing, err
	}
	return types.Score(f), nil
}

// normalizeName maps blank and pandas-style null markers to "".
func normalizeName(value string) string {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "", "nan", "null", "none":
		return ""
	}
	return value
}

func truthy(value string) bool {
	value = strings.TrimSpace(value)
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f != 0 && !math.IsNaN(f)
	}
	return false
}
