package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	appMiddleware "github.com/FACorreiaa/go-trip-planner/app/middleware"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api/dataset"
	"github.com/FACorreiaa/go-trip-planner/internal/container"
	"github.com/FACorreiaa/go-trip-planner/internal/router"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// E2ETestSuite drives the full HTTP stack against the bundled dataset, with
// Postgres replaced by pgxmock.
type E2ETestSuite struct {
	suite.Suite
	server *httptest.Server
	client *http.Client
	pool   pgxmock.PgxPoolIface
	cfg    config.Config
}

func (s *E2ETestSuite) SetupSuite() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg, err := config.InitConfig()
	s.Require().NoError(err)
	cfg.JWT.SecretKey = "e2e-secret"
	cfg.Recommend.Seed = 7
	s.cfg = cfg

	pool, err := pgxmock.NewPool()
	s.Require().NoError(err)
	s.pool = pool

	places, err := dataset.NewRepository(cfg.Dataset.Path, logger)
	s.Require().NoError(err)

	c := container.Build(&s.cfg, pool, places, nil, logger)

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Mount("/", router.SetupRouter(c.RouterConfig()))

	s.server = httptest.NewServer(r)
	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *E2ETestSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	s.pool.Close()
}

func (s *E2ETestSuite) TearDownTest() {
	s.NoError(s.pool.ExpectationsWereMet())
}

func (s *E2ETestSuite) do(method, path, token string, body interface{}) (*http.Response, []byte) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.server.URL+path, buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, data
}

func (s *E2ETestSuite) tokenFor(username string) string {
	claims := &appMiddleware.Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.SecretKey))
	s.Require().NoError(err)
	return token
}

func (s *E2ETestSuite) TestPing() {
	resp, body := s.do(http.MethodGet, "/ping", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("pong", string(body))
}

func (s *E2ETestSuite) TestProtectedRoutesRequireToken() {
	for _, path := range []string{"/api/v1/trips/categories", "/api/v1/trips/plan", "/api/v1/feedback"} {
		method := http.MethodPost
		if path == "/api/v1/trips/categories" {
			method = http.MethodGet
		}
		resp, _ := s.do(method, path, "", nil)
		s.Equal(http.StatusUnauthorized, resp.StatusCode, path)
	}

	resp, _ := s.do(http.MethodGet, "/api/v1/trips/categories", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *E2ETestSuite) TestRegisterLoginPlanFeedback() {
	insertUser := regexp.QuoteMeta("INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id")
	selectUser := regexp.QuoteMeta("SELECT id, username, password_hash, created_at FROM users WHERE username = $1")
	credentials := types.RegisterRequest{Username: "traveller", Password: "punetrip2024"}

	// register
	userID := uuid.New()
	s.pool.ExpectQuery(insertUser).
		WithArgs("traveller", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(userID))
	resp, _ := s.do(http.MethodPost, "/api/v1/auth/register", "", credentials)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	// register again
	s.pool.ExpectQuery(insertUser).
		WithArgs("traveller", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	resp, body := s.do(http.MethodPost, "/api/v1/auth/register", "", credentials)
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Contains(string(body), "Username already exists")

	// login
	hash, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), bcrypt.MinCost)
	s.Require().NoError(err)
	s.pool.ExpectQuery(selectUser).
		WithArgs("traveller").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(userID, "traveller", string(hash), time.Now()))
	resp, body = s.do(http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{Username: "traveller", Password: credentials.Password})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var login types.LoginResponse
	s.Require().NoError(json.Unmarshal(body, &login))
	s.Require().NotEmpty(login.AccessToken)

	// categories
	resp, body = s.do(http.MethodGet, "/api/v1/trips/categories", login.AccessToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), "hindu_temple_Place")

	// plan twice; the second answer comes from the session
	planReq := types.TripRequest{Budget: 1500, MinHotelRating: 3, MinHotelStarRating: 1, MinRestaurantRating: 1, Days: 2}
	var first, second planResponse
	resp, body = s.do(http.MethodPost, "/api/v1/trips/plan", login.AccessToken, planReq)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().NoError(json.Unmarshal(body, &first))
	s.False(first.NoRecommendation)
	s.Equal(2, first.BudgetLevel)
	s.Require().Len(first.Days, 2)
	s.NotEmpty(first.Days[0].Restaurant.Name)
	s.NotNil(first.Days[0].Hotel)
	s.LessOrEqual(len(first.Days[0].SimilarHotels), 4)

	resp, body = s.do(http.MethodPost, "/api/v1/trips/plan", login.AccessToken, planReq)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().NoError(json.Unmarshal(body, &second))
	for i := range second.Days {
		s.True(second.Days[i].Cached)
		s.Equal(first.Days[i].Restaurant.Name, second.Days[i].Restaurant.Name)
	}

	// feedback on day one
	s.pool.ExpectQuery("INSERT INTO feedback").
		WithArgs("traveller", 1, first.Days[0].Restaurant.Name, 5, "Hotel Shreyas", 4, "Aga Khan Palace", 4, "", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))
	resp, body = s.do(http.MethodPost, "/api/v1/feedback", login.AccessToken, types.FeedbackRequest{
		Day: 1, Restaurant: first.Days[0].Restaurant.Name, RestaurantRating: 5,
		Hotel: "Hotel Shreyas", HotelRating: 4, Place: "Aga Khan Palace", PlaceRating: 4,
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.JSONEq(`{"id":5,"message":"Thank you for your feedback!"}`, string(body))
}

func (s *E2ETestSuite) TestPlanNoRecommendation() {
	resp, body := s.do(http.MethodPost, "/api/v1/trips/plan", s.tokenFor("picky"), types.TripRequest{
		Budget: 700, MinHotelRating: 5, MinHotelStarRating: 5, MinRestaurantRating: 5, Days: 1,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var plan planResponse
	s.Require().NoError(json.Unmarshal(body, &plan))
	s.True(plan.NoRecommendation)
	s.Equal("No suitable recommendations found based on the provided criteria.", plan.Message)
	s.Empty(plan.Days)
}

func (s *E2ETestSuite) TestPlanRejectsInvalidInput() {
	token := s.tokenFor("careless")

	resp, body := s.do(http.MethodPost, "/api/v1/trips/plan", token, types.TripRequest{
		Budget: 1500, MinHotelRating: 3, MinHotelStarRating: 1, MinRestaurantRating: 1, Days: 9,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(string(body), "Days must be at most 7")

	resp, _ = s.do(http.MethodPost, "/api/v1/trips/plan", token, types.TripRequest{
		Budget: 1500, MinHotelRating: 3, MinHotelStarRating: 1, MinRestaurantRating: 1, Days: 1,
		Categories: []string{"beach_Place"},
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

type planResponse struct {
	BudgetLevel      int    `json:"budget_level"`
	NoRecommendation bool   `json:"no_recommendation"`
	Message          string `json:"message"`
	Days             []struct {
		Restaurant struct {
			Name string `json:"name"`
		} `json:"restaurant"`
		Hotel *struct {
			Name string `json:"name"`
		} `json:"hotel"`
		SimilarHotels []json.RawMessage `json:"similar_hotels"`
		Cached        bool              `json:"cached"`
	} `json:"days"`
}

func TestE2ETestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end suite in short mode")
	}
	require.FileExists(t, "data/dataset_without_duplicates.csv")
	suite.Run(t, new(E2ETestSuite))
}
