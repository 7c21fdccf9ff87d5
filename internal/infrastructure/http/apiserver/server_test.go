package apiserver_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	recipeapp "github.com/alchemorsel/pantry/internal/application/recipe"
	"github.com/alchemorsel/pantry/internal/application/shopping"
	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/http/apiserver"
	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/pkg/errors"
	"github.com/alchemorsel/pantry/pkg/healthcheck"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

func healthFor(ping func(context.Context) error) *healthcheck.HealthCheck {
	h := healthcheck.New("test", zap.NewNop())
	h.SetCacheTTL(0)
	h.Register("store", healthcheck.NewPingChecker(ping, true))
	return h
}

type ServerTestSuite struct {
	suite.Suite
	cfg     *config.Config
	repo    *memory.RecipeRepository
	metrics *monitoring.MetricsCollector
	handler http.Handler
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "pantry", Version: "test", Environment: "test"},
		Server: config.ServerConfig{
			RequestTimeout:    5 * time.Second,
			MaxBodyBytes:      1 << 20,
			EnableCORS:        true,
			AllowedOrigins:    []string{"*"},
			EnableCompression: true,
		},
		Monitoring: config.MonitoringConfig{
			EnableMetrics:   true,
			MetricsPath:     "/metrics",
			HealthCheckPath: "/health",
		},
	}
}

func (s *ServerTestSuite) newServer(deps apiserver.Dependencies) http.Handler {
	server, err := apiserver.NewServer(s.cfg, zap.NewNop(), deps)
	s.Require().NoError(err)
	return server.Handler()
}

func (s *ServerTestSuite) SetupTest() {
	s.cfg = testConfig()
	s.repo = memory.NewRecipeRepository()
	s.metrics = monitoring.NewMetricsCollector(zap.NewNop())

	s.handler = s.newServer(apiserver.Dependencies{
		RecipeService: recipeapp.NewRecipeService(s.repo, nil, zap.NewNop()),
		ShoppingService: shopping.NewService(
			shopping.NewResolver(s.repo, shopping.DefaultMaxConcurrentLookups, zap.NewNop()),
			s.metrics,
			zap.NewNop(),
		),
		Health:    healthFor(s.repo.Ping),
		StoreName: "memory",
		Metrics:   s.metrics,
	})
}

func (s *ServerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder, v interface{}) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *ServerTestSuite) errorCode(rec *httptest.ResponseRecorder) errors.ErrorCode {
	var body errors.ErrorResponse
	s.decode(rec, &body)
	return body.Error.Code
}

func (s *ServerTestSuite) createRecipe(body string) inbound.RecipeDTO {
	rec := s.do(http.MethodPost, "/recipes", body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var dto inbound.RecipeDTO
	s.decode(rec, &dto)
	return dto
}

func (s *ServerTestSuite) TestRecipeRoutes() {
	s.Run("Create_ShouldReturnCreatedRecipe", func() {
		// Act
		rec := s.do(http.MethodPost, "/recipes", `{"title":"Pancakes","servings":2,
			"ingredients":[{"name":"Flour","quantity":"200g","unit":"g"}]}`)

		// Assert
		s.Equal(http.StatusCreated, rec.Code)
		s.Contains(rec.Header().Get("Content-Type"), "application/json")
		var dto inbound.RecipeDTO
		s.decode(rec, &dto)
		s.NotEmpty(dto.ID)
		s.Equal("Pancakes", dto.Title)
		s.Equal(2, dto.Servings)
		s.Equal([]inbound.IngredientDTO{{Name: "Flour", Quantity: 200, Unit: "g"}}, dto.Ingredients)
		s.NotNil(dto.Steps)
		s.NotNil(dto.Tags)
	})

	s.Run("ApiPrefix_ShouldServeSameResources", func() {
		// Arrange
		created := s.createRecipe(`{"title":"Soup"}`)

		// Act
		rec := s.do(http.MethodGet, "/api/recipes/"+created.ID, "")

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		var dto inbound.RecipeDTO
		s.decode(rec, &dto)
		s.Equal(created.ID, dto.ID)
		s.Equal(1, dto.Servings)
	})

	s.Run("List_ShouldReturnArray", func() {
		// Act
		rec := s.do(http.MethodGet, "/api/recipes", "")

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		var list []inbound.RecipeDTO
		s.decode(rec, &list)
		s.Len(list, 2)
	})

	s.Run("Update_ShouldMergeFields", func() {
		// Arrange
		created := s.createRecipe(`{"title":"Tea","tags":["hot"]}`)

		// Act
		rec := s.do(http.MethodPut, "/recipes/"+created.ID, `{"servings":3}`)

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		var dto inbound.RecipeDTO
		s.decode(rec, &dto)
		s.Equal("Tea", dto.Title)
		s.Equal(3, dto.Servings)
		s.Equal([]string{"hot"}, dto.Tags)
	})

	s.Run("Delete_ShouldReportSuccess", func() {
		// Arrange
		created := s.createRecipe(`{"title":"Toast"}`)

		// Act
		rec := s.do(http.MethodDelete, "/recipes/"+created.ID, "")

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"success":true}`, rec.Body.String())
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/recipes/"+created.ID, "").Code)
	})

	s.Run("UnknownID_ShouldReturnNotFound", func() {
		// Act
		rec := s.do(http.MethodGet, "/recipes/does-not-exist", "")

		// Assert
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal(errors.CodeRecipeNotFound, s.errorCode(rec))
	})

	s.Run("BlankTitle_ShouldFailValidation", func() {
		// Act
		rec := s.do(http.MethodPost, "/recipes", `{"title":"   "}`)

		// Assert
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(errors.CodeValidationFailed, s.errorCode(rec))
	})

	s.Run("NumericStringServings_ShouldBeAccepted", func() {
		// Act
		rec := s.do(http.MethodPost, "/recipes", `{"title":"Stew","servings":"4"}`)

		// Assert
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
		var dto inbound.RecipeDTO
		s.decode(rec, &dto)
		s.Equal(4, dto.Servings)
	})

	s.Run("InvalidServings_ShouldFailValidation", func() {
		for _, servings := range []string{`2.5`, `"abc"`, `0`, `"-1"`} {
			// Act
			rec := s.do(http.MethodPost, "/recipes", `{"title":"Stew","servings":`+servings+`}`)

			// Assert
			s.Equal(http.StatusBadRequest, rec.Code, servings)
			s.Equal(errors.CodeValidationFailed, s.errorCode(rec), servings)
		}
	})

	s.Run("MalformedJSON_ShouldReturnBadRequest", func() {
		// Act
		rec := s.do(http.MethodPost, "/recipes", `{"title":`)

		// Assert
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(errors.CodeBadRequest, s.errorCode(rec))
	})

	s.Run("MissingContentType_ShouldReturnUnsupportedMedia", func() {
		// Arrange
		req := httptest.NewRequest(http.MethodPost, "/recipes", strings.NewReader(`{"title":"x"}`))
		rec := httptest.NewRecorder()

		// Act
		s.handler.ServeHTTP(rec, req)

		// Assert
		s.Equal(http.StatusUnsupportedMediaType, rec.Code)
		s.Equal(errors.CodeUnsupportedMedia, s.errorCode(rec))
	})
}

func (s *ServerTestSuite) TestShoppingListRoute() {
	s.Run("ShouldConsolidateStoredRecipes", func() {
		// Arrange
		first := s.createRecipe(`{"title":"Cake","servings":2,"ingredients":[{"name":"Sugar","quantity":100,"unit":"g"}]}`)
		second := s.createRecipe(`{"title":"Tart","servings":4,"ingredients":[{"name":" sugar ","quantity":50,"unit":"G"}]}`)

		// Act
		rec := s.do(http.MethodPost, "/api/shopping-list",
			`{"recipes":["`+first.ID+`",{"id":"`+second.ID+`","servingsOverride":8}]}`)

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"items":[{"name":"Sugar","unit":"g","quantity":200}]}`, rec.Body.String())
	})

	s.Run("NonFiniteQuantities_ShouldBeNull", func() {
		// Arrange
		stored := s.createRecipe(`{"title":"Bread","servings":2,"ingredients":[{"name":"Flour","quantity":10,"unit":"g"}]}`)

		// Act
		rec := s.do(http.MethodPost, "/shopping-list", `{"recipes":[
			{"title":"Brine","ingredients":[{"name":"a","quantity":"Infinity"}]},
			{"id":"`+stored.ID+`","servingsOverride":"abc"}]}`)

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"items":[{"name":"a","unit":"","quantity":null},{"name":"Flour","unit":"g","quantity":null}]}`, rec.Body.String())
	})

	s.Run("EmptySelection_ShouldFailValidation", func() {
		// Act
		rec := s.do(http.MethodPost, "/shopping-list", `{"recipes":[]}`)

		// Assert
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(errors.CodeValidationFailed, s.errorCode(rec))
	})

	s.Run("UnknownIDs_ShouldReturnEmptyItems", func() {
		// Act
		rec := s.do(http.MethodPost, "/shopping-list", `{"recipes":["missing"]}`)

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"items":[]}`, rec.Body.String())
	})
}

func (s *ServerTestSuite) TestOperationalRoutes() {
	s.Run("Health_ShouldReportHealthy", func() {
		// Act
		rec := s.do(http.MethodGet, "/health", "")

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		var body struct {
			Status string `json:"status"`
			Checks []struct {
				Name   string `json:"name"`
				Status string `json:"status"`
			} `json:"checks"`
		}
		s.decode(rec, &body)
		s.Equal("healthy", body.Status)
		s.Require().Len(body.Checks, 1)
		s.Equal("store", body.Checks[0].Name)
	})

	s.Run("Health_ShouldReportUnreachableStore", func() {
		// Arrange
		handler := s.newServer(apiserver.Dependencies{
			Health: healthFor(func(context.Context) error { return stderrors.New("connection refused") }),
		})
		rec := httptest.NewRecorder()

		// Act
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		// Assert
		s.Equal(http.StatusServiceUnavailable, rec.Code)
		s.Contains(rec.Body.String(), "unhealthy")
		s.Contains(rec.Body.String(), "connection refused")
	})

	s.Run("Metrics_ShouldExposeRequestCounters", func() {
		// Arrange
		s.do(http.MethodGet, "/recipes", "")

		// Act
		rec := s.do(http.MethodGet, "/metrics", "")

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "pantry_http_requests_total")
	})

	s.Run("OpenAPI_ShouldServeJSONDocument", func() {
		// Act
		rec := s.do(http.MethodGet, "/openapi.json", "")

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		var doc map[string]interface{}
		s.decode(rec, &doc)
		s.Equal("3.0.3", doc["openapi"])
		s.Contains(doc["paths"], "/shopping-list")
	})

	s.Run("UnknownRoute_ShouldReturnJSONNotFound", func() {
		// Act
		rec := s.do(http.MethodGet, "/nope", "")

		// Assert
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal(errors.CodeNotFound, s.errorCode(rec))
	})

	s.Run("SecurityHeaders_ShouldBeSet", func() {
		// Act
		rec := s.do(http.MethodGet, "/health", "")

		// Assert
		s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
		s.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func (s *ServerTestSuite) TestRateLimit() {
	s.Run("ExhaustedBucket_ShouldReturnTooManyRequests", func() {
		// Arrange
		s.cfg.RateLimit = config.RateLimitConfig{Enable: true, RequestsPerMin: 1, BurstSize: 1}
		handler := s.newServer(apiserver.Dependencies{Health: healthFor(s.repo.Ping)})
		first := httptest.NewRecorder()
		second := httptest.NewRecorder()

		// Act
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))

		// Assert
		s.Equal(http.StatusOK, first.Code)
		s.Equal(http.StatusTooManyRequests, second.Code)
		s.Equal("60", second.Header().Get("Retry-After"))
	})
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
