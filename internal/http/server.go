package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/haneul-kim/date-spot-recommender/internal/domain"
	"github.com/haneul-kim/date-spot-recommender/internal/normalize"
	"github.com/haneul-kim/date-spot-recommender/internal/recommend"
)

// PlaceRepo is the catalog the API serves and scores.
type PlaceRepo interface {
	AllPlaces() ([]domain.Place, error)
	ListPlaces(limit, offset int, district string, placeType domain.PlaceType) ([]domain.Place, int, error)
	GetPlace(id string) (domain.Place, bool, error)
}

type Server struct {
	engine *recommend.Engine
	places PlaceRepo
}

func NewServer(engine *recommend.Engine, places PlaceRepo) *Server {
	return &Server{engine: engine, places: places}
}

// Routes builds the gin handler. All cross-origin requests are allowed.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	r.Use(cors.New(corsCfg))

	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	{
		api.POST("/recommend", s.handleRecommend)
		api.GET("/places", s.handlePlacesList)
		api.GET("/places/:id", s.handlePlaceByID)
	}
	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Recommendation is one ranked entry of the direct API response.
type Recommendation struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	District    string  `json:"district"`
	Score       float64 `json:"score"`
	Reason      string  `json:"reason"`
	Tags        string  `json:"tags"`
	Indoor      bool    `json:"indoor"`
	BudgetLevel int     `json:"budget_level"`
}

type recommendResponse struct {
	Success         bool             `json:"success"`
	Recommendations []Recommendation `json:"recommendations"`
	Timestamp       string           `json:"timestamp"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handleRecommend(c *gin.Context) {
	reqID := c.GetString("request_id")

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	pref, err := normalize.Preference(raw)
	if err != nil {
		var verr *normalize.ValidationError
		if errors.As(err, &verr) {
			log.Warn().Str("request_id", reqID).Str("field", verr.Field).Msg("invalid preference payload")
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	places, err := s.places.AllPlaces()
	if err != nil {
		log.Error().Err(err).Str("request_id", reqID).Msg("load places")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load places"})
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	ranked := s.engine.Recommend(places, &pref, nil, limit)

	out := make([]Recommendation, 0, len(ranked))
	for _, sp := range ranked {
		out = append(out, Recommendation{
			Name:        sp.Place.Name,
			Type:        string(sp.Place.Type),
			District:    sp.Place.District,
			Score:       recommend.Round3(sp.Score),
			Reason:      sp.Reason,
			Tags:        sp.Place.Tags,
			Indoor:      sp.Place.Indoor,
			BudgetLevel: sp.Place.BudgetLevel,
		})
	}

	log.Info().Str("request_id", reqID).Int("candidates", len(places)).Int("returned", len(out)).Msg("recommendation served")
	c.JSON(http.StatusOK, recommendResponse{
		Success:         true,
		Recommendations: out,
		Timestamp:       time.Now().Format(time.RFC3339),
	})
}

type placesListResponse struct {
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	Total  int            `json:"total"`
	Items  []domain.Place `json:"items"`
}

func (s *Server) handlePlacesList(c *gin.Context) {
	limit, offset := parseLimitOffset(c, 50, 0)
	district := c.Query("district")
	placeType := domain.PlaceType(c.Query("type"))

	items, total, err := s.places.ListPlaces(limit, offset, district, placeType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list places"})
		return
	}
	if items == nil {
		items = []domain.Place{}
	}
	c.JSON(http.StatusOK, placesListResponse{Limit: limit, Offset: offset, Total: total, Items: items})
}

func (s *Server) handlePlaceByID(c *gin.Context) {
	id := c.Param("id")
	p, ok, err := s.places.GetPlace(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load place"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "not_found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func parseLimitOffset(c *gin.Context, defLimit, defOffset int) (int, int) {
	limit := defLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = defLimit
	}
	if limit > 200 {
		limit = 200
	}

	offset := defOffset
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = defOffset
	}
	return limit, offset
}
