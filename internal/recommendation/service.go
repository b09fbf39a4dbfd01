package recommendation

import (
	"fmt"
	"time"

	"github.com/Akshu121796/Personalized-Recommendation-System/internal/catalog"
	"github.com/Akshu121796/Personalized-Recommendation-System/pkg/logger"
	"github.com/google/uuid"
)

const (
	DefaultLimit = 8
	MaxLimit     = 100
)

// Feed section titles
const (
	TitleRecommended = "Recommended for you"
	TitleFresh       = "Fresh picks to get you started"
	TitleSimilar     = "Because you viewed something like this"
	TitleTrending    = "Trending now"
)

const (
	messageCatalogUnavailable = "The catalog is unavailable. Recommendations are disabled."
	messageNoHistoryStore     = "History storage is not configured. Showing demo recommendations only."
	messageHistoryFailed      = "Your history could not be loaded. Showing demo recommendations only."
)

// service implements the Service interface
type service struct {
	engine  Engine
	history HistoryProvider
	logger  *logger.Logger
}

// NewService creates a new recommendation service. history may be nil, in which
// case every user is served as anonymous.
func NewService(engine Engine, history HistoryProvider, log *logger.Logger) Service {
	return &service{
		engine:  engine,
		history: history,
		logger:  log.WithComponent("recommendation-service"),
	}
}

// NormalizeLimit maps a limit outside 1..MaxLimit to DefaultLimit
func NormalizeLimit(limit int) int {
	if limit < 1 || limit > MaxLimit {
		return DefaultLimit
	}
	return limit
}

// userHistory returns the user's history, an empty history for anonymous users,
// and a degradation message when history could not be consulted.
func (s *service) userHistory(userID uuid.UUID) ([]string, string) {
	if userID == uuid.Nil {
		return nil, ""
	}
	if s.history == nil {
		return nil, messageNoHistoryStore
	}

	ids, err := s.history.History(userID)
	if err != nil {
		s.logger.Warn("Failed to load history for user " + userID.String() + ", serving anonymous results: " + err.Error())
		return nil, messageHistoryFailed
	}
	return ids, ""
}

func (s *service) GetFeed(userID uuid.UUID, limit int) *FeedResponse {
	limit = NormalizeLimit(limit)
	feed := &FeedResponse{
		Sections:    []Section{},
		GeneratedAt: time.Now(),
	}

	if err := s.engine.Ready(); err != nil {
		s.logger.Warn("Serving empty feed: " + err.Error())
		feed.Degraded = true
		feed.Message = messageCatalogUnavailable
		return feed
	}

	history, message := s.userHistory(userID)
	if message != "" {
		feed.Degraded = true
		feed.Message = message
	}

	if len(history) > 0 {
		feed.Sections = append(feed.Sections, newSection(SectionRecommended, TitleRecommended, s.engine.Personalize(history, limit)))
	} else {
		feed.Sections = append(feed.Sections, newSection(SectionFresh, TitleFresh, s.engine.Trending(limit)))
	}

	if len(history) > 0 {
		// history is most recent first
		similar := s.engine.Similar(history[0], limit)
		if len(similar) > 0 {
			feed.Sections = append(feed.Sections, newSection(SectionSimilar, TitleSimilar, similar))
		}
	}

	feed.Sections = append(feed.Sections, newSection(SectionTrending, TitleTrending, s.engine.Trending(limit)))

	s.logger.Info(fmt.Sprintf("Feed generated with %d sections for user %s", len(feed.Sections), userID.String()))
	return feed
}

func (s *service) GetRecommendations(userID uuid.UUID, limit int) *RecommendationResponse {
	limit = NormalizeLimit(limit)
	response := &RecommendationResponse{
		Items:       []*catalog.ItemResponse{},
		EngineUsed:  s.engine.Name(),
		GeneratedAt: time.Now(),
	}

	if err := s.engine.Ready(); err != nil {
		response.Strategy = StrategyTrending
		response.Degraded = true
		response.Message = messageCatalogUnavailable
		return response
	}

	history, message := s.userHistory(userID)
	if message != "" {
		response.Degraded = true
		response.Message = message
	}

	var items []catalog.Item
	if len(history) > 0 {
		response.Strategy = StrategyPersonalized
		items = s.engine.Personalize(history, limit)
	} else {
		response.Strategy = StrategyTrending
		items = s.engine.Trending(limit)
	}

	response.Items = catalog.ToResponses(items)
	response.Count = len(items)
	return response
}

func (s *service) GetSavedItems(userID uuid.UUID) ([]catalog.Item, error) {
	if s.history == nil {
		return nil, ErrHistoryUnavailable
	}

	likes, err := s.history.Likes(userID)
	if err != nil {
		s.logger.Error("Failed to load likes for user " + userID.String() + ": " + err.Error())
		return nil, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}

	if err := s.engine.Ready(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return s.engine.ByIDs(likes), nil
}

func (s *service) GetSimilar(itemID string, limit int) ([]catalog.Item, error) {
	if err := s.engine.Ready(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	if _, ok := s.engine.Item(itemID); !ok {
		return nil, ErrItemNotFound
	}
	return s.engine.Similar(itemID, NormalizeLimit(limit)), nil
}

func (s *service) GetTrending(limit int) ([]catalog.Item, error) {
	if err := s.engine.Ready(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return s.engine.Trending(NormalizeLimit(limit)), nil
}

func (s *service) Personalize(seedIDs []string, limit int) ([]catalog.Item, error) {
	if err := s.engine.Ready(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return s.engine.Personalize(seedIDs, NormalizeLimit(limit)), nil
}

func (s *service) GetItem(id string) (catalog.Item, error) {
	if err := s.engine.Ready(); err != nil {
		return catalog.Item{}, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	item, ok := s.engine.Item(id)
	if !ok {
		return catalog.Item{}, ErrItemNotFound
	}
	return item, nil
}

// ListItems returns the given 1-based page of the catalog and the catalog size
func (s *service) ListItems(page, limit int) ([]catalog.Item, int, error) {
	if err := s.engine.Ready(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	if page < 1 {
		page = 1
	}
	limit = NormalizeLimit(limit)
	return s.engine.Items((page-1)*limit, limit), s.engine.Size(), nil
}
