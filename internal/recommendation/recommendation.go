package recommendation

import (
	"errors"
	"time"

	"github.com/Akshu121796/Personalized-Recommendation-System/internal/catalog"
	"github.com/google/uuid"
)

var (
	ErrItemNotFound       = errors.New("item not found")
	ErrEngineUnavailable  = errors.New("recommendation engine unavailable")
	ErrHistoryUnavailable = errors.New("user history unavailable")
)

// Retrieval strategy names, used in responses and metrics
const (
	StrategySimilar      = "similar"
	StrategyPersonalized = "personalized"
	StrategyTrending     = "trending"
)

// Engine interface for catalog retrieval strategies.
// Every retrieval returns a non-nil slice; an engine whose catalog failed to load returns empty results.
type Engine interface {
	Ready() error
	Similar(itemID string, topN int) []catalog.Item
	Personalize(seedIDs []string, topN int) []catalog.Item
	Trending(topN int) []catalog.Item
	ByIDs(ids []string) []catalog.Item
	Item(id string) (catalog.Item, bool)
	Items(offset, limit int) []catalog.Item
	Size() int
	Name() string
}

// CatalogLoader supplies the corpus the engine is built from
type CatalogLoader interface {
	Load() (*catalog.Corpus, error)
}

// CatalogLoaderFunc adapts a function to CatalogLoader
type CatalogLoaderFunc func() (*catalog.Corpus, error)

func (f CatalogLoaderFunc) Load() (*catalog.Corpus, error) {
	return f()
}

// FileCatalog loads the corpus from a CSV file
func FileCatalog(path string) CatalogLoader {
	return CatalogLoaderFunc(func() (*catalog.Corpus, error) {
		return catalog.Load(path)
	})
}

// EngineOptions tunes the index build
type EngineOptions struct {
	BuildWorkers int
	Progress     func(done, total int)
}

// HistoryProvider exposes a user's interaction history as item ids, most recent first
type HistoryProvider interface {
	History(userID uuid.UUID) ([]string, error)
	Likes(userID uuid.UUID) ([]string, error)
}

// Service defines the interface for recommendation business logic
type Service interface {
	GetFeed(userID uuid.UUID, limit int) *FeedResponse
	GetRecommendations(userID uuid.UUID, limit int) *RecommendationResponse
	GetSavedItems(userID uuid.UUID) ([]catalog.Item, error)
	GetSimilar(itemID string, limit int) ([]catalog.Item, error)
	GetTrending(limit int) ([]catalog.Item, error)
	Personalize(seedIDs []string, limit int) ([]catalog.Item, error)
	GetItem(id string) (catalog.Item, error)
	ListItems(page, limit int) ([]catalog.Item, int, error)
}

// Feed section keys
const (
	SectionRecommended = "rec"
	SectionFresh       = "fresh"
	SectionSimilar     = "similar"
	SectionTrending    = "trending"
)

// Section is one titled row of the home feed
type Section struct {
	Key   string                  `json:"key"`
	Title string                  `json:"title"`
	Items []*catalog.ItemResponse `json:"items"`
}

// FeedResponse is the home feed, sections in display order
type FeedResponse struct {
	Sections    []Section `json:"sections"`
	Degraded    bool      `json:"degraded"`
	Message     string    `json:"message,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// RecommendationResponse wraps a single retrieval result
type RecommendationResponse struct {
	Items       []*catalog.ItemResponse `json:"items"`
	Strategy    string                  `json:"strategy"`
	EngineUsed  string                  `json:"engine_used"`
	Count       int                     `json:"count"`
	Degraded    bool                    `json:"degraded"`
	Message     string                  `json:"message,omitempty"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// ItemsResponse wraps a plain list of items
type ItemsResponse struct {
	Items []*catalog.ItemResponse `json:"items"`
	Count int                     `json:"count"`
}

// BuildItemsResponse converts items, preserving order
func BuildItemsResponse(items []catalog.Item) *ItemsResponse {
	return &ItemsResponse{
		Items: catalog.ToResponses(items),
		Count: len(items),
	}
}

func newSection(key, title string, items []catalog.Item) Section {
	return Section{
		Key:   key,
		Title: title,
		Items: catalog.ToResponses(items),
	}
}
