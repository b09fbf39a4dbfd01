package recommendation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Akshu121796/Personalized-Recommendation-System/internal/catalog"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/metrics"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/similarity"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/vectorizer"
	"github.com/Akshu121796/Personalized-Recommendation-System/pkg/logger"
)

// model is the immutable state produced by a successful build
type model struct {
	corpus   *catalog.Corpus
	matrix   *similarity.Matrix
	trending []int
	terms    int
}

// ContentBasedEngine recommends catalog items based on TF-IDF text similarity.
// The catalog is loaded and indexed once, on first use.
type ContentBasedEngine struct {
	loader CatalogLoader
	opts   EngineOptions
	logger *logger.Logger

	once     sync.Once
	model    *model
	buildErr error
}

// NewContentBasedEngine creates a new content-based recommendation engine
func NewContentBasedEngine(loader CatalogLoader, opts EngineOptions, log *logger.Logger) Engine {
	return &ContentBasedEngine{
		loader: loader,
		opts:   opts,
		logger: log.WithComponent("recommendation-engine"),
	}
}

func (e *ContentBasedEngine) Name() string {
	return "content-based"
}

// Ready builds the index if needed and reports the build error, if any
func (e *ContentBasedEngine) Ready() error {
	_, err := e.ensureModel()
	return err
}

func (e *ContentBasedEngine) ensureModel() (*model, error) {
	e.once.Do(func() {
		start := time.Now()
		e.model, e.buildErr = e.build()

		items, terms := 0, 0
		if e.buildErr == nil {
			items = e.model.corpus.Len()
			terms = e.model.terms
		}
		metrics.RecordIndexBuild(time.Since(start), items, terms, e.buildErr)

		if e.buildErr != nil {
			e.logger.Error("Failed to build recommendation index: " + e.buildErr.Error())
			return
		}
		e.logger.Info(fmt.Sprintf("Recommendation index built: %d items, %d terms in %s", items, terms, time.Since(start).Round(time.Millisecond)))
	})
	return e.model, e.buildErr
}

func (e *ContentBasedEngine) build() (*model, error) {
	if e.loader == nil {
		return nil, fmt.Errorf("%w: no catalog configured", catalog.ErrDataUnavailable)
	}

	corpus, err := e.loader.Load()
	if err != nil {
		if !errors.Is(err, catalog.ErrDataUnavailable) {
			err = fmt.Errorf("%w: %v", catalog.ErrDataUnavailable, err)
		}
		return nil, err
	}

	vectors := vectorizer.Fit(corpus.Texts())

	matrix, err := similarity.Build(context.Background(), vectors.Vectors(), similarity.Options{
		Workers:  e.opts.BuildWorkers,
		Progress: e.opts.Progress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build similarity matrix: %w", err)
	}

	return &model{
		corpus:   corpus,
		matrix:   matrix,
		trending: popularityOrder(corpus),
		terms:    vectors.Size(),
	}, nil
}

// popularityOrder returns every row sorted by descending popularity, ties in row order
func popularityOrder(corpus *catalog.Corpus) []int {
	rows := make([]int, corpus.Len())
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return corpus.At(rows[a]).Popularity > corpus.At(rows[b]).Popularity
	})
	return rows
}

// Similar returns up to topN items most similar to itemID, excluding the item itself
func (e *ContentBasedEngine) Similar(itemID string, topN int) []catalog.Item {
	result := e.similar(itemID, topN)
	metrics.RecordRetrieval(StrategySimilar, len(result))
	return result
}

func (e *ContentBasedEngine) similar(itemID string, topN int) []catalog.Item {
	m, err := e.ensureModel()
	if err != nil || topN <= 0 {
		return []catalog.Item{}
	}

	row, ok := m.corpus.IndexOf(itemID)
	if !ok {
		return []catalog.Item{}
	}

	scores := m.matrix.Row(row)
	candidates := make([]int, 0, len(scores)-1)
	for i := range scores {
		if i != row {
			candidates = append(candidates, i)
		}
	}
	rankByScore(candidates, scores)

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return m.corpus.Rows(candidates)
}

// Personalize ranks items by their mean similarity to the seed items, then
// applies category diversity. Seeds not in the catalog are ignored; with no
// usable seed the result is the trending list.
func (e *ContentBasedEngine) Personalize(seedIDs []string, topN int) []catalog.Item {
	result := e.personalize(seedIDs, topN)
	metrics.RecordRetrieval(StrategyPersonalized, len(result))
	return result
}

func (e *ContentBasedEngine) personalize(seedIDs []string, topN int) []catalog.Item {
	m, err := e.ensureModel()
	if err != nil || topN <= 0 {
		return []catalog.Item{}
	}

	seedRows := make([]int, 0, len(seedIDs))
	seeds := make(map[string]struct{}, len(seedIDs))
	for _, id := range seedIDs {
		row, ok := m.corpus.IndexOf(id)
		if !ok {
			continue
		}
		// repeated seeds count once per occurrence in the mean
		seedRows = append(seedRows, row)
		seeds[id] = struct{}{}
	}
	if len(seedRows) == 0 {
		e.logger.Debug("No known seed items, falling back to trending")
		return e.trending(m, topN)
	}

	n := m.corpus.Len()
	mean := make([]float64, n)
	for _, row := range seedRows {
		for j, score := range m.matrix.Row(row) {
			mean[j] += score
		}
	}
	for j := range mean {
		mean[j] /= float64(len(seedRows))
	}

	candidates := make([]int, 0, n)
	for j := 0; j < n; j++ {
		if _, isSeed := seeds[m.corpus.At(j).ID]; isSeed {
			continue
		}
		candidates = append(candidates, j)
	}
	rankByScore(candidates, mean)

	return m.corpus.Rows(diversify(m.corpus, candidates, topN))
}

// diversify walks ranked candidates and accepts one whose category is new, or
// any candidate while fewer than topN/2 are selected. The result may be shorter
// than topN.
func diversify(corpus *catalog.Corpus, ranked []int, topN int) []int {
	selected := make([]int, 0, topN)
	categories := make(map[string]struct{})

	for _, row := range ranked {
		category := corpus.At(row).Category
		if _, seen := categories[category]; !seen || len(selected) < topN/2 {
			selected = append(selected, row)
			categories[category] = struct{}{}
		}
		if len(selected) >= topN {
			break
		}
	}
	return selected
}

// Trending returns up to topN items by descending popularity
func (e *ContentBasedEngine) Trending(topN int) []catalog.Item {
	m, err := e.ensureModel()
	if err != nil || topN <= 0 {
		metrics.RecordRetrieval(StrategyTrending, 0)
		return []catalog.Item{}
	}
	result := e.trending(m, topN)
	metrics.RecordRetrieval(StrategyTrending, len(result))
	return result
}

func (e *ContentBasedEngine) trending(m *model, topN int) []catalog.Item {
	rows := m.trending
	if len(rows) > topN {
		rows = rows[:topN]
	}
	return m.corpus.Rows(rows)
}

// ByIDs returns the catalog items matching ids, in catalog order
func (e *ContentBasedEngine) ByIDs(ids []string) []catalog.Item {
	m, err := e.ensureModel()
	if err != nil {
		return []catalog.Item{}
	}
	return m.corpus.ByIDs(ids)
}

// Item looks up a single item by id
func (e *ContentBasedEngine) Item(id string) (catalog.Item, bool) {
	m, err := e.ensureModel()
	if err != nil {
		return catalog.Item{}, false
	}
	row, ok := m.corpus.IndexOf(id)
	if !ok {
		return catalog.Item{}, false
	}
	return m.corpus.At(row), true
}

// Items returns a page of the catalog in source order
func (e *ContentBasedEngine) Items(offset, limit int) []catalog.Item {
	m, err := e.ensureModel()
	if err != nil {
		return []catalog.Item{}
	}
	return m.corpus.Slice(offset, limit)
}

// Size returns the number of catalog items, 0 if the catalog is unavailable
func (e *ContentBasedEngine) Size() int {
	m, err := e.ensureModel()
	if err != nil {
		return 0
	}
	return m.corpus.Len()
}

// rankByScore sorts rows by descending score, ties kept in row order
func rankByScore(rows []int, scores []float64) {
	sort.SliceStable(rows, func(a, b int) bool {
		return scores[rows[a]] > scores[rows[b]]
	})
}
