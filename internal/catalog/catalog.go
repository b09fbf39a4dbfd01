package catalog

import (
	"strconv"
	"strings"
)

// Source column names
const (
	ColumnID          = "id"
	ColumnTitle       = "title"
	ColumnCategory    = "category"
	ColumnTags        = "tags"
	ColumnDescription = "description"
	ColumnImage       = "image"
	ColumnPopularity  = "popularity"
)

// Item represents an immutable catalog entry
type Item struct {
	ID          string
	Title       string
	Category    string
	Tags        string
	Description string
	Image       string
	Popularity  float64

	// Fields holds every source column, including ones the engine never reads.
	// Treat it as read-only.
	Fields map[string]string

	text string
}

// Corpus is the ordered item arena. Row indices are stable for the lifetime of the corpus.
type Corpus struct {
	items []Item
	index map[string]int
}

// NewCorpus assigns rows in slice order and derives the text used for vectorization
func NewCorpus(items []Item) *Corpus {
	c := &Corpus{
		items: make([]Item, len(items)),
		index: make(map[string]int, len(items)),
	}

	for row, item := range items {
		if item.Fields == nil {
			item.Fields = item.defaultFields()
		}
		item.text = strings.Join([]string{item.Title, item.Category, item.Tags, item.Description}, " ")
		c.items[row] = item

		// first occurrence wins for duplicate ids
		if _, exists := c.index[item.ID]; !exists {
			c.index[item.ID] = row
		}
	}

	return c
}

func (i Item) defaultFields() map[string]string {
	return map[string]string{
		ColumnID:          i.ID,
		ColumnTitle:       i.Title,
		ColumnCategory:    i.Category,
		ColumnTags:        i.Tags,
		ColumnDescription: i.Description,
		ColumnImage:       i.Image,
		ColumnPopularity:  strconv.FormatFloat(i.Popularity, 'f', -1, 64),
	}
}

// Len returns the number of rows
func (c *Corpus) Len() int {
	return len(c.items)
}

// At returns the item stored at row
func (c *Corpus) At(row int) Item {
	return c.items[row]
}

// IndexOf resolves an item id to its row
func (c *Corpus) IndexOf(id string) (int, bool) {
	row, ok := c.index[id]
	return row, ok
}

// ByIDs returns the items matching any of ids in corpus row order, not input order
func (c *Corpus) ByIDs(ids []string) []Item {
	result := make([]Item, 0, len(ids))
	if len(ids) == 0 {
		return result
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	for _, item := range c.items {
		if _, ok := wanted[item.ID]; ok {
			result = append(result, item)
		}
	}
	return result
}

// Rows returns the items at the given rows, in the given order
func (c *Corpus) Rows(rows []int) []Item {
	result := make([]Item, len(rows))
	for i, row := range rows {
		result[i] = c.items[row]
	}
	return result
}

// Slice returns up to limit items starting at offset
func (c *Corpus) Slice(offset, limit int) []Item {
	if offset < 0 || offset >= len(c.items) || limit <= 0 {
		return []Item{}
	}
	end := offset + limit
	if end > len(c.items) {
		end = len(c.items)
	}
	result := make([]Item, end-offset)
	copy(result, c.items[offset:end])
	return result
}

// Texts returns the derived text blob of every row, in row order
func (c *Corpus) Texts() []string {
	texts := make([]string, len(c.items))
	for row, item := range c.items {
		texts[row] = item.text
	}
	return texts
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Tags        string            `json:"tags"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	Popularity  float64           `json:"popularity"`
	Fields      map[string]string `json:"fields"`
}

// ToResponse converts Item to ItemResponse. Fields is copied so callers may modify it.
func (i Item) ToResponse() *ItemResponse {
	fields := make(map[string]string, len(i.Fields))
	for k, v := range i.Fields {
		fields[k] = v
	}

	return &ItemResponse{
		ID:          i.ID,
		Title:       i.Title,
		Category:    i.Category,
		Tags:        i.Tags,
		Description: i.Description,
		Image:       i.Image,
		Popularity:  i.Popularity,
		Fields:      fields,
	}
}

// ToResponses converts a slice of items, preserving order
func ToResponses(items []Item) []*ItemResponse {
	responses := make([]*ItemResponse, len(items))
	for i, item := range items {
		responses[i] = item.ToResponse()
	}
	return responses
}
