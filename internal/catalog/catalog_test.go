package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `id,title,category,tags,description,popularity,image,brand
1,Red Shoe,footwear,red leather,Comfortable running shoe,50,img/1.png,acme
2,Blue Hat,accessories,blue wool,Warm winter hat,80,,
3,Green Car,toys,green plastic,,80,img/3.png,zoom
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	corpus, err := Load(writeCatalog(t, sampleCSV))
	require.NoError(t, err)
	require.Equal(t, 3, corpus.Len())

	first := corpus.At(0)
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "Red Shoe", first.Title)
	assert.Equal(t, "footwear", first.Category)
	assert.Equal(t, 50.0, first.Popularity)
	assert.Equal(t, "img/1.png", first.Image)
	assert.Equal(t, "acme", first.Fields["brand"])

	assert.Equal(t, "Green Car toys green plastic ", corpus.Texts()[2])
}

func TestLoad_MissingOptionalColumns(t *testing.T) {
	corpus, err := Load(writeCatalog(t, "id,popularity\n7,3\n 8 ,\n"))
	require.NoError(t, err)
	require.Equal(t, 2, corpus.Len())

	item := corpus.At(0)
	assert.Equal(t, "7", item.ID)
	for _, column := range []string{ColumnTitle, ColumnCategory, ColumnTags, ColumnDescription, ColumnImage} {
		value, ok := item.Fields[column]
		assert.True(t, ok, column)
		assert.Empty(t, value, column)
	}
	assert.Equal(t, "   ", corpus.Texts()[0])

	second := corpus.At(1)
	assert.Equal(t, "8", second.ID)
	assert.Equal(t, 0.0, second.Popularity)
}

func TestLoad_DataUnavailable(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"missing id column", "title,popularity\nhat,1\n"},
		{"missing popularity column", "id,title\n1,hat\n"},
		{"non numeric popularity", "id,popularity\n1,lots\n"},
		{"too many fields", "id,popularity\n1,2,3\n"},
		{"broken quoting", "id,popularity\n\"1,2\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			corpus, err := Load(writeCatalog(t, tc.content))
			assert.Nil(t, corpus)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDataUnavailable), err.Error())
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
		assert.True(t, errors.Is(err, ErrDataUnavailable))
	})
}

func TestParse_StripsByteOrderMark(t *testing.T) {
	corpus, err := Parse(strings.NewReader("\ufeffid,popularity\nx,1\n"))
	require.NoError(t, err)
	_, ok := corpus.IndexOf("x")
	assert.True(t, ok)
}

func TestCorpus_IndexOf(t *testing.T) {
	corpus := NewCorpus([]Item{
		{ID: "a"},
		{ID: "b"},
		{ID: "a", Title: "duplicate"},
	})

	row, ok := corpus.IndexOf("a")
	assert.True(t, ok)
	assert.Equal(t, 0, row)

	row, ok = corpus.IndexOf("b")
	assert.True(t, ok)
	assert.Equal(t, 1, row)

	_, ok = corpus.IndexOf("zzz")
	assert.False(t, ok)
}

func TestCorpus_ByIDs(t *testing.T) {
	corpus := NewCorpus([]Item{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "b"}})

	t.Run("corpus order wins over input order", func(t *testing.T) {
		items := corpus.ByIDs([]string{"c", "a"})
		require.Len(t, items, 2)
		assert.Equal(t, "a", items[0].ID)
		assert.Equal(t, "c", items[1].ID)
	})

	t.Run("duplicate rows are both returned", func(t *testing.T) {
		assert.Len(t, corpus.ByIDs([]string{"b"}), 2)
	})

	t.Run("empty input", func(t *testing.T) {
		items := corpus.ByIDs(nil)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("unknown ids are skipped", func(t *testing.T) {
		items := corpus.ByIDs([]string{"a", "missing"})
		assert.Len(t, items, 1)
	})
}

func TestCorpus_Slice(t *testing.T) {
	corpus := NewCorpus([]Item{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	assert.Len(t, corpus.Slice(0, 2), 2)
	assert.Len(t, corpus.Slice(2, 10), 1)
	assert.Empty(t, corpus.Slice(3, 1))
	assert.Empty(t, corpus.Slice(-1, 1))
	assert.Empty(t, corpus.Slice(0, 0))
}

func TestItem_ToResponse(t *testing.T) {
	corpus := NewCorpus([]Item{{ID: "a", Title: "Hat", Category: "acc", Popularity: 2.5}})

	response := corpus.At(0).ToResponse()
	assert.Equal(t, "a", response.ID)
	assert.Equal(t, "Hat", response.Title)
	assert.Equal(t, 2.5, response.Popularity)
	assert.Equal(t, "2.5", response.Fields[ColumnPopularity])

	response.Fields["title"] = "changed"
	assert.Equal(t, "Hat", corpus.At(0).Fields["title"])
}
