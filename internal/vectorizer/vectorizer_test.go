package vectorizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected []string
	}{
		{"lowercases", "Red SHOE", []string{"red", "shoe"}},
		{"drops stop words", "the shoe and the hat", []string{"shoe", "hat"}},
		{"drops single characters", "a b c shoe", []string{"shoe"}},
		{"splits on punctuation", "leather,wool;cotton-blend", []string{"leather", "wool", "cotton", "blend"}},
		{"keeps digits and underscores", "size_42 x1", []string{"size_42", "x1"}},
		{"non latin letters", "Café crème", []string{"café", "crème"}},
		{"numeric symbols", "size½ x² 1⅓", []string{"size½", "x²", "1⅓"}},
		{"empty", "", []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Tokenize(tc.text))
		})
	}
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("the"))
	assert.True(t, IsStopWord("system"))
	assert.False(t, IsStopWord("shoe"))
	assert.Len(t, englishStopWords, 318)
}

func TestFit_Vocabulary(t *testing.T) {
	model := Fit([]string{"red shoe", "red hat", "blue car"})

	assert.Equal(t, []string{"blue", "car", "hat", "red", "shoe"}, model.Vocabulary())
	assert.Equal(t, 5, model.Size())

	idf, ok := model.IDF("red")
	require.True(t, ok)
	assert.InDelta(t, math.Log(4.0/3.0)+1, idf, 1e-12)

	idf, ok = model.IDF("shoe")
	require.True(t, ok)
	assert.InDelta(t, math.Log(2)+1, idf, 1e-12)

	_, ok = model.IDF("the")
	assert.False(t, ok)
}

func TestFit_VectorsAreNormalized(t *testing.T) {
	model := Fit([]string{"red shoe red", "red hat", "blue car", "the and of"})
	vectors := model.Vectors()
	require.Len(t, vectors, 4)

	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1.0, vectors[i].Norm(), 1e-12)
		assert.InDelta(t, 1.0, vectors[i].Dot(vectors[i]), 1e-12)
	}
	assert.True(t, vectors[3].IsZero())
	assert.Equal(t, 0.0, vectors[3].Dot(vectors[0]))
}

func TestFit_TermFrequencyIsRawCount(t *testing.T) {
	model := Fit([]string{"red red shoe", "shoe"})
	v := model.Vectors()[0]
	require.Len(t, v.Indices, 2)

	redIDF, _ := model.IDF("red")
	shoeIDF, _ := model.IDF("shoe")
	// vocabulary is [red shoe]
	assert.InDelta(t, 2*redIDF/(shoeIDF), v.Values[0]/v.Values[1], 1e-12)
}

func TestFit_Deterministic(t *testing.T) {
	texts := []string{"green plastic car", "wooden toy car", "plastic cup", "green tea"}
	first := Fit(texts)
	second := Fit(texts)

	assert.Equal(t, first.Vocabulary(), second.Vocabulary())
	assert.Equal(t, first.Vectors(), second.Vectors())
}

func TestFit_Empty(t *testing.T) {
	model := Fit(nil)
	assert.Equal(t, 0, model.Size())
	assert.Empty(t, model.Vectors())
	assert.True(t, model.Transform("red shoe").IsZero())
}

func TestModel_Transform(t *testing.T) {
	model := Fit([]string{"red shoe", "red hat", "blue car"})

	v := model.Transform("Red shoe with laces")
	assert.Equal(t, model.Vectors()[0], v)

	assert.True(t, model.Transform("laces only").IsZero())
}

func TestVector_Dot(t *testing.T) {
	a := Vector{Indices: []int{0, 2, 5}, Values: []float64{1, 2, 3}}
	b := Vector{Indices: []int{1, 2, 5, 7}, Values: []float64{4, 5, 6, 7}}

	assert.Equal(t, 2.0*5+3*6, a.Dot(b))
	assert.Equal(t, a.Dot(b), b.Dot(a))
	assert.Equal(t, 0.0, a.Dot(Vector{}))
}
