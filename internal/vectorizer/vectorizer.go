package vectorizer

import (
	"math"
	"sort"
)

// Vector is a sparse term-weight vector. Indices are strictly increasing.
type Vector struct {
	Indices []int
	Values  []float64
}

// IsZero reports whether the vector has no terms
func (v Vector) IsZero() bool {
	return len(v.Indices) == 0
}

// Dot returns the inner product of two sparse vectors by merging their sorted indices
func (v Vector) Dot(other Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(other.Indices) {
		switch {
		case v.Indices[i] == other.Indices[j]:
			sum += v.Values[i] * other.Values[j]
			i++
			j++
		case v.Indices[i] < other.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean length of the vector
func (v Vector) Norm() float64 {
	var sum float64
	for _, value := range v.Values {
		sum += value * value
	}
	return math.Sqrt(sum)
}

// Model holds a fitted vocabulary, its inverse document frequencies and the
// weighted vector of every document it was fitted on.
type Model struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	vectors    []Vector
}

// Fit builds the vocabulary from texts and weights every document with
// tf * idf, where idf = ln((1+n)/(1+df)) + 1, then L2-normalizes it.
// Documents with no vocabulary terms get a zero vector.
func Fit(texts []string) *Model {
	docs := make([][]string, len(texts))
	df := make(map[string]int)
	for i, text := range texts {
		tokens := Tokenize(text)
		docs[i] = tokens

		seen := make(map[string]struct{}, len(tokens))
		for _, token := range tokens {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			df[token]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	m := &Model{
		vocabulary: make(map[string]int, len(terms)),
		terms:      terms,
		idf:        make([]float64, len(terms)),
		vectors:    make([]Vector, len(texts)),
	}

	n := float64(len(texts))
	for i, term := range terms {
		m.vocabulary[term] = i
		m.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	for i, tokens := range docs {
		m.vectors[i] = m.weigh(tokens)
	}

	return m
}

// Transform weighs text against the fitted vocabulary. Unknown terms are ignored.
func (m *Model) Transform(text string) Vector {
	return m.weigh(Tokenize(text))
}

// Vectors returns the document vectors in fit order. The slice is shared and must not be modified.
func (m *Model) Vectors() []Vector {
	return m.vectors
}

// Vocabulary returns the sorted vocabulary terms
func (m *Model) Vocabulary() []string {
	terms := make([]string, len(m.terms))
	copy(terms, m.terms)
	return terms
}

// Size returns the vocabulary size
func (m *Model) Size() int {
	return len(m.terms)
}

// IDF returns the inverse document frequency of term and whether it is in the vocabulary
func (m *Model) IDF(term string) (float64, bool) {
	index, ok := m.vocabulary[term]
	if !ok {
		return 0, false
	}
	return m.idf[index], true
}

func (m *Model) weigh(tokens []string) Vector {
	counts := make(map[int]int, len(tokens))
	for _, token := range tokens {
		if index, ok := m.vocabulary[token]; ok {
			counts[index]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	indices := make([]int, 0, len(counts))
	for index := range counts {
		indices = append(indices, index)
	}
	sort.Ints(indices)

	v := Vector{
		Indices: indices,
		Values:  make([]float64, len(indices)),
	}
	for i, index := range indices {
		v.Values[i] = float64(counts[index]) * m.idf[index]
	}

	norm := v.Norm()
	for i := range v.Values {
		v.Values[i] /= norm
	}
	return v
}
