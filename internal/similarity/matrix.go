package similarity

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/Akshu121796/Personalized-Recommendation-System/internal/vectorizer"
	"golang.org/x/sync/errgroup"
)

// Matrix is a dense, symmetric item-by-item cosine similarity matrix. It is immutable once built.
type Matrix struct {
	n    int
	data []float64
}

// Options tunes the matrix build
type Options struct {
	// Workers is the number of goroutines computing rows. Defaults to runtime.NumCPU().
	Workers int

	// Progress, if set, is called after each completed row with the number of rows done.
	// Calls are serialized.
	Progress func(done, total int)
}

// Build computes pairwise dot products of L2-normalized vectors. Only the upper
// triangle is computed and mirrored, so the result is exactly symmetric and does
// not depend on the number of workers.
func Build(ctx context.Context, vectors []vectorizer.Vector, opts Options) (*Matrix, error) {
	n := len(vectors)
	m := &Matrix{
		n:    n,
		data: make([]float64, n*n),
	}
	if n == 0 {
		return m, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	var (
		mu   sync.Mutex
		done int
	)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w
		g.Go(func() error {
			// rows are strided so the shrinking triangle is spread evenly
			for i := start; i < n; i += workers {
				if err := ctx.Err(); err != nil {
					return fmt.Errorf("similarity build cancelled at row %d: %w", i, err)
				}
				m.fillRow(vectors, i)

				if opts.Progress != nil {
					mu.Lock()
					done++
					opts.Progress(done, n)
					mu.Unlock()
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

// fillRow writes M[i][j] and M[j][i] for j >= i. Each cell is written by exactly one row.
func (m *Matrix) fillRow(vectors []vectorizer.Vector, i int) {
	if vectors[i].IsZero() {
		return
	}
	m.data[i*m.n+i] = 1

	for j := i + 1; j < m.n; j++ {
		score := clamp(vectors[i].Dot(vectors[j]))
		m.data[i*m.n+j] = score
		m.data[j*m.n+i] = score
	}
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Size returns the number of rows (and columns)
func (m *Matrix) Size() int {
	return m.n
}

// At returns the similarity between rows i and j
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Row returns the similarities of row i against every row. The slice is shared and must not be modified.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n : (i+1)*m.n]
}
