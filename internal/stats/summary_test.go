package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 60回分のサイコロ（k=6）の検証用データ
// 度数: 1×5, 2×8, 3×9, 4×8, 5×10, 6×20
func dieResults() []int {
	return []int{
		1, 1, 1, 1, 1,
		2, 2, 2, 2, 2, 2, 2, 2,
		3, 3, 3, 3, 3, 3, 3, 3, 3,
		4, 4, 4, 4, 4, 4, 4, 4,
		5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
		6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6,
	}
}

func TestSummarize_DieDataset(t *testing.T) {
	results := dieResults()

	summary, err := Summarize(results, 6)
	require.NoError(t, err)

	assert.Equal(t, 60, summary.Count)
	assert.Equal(t, 1, summary.Min)
	assert.Equal(t, 6, summary.Max)
	// 合計250、n=60
	assert.InDelta(t, 250.0/60.0, summary.Mean, 1e-9)
	// ソート後のインデックス29が4、30が5
	assert.InDelta(t, 4.5, summary.Median, 1e-9)
	// 母標準偏差: E[x^2]=1216/60, mean^2=(250/60)^2
	assert.InDelta(t, 1.7045690234060795, summary.StdDev, 1e-9)
	assert.InDelta(t, 3.0, summary.ExpectedAvgZeroBased, 1e-9)
	assert.InDelta(t, 3.5, summary.ExpectedAvgOneBased, 1e-9)
}

func TestSummarize_EmptyResults(t *testing.T) {
	_, err := Summarize([]int{}, 6)
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestSummarize_InvalidPossibleResults(t *testing.T) {
	_, err := Summarize([]int{1, 2, 3}, 0)
	assert.ErrorIs(t, err, ErrInvalidPossibleResults)
}

func TestSummarize_Median(t *testing.T) {
	tests := []struct {
		name     string
		results  []int
		expected float64
	}{
		{name: "奇数件は中央の値", results: []int{3, 1, 2}, expected: 2},
		{name: "偶数件は中央2値の平均", results: []int{4, 1, 2, 3}, expected: 2.5},
		{name: "1件ならその値", results: []int{7}, expected: 7},
		{name: "同値の並びでも順序統計量", results: []int{2, 2, 2, 5}, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := Summarize(tt.results, 10)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, summary.Median, 1e-9)
		})
	}
}

func TestSummarize_SingleValue(t *testing.T) {
	summary, err := Summarize([]int{4, 4, 4, 4}, 6)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Min)
	assert.Equal(t, 4, summary.Max)
	assert.InDelta(t, 4.0, summary.Mean, 1e-9)
	assert.InDelta(t, 0.0, summary.StdDev, 1e-9)
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	results := []int{3, 1, 2}

	_, err := Summarize(results, 6)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 1, 2}, results)
}
