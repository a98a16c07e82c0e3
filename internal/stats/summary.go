package stats

import (
	"math"
	"sort"
)

// Summary はイベント結果列の記述統計量
type Summary struct {
	Count  int
	Min    int
	Max    int
	Mean   float64
	Median float64
	// StdDev は母標準偏差（偏差平方和をnで割る）
	StdDev float64
	// ExpectedAvgZeroBased は結果が0始まりだった場合の理論平均 k/2
	ExpectedAvgZeroBased float64
	// ExpectedAvgOneBased は結果が1始まりだった場合の理論平均 (k+1)/2
	ExpectedAvgOneBased float64
}

// Summarize は結果列の記述統計量を計算する
// possibleResultsは親アイテムの取りうる結果の種類数k
func Summarize(results []int, possibleResults int) (*Summary, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	if possibleResults <= 0 {
		return nil, ErrInvalidPossibleResults
	}

	n := len(results)
	sorted := make([]int, n)
	copy(sorted, results)
	sort.Ints(sorted)

	var sum float64
	for _, r := range results {
		sum += float64(r)
	}
	mean := sum / float64(n)

	var squaredDeviations float64
	for _, r := range results {
		d := float64(r) - mean
		squaredDeviations += d * d
	}

	return &Summary{
		Count:                n,
		Min:                  sorted[0],
		Max:                  sorted[n-1],
		Mean:                 mean,
		Median:               median(sorted),
		StdDev:               math.Sqrt(squaredDeviations / float64(n)),
		ExpectedAvgZeroBased: float64(possibleResults) / 2,
		ExpectedAvgOneBased:  float64(possibleResults+1) / 2,
	}, nil
}

// median はソート済み列の中央値を返す
// 偶数件なら中央2値の平均、奇数件ならfloor(n/2)番目（0始まり）の値
func median(sorted []int) float64 {
	middle := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float64(sorted[middle-1]+sorted[middle]) / 2
	}
	return float64(sorted[middle])
}
