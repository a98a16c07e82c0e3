package stats

import (
	"fmt"
	"strconv"
)

// Significance は有意水準の千分率表現（0.95 → 950）
type Significance int

// サポートする有意水準
const (
	Significance90  Significance = 900
	Significance95  Significance = 950
	Significance975 Significance = 975
	Significance99  Significance = 990
)

// DefaultSignificance は有意水準が指定されなかった場合に使う値
const DefaultSignificance = Significance95

// ParseSignificance は"0.95"のような文字列を有意水準に変換する
// 空文字列はデフォルト値になる
func ParseSignificance(s string) (Significance, error) {
	if s == "" {
		return DefaultSignificance, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || f >= 1 {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedSignificance, s)
	}
	return Significance(f*1000 + 0.5), nil
}

// Float は有意水準を0〜1の実数で返す
func (s Significance) Float() float64 {
	return float64(s) / 1000
}

// カイ二乗分布の臨界値表。行は自由度1..10
// https://en.wikipedia.org/wiki/Pearson%27s_chi-squared_test
var criticalValues = map[Significance][]float64{
	Significance90:  {2.706, 4.605, 6.251, 7.779, 9.236, 10.645, 12.017, 13.362, 14.684, 15.987},
	Significance95:  {3.841, 5.991, 7.815, 9.488, 11.070, 12.592, 14.067, 15.507, 16.919, 18.307},
	Significance975: {5.024, 7.378, 9.348, 11.143, 12.833, 14.449, 16.013, 17.535, 19.023, 20.483},
	Significance99:  {6.635, 9.210, 11.345, 13.277, 15.086, 16.812, 18.475, 20.090, 21.666, 23.209},
}

// ChiSquared はピアソンのカイ二乗統計量を計算する
// 結果を1..kのk個のビンに分割し、一様分布を帰無仮説として
// 各ビンの期待度数をn/kとする。[1,k]の範囲外の値はnには含まれるが
// どのビンの観測度数にも数えられない
func ChiSquared(results []int, possibleResults int) (float64, error) {
	if len(results) == 0 {
		return 0, ErrNoResults
	}
	if possibleResults <= 0 {
		return 0, ErrInvalidPossibleResults
	}

	observed := make([]int, possibleResults)
	for _, r := range results {
		if r >= 1 && r <= possibleResults {
			observed[r-1]++
		}
	}

	expected := float64(len(results)) / float64(possibleResults)
	var sum float64
	for _, o := range observed {
		d := float64(o) - expected
		sum += d * d / expected
	}
	return sum, nil
}

// Verdict は適合度検定の判定結果
type Verdict string

const (
	// VerdictMayBeBiased は帰無仮説（一様分布）が棄却された
	VerdictMayBeBiased Verdict = "may be biased"
	// VerdictNoConclusion は棄却できなかった。公平であることの主張ではない
	VerdictNoConclusion Verdict = "no conclusion possible"
)

// CriticalValue は(有意水準, 自由度)に対応する臨界値を返す
// 表にない組み合わせは設定エラーとして明示的に拒否する
func CriticalValue(significance Significance, degreesOfFreedom int) (float64, error) {
	row, ok := criticalValues[significance]
	if !ok {
		return 0, fmt.Errorf("%w: significance=%.3f", ErrUnsupportedSignificance, significance.Float())
	}
	if degreesOfFreedom < 1 || degreesOfFreedom > len(row) {
		return 0, fmt.Errorf("%w: df=%d", ErrUnsupportedSignificance, degreesOfFreedom)
	}
	return row[degreesOfFreedom-1], nil
}

// Evaluate は統計量を臨界値と比較して判定を返す
// 統計量が臨界値を超えた場合のみ「偏りの可能性あり」と報告する
func Evaluate(statistic float64, significance Significance, degreesOfFreedom int) (Verdict, float64, error) {
	critical, err := CriticalValue(significance, degreesOfFreedom)
	if err != nil {
		return "", 0, err
	}
	if statistic > critical {
		return VerdictMayBeBiased, critical, nil
	}
	return VerdictNoConclusion, critical, nil
}
