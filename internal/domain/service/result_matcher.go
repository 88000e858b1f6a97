package service

import (
	"strings"

	"GeoRank-App/internal/domain/model"
)

// DefaultMinWordLength 2段目の単語一致で対象とする単語の最小長（この長さ以下の単語は無視）
// "IKEA"(4文字)はぎりぎり対象、"H&M"は対象外になる
const DefaultMinWordLength = 3

// ResultMatcher は順位リストの中から対象ビジネスの順位を探す
type ResultMatcher struct {
	minWordLength int
}

// NewResultMatcher は新しいResultMatcherを作成する
func NewResultMatcher(minWordLength int) *ResultMatcher {
	if minWordLength < 0 {
		minWordLength = DefaultMinWordLength
	}
	return &ResultMatcher{minWordLength: minWordLength}
}

// FindRank はビジネス名に一致する結果の順位を返す（見つからなければ-1）
// 1段目: タイトルにビジネス名がそのまま含まれる最初の結果
// 2段目: ビジネス名の単語（minWordLengthより長いもの）のいずれかを含む最初の結果
func (m *ResultMatcher) FindRank(results []model.RankedResult, businessName string) int {
	name := strings.ToLower(strings.TrimSpace(businessName))
	if name == "" {
		return model.RankNotFound
	}

	for _, r := range results {
		if strings.Contains(strings.ToLower(r.Title), name) {
			return r.Position
		}
	}

	words := m.significantWords(name)
	if len(words) == 0 {
		return model.RankNotFound
	}

	for _, r := range results {
		title := strings.ToLower(r.Title)
		for _, w := range words {
			if strings.Contains(title, w) {
				return r.Position
			}
		}
	}

	return model.RankNotFound
}

func (m *ResultMatcher) significantWords(name string) []string {
	var words []string
	for _, w := range strings.Fields(name) {
		if len([]rune(w)) > m.minWordLength {
			words = append(words, w)
		}
	}
	return words
}

// FindRank はデフォルトの閾値でFindRankを実行する
func FindRank(results []model.RankedResult, businessName string) int {
	return NewResultMatcher(DefaultMinWordLength).FindRank(results, businessName)
}
