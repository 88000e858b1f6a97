package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"GeoRank-App/internal/domain/model"
)

func TestFindRank(t *testing.T) {
	tests := []struct {
		name         string
		results      []model.RankedResult
		businessName string
		want         int
	}{
		{
			name:         "タイトルに完全一致",
			results:      []model.RankedResult{{Position: 1, Title: "Starbucks Downtown"}},
			businessName: "Starbucks",
			want:         1,
		},
		{
			name:         "単語一致へのフォールバック",
			results:      []model.RankedResult{{Position: 2, Title: "Best Coffee Roasters"}},
			businessName: "Starbucks Coffee",
			want:         2,
		},
		{
			name:         "一致なし",
			results:      []model.RankedResult{{Position: 1, Title: "Unrelated Shop"}},
			businessName: "Starbucks",
			want:         -1,
		},
		{
			name: "大文字小文字を区別しない",
			results: []model.RankedResult{
				{Position: 1, Title: "Blue Bottle"},
				{Position: 2, Title: "PHILZ COFFEE Mission"},
			},
			businessName: "philz coffee",
			want:         2,
		},
		{
			name: "完全一致は単語一致より優先される",
			results: []model.RankedResult{
				{Position: 1, Title: "Coffee Corner"},
				{Position: 5, Title: "Starbucks Coffee Market St"},
			},
			businessName: "Starbucks Coffee",
			want:         5,
		},
		{
			name:         "3文字以下の単語は2段目で一致しない",
			results:      []model.RankedResult{{Position: 3, Title: "Joe's Bar & Grill"}},
			businessName: "Joe Bar",
			want:         -1,
		},
		{
			name:         "短い名前でも1段目なら一致する",
			results:      []model.RankedResult{{Position: 4, Title: "H&M Union Square"}},
			businessName: "H&M",
			want:         4,
		},
		{
			name: "プロバイダの順位番号をそのまま返す",
			results: []model.RankedResult{
				{Position: 3, Title: "Other"},
				{Position: 7, Title: "Starbucks"},
			},
			businessName: "Starbucks",
			want:         7,
		},
		{
			name:         "空の結果",
			results:      nil,
			businessName: "Starbucks",
			want:         -1,
		},
		{
			name:         "空のビジネス名",
			results:      []model.RankedResult{{Position: 1, Title: "Starbucks"}},
			businessName: "  ",
			want:         -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindRank(tt.results, tt.businessName))
		})
	}
}

func TestResultMatcher_MinWordLength(t *testing.T) {
	results := []model.RankedResult{{Position: 6, Title: "IKEA East Palo Alto"}}

	t.Run("IKEAは既定の閾値で単語一致する", func(t *testing.T) {
		assert.Equal(t, 6, NewResultMatcher(DefaultMinWordLength).FindRank(results, "IKEA Store"))
	})

	t.Run("閾値を上げると単語一致しない", func(t *testing.T) {
		assert.Equal(t, -1, NewResultMatcher(4).FindRank(results, "IKEA Store"))
	})
}
