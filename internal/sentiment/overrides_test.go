package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiyeonseo/surveypulse/internal/models"
)

func TestLexiconPoliciesForceLabels(t *testing.T) {
	policies := DefaultOverridePolicies()

	tests := []struct {
		keyword string
		want    models.Sentiment
	}{
		{"적극적인 태도", models.SentimentPositive},
		{"모범적", models.SentimentPositive},
		{"솔선수범하는 모습", models.SentimentPositive},
		{"업무 개선", models.SentimentPositive},
		{"소통 부족", models.SentimentNegative},
		{"책임감 부족", models.SentimentNegative},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			verdict, ok := applyPolicies(policies, tt.keyword)
			require.True(t, ok)
			assert.Equal(t, tt.want, verdict)
		})
	}
}

func TestPolicyOrderPositiveBeforeDeficiency(t *testing.T) {
	// A keyword matching both lexicons takes the first policy's verdict.
	verdict, ok := applyPolicies(DefaultOverridePolicies(), "적극성 부족")
	require.True(t, ok)
	assert.Equal(t, models.SentimentPositive, verdict)
}

func TestNoPolicyClaimsPlainKoreanKeyword(t *testing.T) {
	_, ok := applyPolicies(DefaultOverridePolicies(), "소통")
	assert.False(t, ok)
}

func TestVaderPolicyCoversLatinKeywords(t *testing.T) {
	policy := newVaderPolicy()

	verdict, ok := policy.Apply("excellent teamwork")
	require.True(t, ok)
	assert.Equal(t, models.SentimentPositive, verdict)

	verdict, ok = policy.Apply("terrible communication")
	require.True(t, ok)
	assert.Equal(t, models.SentimentNegative, verdict)

	_, ok = policy.Apply("소통")
	assert.False(t, ok, "Korean keywords are not VADER's business")
}
