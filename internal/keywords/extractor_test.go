package keywords

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completerFunc func(ctx context.Context, system, user string) (string, error)

func (f completerFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func manyTexts(n int) []string {
	texts := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("응답 %d: 팀원들과의 소통이 부족했고 책임감도 아쉬웠습니다", i)
	}
	return texts
}

func TestExtractKeywordsStrictParse(t *testing.T) {
	completer := completerFunc(func(_ context.Context, _, _ string) (string, error) {
		return `{"keywords": ["소통", "책임감", "문제해결"]}`, nil
	})

	result, err := ExtractKeywords(context.Background(), completer, manyTexts(3))
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalBatches)
	assert.ElementsMatch(t, []string{"소통", "책임감", "문제해결"}, result.All)
	assert.Equal(t, []string{"문제해결", "소통", "책임감"}, result.Universe)
}

func TestExtractKeywordsFallbackParse(t *testing.T) {
	completer := completerFunc(func(_ context.Context, _, _ string) (string, error) {
		return "추출 결과입니다:\n{\"keywords\": [\"소통\"]}\n이상입니다.", nil
	})

	result, err := ExtractKeywords(context.Background(), completer, manyTexts(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"소통"}, result.All)
}

func TestExtractKeywordsMalformedBatchContributesNothing(t *testing.T) {
	var calls atomic.Int32
	completer := completerFunc(func(_ context.Context, _, _ string) (string, error) {
		if calls.Add(1) == 1 {
			return "전혀 JSON이 아닌 응답", nil
		}
		return `{"keywords": ["협업"]}`, nil
	})

	result, err := ExtractKeywords(context.Background(), completer, manyTexts(10))
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalBatches)
	assert.Zero(t, result.FailedCalls)
	assert.Equal(t, []string{"협업"}, result.All)
}

func TestExtractKeywordsPartialTransportFailureDegrades(t *testing.T) {
	var calls atomic.Int32
	completer := completerFunc(func(_ context.Context, _, _ string) (string, error) {
		if calls.Add(1) == 1 {
			return "", errors.New("timeout")
		}
		return `{"keywords": ["소통"]}`, nil
	})

	result, err := ExtractKeywords(context.Background(), completer, manyTexts(10))
	require.NoError(t, err)
	assert.Equal(t, 1, result.FailedCalls)
	assert.Equal(t, []string{"소통"}, result.All)
}

func TestExtractKeywordsAllBatchesFailed(t *testing.T) {
	completer := completerFunc(func(_ context.Context, _, _ string) (string, error) {
		return "", errors.New("service unreachable")
	})

	_, err := ExtractKeywords(context.Background(), completer, manyTexts(10))
	assert.Error(t, err)
}

// The pooled multiset must not depend on which batch finishes first.
func TestExtractKeywordsMultisetInvariantToCompletionOrder(t *testing.T) {
	texts := manyTexts(40)

	run := func() []string {
		completer := completerFunc(func(_ context.Context, _, user string) (string, error) {
			time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
			// Derive a keyword from the batch content so batches differ.
			idx := strings.Index(user, "응답 ")
			return fmt.Sprintf(`{"keywords": ["kw-%s"]}`, user[idx+7:idx+8]), nil
		})

		result, err := ExtractKeywords(context.Background(), completer, texts)
		require.NoError(t, err)
		all := append([]string(nil), result.All...)
		sort.Strings(all)
		return all
	}

	assert.Equal(t, run(), run())
}
