package questions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completerFunc func(ctx context.Context, system, user string) (string, error)

func (f completerFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func TestDetectQuestionColumnsParsesFencedArray(t *testing.T) {
	completer := completerFunc(func(_ context.Context, _, _ string) (string, error) {
		return "```json\n[\"잘한 점\", \"아쉬운 점\"]\n```", nil
	})

	columns, err := DetectQuestionColumns(context.Background(), completer, []string{"잘한 점", "아쉬운 점", "대상자와의 관계"})
	require.NoError(t, err)
	assert.Equal(t, []string{"잘한 점", "아쉬운 점"}, columns)
}

func TestDetectQuestionColumnsExtractsArrayFromProse(t *testing.T) {
	completer := completerFunc(func(_ context.Context, _, _ string) (string, error) {
		return `질문 컬럼은 다음과 같습니다: ["Q1", "Q2"] 감사합니다.`, nil
	})

	columns, err := DetectQuestionColumns(context.Background(), completer, []string{"Q1", "Q2", "ID"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1", "Q2"}, columns)
}

func TestDetectQuestionColumnsSurfacesServiceError(t *testing.T) {
	completer := completerFunc(func(_ context.Context, _, _ string) (string, error) {
		return "", errors.New("service unreachable")
	})

	columns, err := DetectQuestionColumns(context.Background(), completer, []string{"Q1"})
	assert.Error(t, err)
	assert.Nil(t, columns)
}

func TestDetectQuestionColumnsSurfacesParseFailure(t *testing.T) {
	completer := completerFunc(func(_ context.Context, _, _ string) (string, error) {
		return "죄송하지만 분류할 수 없습니다.", nil
	})

	columns, err := DetectQuestionColumns(context.Background(), completer, []string{"Q1"})
	assert.Error(t, err)
	assert.Nil(t, columns)
}

func TestFallbackColumnsExcludesIdentifier(t *testing.T) {
	columns := FallbackColumns([]string{"ID", "Q1", "Q2"}, "ID")
	assert.Equal(t, []string{"Q1", "Q2"}, columns)
}
