// Package questions asks the completion service which survey columns hold
// free-text answers worth analyzing.
package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jiyeonseo/surveypulse/internal/utils"
)

type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const detectPrompt = `아래는 설문 데이터의 컬럼명 목록입니다.
이 중에서 응답자가 텍스트로 답변을 작성하는 질문 컬럼들을 모두 골라주세요.

포함해야 할 컬럼 유형:
- 주관식 서술 응답 (예: '하고 싶은 말', '아쉬운 점', '잘한 점')
- 긍정적/부정적 경험이나 의견을 묻는 질문
- 행동이나 모습에 대한 평가나 설명을 요구하는 질문

제외해야 할 컬럼 유형:
- ID나 식별자 컬럼
- 관계나 속성을 나타내는 컬럼 (예: '대상자와의 관계')

컬럼 목록:
%s

반드시 JSON 배열 형식으로만 응답하세요. 다른 설명 없이 오직 배열만 주세요.
예시: ["질문1", "질문2", "Q1"]`

// DetectQuestionColumns returns the subset of columns the completion service
// classifies as free-text questions. On any service or parse failure it
// returns nil and the error; the caller's fallback is to treat every
// non-identifier column as a question.
func DetectQuestionColumns(ctx context.Context, completer Completer, columns []string) ([]string, error) {
	columnList, err := json.Marshal(columns)
	if err != nil {
		return nil, fmt.Errorf("[QuestionDetector] failed to encode column list: %w", err)
	}

	raw, err := completer.Complete(ctx, "", fmt.Sprintf(detectPrompt, columnList))
	if err != nil {
		return nil, fmt.Errorf("[QuestionDetector] completion call failed: %w", err)
	}

	detected, err := parseColumnArray(raw)
	if err != nil {
		slog.Warn("[QuestionDetector] Failed to parse column selection",
			slog.String("error", err.Error()),
			slog.String("response", raw))
		return nil, fmt.Errorf("[QuestionDetector] failed to parse column selection: %w", err)
	}

	slog.Info("[QuestionDetector] Detected question columns",
		slog.Int("candidates", len(columns)),
		slog.Int("selected", len(detected)))
	return detected, nil
}

func parseColumnArray(raw string) ([]string, error) {
	cleaned := utils.CleanLLMResponse(raw)

	arr, err := utils.ExtractJSONArray(cleaned)
	if err != nil {
		return nil, err
	}

	var columns []string
	if err := json.Unmarshal([]byte(arr), &columns); err != nil {
		return nil, err
	}

	for i, col := range columns {
		columns[i] = strings.TrimSpace(col)
	}
	return columns, nil
}

// FallbackColumns is the explicit degradation policy when detection fails:
// every column except the identifier is treated as a question column.
func FallbackColumns(allColumns []string, idColumn string) []string {
	var columns []string
	for _, col := range allColumns {
		if col != idColumn {
			columns = append(columns, col)
		}
	}
	return columns
}
