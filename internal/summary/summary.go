// Package summary requests a free-text synopsis of a respondent's answers
// from the completion service.
package summary

import (
	"context"
	"fmt"
	"strings"
)

type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const summarySystemPrompt = "당신은 HR 설문 응답을 요약하는 전문가입니다."

const summaryPrompt = `아래는 한 대상자에 대한 설문 응답 전체입니다.
응답에서 드러나는 강점, 개선이 필요한 점, 전반적인 인상을 3~5문장으로 요약해 주세요.
과장 없이 응답에 실제로 나타난 내용만 반영하세요.

응답 목록:
%s`

// Summarize synthesizes all response texts into a short synopsis. The raw
// assistant text is returned as-is; there is no structure to parse here.
func Summarize(ctx context.Context, completer Completer, texts []string) (string, error) {
	if len(texts) == 0 {
		return "", nil
	}

	var b strings.Builder
	for i, text := range texts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, text)
	}

	synopsis, err := completer.Complete(ctx, summarySystemPrompt, fmt.Sprintf(summaryPrompt, b.String()))
	if err != nil {
		return "", fmt.Errorf("[SummaryGenerator] summarization failed: %w", err)
	}
	return strings.TrimSpace(synopsis), nil
}
