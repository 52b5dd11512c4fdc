package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jiyeonseo/surveypulse/internal/models"
)

type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const refinePrompt = `다음 키워드는 사용자 응답에서 추출된 핵심 키워드입니다.
이 키워드가 담고 있는 감정을 긍정/부정/중립 중 하나로 판단해 주세요.

키워드: "%s"

- 긍정이면 1, 부정이면 0, 중립이면 2만 출력해 주세요.`

var digitVerdicts = map[int]models.Sentiment{
	1: models.SentimentPositive,
	0: models.SentimentNegative,
	2: models.SentimentNeutral,
}

// RefineNeutralKeywords asks the completion service for a second opinion on
// every keyword the base stages left neutral, one sequential call per keyword.
// A failed call or an unparsable reply keeps the keyword neutral. Keywords
// already positive or negative are never sent.
func RefineNeutralKeywords(ctx context.Context, completer Completer, records []models.SentimentRecord) map[string]models.Sentiment {
	verdicts := make(map[string]models.Sentiment)

	for _, record := range records {
		if record.Sentiment != models.SentimentNeutral {
			continue
		}

		raw, err := completer.Complete(ctx, "", fmt.Sprintf(refinePrompt, record.Keyword))
		if err != nil {
			slog.Warn("[NeutralRefiner] Refinement call failed, keeping neutral",
				slog.String("keyword", record.Keyword),
				slog.String("error", err.Error()))
			continue
		}

		verdicts[record.Keyword] = parseVerdict(raw)
	}

	if len(verdicts) > 0 {
		slog.Info("[NeutralRefiner] Refinement finished", slog.Int("refined", len(verdicts)))
	}
	return verdicts
}

// parseVerdict maps the expected single-digit reply (1/0/2) to a label.
// Models like to pad the digit ("1." or "답: 1"), so a failed full parse falls
// back to the first ASCII digit in the reply before giving up on neutral.
func parseVerdict(raw string) models.Sentiment {
	trimmed := strings.TrimSpace(raw)

	if code, err := strconv.Atoi(trimmed); err == nil {
		if verdict, ok := digitVerdicts[code]; ok {
			return verdict
		}
		return models.SentimentNeutral
	}

	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			if verdict, ok := digitVerdicts[int(r-'0')]; ok {
				return verdict
			}
			break
		}
	}
	return models.SentimentNeutral
}

// MergeSentimentResults recombines the partition: records that were already
// positive or negative pass through untouched, refined neutrals take their
// verdict, and neutrals that never got one stay neutral. Every keyword
// appears exactly once in the output, in the input's order.
func MergeSentimentResults(records []models.SentimentRecord, verdicts map[string]models.Sentiment) []models.SentimentRecord {
	merged := make([]models.SentimentRecord, len(records))
	for i, record := range records {
		if record.Sentiment == models.SentimentNeutral {
			if verdict, ok := verdicts[record.Keyword]; ok {
				record.Sentiment = verdict
			}
		}
		merged[i] = record
	}
	return merged
}
