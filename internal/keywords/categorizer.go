package keywords

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jiyeonseo/surveypulse/internal/models"
	"github.com/jiyeonseo/surveypulse/internal/utils"
)

const categorizationBatchSize = 50

const categoryPrompt = `아래 키워드를 주제별 카테고리로 분류하세요.

지침:
- 카테고리는 '커뮤니케이션', '업무태도', '역량', '제도 및 환경', '기타' 5개로 지정함
- '커뮤니케이션'의 주요 사례는 '소통, 협업, 리더십, 조직문화 등'임
- '업무태도'의 주요 사례는 '책임감, 성실, 열정, 적극 등'임
- '역량'의 주요 사례는 '해결, 전문성, 능력, 이해도 등'임
- '제도 및 환경'의 주요 사례는 '복지, 시스템, 근무환경, 조직문화, 교육 운영, 워라밸 등'임
- '기타'는 위 네 가지에 명확히 분류되지 않는 의견, 제안, 단순 감정 표현, 모호한 응답 등을 포함함
- JSON 리스트 형식으로 반환
- 불필요한 설명 없이 JSON만 응답

키워드 목록:
%s

출력 예시:
[
  { "keyword": "소통", "category": "커뮤니케이션" },
  { "keyword": "책임감", "category": "업무태도" }
]`

type categorizedKeyword struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
}

// CategorizeKeywords assigns each keyword of the universe to one of the five
// closed categories, one sequential completion call per batch of 50.
// Sequential processing keeps rate-limit handling trivial; categorization has
// no latency requirement. The mapping is partial: batches whose output cannot
// be parsed are dropped, and downstream code defaults missing keywords to 기타.
func CategorizeKeywords(ctx context.Context, completer Completer, universe []string) map[string]models.Category {
	categories := make(map[string]models.Category, len(universe))

	batches := utils.Chunk(universe, categorizationBatchSize)
	for i, batch := range batches {
		batchJSON, err := json.Marshal(batch)
		if err != nil {
			slog.Warn("[KeywordCategorizer] Failed to encode batch, skipping",
				slog.Int("batch", i),
				slog.String("error", err.Error()))
			continue
		}

		raw, err := completer.Complete(ctx, "", fmt.Sprintf(categoryPrompt, batchJSON))
		if err != nil {
			slog.Warn("[KeywordCategorizer] Batch categorization failed, skipping batch",
				slog.Int("batch", i),
				slog.String("error", err.Error()))
			continue
		}

		for _, item := range parseCategorized(raw) {
			if item.Keyword == "" {
				continue
			}
			category := models.Category(item.Category)
			if !models.IsKnownCategory(category) {
				category = models.CategoryOther
			}
			categories[item.Keyword] = category
		}
	}

	slog.Info("[KeywordCategorizer] Categorization finished",
		slog.Int("universe", len(universe)),
		slog.Int("categorized", len(categories)))
	return categories
}

func parseCategorized(raw string) []categorizedKeyword {
	cleaned := utils.CleanLLMResponse(raw)

	var items []categorizedKeyword
	if err := json.Unmarshal([]byte(cleaned), &items); err == nil {
		return items
	}

	arr, err := utils.ExtractJSONArray(cleaned)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(arr), &items); err != nil {
		return nil
	}
	return items
}

// BuildFrequencyTable groups the raw keyword multiset by (keyword, resolved
// category) and counts occurrences. Keywords never categorized fall back to
// 기타. If categorization batches disagreed on a keyword the drifted rows are
// kept separate on purpose; deduplicating across category drift is not this
// table's call to make. Rows are ordered by keyword then category so repeated
// runs over the same inputs produce identical tables.
func BuildFrequencyTable(all []string, categories map[string]models.Category) []models.KeywordFrequency {
	type key struct {
		keyword  string
		category models.Category
	}

	counts := make(map[key]int, len(all))
	for _, kw := range all {
		category, ok := categories[kw]
		if !ok {
			category = models.CategoryOther
		}
		counts[key{keyword: kw, category: category}]++
	}

	rows := make([]models.KeywordFrequency, 0, len(counts))
	for k, count := range counts {
		rows = append(rows, models.KeywordFrequency{
			Keyword:  k.keyword,
			Category: k.category,
			Count:    count,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Keyword != rows[j].Keyword {
			return rows[i].Keyword < rows[j].Keyword
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}
