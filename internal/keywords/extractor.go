// Package keywords turns response texts into a keyword frequency table via
// batched completion-service calls.
package keywords

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jiyeonseo/surveypulse/internal/utils"
)

type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const (
	extractionBatchSize = 5
	extractionWorkers   = 4
)

const extractionSystemPrompt = "당신은 정성적 응답 데이터를 분석하는 전문가입니다."

const extractionPrompt = `아래 응답 목록에서 **핵심 키워드 3~5개**를 식별하세요.
%s
JSON 예시: { "keywords": ["소통", "책임감", "문제해결"] }`

type keywordResponse struct {
	Keywords []string `json:"keywords"`
}

// ExtractionResult carries the pooled keyword multiset, the deduplicated
// sorted universe, and how many batches were lost along the way.
type ExtractionResult struct {
	All          []string
	Universe     []string
	TotalBatches int
	FailedCalls  int
}

// ExtractKeywords partitions texts into contiguous batches and extracts
// keywords from each batch concurrently. The pooled multiset keeps duplicates
// for frequency counting; its order follows result collection, not batch
// submission.
//
// A batch whose output cannot be parsed contributes nothing. An error is
// returned only when every single batch failed at the transport level, which
// the orchestrator treats as the service being unreachable.
func ExtractKeywords(ctx context.Context, completer Completer, texts []string) (ExtractionResult, error) {
	batches := utils.Chunk(texts, extractionBatchSize)
	if len(batches) == 0 {
		return ExtractionResult{}, nil
	}

	pool := utils.NewBatchBuffer[string]()

	var (
		mu        sync.Mutex
		succeeded int
		lastErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(extractionWorkers)
	for _, batch := range batches {
		batch := batch
		g.Go(func() error {
			extracted, err := extractBatch(gctx, completer, batch)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				lastErr = err
				slog.Warn("[KeywordExtractor] Batch extraction failed, skipping batch",
					slog.Int("batch_size", len(batch)),
					slog.String("error", err.Error()))
				return nil
			}
			succeeded++
			pool.Add(extracted...)
			return nil
		})
	}
	g.Wait()

	if succeeded == 0 && lastErr != nil {
		return ExtractionResult{}, fmt.Errorf("[KeywordExtractor] all %d batches failed: %w", len(batches), lastErr)
	}

	all := pool.GetAndClear()
	slog.Info("[KeywordExtractor] Extraction finished",
		slog.Int("batches", len(batches)),
		slog.Int("failed_batches", len(batches)-succeeded),
		slog.Int("keywords", len(all)))

	return ExtractionResult{
		All:          all,
		Universe:     uniqueSorted(all),
		TotalBatches: len(batches),
		FailedCalls:  len(batches) - succeeded,
	}, nil
}

func extractBatch(ctx context.Context, completer Completer, batch []string) ([]string, error) {
	batchJSON, err := json.Marshal(batch)
	if err != nil {
		return nil, err
	}

	raw, err := completer.Complete(ctx, extractionSystemPrompt, fmt.Sprintf(extractionPrompt, batchJSON))
	if err != nil {
		return nil, err
	}

	return parseKeywords(raw), nil
}

// parseKeywords decodes the expected {"keywords": [...]} object, falling back
// to the first brace-delimited substring. A batch that resists both parses
// yields zero keywords rather than an error.
func parseKeywords(raw string) []string {
	cleaned := utils.CleanLLMResponse(raw)

	var resp keywordResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err == nil {
		return trimKeywords(resp.Keywords)
	}

	obj, err := utils.ExtractJSONObject(cleaned)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(obj), &resp); err != nil {
		return nil
	}
	return trimKeywords(resp.Keywords)
}

func trimKeywords(keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func uniqueSorted(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	var unique []string
	for _, kw := range keywords {
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		unique = append(unique, kw)
	}
	sort.Strings(unique)
	return unique
}
