// Package sentiment assigns a final sentiment label to every keyword in the
// universe: a pretrained classifier provides the base label, an ordered
// override policy chain can force it, and a completion-service second opinion
// refines whatever stayed neutral.
package sentiment

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

const sentimentModelName = "snunlp/KR-FinBert-SC"

// Prediction is one raw classifier output before label mapping.
type Prediction struct {
	Label string
	Score float64
}

// Classifier is the pretrained sentiment model interface. Implementations
// must be safe for use from a single analysis run; the pipeline never calls
// Classify concurrently.
type Classifier interface {
	Classify(texts []string) ([]Prediction, error)
}

var (
	finbertInstance *FinBertClassifier
	finbertOnce     sync.Once
	finbertErr      error
)

// FinBertClassifier runs the KR-FinBERT checkpoint through an ONNX runtime
// session. Loaded lazily once per process and torn down via Close at exit.
type FinBertClassifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

// GetFinBertClassifier initializes the shared model on first use, downloading
// the checkpoint if it is not present in SENTIMENT_MODEL_DIR.
func GetFinBertClassifier() (*FinBertClassifier, error) {
	finbertOnce.Do(func() {
		modelDir := os.Getenv("SENTIMENT_MODEL_DIR")
		if modelDir == "" {
			modelDir = "./models"
		}

		if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
			finbertErr = fmt.Errorf("[FinBertClassifier] failed to create model directory: %w", err)
			return
		}

		modelPath := filepath.Join(modelDir, "snunlp_KR-FinBert-SC")
		if _, err := os.Stat(modelPath); os.IsNotExist(err) {
			slog.Info("[FinBertClassifier] Model not found, downloading...",
				slog.String("model", sentimentModelName))
			downloaded, err := hugot.DownloadModel(sentimentModelName, modelDir, hugot.NewDownloadOptions())
			if err != nil {
				finbertErr = fmt.Errorf("[FinBertClassifier] failed to download model: %w", err)
				return
			}
			modelPath = downloaded
			slog.Info("[FinBertClassifier] Model downloaded successfully", slog.String("path", modelPath))
		} else {
			slog.Info("[FinBertClassifier] Using existing model", slog.String("path", modelPath))
		}

		session, err := hugot.NewORTSession()
		if err != nil {
			finbertErr = fmt.Errorf("[FinBertClassifier] failed to initialize Hugot session: %w", err)
			return
		}

		config := hugot.TextClassificationConfig{
			ModelPath: modelPath,
			Name:      "krFinbertSentimentPipeline",
		}
		pipeline, err := hugot.NewPipeline(session, config)
		if err != nil {
			session.Destroy()
			finbertErr = fmt.Errorf("[FinBertClassifier] failed to initialize sentiment pipeline: %w", err)
			return
		}

		finbertInstance = &FinBertClassifier{session: session, pipeline: pipeline}
	})

	return finbertInstance, finbertErr
}

// Classify returns one (label, score) pair per input text.
func (c *FinBertClassifier) Classify(texts []string) ([]Prediction, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	output, err := c.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("[FinBertClassifier] classification failed: %w", err)
	}

	predictions := make([]Prediction, 0, len(texts))
	for _, classOutputs := range output.ClassificationOutputs {
		if len(classOutputs) == 0 {
			predictions = append(predictions, Prediction{})
			continue
		}
		best := classOutputs[0]
		for _, candidate := range classOutputs[1:] {
			if candidate.Score > best.Score {
				best = candidate
			}
		}
		predictions = append(predictions, Prediction{
			Label: best.Label,
			Score: float64(best.Score),
		})
	}

	if len(predictions) != len(texts) {
		return nil, fmt.Errorf("[FinBertClassifier] got %d predictions for %d inputs", len(predictions), len(texts))
	}
	return predictions, nil
}

// Close tears the shared session down. Call once at process exit.
func (c *FinBertClassifier) Close() {
	if c.session != nil {
		c.session.Destroy()
	}
}
