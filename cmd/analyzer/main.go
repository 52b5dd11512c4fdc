package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jiyeonseo/surveypulse/config"
	"github.com/jiyeonseo/surveypulse/internal/clients"
	"github.com/jiyeonseo/surveypulse/internal/db"
	"github.com/jiyeonseo/surveypulse/internal/logging"
	"github.com/jiyeonseo/surveypulse/internal/models"
	"github.com/jiyeonseo/surveypulse/internal/pipeline"
	"github.com/jiyeonseo/surveypulse/internal/questions"
	"github.com/jiyeonseo/surveypulse/internal/sentiment"
)

func main() {
	filePath := flag.String("file", "", "path to the exported survey CSV")
	idColumn := flag.String("id-col", "", "identifier column name")
	subject := flag.String("subject", "", "analyze only this respondent (default: all)")
	detectColumns := flag.Bool("detect-columns", true, "let the completion service pick question columns")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	if *filePath == "" || *idColumn == "" {
		fmt.Fprintln(os.Stderr, "usage: analyzer -file survey.csv -id-col ID [-subject 대상자1] [-detect-columns=false]")
		os.Exit(2)
	}

	table, err := loadCSV(*filePath)
	if err != nil {
		slog.Error("[Analyzer] Failed to load survey file", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *subject != "" {
		table = table.FilterBySubject(*idColumn, *subject)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	clients.InitValkey()
	defer clients.CloseValkey()

	openAIClient := clients.GetOpenAIClient()

	classifier, err := sentiment.GetFinBertClassifier()
	if err != nil {
		slog.Error("[Analyzer] Failed to initialize sentiment model", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer classifier.Close()

	kafkaEnabled, err := clients.InitKafkaProducer()
	if err != nil {
		slog.Error("[Analyzer] Failed to initialize Kafka producer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer clients.CloseKafkaProducer()

	dynamoEnabled := os.Getenv("ANALYSIS_RESULTS_TABLE") != ""
	if dynamoEnabled {
		db.InitDynamoDB()
	}

	questionColumns := resolveQuestionColumns(ctx, openAIClient, table, *idColumn, *detectColumns)
	slog.Info("[Analyzer] Question columns resolved", slog.Int("count", len(questionColumns)))

	progress := func(fraction float64, label string) {
		slog.Info("[Analyzer] Progress",
			slog.String("label", label),
			slog.Float64("fraction", fraction))
	}

	sink := func(result models.AnalysisResult) error {
		if kafkaEnabled {
			if err := clients.PublishAnalysisResult(result); err != nil {
				return err
			}
		}
		if dynamoEnabled {
			if err := db.StoreAnalysisResult(ctx, result); err != nil {
				return err
			}
		}
		return nil
	}

	p := pipeline.New(openAIClient, classifier, progress)
	results, err := p.AnalyzeAll(ctx, table, *idColumn, questionColumns, sink)
	if err != nil {
		slog.Error("[Analyzer] Run aborted", slog.String("error", err.Error()))
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		slog.Error("[Analyzer] Failed to encode results", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// resolveQuestionColumns applies the explicit fallback policy: when detection
// is disabled or the service answer cannot be used, every non-identifier
// column is a question column.
func resolveQuestionColumns(ctx context.Context, completer questions.Completer, table models.Table, idColumn string, detect bool) []string {
	fallback := questions.FallbackColumns(table.Columns, idColumn)
	if !detect {
		return fallback
	}

	detected, err := questions.DetectQuestionColumns(ctx, completer, fallback)
	if err != nil || len(detected) == 0 {
		slog.Warn("[Analyzer] Question column detection failed, analyzing all non-identifier columns",
			slog.Any("error", err))
		return fallback
	}
	return detected
}

func loadCSV(path string) (models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Table{}, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return models.Table{}, err
	}
	if len(records) == 0 {
		return models.Table{}, fmt.Errorf("empty survey file: %s", path)
	}

	table := models.Table{Columns: records[0]}
	for _, record := range records[1:] {
		row := make(map[string]string, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
