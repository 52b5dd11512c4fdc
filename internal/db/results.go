package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jiyeonseo/surveypulse/internal/clients"
	"github.com/jiyeonseo/surveypulse/internal/models"
)

var dbClient *dynamodb.Client

func InitDynamoDB() {
	dbClient = clients.GetDynamoDBClient()
}

// StoreAnalysisResult persists one respondent's bundle keyed by (run, subject).
// The target table comes from ANALYSIS_RESULTS_TABLE; an unset name is an
// error rather than a silent default.
func StoreAnalysisResult(ctx context.Context, result models.AnalysisResult) error {
	table := os.Getenv("ANALYSIS_RESULTS_TABLE")
	if table == "" {
		return errors.New("[DynamoDB] ANALYSIS_RESULTS_TABLE is not set")
	}
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	item, err := attributevalue.MarshalMap(result)
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to marshal analysis result: %w", err)
	}
	item["run_id"] = &types.AttributeValueMemberS{Value: result.RunID}
	item["subject_id"] = &types.AttributeValueMemberS{Value: result.SubjectID}
	item["created_at"] = &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)}

	_, err = dbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to store analysis result: %w", err)
	}

	slog.Info("[DynamoDB] Stored analysis result",
		slog.String("run_id", result.RunID),
		slog.String("subject_id", result.SubjectID))
	return nil
}
