package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"log"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"sim-backend/internal/bootstrap"
	"sim-backend/internal/shared/config"
	"sim-backend/internal/shared/metrics"
	"sim-backend/internal/shared/telemetry"
	"sim-backend/internal/workerproc"
)

var (
	initOnce sync.Once
	initErr  error
	app      *bootstrap.App
)

func initApp() {
	cfg := config.Load()
	// Lambda drains the queue; it never enqueues.
	cfg.SQSQueueURL = ""
	built, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	app = built
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		log.Printf("bootstrap error: %v", initErr)
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}
	return handleBatch(ctx, app.AnalysesService, event), nil
}

// handleBatch reports only retryable failures; unrecoverable payloads are
// acknowledged so SQS drops them.
func handleBatch(ctx context.Context, processor workerproc.Processor, event events.SQSEvent) events.SQSEventResponse {
	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		metrics.IncJobReceived()
		fields := map[string]any{"message_id": record.MessageId}
		err := workerproc.HandleMessage(ctx, processor, record.Body)
		switch {
		case err == nil:
			metrics.IncJobCompleted()
			telemetry.Info("worker.analysis.completed", fields)
		case workerproc.Unrecoverable(err):
			fields["error"] = err.Error()
			telemetry.Error("worker.analysis.unrecoverable", fields)
			metrics.IncJobDeleted()
		default:
			fields["error"] = err.Error()
			telemetry.Error("worker.analysis.failed", fields)
			metrics.IncJobFailed()
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}
	return events.SQSEventResponse{BatchItemFailures: failures}
}

func main() {
	lambda.Start(handler)
}
