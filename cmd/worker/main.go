package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"sim-backend/internal/bootstrap"
	"sim-backend/internal/queue"
	"sim-backend/internal/shared/config"
	"sim-backend/internal/shared/metrics"
	"sim-backend/internal/shared/telemetry"
	"sim-backend/internal/workerproc"
)

const (
	defaultRegion = "us-east-1"

	receiveAttr = "ApproximateReceiveCount"

	// Retry visibility grows with each delivery: 30s, 2m, 4.5m, ... capped.
	retryBaseDelay = 30 * time.Second
	retryMaxDelay  = 15 * time.Minute

	receiveBackoffMax = 30 * time.Second
)

func main() {
	cfg := config.Load()
	if cfg.SQSQueueURL == "" {
		log.Fatal("SIM_SQS_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	region := cfg.AWSRegion
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}

	// Analyses are processed here, never re-enqueued.
	queueURL := cfg.SQSQueueURL
	buildCfg := cfg
	buildCfg.SQSQueueURL = ""
	app, err := bootstrap.Build(buildCfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	w := &worker{
		client:    sqs.NewFromConfig(awsCfg),
		queueURL:  queueURL,
		processor: app.AnalysesService,
	}
	w.run(ctx, cfg)
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error)
}

type worker struct {
	client    sqsAPI
	queueURL  string
	processor workerproc.Processor
}

func (w *worker) run(ctx context.Context, cfg config.Config) {
	sem := make(chan struct{}, max(1, cfg.WorkerConcurrency))
	var wg sync.WaitGroup
	shutdownTimeout := time.Duration(cfg.ShutdownTimeout) * time.Second
	receiveFailures := 0

	log.Printf("worker started queue=%s concurrency=%d visibility=%ds", w.queueURL, cfg.WorkerConcurrency, cfg.SQSVisibility)

pollLoop:
	for ctx.Err() == nil {
		resp, err := w.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(w.queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(cfg.SQSVisibility),
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName(receiveAttr)},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break
			}
			receiveFailures++
			wait := receiveBackoff(receiveFailures)
			log.Printf("receive message: %v (retrying in %s)", err, wait)
			select {
			case <-ctx.Done():
				break pollLoop
			case <-time.After(wait):
			}
			continue
		}
		receiveFailures = 0

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			metrics.IncJobReceived()
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				w.handle(ctx, m)
			}(msg)
		}
	}

	log.Printf("shutdown requested, waiting up to %s for in-flight analyses", shutdownTimeout)
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown timeout reached; in-flight analyses will be redelivered")
	}
}

// handle deletes the message when the analysis ran or can never run, and
// otherwise pushes its next delivery out according to how often it failed.
func (w *worker) handle(ctx context.Context, msg sqstypes.Message) {
	job, meta, err := workerproc.ParseJob(aws.ToString(msg.Body))
	if err != nil {
		fields := logFields(msg, job)
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()
		telemetry.Error("worker.analysis.unrecoverable", fields)
		if w.delete(ctx, msg, job) {
			metrics.IncJobDeleted()
		}
		return
	}

	telemetry.Info("worker.analysis.received", logFields(msg, job))

	if err := workerproc.HandleJob(ctx, w.processor, job); err != nil {
		fields := logFields(msg, job)
		fields["error"] = err.Error()
		telemetry.Error("worker.analysis.failed", fields)
		metrics.IncJobFailed()
		w.delayRetry(ctx, msg, job)
		return
	}

	if w.delete(ctx, msg, job) {
		telemetry.Info("worker.analysis.completed", logFields(msg, job))
		metrics.IncJobCompleted()
	}
}

func (w *worker) delete(ctx context.Context, msg sqstypes.Message, job queue.Job) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := logFields(msg, job)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.analysis.delete_failed", fields)
		return false
	}
	if _, err := w.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(w.queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := logFields(msg, job)
		fields["error"] = err.Error()
		telemetry.Error("worker.analysis.delete_failed", fields)
		return false
	}
	return true
}

func (w *worker) delayRetry(ctx context.Context, msg sqstypes.Message, job queue.Job) {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" || ctx.Err() != nil {
		return
	}
	delay := retryDelay(receiveCount(msg))
	if _, err := w.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
		QueueUrl:          aws.String(w.queueURL),
		ReceiptHandle:     aws.String(receipt),
		VisibilityTimeout: int32(delay / time.Second),
	}); err != nil {
		fields := logFields(msg, job)
		fields["error"] = err.Error()
		telemetry.Warn("worker.analysis.retry_delay_failed", fields)
	}
}

// retryDelay is the visibility timeout after the n-th failed delivery.
func retryDelay(receives int) time.Duration {
	n := max(1, receives)
	d := time.Duration(n*n) * retryBaseDelay
	return min(d, retryMaxDelay)
}

func receiveBackoff(failures int) time.Duration {
	d := time.Second << min(failures-1, 5)
	return min(d, receiveBackoffMax)
}

func logFields(msg sqstypes.Message, job queue.Job) map[string]any {
	fields := map[string]any{
		"analysis_id":    job.AnalysisID,
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if job.OrganizationID != "" {
		fields["organization_id"] = job.OrganizationID
	}
	if strings.TrimSpace(job.RequestID) != "" {
		fields["request_id"] = job.RequestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	parsed, err := strconv.Atoi(msg.Attributes[receiveAttr])
	if err != nil {
		return 0
	}
	return parsed
}
