package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"sim-backend/internal/queue"
)

type fakeSQS struct {
	deleted    []string
	visibility map[string]int32
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error) {
	if f.visibility == nil {
		f.visibility = map[string]int32{}
	}
	f.visibility[aws.ToString(params.ReceiptHandle)] = params.VisibilityTimeout
	return &sqs.ChangeMessageVisibilityOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeProcessor struct {
	err error
	ids *[]string
}

func (f fakeProcessor) ProcessAnalysis(ctx context.Context, analysisID string) error {
	if f.ids != nil {
		*f.ids = append(*f.ids, analysisID)
	}
	return f.err
}

func jobMessage(t *testing.T, id, receipt string, job queue.Job) sqstypes.Message {
	t.Helper()
	body, err := queue.EncodeJob(job)
	if err != nil {
		t.Fatalf("EncodeJob: %v", err)
	}
	return sqstypes.Message{
		MessageId:     aws.String(id),
		ReceiptHandle: aws.String(receipt),
		Body:          aws.String(string(body)),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	client := &fakeSQS{}
	var ids []string
	msg := jobMessage(t, "m1", "r1", queue.NewJob("analysis-1", "org-1", "req-1", time.Now()))

	(&worker{client: client, queueURL: "queue", processor: fakeProcessor{ids: &ids}}).handle(context.Background(), msg)

	if len(client.deleted) != 1 || client.deleted[0] != "r1" {
		t.Fatalf("expected delete of r1, got %v", client.deleted)
	}
	if len(ids) != 1 || ids[0] != "analysis-1" {
		t.Fatalf("expected analysis-1 processed, got %v", ids)
	}
}

func TestWorkerDoesNotDeleteOnFailure(t *testing.T) {
	client := &fakeSQS{}
	msg := jobMessage(t, "m2", "r2", queue.NewJob("analysis-2", "org-1", "req-2", time.Now()))

	(&worker{client: client, queueURL: "queue", processor: fakeProcessor{err: errors.New("boom")}}).handle(context.Background(), msg)

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %d", len(client.deleted))
	}
	if got := client.visibility["r2"]; got != 30 {
		t.Fatalf("expected retry visibility of 30s, got %d", got)
	}
}

func TestWorkerDeletesOnInvalidJSON(t *testing.T) {
	client := &fakeSQS{}
	msg := sqstypes.Message{
		MessageId:     aws.String("m3"),
		ReceiptHandle: aws.String("r3"),
		Body:          aws.String("{bad-json"),
	}

	(&worker{client: client, queueURL: "queue", processor: fakeProcessor{}}).handle(context.Background(), msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
}

func TestWorkerDeletesOnMissingAnalysisID(t *testing.T) {
	client := &fakeSQS{}
	var ids []string
	msg := jobMessage(t, "m4", "r4", queue.Job{OrganizationID: "org-1", Version: queue.JobVersion})

	(&worker{client: client, queueURL: "queue", processor: fakeProcessor{ids: &ids}}).handle(context.Background(), msg)

	if len(client.deleted) != 1 || len(ids) != 0 {
		t.Fatalf("expected delete without processing, got deleted=%v processed=%v", client.deleted, ids)
	}
}

func TestReceiveCount(t *testing.T) {
	if got := receiveCount(sqstypes.Message{Attributes: map[string]string{"ApproximateReceiveCount": "3"}}); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := receiveCount(sqstypes.Message{}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestRetryDelayGrowsWithReceives(t *testing.T) {
	cases := map[int]time.Duration{
		0:  30 * time.Second,
		1:  30 * time.Second,
		2:  2 * time.Minute,
		3:  270 * time.Second,
		10: 15 * time.Minute,
	}
	for receives, want := range cases {
		if got := retryDelay(receives); got != want {
			t.Fatalf("retryDelay(%d) = %s, want %s", receives, got, want)
		}
	}
}

func TestReceiveBackoffCaps(t *testing.T) {
	if got := receiveBackoff(1); got != time.Second {
		t.Fatalf("expected 1s, got %s", got)
	}
	if got := receiveBackoff(3); got != 4*time.Second {
		t.Fatalf("expected 4s, got %s", got)
	}
	if got := receiveBackoff(20); got != receiveBackoffMax {
		t.Fatalf("expected cap, got %s", got)
	}
}
