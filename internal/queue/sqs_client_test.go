package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSender struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSender) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	return &sqs.SendMessageOutput{}, f.err
}

func TestSQSClientSend(t *testing.T) {
	fake := &fakeSender{}
	client := &SQSClient{client: fake, queueURL: "https://sqs.example/queue"}

	job := NewJob("analysis-1", "org-1", "req-1", time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	if err := client.Send(context.Background(), job); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if aws.ToString(fake.input.QueueUrl) != "https://sqs.example/queue" {
		t.Fatalf("unexpected queue url %q", aws.ToString(fake.input.QueueUrl))
	}
	decoded, err := DecodeJob([]byte(aws.ToString(fake.input.MessageBody)))
	if err != nil || decoded != job {
		t.Fatalf("unexpected body %q", aws.ToString(fake.input.MessageBody))
	}

	fake.err = errors.New("throttled")
	if err := client.Send(context.Background(), job); err == nil {
		t.Fatalf("expected send error")
	}
}

func TestNewSQSClientRequiresURL(t *testing.T) {
	if _, err := NewSQSClient(context.Background(), "us-east-1", " "); err == nil {
		t.Fatalf("expected error for empty queue url")
	}
}
