package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSender) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSClientSend(t *testing.T) {
	fake := &fakeSender{}
	client := &SQSClient{client: fake, queueURL: "https://sqs.example/triage"}

	err := client.Send(context.Background(), Message{LeadID: "lead-1", Version: MessageVersion})

	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)
	assert.Equal(t, "https://sqs.example/triage", aws.ToString(fake.inputs[0].QueueUrl))
	got, err := DecodeMessage([]byte(aws.ToString(fake.inputs[0].MessageBody)))
	require.NoError(t, err)
	assert.Equal(t, "lead-1", got.LeadID)
}

func TestSQSClientSendWrapsError(t *testing.T) {
	boom := errors.New("throttled")
	client := &SQSClient{client: &fakeSender{err: boom}, queueURL: "q"}

	err := client.Send(context.Background(), Message{LeadID: "lead-1"})

	assert.ErrorIs(t, err, boom)
}

func TestNewSQSClientRequiresURL(t *testing.T) {
	_, err := NewSQSClient(context.Background(), "eu-south-1", "  ")
	assert.Error(t, err)
}
