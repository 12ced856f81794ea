package workerproc

import (
	"context"
	"errors"
	"testing"

	"verifyzen/internal/queue"
)

type fakeProcessor struct {
	calls []string
	err   error
}

func (f *fakeProcessor) Process(ctx context.Context, verificationID string) error {
	f.calls = append(f.calls, verificationID)
	return f.err
}

func TestParseMessage(t *testing.T) {
	body, _ := queue.EncodeMessage(queue.Message{VerificationID: "ver-1", RequestID: "req-1", Version: 1})

	msg, meta, err := ParseMessage(string(body))
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.VerificationID != "ver-1" || msg.RequestID != "req-1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if meta.BodyLen != len(body) || meta.BodySHA == "" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestParseMessageEmptyBody(t *testing.T) {
	_, _, err := ParseMessage("   ")
	var emptyErr ErrEmptyBody
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
}

func TestParseMessageInvalidJSON(t *testing.T) {
	_, _, err := ParseMessage("{not json")
	var decodeErr ErrDecode
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestParseMessageMissingID(t *testing.T) {
	body, _ := queue.EncodeMessage(queue.Message{RequestID: "req-1"})
	_, _, err := ParseMessage(string(body))
	var missingErr ErrMissingVerificationID
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected ErrMissingVerificationID, got %v", err)
	}
	if missingErr.RequestID != "req-1" {
		t.Fatalf("expected request id to survive, got %q", missingErr.RequestID)
	}
}

func TestHandleMessageProcesses(t *testing.T) {
	proc := &fakeProcessor{}
	body, _ := queue.EncodeMessage(queue.Message{VerificationID: "ver-1", RequestID: "req-1"})

	if err := HandleMessage(context.Background(), proc, string(body)); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(proc.calls) != 1 || proc.calls[0] != "ver-1" {
		t.Fatalf("unexpected processor calls: %v", proc.calls)
	}
}

func TestHandleMessageWrapsProcessError(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("boom")}
	body, _ := queue.EncodeMessage(queue.Message{VerificationID: "ver-2", RequestID: "req-2"})

	err := HandleMessage(context.Background(), proc, string(body))
	var procErr ErrProcess
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ErrProcess, got %v", err)
	}
	if procErr.VerificationID != "ver-2" || procErr.RequestID != "req-2" {
		t.Fatalf("unexpected error fields: %+v", procErr)
	}
}
