package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"verifyzen/internal/queue"
	"verifyzen/internal/verifications"
)

// Processor runs a verification to completion.
type Processor interface {
	Process(ctx context.Context, verificationID string) error
}

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrMissingVerificationID indicates a message missing the verification id.
type ErrMissingVerificationID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingVerificationID) Error() string { return "missing verification id" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	VerificationID string
	RequestID      string
	Err            error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process verification"
	}
	return "process verification: " + e.Err.Error()
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.VerificationID) == "" {
		return msg, meta, ErrMissingVerificationID{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

// HandleMessage parses, validates, and processes a message payload.
func HandleMessage(ctx context.Context, proc Processor, body string) error {
	if proc == nil {
		return errors.New("verification processor not configured")
	}

	msg, _, err := ParseMessage(body)
	if err != nil {
		return err
	}

	ctxWithRequest := verifications.WithRequestID(ctx, msg.RequestID)
	if err := proc.Process(ctxWithRequest, msg.VerificationID); err != nil {
		return ErrProcess{VerificationID: msg.VerificationID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
