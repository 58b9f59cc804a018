// Package llm provides text-completion gateways to external language models.
// Callers see a single Complete method; every failure is a *GatewayError.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Gateway completes a prompt into plain text.
type Gateway interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Kind classifies gateway failures.
type Kind string

const (
	KindTimeout     Kind = "timeout"
	KindUnavailable Kind = "unavailable"
	KindQuota       Kind = "quota"
	KindCredential  Kind = "credential"
	KindEmpty       Kind = "empty"
)

// ErrNoCredential is returned by gateways that have no usable API credential.
// It is permanent: retrying cannot succeed.
var ErrNoCredential = errors.New("no API credential configured")

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("empty response")

// GatewayError wraps any failure from a completion call.
type GatewayError struct {
	Provider string
	Kind     Kind
	Err      error
}

func (e *GatewayError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether err can never succeed on retry.
func IsPermanent(err error) bool {
	if errors.Is(err, ErrNoCredential) {
		return true
	}
	var gerr *GatewayError
	return errors.As(err, &gerr) && gerr.Kind == KindCredential
}

// wrapErr converts a provider error into a *GatewayError, classifying
// context expiry as a timeout.
func wrapErr(provider string, kind Kind, err error) error {
	var gerr *GatewayError
	if errors.As(err, &gerr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &GatewayError{Provider: provider, Kind: kind, Err: err}
}

// Unavailable is a Gateway that always fails with the given cause. It stands
// in for a provider that could not be configured, e.g. a missing API key.
type Unavailable struct {
	Provider string
	Cause    error
}

// Complete implements Gateway.
func (u *Unavailable) Complete(ctx context.Context, prompt string) (string, error) {
	kind := KindUnavailable
	if errors.Is(u.Cause, ErrNoCredential) {
		kind = KindCredential
	}
	return "", &GatewayError{Provider: u.Provider, Kind: kind, Err: u.Cause}
}
