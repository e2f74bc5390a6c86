package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valpere/reword/internal/provider"
)

// ErrorKind classifies a failed rewrite.
type ErrorKind string

const (
	// KindValidation: rejected before any network call.
	KindValidation ErrorKind = "validation"
	// KindProviderStatus: the provider answered with a non-success status.
	KindProviderStatus ErrorKind = "provider_status"
	// KindProviderMalformed: the provider answer lacked the expected text.
	KindProviderMalformed ErrorKind = "provider_malformed"
	// KindTimeout: the bounded request timeout elapsed.
	KindTimeout ErrorKind = "timeout"
	// KindBusy: another rewrite was still in flight.
	KindBusy ErrorKind = "busy"
	// KindUnclassified: any other fault, e.g. a connectivity failure.
	KindUnclassified ErrorKind = "unclassified"
)

var (
	ErrEmptyInput        = errors.New("empty input")
	ErrMissingCredential = errors.New("missing credential")
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrBusy              = errors.New("rewrite already in progress")
)

// Failure is the error half of an Outcome. Message is what the caller shows
// to the user.
type Failure struct {
	Kind     ErrorKind
	Message  string
	Provider string
	Status   int
	Cause    error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

func validationFailure(cause error, message string) *Failure {
	return &Failure{Kind: KindValidation, Message: message, Cause: cause}
}

func busyFailure() *Failure {
	return &Failure{
		Kind:    KindBusy,
		Message: "A rewrite is already in progress, wait for it to finish",
		Cause:   ErrBusy,
	}
}

// classify maps a provider call error to a Failure. callerErr is the error
// of the context passed to Rewrite, dispatchErr that of the context the
// call ran under. Only a deadline set by the orchestrator itself is a
// timeout.
func classify(providerName string, err, callerErr, dispatchErr error, timeout time.Duration) *Failure {
	var perr *provider.Error
	if errors.As(err, &perr) {
		if perr.Malformed {
			return &Failure{
				Kind:     KindProviderMalformed,
				Message:  fmt.Sprintf("%s API returned an unexpected response", providerName),
				Provider: providerName,
				Cause:    err,
			}
		}
		return &Failure{
			Kind:     KindProviderStatus,
			Message:  fmt.Sprintf("%s API error: %d", providerName, perr.Status),
			Provider: providerName,
			Status:   perr.Status,
			Cause:    err,
		}
	}

	if callerErr != nil {
		return &Failure{Kind: KindUnclassified, Message: callerErr.Error(), Provider: providerName, Cause: err}
	}

	if errors.Is(dispatchErr, context.DeadlineExceeded) {
		message := fmt.Sprintf("%s API request timed out", providerName)
		if timeout > 0 {
			message = fmt.Sprintf("%s API request timed out after %s", providerName, timeout)
		}
		return &Failure{Kind: KindTimeout, Message: message, Provider: providerName, Cause: err}
	}

	return &Failure{Kind: KindUnclassified, Message: err.Error(), Provider: providerName, Cause: err}
}
