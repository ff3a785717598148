package transfer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultMaximumAttempts bounds how many times an operation is tried.
	DefaultMaximumAttempts = 8
	// DefaultBackoffUnit scales the linear backoff between attempts.
	DefaultBackoffUnit = time.Second

	retryWarningMessageConstant      = "Caught error and retrying"
	interruptedErrorTemplateConstant = "transfer interrupted after %d attempts: %w: %w"
	logFieldAttemptConstant          = "attempt"
	logFieldBackoffConstant          = "backoff"
	logFieldLocalPathConstant        = "local_path"
	logFieldOperationConstant        = "operation"
	downloadOperationConstant        = "download"
	uploadOperationConstant          = "upload"
)

// BlobHandle is a remote object that can be transferred to or from a local file.
type BlobHandle interface {
	DownloadToFile(executionContext context.Context, localPath string) error
	UploadFromFile(executionContext context.Context, localPath string) error
}

// Sleeper blocks for duration or until the context ends.
type Sleeper func(executionContext context.Context, duration time.Duration) error

// RetrierOption customizes a Retrier.
type RetrierOption func(*Retrier)

// WithMaximumAttempts overrides the attempt budget. Non-positive values are ignored.
func WithMaximumAttempts(maximumAttempts int) RetrierOption {
	return func(retrier *Retrier) {
		if maximumAttempts > 0 {
			retrier.maximumAttempts = maximumAttempts
		}
	}
}

// WithBackoffUnit overrides the backoff unit. Negative values are ignored.
func WithBackoffUnit(backoffUnit time.Duration) RetrierOption {
	return func(retrier *Retrier) {
		if backoffUnit >= 0 {
			retrier.backoffUnit = backoffUnit
		}
	}
}

// WithSleeper replaces the blocking delay between attempts.
func WithSleeper(sleeper Sleeper) RetrierOption {
	return func(retrier *Retrier) {
		if sleeper != nil {
			retrier.sleeper = sleeper
		}
	}
}

// WithLogger sets the logger that receives retry warnings.
func WithLogger(logger *zap.Logger) RetrierOption {
	return func(retrier *Retrier) {
		if logger != nil {
			retrier.logger = logger
		}
	}
}

// Retrier runs fallible operations with linear backoff.
type Retrier struct {
	maximumAttempts int
	backoffUnit     time.Duration
	sleeper         Sleeper
	logger          *zap.Logger
}

// NewRetrier constructs a Retrier with eight attempts and a one second backoff unit.
func NewRetrier(options ...RetrierOption) *Retrier {
	retrier := &Retrier{
		maximumAttempts: DefaultMaximumAttempts,
		backoffUnit:     DefaultBackoffUnit,
		sleeper:         sleepWithContext,
		logger:          zap.NewNop(),
	}
	for _, option := range options {
		option(retrier)
	}
	return retrier
}

// MaximumAttempts reports the attempt budget.
func (retrier *Retrier) MaximumAttempts() int {
	return retrier.maximumAttempts
}

// Backoff returns the delay following the failure of the zero-based attempt.
func (retrier *Retrier) Backoff(attempt int) time.Duration {
	return time.Duration(1+2*attempt) * retrier.backoffUnit
}

// Download fetches handle into localPath, retrying failures.
func (retrier *Retrier) Download(executionContext context.Context, handle BlobHandle, localPath string) error {
	operationLogger := retrier.logger.With(zap.String(logFieldOperationConstant, downloadOperationConstant), zap.String(logFieldLocalPathConstant, localPath))
	_, downloadError := execute(executionContext, retrier, operationLogger, func(operationContext context.Context) (struct{}, error) {
		return struct{}{}, handle.DownloadToFile(operationContext, localPath)
	})
	return downloadError
}

// Upload stores localPath into handle, retrying failures.
func (retrier *Retrier) Upload(executionContext context.Context, handle BlobHandle, localPath string) error {
	operationLogger := retrier.logger.With(zap.String(logFieldOperationConstant, uploadOperationConstant), zap.String(logFieldLocalPathConstant, localPath))
	_, uploadError := execute(executionContext, retrier, operationLogger, func(operationContext context.Context) (struct{}, error) {
		return struct{}{}, handle.UploadFromFile(operationContext, localPath)
	})
	return uploadError
}

// Execute calls operation until it succeeds or the attempt budget is spent. Every failure is
// followed by a delay of (1+2*attempt) backoff units. After the last attempt the most recent
// error is returned unchanged. Cancellation during a delay returns an error wrapping both the
// context error and the most recent failure.
func Execute[Result any](executionContext context.Context, retrier *Retrier, operation func(context.Context) (Result, error)) (Result, error) {
	return execute(executionContext, retrier, retrier.logger, operation)
}

func execute[Result any](executionContext context.Context, retrier *Retrier, logger *zap.Logger, operation func(context.Context) (Result, error)) (Result, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	var zeroResult Result
	var lastError error
	for attempt := 0; attempt < retrier.maximumAttempts; attempt++ {
		result, operationError := operation(executionContext)
		if operationError == nil {
			return result, nil
		}
		lastError = operationError

		backoff := retrier.Backoff(attempt)
		logger.Warn(retryWarningMessageConstant,
			zap.Int(logFieldAttemptConstant, attempt+1),
			zap.Duration(logFieldBackoffConstant, backoff),
			zap.Error(operationError),
		)
		if sleepError := retrier.sleeper(executionContext, backoff); sleepError != nil {
			return zeroResult, fmt.Errorf(interruptedErrorTemplateConstant, attempt+1, sleepError, lastError)
		}
	}
	return zeroResult, lastError
}

func sleepWithContext(executionContext context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-executionContext.Done():
		return executionContext.Err()
	case <-timer.C:
		return nil
	}
}
