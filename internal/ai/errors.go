package ai

import (
	"context"
	stderrors "errors"
	"net"

	"skillsync/internal/config"
	"skillsync/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

var upstreamMessages = map[string]string{
	config.OperationExtract: "Failed to parse resume with AI. Please try again or enter skills manually.",
	config.OperationAnalyze: "Failed to analyze skill gap. The Gemini API might be unavailable or the API key may be invalid.",
	config.OperationChat:    "Oops! Something went wrong. Please try again.",
}

// upstreamError wraps a failed model call as an UpstreamError, keeping what
// is known about the failure in the error context
func upstreamError(operation string, err error) *errors.AppError {
	message := upstreamMessages[operation]

	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.NewUpstreamError(errors.ErrCodeCircuitOpen,
			"The AI service is temporarily unavailable after repeated failures. Please try again shortly.", err).
			WithContext("operation", operation)
	}

	appErr := errors.NewUpstreamError(errors.ErrCodeUpstreamFailed, message, err).
		WithContext("operation", operation)

	var apiErr genai.APIError
	var gErr *googleapi.Error
	var netErr net.Error
	switch {
	case stderrors.As(err, &apiErr):
		appErr.WithContext("status_code", apiErr.Code).WithContext("status", apiErr.Status)
	case stderrors.As(err, &gErr):
		appErr.WithContext("status_code", gErr.Code)
	case stderrors.Is(err, context.DeadlineExceeded):
		appErr.WithContext("timeout", true)
	case stderrors.As(err, &netErr):
		appErr.WithContext("network", true).WithContext("timeout", netErr.Timeout())
	}
	return appErr
}

// missingClientError is returned for every call when the client could not be
// created, typically because no API key is configured
func missingClientError(operation string, cause error) *errors.AppError {
	return errors.NewUpstreamError(errors.ErrCodeUpstreamFailed, upstreamMessages[operation], cause).
		WithContext("operation", operation).
		WithContext("missing_client", true)
}
