package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	appErrors "skillsync/internal/errors"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	if t := s.AppConfig.Observability.HealthCheck.Timeout; t > 0 {
		return t
	}
	return 15 * time.Second
}

// healthHandler reports model reachability and circuit breaker state
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.getHealthCheckTimeout())
	defer cancel()

	modelInfo := s.Provider.GetModelInfo(ctx)
	breakers := s.Provider.CircuitBreakerStats()

	response := map[string]any{
		"status":           "healthy",
		"service":          "skillsync",
		"version":          s.Version,
		"ai_model":         modelInfo,
		"circuit_breakers": breakers,
		"certificates":     s.certs.status(),
	}

	status := http.StatusOK
	if modelInfo == nil || !modelInfo.Available || anyBreakerOpen(breakers) {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, response)
}

// anyBreakerOpen reads the overall flag set by the provider
func anyBreakerOpen(stats map[string]any) bool {
	healthy, ok := stats["overall_healthy"].(bool)
	return ok && !healthy
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "skillsync",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
		"sessions": map[string]any{
			"active":           s.Sessions.Len(),
			"limit":            s.AppConfig.Server.Sessions.MaxSessions,
			"idle_ttl_seconds": s.AppConfig.Server.Sessions.IdleTTL.Seconds(),
		},
		"prompts_version": s.AppConfig.Prompts.Version(),
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest, "Content-Type must be application/json", nil)
	}

	defer func() { _ = r.Body.Close() }()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
				fmt.Sprintf("Request body too large (limit is %d bytes)", maxBytesErr.Limit), err)
		}
		return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest, "Failed to read request body", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest, "Request body is not valid JSON", err)
	}

	return nil
}

// writeJSON writes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, code, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: code, Message: message})
}

// writeError maps an application error to its HTTP status and logs server
// side failures
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, "Request failed", "method", r.Method, "path", r.URL.Path, "status", status)
	}

	code := "INTERNAL_ERROR"
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
	}
	writeErrorResponse(w, code, appErrors.UserMessage(err), status)
}

// statusFor returns the HTTP status for an error
func statusFor(err error) int {
	var appErr *appErrors.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Type {
	case appErrors.ErrorTypeUpstream:
		if appErr.Code == appErrors.ErrCodeCircuitOpen {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	case appErrors.ErrorTypeMalformed:
		return http.StatusBadGateway
	case appErrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case appErrors.ErrorTypeFileRead:
		return http.StatusUnprocessableEntity
	case appErrors.ErrorTypeConflict:
		return http.StatusConflict
	case appErrors.ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
