package server

import (
	"net/http"
	"strings"

	appErrors "skillsync/internal/errors"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Everything except health and stats is rate limited, authenticated and
	// size limited, in that order.
	api := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, s.rateLimitMiddleware(s.authMiddleware(s.requestSizeLimitMiddleware(h))))
	}

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)

	// Sessions
	api("POST /sessions", s.createSessionHandler)
	api("GET /sessions/{id}", s.withSession(s.getSessionHandler))
	api("DELETE /sessions/{id}", s.deleteSessionHandler)
	api("POST /sessions/{id}/navigate", s.withSession(s.navigateHandler))
	api("PUT /sessions/{id}/form", s.withSession(s.updateFormHandler))
	api("POST /sessions/{id}/resume", s.withSession(s.uploadResumeHandler))
	api("POST /sessions/{id}/analyze", s.withSession(s.submitAnalysisHandler))
	api("GET /sessions/{id}/dashboard", s.withSession(s.dashboardHandler))
	api("GET /sessions/{id}/roadmap", s.withSession(s.sessionRoadmapHandler))
	api("POST /sessions/{id}/chat/open", s.withSession(s.openChatHandler))
	api("POST /sessions/{id}/chat/close", s.withSession(s.closeChatHandler))
	api("POST /sessions/{id}/chat/messages", s.withSession(s.sendChatHandler))
	api("GET /sessions/{id}/chat", s.withSession(s.transcriptHandler))
	api("POST /sessions/{id}/auth/{action}", s.withSession(s.authActionHandler))

	// Stateless model calls
	api("POST /extract-skills", s.extractSkillsHandler)
	api("POST /analyze", s.analyzeHandler)

	// Static catalog
	api("GET /roadmaps", s.listRoadmapsHandler)
	api("GET /roadmaps/{name}", s.roadmapHandler)
	api("GET /calendar", s.calendarHandler)
	api("GET /community", s.communityHandler)

	return mux
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication if no API keys are configured
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := requestAPIKey(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r))
			writeErrorResponse(w, appErrors.ErrCodeMissingAPIKey, "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r),
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "INVALID_API_KEY", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// requestAPIKey reads X-API-Key, falling back to a Bearer token
func requestAPIKey(r *http.Request) string {
	if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		return apiKey
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.MaxRequestSize > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
		}
		next(w, r)
	}
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
