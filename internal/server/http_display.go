package server

import "fmt"

// displayServerInfo prints the startup banner
func (s *Server) displayServerInfo() {
	s.displayAddress()
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
	s.displaySessionInfo()
}

func (s *Server) displayAddress() {
	addr := s.addr()
	switch {
	case s.certs == nil:
		_, _ = fmt.Fprintf(s.out, "Starting server on http://%s\n", addr)
		_, _ = fmt.Fprintln(s.out, "TLS mode: Disabled (HTTP only)")
	case s.TLSConfig.Mode == "mutual":
		_, _ = fmt.Fprintf(s.out, "Starting server with mTLS (mutual TLS) on https://%s\n", addr)
		_, _ = fmt.Fprintln(s.out, "TLS mode: Mutual (client certificates required)")
	default:
		_, _ = fmt.Fprintf(s.out, "Starting server with HTTPS (server-only TLS) on https://%s\n", addr)
		_, _ = fmt.Fprintln(s.out, "TLS mode: Server-only (no client certificates required)")
	}
	if s.certs != nil && len(s.certs.files()) > 0 {
		_, _ = fmt.Fprintln(s.out, "TLS certificate reload: watching certificate files")
	}
}

var endpointBanner = []string{
	"GET    /health                           - Health check",
	"GET    /stats                            - Server statistics",
	"POST   /sessions                         - Start a session",
	"GET    /sessions/{id}                    - Session snapshot",
	"DELETE /sessions/{id}                    - End a session",
	"POST   /sessions/{id}/navigate           - Switch page",
	"PUT    /sessions/{id}/form               - Edit skills and job description",
	"POST   /sessions/{id}/resume             - Upload a resume",
	"POST   /sessions/{id}/analyze            - Run the gap analysis",
	"GET    /sessions/{id}/dashboard          - Career dashboard",
	"GET    /sessions/{id}/roadmap            - Personal or standard roadmap",
	"POST   /sessions/{id}/chat/open          - Open the career assistant",
	"POST   /sessions/{id}/chat/messages      - Send a chat message",
	"POST   /sessions/{id}/auth/{action}      - Sign in, sign up or sign out",
	"POST   /extract-skills                   - Extract skills from resume text",
	"POST   /analyze                          - One-off gap analysis",
	"GET    /roadmaps, /calendar, /community  - Static content",
}

func (s *Server) displayEndpoints() {
	_, _ = fmt.Fprintln(s.out, "Available endpoints:")
	for _, line := range endpointBanner {
		_, _ = fmt.Fprintln(s.out, "  "+line)
	}
}

func (s *Server) displayAuthInfo() {
	if len(s.APIKeys) > 0 {
		_, _ = fmt.Fprintf(s.out, "API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		_, _ = fmt.Fprintln(s.out, "Include 'X-API-Key: <your-key>' header in requests to everything except /health and /stats")
	} else {
		_, _ = fmt.Fprintln(s.out, "API authentication: DISABLED (no API keys configured)")
		_, _ = fmt.Fprintln(s.out, "WARNING: API endpoints are publicly accessible!")
	}
}

func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		_, _ = fmt.Fprintf(s.out, "Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		_, _ = fmt.Fprintln(s.out, "Request size limit: DISABLED")
		_, _ = fmt.Fprintln(s.out, "WARNING: No request size limits configured!")
	}
}

func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		_, _ = fmt.Fprintf(s.out, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			_, _ = fmt.Fprintln(s.out, "  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			_, _ = fmt.Fprintln(s.out, "  - Per IP address rate limiting enabled")
		}
	} else {
		_, _ = fmt.Fprintln(s.out, "Rate limiting: DISABLED")
		_, _ = fmt.Fprintln(s.out, "WARNING: No rate limiting configured!")
	}
}

func (s *Server) displaySessionInfo() {
	sc := s.AppConfig.Server.Sessions
	_, _ = fmt.Fprintf(s.out, "Sessions: up to %d, idle timeout %s\n", sc.MaxSessions, sc.IdleTTL)
	if s.AppConfig.Server.PromptReload.Enabled {
		_, _ = fmt.Fprintln(s.out, "Prompt hot reload: ENABLED")
	}
}
