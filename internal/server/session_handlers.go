package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"skillsync/internal/catalog"
	appErrors "skillsync/internal/errors"
	"skillsync/internal/session"
	"skillsync/internal/types"
)

// sessionHandler is a handler that has already resolved its session
type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession looks up the {id} path value
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.Sessions.Get(r.PathValue("id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next(w, r, sess)
	}
}

// NavigateRequest is the body of POST /sessions/{id}/navigate
type NavigateRequest struct {
	Page string `json:"page"`
}

// NavigateResponse reports the page actually shown
type NavigateResponse struct {
	Requested  string     `json:"requested"`
	Page       types.Page `json:"page"`
	Redirected bool       `json:"redirected"`
}

// FormRequest is the body of PUT /sessions/{id}/form. Absent fields are left
// unchanged.
type FormRequest struct {
	Skills         *string `json:"skills"`
	JobDescription *string `json:"jobDescription"`
}

// ChatRequest is the body of POST /sessions/{id}/chat/messages
type ChatRequest struct {
	Text string `json:"text"`
}

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Create(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !s.Sessions.Delete(r.Context(), r.PathValue("id")) {
		writeErrorResponse(w, appErrors.ErrCodeSessionNotFound, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) navigateHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req NavigateRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := sess.Navigate(r.Context(), req.Page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	requested, _ := types.ParsePage(req.Page)
	writeJSON(w, http.StatusOK, NavigateResponse{
		Requested:  req.Page,
		Page:       page,
		Redirected: requested != page,
	})
}

func (s *Server) updateFormHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req FormRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Skills != nil {
		sess.Gap.SetSkills(*req.Skills)
	}
	if req.JobDescription != nil {
		sess.Gap.SetJobDescription(*req.JobDescription)
	}
	writeJSON(w, http.StatusOK, sess.Gap.Form())
}

// uploadResumeHandler accepts a multipart "file" field and replaces the
// skills field with the skills extracted from it
func (s *Server) uploadResumeHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeErrorResponse(w, appErrors.ErrCodeInvalidRequest, "Uploaded file is too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeErrorResponse(w, appErrors.ErrCodeInvalidRequest, "A multipart form with a \"file\" field is required", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	limit := s.AppConfig.App.MaxFileSize
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		s.writeError(w, r, appErrors.NewIOError(appErrors.ErrCodeInvalidRequest, "Failed to read uploaded file", err))
		return
	}
	if limit > 0 && int64(len(data)) > limit {
		writeErrorResponse(w, appErrors.ErrCodeInvalidRequest, "Uploaded file is too large", http.StatusRequestEntityTooLarge)
		return
	}

	skills, err := sess.Gap.UploadResume(r.Context(), header.Filename, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.ExtractSkillsOutput{Skills: skills})
}

func (s *Server) submitAnalysisHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if _, err := sess.Gap.Submit(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// dashboardHandler returns the career dashboard, or 409 with the page the
// client should show when there is no result yet
func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	result, ok := sess.Result()
	if !ok {
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:   appErrors.ErrCodeResultRequired,
			Message: catalog.MsgDashboardNeedsResult,
			Page:    string(types.PageGapAnalysis),
		})
		return
	}
	writeJSON(w, http.StatusOK, catalog.NewDashboard(result))
}

// sessionRoadmapHandler returns the personal roadmap (the default tab) or a
// standard roadmap selected by ?tab=
func (s *Server) sessionRoadmapHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	tab := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("tab")))
	if tab != "" && tab != catalog.PersonalTab {
		roadmap, err := s.Catalog.Roadmap(tab)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, roadmap)
		return
	}

	result, ok := sess.Result()
	if !ok {
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:   appErrors.ErrCodeResultRequired,
			Message: catalog.MsgRoadmapNeedsResult,
			Page:    string(types.PageGapAnalysis),
		})
		return
	}
	writeJSON(w, http.StatusOK, catalog.NewPersonalRoadmap(result))
}

func (s *Server) openChatHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, sess.Chat.Open(r.Context()))
}

func (s *Server) closeChatHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, sess.Chat.Close())
}

func (s *Server) sendChatHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req ChatRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	reply, err := sess.Chat.Send(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) transcriptHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, map[string]any{
		"state":    sess.Chat.State(),
		"messages": sess.Chat.Transcript(),
	})
}

func (s *Server) authActionHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	state, err := sess.Auth.Apply(r.PathValue("action"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
