package server

import (
	"net/http"
	"strings"

	"skillsync/internal/catalog"
	appErrors "skillsync/internal/errors"
	"skillsync/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const apiTracerName = "skillsync.api"

// extractSkillsHandler runs a one-off skill extraction on resume text
func (s *Server) extractSkillsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.obs.Tracer(apiTracerName).Start(r.Context(), "api.extract_skills")
	defer span.End()

	var req types.ExtractSkillsInput
	if err := parseJSONRequest(r, &req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		span.SetStatus(codes.Error, "missing resume text")
		writeErrorResponse(w, appErrors.ErrCodeInvalidInput, "resumeText field is required", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int("request.resume_length", len(req.ResumeText)))

	skills, _, err := s.Provider.ExtractSkills(ctx, req.ResumeText)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, types.ExtractSkillsOutput{Skills: skills})
}

// analyzeHandler runs a one-off gap analysis without a session
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.obs.Tracer(apiTracerName).Start(r.Context(), "api.analyze")
	defer span.End()

	var req types.AnalyzeGapInput
	if err := parseJSONRequest(r, &req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.UserSkills) == "" || strings.TrimSpace(req.JobDescription) == "" {
		span.SetStatus(codes.Error, "missing input")
		writeErrorResponse(w, appErrors.ErrCodeInvalidInput,
			"userSkills and jobDescription fields are required", http.StatusBadRequest)
		return
	}
	span.SetAttributes(
		attribute.Int("request.skills_length", len(req.UserSkills)),
		attribute.Int("request.job_length", len(req.JobDescription)),
	)

	result, _, err := s.Provider.AnalyzeGap(ctx, req)
	s.metrics.AnalysisFinished(ctx, result.CareerReadinessScore, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis failed")
		s.writeError(w, r, err)
		return
	}

	span.SetAttributes(
		attribute.Int("result.score", result.CareerReadinessScore),
		attribute.Int("result.gap_count", len(result.GapSkills)),
	)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) listRoadmapsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"roadmaps": s.Catalog.RoadmapIDs()})
}

func (s *Server) roadmapHandler(w http.ResponseWriter, r *http.Request) {
	roadmap, err := s.Catalog.Roadmap(r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roadmap)
}

// calendarHandler renders ?month=YYYY-MM, the current month by default
func (s *Server) calendarHandler(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	ym := catalog.YearMonth{Year: now.Year(), Month: now.Month()}
	if m := r.URL.Query().Get("month"); m != "" {
		parsed, err := catalog.ParseYearMonth(m)
		if err != nil {
			writeErrorResponse(w, appErrors.ErrCodeInvalidRequest, "month must be formatted as YYYY-MM", http.StatusBadRequest)
			return
		}
		ym = parsed
	}
	writeJSON(w, http.StatusOK, s.Catalog.Month(ym, now))
}

func (s *Server) communityHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Catalog.Community)
}
