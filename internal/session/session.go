// Package session holds the per-user application state: the active page, the
// current analysis result, the gap analysis form, the chat assistant and the
// auth overlay. All state of one Session is guarded by a single mutex; model
// calls run outside it behind busy flags.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skillsync/internal/ai"
	"skillsync/internal/errors"
	"skillsync/internal/types"
)

// Session is the state of one user of the application
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	page     types.Page
	result   *types.AnalysisResult
	lastSeen time.Time

	provider ai.Provider
	recorder Recorder
	logger   *errors.Logger
	now      func() time.Time

	Gap  *GapAnalysis
	Chat *ChatAssistant
	Auth *Auth
}

// Option configures a Session
type Option func(*Session)

// WithID sets the session id
func WithID(id string) Option {
	return func(s *Session) { s.ID = id }
}

// WithRecorder sets the recorder notified of session events
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger sets the session logger
func WithLogger(l *errors.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session on the Gap Analysis page with the default form
func New(provider ai.Provider, opts ...Option) *Session {
	s := &Session{
		page:     types.PageGapAnalysis,
		provider: provider,
		recorder: NopRecorder{},
		logger:   errors.NewNopLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.CreatedAt = s.now()
	s.lastSeen = s.CreatedAt
	if s.ID != "" {
		s.logger = s.logger.With("session_id", s.ID)
	}

	s.Gap = &GapAnalysis{s: s, skills: DefaultSkills, jobDescription: DefaultJobDescription}
	s.Chat = &ChatAssistant{s: s}
	s.Auth = &Auth{s: s, view: AuthViewLogin}
	return s
}

// Page returns the active page
func (s *Session) Page() types.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Navigate moves to the named page. Dashboard and Roadmap fall back to Gap
// Analysis while there is no result. The page actually shown is returned.
func (s *Session) Navigate(ctx context.Context, target string) (types.Page, error) {
	page, ok := types.ParsePage(target)
	if !ok {
		return s.Page(), errors.NewValidationError(errors.ErrCodeInvalidPage,
			fmt.Sprintf("Unknown page %q.", target), nil).WithContext("page", target)
	}

	s.mu.Lock()
	s.touchLocked()
	if page.RequiresResult() && s.result == nil {
		s.page = types.PageGapAnalysis
	} else {
		s.page = page
	}
	shown := s.page
	s.mu.Unlock()

	if shown != page {
		s.logger.Debug("Navigation redirected", "requested", page, "shown", shown)
		s.recorder.NavigationRedirected(ctx, page, shown)
	}
	return shown, nil
}

// CompleteAnalysis stores a new result and shows the Dashboard. It is the
// only way the result changes.
func (s *Session) CompleteAnalysis(result types.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completeAnalysisLocked(result)
}

func (s *Session) completeAnalysisLocked(result types.AnalysisResult) {
	r := result.Clone()
	s.result = &r
	s.page = types.PageDashboard
}

// Result returns a copy of the current analysis result
func (s *Session) Result() (types.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return types.AnalysisResult{}, false
	}
	return s.result.Clone(), true
}

// Busy reports whether a model call is outstanding on this session
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Gap.busy || s.Chat.sending
}

// LastSeen returns the time of the last state access
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Touch marks the session as used
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
}

func (s *Session) touchLocked() {
	s.lastSeen = s.now()
}

// Snapshot is a consistent copy of the whole session state
type Snapshot struct {
	ID        string                `json:"id"`
	Page      types.Page            `json:"page"`
	Result    *types.AnalysisResult `json:"result,omitempty"`
	Form      Form                  `json:"form"`
	Busy      bool                  `json:"busy"`
	Phase     string                `json:"phase,omitempty"`
	LastError string                `json:"lastError,omitempty"`
	Auth      AuthState             `json:"auth"`
	Chat      ChatState             `json:"chat"`
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:        s.ID,
		Page:      s.page,
		Form:      s.Gap.formLocked(),
		Busy:      s.Gap.busy,
		Phase:     s.Gap.phase,
		LastError: s.Gap.lastError,
		Auth:      s.Auth.stateLocked(),
		Chat:      s.Chat.stateLocked(),
	}
	if s.result != nil {
		r := s.result.Clone()
		snap.Result = &r
	}
	return snap
}
