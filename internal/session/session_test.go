package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"skillsync/internal/ai"
	"skillsync/internal/errors"
	"skillsync/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu           sync.Mutex
	extractCalls int
	analyzeCalls int
	chatCalls    int

	extract func(ctx context.Context, text string) (string, error)
	analyze func(ctx context.Context, in types.AnalyzeGapInput) (types.AnalysisResult, error)
	newChat func(ctx context.Context) (ai.ChatSession, error)
}

func (f *fakeProvider) ExtractSkills(ctx context.Context, text string) (string, *ai.TokenUsage, error) {
	f.mu.Lock()
	f.extractCalls++
	f.mu.Unlock()
	if f.extract == nil {
		return "Go, SQL", &ai.TokenUsage{}, nil
	}
	s, err := f.extract(ctx, text)
	return s, &ai.TokenUsage{}, err
}

func (f *fakeProvider) AnalyzeGap(ctx context.Context, in types.AnalyzeGapInput) (types.AnalysisResult, *ai.TokenUsage, error) {
	f.mu.Lock()
	f.analyzeCalls++
	f.mu.Unlock()
	if f.analyze == nil {
		return sampleResult(), &ai.TokenUsage{}, nil
	}
	r, err := f.analyze(ctx, in)
	return r, &ai.TokenUsage{}, err
}

func (f *fakeProvider) NewChatSession(ctx context.Context) (ai.ChatSession, error) {
	f.mu.Lock()
	f.chatCalls++
	f.mu.Unlock()
	if f.newChat == nil {
		return &fakeChat{}, nil
	}
	return f.newChat(ctx)
}

func (f *fakeProvider) GetModelInfo(context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "fake"}
}
func (f *fakeProvider) CircuitBreakerStats() map[string]any { return nil }
func (f *fakeProvider) Close() error                        { return nil }

func (f *fakeProvider) calls() (extract, analyze, chat int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.extractCalls, f.analyzeCalls, f.chatCalls
}

type fakeChat struct {
	mu   sync.Mutex
	sent []string
	send func(ctx context.Context, text string) (string, error)
}

func (c *fakeChat) Send(ctx context.Context, text string) (string, *ai.TokenUsage, error) {
	c.mu.Lock()
	c.sent = append(c.sent, text)
	c.mu.Unlock()
	if c.send == nil {
		return "reply to " + text, &ai.TokenUsage{}, nil
	}
	r, err := c.send(ctx, text)
	return r, &ai.TokenUsage{}, err
}

type recordingRecorder struct {
	NopRecorder
	mu        sync.Mutex
	uploads   []error
	analyses  []int
	redirects []types.Page
	sessions  int64
}

func (r *recordingRecorder) ResumeUploaded(_ context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads = append(r.uploads, err)
}

func (r *recordingRecorder) AnalysisFinished(_ context.Context, score int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		r.analyses = append(r.analyses, score)
	}
}

func (r *recordingRecorder) NavigationRedirected(_ context.Context, requested, _ types.Page) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirects = append(r.redirects, requested)
}

func (r *recordingRecorder) SessionsChanged(_ context.Context, delta int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions += delta
}

func sampleResult() types.AnalysisResult {
	return types.AnalysisResult{
		RequiredSkills:       []types.Skill{{Name: "React", Category: types.SkillTechnical}, {Name: "Redux", Category: types.SkillTechnical}},
		MatchedSkills:        []types.Skill{{Name: "React", Category: types.SkillTechnical}},
		GapSkills:            []types.Skill{{Name: "Redux", Category: types.SkillTechnical}},
		CareerReadinessScore: 60,
		Summary:              "Solid base.",
		Recommendations:      []types.Recommendation{{Kind: types.KindCourse, Title: "Redux Essentials", Platform: "Udemy"}},
	}
}

func TestNewSession(t *testing.T) {
	s := New(&fakeProvider{}, WithID("abc"))

	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, types.PageGapAnalysis, s.Page())
	_, ok := s.Result()
	assert.False(t, ok)
	assert.Equal(t, Form{Skills: DefaultSkills, JobDescription: DefaultJobDescription}, s.Gap.Form())
	assert.Equal(t, AuthState{View: AuthViewLogin}, s.Auth.State())
	assert.Empty(t, s.Chat.Transcript())
}

func TestNavigateGuardsResultPages(t *testing.T) {
	tests := []struct {
		target    string
		hasResult bool
		want      types.Page
	}{
		{"Dashboard", false, types.PageGapAnalysis},
		{"Roadmap", false, types.PageGapAnalysis},
		{"Calendar", false, types.PageCalendar},
		{"Community", false, types.PageCommunity},
		{"Gap Analysis", false, types.PageGapAnalysis},
		{"dashboard", true, types.PageDashboard},
		{"roadmap", true, types.PageRoadmap},
		{"gap-analysis", true, types.PageGapAnalysis},
		{"calendar", true, types.PageCalendar},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/result=%v", tt.target, tt.hasResult), func(t *testing.T) {
			rec := &recordingRecorder{}
			s := New(&fakeProvider{}, WithRecorder(rec))
			if tt.hasResult {
				s.CompleteAnalysis(sampleResult())
			}
			got, err := s.Navigate(context.Background(), tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, s.Page())

			if !tt.hasResult && types.Page(tt.target).RequiresResult() {
				assert.Len(t, rec.redirects, 1)
			} else {
				assert.Empty(t, rec.redirects)
			}
		})
	}
}

func TestNavigateUnknownPage(t *testing.T) {
	s := New(&fakeProvider{})
	_, err := s.Navigate(context.Background(), "Community")
	require.NoError(t, err)

	page, err := s.Navigate(context.Background(), "Settings")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, types.PageCommunity, page)
	assert.Equal(t, types.PageCommunity, s.Page())
}

func TestCompleteAnalysisShowsDashboard(t *testing.T) {
	s := New(&fakeProvider{})
	_, _ = s.Navigate(context.Background(), "Calendar")

	s.CompleteAnalysis(sampleResult())
	assert.Equal(t, types.PageDashboard, s.Page())

	// A later result replaces the earlier one wholesale
	second := sampleResult()
	second.CareerReadinessScore = 90
	second.GapSkills = nil
	s.CompleteAnalysis(second)
	got, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, 90, got.CareerReadinessScore)
	assert.Empty(t, got.GapSkills)
}

func TestResultIsACopy(t *testing.T) {
	s := New(&fakeProvider{})
	in := sampleResult()
	s.CompleteAnalysis(in)
	in.MatchedSkills[0].Name = "changed by caller"

	got, _ := s.Result()
	assert.Equal(t, "React", got.MatchedSkills[0].Name)

	got.GapSkills[0].Name = "changed by reader"
	again, _ := s.Result()
	assert.Equal(t, "Redux", again.GapSkills[0].Name)
}

func TestSnapshot(t *testing.T) {
	s := New(&fakeProvider{}, WithID("snap"))
	snap := s.Snapshot()
	assert.Equal(t, "snap", snap.ID)
	assert.Nil(t, snap.Result)
	assert.False(t, snap.Busy)

	s.CompleteAnalysis(sampleResult())
	s.Auth.Login()
	snap = s.Snapshot()
	require.NotNil(t, snap.Result)
	assert.Equal(t, 60, snap.Result.CareerReadinessScore)
	assert.True(t, snap.Auth.LoggedIn)
	assert.Equal(t, types.PageDashboard, snap.Page)
}

func TestAuthOverlay(t *testing.T) {
	s := New(&fakeProvider{})
	a := s.Auth

	assert.Equal(t, AuthState{View: AuthViewLogin}, a.ToggleView(), "toggle without modal is a no-op")
	assert.Equal(t, AuthState{ShowModal: true, View: AuthViewLogin}, a.OpenModal())
	assert.Equal(t, AuthState{ShowModal: true, View: AuthViewSignup}, a.ToggleView())
	assert.Equal(t, AuthState{ShowModal: true, View: AuthViewLogin}, a.ToggleView())
	assert.Equal(t, AuthState{LoggedIn: true, View: AuthViewLogin}, a.Login())
	assert.Equal(t, AuthState{View: AuthViewLogin}, a.Logout())

	a.OpenModal()
	a.ToggleView()
	assert.Equal(t, AuthState{View: AuthViewSignup}, a.CloseModal())
	assert.Equal(t, AuthState{ShowModal: true, View: AuthViewLogin}, a.OpenModal(), "reopening starts on login")

	_, err := a.Apply("register")
	assert.True(t, errors.IsValidation(err))
	st, err := a.Apply("login")
	require.NoError(t, err)
	assert.True(t, st.LoggedIn)

	// Logging in gates nothing
	page, err := s.Navigate(context.Background(), "Dashboard")
	require.NoError(t, err)
	assert.Equal(t, types.PageGapAnalysis, page)
}
