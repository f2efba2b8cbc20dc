package session

import (
	"context"

	"skillsync/internal/types"
)

// Recorder receives session events, typically for metrics
type Recorder interface {
	ResumeUploaded(ctx context.Context, err error)
	AnalysisFinished(ctx context.Context, score int, err error)
	ChatMessageSent(ctx context.Context, err error)
	NavigationRedirected(ctx context.Context, requested, shown types.Page)
	SessionsChanged(ctx context.Context, delta int64)
}

// NopRecorder ignores all events
type NopRecorder struct{}

func (NopRecorder) ResumeUploaded(context.Context, error)                        {}
func (NopRecorder) AnalysisFinished(context.Context, int, error)                 {}
func (NopRecorder) ChatMessageSent(context.Context, error)                       {}
func (NopRecorder) NavigationRedirected(context.Context, types.Page, types.Page) {}
func (NopRecorder) SessionsChanged(context.Context, int64)                       {}
