package stream

import (
	"context"

	"github.com/user/lookout/internal/api"
	"github.com/user/lookout/internal/types"
)

// Source supplies thread snapshots and event subscriptions. The API
// client satisfies it through APISource; tests inject fakes.
type Source interface {
	ThreadDetail(ctx context.Context, id types.ThreadID) (*types.ThreadDetail, error)
	Events(ctx context.Context, id types.ThreadID, sinceSeq int64) (EventSource, error)
}

// EventSource is one live subscription. Next blocks until an event
// arrives or the subscription dies.
type EventSource interface {
	Next() (types.Event, error)
	Close() error
}

// APISource adapts the runtime API client to the Source interface.
type APISource struct {
	Client *api.Client
}

func (s APISource) ThreadDetail(ctx context.Context, id types.ThreadID) (*types.ThreadDetail, error) {
	return s.Client.ThreadDetail(ctx, id)
}

func (s APISource) Events(ctx context.Context, id types.ThreadID, sinceSeq int64) (EventSource, error) {
	es, err := s.Client.Events(ctx, id, sinceSeq)
	if err != nil {
		return nil, err
	}
	return es, nil
}
