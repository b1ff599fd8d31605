package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/constant"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/dto"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/logger"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/repository/memory"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/assistant"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/events"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/store"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}

// gatedAssistant blocks each Converse call until released, recording the
// mode and query it was dispatched with.
type gatedAssistant struct {
	mu       sync.Mutex
	calls    []gatedCall
	release  chan struct{}
	response *assistant.Response
	err      error
}

type gatedCall struct {
	mode  string
	query string
}

func newGatedAssistant() *gatedAssistant {
	return &gatedAssistant{release: make(chan struct{})}
}

func (g *gatedAssistant) Converse(ctx context.Context, mode, query, sessionID string) (*assistant.Response, error) {
	g.mu.Lock()
	g.calls = append(g.calls, gatedCall{mode: mode, query: query})
	g.mu.Unlock()

	<-g.release

	if g.err != nil {
		return nil, g.err
	}
	resp := *g.response
	return &resp, nil
}

func (g *gatedAssistant) recordedCalls() []gatedCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]gatedCall, len(g.calls))
	copy(out, g.calls)
	return out
}

type fakeLookup struct {
	failing map[string]bool
}

func (f *fakeLookup) GetAgent(ctx context.Context, id string) (*store.AgentCard, error) {
	if f.failing[id] {
		return nil, errors.New("lookup failed")
	}
	return &store.AgentCard{ID: id, Name: "Agent " + id, Category: "productivity", Rating: 4.5}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []dto.ChatPatchEvent
}

func (p *recordingPublisher) PublishPatch(ctx context.Context, event dto.ChatPatchEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) phases() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Phase)
	}
	return out
}

func newTestChatService(a *gatedAssistant, lookup *fakeLookup, pub IPublisherService) (IChatService, *memory.SessionRegistry) {
	registry := memory.NewSessionRegistry(time.Hour)
	if lookup == nil {
		lookup = &fakeLookup{}
	}
	svc := NewChatService(registry, nil, a, lookup, nil, pub, nil, nopLogger{}, store.ModeExplore)
	return svc, registry
}

func TestSendChat_AppendsUserAndPendingSynchronously(t *testing.T) {
	a := newGatedAssistant()
	a.response = &assistant.Response{Response: "Here you go"}
	svc, _ := newTestChatService(a, nil, nil)

	resp, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Query: "find me a scheduler"})
	assert.NoError(t, err)
	assert.NotNil(t, resp)

	// both messages visible before the transport resolves
	snap, err := svc.GetSession(context.Background(), resp.SessionId)
	assert.NoError(t, err)
	assert.Len(t, snap.Messages, 3)
	assert.Equal(t, store.RoleAssistant, snap.Messages[0].Role)
	assert.Equal(t, store.SeedGreeting, snap.Messages[0].Text)
	assert.Equal(t, store.RoleUser, snap.Messages[1].Role)
	assert.Equal(t, "find me a scheduler", snap.Messages[1].Text)
	assert.Equal(t, store.RoleAssistant, snap.Messages[2].Role)
	assert.Equal(t, store.StatusPending, snap.Messages[2].Status)

	close(a.release)
}

func TestSendChat_EmptyQueryIsNoOp(t *testing.T) {
	a := newGatedAssistant()
	svc, _ := newTestChatService(a, nil, nil)

	resp, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Query: "   "})
	assert.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, a.recordedCalls())
}

func TestSendChat_SuccessPatchesPendingMessage(t *testing.T) {
	a := newGatedAssistant()
	a.response = &assistant.Response{Response: "Found two matches", FilteredAgents: []string{"a1", "a2"}, Timestamp: "2:15 PM"}
	pub := &recordingPublisher{}
	svc, _ := newTestChatService(a, &fakeLookup{}, pub)

	resp, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Query: "schedulers"})
	assert.NoError(t, err)

	close(a.release)

	assert.Eventually(t, func() bool {
		snap, err := svc.GetSession(context.Background(), resp.SessionId)
		if err != nil || len(snap.Messages) != 3 {
			return false
		}
		last := snap.Messages[2]
		return last.Status == store.StatusAnswered && len(last.Results) == 2
	}, 2*time.Second, 10*time.Millisecond)

	snap, err := svc.GetSession(context.Background(), resp.SessionId)
	assert.NoError(t, err)
	last := snap.Messages[2]
	assert.Equal(t, "Found two matches", last.Text)
	assert.Equal(t, "2:15 PM", last.Time)
	assert.Equal(t, []string{"a1", "a2"}, last.ResultIds)
	// hydration enriched the same record, not a new message
	assert.Len(t, snap.Messages, 3)
	assert.Equal(t, "Agent a1", last.Results[0].Name)

	assert.Equal(t, []string{constant.PatchPhaseAnswered, constant.PatchPhaseHydrated}, pub.phases())
}

func TestSendChat_PartialHydrationKeepsSuccessesInOrder(t *testing.T) {
	a := newGatedAssistant()
	a.response = &assistant.Response{Response: "Three matches", FilteredAgents: []string{"a1", "a2", "a3"}}
	svc, _ := newTestChatService(a, &fakeLookup{failing: map[string]bool{"a2": true}}, nil)

	resp, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Query: "anything"})
	assert.NoError(t, err)
	close(a.release)

	assert.Eventually(t, func() bool {
		snap, err := svc.GetSession(context.Background(), resp.SessionId)
		return err == nil && len(snap.Messages) == 3 && len(snap.Messages[2].Results) == 2
	}, 2*time.Second, 10*time.Millisecond)

	snap, _ := svc.GetSession(context.Background(), resp.SessionId)
	results := snap.Messages[2].Results
	assert.Equal(t, "a1", results[0].Id)
	assert.Equal(t, "a3", results[1].Id)
	// the full id list is kept even when one lookup failed
	assert.Equal(t, []string{"a1", "a2", "a3"}, snap.Messages[2].ResultIds)
}

func TestSendChat_TransportFailureYieldsApology(t *testing.T) {
	a := newGatedAssistant()
	a.err = errors.New("connection refused")
	pub := &recordingPublisher{}
	svc, _ := newTestChatService(a, nil, pub)

	resp, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Query: "hello"})
	assert.NoError(t, err)
	close(a.release)

	assert.Eventually(t, func() bool {
		snap, err := svc.GetSession(context.Background(), resp.SessionId)
		return err == nil && snap.Messages[2].Status == store.StatusErrored
	}, 2*time.Second, 10*time.Millisecond)

	snap, _ := svc.GetSession(context.Background(), resp.SessionId)
	last := snap.Messages[2]
	assert.Equal(t, constant.TransportFailureReply, last.Text)
	assert.Empty(t, last.ResultIds)
	assert.Empty(t, last.Results)
	assert.NotEmpty(t, last.Time)

	assert.Equal(t, []string{constant.PatchPhaseErrored}, pub.phases())
}

func TestSendChat_ModeCapturedAtDispatch(t *testing.T) {
	a := newGatedAssistant()
	a.response = &assistant.Response{Response: "ok"}
	svc, _ := newTestChatService(a, nil, nil)

	created, err := svc.CreateSession(context.Background(), &dto.CreateChatSessionRequest{Mode: store.ModeCreate})
	assert.NoError(t, err)

	resp, err := svc.SendChat(context.Background(), &dto.SendChatRequest{SessionId: created.SessionId, Query: "build me an agent"})
	assert.NoError(t, err)

	// mode switch while the call is in flight must not retag it
	assert.NoError(t, svc.SetMode(context.Background(), resp.SessionId, store.ModeExplore))
	close(a.release)

	assert.Eventually(t, func() bool {
		return len(a.recordedCalls()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, store.ModeCreate, a.recordedCalls()[0].mode)

	snap, err := svc.GetSession(context.Background(), resp.SessionId)
	assert.NoError(t, err)
	assert.Equal(t, store.ModeExplore, snap.Mode)
}

func TestClearSession_DropsInFlightRoundTrip(t *testing.T) {
	a := newGatedAssistant()
	a.response = &assistant.Response{Response: "too late"}
	pub := &recordingPublisher{}
	svc, _ := newTestChatService(a, nil, pub)

	resp, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Query: "slow question"})
	assert.NoError(t, err)

	cleared, err := svc.ClearSession(context.Background(), resp.SessionId)
	assert.NoError(t, err)
	assert.NotEqual(t, resp.SessionId, cleared.SessionId)

	close(a.release)

	// the stale answer must never reappear in the fresh conversation
	time.Sleep(100 * time.Millisecond)
	snap, err := svc.GetSession(context.Background(), cleared.SessionId)
	assert.NoError(t, err)
	assert.Len(t, snap.Messages, 1)
	assert.Equal(t, store.SeedGreeting, snap.Messages[0].Text)
	assert.Empty(t, pub.phases())

	// the old id is gone
	_, err = svc.GetSession(context.Background(), resp.SessionId)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestClearSession_PublishesClearedEvent(t *testing.T) {
	a := newGatedAssistant()
	analytics := &recordingAnalytics{}
	registry := memory.NewSessionRegistry(time.Hour)
	svc := NewChatService(registry, nil, a, &fakeLookup{}, nil, nil, analytics, nopLogger{}, store.ModeExplore)

	created, err := svc.CreateSession(context.Background(), nil)
	assert.NoError(t, err)

	_, err = svc.ClearSession(context.Background(), created.SessionId)
	assert.NoError(t, err)

	assert.Equal(t, []string{events.TypeSessionCleared}, analytics.types())
}

func TestClearSession_PreservesMode(t *testing.T) {
	a := newGatedAssistant()
	svc, _ := newTestChatService(a, nil, nil)

	created, err := svc.CreateSession(context.Background(), &dto.CreateChatSessionRequest{Mode: store.ModeCreate})
	assert.NoError(t, err)

	cleared, err := svc.ClearSession(context.Background(), created.SessionId)
	assert.NoError(t, err)

	snap, err := svc.GetSession(context.Background(), cleared.SessionId)
	assert.NoError(t, err)
	assert.Equal(t, store.ModeCreate, snap.Mode)
}

func TestGetSession_UnknownIDFails(t *testing.T) {
	a := newGatedAssistant()
	svc, _ := newTestChatService(a, nil, nil)

	_, err := svc.GetSession(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.GetSession(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSendChat_NewSessionWhenIDOmitted(t *testing.T) {
	a := newGatedAssistant()
	a.response = &assistant.Response{Response: "ok"}
	svc, registry := newTestChatService(a, nil, nil)

	resp, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Query: "first contact"})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.SessionId)
	assert.Equal(t, store.ModeExplore, resp.Mode)

	_, found := registry.Get(resp.SessionId)
	assert.True(t, found)

	close(a.release)
}

func TestSendChat_ConcurrentSubmitsAllSettle(t *testing.T) {
	a := newGatedAssistant()
	a.response = &assistant.Response{Response: "answered"}
	svc, _ := newTestChatService(a, nil, nil)

	created, err := svc.CreateSession(context.Background(), nil)
	assert.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.SendChat(context.Background(), &dto.SendChatRequest{
			SessionId: created.SessionId,
			Query:     fmt.Sprintf("question %d", i),
		})
		assert.NoError(t, err)
	}
	close(a.release)

	assert.Eventually(t, func() bool {
		snap, err := svc.GetSession(context.Background(), created.SessionId)
		if err != nil {
			return false
		}
		// seed + 3 user + 3 assistant
		if len(snap.Messages) != 7 {
			return false
		}
		for _, m := range snap.Messages {
			if m.Status == store.StatusPending {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)
}
