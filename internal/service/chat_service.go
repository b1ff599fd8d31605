package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/constant"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/dto"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/entity"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/mapper"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/logger"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/repository/memory"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/repository/specification"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/repository/unitofwork"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/agents"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/assistant"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/events"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/store"
)

// ErrSessionNotFound is returned when a session id is neither live nor
// recoverable from the persister.
var ErrSessionNotFound = errors.New("chat session not found")

// IChatService orchestrates one conversation: session lifecycle, the
// submit round-trip, mode switching and clearing.
type IChatService interface {
	CreateSession(ctx context.Context, request *dto.CreateChatSessionRequest) (*dto.ChatSessionSnapshotResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.ChatSessionSnapshotResponse, error)
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	SetMode(ctx context.Context, sessionID, mode string) error
	ClearSession(ctx context.Context, sessionID string) (*dto.ClearSessionResponse, error)
}

type chatService struct {
	registry    *memory.SessionRegistry
	persister   store.Persister
	assistant   assistant.Client
	lookup      agents.Lookup
	uowFactory  unitofwork.RepositoryFactory
	publisher   IPublisherService
	analytics   AnalyticsPublisher
	logger      logger.ILogger
	defaultMode string
	mapper      *mapper.ChatMapper
}

// NewChatService wires the reconciler. uowFactory, publisher and
// analytics may be nil; archival, patch notifications and analytics
// events are then skipped.
func NewChatService(
	registry *memory.SessionRegistry,
	persister store.Persister,
	assistantClient assistant.Client,
	lookup agents.Lookup,
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	analytics AnalyticsPublisher,
	log logger.ILogger,
	defaultMode string,
) IChatService {
	if defaultMode == "" {
		defaultMode = store.ModeExplore
	}
	return &chatService{
		registry:    registry,
		persister:   persister,
		assistant:   assistantClient,
		lookup:      lookup,
		uowFactory:  uowFactory,
		publisher:   publisher,
		analytics:   analytics,
		logger:      log,
		defaultMode: defaultMode,
		mapper:      mapper.NewChatMapper(),
	}
}

func (cs *chatService) CreateSession(ctx context.Context, request *dto.CreateChatSessionRequest) (*dto.ChatSessionSnapshotResponse, error) {
	mode := cs.defaultMode
	if request != nil && request.Mode != "" {
		mode = request.Mode
	}

	st := store.NewConversation(mode, cs.persister)
	cs.registry.Put(st.SessionID(), st)

	snap := st.Snapshot()
	return cs.mapper.SessionToSnapshotDTO(&snap), nil
}

func (cs *chatService) GetSession(ctx context.Context, sessionID string) (*dto.ChatSessionSnapshotResponse, error) {
	st, err := cs.findStore(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap := st.Snapshot()
	return cs.mapper.SessionToSnapshotDTO(&snap), nil
}

// SendChat performs steps 1–2 of the round-trip synchronously (user
// message, pending placeholder) and dispatches the transport call and
// hydration in the background. Both appended messages are returned so
// the widget can render immediately.
func (cs *chatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	query := strings.TrimSpace(request.Query)
	if query == "" {
		// contract: empty submissions are a no-op
		return nil, nil
	}

	var st *store.Store
	if request.SessionId == "" {
		st = store.NewConversation(cs.defaultMode, cs.persister)
		cs.registry.Put(st.SessionID(), st)
	} else {
		var err error
		st, err = cs.findStore(ctx, request.SessionId)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().Format(store.TimeLayout)
	userMsg := store.Message{
		ID:     uuid.New().String(),
		Role:   store.RoleUser,
		Text:   query,
		Time:   now,
		Status: store.StatusAnswered,
	}
	st.Append(userMsg)

	pendingMsg := store.Message{
		ID:     uuid.New().String(),
		Role:   store.RoleAssistant,
		Status: store.StatusPending,
	}
	st.Append(pendingMsg)

	// mode and session id are captured here: a mode switch or reset after
	// dispatch must not affect this round-trip
	mode := st.Mode()
	sessionID := st.SessionID()

	go cs.resolveRoundTrip(st, pendingMsg.ID, mode, sessionID, query, userMsg)

	return &dto.SendChatResponse{
		SessionId: sessionID,
		Mode:      mode,
		Sent:      cs.mapper.MessageToDTO(&userMsg),
		Reply:     cs.mapper.MessageToDTO(&pendingMsg),
	}, nil
}

// resolveRoundTrip is the asynchronous tail of SendChat. It holds a
// reference to the store object, not its registry key: if the
// conversation is cleared while in flight, PatchByID misses and the
// stale result is dropped.
func (cs *chatService) resolveRoundTrip(st *store.Store, pendingID, mode, sessionID, query string, userMsg store.Message) {
	ctx := context.Background()

	res, err := cs.assistant.Converse(ctx, mode, query, sessionID)
	if err != nil {
		cs.logger.Warn("Chat", "Transport call failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})

		text := constant.TransportFailureReply
		status := store.StatusErrored
		arrived := time.Now().Format(store.TimeLayout)
		if !st.PatchByID(pendingID, store.Patch{Text: &text, Time: &arrived, Status: &status}) {
			cs.logger.Info("Chat", "Dropped stale round-trip", map[string]interface{}{"session_id": sessionID})
			return
		}
		cs.publishPatch(ctx, sessionID, pendingID, constant.PatchPhaseErrored)
		cs.archiveRoundTrip(ctx, sessionID, mode, userMsg, store.Message{
			ID: pendingID, Role: store.RoleAssistant, Text: text, Status: status,
		})
		return
	}

	arrived := res.Timestamp
	if arrived == "" {
		arrived = time.Now().Format(store.TimeLayout)
	}
	status := store.StatusAnswered
	patch := store.Patch{Text: &res.Response, Time: &arrived, Status: &status}
	if len(res.FilteredAgents) > 0 {
		patch.ResultIDs = res.FilteredAgents
	}
	if !st.PatchByID(pendingID, patch) {
		cs.logger.Info("Chat", "Dropped stale round-trip", map[string]interface{}{"session_id": sessionID})
		return
	}
	cs.publishPatch(ctx, sessionID, pendingID, constant.PatchPhaseAnswered)

	// hydration only starts once result ids are known, and never blocks
	// the primary answer
	if len(res.FilteredAgents) > 0 {
		results := agents.Hydrate(ctx, cs.lookup, res.FilteredAgents)
		for _, r := range results {
			if r.Err != nil {
				cs.logger.Warn("Chat", "Agent lookup failed during hydration", map[string]interface{}{
					"agent_id": r.ID,
					"error":    r.Err.Error(),
				})
			}
		}
		if st.PatchByID(pendingID, store.Patch{Results: agents.Successes(results)}) {
			cs.publishPatch(ctx, sessionID, pendingID, constant.PatchPhaseHydrated)
		}
	}

	cs.archiveRoundTrip(ctx, sessionID, mode, userMsg, store.Message{
		ID: pendingID, Role: store.RoleAssistant, Text: res.Response, Status: status, ResultIDs: res.FilteredAgents,
	})
}

func (cs *chatService) SetMode(ctx context.Context, sessionID, mode string) error {
	st, err := cs.findStore(ctx, sessionID)
	if err != nil {
		return err
	}
	st.SetMode(mode)
	return nil
}

func (cs *chatService) ClearSession(ctx context.Context, sessionID string) (*dto.ClearSessionResponse, error) {
	st, err := cs.findStore(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	newID := st.Reset()
	cs.registry.Rekey(sessionID, newID, st)

	cs.logger.Info("Chat", "Conversation cleared", map[string]interface{}{
		"old_session_id": sessionID,
		"new_session_id": newID,
	})

	if cs.analytics != nil {
		event := events.NewChatEvent(events.TypeSessionCleared, sessionID, map[string]interface{}{
			"new_session_id": newID,
		})
		if err := cs.analytics.Publish(ctx, event); err != nil {
			cs.logger.Warn("Chat", "Failed to publish clear event", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}

	return &dto.ClearSessionResponse{SessionId: newID}, nil
}

// findStore resolves a session id to its live store, resuming from the
// persister when the process has not seen the session yet.
func (cs *chatService) findStore(ctx context.Context, sessionID string) (*store.Store, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	if st, ok := cs.registry.Get(sessionID); ok {
		return st, nil
	}
	if cs.persister != nil {
		session, err := cs.persister.Load(ctx, sessionID)
		if err != nil {
			cs.logger.Warn("Chat", "Failed to load persisted session", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		} else if session != nil {
			st := store.Resume(session, cs.persister)
			cs.registry.Put(sessionID, st)
			return st, nil
		}
	}
	return nil, ErrSessionNotFound
}

func (cs *chatService) publishPatch(ctx context.Context, sessionID, messageID, phase string) {
	if cs.publisher == nil {
		return
	}
	event := dto.ChatPatchEvent{
		SessionId:  sessionID,
		MessageId:  messageID,
		Phase:      phase,
		OccurredAt: time.Now(),
	}
	if err := cs.publisher.PublishPatch(ctx, event); err != nil {
		cs.logger.Warn("Chat", "Failed to publish patch event", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

// archiveRoundTrip writes the settled round-trip to the relational
// archive. Best-effort: archival failures never affect the live
// conversation.
func (cs *chatService) archiveRoundTrip(ctx context.Context, sessionID, mode string, userMsg, assistantMsg store.Message) {
	if cs.uowFactory == nil {
		return
	}

	sid, err := uuid.Parse(sessionID)
	if err != nil {
		cs.logger.Warn("Chat", "Skipping archive for non-uuid session id", map[string]interface{}{
			"session_id": sessionID,
		})
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sid})
	if err != nil {
		cs.logger.Error("Chat", "Failed to look up archived session", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("Chat", "Failed to begin archive transaction", map[string]interface{}{"error": err.Error()})
		return
	}
	defer uow.Rollback()

	if existing == nil {
		session := entity.ChatSession{Id: sid, Mode: mode, CreatedAt: time.Now()}
		if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
			cs.logger.Error("Chat", "Failed to archive session", map[string]interface{}{"error": err.Error()})
			return
		}
	}

	now := time.Now()
	messages := []*entity.ChatMessage{
		{
			Id:            mustParseOrNew(userMsg.ID),
			ChatSessionId: sid,
			Role:          userMsg.Role,
			Text:          userMsg.Text,
			Status:        userMsg.Status,
			CreatedAt:     now,
		},
		{
			Id:            mustParseOrNew(assistantMsg.ID),
			ChatSessionId: sid,
			Role:          assistantMsg.Role,
			Text:          assistantMsg.Text,
			Status:        assistantMsg.Status,
			ResultIds:     assistantMsg.ResultIDs,
			CreatedAt:     now.Add(1 * time.Second),
		},
	}
	if err := uow.ChatMessageRepository().CreateBulk(ctx, messages); err != nil {
		cs.logger.Error("Chat", "Failed to archive messages", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("Chat", "Failed to commit archive transaction", map[string]interface{}{"error": err.Error()})
	}
}

func mustParseOrNew(id string) uuid.UUID {
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed
	}
	return uuid.New()
}
