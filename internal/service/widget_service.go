package service

import (
	"context"
	"errors"
	"time"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/constant"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/dto"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/pkg/logger"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/repository/memory"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/events"
)

// ErrInvalidTransition is returned when a chrome action is not legal in
// the widget's current state.
var ErrInvalidTransition = errors.New("invalid widget transition")

// AnalyticsPublisher is the outbound analytics port (NATS in production).
type AnalyticsPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IWidgetService drives the widget shell state machine for a session.
type IWidgetService interface {
	GetState(ctx context.Context, sessionID string) (*dto.WidgetStateResponse, error)
	Transition(ctx context.Context, sessionID string, request *dto.WidgetTransitionRequest) (*dto.WidgetStateResponse, error)
}

// transitions maps state -> action -> next state. Actions absent from a
// state's row are rejected.
var transitions = map[string]map[string]string{
	constant.WidgetStateClosed: {
		constant.WidgetActionOpen: constant.WidgetStateOpenCompact,
	},
	constant.WidgetStateOpenCompact: {
		constant.WidgetActionExpand:   constant.WidgetStateOpenExpanded,
		constant.WidgetActionMinimize: constant.WidgetStateMinimized,
		constant.WidgetActionClose:    constant.WidgetStateClosed,
	},
	constant.WidgetStateOpenExpanded: {
		constant.WidgetActionCompact:  constant.WidgetStateOpenCompact,
		constant.WidgetActionMinimize: constant.WidgetStateMinimized,
		constant.WidgetActionClose:    constant.WidgetStateClosed,
	},
	constant.WidgetStateMinimized: {
		constant.WidgetActionRestore: constant.WidgetStateOpenCompact,
		constant.WidgetActionClose:   constant.WidgetStateClosed,
	},
}

type widgetService struct {
	repository  *memory.WidgetRepository
	chatService IChatService
	analytics   AnalyticsPublisher
	logger      logger.ILogger
	mountDelay  time.Duration
}

// NewWidgetService wires the shell. analytics may be nil; open events are
// then dropped.
func NewWidgetService(
	repository *memory.WidgetRepository,
	chatService IChatService,
	analytics AnalyticsPublisher,
	log logger.ILogger,
	mountDelay time.Duration,
) IWidgetService {
	return &widgetService{
		repository:  repository,
		chatService: chatService,
		analytics:   analytics,
		logger:      log,
		mountDelay:  mountDelay,
	}
}

func (ws *widgetService) GetState(ctx context.Context, sessionID string) (*dto.WidgetStateResponse, error) {
	state, found := ws.repository.Get(sessionID)
	if !found {
		// an unknown session's shell is simply closed
		return &dto.WidgetStateResponse{SessionId: sessionID, State: constant.WidgetStateClosed}, nil
	}
	return &dto.WidgetStateResponse{SessionId: state.SessionID, State: state.State}, nil
}

func (ws *widgetService) Transition(ctx context.Context, sessionID string, request *dto.WidgetTransitionRequest) (*dto.WidgetStateResponse, error) {
	state, found := ws.repository.Get(sessionID)
	if !found {
		state = &memory.WidgetState{SessionID: sessionID, State: constant.WidgetStateClosed}
	}

	next, ok := transitions[state.State][request.Action]
	if !ok {
		return nil, ErrInvalidTransition
	}

	opened := state.State == constant.WidgetStateClosed && request.Action == constant.WidgetActionOpen
	state.State = next
	ws.repository.Save(state)

	if opened {
		ws.publishOpened(ctx, sessionID)

		// one-shot auto-submit after the mount delay, once per shell
		if request.InitialQuery != "" && !state.InitialQueryFired {
			state.InitialQueryFired = true
			ws.repository.Save(state)
			ws.scheduleInitialQuery(sessionID, request.InitialQuery)
		}
	}

	return &dto.WidgetStateResponse{SessionId: sessionID, State: state.State}, nil
}

// scheduleInitialQuery submits the landing-page query as if the user had
// typed it, after the widget has had time to mount.
func (ws *widgetService) scheduleInitialQuery(sessionID, query string) {
	time.AfterFunc(ws.mountDelay, func() {
		_, err := ws.chatService.SendChat(context.Background(), &dto.SendChatRequest{
			SessionId: sessionID,
			Query:     query,
		})
		if err != nil {
			ws.logger.Warn("Widget", "Initial query submit failed", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	})
}

func (ws *widgetService) publishOpened(ctx context.Context, sessionID string) {
	if ws.analytics == nil {
		return
	}
	event := events.NewChatEvent(events.TypeWidgetOpened, sessionID, nil)
	if err := ws.analytics.Publish(ctx, event); err != nil {
		ws.logger.Warn("Widget", "Failed to publish open event", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}
