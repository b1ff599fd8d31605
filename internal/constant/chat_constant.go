package constant

const (
	// TransportFailureReply replaces a pending message when the
	// conversational backend is unreachable or returns garbage. This is
	// the only failure a widget user ever sees.
	TransportFailureReply = "Sorry, we're experiencing technical difficulties right now. Please try again in a moment."

	// ChatEventsTopic is the in-process bus topic carrying message patch
	// notifications from the reconciler to the delivery consumer.
	ChatEventsTopic = "chat.events"

	// Patch phases carried on bus messages.
	PatchPhaseAnswered = "answered"
	PatchPhaseErrored  = "errored"
	PatchPhaseHydrated = "hydrated"
)

// Widget shell states and chrome actions.
const (
	WidgetStateClosed       = "closed"
	WidgetStateOpenCompact  = "open_compact"
	WidgetStateOpenExpanded = "open_expanded"
	WidgetStateMinimized    = "minimized"

	WidgetActionOpen     = "open"
	WidgetActionMinimize = "minimize"
	WidgetActionRestore  = "restore"
	WidgetActionExpand   = "expand"
	WidgetActionCompact  = "compact"
	WidgetActionClose    = "close"
)
