package dto

type WidgetTransitionRequest struct {
	Action       string `json:"action" validate:"required,oneof=open minimize restore expand compact close"`
	InitialQuery string `json:"initial_query,omitempty"`
}

type WidgetStateResponse struct {
	SessionId string `json:"session_id"`
	State     string `json:"state"`
}
