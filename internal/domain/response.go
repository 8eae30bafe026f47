package domain

// Response is the tagged variant every capability handler returns. Exactly
// one of the Success/NeedsApproval/NeedsSetup/Error shapes is populated.
type Response struct {
	Success bool `json:"success"`
	Provider Provider `json:"provider,omitempty"`
	Action string `json:"action,omitempty"`
	Data any `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	NeedsApproval bool `json:"needs_approval,omitempty"`
	ActionType ActionKind `json:"action_type,omitempty"`
	ActionData *ActionRecord `json:"action_data,omitempty"`
	Preview *Preview `json:"preview,omitempty"`
	NeedsSetup bool `json:"needs_setup,omitempty"`
	Error string `json:"error,omitempty"`
	Code string `json:"code,omitempty"`
}

// SuccessResponse builds a Success response.
func SuccessResponse(provider Provider, action string, data any, message string) *Response {
	return &Response{Success: true, Provider: provider, Action: action, Data: data, Message: message}
}

// NeedsApprovalResponse builds a NeedsApproval response.
func NeedsApprovalResponse(record *ActionRecord) *Response {
	return &Response{
		NeedsApproval: true,
		ActionType: record.Kind,
		ActionData: record,
		Preview: &record.Preview,
	}
}

// NeedsSetupResponse builds a NeedsSetup response.
func NeedsSetupResponse(message string) *Response {
	return &Response{NeedsSetup: true, Message: message}
}

// ErrorResponse builds an Error response.
func ErrorResponse(provider Provider, err string, code string) *Response {
	return &Response{Success: false, Provider: provider, Error: err, Code: code}
}
