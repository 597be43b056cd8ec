package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys set by the auth middleware
	ContextKeyAgentID    = "agent_id"
	ContextKeyAgentName  = "agent_name"
	ContextKeyAgentEmail = "agent_email"
	ContextKeyAgentRole  = "agent_role"
	ContextKeyRequestID  = "request_id"

	// Attachment bucket shared by every storage driver
	AttachmentBucket = "ticket-attachments"
	// AttachmentKeyPrefix is the folder staged uploads are written under
	AttachmentKeyPrefix = "attachments"

	ErrMsgInternalServerError = "Internal server error occurred"
)
