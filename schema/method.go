package schema

// API endpoints, relative to the base origin.
const (
	EndpointLogin                = "/api/v2/auth/login"
	EndpointRegister             = "/api/v2/auth/register"
	EndpointRefresh              = "/api/v2/auth/refresh"
	EndpointValidateToken        = "/api/v2/auth/validate-token"
	EndpointRequestPasswordReset = "/api/v2/auth/request/reset-password"
	EndpointUpdatePasswordReset  = "/api/v2/auth/update/reset-password"
	EndpointSupport              = "/api/v2/auth/support"
	EndpointSupportTickets       = "/api/v2/auth/me/support-tickets"
	EndpointAccessRequest        = "/api/v2/auth/access-request"
	EndpointRecentUploads        = "/api/v2/report/recent-uploads"
	EndpointReport               = "/api/v2/report/"
	EndpointUploadFormat         = "/api/v1/%s/upload"
)

// DefaultBaseURL is the production API origin.
const DefaultBaseURL = "https://production.datambit.com"

// CodeSuccess is the envelope code reported by successful responses.
const CodeSuccess = "success"
