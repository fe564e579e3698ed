package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GrantCapabilityRequest struct {
	ActorID    string `json:"actor_id"`
	Capability string `json:"capability"`
}

type RevokeCapabilityRequest struct {
	ActorID    string `json:"actor_id"`
	Capability string `json:"capability"`
}

type GrantResponse struct {
	GrantID    string `json:"grant_id"`
	ActorID    string `json:"actor_id"`
	Capability string `json:"capability"`
	GrantedBy  string `json:"granted_by"`
	GrantedAt  string `json:"granted_at"`
	RevokedAt  string `json:"revoked_at,omitempty"`
	RevokedBy  string `json:"revoked_by,omitempty"`
}

type GrantListResponse struct {
	ActorID string          `json:"actor_id"`
	Grants  []GrantResponse `json:"grants"`
}

type CapabilityCheckResponse struct {
	ActorID    string `json:"actor_id"`
	Capability string `json:"capability"`
	Allowed    bool   `json:"allowed"`
}
