package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	CaseRef string `json:"case_ref,omitempty"`
}

type PublishAnnouncementRequest struct {
	Channel string `json:"channel"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}

type AnnouncementResponse struct {
	AnnouncementID string `json:"announcement_id"`
	Channel        string `json:"channel"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	Rendered       string `json:"rendered,omitempty"`
	PostedBy       string `json:"posted_by"`
	PostedAt       string `json:"posted_at"`
}

type AnnouncementListResponse struct {
	Channel       string                 `json:"channel,omitempty"`
	Announcements []AnnouncementResponse `json:"announcements"`
}
