package domain

// Wire models for the remote extraction/AI service. The three upload
// endpoints share the UploadResponse shape; the text-only endpoint may report
// extracted text in Message rather than Documents[0].Content.

type UploadResponse struct {
	Documents      []DocumentInfo `json:"documents"`
	Message        string         `json:"message"`
	TotalDocuments int            `json:"total_documents"`
	Text           string         `json:"text"`
	Success        bool           `json:"success"`
}

type DocumentInfo struct {
	Filename   string `json:"filename"`
	Content    string `json:"content"`
	UploadTime string `json:"upload_time"`
	ID         string `json:"id"`
}

// AskRequest asks the backend AI for a free-text narrative about a document.
type AskRequest struct {
	Query   string `json:"query"`
	Context string `json:"context"`
}

type AskResponse struct {
	Response  string   `json:"response"`
	Reasoning []string `json:"reasoning"`
	Context   string   `json:"context"`
	Success   bool     `json:"success"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}
