package api

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	Text       string `json:"text"`
	AIResponse string `json:"ai_response"`
	HasAudio   bool   `json:"has_audio"`
	AudioURL   string `json:"audio_url,omitempty"`
}

// FunFactResponse is returned by GET /fun-fact.
type FunFactResponse struct {
	Text     string `json:"text"`
	HasAudio bool   `json:"has_audio"`
	AudioURL string `json:"audio_url,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Env    string `json:"env"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
