package domain

// PipelineState mirrors the data-generation pipeline's on/off switch.
// The server is the single source of truth; the BFF holds a best-effort
// local mirror that can be stale between polls.
type PipelineState struct {
	Active bool `json:"active"`
}
