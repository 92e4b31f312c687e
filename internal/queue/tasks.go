package queue

import (
	"encoding/json"
	"fmt"
)

// Task types
const (
	TypeIngestSearch = "ingest:search"
	TypeIngestVideo  = "ingest:video"
)

// IngestSearchPayload is the payload for search-and-ingest tasks
type IngestSearchPayload struct {
	Query      string                 `json:"query"`
	MaxResults int64                  `json:"max_results"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// NewIngestSearchTask creates a new search-and-ingest task payload
func NewIngestSearchTask(query string, maxResults int64, metadata map[string]interface{}) (*IngestSearchPayload, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &IngestSearchPayload{
		Query:      query,
		MaxResults: maxResults,
		Metadata:   metadata,
	}, nil
}

// Marshal serializes the payload to JSON
func (p *IngestSearchPayload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalIngestSearchPayload deserializes JSON to payload
func UnmarshalIngestSearchPayload(data []byte) (*IngestSearchPayload, error) {
	var payload IngestSearchPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return &payload, nil
}

// IngestVideoPayload is the payload for single-video ingest tasks
type IngestVideoPayload struct {
	VideoID  string                 `json:"video_id"`
	Metadata map[string]interface{} `json:"metadata"`
}

// NewIngestVideoTask creates a new single-video ingest task payload
func NewIngestVideoTask(videoID string, metadata map[string]interface{}) (*IngestVideoPayload, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID is required")
	}

	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &IngestVideoPayload{
		VideoID:  videoID,
		Metadata: metadata,
	}, nil
}

// Marshal serializes the payload to JSON
func (p *IngestVideoPayload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalIngestVideoPayload deserializes JSON to payload
func UnmarshalIngestVideoPayload(data []byte) (*IngestVideoPayload, error) {
	var payload IngestVideoPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return &payload, nil
}
