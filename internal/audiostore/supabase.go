// Package audiostore uploads raw turn audio to Supabase storage so that
// transcripts can reference the clip they were produced from.
package audiostore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Supabase uploads objects through Supabase's Storage HTTP API.
type Supabase struct {
	BaseURL    string
	ServiceKey string
	Bucket     string
	Client     *http.Client
}

func NewSupabase(baseURL, serviceKey, bucket string) *Supabase {
	return &Supabase{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		ServiceKey: serviceKey,
		Bucket:     bucket,
		Client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether uploads can be attempted.
func (s *Supabase) Configured() bool {
	return s.BaseURL != "" && s.ServiceKey != "" && s.Bucket != ""
}

// Upload stores the object and returns its bucket-relative path.
func (s *Supabase) Upload(ctx context.Context, objectKey, contentType string, body []byte) (string, error) {
	if !s.Configured() {
		return "", fmt.Errorf("audiostore: missing Supabase configuration")
	}

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.BaseURL, s.Bucket, objectKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("audiostore: create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.ServiceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "3600")
	req.Header.Set("x-upsert", "true")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("audiostore: upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("audiostore: upload status %d: %s", resp.StatusCode, string(b))
	}
	return s.Bucket + "/" + objectKey, nil
}
