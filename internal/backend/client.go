// Package backend provides the client for the GraphQL task service that
// persists annotations. The editor consumes this service; failures are
// surfaced as store-level errors and never touch the in-memory list.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"image-annotator/internal/annotation"
	"image-annotator/pkg/geometry"
)

// Service is the task persistence contract consumed by the session.
type Service interface {
	LoadTaskAnnotations(ctx context.Context, taskID string) ([]*annotation.Annotation, error)
	SaveTaskAnnotations(ctx context.Context, taskID string, annotations []annotation.Exported) error
}

const loadQuery = `query TaskAnnotations($taskId: ID!) {
  task(id: $taskId) {
    annotations {
      id
      type
      bounds { x y width height }
      text
      tags
    }
  }
}`

const saveMutation = `mutation SaveTaskAnnotations($taskId: ID!, $annotations: [AnnotationInput!]!) {
  saveTaskAnnotations(taskId: $taskId, annotations: $annotations) {
    count
  }
}`

// Client talks GraphQL over HTTP to the task service.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client for the given GraphQL endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// wireAnnotation is the server-side annotation shape.
type wireAnnotation struct {
	ID     string        `json:"id"`
	Type   string        `json:"type"`
	Bounds geometry.Rect `json:"bounds"`
	Text   string        `json:"text"`
	Tags   []string      `json:"tags"`
}

// LoadTaskAnnotations fetches the task's annotations and converts them to
// the client shape. Server ids are kept so a later save round-trips them.
func (c *Client) LoadTaskAnnotations(ctx context.Context, taskID string) ([]*annotation.Annotation, error) {
	var resp struct {
		Task *struct {
			Annotations []wireAnnotation `json:"annotations"`
		} `json:"task"`
	}
	vars := map[string]interface{}{"taskId": taskID}
	if err := c.do(ctx, loadQuery, vars, &resp); err != nil {
		return nil, fmt.Errorf("load task %s: %w", taskID, err)
	}
	if resp.Task == nil {
		return nil, fmt.Errorf("load task %s: task not found", taskID)
	}

	now := time.Now()
	out := make([]*annotation.Annotation, 0, len(resp.Task.Annotations))
	for _, w := range resp.Task.Annotations {
		id := w.ID
		if id == "" {
			id = annotation.NewID()
		}
		tags := w.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, &annotation.Annotation{
			ID:        id,
			Type:      annotation.Type(w.Type),
			Bounds:    w.Bounds,
			Body:      annotation.Body{Text: w.Text, Tags: tags},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return out, nil
}

// SaveTaskAnnotations replaces the task's annotations on the server.
func (c *Client) SaveTaskAnnotations(ctx context.Context, taskID string, annotations []annotation.Exported) error {
	wire := make([]map[string]interface{}, 0, len(annotations))
	for _, a := range annotations {
		wire = append(wire, map[string]interface{}{
			"type":   string(a.Type),
			"bounds": a.Bounds,
			"text":   a.Body.Text,
			"tags":   a.Body.Tags,
		})
	}
	vars := map[string]interface{}{"taskId": taskID, "annotations": wire}

	var resp struct {
		SaveTaskAnnotations struct {
			Count int `json:"count"`
		} `json:"saveTaskAnnotations"`
	}
	if err := c.do(ctx, saveMutation, vars, &resp); err != nil {
		return fmt.Errorf("save task %s: %w", taskID, err)
	}
	return nil
}

// do executes one GraphQL request and decodes the data payload into out.
func (c *Client) do(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": vars,
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("service returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("service error: %s", envelope.Errors[0].Message)
	}
	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
