package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hushwall/mural"
)

const requestTimeout = 10 * time.Second

// Client talks to the mural service over HTTP/JSON.
type Client struct {
	base string
	http *http.Client
	log  *zap.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: requestTimeout},
		log:  log,
	}
}

// Wire shapes. Colors travel as unit-range r/g/b, shapes as their
// lowercase names, timestamps as RFC 3339.

type wireColor struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

type wireEntity struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Message   string    `json:"message"`
	Color     wireColor `json:"color"`
	Shape     string    `json:"shape"`
	Intensity int       `json:"intensity"`
	Category  string    `json:"category"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	CreatedAt time.Time `json:"created_at"`
}

type wireScored struct {
	wireEntity
	Score float64 `json:"score"`
}

type wireResonance struct {
	TargetID string    `json:"target_id"`
	ActorID  string    `json:"actor_id"`
	At       time.Time `json:"at"`
}

func (w wireEntity) toEntity() mural.Entity {
	return mural.Entity{
		ID:        mural.EntityID(w.ID),
		Owner:     w.Owner,
		Message:   w.Message,
		Color:     mural.Color{R: w.Color.R, G: w.Color.G, B: w.Color.B, A: 1},
		Shape:     mural.ParseShape(w.Shape),
		Intensity: w.Intensity,
		Category:  w.Category,
		X:         w.X,
		Y:         w.Y,
		CreatedAt: w.CreatedAt,
	}
}

// FetchEntities retrieves the full set of entities.
func (c *Client) FetchEntities(ctx context.Context) ([]mural.Entity, error) {
	var wires []wireEntity
	if err := c.getJSON(ctx, "/entities", &wires); err != nil {
		return nil, err
	}
	out := make([]mural.Entity, len(wires))
	for i, w := range wires {
		out[i] = w.toEntity()
	}
	return out, nil
}

// FetchSimilar retrieves entities similar to the target.
func (c *Client) FetchSimilar(ctx context.Context, id mural.EntityID) ([]mural.Scored, error) {
	path := "/entities/" + url.PathEscape(string(id)) + "/similar"
	var wires []wireScored
	if err := c.getJSON(ctx, path, &wires); err != nil {
		return nil, err
	}
	return scoredFromWire(wires), nil
}

// FetchSimilarOwn retrieves the owner's entities near the target.
func (c *Client) FetchSimilarOwn(ctx context.Context, id mural.EntityID, owner string) ([]mural.Scored, error) {
	path := "/entities/" + url.PathEscape(string(id)) + "/similar/own?owner=" + url.QueryEscape(owner)
	var wires []wireScored
	if err := c.getJSON(ctx, path, &wires); err != nil {
		return nil, err
	}
	return scoredFromWire(wires), nil
}

// RecordResonance posts a resonance event for the target entity.
func (c *Client) RecordResonance(ctx context.Context, target mural.EntityID, actor string) error {
	body, err := json.Marshal(wireResonance{TargetID: string(target), ActorID: actor})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/resonances", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

// Delete removes the viewer's entity.
func (c *Client) Delete(ctx context.Context, id mural.EntityID, owner string) error {
	u := c.base + "/entities/" + url.PathEscape(string(id)) + "?owner=" + url.QueryEscape(owner)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// PollResonances retrieves recent resonance events targeting the owner's
// entities.
func (c *Client) PollResonances(ctx context.Context, owner string) ([]mural.Resonance, error) {
	var wires []wireResonance
	if err := c.getJSON(ctx, "/resonances?owner="+url.QueryEscape(owner), &wires); err != nil {
		return nil, err
	}
	out := make([]mural.Resonance, len(wires))
	for i, w := range wires {
		out[i] = mural.Resonance{TargetID: mural.EntityID(w.TargetID), ActorID: w.ActorID, At: w.At}
	}
	return out, nil
}

func scoredFromWire(wires []wireScored) []mural.Scored {
	out := make([]mural.Scored, len(wires))
	for i, w := range wires {
		out[i] = mural.Scored{Entity: w.wireEntity.toEntity(), Score: w.Score}
	}
	return out
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, dst)
}

// do runs the request and decodes the response body into dst when
// non-nil. 404 maps to ErrNotFound, 403 to ErrOwnerMismatch.
func (c *Client) do(req *http.Request, dst any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusForbidden:
		return ErrOwnerMismatch
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Debug("store request failed",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("store: %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if dst == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
