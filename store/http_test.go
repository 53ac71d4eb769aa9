package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hushwall/mural"
)

func TestClientFetchEntities(t *testing.T) {
	created := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/entities", r.URL.Path)
		json.NewEncoder(w).Encode([]wireEntity{{
			ID:        "e1",
			Owner:     "alice",
			Message:   "a quiet win",
			Color:     wireColor{R: 0.2, G: 0.6, B: 0.9},
			Shape:     "spiky",
			Intensity: 4,
			Category:  "joy",
			X:         250,
			Y:         180,
			CreatedAt: created,
		}})
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, nil).FetchEntities(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mural.EntityID("e1"), got[0].ID)
	assert.Equal(t, mural.ShapeSpiky, got[0].Shape)
	assert.Equal(t, 4, got[0].Intensity)
	assert.Equal(t, mural.Color{R: 0.2, G: 0.6, B: 0.9, A: 1}, got[0].Color)
	assert.Equal(t, 250.0, got[0].X)
	assert.Equal(t, 180.0, got[0].Y)
	assert.True(t, got[0].CreatedAt.Equal(created))
}

func TestClientPreservesPersistedPositions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Raw payload as the service emits it: a previously placed entity
		// and one awaiting layout.
		w.Write([]byte(`[
			{"id":"placed","owner":"alice","shape":"smooth","x":250,"y":180,"created_at":"2026-08-20T09:30:00Z"},
			{"id":"fresh","owner":"alice","shape":"smooth","created_at":"2026-08-20T09:31:00Z"}
		]`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, nil).FetchEntities(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Placed(), "persisted position lost in transit")
	assert.Equal(t, 250.0, got[0].X)
	assert.Equal(t, 180.0, got[0].Y)
	assert.False(t, got[1].Placed(), "zero position must stay unplaced")
}

func TestClientUnknownShapeFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]wireEntity{{ID: "e1", Shape: "hexagonal"}})
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, nil).FetchEntities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mural.ShapeSmooth, got[0].Shape)
}

func TestClientFetchSimilar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entities/e1/similar", r.URL.Path)
		json.NewEncoder(w).Encode([]wireScored{
			{wireEntity: wireEntity{ID: "e2"}, Score: 0.91},
			{wireEntity: wireEntity{ID: "e3"}, Score: 0.55},
		})
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, nil).FetchSimilar(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, mural.EntityID("e2"), got[0].Entity.ID)
	assert.InDelta(t, 0.91, got[0].Score, 1e-9)
}

func TestClientFetchSimilarOwn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entities/e1/similar/own", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("owner"))
		json.NewEncoder(w).Encode([]wireScored{})
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, nil).FetchSimilarOwn(context.Background(), "e1", "alice")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClientRecordResonance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/resonances", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body wireResonance
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "e1", body.TargetID)
		assert.Equal(t, "bob-token", body.ActorID)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, nil).RecordResonance(context.Background(), "e1", "bob-token")
	assert.NoError(t, err)
}

func TestClientDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/entities/e1", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("owner"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, nil).Delete(context.Background(), "e1", "alice")
	assert.NoError(t, err)
}

func TestClientPollResonances(t *testing.T) {
	at := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resonances", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("owner"))
		json.NewEncoder(w).Encode([]wireResonance{{TargetID: "e1", ActorID: "bob", At: at}})
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, nil).PollResonances(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mural.EntityID("e1"), got[0].TargetID)
	assert.True(t, got[0].At.Equal(at))
}

func TestClientStatusMapping(t *testing.T) {
	status := http.StatusNotFound
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, nil)

	_, err := c.FetchEntities(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	status = http.StatusForbidden
	assert.ErrorIs(t, c.Delete(context.Background(), "e1", "alice"), ErrOwnerMismatch)

	status = http.StatusInternalServerError
	err = c.RecordResonance(context.Background(), "e1", "bob")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestClientContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(srv.URL, nil).FetchEntities(ctx)
	assert.Error(t, err)
}

func TestClientTrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entities", r.URL.Path)
		json.NewEncoder(w).Encode([]wireEntity{})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL+"/", nil).FetchEntities(context.Background())
	assert.NoError(t, err)
}
