package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

func TestAnalyzeSuccess(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)

		var req analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "resume body", req.ResumeText)
		assert.Equal(t, "consulting", req.Context.Goal)

		_ = json.NewEncoder(w).Encode(domain.AnalyzeResult{Band: domain.BandStrong, Overall: 8.1})
	}))
	defer srv.Close()

	a := New(srv.URL, time.Second, 2*time.Second)
	res, err := a.Analyze(context.Background(), "resume body", domain.AnalyzeContext{Goal: "consulting"})
	require.NoError(t, err)
	assert.Equal(t, domain.BandStrong, res.Band)
	assert.InDelta(t, 8.1, res.Overall, 1e-9)
}

func TestAnalyzeRetriesTransientErrors(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.AnalyzeResult{Band: domain.BandCompetitive})
	}))
	defer srv.Close()

	a := New(srv.URL, time.Second, 10*time.Second)
	res, err := a.Analyze(context.Background(), "x", domain.AnalyzeContext{})
	require.NoError(t, err)
	assert.Equal(t, domain.BandCompetitive, res.Band)
	assert.GreaterOrEqual(t, hits.Load(), int64(3))
}

func TestAnalyzeClientErrorIsPermanent(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	a := New(srv.URL, time.Second, 10*time.Second)
	_, err := a.Analyze(context.Background(), "x", domain.AnalyzeContext{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, int64(1), hits.Load(), "4xx must not be retried")
}

func TestAnalyzeGivesUpAfterBudget(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := New(srv.URL, time.Second, 100*time.Millisecond)
	_, err := a.Analyze(context.Background(), "x", domain.AnalyzeContext{})
	assert.Error(t, err)
}
