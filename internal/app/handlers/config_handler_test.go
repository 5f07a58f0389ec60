package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relaylb/relay/internal/core/domain"
)

func TestConfigHandler_UpdatesAlgorithmAndCacheProbability(t *testing.T) {
	state := domain.NewRouterState(domain.PolicyRoundRobin, 0)
	h := NewConfigHandler(state, nil)

	body := bytes.NewBufferString(`{"algorithm":"p2c","cache_probability":40}`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/config", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PolicyP2C, state.Policy())
	assert.InDelta(t, 0.4, state.CacheProbability(), 0.0001)
}

func TestConfigHandler_NoOpWhenFieldsOmitted(t *testing.T) {
	state := domain.NewRouterState(domain.PolicyAdaptive, 0.1)
	h := NewConfigHandler(state, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/config", bytes.NewBufferString(`{}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PolicyAdaptive, state.Policy())
	assert.InDelta(t, 0.1, state.CacheProbability(), 0.0001)
}

func TestConfigHandler_IgnoresUnknownAlgorithm(t *testing.T) {
	state := domain.NewRouterState(domain.PolicyRoundRobin, 0)
	h := NewConfigHandler(state, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/config", bytes.NewBufferString(`{"algorithm":"not_a_policy"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PolicyRoundRobin, state.Policy())
}
