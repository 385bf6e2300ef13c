package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
	"github.com/ducminhle1904/combo-optimizer/pkg/catalog"
	"github.com/ducminhle1904/combo-optimizer/pkg/config"
)

func TestSum(t *testing.T) {
	f, err := Sum()([]int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 6.0, f)
}

func TestWeighted(t *testing.T) {
	fn, err := Weighted([][]float64{{0.5, 1.5}, {2, 0, -1}})
	require.NoError(t, err)

	f, err := fn([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	_, err = fn([]int{1})
	assert.Error(t, err)
	_, err = fn([]int{2, 0})
	assert.Error(t, err)

	_, err = Weighted(nil)
	assert.Error(t, err)
	_, err = Weighted([][]float64{{1}, {}})
	assert.Error(t, err)
}

func TestTarget(t *testing.T) {
	fn, err := Target([]int{1, 0, 2})
	require.NoError(t, err)

	f, err := fn([]int{1, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	f, err = fn([]int{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, f)

	_, err = fn([]int{1})
	assert.Error(t, err)
}

func scoringServer(t *testing.T, handler func(req evaluationRequest) (int, interface{})) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req evaluationRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		status, body := handler(req)
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPEvaluator(t *testing.T) {
	srv := scoringServer(t, func(req evaluationRequest) (int, interface{}) {
		total := 0
		for _, g := range req.Genes {
			total += g
		}
		return http.StatusOK, map[string]interface{}{"fitness": float64(total) * 1.5}
	})

	e := NewHTTPEvaluator(srv.URL, time.Second)
	assert.Equal(t, srv.URL, e.URL())
	f, err := e.Evaluate(context.Background(), []int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, 6.0, f)

	f, err = e.FitnessFunc(context.Background())([]int{2})
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)
}

func TestHTTPEvaluator_SendsLabels(t *testing.T) {
	var received []string
	srv := scoringServer(t, func(req evaluationRequest) (int, interface{}) {
		received = req.Labels
		return http.StatusOK, map[string]interface{}{"fitness": 1}
	})

	cat, err := catalog.New([]catalog.Category{
		{Name: "main", Options: []string{"burger", "pasta"}},
		{Name: "drink", Options: []string{"water", "tea"}},
	})
	require.NoError(t, err)

	_, err = NewHTTPEvaluator(srv.URL, time.Second).WithCatalog(cat).Evaluate(context.Background(), []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"pasta", "water"}, received)
}

func TestHTTPEvaluator_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   interface{}
	}{
		{"server error", http.StatusInternalServerError, map[string]string{"error": "down"}},
		{"missing fitness", http.StatusOK, map[string]string{}},
		{"evaluator error", http.StatusOK, map[string]string{"error": "invalid combination"}},
		{"malformed body", http.StatusOK, "not an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := scoringServer(t, func(evaluationRequest) (int, interface{}) {
				return tt.status, tt.body
			})
			_, err := NewHTTPEvaluator(srv.URL, time.Second).Evaluate(context.Background(), []int{0})
			assert.Error(t, err)
		})
	}
}

func TestHTTPEvaluator_ContextCancelled(t *testing.T) {
	srv := scoringServer(t, func(evaluationRequest) (int, interface{}) {
		return http.StatusOK, map[string]float64{"fitness": 1}
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTPEvaluator(srv.URL, time.Second).Evaluate(ctx, []int{0})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	fn, err := New(ctx, config.EvaluatorConfig{Type: "sum"}, nil)
	require.NoError(t, err)
	f, _ := fn([]int{2, 2})
	assert.Equal(t, 4.0, f)

	fn, err = New(ctx, config.EvaluatorConfig{Type: "target", Target: []int{1, 1}}, nil)
	require.NoError(t, err)
	f, _ = fn([]int{1, 0})
	assert.Equal(t, 1.0, f)

	_, err = New(ctx, config.EvaluatorConfig{Type: "weighted"}, nil)
	assert.True(t, errors.Is(err, gaerrors.ErrConfiguration))

	_, err = New(ctx, config.EvaluatorConfig{Type: "http"}, nil)
	assert.True(t, errors.Is(err, gaerrors.ErrConfiguration))

	_, err = New(ctx, config.EvaluatorConfig{Type: "oracle"}, nil)
	assert.True(t, errors.Is(err, gaerrors.ErrConfiguration))

	fn, err = New(ctx, config.EvaluatorConfig{Type: "http", URL: "http://127.0.0.1:0"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, fn)
}
