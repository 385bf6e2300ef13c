package notifications

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

func TestTelegramNotifier_SendAlert(t *testing.T) {
	var got struct {
		path, chatID, text, mode string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got.path = r.URL.Path
		got.chatID = r.PostForm.Get("chat_id")
		got.text = r.PostForm.Get("text")
		got.mode = r.PostForm.Get("parse_mode")
	}))
	defer srv.Close()

	n := NewTelegramNotifier("abc", "42").WithAPIBase(srv.URL + "/")
	require.NoError(t, n.SendAlert(LevelError, "boom"))

	assert.Equal(t, "/botabc/sendMessage", got.path)
	assert.Equal(t, "42", got.chatID)
	assert.Equal(t, "Markdown", got.mode)
	assert.Contains(t, got.text, "🚨")
	assert.Contains(t, got.text, "boom")
}

func TestTelegramNotifier_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewTelegramNotifier("bad", "1").WithAPIBase(srv.URL).SendAlert(LevelInfo, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestFromEnv(t *testing.T) {
	env := func(values map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) {
			v, ok := values[k]
			return v, ok
		}
	}

	assert.Nil(t, FromEnv(env(nil)))
	assert.Nil(t, FromEnv(env(map[string]string{EnvTelegramToken: "t"})))
	assert.NotNil(t, FromEnv(env(map[string]string{EnvTelegramToken: "t", EnvTelegramChatID: "c"})))
}

func TestRunAlert(t *testing.T) {
	level, msg := RunAlert("demo", "id-1", nil, errors.New("evaluator down"))
	assert.Equal(t, LevelError, level)
	assert.Contains(t, msg, "evaluator down")

	best := 12.5
	result := &optimization.Result{
		BestCombination:      []int{1, 0, 2},
		BestFitness:          &best,
		GenerationsCompleted: 7,
		Converged:            true,
	}
	level, msg = RunAlert("demo", "id-1", result, nil)
	assert.Equal(t, LevelSuccess, level)
	assert.Contains(t, msg, "converged")
	assert.Contains(t, msg, "Generations: 7")
	assert.Contains(t, msg, "12.500000")
	assert.Contains(t, msg, "[1 0 2]")

	result.Converged = false
	level, _ = RunAlert("demo", "id-1", result, nil)
	assert.Equal(t, LevelInfo, level)
}
