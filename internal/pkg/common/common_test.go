package common

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev, prevMode := Logger, LogMode
	Logger = zap.New(core)
	t.Cleanup(func() {
		Logger, LogMode = prev, prevMode
	})
	return logs
}

func TestCustomErrorWrapAndIs(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrPersistFailed.Wrap(cause)

	assert.ErrorIs(t, err, ErrPersistFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrInvalidRecipe)
	assert.Equal(t, "食譜儲存失敗: disk full", err.Error())
	assert.Equal(t, http.StatusInternalServerError, err.Status)

	assert.Equal(t, ErrorResponse{Code: "PERSIST_FAILED", Message: "食譜儲存失敗"}, err.Response(false))
	assert.Equal(t, "disk full", err.Response(true).Details)
}

func TestAsCustomError(t *testing.T) {
	assert.Same(t, ErrRecipeNotFound, AsCustomError(ErrRecipeNotFound))

	wrapped := AsCustomError(errors.New("boom"))
	assert.Equal(t, ErrCodeInternalError, wrapped.Code)
	assert.Equal(t, http.StatusInternalServerError, wrapped.Status)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("recipe name is required")
	assert.True(t, IsValidationError(err))
	assert.True(t, IsValidationError(errors.Join(errors.New("add"), err)))
	assert.False(t, IsValidationError(errors.New("recipe name is required")))
}

func TestToIndentedJSON(t *testing.T) {
	data, err := ToIndentedJSON(map[string]string{"name": "Bœuf <Bourguignon>"})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"Bœuf <Bourguignon>\"\n}\n", string(data))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestLogRedactsSecrets(t *testing.T) {
	logs := observe(t)

	LogInfo("載入設定",
		zap.String("openrouter_api_key", "sk-secret"),
		zap.String("Authorization", "Bearer sk-secret"),
		zap.String("model", "test/model"),
	)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, map[string]interface{}{"model": "test/model"}, fields)
}

func TestConciseModeKeepsSelectedInfo(t *testing.T) {
	logs := observe(t)
	LogMode = "concise"

	LogInfo("快取命中")
	LogInfo("請求完成")
	LogWarn("Redis 無法連線，改用記憶體")

	msgs := make([]string, 0, logs.Len())
	for _, e := range logs.All() {
		msgs = append(msgs, e.Message)
	}
	assert.Equal(t, []string{"請求完成", "Redis 無法連線，改用記憶體"}, msgs)
}

func TestLogAICall(t *testing.T) {
	logs := observe(t)

	LogAICall("answer", 10*time.Millisecond, nil)
	LogAICall("suggest", 20*time.Millisecond, errors.New("timeout"))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
}

func TestGenerateUUID(t *testing.T) {
	a, b := GenerateUUID(), GenerateUUID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
