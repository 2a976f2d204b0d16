package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewSecurityLogger_NilUsesDefault(t *testing.T) {
	logger := NewSecurityLogger(nil)
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.GetLogger())
}

func TestSecurityLogger_AuthFailure_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSecurityLoggerWithHandler(slog.NewJSONHandler(&buf, nil))

	logger.AuthFailure("192.168.1.1", "/api/posts", "missing_token")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "auth_failure", entry["event_type"])
	assert.Equal(t, "192.168.1.1", entry["ip"])
	assert.Equal(t, "/api/posts", entry["path"])
	assert.Equal(t, "missing_token", entry["reason"])
	assert.Contains(t, entry, "timestamp")
}

func TestSecurityLogger_LoginFailure_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSecurityLoggerWithHandler(slog.NewJSONHandler(&buf, nil))

	logger.LoginFailure("10.0.0.1", "password_mismatch")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "login_failure", entry["event_type"])
	assert.Equal(t, "password_mismatch", entry["reason"])
}

func TestSecurityLogger_RateLimitExceeded_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSecurityLoggerWithHandler(slog.NewJSONHandler(&buf, nil))

	logger.RateLimitExceeded("192.168.1.1", "/api/posts")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "rate_limit", entry["event_type"])
	assert.Equal(t, "/api/posts", entry["path"])
}

func TestSecurityLogger_InvalidOrigin_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSecurityLoggerWithHandler(slog.NewJSONHandler(&buf, nil))

	logger.InvalidOrigin("192.168.1.1", "http://evil.example")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "invalid_origin", entry["event_type"])
	assert.Equal(t, "http://evil.example", entry["origin"])
}

func TestSecurityLogger_SecurityEvent_FiltersSensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSecurityLoggerWithHandler(slog.NewJSONHandler(&buf, nil))

	logger.SecurityEvent("custom", "192.168.1.1", map[string]string{
		"path":          "/api/posts",
		"token":         "eyJhbGciOi...",
		"authorization": "Bearer abc",
		"password":      "hunter2",
	})

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "/api/posts", entry["path"])
	assert.NotContains(t, entry, "token")
	assert.NotContains(t, entry, "authorization")
	assert.NotContains(t, entry, "password")
	assert.NotContains(t, buf.String(), "hunter2")
}
