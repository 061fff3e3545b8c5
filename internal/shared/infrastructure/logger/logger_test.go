package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New("debug", "json", &buf)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithField("key", "images/a.txt").Info("uploaded")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "uploaded", line["msg"])
	assert.Equal(t, "images/a.txt", line["key"])

	l = New("nonsense", "text", &buf)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	_, isText := l.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	entry := New("info", "text", &buf).WithField("request_id", "abc")

	ctx := WithContext(context.Background(), entry)
	assert.Same(t, entry, FromContext(ctx))

	fallback := FromContext(context.Background())
	require.NotNil(t, fallback)
	assert.Same(t, logrus.StandardLogger(), fallback.Logger)
}
