package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	slogctx "github.com/veqryn/slog-context"
)

func TestSetup_Levels(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	ctx := Setup(context.Background(), &buf, Options{})
	slogctx.Debug(ctx, "hidden")
	slogctx.Info(ctx, "processing lexicon", "id", "com.example.foo")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "processing lexicon")
	assert.Contains(t, out, "id=com.example.foo")
	assert.NotContains(t, out, "\x1b[", "no color when not a terminal")

	buf.Reset()
	ctx = Setup(context.Background(), &buf, Options{Verbose: true})
	slogctx.Debug(ctx, "dropping subscription")
	assert.Contains(t, buf.String(), "dropping subscription")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
