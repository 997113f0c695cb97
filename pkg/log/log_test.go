package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccoe-dev/pexp/pkg/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    slog.Level
		wantErr error
	}{
		"error":            {input: "error", want: slog.LevelError},
		"warn":             {input: "warn", want: slog.LevelWarn},
		"warning alias":    {input: "warning", want: slog.LevelWarn},
		"info":             {input: "info", want: slog.LevelInfo},
		"debug":            {input: "debug", want: slog.LevelDebug},
		"case insensitive": {input: "INFO", want: slog.LevelInfo},
		"unknown":          {input: "trace", wantErr: log.ErrUnknownLogLevel},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetLevel(tc.input)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetFormat(t *testing.T) {
	t.Parallel()

	got, err := log.GetFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, log.FormatJSON, got)

	_, err = log.GetFormat("xml")
	require.ErrorIs(t, err, log.ErrUnknownLogFormat)
}

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	h, err := log.CreateHandlerWithStrings(&buf, "info", "json")
	require.NoError(t, err)
	require.NotNil(t, h)

	logger := slog.New(h)
	logger.Info("hello", slog.String("key", "value"))

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"key":"value"`)

	_, err = log.CreateHandlerWithStrings(&buf, "nope", "json")
	require.ErrorIs(t, err, log.ErrInvalidArgument)

	_, err = log.CreateHandlerWithStrings(&buf, "info", "nope")
	require.ErrorIs(t, err, log.ErrInvalidArgument)
}

func TestWithContext_Fallback(t *testing.T) {
	t.Parallel()

	logger := log.WithContext(context.Background())
	assert.NotNil(t, logger)
}
