package pipeline

import (
	"context"
	"testing"

	"agentcal/internal/usercontext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDispatcherHasNoopTelemetryDefaults(t *testing.T) {
	d := New(nil, "http://tasks.example", "http://calendar.example")
	require.NotNil(t, d.Tracer)
	require.NotNil(t, d.Logger)
	require.NotNil(t, d.Metrics)
	assert.Equal(t, "http://tasks.example", d.TaskBaseURL)
	assert.Equal(t, "http://calendar.example", d.CalendarBaseURL)
}

func TestDispatchUnknownCapability(t *testing.T) {
	d := New(nil, "", "")
	call := &Call{
		Query:     "do something",
		Context:   &usercontext.Context{},
		RequestID: "req-1",
	}

	_, err := d.Dispatch(context.Background(), "not_a_real_capability", call)
	require.Error(t, err)

	var pipelineErr *Error
	require.True(t, As(err, &pipelineErr))
	assert.Equal(t, ErrorKindValidation, pipelineErr.Kind)
}
