package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropwatch/common/model"
	"cropwatch/internal/app/pkg/logger"
	"cropwatch/internal/framework"
	corelog "cropwatch/pkg/logger"
)

type queueSource struct {
	mu      sync.Mutex
	pending []*framework.Message
	acked   []string
	err     error
}

func (s *queueSource) Consume(queue string, timeout time.Duration, ttr time.Duration) (*framework.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		err := s.err
		s.err = nil
		return nil, err
	}
	if len(s.pending) == 0 {
		return nil, nil
	}
	msg := s.pending[0]
	s.pending = s.pending[1:]
	return msg, nil
}

func (s *queueSource) Ack(queue string, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acked = append(s.acked, jobID)
	return nil
}

func (s *queueSource) ackedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.acked...)
}

type recordingHandler struct {
	mu       sync.Mutex
	seen     []*model.PlotAnalysisCallback
	traceIDs []string
	failOn   string
}

func (h *recordingHandler) HandleCallback(ctx context.Context, callback *model.PlotAnalysisCallback) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, callback)
	h.traceIDs = append(h.traceIDs, corelog.TraceID(ctx))
	if callback.RequestID == h.failOn {
		return errors.New("database unavailable")
	}
	return nil
}

func newConsumer(source *queueSource, handler *recordingHandler) *CallbackConsumer {
	return NewCallbackConsumer(source, handler, &Config{
		QueueName:    "analysis_callback",
		Timeout:      time.Second,
		TTR:          30 * time.Second,
		PollInterval: time.Millisecond,
	}, logger.NewNop())
}

func TestCallbackConsumer_AcksHandledAndMalformed(t *testing.T) {
	source := &queueSource{pending: []*framework.Message{
		{ID: "j1", Data: []byte(`{"request_id":"r1","action_type":"plot_analyze","plot_id":"3","status":"SUCCESS"}`)},
		{ID: "j2", Data: []byte(`{not json`)},
		{ID: "j3", Data: []byte(`{"status":"SUCCESS"}`)},
		{ID: "j4", Data: []byte(`{"request_id":"r4","status":"FAILED","error":"boom"}`)},
		{ID: "j5", Data: []byte(`{"request_id":"r5","status":"SUCCESS"}`)},
	}}
	handler := &recordingHandler{failOn: "r5"}
	c := newConsumer(source, handler)

	ctx := context.Background()
	require.NoError(t, c.consumeOne(ctx))
	assert.Error(t, c.consumeOne(ctx))
	assert.Error(t, c.consumeOne(ctx))
	require.NoError(t, c.consumeOne(ctx))
	assert.Error(t, c.consumeOne(ctx), "handler failure is reported")
	require.NoError(t, c.consumeOne(ctx), "empty queue")

	// j5 处理失败不 ACK
	assert.Equal(t, []string{"j1", "j2", "j3", "j4"}, source.ackedIDs())
	require.Len(t, handler.seen, 3)
	assert.Equal(t, "3", handler.seen[0].PlotID)
	assert.Equal(t, "boom", handler.seen[1].Error)
	assert.Equal(t, []string{"r1", "r4", "r5"}, handler.traceIDs)
}

func TestCallbackConsumer_StartStopsOnCancel(t *testing.T) {
	source := &queueSource{
		err: errors.New("connection refused"),
		pending: []*framework.Message{
			{ID: "j1", Data: []byte(`{"request_id":"r1","status":"SUCCESS"}`)},
		},
	}
	c := newConsumer(source, &recordingHandler{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	require.Eventually(t, func() bool { return len(source.ackedIDs()) == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
