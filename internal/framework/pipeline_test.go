package framework

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropwatch/pkg/lmstfyx"
)

type nopLogger struct{}

func (nopLogger) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Infof(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}

// fakeSource 内存消息源
type fakeSource struct {
	mu      sync.Mutex
	pending []*Message
	acked   []string
	errs    int // 前 errs 次 Consume 返回错误
}

func (s *fakeSource) Consume(queue string, timeout time.Duration, ttr time.Duration) (*Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errs > 0 {
		s.errs--
		return nil, errors.New("connection reset")
	}
	if len(s.pending) == 0 {
		return nil, nil
	}
	msg := s.pending[0]
	s.pending = s.pending[1:]
	return msg, nil
}

func (s *fakeSource) Ack(queue string, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acked = append(s.acked, jobID)
	return nil
}

func (s *fakeSource) ackedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.acked...)
}

func (s *fakeSource) remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func TestProcessor_ReportsByAction(t *testing.T) {
	source := &fakeSource{}
	actions := map[string]*lmstfyx.JobResp{
		"ok":      {Action: lmstfyx.JobRespStatusSuccess},
		"retry":   {Action: lmstfyx.JobRespStatusRelease},
		"bad":     {Action: lmstfyx.JobRespStatusBury},
		"nilresp": nil,
	}
	proc := func(ctx context.Context, job *client.Job) *lmstfyx.JobResp {
		return actions[job.ID]
	}

	p := NewProcessor(&ProcessorConfig{Concurrency: 2, BufferSize: 4, Timeout: time.Second}, proc, source, nopLogger{})
	in := make(chan *Message, 4)
	for _, id := range []string{"ok", "retry", "bad", "nilresp"} {
		in <- &Message{ID: id, Queue: "q"}
	}

	require.NoError(t, p.Start(context.Background(), in))
	p.SignalShutdown()
	p.Wait()

	assert.ElementsMatch(t, []string{"ok", "bad", "nilresp"}, source.ackedIDs())
}

func TestProcessor_AppliesTimeout(t *testing.T) {
	source := &fakeSource{}
	var deadlineSet bool
	proc := func(ctx context.Context, job *client.Job) *lmstfyx.JobResp {
		_, deadlineSet = ctx.Deadline()
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess}
	}

	p := NewProcessor(&ProcessorConfig{Concurrency: 1, Timeout: 50 * time.Millisecond}, proc, source, nopLogger{})
	in := make(chan *Message, 1)
	in <- &Message{ID: "1", Queue: "q"}
	require.NoError(t, p.Start(context.Background(), in))
	p.SignalShutdown()
	p.Wait()

	assert.True(t, deadlineSet)
}

func TestSubscriber_ForwardsAndSurvivesErrors(t *testing.T) {
	source := &fakeSource{
		errs:    2,
		pending: []*Message{{ID: "a"}, {ID: "b"}, {ID: "c"}},
	}
	sub := NewSubscriber(&SubscriberConfig{
		QueueName:    "analysis",
		Concurrency:  1,
		Rate:         time.Millisecond,
		ErrorBackoff: time.Millisecond,
	}, source, nopLogger{})

	out := make(chan *Message, 3)
	require.NoError(t, sub.Start(context.Background(), out))

	got := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		select {
		case msg := <-out:
			got = append(got, msg.ID)
		case <-time.After(2 * time.Second):
			t.Fatal("subscriber did not forward messages")
		}
	}
	sub.Stop()
	sub.Wait()

	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Zero(t, source.remaining())
}

func TestPreProcessor_StopsOnError(t *testing.T) {
	calls := 0
	chain := NewPreProcessor([]ProcessorFunc{
		func(ctx context.Context) error { calls++; return nil },
		func(ctx context.Context) error { calls++; return errors.New("invalid") },
		func(ctx context.Context) error { calls++; return nil },
	})

	err := chain.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "processor[1] failed")
	assert.Equal(t, 2, calls)
}

func TestBaseHandler_ParseJob(t *testing.T) {
	raw := []byte(`{"payload":{"data":{"request_id":"r1","org_id":"0","action_type":"plot_analyze","id":"3","data":{"plot_id":"3"}}}}`)

	b := &BaseHandler{}
	require.NoError(t, b.ParseJob(context.Background(), raw))
	assert.Equal(t, &JobMeta{RequestID: "r1", OrgID: "0", ActionType: "plot_analyze", ID: "3"}, b.GetMeta())
	assert.JSONEq(t, `{"plot_id":"3"}`, string(b.GetBizPayload()))
	assert.Equal(t, raw, b.GetRawData())

	var dst struct {
		PlotID string `json:"plot_id"`
	}
	require.NoError(t, b.DecodePayload(&dst))
	assert.Equal(t, "3", dst.PlotID)

	b.SetOutput(42)
	assert.Equal(t, 42, b.GetOutput())
}

func TestBaseHandler_ParseJobErrors(t *testing.T) {
	tests := map[string]string{
		"not json":       `{`,
		"no payload":     `{}`,
		"no data":        `{"payload":{}}`,
		"no action type": `{"payload":{"data":{"request_id":"r"}}}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, (&BaseHandler{}).ParseJob(context.Background(), []byte(raw)))
		})
	}

	b := &BaseHandler{}
	require.NoError(t, b.ParseJob(context.Background(), []byte(`{"payload":{"data":{"action_type":"x","data":null}}}`)))
	assert.Error(t, b.DecodePayload(&struct{}{}))
}
