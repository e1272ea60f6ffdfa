package narrative

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/prompt"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/circuitbreaker"
)

// fakeChatModel implements model.BaseChatModel for testing
type fakeChatModel struct {
	Response *schema.Message
	Err      error
	Block    bool

	calls    int
	lastMsgs []*schema.Message
	lastOpts *model.Options
}

func (m *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.calls++
	m.lastMsgs = input
	m.lastOpts = model.GetCommonOptions(nil, opts...)
	if m.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func reply(text string) *schema.Message {
	return &schema.Message{Role: schema.Assistant, Content: text}
}

func newGateway(m model.BaseChatModel) *Gateway {
	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	return NewGateway(m, cfg, zap.NewNop())
}

func TestGenerateSuccess(t *testing.T) {
	fake := &fakeChatModel{Response: reply("  You can do it!  ")}
	g := newGateway(fake)
	req := prompt.NewBuilder().Celebration("Write report", 3)

	res := g.Generate(context.Background(), req, "fallback")
	assert.Equal(t, "You can do it!", res.Text)
	assert.Equal(t, SourceGenerated, res.Source)
	assert.False(t, res.IsFallback())

	require.Len(t, fake.lastMsgs, 2)
	assert.Equal(t, schema.System, fake.lastMsgs[0].Role)
	assert.Equal(t, req.SystemRole, fake.lastMsgs[0].Content)
	assert.Equal(t, schema.User, fake.lastMsgs[1].Role)
	assert.Equal(t, req.UserPrompt, fake.lastMsgs[1].Content)
	require.NotNil(t, fake.lastOpts.MaxTokens)
	assert.Equal(t, 100, *fake.lastOpts.MaxTokens)
	require.NotNil(t, fake.lastOpts.Temperature)
	assert.Equal(t, float32(0.9), *fake.lastOpts.Temperature)
}

func TestGenerateFallbacks(t *testing.T) {
	req := prompt.NewBuilder().Digest(prompt.DigestContext{})
	tests := []struct {
		name   string
		model  model.BaseChatModel
		reason string
	}{
		{"disabled", nil, ReasonDisabled},
		{"error", &fakeChatModel{Err: errors.New("status 429: quota exceeded")}, "quota"},
		{"empty", &fakeChatModel{Response: reply("   ")}, ReasonMalformed},
		{"nil message", &fakeChatModel{}, ReasonMalformed},
		{"timeout", &fakeChatModel{Block: true}, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m model.BaseChatModel
			if tt.model != nil {
				m = tt.model
			}
			res := newGateway(m).Generate(context.Background(), req, "the fallback")
			assert.Equal(t, "the fallback", res.Text)
			assert.True(t, res.IsFallback())
			assert.Equal(t, tt.reason, res.Reason)
		})
	}
}

func TestBreakerOpensAndSkipsGenerator(t *testing.T) {
	fake := &fakeChatModel{Err: errors.New("boom")}
	g := newGateway(fake)
	req := prompt.NewBuilder().Mood("hi")

	assert.Equal(t, "closed", g.Status())
	for i := 0; i < 3; i++ {
		g.Generate(context.Background(), req, "x")
	}
	assert.Equal(t, circuitbreaker.StateOpen, g.BreakerState())
	assert.Equal(t, "open", g.Status())

	res := g.Generate(context.Background(), req, "x")
	assert.Equal(t, "circuit_open", res.Reason)
	assert.Equal(t, 3, fake.calls)
}

func TestStatusWithoutGenerator(t *testing.T) {
	g := newGateway(nil)
	assert.False(t, g.Enabled())
	assert.Equal(t, ReasonDisabled, g.Status())
}

func TestClassifyMood(t *testing.T) {
	req := prompt.NewBuilder().Mood("great day")
	cases := []struct {
		model model.BaseChatModel
		want  string
	}{
		{&fakeChatModel{Response: reply("Positive\n")}, "positive"},
		{&fakeChatModel{Response: reply("negative")}, "negative"},
		{&fakeChatModel{Response: reply("ecstatic")}, "neutral"},
		{&fakeChatModel{Err: errors.New("down")}, "neutral"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, newGateway(c.model).ClassifyMood(context.Background(), req))
	}
	assert.Equal(t, "neutral", newGateway(nil).ClassifyMood(context.Background(), req))
}
