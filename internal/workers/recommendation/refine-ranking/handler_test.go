// internal/workers/recommendation/refine-ranking/handler_test.go
package refineranking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autotrader-workers/internal/common/genai"
	"autotrader-workers/internal/common/logger"
	"autotrader-workers/internal/models"
	"autotrader-workers/pkg/registry"
)

type stubChat struct {
	reply string
	err   error
	calls int
	last  []genai.ChatMessage
}

func (s *stubChat) ChatCompletion(ctx context.Context, messages []genai.ChatMessage) (string, error) {
	s.calls++
	s.last = messages
	return s.reply, s.err
}

func newRerankHandler(t *testing.T, chat ChatClient) *Handler {
	t.Helper()
	return NewHandler(LoadConfig(), chat, registry.Defaults(), logger.NewTestLogger(t))
}

func rankedHit(id string, score float64, reasons ...string) models.CandidateHit {
	return models.CandidateHit{
		ID:         id,
		Similarity: 0.5,
		FinalScore: score,
		Reasons:    reasons,
		Payload: models.CandidatePayload{
			Year: 2023, Make: "Toyota", Model: "Camry", Trim: "LE", Color: "white", Price: 28000,
		},
	}
}

func TestExecute_ReordersAndRelabels(t *testing.T) {
	chat := &stubChat{reply: `[{"id":"c","reason":"best fit for commute"},{"id":"a","reason":"solid second"}]`}
	h := newRerankHandler(t, chat)

	out := h.Execute(context.Background(), &Input{
		Strategy: "default",
		RankedCandidates: []models.CandidateHit{
			rankedHit("a", 0.9, "EngineType match: hybrid"),
			rankedHit("b", 0.8, "BodyType match: SUV"),
			rankedHit("c", 0.7),
		},
	})

	require.Len(t, out.RankedCandidates, 3)
	assert.True(t, out.RerankApplied)
	assert.Equal(t, "c", out.RankedCandidates[0].ID)
	assert.Equal(t, []string{"best fit for commute"}, out.RankedCandidates[0].Reasons)
	assert.Equal(t, "a", out.RankedCandidates[1].ID)
	// Omitted candidates keep their place at the tail with their own reasons.
	assert.Equal(t, "b", out.RankedCandidates[2].ID)
	assert.Equal(t, []string{"BodyType match: SUV"}, out.RankedCandidates[2].Reasons)
}

func TestExecute_StripsCodeFences(t *testing.T) {
	chat := &stubChat{reply: "```json\n[{\"id\":\"b\",\"reason\":\"r\"}]\n```"}
	h := newRerankHandler(t, chat)

	out := h.Execute(context.Background(), &Input{
		RankedCandidates: []models.CandidateHit{rankedHit("a", 0.9), rankedHit("b", 0.8)},
	})

	assert.True(t, out.RerankApplied)
	assert.Equal(t, "b", out.RankedCandidates[0].ID)
}

func TestExecute_UnparsableReplyKeepsOriginalOrder(t *testing.T) {
	chat := &stubChat{reply: "I think the second car looks nice."}
	h := newRerankHandler(t, chat)

	in := &Input{RankedCandidates: []models.CandidateHit{
		rankedHit("a", 0.9, "first"),
		rankedHit("b", 0.8, "second"),
	}}
	out := h.Execute(context.Background(), in)

	assert.False(t, out.RerankApplied)
	assert.Equal(t, in.RankedCandidates, out.RankedCandidates)
}

func TestExecute_ChatErrorKeepsOriginalOrder(t *testing.T) {
	chat := &stubChat{err: errors.New("upstream down")}
	h := newRerankHandler(t, chat)

	in := &Input{RankedCandidates: []models.CandidateHit{rankedHit("a", 0.9), rankedHit("b", 0.8)}}
	out := h.Execute(context.Background(), in)

	assert.False(t, out.RerankApplied)
	assert.Equal(t, []string{"a", "b"}, []string{out.RankedCandidates[0].ID, out.RankedCandidates[1].ID})
}

func TestExecute_InventedAndDuplicateIdsAreSkipped(t *testing.T) {
	chat := &stubChat{reply: `[{"id":"ghost","reason":"x"},{"id":"b","reason":"r1"},{"id":"b","reason":"r2"}]`}
	h := newRerankHandler(t, chat)

	out := h.Execute(context.Background(), &Input{
		RankedCandidates: []models.CandidateHit{rankedHit("a", 0.9), rankedHit("b", 0.8)},
	})

	require.Len(t, out.RankedCandidates, 2)
	assert.Equal(t, "b", out.RankedCandidates[0].ID)
	assert.Equal(t, []string{"r1"}, out.RankedCandidates[0].Reasons)
	assert.Equal(t, "a", out.RankedCandidates[1].ID)
}

func TestExecute_EmptyCandidatesSkipsChatCall(t *testing.T) {
	chat := &stubChat{reply: `[]`}
	h := newRerankHandler(t, chat)

	out := h.Execute(context.Background(), &Input{})

	assert.Empty(t, out.RankedCandidates)
	assert.Zero(t, chat.calls)
}

func TestExecute_PromptCarriesCandidatesAndStrategy(t *testing.T) {
	chat := &stubChat{reply: `[{"id":"a","reason":"r"}]`}
	h := newRerankHandler(t, chat)

	h.Execute(context.Background(), &Input{
		Strategy:         "loyalty",
		RankedCandidates: []models.CandidateHit{rankedHit("a", 0.9)},
	})

	require.Len(t, chat.last, 2)
	prompt := chat.last[1].Content
	assert.Contains(t, prompt, "loyalty")
	assert.Contains(t, prompt, "2023 Toyota Camry LE (white) - $28000")
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n[1]\n```": "[1]",
		"```\n[1]\n```":     "[1]",
		"  [1]  ":           "[1]",
		"[1]":               "[1]",
	}
	for in, want := range cases {
		assert.Equal(t, want, stripCodeFences(in), "input %q", in)
	}
}
