package advice

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klye32/fit-coach/internal/logbook"
	"github.com/klye32/fit-coach/internal/workouts"
)

type historyRepoStub struct {
	entries []logbook.HistoryEntry
	err     error
}

func (s *historyRepoStub) Recent(_ context.Context, _ int) ([]logbook.HistoryEntry, error) {
	return s.entries, s.err
}

type clientStub struct {
	configured bool
	response   string
	err        error

	gotSystemMsg string
	gotUserMsg   string
	called       bool
}

func (s *clientStub) Configured() bool {
	return s.configured
}

func (s *clientStub) ChatCompletion(_ context.Context, systemMsg, userMsg string) (string, error) {
	s.called = true
	s.gotSystemMsg = systemMsg
	s.gotUserMsg = userMsg
	return s.response, s.err
}

func strengthEntry(date string, setsJSON string) logbook.HistoryEntry {
	return logbook.HistoryEntry{
		Date: date,
		Name: "Squat",
		Type: workouts.TypeStrength,
		Data: json.RawMessage(`{"sets_completed": ` + setsJSON + `}`),
	}
}

func TestComposer_Recommend(t *testing.T) {
	// repo returns newest first, prompt must read oldest first
	history := &historyRepoStub{entries: []logbook.HistoryEntry{
		{
			Date: "2026-08-26",
			Name: "Easy Run",
			Type: workouts.TypeCardio,
			Data: json.RawMessage(`{"distance": 5, "duration": 30}`),
		},
		strengthEntry("2026-08-24", `[{"reps": 5, "weight": 100}, {"reps": 5, "weight": 102.5}]`),
	}}
	client := &clientStub{configured: true, response: "Add 2.5kg to your squat."}

	recommendation, err := NewComposer(history, client).Recommend(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Add 2.5kg to your squat.", recommendation)

	require.True(t, client.called)
	assert.Equal(t, systemPrompt, client.gotSystemMsg)
	assert.Equal(t,
		"Here is my recent workout history:\n"+
			"On 2026-08-24 you performed Squat with sets: 5 reps @ 100kg, 5 reps @ 102.5kg.\n"+
			"On 2026-08-26 you ran 5 km in 30 minutes for the workout Easy Run.\n"+
			"Based on this, please recommend whether I should increase the weight "+
			"or intensity for each exercise, and provide suggestions for progression "+
			"in both strength and running workouts.",
		client.gotUserMsg)
}

func TestComposer_Recommend_cardioWithMissingFields(t *testing.T) {
	history := &historyRepoStub{entries: []logbook.HistoryEntry{
		{
			Date: "2026-08-26",
			Name: "Easy Run",
			Type: workouts.TypeCardio,
			Data: json.RawMessage(`{}`),
		},
	}}
	client := &clientStub{configured: true, response: "Keep it up."}

	_, err := NewComposer(history, client).Recommend(context.Background())
	require.NoError(t, err)
	assert.Contains(t, client.gotUserMsg, "On 2026-08-26 you ran ? km in ? minutes for the workout Easy Run.")
}

func TestComposer_Recommend_malformedDataRendersNoSets(t *testing.T) {
	history := &historyRepoStub{entries: []logbook.HistoryEntry{
		{
			Date: "2026-08-24",
			Name: "Squat",
			Type: workouts.TypeStrength,
			Data: json.RawMessage(`not json`),
		},
	}}
	client := &clientStub{configured: true, response: "ok"}

	_, err := NewComposer(history, client).Recommend(context.Background())
	require.NoError(t, err)
	assert.Contains(t, client.gotUserMsg, "On 2026-08-24 you performed Squat with sets: .")
}

func TestComposer_Recommend_noAPIKey(t *testing.T) {
	history := &historyRepoStub{entries: []logbook.HistoryEntry{
		strengthEntry("2026-08-24", `[]`),
	}}
	client := &clientStub{configured: false}

	recommendation, err := NewComposer(history, client).Recommend(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoAPIKeyMessage, recommendation)
	assert.False(t, client.called)
}

func TestComposer_Recommend_providerError(t *testing.T) {
	history := &historyRepoStub{entries: []logbook.HistoryEntry{
		strengthEntry("2026-08-24", `[]`),
	}}
	client := &clientStub{configured: true, err: errors.New("rate limited")}

	recommendation, err := NewComposer(history, client).Recommend(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Error requesting recommendation: rate limited", recommendation)
}

func TestComposer_Recommend_emptyCompletion(t *testing.T) {
	history := &historyRepoStub{entries: []logbook.HistoryEntry{
		strengthEntry("2026-08-24", `[]`),
	}}
	client := &clientStub{configured: true, response: ""}

	recommendation, err := NewComposer(history, client).Recommend(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoRecommendationMessage, recommendation)
}

func TestComposer_Recommend_historyError(t *testing.T) {
	history := &historyRepoStub{err: errors.New("db locked")}
	client := &clientStub{configured: true}

	_, err := NewComposer(history, client).Recommend(context.Background())
	require.Error(t, err)
	assert.False(t, client.called)
}
