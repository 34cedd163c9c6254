package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/klye32/fit-coach/internal/logbook"
	"github.com/klye32/fit-coach/internal/telemetry/tracing"
	"github.com/klye32/fit-coach/internal/workouts"
)

const (
	historyLimit = 10

	systemPrompt = "You are a helpful personal training assistant. Your job is to analyse " +
		"workout history and suggest when to increase weight or adjust volume. " +
		"Provide succinct, actionable advice tailored to the user's recent " +
		"performance."

	NoAPIKeyMessage = "OpenAI API key not set. Please set the OPENAI_API_KEY environment" +
		" variable to receive recommendations."

	NoRecommendationMessage = "No recommendation available."
)

type historyRepo interface {
	Recent(ctx context.Context, limit int) ([]logbook.HistoryEntry, error)
}

type completionClient interface {
	Configured() bool
	ChatCompletion(ctx context.Context, systemMsg, userMsg string) (string, error)
}

// Composer turns recent session history into a coaching prompt and
// asks the completion provider for advice.
type Composer struct {
	history historyRepo
	client  completionClient
}

func NewComposer(history historyRepo, client completionClient) *Composer {
	return &Composer{
		history: history,
		client:  client,
	}
}

// Recommend builds the history prompt and fetches a recommendation.
// Provider failures surface as descriptive text rather than an error,
// only a history read failure returns one.
func (c *Composer) Recommend(ctx context.Context) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "advice.composer.recommend")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	history, err := c.history.Recent(ctx, historyLimit)
	if err != nil {
		return "", fmt.Errorf("get recent history: %w", err)
	}

	if !c.client.Configured() {
		return NoAPIKeyMessage, nil
	}

	userMessage := "Here is my recent workout history:\n" + strings.Join(renderHistory(history), "\n") +
		"\nBased on this, please recommend whether I should increase the weight " +
		"or intensity for each exercise, and provide suggestions for progression " +
		"in both strength and running workouts."

	recommendation, err := c.client.ChatCompletion(ctx, systemPrompt, userMessage)
	if err != nil {
		log.Errorf("chat completion: %s", err)
		return fmt.Sprintf("Error requesting recommendation: %s", err), nil
	}

	if recommendation == "" {
		return NoRecommendationMessage, nil
	}

	return recommendation, nil
}

// renderHistory renders one sentence per entry, oldest first. The
// repo returns newest first, so the order gets flipped here.
func renderHistory(history []logbook.HistoryEntry) []string {
	lines := make([]string, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		lines = append(lines, renderEntry(history[i]))
	}
	return lines
}

func renderEntry(entry logbook.HistoryEntry) string {
	switch entry.Type {
	case workouts.TypeStrength:
		var data logbook.StrengthData
		// undecodable payloads render as a session with no sets
		_ = json.Unmarshal(entry.Data, &data)
		setParts := make([]string, 0, len(data.SetsCompleted))
		for _, s := range data.SetsCompleted {
			setParts = append(setParts, fmt.Sprintf("%s reps @ %skg", formatNum(s.Reps), formatNum(s.Weight)))
		}
		return fmt.Sprintf("On %s you performed %s with sets: %s.",
			entry.Date, entry.Name, strings.Join(setParts, ", "))
	case workouts.TypeCardio:
		var data logbook.CardioData
		_ = json.Unmarshal(entry.Data, &data)
		return fmt.Sprintf("On %s you ran %s km in %s minutes for the workout %s.",
			entry.Date, formatNumPtr(data.Distance), formatNumPtr(data.Duration), entry.Name)
	default:
		return fmt.Sprintf("On %s you completed %s.", entry.Date, entry.Name)
	}
}

// formatNum renders a number the shortest exact way, 60 not 60.0,
// and 7.5 stays 7.5.
func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatNumPtr(f *float64) string {
	if f == nil {
		return "?"
	}
	return formatNum(*f)
}
