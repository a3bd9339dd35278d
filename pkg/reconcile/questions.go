package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/northstarhq/northstar/pkg/okr"
)

// MaxQuestions caps how many clarifying questions a single call returns.
const MaxQuestions = 4

// cannedQuestions are served whenever the model's output is unusable.
// Prioritization still works without answers, so this operation never
// fails.
func cannedQuestions() []okr.Question {
	return []okr.Question{
		{ID: "q1", Question: "Which of these items is most urgent for the business right now?"},
		{ID: "q2", Question: "Are any of these items significantly more complex than they look?"},
		{ID: "q3", Question: "Do any of these items have fixed external deadlines that cannot move?"},
	}
}

// GenerateQuestions asks the model for clarifying questions to sharpen a
// prioritization pass over the given items. At most MaxQuestions come
// back. Any failure, from transport to parsing, degrades to the canned
// set; this lower-stakes operation never surfaces an error.
func (e *Engine) GenerateQuestions(ctx context.Context, items []okr.WorkItem, category string) []okr.Question {
	lines := []string{
		"You are an OKR operations assistant.",
		"A user is about to re-prioritize the OKRs below.",
		fmt.Sprintf("Return a JSON array of at most %d objects with exactly these fields: id, question.", MaxQuestions),
		"Ask only questions whose answers would change the relative priorities or deadlines.",
	}
	if category != "" {
		lines = append(lines, fmt.Sprintf("All OKRs belong to the %q category.", category))
	}
	lines = append(lines, "Input OKRs: "+marshalItems(items))

	raw, err := e.complete(ctx, strings.Join(lines, "\n"))
	if err != nil {
		e.logger.Debug().Err(err).Msg("Question generation failed, serving canned questions")
		return cannedQuestions()
	}

	records, ok := ExtractRecords(raw)
	if !ok {
		e.logger.Debug().Msg("Question text not parseable, serving canned questions")
		return cannedQuestions()
	}

	questions := make([]okr.Question, 0, MaxQuestions)
	for _, rec := range records {
		entry, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		text := strings.TrimSpace(stringField(entry, "question"))
		if text == "" {
			continue
		}
		id := stringField(entry, "id")
		if id == "" {
			id = fmt.Sprintf("q%d", len(questions)+1)
		}
		questions = append(questions, okr.Question{ID: id, Question: text})
		if len(questions) == MaxQuestions {
			break
		}
	}

	if len(questions) == 0 {
		return cannedQuestions()
	}
	return questions
}
