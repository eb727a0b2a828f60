package bankgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizling/internal/catalog"
)

const systemPrompt = `You write short educational games for children aged 6-10.

Rules:
- Use simple words and short sentences. Be warm and encouraging.
- Every question has 2 to 4 options and exactly one correct option.
- Wrong options should be believable, never silly or mean.
- Avoid scary, violent or brand-name content.
- The explanation is one sentence that teaches, not just "correct!".
- Use at most one emoji per question and per option; leave emoji empty when none fits.
- Do not repeat a question.`

// kindGuidance tells the model how each game kind plays.
var kindGuidance = map[catalog.Kind]string{
	catalog.KindQuiz:   "A quiz: each question stands on its own. Leave story empty.",
	catalog.KindStory:  "A story: questions follow one character through a short adventure. Put 1-3 sentences of the scene in story before each question, and ask what the character should do.",
	catalog.KindReflex: "A reflex game: the child has a few seconds per question, so keep each question under 12 words with exactly 2 options. Leave story empty.",
}

// buildUserMessage describes the game to write.
func buildUserMessage(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", catalog.TopicTitle(req.Topic))
	if req.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", req.Title)
	}
	fmt.Fprintf(&b, "Number of questions: %d\n", req.Count)
	fmt.Fprintf(&b, "Game type: %s\n", kindGuidance[req.Kind])
	if req.Notes != "" {
		b.WriteString("\nExtra notes from the author:\n")
		b.WriteString(req.Notes)
		b.WriteString("\n")
	}
	return b.String()
}
