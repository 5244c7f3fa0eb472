package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert quiz generator.

Rules:
- Generate exactly 10 multiple-choice questions on the requested topic.
- Every question has exactly 4 options and exactly one of them is correct.
- correctAnswer must be an exact, character-for-character copy of the correct option.
- subtopic names the specific sub-field within the topic that the question tests.
- difficulty is one of EASY, MEDIUM, HARD. Use a mix of difficulties.
- The explanation is one or two sentences on why the answer is correct.
- Do not repeat a question within the quiz.`

func buildUserMessage(input GenerateInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", input.Topic)

	if len(input.WeakSubtopics) > 0 {
		fmt.Fprintf(&b, "\nThe player has shown weakness in these subtopics: %s.\n",
			strings.Join(input.WeakSubtopics, ", "))
		fmt.Fprintf(&b, "You MUST generate at least %d of the %d questions specifically on these subtopics, "+
			"and set the subtopic of each such question to the weak subtopic name exactly as written above.\n",
			MinWeakCoverage, QuestionCount)
	}

	return b.String()
}
