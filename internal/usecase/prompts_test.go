package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

func TestQuestionMixFollowsSeniority(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "20% MCQ, 30% SHORT_ANSWER, 50% SCENARIO", questionMixFor("Senior"))
	assert.Equal(t, "20% MCQ, 30% SHORT_ANSWER, 50% SCENARIO", questionMixFor("lead"))
	assert.Equal(t, "20% MCQ, 30% SHORT_ANSWER, 50% SCENARIO", questionMixFor("principal"))
	assert.Equal(t, "50% MCQ, 30% SHORT_ANSWER, 20% SCENARIO", questionMixFor("junior"))
	assert.Equal(t, "50% MCQ, 30% SHORT_ANSWER, 20% SCENARIO", questionMixFor("entry"))
	assert.Equal(t, "30% MCQ, 30% SHORT_ANSWER, 40% SCENARIO", questionMixFor("mid"))
	assert.Equal(t, "30% MCQ, 30% SHORT_ANSWER, 40% SCENARIO", questionMixFor("NOT SPECIFIED"))
}

func TestGenerateQuestionsPromptCapsLists(t *testing.T) {
	t.Parallel()

	p := domain.JobProfile{
		RoleTitle:        "Engineer",
		Seniority:        "mid",
		RequiredSkills:   []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"},
		Responsibilities: []string{"r1", "r2", "r3", "r4"},
	}
	out := renderGenerateQuestionsPrompt(p, 10)
	assert.Contains(t, out, "Generate exactly 10 interview questions")
	assert.Contains(t, out, "s6")
	assert.NotContains(t, out, "s7", "skills past the sixth must not reach the prompt")
	assert.Contains(t, out, "r3")
	assert.NotContains(t, out, "r4", "responsibilities past the third must not reach the prompt")
}

func TestScorePromptShowsPlaceholderForEmptyAnswer(t *testing.T) {
	t.Parallel()

	out := renderScorePrompt("Q?", "guide", "", domain.QuestionShortAnswer, 10)
	assert.Contains(t, out, "(no answer provided)")
	assert.True(t, strings.Contains(out, "between 0 and 10"))
}
