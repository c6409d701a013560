package usecase

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

// Prompt templates for the extraction layer. Every template demands a
// JSON-only reply with an explicit example schema; pkg/jsonx tolerates the
// prose models add anyway.

const parseJDSystem = "You are an expert HR assistant. Extract structured information from job descriptions. " +
	"Return ONLY valid JSON. Do not include any commentary, markdown, or explanations."

const generateQuestionsSystem = "You are an expert technical interviewer. Create high-quality interview questions. " +
	"Return ONLY valid JSON. No markdown, no commentary."

const scoreResponseSystem = "You are an expert technical interviewer. Score responses objectively and consistently. " +
	"Return ONLY valid JSON. No commentary."

func renderParseJDPrompt(jdText string) string {
	return fmt.Sprintf(`Parse this job description and extract structured information.

JOB DESCRIPTION:
%s

Return ONLY this JSON object (no markdown, no explanation):
{
    "role_title": "Job title",
    "seniority_level": "entry/junior/mid/senior/lead",
    "department": "Department name",
    "domain": "Industry domain",
    "years_of_experience_required": "Experience range",
    "education_requirements": "Education level",
    "required_skills": ["skill1", "skill2"],
    "preferred_skills": ["skill1", "skill2"],
    "tools_technologies": ["tool1", "tool2"],
    "key_responsibilities": ["responsibility1", "responsibility2"],
    "soft_skills": ["skill1", "skill2"]
}

Use "NOT SPECIFIED" for missing string fields and [] for missing array fields.`, jdText)
}

// questionMixFor maps seniority to an MCQ/short-answer/scenario ratio. Senior
// roles lean on scenarios, junior roles on MCQs.
func questionMixFor(seniority string) string {
	switch strings.ToLower(seniority) {
	case "senior", "lead", "principal":
		return "20% MCQ, 30% SHORT_ANSWER, 50% SCENARIO"
	case "junior", "entry":
		return "50% MCQ, 30% SHORT_ANSWER, 20% SCENARIO"
	default:
		return "30% MCQ, 30% SHORT_ANSWER, 40% SCENARIO"
	}
}

func renderGenerateQuestionsPrompt(p domain.JobProfile, count int) string {
	skills := p.RequiredSkills
	if len(skills) > 6 {
		skills = skills[:6]
	}
	resp := p.Responsibilities
	if len(resp) > 3 {
		resp = resp[:3]
	}
	return fmt.Sprintf(`Generate exactly %d interview questions for this role.

ROLE: %s
SENIORITY: %s
REQUIRED SKILLS: %s
RESPONSIBILITIES: %s

Create a mix: %s

For MCQ questions, options must be an array of strings like ["Option A text", "Option B text", "Option C text", "Option D text"]
For SHORT_ANSWER and SCENARIO, options must be []
correct_answer for MCQ must be "A", "B", "C", or "D" (letter only)
correct_answer for SHORT_ANSWER/SCENARIO must be ""

Return ONLY this JSON array, no markdown:
[
    {
        "type": "MCQ",
        "skill_tested": "specific skill name",
        "difficulty_level": "easy",
        "question_text": "The complete question text?",
        "options": ["First option", "Second option", "Third option", "Fourth option"],
        "correct_answer": "A",
        "ideal_answer_guidelines": "Why A is correct and what to look for",
        "max_score": 10
    },
    {
        "type": "SHORT_ANSWER",
        "skill_tested": "specific skill name",
        "difficulty_level": "medium",
        "question_text": "The complete question text?",
        "options": [],
        "correct_answer": "",
        "ideal_answer_guidelines": "Key points the ideal answer should cover",
        "max_score": 10
    }
]`, count, p.RoleTitle, strings.ToLower(p.Seniority), strings.Join(skills, ", "), strings.Join(resp, ", "), questionMixFor(p.Seniority))
}

func renderScorePrompt(question, guidelines, answer string, qType domain.QuestionType, maxScore int) string {
	shownAnswer := answer
	if shownAnswer == "" {
		shownAnswer = "(no answer provided)"
	}
	return fmt.Sprintf(`Score this candidate response strictly based on the guidelines.

QUESTION: %s
QUESTION TYPE: %s
IDEAL ANSWER GUIDELINES: %s
CANDIDATE'S ANSWER: %s
MAXIMUM SCORE: %d

Rules:
- Be strict. No points for empty or irrelevant answers.
- Score must be between 0 and %d.
- Same quality answer always gets same score.
- Identify specific strengths and gaps.

Return ONLY this JSON:
{
    "score": <number 0 to %d>,
    "reasoning": "Detailed 1-2 sentence explanation",
    "strengths": ["specific strength 1", "specific strength 2"],
    "gaps": ["specific gap 1", "specific gap 2"]
}`, question, qType, guidelines, shownAnswer, maxScore, maxScore, maxScore)
}
