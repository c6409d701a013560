// Package stub provides a fast, deterministic generator for local development
// and tests, selected when no generation backend URL is configured.
package stub

import (
	"strings"
	"time"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

// Client fabricates plausible completions keyed off the prompt shape.
type Client struct{}

func New() *Client { return &Client{} }

// Generate inspects the prompt for the expected payload kind and returns a
// canned JSON completion. A small sleep resembles real latency.
func (c *Client) Generate(_ domain.Context, prompt, _ string) (string, error) {
	time.Sleep(50 * time.Millisecond)
	switch {
	case strings.Contains(prompt, "interview questions"):
		return `[
  {"type":"MCQ","skill_tested":"Go","difficulty_level":"easy","question_text":"Which keyword starts a goroutine?","options":["go","run","spawn","async"],"correct_answer":"A","ideal_answer_guidelines":"A is correct; go starts a goroutine.","max_score":10},
  {"type":"SHORT_ANSWER","skill_tested":"Concurrency","difficulty_level":"medium","question_text":"Explain how channels coordinate goroutines.","options":[],"correct_answer":"","ideal_answer_guidelines":"Should mention blocking semantics and ownership transfer.","max_score":10},
  {"type":"SCENARIO","skill_tested":"System design","difficulty_level":"hard","question_text":"Design a rate limiter for a public API.","options":[],"correct_answer":"","ideal_answer_guidelines":"Token bucket or sliding window, shared store for multi-instance.","max_score":10}
]`, nil
	case strings.Contains(prompt, "Score this candidate response"):
		return `{"score":7,"reasoning":"Covers the key points with minor omissions.","strengths":["clear structure"],"gaps":["no edge cases discussed"]}`, nil
	default:
		return `{"role_title":"Backend Engineer","seniority_level":"mid","department":"Engineering","domain":"SaaS","years_of_experience_required":"3-5 years","education_requirements":"NOT SPECIFIED","required_skills":["Go","PostgreSQL"],"preferred_skills":["Kubernetes"],"tools_technologies":["Docker"],"key_responsibilities":["Build APIs"],"soft_skills":["communication"]}`, nil
	}
}
