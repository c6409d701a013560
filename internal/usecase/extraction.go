package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/ai/tokencount"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
	"github.com/fairyhunter13/ai-hiring-assessor/pkg/jsonx"
	"github.com/fairyhunter13/ai-hiring-assessor/pkg/sanitize"
)

// ExtractionService turns unstructured text into structured payloads via the
// generation backend. It owns all prompt templates and all JSON-from-prose
// parsing, and converts every transport or parse failure into a safe default
// so callers never see an unhandled fault.
type ExtractionService struct {
	Gen         domain.Generator
	Tokens      *tokencount.Counter
	TokenBudget int
}

// NewExtractionService constructs an ExtractionService with its dependencies.
func NewExtractionService(g domain.Generator, tokenBudget int) ExtractionService {
	return ExtractionService{Gen: g, Tokens: tokencount.DefaultCounter, TokenBudget: tokenBudget}
}

// scoreAttempts bounds generate+parse cycles per response, on top of the
// client's own transport-level retries.
const scoreAttempts = 3

// ScoreResult is the structured grade for one answer.
type ScoreResult struct {
	Score     float64  `json:"score"`
	Reasoning string   `json:"reasoning"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
}

func defaultProfile() domain.JobProfile {
	const ns = "NOT SPECIFIED"
	return domain.JobProfile{
		RoleTitle:        ns,
		Seniority:        ns,
		Department:       ns,
		Domain:           ns,
		Experience:       ns,
		Education:        ns,
		RequiredSkills:   []string{},
		PreferredSkills:  []string{},
		Tools:            []string{},
		Responsibilities: []string{},
		SoftSkills:       []string{},
	}
}

// normalizeProfile guarantees the no-null contract: empty strings become the
// sentinel and nil slices become empty slices.
func normalizeProfile(p *domain.JobProfile) {
	const ns = "NOT SPECIFIED"
	for _, f := range []*string{&p.RoleTitle, &p.Seniority, &p.Department, &p.Domain, &p.Experience, &p.Education} {
		if strings.TrimSpace(*f) == "" {
			*f = ns
		}
	}
	for _, f := range []*[]string{&p.RequiredSkills, &p.PreferredSkills, &p.Tools, &p.Responsibilities, &p.SoftSkills} {
		if *f == nil {
			*f = []string{}
		}
	}
}

// ParseJobDescription extracts a structured job profile from raw text. On any
// failure it returns the fully-populated sentinel profile, never an error.
func (s ExtractionService) ParseJobDescription(ctx domain.Context, jdText string) domain.JobProfile {
	jdText = s.Tokens.Truncate(jdText, s.TokenBudget)
	raw, err := s.Gen.Generate(ctx, renderParseJDPrompt(jdText), parseJDSystem)
	if err != nil {
		slog.Warn("job description parse failed; using defaults", slog.Any("error", err))
		return defaultProfile()
	}
	var p domain.JobProfile
	if err := jsonx.UnmarshalObject(raw, &p); err != nil {
		slog.Warn("job profile decode failed; using defaults", slog.Any("error", err))
		return defaultProfile()
	}
	normalizeProfile(&p)
	return p
}

// generatedQuestion mirrors the schema the generation prompt demands.
// MaxScore is loosely typed because models return numbers, strings, or
// nothing at all.
type generatedQuestion struct {
	Type          string   `json:"type"`
	Skill         string   `json:"skill_tested"`
	Difficulty    string   `json:"difficulty_level"`
	Text          string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Guidelines    string   `json:"ideal_answer_guidelines"`
	MaxScore      any      `json:"max_score"`
}

func coerceMaxScore(v any) int {
	switch n := v.(type) {
	case float64:
		if n > 0 {
			return int(n)
		}
	case string:
		var parsed int
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%d", &parsed); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 10
}

func coerceQuestionType(t string) domain.QuestionType {
	switch domain.QuestionType(strings.ToUpper(strings.TrimSpace(t))) {
	case domain.QuestionMCQ:
		return domain.QuestionMCQ
	case domain.QuestionScenario:
		return domain.QuestionScenario
	default:
		return domain.QuestionShortAnswer
	}
}

// GenerateQuestions asks for exactly count questions for the profile and
// validates each item. An empty result is a hard error for the caller: an
// assessment cannot be created without questions.
func (s ExtractionService) GenerateQuestions(ctx domain.Context, p domain.JobProfile, count int) ([]domain.Question, error) {
	raw, err := s.Gen.Generate(ctx, renderGenerateQuestionsPrompt(p, count), generateQuestionsSystem)
	if err != nil {
		return nil, fmt.Errorf("op=extraction.generate_questions: %w", err)
	}
	var items []generatedQuestion
	if err := jsonx.UnmarshalArray(raw, &items); err != nil {
		return nil, fmt.Errorf("op=extraction.generate_questions: %w: %v", domain.ErrGenerationUnavailable, err)
	}

	out := make([]domain.Question, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Text) == "" {
			continue
		}
		q := domain.Question{
			Number:        len(out) + 1,
			Type:          coerceQuestionType(it.Type),
			Skill:         it.Skill,
			Difficulty:    it.Difficulty,
			Text:          it.Text,
			Options:       it.Options,
			CorrectAnswer: strings.ToUpper(strings.TrimSpace(it.CorrectAnswer)),
			Guidelines:    it.Guidelines,
			MaxScore:      coerceMaxScore(it.MaxScore),
		}
		if q.Skill == "" {
			q.Skill = "General"
		}
		if q.Difficulty == "" {
			q.Difficulty = "medium"
		}
		if q.Type != domain.QuestionMCQ {
			// Never trust the model: non-MCQ items carry no options or key.
			q.Options = []string{}
			q.CorrectAnswer = ""
		} else if q.Options == nil {
			q.Options = []string{}
		}
		out = append(out, q)
	}
	return out, nil
}

// ScoreResponse grades one answer. The answer is sanitized before it reaches
// the prompt; the returned score is always within [0, maxScore]. This never
// fails: after scoreAttempts generate+parse cycles it returns the terminal
// degraded result instead.
func (s ExtractionService) ScoreResponse(ctx domain.Context, question, guidelines, answer string, qType domain.QuestionType, maxScore int) ScoreResult {
	answer = sanitize.Strip(answer)
	prompt := renderScorePrompt(question, guidelines, answer, qType, maxScore)

	for attempt := 1; attempt <= scoreAttempts; attempt++ {
		raw, err := s.Gen.Generate(ctx, prompt, scoreResponseSystem)
		if err != nil {
			slog.Warn("score attempt failed", slog.Int("attempt", attempt), slog.Any("error", err))
			continue
		}
		var res ScoreResult
		if err := jsonx.UnmarshalObject(raw, &res); err != nil {
			slog.Warn("score decode failed", slog.Int("attempt", attempt), slog.Any("error", err))
			continue
		}
		if res.Score < 0 {
			res.Score = 0
		}
		if res.Score > float64(maxScore) {
			res.Score = float64(maxScore)
		}
		if res.Strengths == nil {
			res.Strengths = []string{}
		}
		if res.Gaps == nil {
			res.Gaps = []string{}
		}
		return res
	}

	return ScoreResult{
		Score:     0,
		Reasoning: "Error during AI scoring",
		Strengths: []string{},
		Gaps:      []string{"Could not evaluate response"},
	}
}
