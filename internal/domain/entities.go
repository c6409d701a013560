// Package domain holds the core entities, error taxonomy, and ports of the
// hiring assessment platform.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrRateLimited           = errors.New("rate limited")
	ErrGenerationUnavailable = errors.New("generation unavailable")
	ErrInternal              = errors.New("internal error")
)

// AssessmentStatus enumerates the assessment lifecycle.
type AssessmentStatus string

const (
	AssessmentDraft  AssessmentStatus = "draft"
	AssessmentActive AssessmentStatus = "active"
	AssessmentClosed AssessmentStatus = "closed"
)

// QuestionType enumerates supported question kinds.
type QuestionType string

const (
	QuestionMCQ         QuestionType = "MCQ"
	QuestionShortAnswer QuestionType = "SHORT_ANSWER"
	QuestionScenario    QuestionType = "SCENARIO"
)

// ScoringStatus tracks background AI grading progress for a candidate.
type ScoringStatus string

const (
	ScoringPending ScoringStatus = "pending"
	ScoringRunning ScoringStatus = "scoring"
	ScoringDone    ScoringStatus = "done"
	ScoringError   ScoringStatus = "error"
)

// Recommendation is the hire tier derived from percentile.
type Recommendation string

const (
	RecommendAdvance  Recommendation = "ADVANCE"
	RecommendConsider Recommendation = "CONSIDER"
	RecommendReject   Recommendation = "REJECT"
)

// User is a recruiter account. Auth is a thin boundary; the core only needs
// the owner identity it yields.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	CompanyName  string
	CreatedAt    time.Time
}

// JobProfile is the structured extraction of a raw job description.
// String fields fall back to "NOT SPECIFIED" and list fields to empty slices;
// callers never see nil or absent fields.
type JobProfile struct {
	RoleTitle        string   `json:"role_title"`
	Seniority        string   `json:"seniority_level"`
	Department       string   `json:"department"`
	Domain           string   `json:"domain"`
	Experience       string   `json:"years_of_experience_required"`
	Education        string   `json:"education_requirements"`
	RequiredSkills   []string `json:"required_skills"`
	PreferredSkills  []string `json:"preferred_skills"`
	Tools            []string `json:"tools_technologies"`
	Responsibilities []string `json:"key_responsibilities"`
	SoftSkills       []string `json:"soft_skills"`
}

// Assessment is a recruiter-authored test derived from one job description.
// Invariants: only draft assessments may become active, and an assessment
// needs at least one question before publication.
type Assessment struct {
	ID              string
	OwnerID         string
	Title           string
	Profile         JobProfile
	RawJD           string
	DurationMinutes int
	Status          AssessmentStatus
	CreatedAt       time.Time
	PublishedAt     *time.Time
	ClosedAt        *time.Time
}

// AssessmentSummary is a list-view projection with candidate aggregates.
type AssessmentSummary struct {
	Assessment
	CandidateCount int
	AverageScore   float64
}

// Question belongs to exactly one assessment and is immutable once created.
// Options and CorrectAnswer are only populated for MCQ items; Guidelines are
// scorer-facing and must never reach a candidate.
type Question struct {
	ID            string
	AssessmentID  string
	Number        int
	Type          QuestionType
	Skill         string
	Difficulty    string
	Text          string
	Options       []string
	CorrectAnswer string
	Guidelines    string
	MaxScore      int
}

// Candidate is one test-taker's registration and attempt, unique per
// (assessment, email).
type Candidate struct {
	ID               string
	AssessmentID     string
	FullName         string
	Email            string
	Phone            string
	StartedAt        *time.Time
	SubmittedAt      *time.Time
	TimeSpentMinutes int
	HasSubmitted     bool
	ScoringStatus    ScoringStatus
	TotalScore       float64
	MaxScore         float64
	Percentage       float64
	Rank             *int
	Percentile       *float64
	Recommendation   Recommendation
	Notes            string
	CreatedAt        time.Time
}

// Response is one candidate's answer to one question plus its score.
// Only the background scoring job mutates a response after submission.
type Response struct {
	ID             string
	CandidateID    string
	QuestionID     string
	AnswerText     string
	SelectedOption string
	Score          float64
	Reasoning      string
	Strengths      []string
	Gaps           []string
	CreatedAt      time.Time
}

// Submission carries the aggregate fields persisted when a candidate submits.
type Submission struct {
	SubmittedAt      time.Time
	TimeSpentMinutes int
	TotalScore       float64
	MaxScore         float64
	Percentage       float64
}

// PendingResponse is a response awaiting AI scoring, joined with the scoring
// material of its question.
type PendingResponse struct {
	ID           string
	AnswerText   string
	QuestionText string
	Guidelines   string
	Type         QuestionType
	MaxScore     int
}

// ResponseDetail is a review projection joining a response with its question.
type ResponseDetail struct {
	Response
	Number        int
	Type          QuestionType
	Skill         string
	QuestionText  string
	MaxScore      int
	Options       []string
	CorrectAnswer string
}

// DashboardStats aggregates a recruiter's activity.
type DashboardStats struct {
	TotalAssessments  int
	ActiveAssessments int
	ClosedAssessments int
	TotalCandidates   int
	AverageScore      float64
}

// Repositories (ports)

type UserRepository interface {
	Create(ctx Context, u User) (string, error)
	FindByEmail(ctx Context, email string) (User, error)
	Get(ctx Context, id string) (User, error)
}

type AssessmentRepository interface {
	CreateWithQuestions(ctx Context, a Assessment, qs []Question) (string, error)
	// Get scopes by owner; NotFound covers both absence and foreign ownership.
	Get(ctx Context, id, ownerID string) (Assessment, error)
	// GetPublic loads an assessment regardless of owner, for candidate flows.
	GetPublic(ctx Context, id string) (Assessment, error)
	List(ctx Context, ownerID string) ([]AssessmentSummary, error)
	UpdateMeta(ctx Context, id, ownerID, title string, durationMinutes int) error
	SetStatus(ctx Context, id, ownerID string, status AssessmentStatus) error
	Delete(ctx Context, id, ownerID string) error
	Questions(ctx Context, assessmentID string) ([]Question, error)
	QuestionCount(ctx Context, assessmentID string) (int, error)
	DashboardStats(ctx Context, ownerID string) (DashboardStats, error)
}

type CandidateRepository interface {
	Create(ctx Context, c Candidate) (string, error)
	Get(ctx Context, id string) (Candidate, error)
	// GetOwned resolves a candidate only when its assessment belongs to ownerID.
	GetOwned(ctx Context, id, ownerID string) (Candidate, error)
	FindByEmail(ctx Context, assessmentID, email string) (Candidate, error)
	// MarkStarted sets started_at only when it is still unset.
	MarkStarted(ctx Context, id string, at time.Time) error
	// SubmitResponses atomically flips has_submitted and stores all responses.
	// Returns ErrConflict when the candidate already submitted.
	SubmitResponses(ctx Context, id string, sub Submission, rs []Response) error
	SetScoringStatus(ctx Context, id string, status ScoringStatus) error
	UpdateAggregates(ctx Context, id string, total, percentage float64) error
	ListSubmitted(ctx Context, assessmentID string) ([]Candidate, error)
	UpdateStanding(ctx Context, id string, rank int, percentile float64, rec Recommendation) error
	UpdateNotes(ctx Context, id, notes string) error
}

type ResponseRepository interface {
	ListPendingAI(ctx Context, candidateID string) ([]PendingResponse, error)
	UpdateScore(ctx Context, id string, score float64, reasoning string, strengths, gaps []string) error
	SumScores(ctx Context, candidateID string) (float64, error)
	ListByCandidate(ctx Context, candidateID string) ([]ResponseDetail, error)
}

// Generator (port) produces a raw text completion for a (prompt, system) pair.
// Implementations retry internally; a terminal failure wraps
// ErrGenerationUnavailable.
type Generator interface {
	Generate(ctx Context, prompt, system string) (string, error)
}

// ScoringQueue (port) schedules the background AI-scoring job for a candidate.
// Delivery is fire-and-forget; progress is observable via ScoringStatus.
type ScoringQueue interface {
	EnqueueScore(ctx Context, candidateID string) error
}

// Context aliases context.Context so signatures stay terse across ports.
type Context = context.Context
