// Package mocks provides testify mocks for the domain ports.
package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

// Generator mocks domain.Generator.
type Generator struct{ mock.Mock }

func (m *Generator) Generate(ctx domain.Context, prompt, system string) (string, error) {
	args := m.Called(ctx, prompt, system)
	return args.String(0), args.Error(1)
}

// ScoringQueue mocks domain.ScoringQueue.
type ScoringQueue struct{ mock.Mock }

func (m *ScoringQueue) EnqueueScore(ctx domain.Context, candidateID string) error {
	return m.Called(ctx, candidateID).Error(0)
}

// UserRepository mocks domain.UserRepository.
type UserRepository struct{ mock.Mock }

func (m *UserRepository) Create(ctx domain.Context, u domain.User) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}

func (m *UserRepository) FindByEmail(ctx domain.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *UserRepository) Get(ctx domain.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

// AssessmentRepository mocks domain.AssessmentRepository.
type AssessmentRepository struct{ mock.Mock }

func (m *AssessmentRepository) CreateWithQuestions(ctx domain.Context, a domain.Assessment, qs []domain.Question) (string, error) {
	args := m.Called(ctx, a, qs)
	return args.String(0), args.Error(1)
}

func (m *AssessmentRepository) Get(ctx domain.Context, id, ownerID string) (domain.Assessment, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Get(0).(domain.Assessment), args.Error(1)
}

func (m *AssessmentRepository) GetPublic(ctx domain.Context, id string) (domain.Assessment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Assessment), args.Error(1)
}

func (m *AssessmentRepository) List(ctx domain.Context, ownerID string) ([]domain.AssessmentSummary, error) {
	args := m.Called(ctx, ownerID)
	if v := args.Get(0); v != nil {
		return v.([]domain.AssessmentSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AssessmentRepository) UpdateMeta(ctx domain.Context, id, ownerID, title string, durationMinutes int) error {
	return m.Called(ctx, id, ownerID, title, durationMinutes).Error(0)
}

func (m *AssessmentRepository) SetStatus(ctx domain.Context, id, ownerID string, status domain.AssessmentStatus) error {
	return m.Called(ctx, id, ownerID, status).Error(0)
}

func (m *AssessmentRepository) Delete(ctx domain.Context, id, ownerID string) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

func (m *AssessmentRepository) Questions(ctx domain.Context, assessmentID string) ([]domain.Question, error) {
	args := m.Called(ctx, assessmentID)
	if v := args.Get(0); v != nil {
		return v.([]domain.Question), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AssessmentRepository) QuestionCount(ctx domain.Context, assessmentID string) (int, error) {
	args := m.Called(ctx, assessmentID)
	return args.Int(0), args.Error(1)
}

func (m *AssessmentRepository) DashboardStats(ctx domain.Context, ownerID string) (domain.DashboardStats, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.DashboardStats), args.Error(1)
}

// CandidateRepository mocks domain.CandidateRepository.
type CandidateRepository struct{ mock.Mock }

func (m *CandidateRepository) Create(ctx domain.Context, c domain.Candidate) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}

func (m *CandidateRepository) Get(ctx domain.Context, id string) (domain.Candidate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Candidate), args.Error(1)
}

func (m *CandidateRepository) GetOwned(ctx domain.Context, id, ownerID string) (domain.Candidate, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Get(0).(domain.Candidate), args.Error(1)
}

func (m *CandidateRepository) FindByEmail(ctx domain.Context, assessmentID, email string) (domain.Candidate, error) {
	args := m.Called(ctx, assessmentID, email)
	return args.Get(0).(domain.Candidate), args.Error(1)
}

func (m *CandidateRepository) MarkStarted(ctx domain.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *CandidateRepository) SubmitResponses(ctx domain.Context, id string, sub domain.Submission, rs []domain.Response) error {
	return m.Called(ctx, id, sub, rs).Error(0)
}

func (m *CandidateRepository) SetScoringStatus(ctx domain.Context, id string, status domain.ScoringStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *CandidateRepository) UpdateAggregates(ctx domain.Context, id string, total, percentage float64) error {
	return m.Called(ctx, id, total, percentage).Error(0)
}

func (m *CandidateRepository) ListSubmitted(ctx domain.Context, assessmentID string) ([]domain.Candidate, error) {
	args := m.Called(ctx, assessmentID)
	if v := args.Get(0); v != nil {
		return v.([]domain.Candidate), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CandidateRepository) UpdateStanding(ctx domain.Context, id string, rank int, percentile float64, rec domain.Recommendation) error {
	return m.Called(ctx, id, rank, percentile, rec).Error(0)
}

func (m *CandidateRepository) UpdateNotes(ctx domain.Context, id, notes string) error {
	return m.Called(ctx, id, notes).Error(0)
}

// ResponseRepository mocks domain.ResponseRepository.
type ResponseRepository struct{ mock.Mock }

func (m *ResponseRepository) ListPendingAI(ctx domain.Context, candidateID string) ([]domain.PendingResponse, error) {
	args := m.Called(ctx, candidateID)
	if v := args.Get(0); v != nil {
		return v.([]domain.PendingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ResponseRepository) UpdateScore(ctx domain.Context, id string, score float64, reasoning string, strengths, gaps []string) error {
	return m.Called(ctx, id, score, reasoning, strengths, gaps).Error(0)
}

func (m *ResponseRepository) SumScores(ctx domain.Context, candidateID string) (float64, error) {
	args := m.Called(ctx, candidateID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *ResponseRepository) ListByCandidate(ctx domain.Context, candidateID string) ([]domain.ResponseDetail, error) {
	args := m.Called(ctx, candidateID)
	if v := args.Get(0); v != nil {
		return v.([]domain.ResponseDetail), args.Error(1)
	}
	return nil, args.Error(1)
}
