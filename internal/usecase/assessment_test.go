package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain/mocks"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/usecase"
)

const sampleJD = "We are looking for a senior backend engineer to build and operate our APIs. " +
	"Strong Go and PostgreSQL skills required."

func questionsJSON(n int) string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, `{"type":"SHORT_ANSWER","skill_tested":"Go","difficulty_level":"medium","question_text":"Q?","options":[],"correct_answer":"","ideal_answer_guidelines":"g","max_score":10}`)
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestAssessmentCreate_Success(t *testing.T) {
	t.Parallel()

	gen := &mocks.Generator{}
	// First call parses the JD, second generates questions.
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Parse this job description")
	}), mock.Anything).Return(`{"role_title":"Backend Engineer","seniority_level":"senior"}`, nil)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "interview questions")
	}), mock.Anything).Return(questionsJSON(5), nil)

	repo := &mocks.AssessmentRepository{}
	repo.On("CreateWithQuestions", mock.Anything, mock.MatchedBy(func(a domain.Assessment) bool {
		return a.Title == "Backend Engineer - Assessment" &&
			a.Status == domain.AssessmentDraft &&
			a.OwnerID == "owner-1" &&
			a.DurationMinutes == 60
	}), mock.AnythingOfType("[]domain.Question")).Return("assessment-1", nil)

	svc := usecase.NewAssessmentService(repo, newExtraction(gen))
	id, err := svc.Create(context.Background(), "owner-1", usecase.CreateInput{JobDescription: sampleJD})
	require.NoError(t, err)
	assert.Equal(t, "assessment-1", id)
	repo.AssertExpectations(t)
}

func TestAssessmentCreate_ShortJDRejected(t *testing.T) {
	t.Parallel()

	svc := usecase.NewAssessmentService(&mocks.AssessmentRepository{}, newExtraction(&mocks.Generator{}))
	_, err := svc.Create(context.Background(), "owner-1", usecase.CreateInput{JobDescription: "too short"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestAssessmentCreate_GenerationOutageFails(t *testing.T) {
	t.Parallel()

	gen := &mocks.Generator{}
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("", domain.ErrGenerationUnavailable)

	svc := usecase.NewAssessmentService(&mocks.AssessmentRepository{}, newExtraction(gen))
	_, err := svc.Create(context.Background(), "owner-1", usecase.CreateInput{JobDescription: sampleJD})
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
}

func TestAssessmentCreate_ClampsKnobs(t *testing.T) {
	t.Parallel()

	gen := &mocks.Generator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Parse this job description")
	}), mock.Anything).Return(`{"role_title":"X"}`, nil)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		// Requested 99 questions must be clamped to 20 before prompting.
		return strings.Contains(p, "Generate exactly 20 interview questions")
	}), mock.Anything).Return(questionsJSON(20), nil)

	repo := &mocks.AssessmentRepository{}
	repo.On("CreateWithQuestions", mock.Anything, mock.MatchedBy(func(a domain.Assessment) bool {
		return a.DurationMinutes == 180
	}), mock.Anything).Return("id", nil)

	svc := usecase.NewAssessmentService(repo, newExtraction(gen))
	_, err := svc.Create(context.Background(), "owner-1", usecase.CreateInput{
		JobDescription:  sampleJD,
		QuestionCount:   99,
		DurationMinutes: 9999,
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPublish_DraftWithQuestions(t *testing.T) {
	t.Parallel()

	repo := &mocks.AssessmentRepository{}
	repo.On("Get", mock.Anything, "a1", "o1").
		Return(domain.Assessment{ID: "a1", Status: domain.AssessmentDraft}, nil)
	repo.On("QuestionCount", mock.Anything, "a1").Return(5, nil)
	repo.On("SetStatus", mock.Anything, "a1", "o1", domain.AssessmentActive).Return(nil)

	svc := usecase.NewAssessmentService(repo, newExtraction(&mocks.Generator{}))
	require.NoError(t, svc.Publish(context.Background(), "a1", "o1"))
	repo.AssertExpectations(t)
}

func TestPublish_NonDraftConflicts(t *testing.T) {
	t.Parallel()

	repo := &mocks.AssessmentRepository{}
	repo.On("Get", mock.Anything, "a1", "o1").
		Return(domain.Assessment{ID: "a1", Status: domain.AssessmentActive}, nil)

	svc := usecase.NewAssessmentService(repo, newExtraction(&mocks.Generator{}))
	assert.ErrorIs(t, svc.Publish(context.Background(), "a1", "o1"), domain.ErrConflict)
}

func TestPublish_NoQuestionsRejected(t *testing.T) {
	t.Parallel()

	repo := &mocks.AssessmentRepository{}
	repo.On("Get", mock.Anything, "a1", "o1").
		Return(domain.Assessment{ID: "a1", Status: domain.AssessmentDraft}, nil)
	repo.On("QuestionCount", mock.Anything, "a1").Return(0, nil)

	svc := usecase.NewAssessmentService(repo, newExtraction(&mocks.Generator{}))
	assert.ErrorIs(t, svc.Publish(context.Background(), "a1", "o1"), domain.ErrInvalidArgument)
}

func TestClose_OnlyFromActive(t *testing.T) {
	t.Parallel()

	repo := &mocks.AssessmentRepository{}
	repo.On("Get", mock.Anything, "a1", "o1").
		Return(domain.Assessment{ID: "a1", Status: domain.AssessmentActive}, nil)
	repo.On("SetStatus", mock.Anything, "a1", "o1", domain.AssessmentClosed).Return(nil)

	svc := usecase.NewAssessmentService(repo, newExtraction(&mocks.Generator{}))
	require.NoError(t, svc.Close(context.Background(), "a1", "o1"))

	repo2 := &mocks.AssessmentRepository{}
	repo2.On("Get", mock.Anything, "a2", "o1").
		Return(domain.Assessment{ID: "a2", Status: domain.AssessmentDraft}, nil)
	svc2 := usecase.NewAssessmentService(repo2, newExtraction(&mocks.Generator{}))
	assert.ErrorIs(t, svc2.Close(context.Background(), "a2", "o1"), domain.ErrConflict)
}

func TestGet_NotFoundPassesThrough(t *testing.T) {
	t.Parallel()

	repo := &mocks.AssessmentRepository{}
	repo.On("Get", mock.Anything, "missing", "o1").
		Return(domain.Assessment{}, domain.ErrNotFound)

	svc := usecase.NewAssessmentService(repo, newExtraction(&mocks.Generator{}))
	_, _, err := svc.Get(context.Background(), "missing", "o1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
