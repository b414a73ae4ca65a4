package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mockmate/internal/llm"
	"mockmate/internal/metrics"
	"mockmate/internal/middleware"
	"mockmate/internal/models"
	"mockmate/internal/prompts"
	"mockmate/internal/repositories"
	"mockmate/internal/resume"
	"mockmate/internal/storage"
	"mockmate/internal/utils"
)

// InterviewHandler owns the interview lifecycle: generation, answering and
// the final analysis.
type InterviewHandler struct {
	Interviews     InterviewRepository
	Questions      QuestionRepository
	Provider       llm.Provider
	Prompts        prompts.PromptProvider
	Store          storage.ObjectStore
	Logger         *zap.Logger
	MaxResumeBytes int64

	// now is swapped in tests to pin the decorrelation seed.
	now func() time.Time
}

func NewInterviewHandler(
	interviews InterviewRepository,
	questions QuestionRepository,
	provider llm.Provider,
	promptManager prompts.PromptProvider,
	store storage.ObjectStore,
	logger *zap.Logger,
	maxResumeBytes int64,
) *InterviewHandler {
	return &InterviewHandler{
		Interviews:     interviews,
		Questions:      questions,
		Provider:       provider,
		Prompts:        promptManager,
		Store:          store,
		Logger:         logger,
		MaxResumeBytes: maxResumeBytes,
		now:            time.Now,
	}
}

// GenerateHandler creates an interview from a pasted job description.
func (h *InterviewHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.GenerateRequest](r)
	userID := middleware.UserID(r)

	questions, err := h.generateQuestions(r, "questions", map[string]string{
		"Count":          fmt.Sprint(models.QuestionCount(req.Difficulty)),
		"Difficulty":     req.Difficulty,
		"Guideline":      models.DifficultyGuideline(req.Difficulty),
		"Seed":           fmt.Sprint(h.now().UnixNano()),
		"JobDescription": req.JobDescription,
	})
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}

	interview := &models.Interview{
		UserID:         userID,
		JobDescription: req.JobDescription,
		Difficulty:     req.Difficulty,
	}
	if err := h.Interviews.CreateWithQuestions(interview, questions); err != nil {
		h.Logger.Error("Failed to persist interview", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "db_error",
			Message: "Failed to create interview session",
		})
		return
	}

	h.Logger.Info("Interview generated",
		zap.String("interview_id", interview.InterviewID),
		zap.Int("questions", len(questions)),
		zap.String("difficulty", req.Difficulty))

	utils.JSON(w, http.StatusOK, models.GenerateResponse{InterviewID: interview.InterviewID})
}

// GenerateFromResumeHandler creates an interview from an uploaded PDF
// resume. Text extraction runs before the storage upload so a useless PDF
// never leaves an orphaned object behind.
func (h *InterviewHandler) GenerateFromResumeHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	if err := r.ParseMultipartForm(h.MaxResumeBytes); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_form",
			Message: "Invalid multipart form",
		})
		return
	}
	difficulty := r.FormValue("difficulty")
	file, header, err := r.FormFile("resumeFile")
	if err != nil || difficulty == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_fields",
			Message: "Missing resume file or difficulty",
		})
		return
	}
	defer file.Close()

	if header.Size > h.MaxResumeBytes {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "file_too_large",
			Message: fmt.Sprintf("Resume must be at most %d bytes", h.MaxResumeBytes),
		})
		return
	}
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/pdf" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_file_type",
			Message: "Resume must be a PDF file",
		})
		return
	}

	pdfBytes, err := io.ReadAll(io.LimitReader(file, h.MaxResumeBytes+1))
	if err != nil || int64(len(pdfBytes)) > h.MaxResumeBytes {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "file_too_large",
			Message: fmt.Sprintf("Resume must be at most %d bytes", h.MaxResumeBytes),
		})
		return
	}

	resumeText, err := resume.ExtractText(pdfBytes)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, resume.ErrNoText) {
			status = http.StatusUnprocessableEntity
		}
		h.Logger.Error("Resume text extraction failed", zap.Error(err))
		utils.JSON(w, status, models.ErrorResponse{
			Code:    "extraction_failed",
			Message: "Could not extract text from the PDF",
		})
		return
	}

	objectName := storage.ObjectName(userID, header.Filename, h.now())
	resumeURL, err := h.Store.Upload(r.Context(), objectName, "application/pdf", pdfBytes)
	if err != nil {
		h.Logger.Error("Resume upload failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "storage_error",
			Message: "Failed to upload resume to storage",
		})
		return
	}

	questions, err := h.generateQuestions(r, "resume_questions", map[string]string{
		"Count":      fmt.Sprint(models.QuestionCount(difficulty)),
		"Difficulty": difficulty,
		"Seed":       fmt.Sprint(h.now().UnixNano()),
		"ResumeText": resumeText,
	})
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}

	interview := &models.Interview{
		UserID:         userID,
		JobDescription: resume.Summary(resumeText),
		Difficulty:     difficulty,
		ResumeURL:      resumeURL,
	}
	if err := h.Interviews.CreateWithQuestions(interview, questions); err != nil {
		h.Logger.Error("Failed to persist interview", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "db_error",
			Message: "Failed to create interview session",
		})
		return
	}

	utils.JSON(w, http.StatusOK, models.GenerateResponse{InterviewID: interview.InterviewID})
}

// generateQuestions builds the prompt, calls the Completion Port and parses
// the question list. Malformed model output is an error, never a silent
// zero-question interview.
func (h *InterviewHandler) generateQuestions(r *http.Request, template string, data map[string]string) ([]string, error) {
	prompt, err := h.Prompts.BuildPrompt(template, data)
	if err != nil {
		return nil, fmt.Errorf("prompt build failed: %w", err)
	}

	raw, err := h.Provider.GenerateJSON(r.Context(), prompt)
	if err != nil {
		return nil, fmt.Errorf("provider call failed: %w", err)
	}

	questions, err := utils.ParseQuestions(raw)
	if err != nil {
		h.Logger.Error("Failed to parse question list from model output",
			zap.Error(err), zap.String("raw", raw))
		return nil, fmt.Errorf("the AI returned a response in an unexpected format: %w", err)
	}
	return questions, nil
}

func (h *InterviewHandler) writeGenerationError(w http.ResponseWriter, err error) {
	h.Logger.Error("Question generation failed", zap.Error(err))
	utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
		Code:    "generation_failed",
		Message: err.Error(),
	})
}

// AnswerHandler overwrites a question's answer state. Ownership is enforced
// by the repository's scoped update; the handler adds no extra query.
func (h *InterviewHandler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.AnswerRequest](r)
	userID := middleware.UserID(r)

	status, answer, reason := req.Outcome()
	err := h.Questions.RecordAnswer(req.QuestionID, userID, status, answer, reason)
	if errors.Is(err, repositories.ErrQuestionNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "question_not_found",
			Message: "Question not found",
		})
		return
	}
	if err != nil {
		h.Logger.Error("Failed to record answer", zap.Error(err), zap.String("question_id", req.QuestionID))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "db_error",
			Message: "Failed to save answer",
		})
		return
	}

	utils.JSON(w, http.StatusOK, models.AnswerResponse{Success: true})
}

// gradingOutcome is one settled per-question grading call.
type gradingOutcome struct {
	score  int
	graded bool
}

// ErrNothingToAnalyze is returned when an interview has no answered
// questions to grade.
var ErrNothingToAnalyze = errors.New("no answered questions found for this interview")

// AnalyzeHandler grades every answered, non-disqualified question
// concurrently, waits for all calls to settle, then writes the aggregate
// score. Individual grading failures are logged and excluded, not fatal.
func (h *InterviewHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.AnalyzeRequest](r)
	userID := middleware.UserID(r)

	overall, err := h.AnalyzeInterview(r.Context(), req.InterviewID, userID)
	if errors.Is(err, ErrNothingToAnalyze) {
		utils.JSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Code:    "nothing_to_analyze",
			Message: "No answered questions found for this interview",
		})
		return
	}
	if err != nil {
		h.Logger.Error("Interview analysis failed", zap.Error(err), zap.String("interview_id", req.InterviewID))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "db_error",
			Message: "Failed to complete the interview",
		})
		return
	}

	utils.JSON(w, http.StatusOK, models.AnalyzeResponse{Success: true, OverallScore: overall})
}

// AnalyzeInterview runs the full grading pass and persists the aggregate
// score. It is shared by the REST endpoint and the live session flow.
func (h *InterviewHandler) AnalyzeInterview(ctx context.Context, interviewID, userID string) (int, error) {
	questions, err := h.Questions.ListAnswered(interviewID, userID)
	if err != nil {
		return 0, fmt.Errorf("load answered questions: %w", err)
	}
	if len(questions) == 0 {
		return 0, ErrNothingToAnalyze
	}

	outcomes := make([]gradingOutcome, len(questions))
	var wg sync.WaitGroup
	for i, q := range questions {
		if !q.Gradable() {
			metrics.ObserveGrading("skipped")
			continue
		}
		wg.Add(1)
		go func(i int, q models.Question) {
			defer wg.Done()
			outcomes[i] = h.gradeQuestion(ctx, q)
		}(i, q)
	}
	wg.Wait()

	total, graded := 0, 0
	for _, o := range outcomes {
		if o.graded {
			total += o.score
			graded++
		}
	}
	overall := 0
	if graded > 0 {
		overall = int(math.Round(float64(total) / float64(graded)))
	}

	if err := h.Interviews.SetOverallScore(interviewID, overall); err != nil {
		return 0, fmt.Errorf("persist overall score: %w", err)
	}

	h.Logger.Info("Interview analyzed",
		zap.String("interview_id", interviewID),
		zap.Int("graded", graded),
		zap.Int("answered", len(questions)),
		zap.Int("overall", overall))

	return overall, nil
}

// gradeQuestion runs one grading call. Any failure is logged and reported as
// ungraded so the rest of the analysis still completes.
func (h *InterviewHandler) gradeQuestion(ctx context.Context, q models.Question) gradingOutcome {
	prompt, err := h.Prompts.BuildPrompt("grading", map[string]string{
		"Question": q.QuestionText,
		"Answer":   q.UserAnswer,
	})
	if err != nil {
		h.Logger.Error("Failed to build grading prompt", zap.Error(err), zap.String("question_id", q.QuestionID))
		metrics.ObserveGrading("failed")
		return gradingOutcome{}
	}

	raw, err := h.Provider.GenerateJSON(ctx, prompt)
	if err != nil {
		h.Logger.Error("Grading call failed", zap.Error(err), zap.String("question_id", q.QuestionID))
		metrics.ObserveGrading("failed")
		return gradingOutcome{}
	}

	result, err := utils.ParseGrading(raw)
	if err != nil {
		h.Logger.Error("Failed to parse grading response",
			zap.Error(err), zap.String("question_id", q.QuestionID), zap.String("raw", raw))
		metrics.ObserveGrading("failed")
		return gradingOutcome{}
	}

	feedback := &models.Feedback{
		Strengths:    result.Strengths,
		Improvements: result.Improvements,
	}
	if err := h.Questions.SaveGrading(q.QuestionID, feedback, result.Score); err != nil {
		h.Logger.Error("Failed to persist grading", zap.Error(err), zap.String("question_id", q.QuestionID))
		metrics.ObserveGrading("failed")
		return gradingOutcome{}
	}

	metrics.ObserveGrading("graded")
	return gradingOutcome{score: result.Score, graded: true}
}

// GetHandler returns one interview with its questions, the read path behind
// the interview and results screens.
func (h *InterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	if interviewID == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_interview_id",
			Message: "Interview ID is required",
		})
		return
	}

	interview, err := h.Interviews.GetByID(interviewID, middleware.UserID(r))
	if errors.Is(err, repositories.ErrInterviewNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "interview_not_found",
			Message: "Interview not found",
		})
		return
	}
	if err != nil {
		h.Logger.Error("Failed to load interview", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "db_error",
			Message: "Failed to load interview",
		})
		return
	}

	utils.JSON(w, http.StatusOK, interview)
}

// DashboardHandler returns the resumable in-progress interview plus recent
// completed sessions.
func (h *InterviewHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	resp := models.DashboardResponse{Recent: []models.InterviewSummary{}}

	inProgress, err := h.Interviews.GetInProgress(userID)
	if err != nil && !errors.Is(err, repositories.ErrInterviewNotFound) {
		h.Logger.Error("Failed to load in-progress interview", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "db_error",
			Message: "Failed to load dashboard",
		})
		return
	}
	if inProgress != nil {
		s := summarize(inProgress)
		resp.InProgress = &s
	}

	completed, err := h.Interviews.ListCompleted(userID, 5)
	if err != nil {
		h.Logger.Error("Failed to load completed interviews", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "db_error",
			Message: "Failed to load dashboard",
		})
		return
	}
	for i := range completed {
		resp.Recent = append(resp.Recent, summarize(&completed[i]))
	}

	utils.JSON(w, http.StatusOK, resp)
}

func summarize(interview *models.Interview) models.InterviewSummary {
	desc := interview.JobDescription
	if r := []rune(desc); len(r) > 60 {
		desc = strings.TrimSpace(string(r[:60])) + "..."
	}
	return models.InterviewSummary{
		InterviewID:    interview.InterviewID,
		JobDescription: desc,
		Difficulty:     interview.Difficulty,
		OverallScore:   interview.OverallScore,
		CreatedAt:      interview.CreatedAt,
	}
}
