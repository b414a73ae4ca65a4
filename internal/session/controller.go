package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"mockmate/internal/models"
)

// State is the controller's position in the interview-taking flow.
type State string

const (
	StateLoading        State = "loading"
	StateAwaitingAnswer State = "awaiting_answer"
	StateListening      State = "listening"
	StateEditing        State = "editing"
	StateAnalyzing      State = "analyzing"
	StateDone           State = "done"
	StateError          State = "error"
)

// faceCheckInterval is how often the face-presence detector is polled while
// the session is live.
const faceCheckInterval = 2500 * time.Millisecond

const (
	reasonTabHidden     = "Switched tabs during the interview"
	reasonMultipleFaces = "Multiple faces detected on camera"
)

// Snapshot is the client-visible controller state pushed after every event.
type Snapshot struct {
	State        State  `json:"state"`
	Index        int    `json:"index"`
	Total        int    `json:"total"`
	Question     string `json:"question,omitempty"`
	Transcript   string `json:"transcript"`
	Warned       bool   `json:"warned"`
	OverallScore int    `json:"overallScore,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Controller drives one interview-taking session: a linear question pointer
// with speech capture, manual transcript edits and two anti-cheating
// monitors layered on top. All event entry points are safe for concurrent
// use; the face poll and the speech stream land on the same lock.
type Controller struct {
	interviewID string
	userID      string

	speech   SpeechCapture
	faces    FaceCounter
	source   QuestionSource
	answers  AnswerRecorder
	analyzer Analyzer
	logger   *zap.Logger

	// onChange receives a snapshot after every state transition. Set it
	// before Start; it is invoked without the controller lock held.
	onChange func(Snapshot)

	mu         sync.Mutex
	state      State
	index      int
	questions  []models.Question
	transcript string
	editBuffer string
	// warned is the single session-wide escalation flag shared by the
	// visibility and face monitors. First violation of either kind warns,
	// any later violation of either kind disqualifies.
	warned  bool
	overall int
	lastErr string
	// submitting marks the window where the lock is dropped for a
	// RecordAnswer call. Events acting on the current question bail while
	// a save is in flight, so a monitor firing mid-save cannot disqualify
	// and advance the same question twice.
	submitting bool

	ticker *time.Ticker
	stop   chan struct{}
	torn   bool
}

func NewController(
	interviewID, userID string,
	speech SpeechCapture,
	faces FaceCounter,
	source QuestionSource,
	answers AnswerRecorder,
	analyzer Analyzer,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		interviewID: interviewID,
		userID:      userID,
		speech:      speech,
		faces:       faces,
		source:      source,
		answers:     answers,
		analyzer:    analyzer,
		logger:      logger,
		state:       StateLoading,
	}
}

// SetOnChange registers the snapshot sink. Call before Start.
func (c *Controller) SetOnChange(fn func(Snapshot)) { c.onChange = fn }

// Start loads the question list and begins the periodic face check. A load
// failure puts the controller in the error state and is returned to the
// caller, who is expected to send the user back to the dashboard.
func (c *Controller) Start(ctx context.Context) error {
	questions, err := c.source.Questions(ctx, c.interviewID, c.userID)
	if err == nil && len(questions) == 0 {
		err = errors.New("interview has no questions")
	}
	if err != nil {
		c.mu.Lock()
		c.state = StateError
		c.lastErr = "failed to load interview questions"
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(snap)
		return err
	}

	c.mu.Lock()
	c.questions = questions
	c.state = StateAwaitingAnswer
	c.index = 0
	c.ticker = time.NewTicker(faceCheckInterval)
	c.stop = make(chan struct{})
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)

	go c.pollFaces(ctx)
	return nil
}

func (c *Controller) pollFaces(ctx context.Context) {
	for {
		select {
		case <-c.stop:
			return
		case <-c.ticker.C:
			count, err := c.faces.Count(ctx)
			if err != nil {
				c.logger.Warn("Face check failed", zap.Error(err))
				continue
			}
			if count > 1 {
				c.violation(ctx, reasonMultipleFaces)
			}
		}
	}
}

// ToggleListening starts or stops speech capture. Starting clears the
// transcript buffer; starting while editing silently discards the edit.
func (c *Controller) ToggleListening(ctx context.Context) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return
	}
	switch c.state {
	case StateListening:
		c.speech.Stop()
		c.state = StateAwaitingAnswer
	case StateEditing:
		c.editBuffer = ""
		fallthrough
	case StateAwaitingAnswer:
		c.transcript = ""
		if err := c.speech.Start(c.appendFinal); err != nil {
			c.logger.Warn("Speech capture failed to start", zap.Error(err))
			c.state = StateAwaitingAnswer
			break
		}
		c.state = StateListening
	default:
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// appendFinal receives final recognized segments in event order. Segments
// arriving after capture stopped are dropped.
func (c *Controller) appendFinal(segment string) {
	c.mu.Lock()
	if c.state != StateListening {
		c.mu.Unlock()
		return
	}
	if c.transcript != "" {
		c.transcript += " "
	}
	c.transcript += segment
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// BeginEdit enters manual transcript editing. Only allowed while awaiting an
// answer with something to edit.
func (c *Controller) BeginEdit() {
	c.mu.Lock()
	if c.submitting || c.state != StateAwaitingAnswer || c.transcript == "" {
		c.mu.Unlock()
		return
	}
	c.editBuffer = c.transcript
	c.state = StateEditing
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// SaveEdit commits the edited text as the transcript.
func (c *Controller) SaveEdit(text string) {
	c.mu.Lock()
	if c.state != StateEditing {
		c.mu.Unlock()
		return
	}
	c.transcript = text
	c.editBuffer = ""
	c.state = StateAwaitingAnswer
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// CancelEdit discards the edit buffer and leaves the transcript unchanged.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	if c.state != StateEditing {
		c.mu.Unlock()
		return
	}
	c.editBuffer = ""
	c.state = StateAwaitingAnswer
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// Next submits the current transcript as the answer and advances, or starts
// the final analysis on the last question. A failed save keeps the user on
// the current question.
func (c *Controller) Next(ctx context.Context) {
	c.mu.Lock()
	if c.submitting || (c.state != StateAwaitingAnswer && c.state != StateListening) {
		c.mu.Unlock()
		return
	}
	if c.state == StateListening {
		c.speech.Stop()
		c.state = StateAwaitingAnswer
	}

	q := c.questions[c.index]
	answer := c.transcript
	c.submitting = true
	c.mu.Unlock()

	if err := c.answers.RecordAnswer(q.QuestionID, c.userID, models.AnswerRecorded, answer, ""); err != nil {
		c.logger.Error("Failed to record answer", zap.Error(err), zap.String("question_id", q.QuestionID))
		c.mu.Lock()
		c.submitting = false
		c.lastErr = "failed to save answer, please retry"
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(snap)
		return
	}

	c.advance(ctx)
}

// VisibilityHidden is the tab-visibility monitor's entry point.
func (c *Controller) VisibilityHidden(ctx context.Context) {
	c.violation(ctx, reasonTabHidden)
}

// violation applies the shared warn-once-then-disqualify policy.
func (c *Controller) violation(ctx context.Context, reason string) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return
	}
	switch c.state {
	case StateAwaitingAnswer, StateListening, StateEditing:
	default:
		c.mu.Unlock()
		return
	}

	if !c.warned {
		c.warned = true
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(snap)
		return
	}

	if c.state == StateListening {
		c.speech.Stop()
	}
	c.state = StateAwaitingAnswer
	c.editBuffer = ""
	q := c.questions[c.index]
	c.submitting = true
	c.mu.Unlock()

	c.logger.Info("Question disqualified",
		zap.String("question_id", q.QuestionID),
		zap.String("reason", reason))

	if err := c.answers.RecordAnswer(q.QuestionID, c.userID, models.AnswerDisqualified, "", reason); err != nil {
		c.logger.Error("Failed to record disqualification", zap.Error(err), zap.String("question_id", q.QuestionID))
	}

	c.advance(ctx)
}

// advance clears per-question state and moves to the next question, or runs
// the final analysis after the last one.
func (c *Controller) advance(ctx context.Context) {
	c.mu.Lock()
	c.submitting = false
	c.transcript = ""
	c.editBuffer = ""
	c.lastErr = ""
	if c.index+1 < len(c.questions) {
		c.index++
		c.state = StateAwaitingAnswer
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(snap)
		return
	}
	c.state = StateAnalyzing
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)

	go c.analyze(ctx)
}

// analyze runs the grading pass. Failure returns the user to the last
// question instead of marking the interview complete.
func (c *Controller) analyze(ctx context.Context) {
	overall, err := c.analyzer.AnalyzeInterview(ctx, c.interviewID, c.userID)

	c.mu.Lock()
	if c.torn {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.logger.Error("Final analysis failed", zap.Error(err), zap.String("interview_id", c.interviewID))
		c.state = StateAwaitingAnswer
		c.lastErr = "analysis failed, please retry"
	} else {
		c.state = StateDone
		c.overall = overall
		c.lastErr = ""
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// Teardown releases the detector, the capture object and the poll ticker.
// Safe to call more than once.
func (c *Controller) Teardown() {
	c.mu.Lock()
	if c.torn {
		c.mu.Unlock()
		return
	}
	c.torn = true
	if c.ticker != nil {
		c.ticker.Stop()
	}
	if c.stop != nil {
		close(c.stop)
	}
	c.mu.Unlock()

	c.speech.Stop()
	if err := c.faces.Close(); err != nil {
		c.logger.Warn("Face detector close failed", zap.Error(err))
	}
}

// Snapshot returns the current client-visible state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:        c.state,
		Index:        c.index,
		Total:        len(c.questions),
		Transcript:   c.transcript,
		Warned:       c.warned,
		OverallScore: c.overall,
		Error:        c.lastErr,
	}
	if c.index < len(c.questions) {
		snap.Question = c.questions[c.index].QuestionText
	}
	return snap
}

func (c *Controller) emit(snap Snapshot) {
	if c.onChange != nil {
		c.onChange(snap)
	}
}
