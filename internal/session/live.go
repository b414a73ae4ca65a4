package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mockmate/internal/middleware"
)

// Frame is one client event on the live socket.
type Frame struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Count int    `json:"count,omitempty"`
}

// LiveHandler upgrades the live-session endpoint and bridges socket frames
// into controller events. One controller per connection.
type LiveHandler struct {
	Source   QuestionSource
	Answers  AnswerRecorder
	Analyzer Analyzer
	Logger   *zap.Logger

	upgrader websocket.Upgrader
}

func NewLiveHandler(source QuestionSource, answers AnswerRecorder, analyzer Analyzer, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{
		Source:   source,
		Answers:  answers,
		Analyzer: analyzer,
		Logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *LiveHandler) ServeLive(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	userID := middleware.UserID(r)
	if interviewID == "" || userID == "" {
		http.Error(w, "missing interview id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	client := NewClient(conn)
	speech := NewRemoteSpeech()
	faces := NewRemoteFaces()

	controller := NewController(interviewID, userID, speech, faces, h.Source, h.Answers, h.Analyzer, h.Logger)
	controller.SetOnChange(client.Send)
	defer controller.Teardown()

	if err := controller.Start(r.Context()); err != nil {
		h.Logger.Warn("Live session failed to start",
			zap.Error(err), zap.String("interview_id", interviewID))
		return
	}

	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Warn("Live session read error", zap.Error(err))
			}
			return
		}
		h.dispatch(r, controller, speech, faces, frame)
	}
}

func (h *LiveHandler) dispatch(r *http.Request, controller *Controller, speech *RemoteSpeech, faces *RemoteFaces, frame Frame) {
	ctx := r.Context()
	switch frame.Type {
	case "toggle_listening":
		controller.ToggleListening(ctx)
	case "speech_final":
		speech.Deliver(frame.Text)
	case "face_count":
		faces.Report(frame.Count)
	case "visibility_hidden":
		controller.VisibilityHidden(ctx)
	case "edit_begin":
		controller.BeginEdit()
	case "edit_save":
		controller.SaveEdit(frame.Text)
	case "edit_cancel":
		controller.CancelEdit()
	case "next":
		controller.Next(ctx)
	default:
		h.Logger.Debug("Unknown live frame", zap.String("type", frame.Type))
	}
}
