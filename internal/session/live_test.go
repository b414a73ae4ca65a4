package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"mockmate/internal/models"
)

func TestClientSendHook(t *testing.T) {
	client := NewClient(nil)
	var got []Snapshot
	client.SetSendHook(func(snap Snapshot) { got = append(got, snap) })

	client.Send(Snapshot{State: StateAwaitingAnswer, Index: 2})

	if len(got) != 1 || got[0].Index != 2 {
		t.Fatalf("hook not invoked: %+v", got)
	}
}

func TestClientSendWithoutConnIsSafe(t *testing.T) {
	client := NewClient(nil)
	client.Send(Snapshot{State: StateDone}) // must not panic
}

func TestRemoteSpeechDropsSegmentsWhileStopped(t *testing.T) {
	speech := NewRemoteSpeech()
	var got []string
	if err := speech.Start(func(segment string) { got = append(got, segment) }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	speech.Deliver("one")
	speech.Stop()
	speech.Deliver("two")

	if len(got) != 1 || got[0] != "one" {
		t.Fatalf("unexpected segments: %v", got)
	}
}

func TestRemoteFacesReportsLastWriterWins(t *testing.T) {
	faces := NewRemoteFaces()
	ctx := context.Background()
	if n, _ := faces.Count(ctx); n != 1 {
		t.Fatalf("expected default count 1, got %d", n)
	}
	faces.Report(3)
	faces.Report(2)
	if n, _ := faces.Count(ctx); n != 2 {
		t.Fatalf("expected last reported count, got %d", n)
	}
}

func TestDispatchTranslatesFramesIntoControllerEvents(t *testing.T) {
	speech := NewRemoteSpeech()
	faces := NewRemoteFaces()
	recorder := &scriptRecorder{}
	controller := NewController("iv-1", "user-1", speech, faces,
		fixedSource{questions: twoQuestions()}, recorder, &scriptAnalyzer{overall: 50}, zap.NewNop())
	if err := controller.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	t.Cleanup(controller.Teardown)

	handler := NewLiveHandler(nil, nil, nil, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/interviews/iv-1/live", nil)

	handler.dispatch(req, controller, speech, faces, Frame{Type: "toggle_listening"})
	handler.dispatch(req, controller, speech, faces, Frame{Type: "speech_final", Text: "spoken words"})
	handler.dispatch(req, controller, speech, faces, Frame{Type: "toggle_listening"})

	snap := controller.Snapshot()
	if snap.Transcript != "spoken words" {
		t.Fatalf("speech frames not applied: %+v", snap)
	}

	handler.dispatch(req, controller, speech, faces, Frame{Type: "edit_begin"})
	handler.dispatch(req, controller, speech, faces, Frame{Type: "edit_save", Text: "edited words"})
	if got := controller.Snapshot().Transcript; got != "edited words" {
		t.Fatalf("edit frames not applied: %q", got)
	}

	handler.dispatch(req, controller, speech, faces, Frame{Type: "next"})
	snap = controller.Snapshot()
	if snap.Index != 1 {
		t.Fatalf("next frame not applied: %+v", snap)
	}
	calls := recorder.recorded()
	if len(calls) != 1 || calls[0].answer != "edited words" {
		t.Fatalf("unexpected recorded answers: %+v", calls)
	}

	handler.dispatch(req, controller, speech, faces, Frame{Type: "visibility_hidden"})
	if !controller.Snapshot().Warned {
		t.Fatalf("visibility frame not applied")
	}

	handler.dispatch(req, controller, speech, faces, Frame{Type: "face_count", Count: 4})
	if n, _ := faces.Count(req.Context()); n != 4 {
		t.Fatalf("face count frame not applied")
	}

	handler.dispatch(req, controller, speech, faces, Frame{Type: "bogus"}) // ignored
}

func TestServeLiveRequiresUpgrade(t *testing.T) {
	handler := NewLiveHandler(fixedSource{questions: []models.Question{{QuestionID: "q1"}}}, &scriptRecorder{}, &scriptAnalyzer{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/interviews/iv-1/live", nil)
	rec := httptest.NewRecorder()
	handler.ServeLive(rec, req)

	// Not a websocket handshake and no authenticated user: rejected before
	// any upgrade attempt.
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
