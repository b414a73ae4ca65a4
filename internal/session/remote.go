package session

import (
	"context"
	"sync"
)

// RemoteSpeech is a SpeechCapture fed by the browser over the live socket.
// The client performs the actual recognition and streams final segments as
// frames; this side only tracks whether capture is active.
type RemoteSpeech struct {
	mu      sync.Mutex
	active  bool
	onFinal func(string)
}

func NewRemoteSpeech() *RemoteSpeech { return &RemoteSpeech{} }

func (s *RemoteSpeech) Start(onFinal func(segment string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	s.onFinal = onFinal
	return nil
}

func (s *RemoteSpeech) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// Deliver forwards one final recognized segment. Segments arriving while
// capture is stopped are dropped.
func (s *RemoteSpeech) Deliver(segment string) {
	s.mu.Lock()
	active, onFinal := s.active, s.onFinal
	s.mu.Unlock()
	if active && onFinal != nil {
		onFinal(segment)
	}
}

// RemoteFaces is a FaceCounter fed by the browser: the client samples its
// webcam and reports the face count, the poll reads the latest report.
type RemoteFaces struct {
	mu    sync.Mutex
	count int
}

func NewRemoteFaces() *RemoteFaces { return &RemoteFaces{count: 1} }

func (f *RemoteFaces) Report(count int) {
	f.mu.Lock()
	f.count = count
	f.mu.Unlock()
}

func (f *RemoteFaces) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count, nil
}

func (f *RemoteFaces) Close() error { return nil }
