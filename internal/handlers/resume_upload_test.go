package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"mockmate/internal/middleware"
)

func resumeUploadRequest(t *testing.T, difficulty, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if difficulty != "" {
		if err := writer.WriteField("difficulty", difficulty); err != nil {
			t.Fatalf("form build failed: %v", err)
		}
	}
	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="resumeFile"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("form build failed: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("form write failed: %v", err)
		}
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interviews/generate-from-resume", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
}

func TestGenerateFromResumeHandlerValidation(t *testing.T) {
	h := newTestInterviewHandler(&mockInterviewRepo{}, &mockQuestionRepo{}, &fakeProvider{})

	t.Run("missing difficulty", func(t *testing.T) {
		req := resumeUploadRequest(t, "", "resume.pdf", "application/pdf", []byte("%PDF-1.4"))
		rec := httptest.NewRecorder()
		h.GenerateFromResumeHandler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		req := resumeUploadRequest(t, "Medium", "", "", nil)
		rec := httptest.NewRecorder()
		h.GenerateFromResumeHandler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := resumeUploadRequest(t, "Medium", "resume.docx", "application/msword", []byte("doc"))
		rec := httptest.NewRecorder()
		h.GenerateFromResumeHandler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("file too large", func(t *testing.T) {
		small := NewInterviewHandler(&mockInterviewRepo{}, &mockQuestionRepo{}, &fakeProvider{}, fakePrompts{}, nil, h.Logger, 8)
		req := resumeUploadRequest(t, "Medium", "resume.pdf", "application/pdf", bytes.Repeat([]byte("a"), 64))
		rec := httptest.NewRecorder()
		small.GenerateFromResumeHandler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
