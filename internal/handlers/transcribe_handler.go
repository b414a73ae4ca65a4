package handlers

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"mockmate/internal/models"
	"mockmate/internal/transcribe"
	"mockmate/internal/utils"
)

// maxAudioBytes bounds a single uploaded answer recording.
const maxAudioBytes = 25 << 20

// TranscribeHandler forwards recorded audio to the speech-to-text provider
// and returns the transcript verbatim. Saving the text is the client's call.
type TranscribeHandler struct {
	Transcriber transcribe.Transcriber
	Logger      *zap.Logger
}

func NewTranscribeHandler(transcriber transcribe.Transcriber, logger *zap.Logger) *TranscribeHandler {
	return &TranscribeHandler{Transcriber: transcriber, Logger: logger}
}

func (h *TranscribeHandler) TranscribeHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_form",
			Message: "Invalid multipart form",
		})
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_audio",
			Message: "No audio file provided",
		})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "read_error",
			Message: "Failed to read audio file",
		})
		return
	}

	transcript, err := h.Transcriber.Transcribe(r.Context(), header.Filename, audio)
	if err != nil {
		h.Logger.Error("Transcription failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "transcription_failed",
			Message: "Failed to transcribe audio",
		})
		return
	}

	utils.JSON(w, http.StatusOK, models.TranscribeResponse{Transcript: transcript})
}
