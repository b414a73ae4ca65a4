package handlers

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"mockmate/internal/config"
	"mockmate/internal/llm"
	"mockmate/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status string                    `json:"status"` // "ready" | "not_ready"
	Checks map[string]ReadinessCheck `json:"checks"`
}

type HealthHandler struct {
	provider llm.Provider
	db       *gorm.DB
	config   *config.Config
}

func NewHealthHandler(provider llm.Provider, db *gorm.DB, cfg *config.Config) *HealthHandler {
	return &HealthHandler{provider: provider, db: db, config: cfg}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "mockmate",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	if handler.provider == nil {
		checks["provider"] = ReadinessCheck{Status: "failed", Message: "AI provider not initialized"}
		allChecksPass = false
	} else {
		checks["provider"] = ReadinessCheck{Status: "ok"}
	}

	if handler.db == nil {
		checks["database"] = ReadinessCheck{Status: "failed", Message: "Database not initialized"}
		allChecksPass = false
	} else if sqlDB, err := handler.db.DB(); err != nil {
		checks["database"] = ReadinessCheck{Status: "failed", Message: err.Error()}
		allChecksPass = false
	} else {
		ctx, cancel := context.WithTimeout(request.Context(), 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			checks["database"] = ReadinessCheck{Status: "failed", Message: err.Error()}
			allChecksPass = false
		} else {
			checks["database"] = ReadinessCheck{Status: "ok"}
		}
	}

	if handler.config == nil {
		checks["configuration"] = ReadinessCheck{Status: "failed", Message: "Configuration not loaded"}
		allChecksPass = false
	} else {
		checks["configuration"] = ReadinessCheck{Status: "ok"}
	}

	response := ReadinessResponse{Checks: checks}
	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}
