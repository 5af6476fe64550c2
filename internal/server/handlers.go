package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dyluth/factorydash/pkg/factoryapi"
)

// botFailure is the error body for unreadable bot requests.
const botFailure = "Failed to process message"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := s.gen.Metrics()

	if s.feed != nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), publishTimeout)
		if err := s.feed.PublishMetrics(ctx, metrics); err != nil {
			s.logger.Warn("Failed to publish metrics event", zap.Error(err))
		}
		cancel()
	}

	writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gen.Status())
}

func (s *Server) handleMachineTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gen.MachineTypes())
}

func (s *Server) handleBatchQuality(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gen.BatchQuality())
}

func (s *Server) handleEnergyMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gen.EnergyMetrics())
}

// handleBot answers POST /api/factory/bot. A body that is not JSON, or that
// lacks a string message, is a 500 with a fixed error message.
func (s *Server) handleBot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message *string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == nil {
		if err == nil {
			s.logger.Error("Error processing bot message", zap.String("error", "message is required"))
		} else {
			s.logger.Error("Error processing bot message", zap.Error(err))
		}
		writeJSON(w, http.StatusInternalServerError, factoryapi.ErrorResponse{Error: botFailure})
		return
	}

	reply := s.bot.Respond(*req.Message)

	if s.feed != nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), publishTimeout)
		if err := s.feed.PublishBotExchange(ctx, *req.Message, reply); err != nil {
			s.logger.Warn("Failed to publish bot event", zap.Error(err))
		}
		cancel()
	}

	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
}

// HealthResponse is the JSON response structure for health checks.
type HealthResponse struct {
	Status string `json:"status"`
	Redis  string `json:"redis,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleHealth reports healthy unless a configured feed cannot reach Redis.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{Status: "healthy"}

	if s.feed == nil {
		writeJSON(w, http.StatusOK, response)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.feed.Ping(ctx); err != nil {
		response.Status = "unhealthy"
		response.Redis = "disconnected"
		response.Error = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	response.Redis = "connected"
	writeJSON(w, http.StatusOK, response)
}
