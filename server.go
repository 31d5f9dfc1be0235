package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/arcfield/gsmmodem/modem"
)

// Server handles incoming HTTP requests for interacting with the
// configured modem instance
type Server struct {
	Logger *slog.Logger
	Modem  *modem.Modem
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sms", s.handleSMS)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// handleSMS processes incoming HTTP POST requests to send SMS messages
func (s *Server) handleSMS(w http.ResponseWriter, r *http.Request) {
	type SMSRequest struct {
		To      string `json:"to"`
		Message string `json:"message"`
	}

	var req SMSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.To == "" || req.Message == "" {
		s.sendError(w, "both 'to' and 'message' fields are required", http.StatusBadRequest)
		return
	}

	ref, err := s.Modem.SendSMS(r.Context(), req.To, req.Message)
	if err != nil {
		s.Logger.Error("Failed to send SMS", "error", err, "to", req.To, "status", modem.StatusOf(err))
		switch modem.StatusOf(err) {
		case modem.StatusBusy:
			s.sendError(w, err.Error(), http.StatusServiceUnavailable)
		case modem.StatusParameter:
			s.sendError(w, err.Error(), http.StatusBadRequest)
		case modem.StatusTimeout:
			s.sendError(w, err.Error(), http.StatusGatewayTimeout)
		default:
			s.sendError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	s.Logger.Info("SMS sent successfully", "to", req.To, "message_length", len(req.Message), "ref", ref)

	type SMSResponse struct {
		Ref int32 `json:"ref"`
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SMSResponse{Ref: ref})
}

// handleStatus reports the modem's current SIM, registration and operator
// state without issuing any new AT command.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Modem.State()

	type StatusResponse struct {
		SimState     int    `json:"sim_state"`
		Registration int    `json:"registration_status"`
		Operator     string `json:"operator"`
	}
	resp := StatusResponse{
		SimState:     int(snap.SimState),
		Registration: int(snap.Network.Status),
		Operator:     snap.Network.Operator.LongName,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
