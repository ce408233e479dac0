package server

import (
	"encoding/json"
	"net/http"

	"github.com/YonasGr/binance-p2p/bot"
)

// StatusResponse reports the bot runtime counters
type StatusResponse struct {
	Stats bot.StatsSnapshot `json:"stats"`
}

// Health is the liveness probe
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Status reports uptime and per-command counters
func (s *Server) Status(w http.ResponseWriter, _ *http.Request) {
	resp := &StatusResponse{
		Stats: s.stats.Snapshot(),
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck // Fine to ignore
}
