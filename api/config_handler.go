// Package api: configuration status endpoint.
package api

import (
	"net/http"

	"github.com/seenimoa/finlens/internal/config"
)

// ConfigResponse is the JSON payload returned by GET /api/v1/config.
type ConfigResponse struct {
	Settings        []config.SettingStatus `json:"settings"`
	Concurrency     int                    `json:"concurrency"`
	PercentDecimals int                    `json:"percent_decimals"`
}

// handleGetConfig reports the effective settings and where each came from.
// Secret values are masked.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	settings, err := config.Describe(s.cfg)
	if err != nil {
		s.log.Error().Err(err).Msg("describing config")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Settings:        settings,
			Concurrency:     s.cfg.Normalize.Concurrency,
			PercentDecimals: s.cfg.Format.PercentDecimals,
		},
	})
}
