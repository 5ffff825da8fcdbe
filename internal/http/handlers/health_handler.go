// Health HTTP handlers.
//
// Liveness endpoints carry no core logic:
//   - GET /ping  (liveness + current UTC time)
//   - GET /time  (server clock in UTC and local time)
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PingResponse is the liveness payload.
type PingResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"API is alive"`
	UTCTime string `json:"utc_time" example:"2025-01-02T15:04:05.123456Z"`
}

// TimeResponse reports the server clock.
type TimeResponse struct {
	UTCISO   string `json:"utc_iso" example:"2025-01-02T15:04:05.123456Z"`
	LocalISO string `json:"local_iso" example:"2025-01-02T16:04:05.123456+01:00"`
}

// Ping godoc
// @ID          ping
// @Summary     Liveness probe
// @Tags        Health
// @Produce     json
// @Success     200  {object}  handlers.PingResponse
// @Router      /ping [get]
func (h *Handlers) Ping(c *gin.Context) {
	ok(c, http.StatusOK, PingResponse{
		Status:  "ok",
		Message: "API is alive",
		UTCTime: h.opts.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Time godoc
// @ID          serverTime
// @Summary     Server time
// @Tags        Health
// @Produce     json
// @Success     200  {object}  handlers.TimeResponse
// @Router      /time [get]
func (h *Handlers) Time(c *gin.Context) {
	now := h.opts.Now()
	ok(c, http.StatusOK, TimeResponse{
		UTCISO:   now.UTC().Format(time.RFC3339Nano),
		LocalISO: now.Local().Format(time.RFC3339Nano),
	})
}
