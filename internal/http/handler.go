package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hos-service/internal/http/middleware"
	"hos-service/internal/model"
	"hos-service/internal/service"
)

const dateLayout = "2006-01-02"

type Handler struct {
	logService    *service.LogService
	reportService *service.ReportService
	log           zerolog.Logger
}

func NewHandler(
	logService *service.LogService,
	reportService *service.ReportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		logService:    logService,
		reportService: reportService,
		log:           log,
	}
}

type EventPayload struct {
	Status            string     `json:"status" binding:"required"`
	Timestamp         time.Time  `json:"timestamp" binding:"required"`
	Latitude          *float64   `json:"latitude"`
	Longitude         *float64   `json:"longitude"`
	Address           *string    `json:"address"`
	Odometer          *float64   `json:"odometer"`
	EngineHours       *float64   `json:"engine_hours"`
	Notes             string     `json:"notes"`
	EditedBy          *uuid.UUID `json:"edited_by"`
	EditReason        *string    `json:"edit_reason"`
	OriginalTimestamp *time.Time `json:"original_timestamp"`
}

func (h *Handler) ingestEvents(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		DriverID string         `json:"driver_id" binding:"required"`
		LogDate  string         `json:"log_date" binding:"required"`
		Events   []EventPayload `json:"events" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	driverID, err := uuid.Parse(strings.TrimSpace(req.DriverID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid driver_id"))
		return
	}
	logDate, err := time.Parse(dateLayout, strings.TrimSpace(req.LogDate))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid log_date, expected YYYY-MM-DD"))
		return
	}

	events, err := convertEventPayloads(req.Events)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	record, err := h.logService.Ingest(c.Request.Context(), principal, model.DriverEventBatch{
		DriverID: driverID,
		LogDate:  logDate,
		Events:   events,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) createLog(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		DriverID         string   `json:"driver_id" binding:"required"`
		LogDate          string   `json:"log_date" binding:"required"`
		StartOdometer    *float64 `json:"start_odometer"`
		EndOdometer      *float64 `json:"end_odometer"`
		StartEngineHours *float64 `json:"start_engine_hours"`
		EndEngineHours   *float64 `json:"end_engine_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	driverID, err := uuid.Parse(strings.TrimSpace(req.DriverID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid driver_id"))
		return
	}
	logDate, err := time.Parse(dateLayout, strings.TrimSpace(req.LogDate))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid log_date, expected YYYY-MM-DD"))
		return
	}

	record, err := h.logService.Create(c.Request.Context(), principal, service.CreateLogInput{
		DriverID:         driverID,
		LogDate:          logDate,
		StartOdometer:    req.StartOdometer,
		EndOdometer:      req.EndOdometer,
		StartEngineHours: req.StartEngineHours,
		EndEngineHours:   req.EndEngineHours,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(record))
}

func (h *Handler) listLogs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	opts, err := parseLogQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	records, err := h.logService.List(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": records}))
}

func (h *Handler) getLog(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid log id"))
		return
	}

	record, err := h.logService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) submitLog(c *gin.Context) {
	h.transition(c, func(principal model.Principal, id uuid.UUID) error {
		return h.logService.Submit(c.Request.Context(), principal, id)
	})
}

func (h *Handler) approveLog(c *gin.Context) {
	h.transition(c, func(principal model.Principal, id uuid.UUID) error {
		return h.logService.Approve(c.Request.Context(), principal, id)
	})
}

func (h *Handler) rejectLog(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid log id"))
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	if err := h.logService.Reject(c.Request.Context(), principal, id, req.Reason); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "updated"}))
}

func (h *Handler) reopenLog(c *gin.Context) {
	h.transition(c, func(principal model.Principal, id uuid.UUID) error {
		return h.logService.Reopen(c.Request.Context(), principal, id)
	})
}

func (h *Handler) certifyLog(c *gin.Context) {
	h.transition(c, func(principal model.Principal, id uuid.UUID) error {
		return h.logService.Certify(c.Request.Context(), principal, id)
	})
}

func (h *Handler) resolveViolation(c *gin.Context) {
	h.transition(c, func(principal model.Principal, id uuid.UUID) error {
		return h.logService.ResolveViolation(c.Request.Context(), principal, id)
	})
}

func (h *Handler) syncFromProvider(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		DriverID string `json:"driver_id" binding:"required"`
		Date     string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	driverID, err := uuid.Parse(strings.TrimSpace(req.DriverID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid driver_id"))
		return
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid date, expected YYYY-MM-DD"))
		return
	}

	record, err := h.logService.SyncFromProvider(c.Request.Context(), principal, driverID, date)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) complianceReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var opts service.ReportOptions
	if driverID := strings.TrimSpace(c.Query("driver_id")); driverID != "" {
		id, err := uuid.Parse(driverID)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid driver_id"))
			return
		}
		opts.DriverID = &id
	}
	var err error
	if opts.DateFrom, err = parseDateParam(c, "date_from"); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	if opts.DateTo, err = parseDateParam(c, "date_to"); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	report, err := h.reportService.BuildReport(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(report))
}

func (h *Handler) transition(c *gin.Context, fn func(principal model.Principal, id uuid.UUID) error) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid id"))
		return
	}

	if err := fn(principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "updated"}))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch err {
	case service.ErrPermissionDenied:
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case service.ErrInvalidInput:
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case service.ErrNotFound:
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case service.ErrConflict:
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	case service.ErrInvalidStatus:
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case service.ErrProviderUnavailable:
		c.JSON(http.StatusServiceUnavailable, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func parseLogQuery(c *gin.Context) (service.ListLogsOptions, error) {
	var opts service.ListLogsOptions

	if driverID := strings.TrimSpace(c.Query("driver_id")); driverID != "" {
		id, err := uuid.Parse(driverID)
		if err != nil {
			return opts, err
		}
		opts.DriverID = &id
	}
	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			opts.Statuses = append(opts.Statuses, model.LogStatus(strings.ToUpper(val)))
		}
	}
	var err error
	if opts.DateFrom, err = parseDateParam(c, "date_from"); err != nil {
		return opts, err
	}
	if opts.DateTo, err = parseDateParam(c, "date_to"); err != nil {
		return opts, err
	}
	if limit := strings.TrimSpace(c.Query("limit")); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			opts.Limit = v
		}
	}
	if offset := strings.TrimSpace(c.Query("offset")); offset != "" {
		if v, err := strconv.Atoi(offset); err == nil {
			opts.Offset = v
		}
	}

	return opts, nil
}

func parseDateParam(c *gin.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func convertEventPayloads(payloads []EventPayload) ([]model.DutyStatusEvent, error) {
	events := make([]model.DutyStatusEvent, 0, len(payloads))
	for _, p := range payloads {
		status, err := model.ParseDutyStatus(p.Status)
		if err != nil {
			return nil, err
		}
		events = append(events, model.DutyStatusEvent{
			Status:            status,
			Timestamp:         p.Timestamp,
			Latitude:          p.Latitude,
			Longitude:         p.Longitude,
			Address:           p.Address,
			Odometer:          p.Odometer,
			EngineHours:       p.EngineHours,
			Notes:             p.Notes,
			EditedBy:          p.EditedBy,
			EditReason:        p.EditReason,
			OriginalTimestamp: p.OriginalTimestamp,
		})
	}
	return events, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
