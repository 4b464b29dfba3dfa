package httpapi

import (
	"net/http"
	"strconv"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/gin-gonic/gin"
)

type resolveBody struct {
	Resolution   string `json:"resolution" binding:"required,oneof=warning_accepted renegotiated continued dismissed"`
	UserResponse string `json:"user_response" binding:"max=2000"`
}

type terminationBody struct {
	Choice string `json:"choice" binding:"required,oneof=pause redesign terminate"`
}

func (h *handler) runScan(c *gin.Context) {
	result, err := h.svc.Violations.RunWeeklyScan(c.Request.Context(), app.ScanRequest{Now: h.now()})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handler) getMetrics(c *gin.Context) {
	resp, err := h.svc.Metrics.GetMetrics(c.Request.Context(), app.MetricsRequest{UserID: currentUser(c), Now: h.now()})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) getReport(c *gin.Context) {
	useLLM, _ := strconv.ParseBool(c.DefaultQuery("llm", "false"))
	report, err := h.svc.Metrics.Day21Report(c.Request.Context(), app.ReportRequest{
		UserID: currentUser(c),
		Now:    h.now(),
		UseLLM: useLLM,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handler) listViolations(c *gin.Context) {
	views, err := h.svc.Violations.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"violations": views})
}

func (h *handler) getStatus(c *gin.Context) {
	status, err := h.svc.Violations.Status(c.Request.Context(), app.StatusRequest{UserID: currentUser(c), Now: h.now()})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *handler) resolveViolation(c *gin.Context) {
	var body resolveBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	view, err := h.svc.Violations.ResolveViolation(c.Request.Context(), app.ResolveViolationRequest{
		UserID:       currentUser(c),
		ViolationID:  c.Param("id"),
		Resolution:   domain.Resolution(body.Resolution),
		UserResponse: body.UserResponse,
		Now:          h.now(),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handler) chooseTermination(c *gin.Context) {
	var body terminationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	result, err := h.svc.Terminations.Resolve(c.Request.Context(), app.TerminationChoiceRequest{
		UserID: currentUser(c),
		Choice: domain.FinalChoice(body.Choice),
		Now:    h.now(),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
