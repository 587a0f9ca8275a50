// controllers/nightaudit_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"hotel-pms/services"

	"github.com/gin-gonic/gin"
)

type NightAuditController struct {
	AuditSvc *services.NightAuditService
}

func NewNightAuditController(svc *services.NightAuditService) *NightAuditController {
	return &NightAuditController{AuditSvc: svc}
}

type RunNightAuditRequest struct {
	AuditDate  string `json:"audit_date" binding:"required"`
	OperatorID uint   `json:"operator_id" binding:"required"`
	Notes      string `json:"notes,omitempty"`
}

func respondAuditError(c *gin.Context, err error) {
	var doneErr *services.AuditAlreadyCompletedError
	if errors.As(err, &doneErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"code":    "error.auditAlreadyCompleted",
				"message": doneErr.Error(),
				"details": gin.H{"audit_date": doneErr.Date.Format("2006-01-02")},
			},
		})
		return
	}

	var intErr *services.IntegrityError
	if errors.As(err, &intErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.integrity", "message": intErr.Error()},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrAuditRunNotFound),
		errors.Is(err, services.ErrAdminNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{"code": "error.notFound", "message": err.Error()},
		})
	case strings.HasPrefix(err.Error(), "validation:"):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "error.validation",
				"message": strings.TrimSpace(strings.TrimPrefix(err.Error(), "validation:")),
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "error.internal", "message": err.Error()},
		})
	}
}

// Preview (GET /api/night-audit/preview?date=YYYY-MM-DD) is the
// read-only dry run. Nothing is posted.
func (nc *NightAuditController) Preview(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "error.validation", "message": "date query parameter is required"},
		})
		return
	}

	preview, err := nc.AuditSvc.Preview(date)
	if err != nil {
		respondAuditError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// Run (POST /api/night-audit/run) closes one business date.
func (nc *NightAuditController) Run(c *gin.Context) {
	var req RunNightAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "error.badRequest",
				"message": "Invalid request payload",
				"details": err.Error(),
			},
		})
		return
	}

	run, err := nc.AuditSvc.Run(req.AuditDate, req.OperatorID, req.Notes)
	if err != nil {
		respondAuditError(c, err)
		return
	}

	log.Printf("✅ Night audit completed for %s: %d booking(s) posted", req.AuditDate, run.TotalBookingsPosted)
	c.JSON(http.StatusCreated, run)
}

// ListRuns (GET /api/night-audit/runs?page=&page_size=)
func (nc *NightAuditController) ListRuns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	runs, total, err := nc.AuditSvc.ListRuns(page, pageSize)
	if err != nil {
		respondAuditError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"total": total,
		"page":  page,
	})
}

// GetRun (GET /api/night-audit/runs/:id)
func (nc *NightAuditController) GetRun(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	run, err := nc.AuditSvc.GetRun(id)
	if err != nil {
		respondAuditError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// GetRunDetails (GET /api/night-audit/runs/:id/details)
func (nc *NightAuditController) GetRunDetails(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	run, details, err := nc.AuditSvc.GetRunDetails(id)
	if err != nil {
		respondAuditError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run":     run,
		"details": details,
	})
}
