package controllers

import (
	"context"
	"net/http"

	"pawcare-backend/services"
	"pawcare-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardAPI interface {
	Overview(ctx context.Context) (*services.DashboardOverview, error)
	Report(ctx context.Context) (*services.ReportSummary, error)
}

type DashboardController struct {
	Dashboard DashboardAPI
}

// Overview returns the admin dashboard counters
func (dc *DashboardController) Overview(c *gin.Context) {
	out, err := dc.Dashboard.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Dashboard fetched successfully", out)
}

// GetReportSummary returns revenue growth and the month's top services and customers.
func (dc *DashboardController) GetReportSummary(c *gin.Context) {
	out, err := dc.Dashboard.Report(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Report fetched successfully", out)
}
