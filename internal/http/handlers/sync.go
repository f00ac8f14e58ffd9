package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vpnscout-backend/internal/http/response"
	"github.com/yungbote/vpnscout-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/vpnscout-backend/internal/pkg/errors"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
	"github.com/yungbote/vpnscout-backend/internal/services"
)

type SyncHandler struct {
	log       *logger.Logger
	jobs      services.JobService
	affiliate services.AffiliateSyncService
}

func NewSyncHandler(log *logger.Logger, jobs services.JobService, affiliate services.AffiliateSyncService) *SyncHandler {
	return &SyncHandler{
		log:       log.With("handler", "SyncHandler"),
		jobs:      jobs,
		affiliate: affiliate,
	}
}

// POST /api/sync/scrape
func (h *SyncHandler) Scrape(c *gin.Context) {
	var req services.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.jobs.RecordUndetermined(dbctx.From(c.Request.Context()), err)
		response.RespondError(c, http.StatusBadRequest, "invalid_body", "Invalid scrape request", err)
		return
	}
	res, err := h.jobs.Dispatch(dbctx.From(c.Request.Context()), req)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidArgument) {
			response.RespondError(c, http.StatusBadRequest, "invalid_scrape_request", "Invalid scrape request", err)
			return
		}
		h.log.Error("Scrape job failed", "type", req.Type, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "scrape_failed", "Scrape job failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"jobId":   res.Job.ID,
		"status":  res.Job.Status,
		"results": res.Result,
	})
}

// POST /api/sync/affiliate-links
func (h *SyncHandler) ReconcileAffiliateLinks(c *gin.Context) {
	res, err := h.affiliate.Reconcile(c.Request.Context())
	if err != nil {
		h.log.Error("Affiliate link sync failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "affiliate_sync_failed", "Affiliate link sync failed", err)
		return
	}
	response.RespondOK(c, res)
}
