package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/vpnscout-backend/internal/data/repos"
	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/http/response"
	"github.com/yungbote/vpnscout-backend/internal/pkg/dbctx"
	"github.com/yungbote/vpnscout-backend/internal/services"
)

type JobHandler struct {
	jobs services.JobService
}

func NewJobHandler(jobs services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// GET /api/sync/jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	filter := repos.JobListFilter{
		Type:       types.JobType(strings.TrimSpace(c.Query("type"))),
		Status:     types.JobStatus(strings.TrimSpace(c.Query("status"))),
		SubjectKey: strings.ToLower(strings.TrimSpace(c.Query("subjectKey"))),
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", "Invalid limit", fmt.Errorf("limit must be an integer"))
			return
		}
		filter.Limit = n
	}
	jobs, err := h.jobs.List(dbctx.From(c.Request.Context()), filter)
	if err != nil {
		response.RespondAPIError(c, "list_jobs_failed", "Failed to list jobs", err)
		return
	}
	response.RespondOK(c, gin.H{"jobs": jobs})
}

// GET /api/sync/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_job_id", "Invalid job id", err)
		return
	}
	job, err := h.jobs.GetByID(dbctx.From(c.Request.Context()), jobID)
	if err != nil {
		response.RespondAPIError(c, "job_not_found", "Job not found", err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}
