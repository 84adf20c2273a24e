package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigboard/marketplace/internal/api/middleware"
	"github.com/gigboard/marketplace/internal/core/authz"
	"github.com/gigboard/marketplace/internal/core/domain"
	"github.com/gigboard/marketplace/internal/core/ports"
	"github.com/gigboard/marketplace/internal/metrics"
)

// JobHandler handles HTTP requests for job listings.
type JobHandler struct {
	jobs      ports.JobService
	proposals ports.ProposalService
}

func NewJobHandler(jobs ports.JobService, proposals ports.ProposalService) *JobHandler {
	return &JobHandler{jobs: jobs, proposals: proposals}
}

// Categories lists the job categories offered when posting a job.
//
// @Summary      List categories
// @Tags         jobs
// @Produce      json
// @Success      200  {array}  domain.Category
// @Router       /categories [get]
func (h *JobHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Categories)
}

// List handles GET /jobs, newest first.
//
// @Summary      Browse jobs
// @Tags         jobs
// @Produce      json
// @Param        category  query     string  false  "Exact category match"
// @Success      200       {object}  jobListResponse
// @Failure      503       {object}  errorResponse
// @Router       /jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	category := c.QueryParam("category")
	jobs, err := h.jobs.List(c.Request().Context(), category)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobListResponse{Category: category, Jobs: jobs})
}

// Create handles POST /jobs.
//
// @Summary      Post a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        body  body      createJobRequest  true  "Job details"
// @Success      201   {object}  domain.Job
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /jobs [post]
func (h *JobHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var req createJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.Create(c.Request().Context(), user, domain.JobFields{
		Title:       req.Title,
		Category:    req.Category,
		Budget:      req.Budget,
		Deadline:    req.Deadline,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	metrics.JobsPostedTotal.WithLabelValues(job.Category).Inc()

	c.Response().Header().Set(echo.HeaderLocation, "/jobs/"+job.ID)
	return c.JSON(http.StatusCreated, job)
}

// Get handles GET /jobs/:id. The owning client also receives the job's
// proposals.
//
// @Summary      View a job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  jobDetailResponse
// @Failure      404  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /jobs/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	job, err := h.jobs.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	resp := jobDetailResponse{
		Job:       job,
		CanApply:  authz.CanApply(user),
		CanDelete: authz.CanDeleteJob(user, job),
		Proposals: []*domain.Proposal{},
	}
	if authz.CanViewJobProposals(user, job) {
		proposals, err := h.proposals.ListByJob(ctx, job.ID, user)
		if err != nil {
			return err
		}
		resp.Proposals = proposals
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /jobs/:id and POST /jobs/:id/delete. Every proposal
// on the job is removed with it.
//
// @Summary      Delete a job
// @Tags         jobs
// @Produce      json
// @Security     SessionAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  deleteJobResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /jobs/{id} [delete]
func (h *JobHandler) Delete(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	removed, err := h.jobs.Delete(c.Request().Context(), user, id)
	if err != nil {
		return err
	}
	metrics.JobsDeletedTotal.Inc()
	metrics.ProposalsCascadedTotal.Add(float64(removed))

	return c.JSON(http.StatusOK, deleteJobResponse{ID: id, ProposalsRemoved: removed})
}
