package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigboard/marketplace/internal/core/ports"
)

// DashboardHandler serves the per-role overview pages.
type DashboardHandler struct {
	jobs      ports.JobService
	proposals ports.ProposalService
}

func NewDashboardHandler(jobs ports.JobService, proposals ports.ProposalService) *DashboardHandler {
	return &DashboardHandler{jobs: jobs, proposals: proposals}
}

// Home redirects to the dashboard matching the user's role.
//
// @Summary      Dashboard for the current role
// @Tags         dashboard
// @Security     SessionAuth
// @Success      302
// @Failure      401  {object}  errorResponse
// @Router       /dashboard [get]
func (h *DashboardHandler) Home(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	if user.IsClient() {
		return c.Redirect(http.StatusFound, "/dashboard/client")
	}
	return c.Redirect(http.StatusFound, "/dashboard/freelancer")
}

// Client lists the jobs posted by the signed-in client.
//
// @Summary      Client dashboard
// @Tags         dashboard
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  clientDashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /dashboard/client [get]
func (h *DashboardHandler) Client(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	jobs, err := h.jobs.ListByClient(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientDashboardResponse{User: user, Jobs: jobs})
}

// Freelancer lists the signed-in freelancer's proposals with job titles.
//
// @Summary      Freelancer dashboard
// @Tags         dashboard
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  freelancerDashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /dashboard/freelancer [get]
func (h *DashboardHandler) Freelancer(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	proposals, err := h.proposals.ListByFreelancer(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, freelancerDashboardResponse{User: user, Proposals: proposals})
}
