package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigboard/marketplace/internal/core/domain"
	"github.com/gigboard/marketplace/internal/core/ports"
	"github.com/gigboard/marketplace/internal/metrics"
)

// ProposalHandler handles HTTP requests for proposals.
type ProposalHandler struct {
	proposals ports.ProposalService
}

func NewProposalHandler(proposals ports.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposals: proposals}
}

// Submit handles POST /jobs/:id/proposals.
//
// @Summary      Apply to a job
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        id    path      string                 true  "Job id"
// @Param        body  body      submitProposalRequest  true  "Bid and cover letter"
// @Success      201   {object}  domain.Proposal
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /jobs/{id}/proposals [post]
func (h *ProposalHandler) Submit(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var req submitProposalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	proposal, err := h.proposals.Submit(c.Request().Context(), user, c.Param("id"), domain.ProposalFields{
		BidAmount:   req.BidAmount,
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateProposal) {
			metrics.ProposalsTotal.WithLabelValues("duplicate").Inc()
		}
		return err
	}
	metrics.ProposalsTotal.WithLabelValues("submitted").Inc()

	return c.JSON(http.StatusCreated, proposal)
}

// Delete handles DELETE /proposals/:id and POST /proposals/:id/delete.
//
// @Summary      Withdraw a proposal
// @Tags         proposals
// @Security     SessionAuth
// @Param        id   path  string  true  "Proposal id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /proposals/{id} [delete]
func (h *ProposalHandler) Delete(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.proposals.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	metrics.ProposalsTotal.WithLabelValues("withdrawn").Inc()

	return c.NoContent(http.StatusNoContent)
}
