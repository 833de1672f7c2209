package server

import (
	"strings"

	"uniconnect/internal/middleware"
	"uniconnect/internal/models"

	"github.com/gofiber/fiber/v2"
)

type startupRequest struct {
	Name             string `json:"name" form:"name"`
	ProblemStatement string `json:"problem_statement" form:"problem_statement"`
	SolutionApproach string `json:"solution_approach" form:"solution_approach"`
	BusinessModel    string `json:"business_model" form:"business_model"`
	MarketAudience   string `json:"market_audience" form:"market_audience"`
	FundingRequired  string `json:"funding_required" form:"funding_required"`
	Category         string `json:"category" form:"category"`
}

// CreateStartup handles POST /api/startups/create
func (s *Server) CreateStartup(c *fiber.Ctx) error {
	var req startupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Name) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Startup name is required"))
	}

	ctx := c.UserContext()
	userID := middleware.UserID(c)
	owner, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return respondErr(c, err)
	}

	startup := &models.StartupRecord{
		UserID:           userID,
		Name:             strings.TrimSpace(req.Name),
		ProblemStatement: req.ProblemStatement,
		SolutionApproach: req.SolutionApproach,
		BusinessModel:    req.BusinessModel,
		MarketAudience:   req.MarketAudience,
		FundingRequired:  req.FundingRequired,
		Category:         req.Category,
		StudentName:      owner.Username,
	}
	if err := s.startupRepo.Create(ctx, startup); err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStartup(startup))
}

// ListStartups handles GET /api/startups/list
func (s *Server) ListStartups(c *fiber.Ctx) error {
	startups, err := s.startupRepo.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	out := make([]startupResponse, 0, len(startups))
	for i := range startups {
		out = append(out, toStartup(&startups[i]))
	}
	return c.JSON(out)
}

// VoteStartup handles POST /api/startups/vote. Voting twice withdraws the vote.
func (s *Server) VoteStartup(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	startupID, err := parseID(c.FormValue("startup_id"), "startup_id")
	if err != nil {
		return respondErr(c, err)
	}

	ctx := c.UserContext()
	if _, err := s.startupRepo.GetByID(ctx, startupID, userID); err != nil {
		return respondErr(c, err)
	}
	if _, err := s.startupRepo.ToggleVote(ctx, userID, startupID); err != nil {
		return respondErr(c, err)
	}

	startup, err := s.startupRepo.GetByID(ctx, startupID, userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(toStartup(startup))
}

// ConnectWithUser handles POST /api/connections
func (s *Server) ConnectWithUser(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	targetID, err := parseID(c.FormValue("user_id"), "user_id")
	if err != nil {
		return respondErr(c, err)
	}

	ctx := c.UserContext()
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return respondErr(c, err)
	}
	if err := s.connRepo.Request(ctx, userID, targetID); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
