package server

import (
	"strconv"

	"uniconnect/internal/middleware"
	"uniconnect/internal/models"
	"uniconnect/internal/seed"

	"github.com/gofiber/fiber/v2"
)

const recommendedLimit = 5

// Dashboard handles GET /api/dashboard. The static sections come from the
// demo fixtures; recommended users and posts_data come from the database.
func (s *Server) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	data := seed.Dashboard()

	others, err := s.userRepo.ListOthers(ctx, userID, recommendedLimit)
	if err != nil {
		return respondErr(c, err)
	}
	connected, err := s.connRepo.Targets(ctx, userID)
	if err != nil {
		return respondErr(c, err)
	}
	if len(others) > 0 {
		data.Recommended = make([]models.RecommendedUser, 0, len(others))
		for _, u := range others {
			data.Recommended = append(data.Recommended, models.RecommendedUser{
				ID:          strconv.FormatUint(uint64(u.ID), 10),
				Name:        u.Username,
				Role:        u.UserType,
				Type:        models.Role(u.UserType),
				IsConnected: connected[u.ID],
			})
		}
	}

	posts, err := s.postRepo.List(ctx, defaultPostLimit, 0, userID)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(dashboardResponse{
		DashboardData: data,
		PostsData:     toPosts(posts),
	})
}
