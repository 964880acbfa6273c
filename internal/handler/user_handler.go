package handler

import (
	"medquest/internal/domain"
	"medquest/internal/dto"
	"medquest/internal/middleware"
	"medquest/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	ranking service.RankingService
}

func NewUserHandler(ranking service.RankingService) *UserHandler {
	return &UserHandler{ranking: ranking}
}

func requireUserID(c *fiber.Ctx) (string, error) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return "", domain.NewUnauthorizedError("user id not found in context")
	}
	return userID, nil
}

// GetMyProfile retrieves the profile of the currently authenticated user.
// @Summary Get My Profile
// @Description Recomputes the caller's points from finished chats and returns points and rank.
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "Profile not found"
// @Router /users/profile [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.ranking.GetMyProfile(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProfileResponse(profile))
}

// GetTopUsers returns the public leaderboard.
// @Summary Leaderboard
// @Description Profiles ordered by rank.
// @Tags users
// @Produce json
// @Param limit query int false "Number of entries (default 10, max 100)"
// @Success 200 {object} dto.TopUsersResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /users/top-users [get]
func (h *UserHandler) GetTopUsers(c *fiber.Ctx) error {
	limit, _ := c.Locals(middleware.LimitKey).(int)

	profiles, err := h.ranking.GetTopProfiles(c.Context(), limit)
	if err != nil {
		return err
	}

	users := make([]dto.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		resp := dto.NewProfileResponse(p)
		resp.Email = ""
		users = append(users, resp)
	}
	return c.JSON(dto.TopUsersResponse{Users: users})
}
