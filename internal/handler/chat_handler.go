package handler

import (
	"strconv"

	"medquest/internal/domain"
	"medquest/internal/dto"
	"medquest/internal/logger"
	"medquest/internal/middleware"
	"medquest/internal/service"
	"medquest/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultChatPageSize = 10
	maxChatPageSize     = 100
)

type ChatHandler struct {
	chats     service.ChatService
	validator *validation.Validator
}

func NewChatHandler(chats service.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats, validator: validation.NewValidator()}
}

func chatIDParam(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.ChatIDKey).(string); ok {
		return id
	}
	return c.Params("id")
}

// CreateChat starts a game with a freshly generated patient.
// @Summary Create chat
// @Description Generates a patient for the requested difficulty. The diagnosis stays server-side.
// @Tags chats
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateChatRequest false "Difficulty"
// @Success 201 {object} dto.ChatResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse "Patient generation failed"
// @Router /chats [post]
func (h *ChatHandler) CreateChat(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateChatRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.NewValidationError("invalid request body")
		}
	}
	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		return err
	}

	chat, err := h.chats.CreateChat(c.Context(), userID, difficulty)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewChatResponse(chat))
}

// ListChats returns the caller's chats, newest first.
// @Summary List chats
// @Tags chats
// @Security ApiKeyAuth
// @Produce json
// @Param is_finished query bool false "Filter by state"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param page query int false "1-based page"
// @Success 200 {object} dto.ChatListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /chats [get]
func (h *ChatHandler) ListChats(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var errs domain.ValidationErrors
	var isFinished *bool
	if raw := c.Query("is_finished"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, domain.NewInvalidFormatError("is_finished", raw))
		} else {
			isFinished = &v
		}
	}

	p := dto.Pagination{Limit: defaultChatPageSize, Page: 1}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxChatPageSize {
			errs = append(errs, domain.NewOutOfRangeError("limit", raw, 1, maxChatPageSize))
		} else {
			p.Limit = v
		}
	}
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			errs = append(errs, domain.NewInvalidFormatError("page", raw))
		} else {
			p.Page = v
		}
	}
	if len(errs) > 0 {
		return errs
	}

	chats, total, err := h.chats.ListChats(c.Context(), userID, domain.ChatFilter{
		IsFinished: isFinished,
		Limit:      p.Limit,
		Offset:     p.Offset(),
	})
	if err != nil {
		return err
	}

	resp := dto.ChatListResponse{
		Chats:          make([]dto.ChatResponse, 0, len(chats)),
		PaginationInfo: dto.NewPaginationInfo(total, p),
	}
	for _, chat := range chats {
		resp.Chats = append(resp.Chats, dto.NewChatResponse(chat))
	}
	return c.JSON(resp)
}

// GetChat returns one of the caller's chats with its messages.
// @Summary Get chat
// @Tags chats
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Chat ID"
// @Success 200 {object} dto.ChatResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /chats/{id} [get]
func (h *ChatHandler) GetChat(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	chat, err := h.chats.GetChat(c.Context(), userID, chatIDParam(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewChatResponse(chat))
}

// DeleteChat removes a chat and its messages.
// @Summary Delete chat
// @Tags chats
// @Security ApiKeyAuth
// @Param id path string true "Chat ID"
// @Success 204
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /chats/{id} [delete]
func (h *ChatHandler) DeleteChat(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	if err := h.chats.DeleteChat(c.Context(), userID, chatIDParam(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SendMessage asks the patient a question.
// @Summary Send message
// @Description Stores the doctor's question and the patient's in-character reply.
// @Tags chats
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Chat ID"
// @Param request body dto.SendMessageRequest true "Question"
// @Success 201 {object} dto.ChatMessageResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Chat already finished"
// @Failure 502 {object} middleware.ErrorResponse "Patient reply failed"
// @Router /chats/{id}/send_message [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if errs := h.validator.ValidateMessageContent(req.Content); len(errs) > 0 {
		return errs
	}

	reply, err := h.chats.SendMessage(c.Context(), userID, chatIDParam(c), req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewChatMessageResponse(*reply))
}

// EndGame submits the final diagnosis.
// @Summary End game
// @Description Scores the interview once. Replays are rejected.
// @Tags chats
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Chat ID"
// @Param request body dto.EndGameRequest true "Final diagnosis"
// @Success 200 {object} dto.EndGameResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Chat already finished"
// @Failure 502 {object} middleware.ErrorResponse "Evaluation failed"
// @Router /chats/{id}/end_game [post]
func (h *ChatHandler) EndGame(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req dto.EndGameRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if errs := h.validator.ValidateAnswer(req.Answer); len(errs) > 0 {
		return errs
	}

	eval, err := h.chats.EndGame(c.Context(), userID, chatIDParam(c), req.Answer)
	if err != nil {
		return err
	}
	logger.Get().Debug("End game response", zap.String("chat_id", chatIDParam(c)), zap.Int("score", eval.Score))
	return c.JSON(dto.NewEndGameResponse(eval))
}
