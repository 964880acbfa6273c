package handler

import (
	"medquest/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Routes bundles everything mounted under /api.
type Routes struct {
	Auth           *AuthHandler
	Users          *UserHandler
	Chats          *ChatHandler
	Health         *HealthHandler
	Tokens         middleware.TokenValidator
	LeaderboardMax int
}

func (r Routes) Register(app *fiber.App) {
	vm := middleware.NewValidationMiddleware()
	protected := middleware.Protected(r.Tokens)

	api := app.Group("/api")
	api.Get("/health", r.Health.Check)

	authGroup := api.Group("/auth")
	authGroup.Post("/token", r.Auth.Login)
	authGroup.Post("/token/refresh", r.Auth.RefreshToken)

	users := api.Group("/users")
	users.Post("/register", r.Auth.Register)
	users.Get("/profile", protected, r.Users.GetMyProfile)
	users.Get("/top-users", vm.ValidateLimit(r.LeaderboardMax), r.Users.GetTopUsers)

	chats := api.Group("/chats", protected)
	chats.Post("/", r.Chats.CreateChat)
	chats.Get("/", r.Chats.ListChats)
	chats.Get("/:id", vm.ValidateChatID(), r.Chats.GetChat)
	chats.Delete("/:id", vm.ValidateChatID(), r.Chats.DeleteChat)
	chats.Post("/:id/send_message", vm.ValidateChatID(), r.Chats.SendMessage)
	chats.Post("/:id/end_game", vm.ValidateChatID(), r.Chats.EndGame)
}
