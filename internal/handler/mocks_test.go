package handler_test

import (
	"context"
	"time"

	"medquest/internal/domain"
	"medquest/internal/dto"
	"medquest/internal/service"
)

// --- Manual Mocks ---

type MockAuthService struct {
	RegisterFunc     func(ctx context.Context, email, password, username string) (*domain.User, string, string, error)
	LoginFunc        func(ctx context.Context, email, password string) (string, string, *domain.User, error)
	ValidateJWTFunc  func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	RefreshTokenFunc func(ctx context.Context, refreshTokenString string) (string, string, error)
}

func (m *MockAuthService) Register(ctx context.Context, email, password, username string) (*domain.User, string, string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, username)
	}
	panic("MockAuthService.RegisterFunc not implemented")
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, *domain.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	panic("MockAuthService.LoginFunc not implemented")
}

func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	if tokenString == testToken {
		return &dto.AuthClaims{UserID: doctorID, TokenType: "access"}, nil
	}
	return nil, domain.NewUnauthorizedError("invalid jwt token")
}

func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	panic("MockAuthService.CreateJWT not implemented")
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshTokenString)
	}
	panic("MockAuthService.RefreshTokenFunc not implemented")
}

type MockChatService struct {
	CreateChatFunc  func(ctx context.Context, doctorID string, difficulty domain.Difficulty) (*domain.Chat, error)
	ListChatsFunc   func(ctx context.Context, doctorID string, filter domain.ChatFilter) ([]*domain.Chat, int, error)
	GetChatFunc     func(ctx context.Context, doctorID, chatID string) (*domain.Chat, error)
	DeleteChatFunc  func(ctx context.Context, doctorID, chatID string) error
	SendMessageFunc func(ctx context.Context, doctorID, chatID, content string) (*domain.Message, error)
	EndGameFunc     func(ctx context.Context, doctorID, chatID, answer string) (*domain.Evaluation, error)
}

func (m *MockChatService) CreateChat(ctx context.Context, doctorID string, difficulty domain.Difficulty) (*domain.Chat, error) {
	if m.CreateChatFunc != nil {
		return m.CreateChatFunc(ctx, doctorID, difficulty)
	}
	panic("MockChatService.CreateChatFunc not implemented")
}

func (m *MockChatService) ListChats(ctx context.Context, doctorID string, filter domain.ChatFilter) ([]*domain.Chat, int, error) {
	if m.ListChatsFunc != nil {
		return m.ListChatsFunc(ctx, doctorID, filter)
	}
	panic("MockChatService.ListChatsFunc not implemented")
}

func (m *MockChatService) GetChat(ctx context.Context, doctorID, chatID string) (*domain.Chat, error) {
	if m.GetChatFunc != nil {
		return m.GetChatFunc(ctx, doctorID, chatID)
	}
	panic("MockChatService.GetChatFunc not implemented")
}

func (m *MockChatService) DeleteChat(ctx context.Context, doctorID, chatID string) error {
	if m.DeleteChatFunc != nil {
		return m.DeleteChatFunc(ctx, doctorID, chatID)
	}
	panic("MockChatService.DeleteChatFunc not implemented")
}

func (m *MockChatService) SendMessage(ctx context.Context, doctorID, chatID, content string) (*domain.Message, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, doctorID, chatID, content)
	}
	panic("MockChatService.SendMessageFunc not implemented")
}

func (m *MockChatService) EndGame(ctx context.Context, doctorID, chatID, answer string) (*domain.Evaluation, error) {
	if m.EndGameFunc != nil {
		return m.EndGameFunc(ctx, doctorID, chatID, answer)
	}
	panic("MockChatService.EndGameFunc not implemented")
}

type MockRankingService struct {
	GetMyProfileFunc   func(ctx context.Context, userID string) (*domain.Profile, error)
	GetTopProfilesFunc func(ctx context.Context, limit int) ([]*domain.Profile, error)
}

func (m *MockRankingService) UpdatePoints(ctx context.Context, userID string) (bool, error) {
	panic("MockRankingService.UpdatePoints not implemented")
}

func (m *MockRankingService) UpdateRanks(ctx context.Context) error {
	panic("MockRankingService.UpdateRanks not implemented")
}

func (m *MockRankingService) GetMyProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.GetMyProfileFunc != nil {
		return m.GetMyProfileFunc(ctx, userID)
	}
	panic("MockRankingService.GetMyProfileFunc not implemented")
}

func (m *MockRankingService) GetTopProfiles(ctx context.Context, limit int) ([]*domain.Profile, error) {
	if m.GetTopProfilesFunc != nil {
		return m.GetTopProfilesFunc(ctx, limit)
	}
	panic("MockRankingService.GetTopProfilesFunc not implemented")
}

func (m *MockRankingService) RecomputeAll(ctx context.Context) (int, error) {
	panic("MockRankingService.RecomputeAll not implemented")
}

func (m *MockRankingService) InvalidateLeaderboard(ctx context.Context) {}

type MockPinger struct {
	Err error
}

func (m *MockPinger) PingContext(ctx context.Context) error { return m.Err }

type MockCache struct {
	domain.Cache
	PingErr error
}

func (m *MockCache) Ping(ctx context.Context) error { return m.PingErr }

var _ service.AuthService = (*MockAuthService)(nil)
var _ service.ChatService = (*MockChatService)(nil)
var _ service.RankingService = (*MockRankingService)(nil)
