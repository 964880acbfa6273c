package service

import (
	"context"
	"sync"
	"time"

	"medquest/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- MockProfileRepository ---
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) UpdatePoints(ctx context.Context, userID string, points int) error {
	args := m.Called(ctx, userID, points)
	return args.Error(0)
}

func (m *MockProfileRepository) LockRanking(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProfileRepository) ListRankEntries(ctx context.Context) ([]domain.RankEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RankEntry), args.Error(1)
}

func (m *MockProfileRepository) UpdateRank(ctx context.Context, profileID string, rank int) error {
	args := m.Called(ctx, profileID, rank)
	return args.Error(0)
}

func (m *MockProfileRepository) ListTopProfiles(ctx context.Context, limit int) ([]*domain.Profile, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- MockChatRepository ---
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) CreateChat(ctx context.Context, chat *domain.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *MockChatRepository) GetChatByID(ctx context.Context, id string) (*domain.Chat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chat), args.Error(1)
}

func (m *MockChatRepository) ListChatsByDoctor(ctx context.Context, doctorID string, filter domain.ChatFilter) ([]*domain.Chat, int, error) {
	args := m.Called(ctx, doctorID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Chat), args.Int(1), args.Error(2)
}

func (m *MockChatRepository) FinishChat(ctx context.Context, chat *domain.Chat) (bool, error) {
	args := m.Called(ctx, chat)
	return args.Bool(0), args.Error(1)
}

func (m *MockChatRepository) DeleteChat(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChatRepository) SumFinishedScores(ctx context.Context, doctorID string) (int, error) {
	args := m.Called(ctx, doctorID)
	return args.Int(0), args.Error(1)
}

// --- MockMessageRepository ---
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) ListMessagesByChat(ctx context.Context, chatID string) ([]domain.Message, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

// --- MockTransactionManager ---
// Runs fn inline; Err, when set, is returned instead of calling fn.
type MockTransactionManager struct {
	Err   error
	Calls int
	mu    sync.Mutex
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}

// --- collaborators of the chat controller ---
type MockPatientGenerator struct {
	mock.Mock
}

func (m *MockPatientGenerator) GeneratePatient(ctx context.Context, difficulty domain.Difficulty) (*domain.PatientCase, error) {
	args := m.Called(ctx, difficulty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PatientCase), args.Error(1)
}

type MockPatientResponder struct {
	mock.Mock
}

func (m *MockPatientResponder) Respond(ctx context.Context, chat *domain.Chat, question string) (string, error) {
	args := m.Called(ctx, chat, question)
	return args.String(0), args.Error(1)
}

type MockDiagnosisEvaluator struct {
	mock.Mock
}

func (m *MockDiagnosisEvaluator) Evaluate(ctx context.Context, chat *domain.Chat, answer string) (*domain.Evaluation, error) {
	args := m.Called(ctx, chat, answer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

// --- MockRankingService ---
type MockRankingService struct {
	mock.Mock
}

func (m *MockRankingService) UpdatePoints(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRankingService) UpdateRanks(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRankingService) GetMyProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockRankingService) GetTopProfiles(ctx context.Context, limit int) ([]*domain.Profile, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

func (m *MockRankingService) RecomputeAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRankingService) InvalidateLeaderboard(ctx context.Context) {
	m.Called(ctx)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, expiration)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCache) HGet(ctx context.Context, key, field string) (string, error) {
	args := m.Called(ctx, key, field)
	return args.String(0), args.Error(1)
}

func (m *MockCache) HSet(ctx context.Context, key string, field string, value string) error {
	args := m.Called(ctx, key, field, value)
	return args.Error(0)
}

func (m *MockCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	args := m.Called(ctx, key, expiration)
	return args.Error(0)
}

// Ensure all required methods for interfaces are present in the mocks
var _ domain.UserRepository = (*MockUserRepository)(nil)
var _ domain.ProfileRepository = (*MockProfileRepository)(nil)
var _ domain.ChatRepository = (*MockChatRepository)(nil)
var _ domain.MessageRepository = (*MockMessageRepository)(nil)
var _ domain.TransactionManager = (*MockTransactionManager)(nil)
var _ domain.PatientGenerator = (*MockPatientGenerator)(nil)
var _ domain.PatientResponder = (*MockPatientResponder)(nil)
var _ domain.DiagnosisEvaluator = (*MockDiagnosisEvaluator)(nil)
var _ RankingService = (*MockRankingService)(nil)
var _ domain.Cache = (*MockCache)(nil)
