package service

import (
	"context"
	"time"

	"medquest/internal/cache"
	"medquest/internal/config"
	"medquest/internal/domain"
	"medquest/internal/logger"

	"go.uber.org/zap"
)

// ChatService drives a game from patient generation to final evaluation.
type ChatService interface {
	CreateChat(ctx context.Context, doctorID string, difficulty domain.Difficulty) (*domain.Chat, error)
	ListChats(ctx context.Context, doctorID string, filter domain.ChatFilter) ([]*domain.Chat, int, error)
	GetChat(ctx context.Context, doctorID, chatID string) (*domain.Chat, error)
	DeleteChat(ctx context.Context, doctorID, chatID string) error
	SendMessage(ctx context.Context, doctorID, chatID, content string) (*domain.Message, error)
	EndGame(ctx context.Context, doctorID, chatID, answer string) (*domain.Evaluation, error)
}

type chatService struct {
	chatRepo    domain.ChatRepository
	messageRepo domain.MessageRepository
	txManager   domain.TransactionManager
	generator   domain.PatientGenerator
	responder   domain.PatientResponder
	evaluator   domain.DiagnosisEvaluator
	ranking     RankingService
	cache       domain.Cache
	cfg         config.GameConfig
	now         func() time.Time
}

// ChatDeps groups the collaborators of NewChatService.
type ChatDeps struct {
	ChatRepo    domain.ChatRepository
	MessageRepo domain.MessageRepository
	TxManager   domain.TransactionManager
	Generator   domain.PatientGenerator
	Responder   domain.PatientResponder
	Evaluator   domain.DiagnosisEvaluator
	Ranking     RankingService
	// Cache holds finalization leases. Optional.
	Cache domain.Cache
}

func NewChatService(deps ChatDeps, cfg config.GameConfig) ChatService {
	if cfg.FinalizeLeaseTTL <= 0 {
		cfg.FinalizeLeaseTTL = 2 * time.Minute
	}
	return &chatService{
		chatRepo:    deps.ChatRepo,
		messageRepo: deps.MessageRepo,
		txManager:   deps.TxManager,
		generator:   deps.Generator,
		responder:   deps.Responder,
		evaluator:   deps.Evaluator,
		ranking:     deps.Ranking,
		cache:       deps.Cache,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *chatService) CreateChat(ctx context.Context, doctorID string, difficulty domain.Difficulty) (*domain.Chat, error) {
	if !difficulty.Valid() {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("difficulty", string(difficulty))}
	}

	patient, err := s.generator.GeneratePatient(ctx, difficulty)
	if err != nil {
		return nil, err
	}

	chat := &domain.Chat{
		DoctorID:         doctorID,
		PatientData:      patient.PatientData,
		PatientResponses: patient.PatientResponses,
		Difficulty:       difficulty,
		CorrectDiagnosis: patient.CorrectDiagnosis,
		StartTime:        s.now(),
	}
	if err := s.chatRepo.CreateChat(ctx, chat); err != nil {
		return nil, domain.NewInternalError("failed to save chat", err)
	}

	logger.Get().Info("Chat created",
		zap.String("chat_id", chat.ID),
		zap.String("doctor_id", doctorID),
		zap.String("difficulty", string(difficulty)))
	return chat, nil
}

func (s *chatService) ListChats(ctx context.Context, doctorID string, filter domain.ChatFilter) ([]*domain.Chat, int, error) {
	chats, total, err := s.chatRepo.ListChatsByDoctor(ctx, doctorID, filter)
	if err != nil {
		return nil, 0, domain.NewInternalError("failed to list chats", err)
	}
	return chats, total, nil
}

// GetChat hides other doctors' chats behind NotFound.
func (s *chatService) GetChat(ctx context.Context, doctorID, chatID string) (*domain.Chat, error) {
	chat, err := s.loadChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.OwnedBy(doctorID) {
		return nil, domain.NewNotFoundError("chat not found").WithContext("chat_id", chatID)
	}
	if err := s.loadMessages(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *chatService) DeleteChat(ctx context.Context, doctorID, chatID string) error {
	chat, err := s.loadOwnedChat(ctx, doctorID, chatID)
	if err != nil {
		return err
	}

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.chatRepo.DeleteChat(ctx, chat.ID); err != nil {
			return err
		}
		_, err := s.ranking.UpdatePoints(ctx, doctorID)
		return err
	})
	if err != nil {
		return err
	}
	s.ranking.InvalidateLeaderboard(ctx)
	logger.Get().Info("Chat deleted", zap.String("chat_id", chatID), zap.String("doctor_id", doctorID))
	return nil
}

func (s *chatService) SendMessage(ctx context.Context, doctorID, chatID, content string) (*domain.Message, error) {
	chat, err := s.loadOwnedChat(ctx, doctorID, chatID)
	if err != nil {
		return nil, err
	}
	if chat.IsFinished {
		return nil, domain.NewAlreadyFinishedError(chat.ID)
	}

	reply, err := s.responder.Respond(ctx, chat, content)
	if err != nil {
		return nil, err
	}

	asked := s.now()
	question := &domain.Message{ChatID: chat.ID, Sender: domain.SenderDoctor, Content: content, CreatedAt: asked}
	answer := &domain.Message{ChatID: chat.ID, Sender: domain.SenderPatient, Content: reply, CreatedAt: asked.Add(time.Millisecond)}

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.messageRepo.CreateMessage(ctx, question); err != nil {
			return domain.NewInternalError("failed to save doctor message", err)
		}
		if err := s.messageRepo.CreateMessage(ctx, answer); err != nil {
			return domain.NewInternalError("failed to save patient message", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return answer, nil
}

// EndGame finalizes a chat at most once. The lease only saves a duplicate
// evaluation call; the conditional update decides the winner.
func (s *chatService) EndGame(ctx context.Context, doctorID, chatID, answer string) (*domain.Evaluation, error) {
	appLogger := logger.Get()

	chat, err := s.loadOwnedChat(ctx, doctorID, chatID)
	if err != nil {
		return nil, err
	}
	if chat.IsFinished {
		return nil, domain.NewAlreadyFinishedError(chat.ID)
	}

	release, err := s.acquireLease(ctx, chat.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.loadMessages(ctx, chat); err != nil {
		return nil, err
	}

	eval, err := s.evaluator.Evaluate(ctx, chat, answer)
	if err != nil {
		appLogger.Warn("Evaluation failed", zap.String("chat_id", chat.ID), zap.Error(err))
		return nil, err
	}

	if err := chat.Finish(answer, eval, s.now()); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		won, err := s.chatRepo.FinishChat(ctx, chat)
		if err != nil {
			return domain.NewInternalError("failed to finish chat", err)
		}
		if !won {
			return domain.NewAlreadyFinishedError(chat.ID)
		}
		_, err = s.ranking.UpdatePoints(ctx, doctorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.ranking.InvalidateLeaderboard(ctx)

	appLogger.Info("Game finished",
		zap.String("chat_id", chat.ID),
		zap.String("doctor_id", doctorID),
		zap.Int("score", eval.Score))

	if eval.CorrectDiagnosis == "" {
		eval.CorrectDiagnosis = chat.CorrectDiagnosis
	}
	return eval, nil
}

// acquireLease takes the per-chat finalization key. A cache outage degrades
// to relying on the conditional update alone.
func (s *chatService) acquireLease(ctx context.Context, chatID string) (func(), error) {
	noop := func() {}
	if s.cache == nil {
		return noop, nil
	}

	key := cache.FinalizeLeaseKey(chatID)
	ok, err := s.cache.SetNX(ctx, key, "1", s.cfg.FinalizeLeaseTTL)
	if err != nil {
		logger.Get().Warn("Finalization lease unavailable", zap.String("chat_id", chatID), zap.Error(err))
		return noop, nil
	}
	if !ok {
		return nil, domain.NewAlreadyFinishedError(chatID).WithContext("reason", "finalization in progress")
	}

	return func() {
		// The request context may already be cancelled.
		if err := s.cache.Delete(context.WithoutCancel(ctx), key); err != nil {
			logger.Get().Warn("Failed to release finalization lease", zap.String("chat_id", chatID), zap.Error(err))
		}
	}, nil
}

func (s *chatService) loadChat(ctx context.Context, chatID string) (*domain.Chat, error) {
	chat, err := s.chatRepo.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load chat", err)
	}
	if chat == nil {
		return nil, domain.NewNotFoundError("chat not found").WithContext("chat_id", chatID)
	}
	return chat, nil
}

func (s *chatService) loadOwnedChat(ctx context.Context, doctorID, chatID string) (*domain.Chat, error) {
	chat, err := s.loadChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.OwnedBy(doctorID) {
		return nil, domain.NewForbiddenError("chat belongs to another doctor").WithContext("chat_id", chatID)
	}
	return chat, nil
}

func (s *chatService) loadMessages(ctx context.Context, chat *domain.Chat) error {
	msgs, err := s.messageRepo.ListMessagesByChat(ctx, chat.ID)
	if err != nil {
		return domain.NewInternalError("failed to load messages", err)
	}
	chat.Messages = msgs
	return nil
}
