package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"medquest/internal/cache"
	"medquest/internal/config"
	"medquest/internal/domain"
	"medquest/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RankingService keeps profile points and ranks consistent with finished chats.
type RankingService interface {
	// UpdatePoints recomputes the user's points and re-ranks everyone if they
	// changed. It joins the caller's transaction when there is one.
	UpdatePoints(ctx context.Context, userID string) (bool, error)
	// UpdateRanks assigns positional ranks to all profiles.
	UpdateRanks(ctx context.Context) error
	GetMyProfile(ctx context.Context, userID string) (*domain.Profile, error)
	GetTopProfiles(ctx context.Context, limit int) ([]*domain.Profile, error)
	// RecomputeAll rebuilds every profile's points, then ranks once.
	RecomputeAll(ctx context.Context) (int, error)
	// InvalidateLeaderboard drops cached top lists. Call it after commit.
	InvalidateLeaderboard(ctx context.Context)
}

type rankingService struct {
	profileRepo domain.ProfileRepository
	chatRepo    domain.ChatRepository
	txManager   domain.TransactionManager
	cache       domain.Cache
	cfg         config.LeaderboardConfig
	group       singleflight.Group
}

// NewRankingService wires the engine. cache may be nil, in which case the
// leaderboard is always read from the database.
func NewRankingService(
	profileRepo domain.ProfileRepository,
	chatRepo domain.ChatRepository,
	txManager domain.TransactionManager,
	cache domain.Cache,
	cfg config.LeaderboardConfig,
) RankingService {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	return &rankingService{
		profileRepo: profileRepo,
		chatRepo:    chatRepo,
		txManager:   txManager,
		cache:       cache,
		cfg:         cfg,
	}
}

func (s *rankingService) UpdatePoints(ctx context.Context, userID string) (bool, error) {
	changed := false
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		changed, err = s.updatePoints(ctx, userID)
		return err
	})
	return changed, err
}

func (s *rankingService) updatePoints(ctx context.Context, userID string) (bool, error) {
	// Lock before reading so the sum and the ranking see every committed game.
	if err := s.lockRanking(ctx); err != nil {
		return false, err
	}
	profile, err := s.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return false, domain.NewInternalError("failed to load profile", err)
	}
	if profile == nil {
		return false, domain.NewNotFoundError("profile not found").WithContext("user_id", userID)
	}

	points, err := s.chatRepo.SumFinishedScores(ctx, userID)
	if err != nil {
		return false, domain.NewInternalError("failed to sum scores", err)
	}
	if points == profile.Points {
		return false, nil
	}

	if err := s.profileRepo.UpdatePoints(ctx, userID, points); err != nil {
		return false, err
	}
	logger.Get().Info("Profile points updated",
		zap.String("user_id", userID),
		zap.Int("old_points", profile.Points),
		zap.Int("new_points", points))

	if err := s.updateRanks(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *rankingService) UpdateRanks(ctx context.Context) error {
	return s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.lockRanking(ctx); err != nil {
			return err
		}
		return s.updateRanks(ctx)
	})
}

func (s *rankingService) lockRanking(ctx context.Context) error {
	if err := s.profileRepo.LockRanking(ctx); err != nil {
		return domain.NewInternalError("failed to lock ranking", err)
	}
	return nil
}

func (s *rankingService) updateRanks(ctx context.Context) error {
	entries, err := s.profileRepo.ListRankEntries(ctx)
	if err != nil {
		return domain.NewInternalError("failed to load ranking", err)
	}
	_, changed := domain.AssignRanks(entries)
	for _, e := range changed {
		if err := s.profileRepo.UpdateRank(ctx, e.ProfileID, e.Rank); err != nil {
			return domain.NewInternalError("failed to persist rank", err)
		}
	}
	logger.Get().Debug("Ranks recomputed",
		zap.Int("profiles", len(entries)),
		zap.Int("changed", len(changed)))
	return nil
}

// GetMyProfile refreshes the caller's points before returning the profile.
func (s *rankingService) GetMyProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	changed, err := s.UpdatePoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	if changed {
		s.InvalidateLeaderboard(ctx)
	}

	profile, err := s.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load profile", err)
	}
	if profile == nil {
		return nil, domain.NewNotFoundError("profile not found").WithContext("user_id", userID)
	}
	return profile, nil
}

type cachedProfile struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Points   int    `json:"points"`
	Rank     int    `json:"rank"`
}

func (s *rankingService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

func (s *rankingService) GetTopProfiles(ctx context.Context, limit int) ([]*domain.Profile, error) {
	limit = s.clampLimit(limit)
	field := strconv.Itoa(limit)
	generation := s.leaderboardGeneration(ctx)
	l := logger.Get()

	if generation != "" {
		raw, err := s.cache.HGet(ctx, cache.LeaderboardKey(generation), field)
		switch {
		case err == nil:
			var cached []cachedProfile
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return fromCached(cached), nil
			}
			l.Warn("Discarding corrupt leaderboard cache entry", zap.String("field", field))
		case !errors.Is(err, domain.ErrCacheMiss):
			l.Warn("Leaderboard cache read failed", zap.Error(err))
		}
	}

	// Loads for different generations must not share a result.
	v, err, _ := s.group.Do(generation+"/"+field, func() (interface{}, error) {
		profiles, err := s.profileRepo.ListTopProfiles(ctx, limit)
		if err != nil {
			return nil, domain.NewInternalError("failed to load leaderboard", err)
		}
		if generation != "" {
			s.storeTop(ctx, generation, field, profiles)
		}
		return profiles, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Profile), nil
}

// leaderboardGeneration returns the current cache generation, "0" before the
// first invalidation, or "" when the cache is unavailable and must be skipped.
// It is read before the database so a snapshot taken before an invalidation
// is filed under the generation that invalidation retired.
func (s *rankingService) leaderboardGeneration(ctx context.Context) string {
	if s.cache == nil {
		return ""
	}
	gen, err := s.cache.Get(ctx, cache.LeaderboardGenerationKey())
	switch {
	case err == nil:
		return gen
	case errors.Is(err, domain.ErrCacheMiss):
		return "0"
	default:
		logger.Get().Warn("Leaderboard generation read failed", zap.Error(err))
		return ""
	}
}

func (s *rankingService) storeTop(ctx context.Context, generation, field string, profiles []*domain.Profile) {
	cached := make([]cachedProfile, len(profiles))
	for i, p := range profiles {
		cached[i] = cachedProfile{UserID: p.UserID, Email: p.Email, Username: p.Username, Points: p.Points, Rank: p.Rank}
	}
	b, err := json.Marshal(cached)
	if err != nil {
		return
	}
	key := cache.LeaderboardKey(generation)
	if err := s.cache.HSet(ctx, key, field, string(b)); err != nil {
		logger.Get().Warn("Leaderboard cache write failed", zap.Error(err))
		return
	}
	if err := s.cache.Expire(ctx, key, s.cfg.CacheTTL); err != nil {
		logger.Get().Warn("Leaderboard cache expire failed", zap.Error(err))
	}
}

func fromCached(cached []cachedProfile) []*domain.Profile {
	out := make([]*domain.Profile, len(cached))
	for i, c := range cached {
		out[i] = &domain.Profile{UserID: c.UserID, Email: c.Email, Username: c.Username, Points: c.Points, Rank: c.Rank}
	}
	return out
}

func (s *rankingService) InvalidateLeaderboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	// Bumping the generation retires every hash written under the old one,
	// including one a concurrent miss is about to write. Old hashes expire.
	if _, err := s.cache.Incr(ctx, cache.LeaderboardGenerationKey()); err != nil {
		logger.Get().Warn("Leaderboard cache invalidation failed", zap.Error(err))
	}
}

func (s *rankingService) RecomputeAll(ctx context.Context) (int, error) {
	updated := 0
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.lockRanking(ctx); err != nil {
			return err
		}
		userIDs, err := s.profileRepo.ListUserIDs(ctx)
		if err != nil {
			return domain.NewInternalError("failed to list profiles", err)
		}
		for _, id := range userIDs {
			points, err := s.chatRepo.SumFinishedScores(ctx, id)
			if err != nil {
				return domain.NewInternalError(fmt.Sprintf("failed to sum scores for %s", id), err)
			}
			if err := s.profileRepo.UpdatePoints(ctx, id, points); err != nil {
				return err
			}
			updated++
		}
		return s.updateRanks(ctx)
	})
	if err != nil {
		return 0, err
	}
	s.InvalidateLeaderboard(ctx)
	return updated, nil
}
