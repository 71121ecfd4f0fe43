package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"
	"educonnect_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	globalBoardCacheKey = "leaderboard:global"
	boardCacheTTL       = 60 * time.Second
	defaultBoardLimit   = 50
)

// BoardEntry 排行榜对外条目
type BoardEntry struct {
	Rank     int    `json:"rank"`
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
	Streak   int    `json:"streak"`
	Value    int64  `json:"value"`
	League   string `json:"league"`
	IsMe     bool   `json:"isMe"`
}

// BoardResult 排行榜响应：条目 + 请求者自己的名次
type BoardResult struct {
	Entries    []BoardEntry `json:"entries"`
	MyRank     int          `json:"myRank"`
	TotalUsers int64        `json:"totalUsers,omitempty"`
}

// LeaderboardService 四种排行榜。全站榜走 Redis 短缓存，
// 其余三种按需现算。
type LeaderboardService struct {
	Repo  *repository.LeaderboardRepository
	Redis *redis.Client
}

func NewLeaderboardService(repo *repository.LeaderboardRepository, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{Repo: repo, Redis: rdb}
}

// Global 全站总 XP 排行，分页。首页优先读 Redis 缓存。
func (s *LeaderboardService) Global(ctx context.Context, userID uint, limit, offset int) (*BoardResult, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultBoardLimit
	}
	if offset < 0 {
		offset = 0
	}

	var rows []repository.RankedUser
	cached := false
	if s.Redis != nil && offset == 0 && limit == defaultBoardLimit {
		if raw, err := s.Redis.Get(ctx, globalBoardCacheKey).Bytes(); err == nil {
			if json.Unmarshal(raw, &rows) == nil {
				cached = true
			}
		}
	}

	if !cached {
		var err error
		rows, err = s.Repo.GlobalTop(limit, offset)
		if err != nil {
			return nil, err
		}
		if s.Redis != nil && offset == 0 && limit == defaultBoardLimit {
			if raw, err := json.Marshal(rows); err == nil {
				if err := s.Redis.Set(ctx, globalBoardCacheKey, raw, boardCacheTTL).Err(); err != nil {
					logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
				}
			}
		}
	}

	myRank := 0
	if userID != 0 {
		rank, err := s.Repo.GlobalRank(userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		myRank = rank
	}

	total, err := s.Repo.CountUsers()
	if err != nil {
		return nil, err
	}

	return &BoardResult{
		Entries:    toEntries(rows, userID, true),
		MyRank:     myRank,
		TotalUsers: total,
	}, nil
}

// Weekly 近 7 天活动 XP 排行
func (s *LeaderboardService) Weekly(userID uint, limit int) (*BoardResult, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultBoardLimit
	}
	rows, err := s.Repo.WeeklyTop(limit)
	if err != nil {
		return nil, err
	}

	myRank := 0
	if userID != 0 {
		myRank, err = s.Repo.WeeklyRank(userID)
		if err != nil {
			return nil, err
		}
	}

	return &BoardResult{Entries: toEntries(rows, userID, false), MyRank: myRank}, nil
}

// Streak 连胜排行，只统计连胜大于 0 的用户
func (s *LeaderboardService) Streak(userID uint, limit int) (*BoardResult, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultBoardLimit
	}
	rows, err := s.Repo.StreakTop(limit)
	if err != nil {
		return nil, err
	}

	myRank := 0
	if userID != 0 {
		myRank, err = s.Repo.StreakRank(userID)
		if err != nil {
			return nil, err
		}
	}

	return &BoardResult{Entries: toEntries(rows, userID, false), MyRank: myRank}, nil
}

// Subject 单学科进度排行
func (s *LeaderboardService) Subject(subjectID, userID uint, limit int) (*BoardResult, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultBoardLimit
	}
	rows, err := s.Repo.SubjectTop(subjectID, limit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, err
	}

	myRank := 0
	if userID != 0 {
		rank, err := s.Repo.SubjectRank(subjectID, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		myRank = rank
	}

	return &BoardResult{Entries: toEntries(rows, userID, false), MyRank: myRank}, nil
}

// RebuildCache 全量重建物化排行缓存（管理端触发），同时让
// Redis 首页缓存失效。
func (s *LeaderboardService) RebuildCache(ctx context.Context) (int, error) {
	users, err := s.Repo.UsersForCache()
	if err != nil {
		return 0, err
	}

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].XP != users[j].XP {
			return users[i].XP > users[j].XP
		}
		return users[i].Level > users[j].Level
	})

	entries := make([]model.LeaderboardCache, 0, len(users))
	for i, u := range users {
		entries = append(entries, model.LeaderboardCache{
			UserID: u.ID,
			Rank:   i + 1,
			XP:     u.XP,
			Level:  u.Level,
			League: LeagueForLevel(u.Level),
		})
	}

	if err := s.Repo.ReplaceCache(entries); err != nil {
		return 0, err
	}

	if s.Redis != nil {
		if err := s.Redis.Del(ctx, globalBoardCacheKey).Err(); err != nil {
			logger.Log.Warn("leaderboard cache invalidation failed", zap.Error(err))
		}
	}

	logger.Log.Info("leaderboard cache rebuilt", zap.Int("entries", len(entries)))
	return len(entries), nil
}

// CachedTop 读物化缓存，管理端校验重建结果用
func (s *LeaderboardService) CachedTop(limit, offset int) ([]model.LeaderboardCache, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultBoardLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.CacheTop(limit, offset)
}

func toEntries(rows []repository.RankedUser, userID uint, withLeague bool) []BoardEntry {
	entries := make([]BoardEntry, 0, len(rows))
	for _, r := range rows {
		e := BoardEntry{
			Rank:     r.Rank,
			UserID:   r.UserID,
			Username: r.Username,
			Avatar:   r.Avatar,
			Level:    r.Level,
			XP:       r.XP,
			Streak:   r.Streak,
			Value:    r.Value,
			IsMe:     r.UserID == userID,
		}
		if withLeague {
			e.League = LeagueForLevel(r.Level)
		}
		entries = append(entries, e)
	}
	return entries
}
