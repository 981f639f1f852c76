package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/artsfest/artsfest-api/model"
	"github.com/artsfest/artsfest-api/utils/cache"
	"gorm.io/gorm"
)

// Leaderboard cache keys live under this prefix; every write to the
// result ledger clears them.
const leaderboardCachePrefix = "leaderboard:"

// ResultSubmission is one row of a publish request
type ResultSubmission struct {
	TeamID   uint   `json:"team_id" validate:"required"`
	Position int    `json:"position" validate:"required,gte=1,lte=3"`
	Grade    string `json:"grade" validate:"required,oneof=A B C D E"`
}

// CollegeStanding is one row of a college leaderboard
type CollegeStanding struct {
	Rank        int    `json:"rank" gorm:"-"`
	CollegeID   uint   `json:"college_id"`
	CollegeName string `json:"college_name"`
	TotalPoints int    `json:"total_points"`
}

// IndividualStanding is one row of the single-item performer leaderboard
type IndividualStanding struct {
	Rank        int    `json:"rank" gorm:"-"`
	StudentID   uint   `json:"student_id"`
	StudentName string `json:"student_name"`
	CollegeName string `json:"college_name"`
	TotalPoints int    `json:"total_points"`
}

// ResultService owns the result ledger: atomic publish with soft-delete
// semantics, single-level undo, and the leaderboard aggregations.
type ResultService struct {
	db    *gorm.DB
	cache *cache.RedisCache // nil disables caching, queries fall through to the DB
}

// NewResultService creates a new result service
func NewResultService(db *gorm.DB, redisCache *cache.RedisCache) *ResultService {
	return &ResultService{db: db, cache: redisCache}
}

// PublishResults replaces the item's active result set in one transaction:
// all currently active rows are soft-deleted, then each submission is
// written with freshly computed points. A team that already has a row for
// the item gets that row overwritten and re-activated, so repeating a
// publish with identical submissions leaves exactly one active row per
// (item, team). A mid-publish failure rolls the whole operation back.
func (s *ResultService) PublishResults(itemID uint, submissions []ResultSubmission) error {
	var item model.Item
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("item %d: %w", itemID, ErrNotFound)
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Soft-delete the current generation first so a concurrent read
		// inside the transaction boundary never sees a mixed set.
		err := tx.Model(&model.Result{}).
			Where("item_id = ? AND is_deleted = ?", itemID, false).
			Update("is_deleted", true).Error
		if err != nil {
			return err
		}

		for _, sub := range submissions {
			var team model.Team
			if err := tx.Where("id = ? AND item_id = ?", sub.TeamID, itemID).First(&team).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("team %d for item %d: %w", sub.TeamID, itemID, ErrNotFound)
				}
				return err
			}

			points := CalculatePoints(sub.Position, sub.Grade)

			var existing model.Result
			err := tx.Where("item_id = ? AND team_id = ?", itemID, sub.TeamID).First(&existing).Error
			switch {
			case err == nil:
				err = tx.Model(&existing).Updates(map[string]interface{}{
					"position":   sub.Position,
					"grade":      sub.Grade,
					"points":     points,
					"is_deleted": false,
				}).Error
				if err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				result := model.Result{
					ItemID:   itemID,
					TeamID:   sub.TeamID,
					Position: sub.Position,
					Grade:    sub.Grade,
					Points:   points,
				}
				if err := tx.Create(&result).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateLeaderboards()
	return nil
}

// DeleteItemResults soft-deletes every active result of the item.
func (s *ResultService) DeleteItemResults(itemID uint) error {
	err := s.db.Model(&model.Result{}).
		Where("item_id = ? AND is_deleted = ?", itemID, false).
		Update("is_deleted", true).Error
	if err != nil {
		return err
	}

	s.invalidateLeaderboards()
	return nil
}

// UndoDeleteResults re-activates the item's soft-deleted results. Only the
// latest soft-delete state exists (one row per team), so this restores
// exactly the set that was active before the last delete; a deeper history
// is deliberately not kept.
func (s *ResultService) UndoDeleteResults(itemID uint) error {
	err := s.db.Model(&model.Result{}).
		Where("item_id = ?", itemID).
		Update("is_deleted", false).Error
	if err != nil {
		return err
	}

	s.invalidateLeaderboards()
	return nil
}

// ActiveResultsForItem lists the item's active results, best placement
// first.
func (s *ResultService) ActiveResultsForItem(itemID uint) ([]model.Result, error) {
	var results []model.Result
	err := s.db.Preload("Team").Preload("Team.College").
		Where("item_id = ? AND is_deleted = ?", itemID, false).
		Order("position, points DESC").
		Find(&results).Error
	return results, err
}

// ActiveResultsForCollege lists every active result credited to the
// college's teams.
func (s *ResultService) ActiveResultsForCollege(collegeID uint) ([]model.Result, error) {
	var results []model.Result
	err := s.db.Preload("Item").Preload("Team").
		Joins("JOIN teams ON teams.id = results.team_id").
		Where("teams.college_id = ? AND results.is_deleted = ?", collegeID, false).
		Order("results.position, results.points DESC").
		Find(&results).Error
	return results, err
}

// CollegeLeaderboard sums active results by college, ordered by total
// descending with college name as the tie-break. An empty category means
// the overall board; otherwise results are filtered to that category,
// case-insensitive.
func (s *ResultService) CollegeLeaderboard(ctx context.Context, category string) ([]CollegeStanding, error) {
	cacheKey := leaderboardCachePrefix + "overall"
	if category != "" {
		cacheKey = leaderboardCachePrefix + "category:" + strings.ToLower(category)
	}

	var standings []CollegeStanding
	if s.cacheGet(ctx, cacheKey, &standings) {
		return standings, nil
	}

	query := s.db.Model(&model.Result{}).
		Select("colleges.id AS college_id, colleges.name AS college_name, SUM(results.points) AS total_points").
		Joins("JOIN teams ON teams.id = results.team_id").
		Joins("JOIN colleges ON colleges.id = teams.college_id").
		Where("results.is_deleted = ?", false).
		Group("colleges.id, colleges.name").
		Order("total_points DESC, college_name ASC")

	if category != "" {
		query = query.
			Joins("JOIN items ON items.id = results.item_id").
			Where("LOWER(items.category) = ?", strings.ToLower(category))
	}

	if err := query.Scan(&standings).Error; err != nil {
		return nil, err
	}
	for i := range standings {
		standings[i].Rank = i + 1
	}

	s.cacheSet(ctx, cacheKey, standings)
	return standings, nil
}

// IndividualLeaderboard ranks performers over active results of
// single-type items, grouped by (student, college).
func (s *ResultService) IndividualLeaderboard(ctx context.Context) ([]IndividualStanding, error) {
	cacheKey := leaderboardCachePrefix + "individual"

	var standings []IndividualStanding
	if s.cacheGet(ctx, cacheKey, &standings) {
		return standings, nil
	}

	err := s.db.Model(&model.Result{}).
		Select("students.id AS student_id, students.name AS student_name, colleges.name AS college_name, SUM(results.points) AS total_points").
		Joins("JOIN teams ON teams.id = results.team_id").
		Joins("JOIN items ON items.id = results.item_id").
		Joins("JOIN team_students ON team_students.team_id = teams.id").
		Joins("JOIN students ON students.id = team_students.student_id").
		Joins("JOIN colleges ON colleges.id = teams.college_id").
		Where("results.is_deleted = ? AND items.item_type = ?", false, model.ItemTypeSingle).
		Group("students.id, students.name, colleges.name").
		Order("total_points DESC, student_name ASC").
		Scan(&standings).Error
	if err != nil {
		return nil, err
	}
	for i := range standings {
		standings[i].Rank = i + 1
	}

	s.cacheSet(ctx, cacheKey, standings)
	return standings, nil
}

func (s *ResultService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	if err := s.cache.GetJSON(ctx, key, dest); err != nil {
		return false
	}
	return true
}

func (s *ResultService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, cache.LeaderboardTTL); err != nil {
		log.Printf("Failed to cache %s: %v", key, err)
	}
}

// invalidateLeaderboards clears every cached board after a ledger write.
// The database stays the source of truth; a failed invalidation only
// delays freshness until the TTL.
func (s *ResultService) invalidateLeaderboards() {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(context.Background(), leaderboardCachePrefix+"*"); err != nil {
		log.Printf("Failed to clear leaderboard cache: %v", err)
	}
}
