package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/artsfest/artsfest-api/model"
)

// RefreshLeaderboards recomputes the overall, per-category and individual
// standings so the Redis cache stays warm between result publications.
func (m *CronManager) RefreshLeaderboards() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	jobName := "refresh_leaderboards"

	var categories []string
	err := m.db.Model(&model.Item{}).
		Distinct("LOWER(category)").
		Order("LOWER(category)").
		Pluck("LOWER(category)", &categories).Error
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to list categories: %w", err))
		return
	}

	refreshed := 0
	failed := 0

	if _, err := m.results.CollegeLeaderboard(ctx, ""); err != nil {
		log.Printf("[CRON] Failed to refresh overall leaderboard: %v", err)
		failed++
	} else {
		refreshed++
	}

	for _, category := range categories {
		if _, err := m.results.CollegeLeaderboard(ctx, category); err != nil {
			log.Printf("[CRON] Failed to refresh leaderboard for %s: %v", category, err)
			failed++
			continue
		}
		refreshed++
	}

	if _, err := m.results.IndividualLeaderboard(ctx); err != nil {
		log.Printf("[CRON] Failed to refresh individual leaderboard: %v", err)
		failed++
	} else {
		refreshed++
	}

	m.logJobComplete(jobName, fmt.Sprintf("Refreshed %d leaderboards, failed %d", refreshed, failed))
}

// CleanupExpiredTokens purges blacklist entries whose tokens have expired.
func (m *CronManager) CleanupExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	jobName := "cleanup_expired_tokens"

	if err := m.blacklist.CleanupExpiredTokens(ctx); err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to cleanup tokens: %w", err))
		return
	}

	m.logJobComplete(jobName, "Expired blacklist entries removed")
}

// CleanupOldLogs trims cron job logs older than 30 days and admin audit
// logs older than 180 days.
func (m *CronManager) CleanupOldLogs() {
	jobName := "cleanup_old_logs"

	cronCutoff := time.Now().AddDate(0, 0, -30)
	cronResult := m.db.
		Where("started_at < ?", cronCutoff).
		Delete(&model.CronJobLog{})
	if cronResult.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete cron logs: %w", cronResult.Error))
		return
	}

	auditCutoff := time.Now().AddDate(0, 0, -180)
	auditResult := m.db.Unscoped().
		Where("created_at < ?", auditCutoff).
		Delete(&model.AdminAuditLog{})
	if auditResult.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete audit logs: %w", auditResult.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d cron logs and %d audit logs",
		cronResult.RowsAffected, auditResult.RowsAffected))
}
