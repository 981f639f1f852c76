package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/artsfest/artsfest-api/config"
	"github.com/artsfest/artsfest-api/model"
	"gorm.io/gorm"
)

// Rejection codes returned by the eligibility checks
const (
	RejectDuplicateTeam      = "duplicate_team"
	RejectCategoryQuota      = "category_quota_exceeded"
	RejectRestrictedQuota    = "restricted_quota_exceeded"
	RejectEmptySelection     = "empty_selection"
	RejectCapacityExceeded   = "capacity_exceeded"
	RejectStudentSingleLimit = "student_single_limit"
	RejectStudentGroupLimit  = "student_group_limit"
)

// Rejection is a recoverable validation failure with a user-facing message.
// It is returned instead of written state: no check has side effects.
type Rejection struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (r *Rejection) Error() string { return r.Message }

func reject(code, format string, args ...interface{}) *Rejection {
	return &Rejection{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CategoryUsage is one row of a college's quota summary
type CategoryUsage struct {
	Category  string  `json:"category"`
	Used      int     `json:"used"`
	Limit     int     `json:"limit"`
	Remaining int     `json:"remaining"`
	Percent   float64 `json:"percent"`
}

// EligibilityService validates a candidate team against every quota and
// per-student rule before the team registry is allowed to persist it.
type EligibilityService struct {
	db  *gorm.DB
	cfg config.FestivalConfig
}

// NewEligibilityService creates a new eligibility service. The quota
// regime is injected so tests can supply arbitrary limits.
func NewEligibilityService(db *gorm.DB, cfg config.FestivalConfig) *EligibilityService {
	return &EligibilityService{db: db, cfg: cfg}
}

// Config returns the quota regime the service was built with.
func (s *EligibilityService) Config() config.FestivalConfig { return s.cfg }

// CheckTeam runs the ordered validation sequence for a new or edited team.
// editingTeamID is zero for a new team; for edits it names the team being
// changed, which is excluded from every count so the team never competes
// against itself. The first failing check aborts with its rejection; nil
// means the team may be persisted.
func (s *EligibilityService) CheckTeam(college *model.College, item *model.Item, students []model.Student, editingTeamID uint) (*Rejection, error) {
	// 1. Duplicate team: one team per (college, item)
	if editingTeamID == 0 {
		var count int64
		err := s.db.Model(&model.Team{}).
			Where("college_id = ? AND item_id = ?", college.ID, item.ID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return reject(RejectDuplicateTeam,
				"You already created a team for '%s'. Edit it instead.", item.Name), nil
		}
	}

	// 2. Category quota, case-insensitive
	category := strings.ToLower(item.Category)
	if limit, ok := s.cfg.CategoryLimit(category); ok {
		used, err := s.categoryCount(college.ID, category, editingTeamID)
		if err != nil {
			return nil, err
		}
		if used >= int64(limit) {
			return reject(RejectCategoryQuota,
				"Category limit reached! You can create only %d teams in %s.", limit, item.Category), nil
		}
	}

	// 3. Restricted sub-quota, nested inside the category quota
	if category == s.cfg.RestrictedCategory && s.cfg.IsRestrictedItem(item.Name) {
		used, err := s.RestrictedUsage(college.ID, editingTeamID)
		if err != nil {
			return nil, err
		}
		if used >= int64(s.cfg.MaxRestricted) {
			return reject(RejectRestrictedQuota,
				"You can create only %d teams among the restricted items (%s).",
				s.cfg.MaxRestricted, strings.Join(s.cfg.RestrictedItems, ", ")), nil
		}
	}

	// 4. Non-empty membership
	if len(students) == 0 {
		return reject(RejectEmptySelection, "Please select at least one student."), nil
	}

	// 5. Item capacity
	if len(students) > item.MaxParticipants {
		return reject(RejectCapacityExceeded,
			"Maximum %d students allowed for '%s'.", item.MaxParticipants, item.Name), nil
	}

	// 6. Per-student single/group limits, in selection order
	for _, student := range students {
		count, err := s.studentTypeCount(college.ID, student.ID, item.ItemType, editingTeamID)
		if err != nil {
			return nil, err
		}

		if item.ItemType == model.ItemTypeSingle && count >= int64(s.cfg.SingleItemLimit) {
			return reject(RejectStudentSingleLimit,
				"%s already reached the limit of %d single items.",
				student.Name, s.cfg.SingleItemLimit), nil
		}
		if item.ItemType == model.ItemTypeGroup && count >= int64(s.cfg.GroupItemLimit) {
			return reject(RejectStudentGroupLimit,
				"%s already reached the limit of %d group items.",
				student.Name, s.cfg.GroupItemLimit), nil
		}
	}

	return nil, nil
}

// CategoryUsageSummary recomputes, for every configured category, how many
// teams the college holds against the limit. Categories with zero usage are
// included. Counters are derived from the team registry on each call.
func (s *EligibilityService) CategoryUsageSummary(collegeID uint) ([]CategoryUsage, error) {
	keys := make([]string, 0, len(s.cfg.CategoryLimits))
	for key := range s.cfg.CategoryLimits {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	usages := make([]CategoryUsage, 0, len(keys))
	for _, key := range keys {
		limit := s.cfg.CategoryLimits[key]
		used, err := s.categoryCount(collegeID, key, 0)
		if err != nil {
			return nil, err
		}

		remaining := limit - int(used)
		if remaining < 0 {
			remaining = 0
		}
		percent := 0.0
		if limit > 0 {
			percent = float64(used) / float64(limit) * 100
		}

		usages = append(usages, CategoryUsage{
			Category:  key,
			Used:      int(used),
			Limit:     limit,
			Remaining: remaining,
			Percent:   percent,
		})
	}

	return usages, nil
}

// RestrictedUsage counts the college's teams whose item name is in the
// restricted set. Names match exactly.
func (s *EligibilityService) RestrictedUsage(collegeID uint, excludeTeamID uint) (int64, error) {
	if len(s.cfg.RestrictedItems) == 0 {
		return 0, nil
	}

	query := s.db.Model(&model.Team{}).
		Joins("JOIN items ON items.id = teams.item_id").
		Where("teams.college_id = ? AND items.name IN ?", collegeID, s.cfg.RestrictedItems)
	if excludeTeamID != 0 {
		query = query.Where("teams.id <> ?", excludeTeamID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (s *EligibilityService) categoryCount(collegeID uint, category string, excludeTeamID uint) (int64, error) {
	query := s.db.Model(&model.Team{}).
		Where("college_id = ? AND LOWER(category) = ?", collegeID, strings.ToLower(category))
	if excludeTeamID != 0 {
		query = query.Where("id <> ?", excludeTeamID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// studentTypeCount counts the college's teams of the given item type that
// already include the student, excluding the team being edited.
func (s *EligibilityService) studentTypeCount(collegeID, studentID uint, itemType string, excludeTeamID uint) (int64, error) {
	query := s.db.Model(&model.Team{}).
		Joins("JOIN team_students ON team_students.team_id = teams.id").
		Joins("JOIN items ON items.id = teams.item_id").
		Where("teams.college_id = ? AND team_students.student_id = ? AND items.item_type = ?",
			collegeID, studentID, itemType)
	if excludeTeamID != 0 {
		query = query.Where("teams.id <> ?", excludeTeamID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}
