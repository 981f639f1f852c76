package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artsfest/artsfest-api/model"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced college, item, team or
// student does not exist (or is not visible to the caller).
var ErrNotFound = errors.New("record not found")

// TeamService is the team registry: the only write path for team records.
// Every create or membership edit goes through the eligibility service
// first; the registry re-asserts the hard invariants as a safety net and
// lets the database's unique constraint arbitrate races.
type TeamService struct {
	db          *gorm.DB
	eligibility *EligibilityService
}

// NewTeamService creates a new team service
func NewTeamService(db *gorm.DB, eligibility *EligibilityService) *TeamService {
	return &TeamService{db: db, eligibility: eligibility}
}

// CreateTeam validates and persists a new team for the college. The team
// and its membership are written in one transaction; a concurrent
// duplicate that slips past the pre-check is caught on the unique
// (college, item) index and reported as the same duplicate rejection the
// pre-check would have produced.
func (s *TeamService) CreateTeam(college *model.College, itemID uint, studentIDs []uint) (*model.Team, *Rejection, error) {
	item, err := s.getItem(itemID)
	if err != nil {
		return nil, nil, err
	}

	students, err := s.getCollegeStudents(college.ID, studentIDs)
	if err != nil {
		return nil, nil, err
	}

	if rejection, err := s.eligibility.CheckTeam(college, item, students, 0); err != nil {
		return nil, nil, err
	} else if rejection != nil {
		return nil, rejection, nil
	}

	team := &model.Team{
		CollegeID: college.ID,
		ItemID:    item.ID,
		Category:  item.Category,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		return tx.Model(team).Association("Students").Replace(toStudentRefs(students))
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, reject(RejectDuplicateTeam,
				"You already created a team for '%s'. Edit it instead.", item.Name), nil
		}
		return nil, nil, err
	}

	team.Item = *item
	team.Students = students
	return team, nil, nil
}

// EditTeam replaces the team's membership after running the same
// validation path as creation, with the team itself excluded from every
// count. Membership is replaced wholesale, not patched.
func (s *TeamService) EditTeam(college *model.College, teamID uint, studentIDs []uint) (*model.Team, *Rejection, error) {
	team, err := s.GetCollegeTeam(college.ID, teamID)
	if err != nil {
		return nil, nil, err
	}

	item, err := s.getItem(team.ItemID)
	if err != nil {
		return nil, nil, err
	}

	students, err := s.getCollegeStudents(college.ID, studentIDs)
	if err != nil {
		return nil, nil, err
	}

	if rejection, err := s.eligibility.CheckTeam(college, item, students, team.ID); err != nil {
		return nil, nil, err
	} else if rejection != nil {
		return nil, rejection, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(team).Association("Students").Replace(toStudentRefs(students))
	})
	if err != nil {
		return nil, nil, err
	}

	team.Item = *item
	team.Students = students
	return team, nil, nil
}

// DeleteTeam removes the team and its membership rows, freeing the
// college's quota and its unique (college, item) slot immediately.
// Ownership must already be confirmed by the caller.
func (s *TeamService) DeleteTeam(college *model.College, teamID uint) error {
	team, err := s.GetCollegeTeam(college.ID, teamID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(team).Association("Students").Clear(); err != nil {
			return err
		}
		return tx.Delete(team).Error
	})
}

// ListTeams returns the college's teams with items and members preloaded,
// ordered the way the registration page shows them.
func (s *TeamService) ListTeams(collegeID uint) ([]model.Team, error) {
	var teams []model.Team
	err := s.db.Preload("Item").Preload("Students").
		Joins("JOIN items ON items.id = teams.item_id").
		Where("teams.college_id = ?", collegeID).
		Order("items.category, items.name").
		Find(&teams).Error
	return teams, err
}

// GetCollegeTeam fetches one team owned by the college.
func (s *TeamService) GetCollegeTeam(collegeID, teamID uint) (*model.Team, error) {
	var team model.Team
	err := s.db.Where("id = ? AND college_id = ?", teamID, collegeID).First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("team %d: %w", teamID, ErrNotFound)
		}
		return nil, err
	}
	return &team, nil
}

func (s *TeamService) getItem(itemID uint) (*model.Item, error) {
	var item model.Item
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
		}
		return nil, err
	}
	return &item, nil
}

// getCollegeStudents loads the selected students in selection order,
// verifying each belongs to the college.
func (s *TeamService) getCollegeStudents(collegeID uint, studentIDs []uint) ([]model.Student, error) {
	students := make([]model.Student, 0, len(studentIDs))
	for _, id := range studentIDs {
		var student model.Student
		err := s.db.Where("id = ? AND college_id = ?", id, collegeID).First(&student).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("student %d: %w", id, ErrNotFound)
			}
			return nil, err
		}
		students = append(students, student)
	}
	return students, nil
}

func toStudentRefs(students []model.Student) []*model.Student {
	refs := make([]*model.Student, len(students))
	for i := range students {
		refs[i] = &students[i]
	}
	return refs
}

// isUniqueViolation matches the duplicate-key error however the driver
// reports it. TranslateError maps it to gorm.ErrDuplicatedKey on both
// postgres and sqlite; the string checks cover untranslated paths.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
