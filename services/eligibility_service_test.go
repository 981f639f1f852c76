package services

import (
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/artsfest/artsfest-api/model"
)

func newEligibilityFixture(t *testing.T) (*gorm.DB, *EligibilityService, *TeamService) {
	t.Helper()
	db := newTestDB(t)
	eligibility := NewEligibilityService(db, testFestivalConfig())
	teams := NewTeamService(db, eligibility)
	return db, eligibility, teams
}

func TestCheckTeamDuplicate(t *testing.T) {
	db, eligibility, _ := newEligibilityFixture(t)

	college := createCollege(t, db, "St. Mary's")
	item := createItem(t, db, "Classical Music", "music", model.ItemTypeSingle, 1)
	student := createStudent(t, db, college.ID, "Anu")
	createTeam(t, db, college, item, student)

	rejection, err := eligibility.CheckTeam(college, item, []model.Student{*student}, 0)
	if err != nil {
		t.Fatalf("CheckTeam returned error: %v", err)
	}
	if rejection == nil || rejection.Code != RejectDuplicateTeam {
		t.Fatalf("expected duplicate_team rejection, got %+v", rejection)
	}

	// Another college is unaffected.
	other := createCollege(t, db, "Govt. College")
	otherStudent := createStudent(t, db, other.ID, "Biju")
	rejection, err = eligibility.CheckTeam(other, item, []model.Student{*otherStudent}, 0)
	if err != nil {
		t.Fatalf("CheckTeam returned error: %v", err)
	}
	if rejection != nil {
		t.Fatalf("expected acceptance for other college, got %+v", rejection)
	}
}

func TestCheckTeamCategoryQuota(t *testing.T) {
	db, eligibility, teams := newEligibilityFixture(t)

	college := createCollege(t, db, "St. Mary's")
	student := createStudent(t, db, college.ID, "Anu")

	// Fill the music quota (limit 2).
	var held []*model.Team
	for i := 0; i < 2; i++ {
		item := createItem(t, db, fmt.Sprintf("Music Item %d", i), "Music", model.ItemTypeSingle, 1)
		held = append(held, createTeam(t, db, college, item, student))
	}

	next := createItem(t, db, "One More Music Item", "MUSIC", model.ItemTypeSingle, 1)
	rejection, err := eligibility.CheckTeam(college, next, []model.Student{*student}, 0)
	if err != nil {
		t.Fatalf("CheckTeam returned error: %v", err)
	}
	if rejection == nil || rejection.Code != RejectCategoryQuota {
		t.Fatalf("expected category_quota_exceeded, got %+v", rejection)
	}

	// Deleting a team frees the slot immediately.
	if err := teams.DeleteTeam(college, held[0].ID); err != nil {
		t.Fatalf("DeleteTeam failed: %v", err)
	}
	rejection, err = eligibility.CheckTeam(college, next, []model.Student{*student}, 0)
	if err != nil {
		t.Fatalf("CheckTeam returned error: %v", err)
	}
	if rejection != nil {
		t.Fatalf("expected acceptance after delete, got %+v", rejection)
	}
}

func TestCheckTeamRestrictedQuota(t *testing.T) {
	db, eligibility, _ := newEligibilityFixture(t)

	college := createCollege(t, db, "St. Mary's")

	malayalam := createItem(t, db, "Natakam (Malayalam)", "drama", model.ItemTypeGroup, 10)
	english := createItem(t, db, "Natakam (English)", "drama", model.ItemTypeGroup, 10)
	mime := createItem(t, db, "Mime", "drama", model.ItemTypeGroup, 6)

	s1 := createStudent(t, db, college.ID, "Anu")
	s2 := createStudent(t, db, college.ID, "Biju")
	createTeam(t, db, college, malayalam, s1)
	createTeam(t, db, college, english, s2)

	// Both restricted slots used; a third restricted item is rejected
	// even though the drama category still has room.
	hindi := createItem(t, db, "Natakam (Hindi)", "drama", model.ItemTypeGroup, 10)
	eligibility.cfg.RestrictedItems = append(eligibility.cfg.RestrictedItems, "Natakam (Hindi)")

	s3 := createStudent(t, db, college.ID, "Chitra")
	rejection, err := eligibility.CheckTeam(college, hindi, []model.Student{*s3}, 0)
	if err != nil {
		t.Fatalf("CheckTeam returned error: %v", err)
	}
	if rejection == nil || rejection.Code != RejectRestrictedQuota {
		t.Fatalf("expected restricted_quota_exceeded, got %+v", rejection)
	}

	// A non-restricted drama item still goes through.
	rejection, err = eligibility.CheckTeam(college, mime, []model.Student{*s3}, 0)
	if err != nil {
		t.Fatalf("CheckTeam returned error: %v", err)
	}
	if rejection != nil {
		t.Fatalf("expected acceptance for non-restricted item, got %+v", rejection)
	}
}

func TestCheckTeamEmptySelection(t *testing.T) {
	db, eligibility, _ := newEligibilityFixture(t)

	college := createCollege(t, db, "St. Mary's")
	item := createItem(t, db, "Classical Music", "music", model.ItemTypeSingle, 1)

	rejection, err := eligibility.CheckTeam(college, item, nil, 0)
	if err != nil {
		t.Fatalf("CheckTeam returned error: %v", err)
	}
	if rejection == nil || rejection.Code != RejectEmptySelection {
		t.Fatalf("expected empty_selection, got %+v", rejection)
	}
}

func TestCheckTeamCapacity(t *testing.T) {
	db, eligibility, _ := newEligibilityFixture(t)

	college := createCollege(t, db, "St. Mary's")
	item := createItem(t, db, "Group Song", "music", model.ItemTypeGroup, 3)

	students := make([]model.Student, 0, 4)
	for i := 0; i < 4; i++ {
		students = append(students, *createStudent(t, db, college.ID, fmt.Sprintf("Student %d", i)))
	}

	// Exactly at capacity passes.
	rejection, err := eligibility.CheckTeam(college, item, students[:3], 0)
	if err != nil {
		t.Fatalf("CheckTeam returned error: %v", err)
	}
	if rejection != nil {
		t.Fatalf("expected acceptance at capacity, got %+v", rejection)
	}

	// One over capacity fails.
	rejection, err = eligibility.CheckTeam(college, item, students, 0)
	if err != nil {
		t.Fatalf("CheckTeam returned error: %v", err)
	}
	if rejection == nil || rejection.Code != RejectCapacityExceeded {
		t.Fatalf("expected capacity_exceeded, got %+v", rejection)
	}
}

func TestCheckTeamStudentSingleLimit(t *testing.T) {
	db, eligibility, _ := newEligibilityFixture(t)

	// Raise the category limit so only the per-student rule can fire.
	eligibility.cfg.CategoryLimits["music"] = 100

	college := createCollege(t, db, "St. Mary's")
	busy := createStudent(t, db, college.ID, "Anu")

	for i := 0; i < 4; i++ {
		item := createItem(t, db, fmt.Sprintf("Single %d", i), "music", model.ItemTypeSingle, 1)
		createTeam(t, db, college, item, busy)
	}

	fifth := createItem(t, db, "Single 4", "music", model.ItemTypeSingle, 1)
	rejection, err := eligibility.CheckTeam(college, fifth, []model.Student{*busy}, 0)
	if err != nil {
		t.Fatalf("CheckTeam returned error: %v", err)
	}
	if rejection == nil || rejection.Code != RejectStudentSingleLimit {
		t.Fatalf("expected student_single_limit, got %+v", rejection)
	}

	// Group items are counted separately.
	group := createItem(t, db, "Group Song", "music", model.ItemTypeGroup, 5)
	rejection, err = eligibility.CheckTeam(college, group, []model.Student{*busy}, 0)
	if err != nil {
		t.Fatalf("CheckTeam returned error: %v", err)
	}
	if rejection != nil {
		t.Fatalf("expected acceptance for group item, got %+v", rejection)
	}
}

func TestCheckTeamStudentGroupLimitWithEditExclusion(t *testing.T) {
	db, eligibility, _ := newEligibilityFixture(t)

	eligibility.cfg.CategoryLimits["music"] = 100

	college := createCollege(t, db, "St. Mary's")
	busy := createStudent(t, db, college.ID, "Anu")

	items := make([]*model.Item, 0, 3)
	teams := make([]*model.Team, 0, 2)
	for i := 0; i < 3; i++ {
		items = append(items, createItem(t, db, fmt.Sprintf("Group %d", i), "music", model.ItemTypeGroup, 5))
	}
	for i := 0; i < 2; i++ {
		teams = append(teams, createTeam(t, db, college, items[i], busy))
	}

	// At the group limit of 2, a third membership is rejected.
	rejection, err := eligibility.CheckTeam(college, items[2], []model.Student{*busy}, 0)
	if err != nil {
		t.Fatalf("CheckTeam returned error: %v", err)
	}
	if rejection == nil || rejection.Code != RejectStudentGroupLimit {
		t.Fatalf("expected student_group_limit, got %+v", rejection)
	}

	// Editing one of the existing teams keeps the student legal: the
	// edited team is excluded from its own count.
	rejection, err = eligibility.CheckTeam(college, items[0], []model.Student{*busy}, teams[0].ID)
	if err != nil {
		t.Fatalf("CheckTeam returned error: %v", err)
	}
	if rejection != nil {
		t.Fatalf("expected acceptance when editing own team, got %+v", rejection)
	}
}

func TestCategoryUsageSummary(t *testing.T) {
	db, eligibility, _ := newEligibilityFixture(t)

	college := createCollege(t, db, "St. Mary's")
	student := createStudent(t, db, college.ID, "Anu")
	item := createItem(t, db, "Classical Music", "Music", model.ItemTypeSingle, 1)
	createTeam(t, db, college, item, student)

	usages, err := eligibility.CategoryUsageSummary(college.ID)
	if err != nil {
		t.Fatalf("CategoryUsageSummary returned error: %v", err)
	}
	if len(usages) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(usages))
	}

	// Sorted keys: drama before music.
	if usages[0].Category != "drama" || usages[0].Used != 0 || usages[0].Remaining != 3 {
		t.Errorf("unexpected drama usage: %+v", usages[0])
	}
	if usages[1].Category != "music" || usages[1].Used != 1 || usages[1].Remaining != 1 {
		t.Errorf("unexpected music usage: %+v", usages[1])
	}
	if usages[1].Percent != 50 {
		t.Errorf("expected 50%% usage, got %v", usages[1].Percent)
	}
}
