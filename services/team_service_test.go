package services

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/artsfest/artsfest-api/model"
)

func TestCreateTeam(t *testing.T) {
	db, _, teams := newEligibilityFixture(t)

	college := createCollege(t, db, "St. Mary's")
	item := createItem(t, db, "Group Song", "music", model.ItemTypeGroup, 5)
	s1 := createStudent(t, db, college.ID, "Anu")
	s2 := createStudent(t, db, college.ID, "Biju")

	team, rejection, err := teams.CreateTeam(college, item.ID, []uint{s1.ID, s2.ID})
	if err != nil {
		t.Fatalf("CreateTeam returned error: %v", err)
	}
	if rejection != nil {
		t.Fatalf("unexpected rejection: %+v", rejection)
	}
	if team.ID == 0 {
		t.Fatal("expected persisted team")
	}
	if len(team.Students) != 2 {
		t.Fatalf("expected 2 members, got %d", len(team.Students))
	}
	if team.Category != "music" {
		t.Errorf("expected denormalized category, got %q", team.Category)
	}
}

func TestCreateTeamRejectsDuplicate(t *testing.T) {
	db, _, teams := newEligibilityFixture(t)

	college := createCollege(t, db, "St. Mary's")
	item := createItem(t, db, "Classical Music", "music", model.ItemTypeSingle, 1)
	s1 := createStudent(t, db, college.ID, "Anu")
	s2 := createStudent(t, db, college.ID, "Biju")

	if _, rejection, err := teams.CreateTeam(college, item.ID, []uint{s1.ID}); err != nil || rejection != nil {
		t.Fatalf("first CreateTeam failed: rejection=%+v err=%v", rejection, err)
	}

	_, rejection, err := teams.CreateTeam(college, item.ID, []uint{s2.ID})
	if err != nil {
		t.Fatalf("CreateTeam returned error: %v", err)
	}
	if rejection == nil || rejection.Code != RejectDuplicateTeam {
		t.Fatalf("expected duplicate_team rejection, got %+v", rejection)
	}
}

func TestCreateTeamDuplicateLostRace(t *testing.T) {
	db, _, teams := newEligibilityFixture(t)

	college := createCollege(t, db, "St. Mary's")
	item := createItem(t, db, "Classical Music", "music", model.ItemTypeSingle, 1)
	student := createStudent(t, db, college.ID, "Anu")

	// Slip a rival row for the same (college, item) in after the
	// pre-check has passed but before the insert runs, on the same
	// transaction connection, so the unique index arbitrates.
	injected := false
	err := db.Callback().Create().Before("gorm:create").Register("rival_team_insert", func(tx *gorm.DB) {
		if injected {
			return
		}
		if _, ok := tx.Statement.Dest.(*model.Team); !ok {
			return
		}
		injected = true

		now := time.Now()
		_, execErr := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"INSERT INTO teams (college_id, item_id, category, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			college.ID, item.ID, item.Category, now, now)
		if execErr != nil {
			t.Errorf("rival insert failed: %v", execErr)
		}
	})
	if err != nil {
		t.Fatalf("failed to register callback: %v", err)
	}

	team, rejection, err := teams.CreateTeam(college, item.ID, []uint{student.ID})
	if err != nil {
		t.Fatalf("CreateTeam returned error: %v", err)
	}
	if !injected {
		t.Fatal("rival insert never ran")
	}
	if team != nil {
		t.Fatalf("expected no team from the losing side, got %+v", team)
	}

	// The storage conflict surfaces as the same user-facing rejection the
	// pre-check would have produced.
	if rejection == nil || rejection.Code != RejectDuplicateTeam {
		t.Fatalf("expected duplicate_team rejection, got %+v", rejection)
	}
}

func TestCreateTeamRejectsForeignStudent(t *testing.T) {
	db, _, teams := newEligibilityFixture(t)

	college := createCollege(t, db, "St. Mary's")
	other := createCollege(t, db, "Govt. College")
	item := createItem(t, db, "Classical Music", "music", model.ItemTypeSingle, 1)
	outsider := createStudent(t, db, other.ID, "Mallory")

	_, _, err := teams.CreateTeam(college, item.ID, []uint{outsider.ID})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign student, got %v", err)
	}
}

func TestEditTeamReplacesMembership(t *testing.T) {
	db, _, teams := newEligibilityFixture(t)

	college := createCollege(t, db, "St. Mary's")
	item := createItem(t, db, "Group Song", "music", model.ItemTypeGroup, 5)
	s1 := createStudent(t, db, college.ID, "Anu")
	s2 := createStudent(t, db, college.ID, "Biju")
	s3 := createStudent(t, db, college.ID, "Chitra")

	team, rejection, err := teams.CreateTeam(college, item.ID, []uint{s1.ID, s2.ID})
	if err != nil || rejection != nil {
		t.Fatalf("CreateTeam failed: rejection=%+v err=%v", rejection, err)
	}

	edited, rejection, err := teams.EditTeam(college, team.ID, []uint{s3.ID})
	if err != nil {
		t.Fatalf("EditTeam returned error: %v", err)
	}
	if rejection != nil {
		t.Fatalf("unexpected rejection: %+v", rejection)
	}
	if len(edited.Students) != 1 || edited.Students[0].ID != s3.ID {
		t.Fatalf("expected membership replaced with s3, got %+v", edited.Students)
	}

	// The replacement is wholesale: the previous members are gone.
	var count int64
	if err := db.Table("team_students").Where("team_id = ?", team.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 membership row, got %d", count)
	}
}

func TestEditTeamOtherCollege(t *testing.T) {
	db, _, teams := newEligibilityFixture(t)

	college := createCollege(t, db, "St. Mary's")
	other := createCollege(t, db, "Govt. College")
	item := createItem(t, db, "Classical Music", "music", model.ItemTypeSingle, 1)
	student := createStudent(t, db, college.ID, "Anu")
	team := createTeam(t, db, college, item, student)

	_, _, err := teams.EditTeam(other, team.ID, []uint{student.ID})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another college's team, got %v", err)
	}
}

func TestDeleteTeamFreesUniqueSlot(t *testing.T) {
	db, _, teams := newEligibilityFixture(t)

	college := createCollege(t, db, "St. Mary's")
	item := createItem(t, db, "Classical Music", "music", model.ItemTypeSingle, 1)
	student := createStudent(t, db, college.ID, "Anu")

	team, rejection, err := teams.CreateTeam(college, item.ID, []uint{student.ID})
	if err != nil || rejection != nil {
		t.Fatalf("CreateTeam failed: rejection=%+v err=%v", rejection, err)
	}

	if err := teams.DeleteTeam(college, team.ID); err != nil {
		t.Fatalf("DeleteTeam failed: %v", err)
	}

	// Deletion is hard, so re-registering the same item works.
	_, rejection, err = teams.CreateTeam(college, item.ID, []uint{student.ID})
	if err != nil {
		t.Fatalf("re-create returned error: %v", err)
	}
	if rejection != nil {
		t.Fatalf("expected re-registration to succeed, got %+v", rejection)
	}

	// Membership rows were cleared, not orphaned.
	var count int64
	if err := db.Table("team_students").Where("team_id = ?", team.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected membership rows removed, got %d", count)
	}

	// The deleted row is gone from storage outright; nothing lingers to
	// hold the unique slot.
	if err := db.Table("teams").Where("id = ?", team.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected team row removed from storage, got %d", count)
	}
}

func TestListTeamsOrdering(t *testing.T) {
	db, _, teams := newEligibilityFixture(t)

	college := createCollege(t, db, "St. Mary's")
	drama := createItem(t, db, "Mime", "drama", model.ItemTypeGroup, 6)
	music := createItem(t, db, "Classical Music", "music", model.ItemTypeSingle, 1)
	s1 := createStudent(t, db, college.ID, "Anu")

	createTeam(t, db, college, music, s1)
	createTeam(t, db, college, drama, s1)

	listed, err := teams.ListTeams(college.ID)
	if err != nil {
		t.Fatalf("ListTeams failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(listed))
	}
	if listed[0].Item.Category != "drama" || listed[1].Item.Category != "music" {
		t.Fatalf("expected teams ordered by category, got %s then %s",
			listed[0].Item.Category, listed[1].Item.Category)
	}
	if len(listed[0].Students) != 1 {
		t.Fatal("expected members preloaded")
	}
}
