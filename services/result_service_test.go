package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/artsfest/artsfest-api/model"
)

type resultFixture struct {
	db      *gorm.DB
	results *ResultService

	college1 *model.College
	college2 *model.College
	item     *model.Item
	team1    *model.Team
	team2    *model.Team
}

func newResultFixture(t *testing.T) *resultFixture {
	t.Helper()
	db := newTestDB(t)

	f := &resultFixture{
		db:      db,
		results: NewResultService(db, nil),
	}
	f.college1 = createCollege(t, db, "St. Mary's")
	f.college2 = createCollege(t, db, "Govt. College")
	f.item = createItem(t, db, "Classical Music", "music", model.ItemTypeSingle, 1)

	s1 := createStudent(t, db, f.college1.ID, "Anu")
	s2 := createStudent(t, db, f.college2.ID, "Biju")
	f.team1 = createTeam(t, db, f.college1, f.item, s1)
	f.team2 = createTeam(t, db, f.college2, f.item, s2)
	return f
}

func (f *resultFixture) activeRows(t *testing.T) []model.Result {
	t.Helper()
	var rows []model.Result
	err := f.db.Where("item_id = ? AND is_deleted = ?", f.item.ID, false).
		Order("team_id").Find(&rows).Error
	if err != nil {
		t.Fatalf("failed to load active rows: %v", err)
	}
	return rows
}

func TestPublishResults(t *testing.T) {
	f := newResultFixture(t)

	err := f.results.PublishResults(f.item.ID, []ResultSubmission{
		{TeamID: f.team1.ID, Position: 1, Grade: "A"},
		{TeamID: f.team2.ID, Position: 2, Grade: "B"},
	})
	if err != nil {
		t.Fatalf("PublishResults failed: %v", err)
	}

	rows := f.activeRows(t)
	if len(rows) != 2 {
		t.Fatalf("expected 2 active rows, got %d", len(rows))
	}
	if rows[0].Points != 8 || rows[1].Points != 5 {
		t.Fatalf("unexpected points: %d, %d", rows[0].Points, rows[1].Points)
	}
}

func TestPublishResultsIdempotent(t *testing.T) {
	f := newResultFixture(t)

	submissions := []ResultSubmission{
		{TeamID: f.team1.ID, Position: 1, Grade: "A"},
		{TeamID: f.team2.ID, Position: 2, Grade: "B"},
	}
	for i := 0; i < 3; i++ {
		if err := f.results.PublishResults(f.item.ID, submissions); err != nil {
			t.Fatalf("publish %d failed: %v", i, err)
		}
	}

	// Repeated identical publishes leave exactly one active row per team.
	rows := f.activeRows(t)
	if len(rows) != 2 {
		t.Fatalf("expected 2 active rows after republish, got %d", len(rows))
	}

	var total int64
	if err := f.db.Model(&model.Result{}).Where("item_id = ?", f.item.ID).Count(&total).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 ledger rows total, got %d", total)
	}
}

func TestPublishResultsReplacesActiveSet(t *testing.T) {
	f := newResultFixture(t)

	err := f.results.PublishResults(f.item.ID, []ResultSubmission{
		{TeamID: f.team1.ID, Position: 1, Grade: "A"},
		{TeamID: f.team2.ID, Position: 2, Grade: "B"},
	})
	if err != nil {
		t.Fatalf("first publish failed: %v", err)
	}

	// A correction that drops team2 leaves only team1 active.
	err = f.results.PublishResults(f.item.ID, []ResultSubmission{
		{TeamID: f.team1.ID, Position: 2, Grade: "C"},
	})
	if err != nil {
		t.Fatalf("second publish failed: %v", err)
	}

	rows := f.activeRows(t)
	if len(rows) != 1 {
		t.Fatalf("expected 1 active row, got %d", len(rows))
	}
	if rows[0].TeamID != f.team1.ID || rows[0].Position != 2 || rows[0].Grade != "C" || rows[0].Points != 4 {
		t.Fatalf("unexpected corrected row: %+v", rows[0])
	}
}

func TestPublishResultsRejectsWrongTeam(t *testing.T) {
	f := newResultFixture(t)

	other := createItem(t, f.db, "Mime", "drama", model.ItemTypeGroup, 6)
	s := createStudent(t, f.db, f.college1.ID, "Chitra")
	foreign := createTeam(t, f.db, f.college1, other, s)

	// Publish the first team, then attempt a bad batch including a team
	// registered for a different item.
	err := f.results.PublishResults(f.item.ID, []ResultSubmission{
		{TeamID: f.team1.ID, Position: 1, Grade: "A"},
	})
	if err != nil {
		t.Fatalf("first publish failed: %v", err)
	}

	err = f.results.PublishResults(f.item.ID, []ResultSubmission{
		{TeamID: f.team2.ID, Position: 1, Grade: "A"},
		{TeamID: foreign.ID, Position: 2, Grade: "B"},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The failed transaction rolled back: the prior set is untouched.
	rows := f.activeRows(t)
	if len(rows) != 1 || rows[0].TeamID != f.team1.ID || rows[0].Position != 1 {
		t.Fatalf("expected prior active set preserved, got %+v", rows)
	}
}

func TestDeleteAndUndoResults(t *testing.T) {
	f := newResultFixture(t)

	err := f.results.PublishResults(f.item.ID, []ResultSubmission{
		{TeamID: f.team1.ID, Position: 1, Grade: "A"},
		{TeamID: f.team2.ID, Position: 3, Grade: "C"},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := f.results.DeleteItemResults(f.item.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if rows := f.activeRows(t); len(rows) != 0 {
		t.Fatalf("expected no active rows after delete, got %d", len(rows))
	}

	if err := f.results.UndoDeleteResults(f.item.ID); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	rows := f.activeRows(t)
	if len(rows) != 2 {
		t.Fatalf("expected active set restored, got %d rows", len(rows))
	}
	if rows[0].Position != 1 || rows[1].Position != 3 {
		t.Fatalf("restored rows lost their data: %+v", rows)
	}
}

func TestCollegeLeaderboard(t *testing.T) {
	f := newResultFixture(t)
	ctx := context.Background()

	// A second item so one college can accumulate points.
	drama := createItem(t, f.db, "Mime", "drama", model.ItemTypeGroup, 6)
	s3 := createStudent(t, f.db, f.college2.ID, "Chitra")
	dramaTeam := createTeam(t, f.db, f.college2, drama, s3)

	err := f.results.PublishResults(f.item.ID, []ResultSubmission{
		{TeamID: f.team1.ID, Position: 1, Grade: "A"}, // college1: 8
		{TeamID: f.team2.ID, Position: 2, Grade: "B"}, // college2: 5
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	err = f.results.PublishResults(drama.ID, []ResultSubmission{
		{TeamID: dramaTeam.ID, Position: 1, Grade: "A"}, // college2: +8 = 13
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	standings, err := f.results.CollegeLeaderboard(ctx, "")
	if err != nil {
		t.Fatalf("CollegeLeaderboard failed: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("expected 2 standings, got %d", len(standings))
	}
	if standings[0].CollegeID != f.college2.ID || standings[0].TotalPoints != 13 || standings[0].Rank != 1 {
		t.Fatalf("unexpected leader: %+v", standings[0])
	}
	if standings[1].CollegeID != f.college1.ID || standings[1].TotalPoints != 8 || standings[1].Rank != 2 {
		t.Fatalf("unexpected runner-up: %+v", standings[1])
	}

	// Category boards only count that category's items.
	musicOnly, err := f.results.CollegeLeaderboard(ctx, "MUSIC")
	if err != nil {
		t.Fatalf("category leaderboard failed: %v", err)
	}
	if len(musicOnly) != 2 {
		t.Fatalf("expected 2 music standings, got %d", len(musicOnly))
	}
	if musicOnly[0].CollegeID != f.college1.ID || musicOnly[0].TotalPoints != 8 {
		t.Fatalf("unexpected music leader: %+v", musicOnly[0])
	}

	// Soft-deleted results drop off the board.
	if err := f.results.DeleteItemResults(drama.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	standings, err = f.results.CollegeLeaderboard(ctx, "")
	if err != nil {
		t.Fatalf("CollegeLeaderboard failed: %v", err)
	}
	if standings[0].CollegeID != f.college1.ID {
		t.Fatalf("expected college1 to lead after delete, got %+v", standings[0])
	}
}

func TestCollegeLeaderboardTieBreak(t *testing.T) {
	f := newResultFixture(t)
	ctx := context.Background()

	// Equal totals: alphabetical college name decides the order.
	err := f.results.PublishResults(f.item.ID, []ResultSubmission{
		{TeamID: f.team1.ID, Position: 1, Grade: "A"},
		{TeamID: f.team2.ID, Position: 1, Grade: "A"},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	standings, err := f.results.CollegeLeaderboard(ctx, "")
	if err != nil {
		t.Fatalf("CollegeLeaderboard failed: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("expected 2 standings, got %d", len(standings))
	}
	if standings[0].CollegeName != "Govt. College" || standings[1].CollegeName != "St. Mary's" {
		t.Fatalf("expected alphabetical tie-break, got %s then %s",
			standings[0].CollegeName, standings[1].CollegeName)
	}
}

func TestIndividualLeaderboardSingleItemsOnly(t *testing.T) {
	f := newResultFixture(t)
	ctx := context.Background()

	// Group item points must not count toward the individual board.
	drama := createItem(t, f.db, "Mime", "drama", model.ItemTypeGroup, 6)
	s3 := createStudent(t, f.db, f.college1.ID, "Chitra")
	dramaTeam := createTeam(t, f.db, f.college1, drama, s3)

	err := f.results.PublishResults(f.item.ID, []ResultSubmission{
		{TeamID: f.team1.ID, Position: 1, Grade: "A"},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	err = f.results.PublishResults(drama.ID, []ResultSubmission{
		{TeamID: dramaTeam.ID, Position: 1, Grade: "A"},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	standings, err := f.results.IndividualLeaderboard(ctx)
	if err != nil {
		t.Fatalf("IndividualLeaderboard failed: %v", err)
	}
	if len(standings) != 1 {
		t.Fatalf("expected 1 individual standing, got %d", len(standings))
	}
	if standings[0].StudentName != "Anu" || standings[0].TotalPoints != 8 || standings[0].Rank != 1 {
		t.Fatalf("unexpected standing: %+v", standings[0])
	}
}
