package services

import (
	"strings"
	"testing"

	"github.com/artsfest/artsfest-api/model"
	"github.com/artsfest/artsfest-api/utils/auth"
)

func TestImportColleges(t *testing.T) {
	db := newTestDB(t)
	imports := NewImportService(db)

	csv := `Username,College,District,Password
stmarys,St. Mary's College,Ernakulam,secret123
govtclg,Govt. College,Thrissur,secret456
,Missing Username,Kollam,x
`
	summary, err := imports.ImportColleges(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportColleges failed: %v", err)
	}
	if summary.Created != 2 || summary.Updated != 0 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var user model.User
	if err := db.Preload("College").Where("username = ?", "stmarys").First(&user).Error; err != nil {
		t.Fatalf("imported user not found: %v", err)
	}
	if user.Role != model.RoleCollege {
		t.Errorf("expected college role, got %s", user.Role)
	}
	if user.College == nil || user.College.Name != "St. Mary's College" || user.College.District != "Ernakulam" {
		t.Errorf("unexpected college: %+v", user.College)
	}
	if auth.VerifyPassword(user.PasswordHash, "secret123") != nil {
		t.Error("imported password does not verify")
	}
}

func TestImportCollegesRerunUpdates(t *testing.T) {
	db := newTestDB(t)
	imports := NewImportService(db)

	first := "Username,College,District,Password\nstmarys,St. Mary's College,Ernakulam,secret123\n"
	if _, err := imports.ImportColleges(strings.NewReader(first)); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	second := "Username,College,District,Password\nstmarys,St. Mary's Arts College,Kottayam,newpass123\n"
	summary, err := imports.ImportColleges(strings.NewReader(second))
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if summary.Created != 0 || summary.Updated != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var user model.User
	if err := db.Preload("College").Where("username = ?", "stmarys").First(&user).Error; err != nil {
		t.Fatalf("user not found: %v", err)
	}
	if user.College.Name != "St. Mary's Arts College" || user.College.District != "Kottayam" {
		t.Errorf("college not refreshed: %+v", user.College)
	}
	if auth.VerifyPassword(user.PasswordHash, "newpass123") != nil {
		t.Error("password not refreshed")
	}

	var collegeCount int64
	if err := db.Model(&model.College{}).Count(&collegeCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if collegeCount != 1 {
		t.Fatalf("expected 1 college after rerun, got %d", collegeCount)
	}
}

func TestImportCollegesMissingColumn(t *testing.T) {
	db := newTestDB(t)
	imports := NewImportService(db)

	_, err := imports.ImportColleges(strings.NewReader("Username,College\nstmarys,St. Mary's\n"))
	if err == nil || !strings.Contains(err.Error(), "District") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestImportItems(t *testing.T) {
	db := newTestDB(t)
	imports := NewImportService(db)

	csv := `ITEM,Numbers,Category
Classical Music,1,Sangeetholsavam
Group Song,7,Sangeetholsavam
Bad Row,zero,Sangeetholsavam
`
	summary, err := imports.ImportItems(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportItems failed: %v", err)
	}
	if summary.Created != 2 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var single model.Item
	if err := db.Where("name = ?", "Classical Music").First(&single).Error; err != nil {
		t.Fatalf("item not found: %v", err)
	}
	if single.ItemType != model.ItemTypeSingle || single.MaxParticipants != 1 {
		t.Errorf("unexpected single item: %+v", single)
	}

	// More than one participant makes it a group item.
	var group model.Item
	if err := db.Where("name = ?", "Group Song").First(&group).Error; err != nil {
		t.Fatalf("item not found: %v", err)
	}
	if group.ItemType != model.ItemTypeGroup || group.MaxParticipants != 7 {
		t.Errorf("unexpected group item: %+v", group)
	}
}

func TestImportItemsRerunUpdates(t *testing.T) {
	db := newTestDB(t)
	imports := NewImportService(db)

	if _, err := imports.ImportItems(strings.NewReader("ITEM,Numbers,Category\nMime,6,Drishyanatakolsavam\n")); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	summary, err := imports.ImportItems(strings.NewReader("ITEM,Numbers,Category\nMime,8,Drishyanatakolsavam\n"))
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if summary.Created != 0 || summary.Updated != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var item model.Item
	if err := db.Where("name = ?", "Mime").First(&item).Error; err != nil {
		t.Fatalf("item not found: %v", err)
	}
	if item.MaxParticipants != 8 {
		t.Errorf("cap not refreshed: %+v", item)
	}

	var count int64
	if err := db.Model(&model.Item{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 item after rerun, got %d", count)
	}
}
