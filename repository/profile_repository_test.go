package repository

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/stedward-parish/directorybackend/database"
	"github.com/stedward-parish/directorybackend/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to init test database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

type fixture struct {
	db      *gorm.DB
	users   UserRepository
	parish  *models.Parish
	family  *models.Family
	user    *models.User
	profile *models.Profile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openTestDB(t)

	parish := &models.Parish{Name: "St Edward", Slug: "st-edward", CreatedAt: 1, UpdatedAt: 1}
	if err := NewGormParishRepository(db).Create(parish); err != nil {
		t.Fatalf("failed to create parish: %v", err)
	}

	family := &models.Family{ParishID: parish.ID, Name: "Smith", Slug: "smith", CreatedAt: 1, UpdatedAt: 1}
	if err := NewGormFamilyRepository(db).Create(family); err != nil {
		t.Fatalf("failed to create family: %v", err)
	}

	users := NewGormUserRepository(db)
	user := &models.User{Username: "asmith", FirstName: "Ann", LastName: "Smith", PasswordHash: "x"}
	if err := users.Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	profile := &models.Profile{UserID: user.ID, ParishID: parish.ID, FamilyID: &family.ID}
	if err := NewGormProfileRepository(db).Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	return &fixture{db: db, users: users, parish: parish, family: family, user: user, profile: profile}
}

func TestFamilyDeleteDetachesProfile(t *testing.T) {
	f := newFixture(t)

	if err := NewGormFamilyRepository(f.db).Delete(f.family.ID); err != nil {
		t.Fatalf("failed to delete family: %v", err)
	}

	got, err := NewGormProfileRepository(f.db).GetByUserID(f.user.ID)
	if err != nil {
		t.Fatalf("profile should survive family deletion, got error: %v", err)
	}
	if got.FamilyID != nil {
		t.Errorf("profile.FamilyID = %v after family deletion, want nil", *got.FamilyID)
	}
}

func TestParishDeleteRemovesProfile(t *testing.T) {
	f := newFixture(t)

	if err := NewGormParishRepository(f.db).Delete(f.parish.ID); err != nil {
		t.Fatalf("failed to delete parish: %v", err)
	}

	_, err := NewGormProfileRepository(f.db).GetByUserID(f.user.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("profile lookup after parish deletion = %v, want ErrRecordNotFound", err)
	}
}

func TestUserDeleteRemovesProfile(t *testing.T) {
	f := newFixture(t)

	if err := f.users.Delete(f.user.ID); err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}

	_, err := NewGormProfileRepository(f.db).GetByUserID(f.user.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("profile lookup after user deletion = %v, want ErrRecordNotFound", err)
	}
}

func TestOneProfilePerUser(t *testing.T) {
	f := newFixture(t)

	second := &models.Profile{UserID: f.user.ID, ParishID: f.parish.ID}
	if err := NewGormProfileRepository(f.db).Create(second); err == nil {
		t.Error("creating a second profile for the same user succeeded, want unique violation")
	}
}

func TestProfileUpdateKeepsCreatedAt(t *testing.T) {
	f := newFixture(t)
	repo := NewGormProfileRepository(f.db)

	created := f.profile.CreatedAt
	time.Sleep(1100 * time.Millisecond)

	f.profile.Phone = "555-0100"
	f.profile.OptInDirectory = true
	if err := repo.Update(f.profile); err != nil {
		t.Fatalf("failed to update profile: %v", err)
	}

	got, err := repo.GetByID(f.profile.ID)
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if got.CreatedAt != created {
		t.Errorf("CreatedAt changed from %d to %d on update", created, got.CreatedAt)
	}
	if got.UpdatedAt <= created {
		t.Errorf("UpdatedAt = %d, want later than %d", got.UpdatedAt, created)
	}
	if got.Phone != "555-0100" || !got.OptInDirectory {
		t.Errorf("update not persisted: phone=%q opt_in=%v", got.Phone, got.OptInDirectory)
	}
}

func TestUpdatePhotoPath(t *testing.T) {
	f := newFixture(t)
	repo := NewGormProfileRepository(f.db)

	path := "profiles/u1/beach.jpg"
	if err := repo.UpdatePhotoPath(f.profile.ID, &path); err != nil {
		t.Fatalf("failed to set photo path: %v", err)
	}
	got, err := repo.GetByID(f.profile.ID)
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if got.PhotoPath == nil || *got.PhotoPath != path {
		t.Errorf("PhotoPath = %v, want %q", got.PhotoPath, path)
	}

	if err := repo.UpdatePhotoPath(f.profile.ID, nil); err != nil {
		t.Fatalf("failed to clear photo path: %v", err)
	}
	got, err = repo.GetByID(f.profile.ID)
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if got.PhotoPath != nil {
		t.Errorf("PhotoPath = %q after clear, want nil", *got.PhotoPath)
	}

	if err := repo.UpdatePhotoPath(99999, &path); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("UpdatePhotoPath on missing profile = %v, want ErrRecordNotFound", err)
	}
}
