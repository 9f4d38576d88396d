package mock

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"notekeeper/models"
)

func TestNewSeedsExpectedRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := New(ctx)
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}

	var folders []models.Folder
	if err := db.WithContext(ctx).Where("owner_username = ?", DemoUsername).Find(&folders).Error; err != nil {
		t.Fatalf("query folders: %v", err)
	}
	if len(folders) != 2 {
		t.Fatalf("expected two seeded folders, got %d", len(folders))
	}

	var notes []models.Note
	if err := db.WithContext(ctx).Where("owner_username = ?", DemoUsername).Find(&notes).Error; err != nil {
		t.Fatalf("query notes: %v", err)
	}
	var favorites, locked int
	for _, note := range notes {
		if note.Favorite {
			favorites++
		}
		if note.Locked {
			locked++
		}
	}
	if len(notes) == 0 || favorites == 0 || locked == 0 {
		t.Fatalf("expected notes with favorites and locks, got %d/%d/%d", len(notes), favorites, locked)
	}

	var user models.User
	if err := db.WithContext(ctx).First(&user, "username = ?", DemoUsername).Error; err != nil {
		t.Fatalf("query user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(DemoPassword)); err != nil {
		t.Fatalf("unexpected password hash: %v", err)
	}
}

func TestNewReturnsIndependentDatabases(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first, err := New(ctx)
	if err != nil {
		t.Fatalf("first mock database: %v", err)
	}
	second, err := New(ctx)
	if err != nil {
		t.Fatalf("second mock database: %v", err)
	}

	if err := first.WithContext(ctx).Where("1 = 1").Delete(&models.Note{}).Error; err != nil {
		t.Fatalf("clear notes: %v", err)
	}
	var count int64
	if err := second.WithContext(ctx).Model(&models.Note{}).Count(&count).Error; err != nil {
		t.Fatalf("count notes: %v", err)
	}
	if count == 0 {
		t.Fatal("expected second database to keep its notes")
	}
}
