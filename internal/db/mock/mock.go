package mock

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "notekeeper/internal/log"
	"notekeeper/models"
)

// Demo account seeded into every mock database.
const (
	DemoUsername = "demo"
	DemoPassword = "notekeeper"
)

var instances atomic.Int64

// New returns an in-memory sqlite database seeded with a demo account, a few
// folders and notes covering favorites and locked notes.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	dsn := fmt.Sprintf("file:notekeeper-mock-%d?mode=memory&cache=shared", instances.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Folder{},
		&models.Note{},
	); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Username:     DemoUsername,
		PasswordHash: string(password),
		Theme:        models.ThemeSensor,
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	recipes := models.Folder{Name: "Recipes", OwnerUsername: DemoUsername, Color: models.FolderGold}
	travel := models.Folder{Name: "Travel", OwnerUsername: DemoUsername, Color: models.FolderBlue}
	for _, folder := range []*models.Folder{&recipes, &travel} {
		if err := db.WithContext(ctx).Create(folder).Error; err != nil {
			return err
		}
	}

	notes := []models.Note{
		{
			Title:         "Welcome",
			Content:       "Notes without a folder are listed under General. Star a note to find it in Favorites.",
			OwnerUsername: DemoUsername,
		},
		{
			Title:         "Pierogi",
			Content:       "500 g flour, 250 ml warm water, a pinch of salt. Rest the dough for 30 minutes.",
			FolderID:      &recipes.ID,
			OwnerUsername: DemoUsername,
			Favorite:      true,
		},
		{
			Title:         "Kraków",
			Content:       "Wawel at opening time, then lunch in Kazimierz.",
			FolderID:      &travel.ID,
			OwnerUsername: DemoUsername,
		},
		{
			Title:         "Door code",
			Content:       "4711",
			OwnerUsername: DemoUsername,
			Locked:        true,
		},
	}
	for i := range notes {
		if err := db.WithContext(ctx).Create(&notes[i]).Error; err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded", "folders", 2, "notes", len(notes))
	return nil
}
