package snapshot

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/logging"
	"github.com/mrlokans/bookreviews/internal/metrics"
)

// Row models. Embedded user and book snapshots are stored as JSON columns so
// that a stale snapshot survives a round trip exactly as it was.

type userRow struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Email       string
	Preferences []string `gorm:"serializer:json"`
}

func (userRow) TableName() string { return "users" }

type bookRow struct {
	ID     string `gorm:"primaryKey"`
	Title  string
	Author string
	Genre  string
	ISBN   string `gorm:"column:isbn"`
}

func (bookRow) TableName() string { return "books" }

type reviewRow struct {
	ID      string        `gorm:"primaryKey"`
	User    entities.User `gorm:"serializer:json"`
	Book    entities.Book `gorm:"serializer:json"`
	Rating  int
	Comment string
}

func (reviewRow) TableName() string { return "reviews" }

type recommendationRow struct {
	ID   string        `gorm:"primaryKey"`
	User entities.User `gorm:"serializer:json"`
	Book entities.Book `gorm:"serializer:json"`
}

func (recommendationRow) TableName() string { return "recommendations" }

// SQLiteStore keeps the snapshot in a SQLite database, one table per collection.
type SQLiteStore struct {
	DB *gorm.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&userRow{}, &bookRow{}, &reviewRow{}, &recommendationRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logging.Info().Str("path", dbPath).Msg("snapshot database ready")
	return &SQLiteStore{DB: db}, nil
}

func (s *SQLiteStore) Name() string { return BackendSQLite }

// Load reads every table in id order. A table that cannot be read yields an
// empty collection.
func (s *SQLiteStore) Load(ctx context.Context) (Data, error) {
	db := s.DB.WithContext(ctx)
	var data Data

	var users []userRow
	if err := db.Order("id").Find(&users).Error; err != nil {
		logging.Warn().Err(err).Str("table", "users").Msg("failed to load snapshot table, starting empty")
	}
	for _, r := range users {
		data.Users = append(data.Users, entities.User{ID: r.ID, Name: r.Name, Email: r.Email, Preferences: r.Preferences})
	}

	var books []bookRow
	if err := db.Order("id").Find(&books).Error; err != nil {
		logging.Warn().Err(err).Str("table", "books").Msg("failed to load snapshot table, starting empty")
	}
	for _, r := range books {
		data.Books = append(data.Books, entities.Book(r))
	}

	var reviews []reviewRow
	if err := db.Order("id").Find(&reviews).Error; err != nil {
		logging.Warn().Err(err).Str("table", "reviews").Msg("failed to load snapshot table, starting empty")
	}
	for _, r := range reviews {
		data.Reviews = append(data.Reviews, entities.NewReview(r.ID, r.User, r.Book, r.Rating, r.Comment))
	}

	var recs []recommendationRow
	if err := db.Order("id").Find(&recs).Error; err != nil {
		logging.Warn().Err(err).Str("table", "recommendations").Msg("failed to load snapshot table, starting empty")
	}
	for _, r := range recs {
		data.Recommendations = append(data.Recommendations, entities.NewRecommendation(r.ID, r.User, r.Book))
	}

	metrics.RecordSnapshot(BackendSQLite, "load", nil)
	return data, ctx.Err()
}

// Save replaces the contents of every table in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, data Data) (err error) {
	defer func() { metrics.RecordSnapshot(BackendSQLite, "save", err) }()

	users := make([]userRow, 0, len(data.Users))
	for _, u := range data.Users {
		users = append(users, userRow{ID: u.ID, Name: u.Name, Email: u.Email, Preferences: u.Clone().Preferences})
	}
	books := make([]bookRow, 0, len(data.Books))
	for _, b := range data.Books {
		books = append(books, bookRow(b))
	}
	reviews := make([]reviewRow, 0, len(data.Reviews))
	for _, r := range data.Reviews {
		reviews = append(reviews, reviewRow{ID: r.ID, User: r.User, Book: r.Book, Rating: r.Rating, Comment: r.Comment})
	}
	recs := make([]recommendationRow, 0, len(data.Recommendations))
	for _, r := range data.Recommendations {
		recs = append(recs, recommendationRow{ID: r.ID, User: r.User, Book: r.Book})
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceAll(tx, users); err != nil {
			return err
		}
		if err := replaceAll(tx, books); err != nil {
			return err
		}
		if err := replaceAll(tx, reviews); err != nil {
			return err
		}
		return replaceAll(tx, recs)
	})
}

func replaceAll[T any](tx *gorm.DB, rows []T) error {
	var model T
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model).Error; err != nil {
		return fmt.Errorf("failed to clear table: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, 200).Error; err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
