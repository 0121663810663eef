package store

import (
	"context"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fixture_lend_tool/models"
)

// Postgres keeps the inventory and ledger in two tables. Semantics match the
// spreadsheet backend: full read, full rewrite.
type Postgres struct {
	DB *gorm.DB
}

func NewPostgres(db *gorm.DB) *Postgres { return &Postgres{DB: db} }

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return db
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.FixtureRecord{}, &models.LoanRecord{}); err != nil {
		return err
	}

	// 查询当前未归还的借用更快
	return db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_article_system
	  ON %s (article, system)
	  WHERE returned_at IS NULL;
	`, models.LoanTable, models.LoanTable)).Error
}

func (p *Postgres) LoadFixtures(ctx context.Context) ([]models.FixtureRecord, error) {
	var rows []models.FixtureRecord
	if err := p.DB.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	for i := range rows {
		rows[i].Classify()
	}
	return rows, nil
}

func (p *Postgres) LoadLoans(ctx context.Context) ([]models.LoanRecord, error) {
	var rows []models.LoanRecord
	if err := p.DB.WithContext(ctx).Order("borrowed_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return rows, nil
}

func (p *Postgres) SaveLoans(ctx context.Context, loans []models.LoanRecord) error {
	err := p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM " + models.LoanTable).Error; err != nil {
			return err
		}
		if len(loans) == 0 {
			return nil
		}
		return tx.CreateInBatches(loans, 200).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return nil
}
