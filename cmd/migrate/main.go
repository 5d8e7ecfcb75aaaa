package main

import (
	"log"
	"os"

	"rag-knowledge-be/internal/model"
	"rag-knowledge-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting GORM Migration...")

	// 3. Pre-Migration: extensions GORM AutoMigrate doesn't handle
	color.Cyan("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate all models
	color.Cyan("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Source{},
		&model.ContentChunk{},
		&model.RejectReason{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Seed the rejection reason enumeration. Idempotent: existing rows
	// are left untouched.
	color.Cyan("Step 3: Seeding reject reasons...")

	reasons := []model.RejectReason{
		{Reason: "inappropriate", Severity: 1},
		{Reason: "duplicated", Severity: 3},
		{Reason: "low_quality", Severity: 2},
		{Reason: "obsolete", Severity: 2},
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reason"}},
		DoNothing: true,
	}).Create(&reasons)
	if result.Error != nil {
		log.Fatalf("Error: Failed to seed reject reasons: %v", result.Error)
	}

	color.Green("✅ Success: Database migration completed successfully via GORM.")
}
