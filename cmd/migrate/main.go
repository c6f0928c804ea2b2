package main

import (
	"fmt"
	"log"

	"docassist-be/internal/config"
	"docassist-be/internal/model"
	"docassist-be/pkg/database"
)

func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM migration...")

	// Extensions GORM AutoMigrate cannot create itself
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	models := []interface{}{
		&model.User{},
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.Document{},
		&model.DocumentEmbedding{},
		&model.UserProfile{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	// Pin the vector width to what the configured embedding provider emits.
	// Switching providers across widths requires a reindex of all documents.
	alterSQL := fmt.Sprintf(
		`ALTER TABLE document_embeddings ALTER COLUMN embedding_value TYPE vector(%d);`,
		cfg.Ai.EmbeddingDimension,
	)
	if err := db.Exec(alterSQL).Error; err != nil {
		log.Fatal("Error: Failed to set embedding vector width:", err)
	}

	log.Printf("Migration complete. Embedding column is vector(%d).", cfg.Ai.EmbeddingDimension)
}
