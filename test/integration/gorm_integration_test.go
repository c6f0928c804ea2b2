package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"docassist-be/internal/entity"
	"docassist-be/internal/repository/specification"
	"docassist-be/internal/repository/unitofwork"
	"docassist-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.DocumentEmbeddingRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Document Embedding Repository", func(t *testing.T) {
		count, err := uow.DocumentEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("DocumentEmbedding count: %d", count)
	})

	t.Run("Transactional session with messages", func(t *testing.T) {
		ctx := context.Background()
		userId := uuid.New()

		user := &entity.User{
			Id:           userId,
			Email:        "test-integration-" + uuid.New().String() + "@example.com",
			PasswordHash: "not-a-real-hash",
			FullName:     "Integration Test",
		}

		txUow := uowFactory.NewUnitOfWork(ctx)
		assert.NoError(t, txUow.Begin(ctx))
		defer txUow.Rollback()

		assert.NoError(t, txUow.UserRepository().Create(ctx, user))

		session := &entity.ChatSession{
			Id:     uuid.New(),
			UserId: userId,
			Title:  "Unnamed session",
		}
		assert.NoError(t, txUow.ChatSessionRepository().Create(ctx, session))

		message := &entity.ChatMessage{
			Id:            uuid.New(),
			Chat:          "integration hello",
			Role:          "user",
			ChatSessionId: session.Id,
		}
		assert.NoError(t, txUow.ChatMessageRepository().Create(ctx, message))

		found, err := txUow.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: session.Id},
			specification.UserOwnedBy{UserID: userId},
		)
		assert.NoError(t, err)
		assert.NotNil(t, found)

		// Rollback via defer keeps the database clean
	})
}
