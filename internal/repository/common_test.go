package repository_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"go-gin-event-calendar/config"
	"go-gin-event-calendar/internal/database"
	"go-gin-event-calendar/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// testDB 測試用連接池；連不上測試資料庫時為 nil，相關測試會 skip
var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	cfg := config.LoadTestConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Printf("Test database unavailable, skipping DB tests: %v", err)
	} else if err := database.RunMigrations(cfg.Database.URL()); err != nil {
		log.Printf("Failed to migrate test database, skipping DB tests: %v", err)
		pool.Close()
	} else {
		testDB = pool
		log.Println("Test database connected successfully")
	}

	log.Println("Running repository tests...")
	code := m.Run()

	if testDB != nil {
		testDB.Close()
		log.Println("Test database closed")
	}

	os.Exit(code)
}

// getTestDB 回傳測試資料庫並清空所有資料表
func getTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testDB == nil {
		t.Skip("test database is not available")
	}

	_, err := testDB.Exec(context.Background(),
		"TRUNCATE notifications, participations, events, users RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
	return testDB
}

func createTestUser(t *testing.T, username, fullName string) int {
	t.Helper()

	var id int
	err := testDB.QueryRow(context.Background(),
		`INSERT INTO users (username, full_name, email) VALUES ($1, $2, $3) RETURNING id`,
		username, fullName, username+"@example.com",
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

func createTestEvent(t *testing.T, organizerID int, title string, start, end time.Time, maxParticipants int, status model.EventStatus) int {
	t.Helper()

	var id int
	err := testDB.QueryRow(context.Background(), `
		INSERT INTO events (event_id, title, description, location, start_at, end_at, max_participants, organizer_id, status)
		VALUES ($1, $2, '', 'Room 1', $3, $4, $5, $6, $7)
		RETURNING id`,
		uuid.New(), title, start, end, maxParticipants, organizerID, status,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}
	return id
}

func createTestParticipation(t *testing.T, eventID, participantID int, status model.ParticipationStatus) int {
	t.Helper()

	var id int
	err := testDB.QueryRow(context.Background(),
		`INSERT INTO participations (event_id, participant_id, status) VALUES ($1, $2, $3) RETURNING id`,
		eventID, participantID, status,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test participation: %v", err)
	}
	return id
}

func countRows(t *testing.T, table string) int {
	t.Helper()

	var count int
	err := testDB.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return count
}
