package database

import (
	"path/filepath"
	"sync"
	"testing"

	"codeclass/migrations"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(migrations.FS); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	tables := []string{"users", "sessions", "lessons", "completed_lessons", "lesson_progress", "classes", "rooms"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Running again is a no-op
	if err := db.RunMigrations(migrations.FS); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
}

func TestMissingTableIsSetupError(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := Initialize(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	_, err = db.Query("SELECT id FROM lessons")
	if !db.Dialect.IsSetupError(err) {
		t.Errorf("expected setup error for missing table, got %v", err)
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	insert := "INSERT INTO users (id, email, name) VALUES (?, ?, ?)"

	err := db.WithTx(func(tx *Tx) error {
		_, err := tx.Exec(insert, "u1", "one@example.com", "One")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", "u1").Scan(&count); err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}

	// A failing second statement rolls back the first
	err = db.WithTx(func(tx *Tx) error {
		if _, err := tx.Exec(insert, "u2", "two@example.com", "Two"); err != nil {
			return err
		}
		_, err := tx.Exec(insert, "u3", "one@example.com", "Duplicate")
		return err
	})
	if err == nil {
		t.Fatal("expected unique violation")
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", "u2").Scan(&count); err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 users after rollback, got %d", count)
	}
}

func TestUpsertAndInsertIgnore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	if _, err := db.Exec("INSERT INTO users (id, email) VALUES (?, ?)", "u1", "a@example.com"); err != nil {
		t.Fatalf("insert user: %v", err)
	}

	ignore := db.Dialect.InsertIgnoreQuery("completed_lessons", []string{"user_id", "lesson_id"})
	for i := 0; i < 2; i++ {
		if _, err := db.Exec(ignore, "u1", "01-hello"); err != nil {
			t.Fatalf("insert ignore #%d: %v", i, err)
		}
	}

	upsert := db.Dialect.UpsertQuery("lesson_progress",
		[]string{"user_id", "lesson_id", "completed_at", "score"}, []string{"user_id", "lesson_id"})
	if _, err := db.Exec(upsert, "u1", "01-hello", "2026-01-01T10:00:00Z", 60); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := db.Exec(upsert, "u1", "01-hello", "2026-01-02T10:00:00Z", 85); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var completions, score int
	db.QueryRow("SELECT COUNT(*) FROM completed_lessons WHERE user_id = ?", "u1").Scan(&completions)
	db.QueryRow("SELECT score FROM lesson_progress WHERE user_id = ? AND lesson_id = ?", "u1", "01-hello").Scan(&score)
	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}
	if score != 85 {
		t.Errorf("score = %d, want 85", score)
	}
}

// TestConcurrentAccess tests concurrent database access
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	if _, err := db.Exec("INSERT INTO users (id, email, name) VALUES (?, ?, ?)", "c1", "concurrent@example.com", "Concurrent"); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var name string
			err := db.QueryRow("SELECT name FROM users WHERE email = ?", "concurrent@example.com").Scan(&name)
			if err != nil {
				t.Errorf("Concurrent read failed: %v", err)
			}
			if name != "Concurrent" {
				t.Errorf("Expected name 'Concurrent', got '%s'", name)
			}
		}()
	}
	wg.Wait()
}
