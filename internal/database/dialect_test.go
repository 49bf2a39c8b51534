package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestDialectNames(t *testing.T) {
	tests := []struct {
		dialect Dialect
		driver  string
		subdir  string
	}{
		{NewSQLiteDialect(), "sqlite3", "sqlite"},
		{NewPostgresDialect(), "postgres", "postgres"},
		{NewMySQLDialect(), "mysql", "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %v, want %v", got, tt.driver)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.subdir {
				t.Errorf("MigrationsSubdir() = %v, want %v", got, tt.subdir)
			}
		})
	}
}

func TestDialectFor(t *testing.T) {
	for _, name := range []string{"", "sqlite", "SQLite3", "postgres", "postgresql", "mysql"} {
		if _, err := DialectFor(name); err != nil {
			t.Errorf("DialectFor(%q) returned error: %v", name, err)
		}
	}
	if _, err := DialectFor("oracle"); err == nil {
		t.Error("DialectFor(oracle) should fail")
	}
}

func TestMySQLDSNAddsParseTime(t *testing.T) {
	d := NewMySQLDialect()
	tests := []struct {
		url  string
		want string
	}{
		{"user:pw@tcp(db:3306)/app", "user:pw@tcp(db:3306)/app?parseTime=true"},
		{"user:pw@tcp(db:3306)/app?charset=utf8mb4", "user:pw@tcp(db:3306)/app?charset=utf8mb4&parseTime=true"},
		{"user:pw@tcp(db:3306)/app?parseTime=false", "user:pw@tcp(db:3306)/app?parseTime=false"},
	}
	for _, tt := range tests {
		if got := d.DSN(DialectConfig{URL: tt.url}); got != tt.want {
			t.Errorf("DSN(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM users WHERE id = ?",
			expected: "SELECT * FROM users WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM users WHERE id = ?",
			expected: "SELECT * FROM users WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO users (name, email) VALUES (?, ?)",
			expected: "INSERT INTO users (name, email) VALUES ($1, $2)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE users SET name = ?, email = ? WHERE id = ?",
			expected: "UPDATE users SET name = ?, email = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestUpsertQuery(t *testing.T) {
	columns := []string{"user_id", "lesson_id", "completed_at", "score"}
	keys := []string{"user_id", "lesson_id"}

	tests := []struct {
		name     string
		dialect  Dialect
		expected string
	}{
		{
			name:     "SQLite",
			dialect:  NewSQLiteDialect(),
			expected: "INSERT INTO lesson_progress (user_id, lesson_id, completed_at, score) VALUES (?, ?, ?, ?) ON CONFLICT (user_id, lesson_id) DO UPDATE SET completed_at = excluded.completed_at, score = excluded.score",
		},
		{
			name:     "PostgreSQL",
			dialect:  NewPostgresDialect(),
			expected: "INSERT INTO lesson_progress (user_id, lesson_id, completed_at, score) VALUES (?, ?, ?, ?) ON CONFLICT (user_id, lesson_id) DO UPDATE SET completed_at = excluded.completed_at, score = excluded.score",
		},
		{
			name:     "MySQL",
			dialect:  NewMySQLDialect(),
			expected: "INSERT INTO lesson_progress (user_id, lesson_id, completed_at, score) VALUES (?, ?, ?, ?) ON DUPLICATE KEY UPDATE completed_at = VALUES(completed_at), score = VALUES(score)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.UpsertQuery("lesson_progress", columns, keys); got != tt.expected {
				t.Errorf("UpsertQuery() =\n%v\nwant\n%v", got, tt.expected)
			}
		})
	}
}

func TestInsertIgnoreQuery(t *testing.T) {
	columns := []string{"user_id", "lesson_id"}
	tests := []struct {
		name     string
		dialect  Dialect
		expected string
	}{
		{"SQLite", NewSQLiteDialect(), "INSERT OR IGNORE INTO completed_lessons (user_id, lesson_id) VALUES (?, ?)"},
		{"PostgreSQL", NewPostgresDialect(), "INSERT INTO completed_lessons (user_id, lesson_id) VALUES (?, ?) ON CONFLICT DO NOTHING"},
		{"MySQL", NewMySQLDialect(), "INSERT IGNORE INTO completed_lessons (user_id, lesson_id) VALUES (?, ?)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.InsertIgnoreQuery("completed_lessons", columns); got != tt.expected {
				t.Errorf("InsertIgnoreQuery() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsSetupError(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		err     error
		want    bool
	}{
		{"postgres permission denied", NewPostgresDialect(), &pq.Error{Code: "42501"}, true},
		{"postgres missing table", NewPostgresDialect(), fmt.Errorf("query: %w", &pq.Error{Code: "42P01"}), true},
		{"postgres unique violation", NewPostgresDialect(), &pq.Error{Code: "23505"}, false},
		{"mysql table access denied", NewMySQLDialect(), &mysql.MySQLError{Number: 1142}, true},
		{"mysql no such table", NewMySQLDialect(), &mysql.MySQLError{Number: 1146}, true},
		{"mysql duplicate entry", NewMySQLDialect(), &mysql.MySQLError{Number: 1062}, false},
		{"sqlite missing table", NewSQLiteDialect(), errors.New("no such table: lessons"), true},
		{"sqlite auth", NewSQLiteDialect(), sqlite3.Error{Code: sqlite3.ErrAuth}, true},
		{"sqlite constraint", NewSQLiteDialect(), sqlite3.Error{Code: sqlite3.ErrConstraint}, false},
		{"nil", NewSQLiteDialect(), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.IsSetupError(tt.err); got != tt.want {
				t.Errorf("IsSetupError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	d := NewPostgresDialect()

	if err := Classify(d, nil); err != nil {
		t.Errorf("Classify(nil) = %v", err)
	}

	plain := errors.New("boom")
	if err := Classify(d, plain); err != plain {
		t.Errorf("Classify should return unrelated errors unchanged, got %v", err)
	}

	err := Classify(d, &pq.Error{Code: "42P01"})
	if !errors.Is(err, ErrSetupRequired) {
		t.Errorf("Classify should wrap setup errors, got %v", err)
	}
	if again := Classify(d, err); again != err {
		t.Error("Classify should not double wrap")
	}
}

func TestSplitStatements(t *testing.T) {
	content := `
-- comment only
CREATE TABLE a (id TEXT);

CREATE TABLE b (id TEXT);
`
	stmts := splitStatements(content)
	if len(stmts) != 2 {
		t.Fatalf("splitStatements() returned %d statements, want 2: %q", len(stmts), stmts)
	}
}
