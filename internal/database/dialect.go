package database

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// ConfigureConnection applies any database-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the subdirectory name for migrations (e.g., "sqlite", "postgres")
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string

	// UpsertQuery returns an INSERT that updates the non-key columns when a
	// row with the same keys already exists
	UpsertQuery(table string, columns, keys []string) string

	// InsertIgnoreQuery returns an INSERT that silently skips duplicate keys
	InsertIgnoreQuery(table string, columns []string) string

	// IsSetupError reports whether err means the backing store is not
	// provisioned for the app: permission denied or a missing table
	IsSetupError(err error) bool
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

// placeholderRegexp matches ? placeholders not inside quotes
var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

// insertPrefix renders "INSERT INTO t (a, b) VALUES (?, ?)"
func insertPrefix(verb, table string, columns []string) string {
	marks := make([]string, len(columns))
	for i := range columns {
		marks[i] = "?"
	}
	return verb + " " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
}

// nonKeyColumns returns columns not present in keys
func nonKeyColumns(columns, keys []string) []string {
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}
	var rest []string
	for _, c := range columns {
		if !isKey[c] {
			rest = append(rest, c)
		}
	}
	return rest
}

// onConflictUpsert is shared by SQLite and PostgreSQL
func onConflictUpsert(table string, columns, keys []string) string {
	query := insertPrefix("INSERT INTO", table, columns) + " ON CONFLICT (" + strings.Join(keys, ", ") + ")"
	rest := nonKeyColumns(columns, keys)
	if len(rest) == 0 {
		return query + " DO NOTHING"
	}
	sets := make([]string, len(rest))
	for i, c := range rest {
		sets[i] = c + " = excluded." + c
	}
	return query + " DO UPDATE SET " + strings.Join(sets, ", ")
}
