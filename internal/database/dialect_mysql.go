package database

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

func (d *MySQLDialect) DSN(config DialectConfig) string {
	// timestamps are scanned into time.Time
	if config.URL != "" && !strings.Contains(config.URL, "parseTime=") {
		sep := "?"
		if strings.Contains(config.URL, "?") {
			sep = "&"
		}
		return config.URL + sep + "parseTime=true"
	}
	return config.URL
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	// MySQL uses ? placeholders like SQLite, no rewrite needed
	return query
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1;"); err != nil {
		return err
	}

	return nil
}

func (d *MySQLDialect) MigrationsSubdir() string {
	return "mysql"
}

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		);
	`
}

func (d *MySQLDialect) UpsertQuery(table string, columns, keys []string) string {
	query := insertPrefix("INSERT INTO", table, columns)
	rest := nonKeyColumns(columns, keys)
	if len(rest) == 0 {
		return insertPrefix("INSERT IGNORE INTO", table, columns)
	}
	sets := make([]string, len(rest))
	for i, c := range rest {
		sets[i] = c + " = VALUES(" + c + ")"
	}
	return query + " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
}

func (d *MySQLDialect) InsertIgnoreQuery(table string, columns []string) string {
	return insertPrefix("INSERT IGNORE INTO", table, columns)
}

// ER_TABLEACCESS_DENIED_ERROR, ER_NO_SUCH_TABLE, ER_DBACCESS_DENIED_ERROR
var mysqlSetupErrors = map[uint16]bool{1142: true, 1146: true, 1044: true}

func (d *MySQLDialect) IsSetupError(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	return mysqlSetupErrors[myErr.Number]
}
