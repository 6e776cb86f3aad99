// Package history records analyse runs and their per-recipient summaries in a SQL database.
package history

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/schema"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for run history.
const (
	RunsTable       = "history_runs"
	RecipientsTable = "history_recipients"
)

// storedDateLayout is how reference dates are kept in every backend.
const storedDateLayout = "2006-01-02"

// StoreImpl implements the HistoryStore interface.
type StoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &StoreImpl{} // Compile-time check

// NewStore creates a new HistoryStore with the specified backend.
func NewStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// No-op store for disabled history
		return &StoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is readable and its directory is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &StoreImpl{db: db, backend: backend}, nil
}

// openDB opens a connection pool for the backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		return db, nil

	case schema.MySQLBackend:
		db, err := sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		return db, nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=... user=...", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

// createTables applies the embedded up migrations. Every statement is idempotent.
func createTables(db *sql.DB, backend schema.DatabaseBackend) error {
	statements, err := upStatements(backend)
	if err != nil {
		return err
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt.query); err != nil {
			return fmt.Errorf("failed to apply %s: %w", stmt.name, err)
		}
	}
	return nil
}

// placeholder returns the n-th (1-based) bind parameter for the backend.
func (s *StoreImpl) placeholder(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// placeholders returns n comma-separated bind parameters.
func (s *StoreImpl) placeholders(n int) string {
	out := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			out += ", "
		}
		out += s.placeholder(i)
	}
	return out
}

// RecordRun stores a run and its recipient summary in one transaction.
func (s *StoreImpl) RecordRun(run schema.HistoryRunRecord, recipients []schema.RecipientSummary) (int64, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	runsTable := quoteTableName(RunsTable, s.backend)
	columns := "run_uuid, started_at, reference_date, total_reports, total_requests, received_percent, config_params"
	args := []any{
		run.RunUUID,
		formatTime(run.StartedAt, s.backend),
		run.ReferenceDate.Format(storedDateLayout),
		run.TotalReports,
		run.TotalRequests,
		run.ReceivedPercent,
		run.ConfigParams,
	}

	var runID int64
	switch s.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING run_id`, runsTable, columns, s.placeholders(len(args)))
		err = tx.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, runsTable, columns, s.placeholders(len(args)))
		var result sql.Result
		result, err = tx.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert history run: %w", err)
	}

	recipientQuery := fmt.Sprintf(
		`INSERT INTO %s (run_id, recipient, total, overdue, pending, received, received_percent) VALUES (%s)`,
		quoteTableName(RecipientsTable, s.backend), s.placeholders(7))
	stmt, err := tx.Prepare(recipientQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare recipient insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range recipients {
		if _, err := stmt.Exec(runID, r.Recipient, r.Total, r.Overdue, r.Pending, r.Received, r.ReceivedPercent); err != nil {
			return 0, fmt.Errorf("failed to insert recipient %q: %w", r.Recipient, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit history run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the latest runs, oldest first.
func (s *StoreImpl) ListRuns(limit int) ([]schema.HistoryRunRecord, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := fmt.Sprintf(`%s ORDER BY run_id DESC LIMIT %d`, s.selectRuns(), limit)
	runs, err := s.queryRuns(query)
	if err != nil {
		return nil, err
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].RunID < runs[j].RunID })
	return runs, nil
}

// GetAllRuns retrieves every run from the store.
func (s *StoreImpl) GetAllRuns() ([]schema.HistoryRunRecord, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}
	return s.queryRuns(s.selectRuns() + " ORDER BY run_id")
}

func (s *StoreImpl) selectRuns() string {
	return fmt.Sprintf(`SELECT run_id, run_uuid, started_at, reference_date, total_reports, total_requests,
    received_percent, config_params FROM %s`, quoteTableName(RunsTable, s.backend))
}

func (s *StoreImpl) queryRuns(query string) ([]schema.HistoryRunRecord, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HistoryRunRecord
	for rows.Next() {
		var record schema.HistoryRunRecord
		var startedAt any
		var referenceDate string
		var configParams sql.NullString
		if err := rows.Scan(&record.RunID, &record.RunUUID, &startedAt, &referenceDate, &record.TotalReports,
			&record.TotalRequests, &record.ReceivedPercent, &configParams); err != nil {
			return nil, fmt.Errorf("failed to scan history run: %w", err)
		}
		if record.StartedAt, err = scanTime(startedAt); err != nil {
			return nil, fmt.Errorf("failed to parse started_at of run %d: %w", record.RunID, err)
		}
		if record.ReferenceDate, err = time.Parse(storedDateLayout, referenceDate); err != nil {
			return nil, fmt.Errorf("failed to parse reference_date of run %d: %w", record.RunID, err)
		}
		if configParams.Valid {
			record.ConfigParams = &configParams.String
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history runs: %w", err)
	}
	return results, nil
}

// GetAllRecipients retrieves every recipient row from the store.
func (s *StoreImpl) GetAllRecipients() ([]schema.HistoryRecipientRecord, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, recipient, total, overdue, pending, received, received_percent
    FROM %s ORDER BY run_id, recipient`, quoteTableName(RecipientsTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history recipients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HistoryRecipientRecord
	for rows.Next() {
		var record schema.HistoryRecipientRecord
		if err := rows.Scan(&record.RunID, &record.Recipient, &record.Total, &record.Overdue,
			&record.Pending, &record.Received, &record.ReceivedPercent); err != nil {
			return nil, fmt.Errorf("failed to scan history recipient: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history recipients: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the history store.
func (s *StoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.backend == schema.NoneBackend || s.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(RunsTable, s.backend)
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastRunTime, oldestRunTime any
		lastRunQuery := fmt.Sprintf("SELECT run_id, started_at FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)
		if err := s.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastRunTime); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		oldestRunQuery := fmt.Sprintf("SELECT started_at FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)
		if err := s.db.QueryRow(oldestRunQuery).Scan(&oldestRunTime); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}

		var err error
		if status.LastRunTime, err = scanTime(lastRunTime); err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		if status.OldestRunTime, err = scanTime(oldestRunTime); err != nil {
			return status, fmt.Errorf("failed to parse oldest run time: %w", err)
		}
	}

	for _, table := range []string{RunsTable, RecipientsTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend))
		if err := s.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// Close closes the underlying connection.
func (s *StoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// scanTime reads a timestamp column. SQLite stores RFC3339 text, and MySQL without
// parseTime=true hands back raw bytes.
func scanTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return parseStoredTime(t)
	case []byte:
		return parseStoredTime(string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value of type %T", v)
	}
}

func parseStoredTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// quoteTableName quotes a table name for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + name + "`"
	default:
		return `"` + name + `"`
	}
}
