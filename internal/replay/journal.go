package replay

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-policy/internal/log"
	"github.com/rxtech-lab/argo-policy/internal/logger"
	"github.com/rxtech-lab/argo-policy/internal/marker"
	"github.com/rxtech-lab/argo-policy/internal/policy"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/rxtech-lab/argo-policy/pkg/errors"
	"go.uber.org/zap"
)

// RecordedOrder is an order as stored in the journal.
type RecordedOrder struct {
	RunID     string
	Timestamp int64
	Order     types.Order
}

// RecordedStep is the per-step summary stored in the journal.
type RecordedStep struct {
	RunID      string
	Timestamp  int64
	Observed   bool
	OrderCount int
	Skipped    int
}

// journalTables are exported to parquet by Write, one file per table.
var journalTables = []string{"steps", "orders", "marks", "logs"}

// Journal records replayed steps in an in-memory DuckDB database and exports them to parquet.
// It implements Recorder, log.Log and marker.Marker.
type Journal struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	mu     sync.Mutex
}

var (
	_ Recorder      = (*Journal)(nil)
	_ log.Log       = (*Journal)(nil)
	_ marker.Marker = (*Journal)(nil)
)

// NewJournal creates a journal backed by a fresh in-memory database.
func NewJournal(log *logger.Logger) (*Journal, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		log.Error("Failed to open database", zap.Error(err))

		return nil, errors.Wrap(errors.ErrCodeJournalNotReady, "failed to open database", err)
	}

	if err := db.Ping(); err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeJournalNotReady, "failed to connect to database", err)
	}

	journal := &Journal{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := journal.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return journal, nil
}

// RecordStep stores the step summary, its orders, a mark per placed decision
// and a debug log entry per skipped rule.
func (j *Journal) RecordStep(runID string, trace policy.Trace) error {
	if j == nil || j.db == nil {
		return errors.New(errors.ErrCodeJournalNotReady, "journal or database is nil")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.sq.
		Insert("steps").
		Columns("id", "run_id", "timestamp", "observed", "order_count", "skipped_count").
		Values(squirrel.Expr("nextval('step_id_seq')"), runID, trace.Timestamp, trace.Observed, trace.Orders.Count(), len(trace.Skipped)).
		RunWith(j.db).
		Exec()
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to insert step", err)
	}

	for _, product := range trace.Orders.Products() {
		for _, order := range trace.Orders[product] {
			_, err := j.sq.
				Insert("orders").
				Columns("id", "run_id", "timestamp", "symbol", "side", "price", "quantity").
				Values(squirrel.Expr("nextval('order_id_seq')"), runID, trace.Timestamp, order.Symbol, string(order.Side()), order.Price, order.Quantity).
				RunWith(j.db).
				Exec()
			if err != nil {
				return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to insert order", err)
			}
		}
	}

	for _, decision := range trace.Decisions {
		if err := j.mark(runID, trace.Timestamp, decision); err != nil {
			return err
		}
	}

	for _, skipped := range trace.Skipped {
		err := j.log(runID, log.LogEntry{
			Timestamp: trace.Timestamp,
			Symbol:    skipped.Product,
			Level:     types.LogLevelDebug,
			Message:   "rule skipped",
			Fields:    map[string]string{"rule": string(skipped.Type), "reason": skipped.Reason},
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Mark implements marker.Marker. Marks recorded this way belong to no run.
func (j *Journal) Mark(timestamp int64, decision types.Decision) error {
	if j == nil || j.db == nil {
		return errors.New(errors.ErrCodeJournalNotReady, "journal or database is nil")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	return j.mark("", timestamp, decision)
}

// Log implements log.Log. Entries recorded this way belong to no run.
func (j *Journal) Log(entry log.LogEntry) error {
	if j == nil || j.db == nil {
		return errors.New(errors.ErrCodeJournalNotReady, "journal or database is nil")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	return j.log("", entry)
}

// GetMarkers implements marker.Marker. It returns the marks of every run.
func (j *Journal) GetMarkers() ([]types.Mark, error) {
	return j.queryMarks(nil)
}

// GetRunMarkers returns the marks recorded for runID.
func (j *Journal) GetRunMarkers(runID string) ([]types.Mark, error) {
	return j.queryMarks(squirrel.Eq{"run_id": runID})
}

func (j *Journal) queryMarks(where squirrel.Sqlizer) ([]types.Mark, error) {
	if j == nil || j.db == nil {
		return nil, errors.New(errors.ErrCodeJournalNotReady, "journal or database is nil")
	}

	query := j.sq.
		Select("timestamp", "product", "side", "price", "reason").
		From("marks").
		OrderBy("id ASC")
	if where != nil {
		query = query.Where(where)
	}

	rows, err := query.RunWith(j.db).Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalNotReady, "failed to query marks", err)
	}
	defer rows.Close()

	var marks []types.Mark

	for rows.Next() {
		var mark types.Mark

		var side string

		if err := rows.Scan(&mark.Timestamp, &mark.Product, &side, &mark.Price, &mark.Reason); err != nil {
			return nil, errors.Wrap(errors.ErrCodeJournalNotReady, "failed to scan mark", err)
		}

		mark.Side = types.SignalType(side)
		marks = append(marks, mark)
	}

	return marks, rows.Err()
}

// GetLogs implements log.Log. It returns the entries of every run.
func (j *Journal) GetLogs() ([]log.LogEntry, error) {
	return j.queryLogs(nil)
}

// GetRunLogs returns the log entries recorded for runID.
func (j *Journal) GetRunLogs(runID string) ([]log.LogEntry, error) {
	return j.queryLogs(squirrel.Eq{"run_id": runID})
}

func (j *Journal) queryLogs(where squirrel.Sqlizer) ([]log.LogEntry, error) {
	if j == nil || j.db == nil {
		return nil, errors.New(errors.ErrCodeJournalNotReady, "journal or database is nil")
	}

	query := j.sq.
		Select("timestamp", "symbol", "level", "message", "fields").
		From("logs").
		OrderBy("id ASC")
	if where != nil {
		query = query.Where(where)
	}

	rows, err := query.RunWith(j.db).Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalNotReady, "failed to query logs", err)
	}
	defer rows.Close()

	var entries []log.LogEntry

	for rows.Next() {
		var entry log.LogEntry

		var level string

		var fieldsJSON sql.NullString

		if err := rows.Scan(&entry.Timestamp, &entry.Symbol, &level, &entry.Message, &fieldsJSON); err != nil {
			return nil, errors.Wrap(errors.ErrCodeJournalNotReady, "failed to scan log entry", err)
		}

		entry.Level = types.LogLevel(level)

		if fieldsJSON.Valid && fieldsJSON.String != "" {
			if err := json.Unmarshal([]byte(fieldsJSON.String), &entry.Fields); err != nil {
				return nil, errors.Wrap(errors.ErrCodeJournalNotReady, "failed to unmarshal log fields", err)
			}
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// GetOrders returns the orders of runID in insertion order.
func (j *Journal) GetOrders(runID string) ([]RecordedOrder, error) {
	if j == nil || j.db == nil {
		return nil, errors.New(errors.ErrCodeJournalNotReady, "journal or database is nil")
	}

	rows, err := j.sq.
		Select("run_id", "timestamp", "symbol", "price", "quantity").
		From("orders").
		Where(squirrel.Eq{"run_id": runID}).
		OrderBy("id ASC").
		RunWith(j.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalNotReady, "failed to query orders", err)
	}
	defer rows.Close()

	var orders []RecordedOrder

	for rows.Next() {
		var recorded RecordedOrder

		if err := rows.Scan(&recorded.RunID, &recorded.Timestamp, &recorded.Order.Symbol, &recorded.Order.Price, &recorded.Order.Quantity); err != nil {
			return nil, errors.Wrap(errors.ErrCodeJournalNotReady, "failed to scan order", err)
		}

		orders = append(orders, recorded)
	}

	return orders, rows.Err()
}

// GetSteps returns the step summaries of runID in timestamp order.
func (j *Journal) GetSteps(runID string) ([]RecordedStep, error) {
	if j == nil || j.db == nil {
		return nil, errors.New(errors.ErrCodeJournalNotReady, "journal or database is nil")
	}

	rows, err := j.sq.
		Select("run_id", "timestamp", "observed", "order_count", "skipped_count").
		From("steps").
		Where(squirrel.Eq{"run_id": runID}).
		OrderBy("id ASC").
		RunWith(j.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalNotReady, "failed to query steps", err)
	}
	defer rows.Close()

	var steps []RecordedStep

	for rows.Next() {
		var step RecordedStep

		if err := rows.Scan(&step.RunID, &step.Timestamp, &step.Observed, &step.OrderCount, &step.Skipped); err != nil {
			return nil, errors.Wrap(errors.ErrCodeJournalNotReady, "failed to scan step", err)
		}

		steps = append(steps, step)
	}

	return steps, rows.Err()
}

// Write exports every journal table to <table>.parquet in the folder at path.
func (j *Journal) Write(path string) error {
	if j == nil || j.db == nil {
		return errors.New(errors.ErrCodeJournalNotReady, "journal or database is nil")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeJournalExportFailed, "failed to create directory", err)
	}

	for _, table := range journalTables {
		target := filepath.Join(path, table+".parquet")

		_, err := j.db.Exec(fmt.Sprintf(`COPY %s TO '%s' (FORMAT PARQUET)`, table, target))
		if err != nil {
			return errors.Wrapf(errors.ErrCodeJournalExportFailed, err, "failed to export %s to parquet", table)
		}
	}

	j.logger.Info("Exported journal to Parquet", zap.String("path", path), zap.Strings("tables", journalTables))

	return nil
}

// Cleanup drops every table and recreates them empty.
func (j *Journal) Cleanup() error {
	if j == nil || j.db == nil {
		return errors.New(errors.ErrCodeJournalNotReady, "journal or database is nil")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`
		DROP TABLE IF EXISTS steps;
		DROP TABLE IF EXISTS orders;
		DROP TABLE IF EXISTS marks;
		DROP TABLE IF EXISTS logs;
		DROP SEQUENCE IF EXISTS step_id_seq;
		DROP SEQUENCE IF EXISTS order_id_seq;
		DROP SEQUENCE IF EXISTS mark_id_seq;
		DROP SEQUENCE IF EXISTS log_id_seq;
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to cleanup journal", err)
	}

	return j.initialize()
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}

	return j.db.Close()
}

func (j *Journal) mark(runID string, timestamp int64, decision types.Decision) error {
	mark := types.NewMark(timestamp, decision)

	_, err := j.sq.
		Insert("marks").
		Columns("id", "run_id", "timestamp", "product", "side", "price", "reason").
		Values(squirrel.Expr("nextval('mark_id_seq')"), runID, mark.Timestamp, mark.Product, string(mark.Side), mark.Price, mark.Reason).
		RunWith(j.db).
		Exec()
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to insert mark", err)
	}

	return nil
}

func (j *Journal) log(runID string, entry log.LogEntry) error {
	var fieldsJSON string

	if len(entry.Fields) > 0 {
		fieldsBytes, err := json.Marshal(entry.Fields)
		if err != nil {
			return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to marshal log fields", err)
		}

		fieldsJSON = string(fieldsBytes)
	}

	_, err := j.sq.
		Insert("logs").
		Columns("id", "run_id", "timestamp", "symbol", "level", "message", "fields").
		Values(squirrel.Expr("nextval('log_id_seq')"), runID, entry.Timestamp, entry.Symbol, string(entry.Level), entry.Message, fieldsJSON).
		RunWith(j.db).
		Exec()
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to insert log entry", err)
	}

	return nil
}

func (j *Journal) initialize() error {
	_, err := j.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS step_id_seq;
		CREATE SEQUENCE IF NOT EXISTS order_id_seq;
		CREATE SEQUENCE IF NOT EXISTS mark_id_seq;
		CREATE SEQUENCE IF NOT EXISTS log_id_seq;

		CREATE TABLE IF NOT EXISTS steps (
			id BIGINT PRIMARY KEY,
			run_id TEXT,
			timestamp BIGINT,
			observed BOOLEAN,
			order_count INTEGER,
			skipped_count INTEGER
		);

		CREATE TABLE IF NOT EXISTS orders (
			id BIGINT PRIMARY KEY,
			run_id TEXT,
			timestamp BIGINT,
			symbol TEXT,
			side TEXT,
			price BIGINT,
			quantity BIGINT
		);

		CREATE TABLE IF NOT EXISTS marks (
			id BIGINT PRIMARY KEY,
			run_id TEXT,
			timestamp BIGINT,
			product TEXT,
			side TEXT,
			price BIGINT,
			reason TEXT
		);

		CREATE TABLE IF NOT EXISTS logs (
			id BIGINT PRIMARY KEY,
			run_id TEXT,
			timestamp BIGINT,
			symbol TEXT,
			level TEXT,
			message TEXT,
			fields TEXT
		);
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalNotReady, "failed to create journal tables", err)
	}

	return nil
}
