package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrBatchNotFound is returned when a batch ID does not exist for the
// given owner.
var ErrBatchNotFound = errors.New("batch not found")

// ErrExpenseNotFound is returned when an expense ID does not exist.
var ErrExpenseNotFound = errors.New("expense not found")

// Storage provides SQLite database access for the ledger, merchant
// mappings and reconciliation batches. It implements the Repository
// interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveExpense inserts or replaces an expense row
func (s *Storage) SaveExpense(expense *Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	if expense.Status == "" {
		expense.Status = StatusUnreconciled
	}

	query := `
	INSERT OR REPLACE INTO expenses
	(id, owner_id, date, amount_cents, merchant, category, reconciliation_status, batch_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		expense.ID,
		expense.OwnerID,
		expense.Date,
		expense.AmountCents,
		expense.Merchant,
		expense.Category,
		expense.Status,
		nullable(expense.BatchID),
	)

	return err
}

// GetExpense retrieves one expense by ID
func (s *Storage) GetExpense(id string) (*Expense, error) {
	row := s.db.QueryRow(`
	SELECT id, owner_id, date, amount_cents, merchant, category, reconciliation_status, batch_id
	FROM expenses WHERE id = ?`, id)

	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExpenseNotFound
	}
	return expense, err
}

// ListExpenses returns an owner's expenses dated on or after since, newest first
func (s *Storage) ListExpenses(ownerID string, since time.Time) ([]*Expense, error) {
	rows, err := s.db.Query(`
	SELECT id, owner_id, date, amount_cents, merchant, category, reconciliation_status, batch_id
	FROM expenses
	WHERE owner_id = ? AND date >= ?
	ORDER BY date DESC, id`, ownerID, since)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectExpenses(rows)
}

// SearchUnreconciled returns unreconciled expenses matching the query
func (s *Storage) SearchUnreconciled(ownerID, query string, limit int) ([]*Expense, error) {
	if limit <= 0 {
		limit = 10
	}

	base := `
	SELECT id, owner_id, date, amount_cents, merchant, category, reconciliation_status, batch_id
	FROM expenses
	WHERE owner_id = ? AND reconciliation_status = ?`

	args := []interface{}{ownerID, StatusUnreconciled}

	if query != "" {
		if amount, err := strconv.ParseFloat(query, 64); err == nil {
			base += ` AND amount_cents = ?`
			args = append(args, int64(amount*100+0.5))
		} else {
			base += ` AND (merchant LIKE ? OR category LIKE ?)`
			like := "%" + query + "%"
			args = append(args, like, like)
		}
	}

	base += ` ORDER BY date DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(base, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectExpenses(rows)
}

// GetMappings returns an owner's mappings as pattern -> canonical name
func (s *Storage) GetMappings(ownerID string) (map[string]string, error) {
	rows, err := s.db.Query(`
	SELECT bank_name, mapped_name FROM merchant_mappings
	WHERE owner_id = ?
	ORDER BY usage_count DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	mappings := make(map[string]string)
	for rows.Next() {
		var bankName, mappedName string
		if err := rows.Scan(&bankName, &mappedName); err != nil {
			return nil, err
		}
		mappings[bankName] = mappedName
	}

	return mappings, rows.Err()
}

// ListMappings returns an owner's mappings with usage counts
func (s *Storage) ListMappings(ownerID string) ([]*MerchantMapping, error) {
	rows, err := s.db.Query(`
	SELECT id, owner_id, bank_name, mapped_name, usage_count, updated_at
	FROM merchant_mappings
	WHERE owner_id = ?
	ORDER BY usage_count DESC, bank_name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var mappings []*MerchantMapping
	for rows.Next() {
		m := &MerchantMapping{}
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.BankName, &m.MappedName, &m.UsageCount, &m.UpdatedAt); err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}

	return mappings, rows.Err()
}

// UpsertMapping creates a mapping or increments its usage count
func (s *Storage) UpsertMapping(ownerID, bankName, mappedName string) error {
	query := `
	INSERT INTO merchant_mappings (id, owner_id, bank_name, mapped_name, usage_count, updated_at)
	VALUES (?, ?, ?, ?, 1, CURRENT_TIMESTAMP)
	ON CONFLICT(owner_id, bank_name) DO UPDATE SET
		mapped_name = excluded.mapped_name,
		usage_count = usage_count + 1,
		updated_at = CURRENT_TIMESTAMP
	`

	_, err := s.db.Exec(query, uuid.NewString(), ownerID, bankName, mappedName)
	return err
}

// ConfirmBatch atomically creates a batch and marks every listed expense
// RECONCILED with a link to it. If any expense cannot be updated the
// whole transaction rolls back.
func (s *Storage) ConfirmBatch(ownerID, name, fileName string, expenseIDs []string) (string, error) {
	if len(expenseIDs) == 0 {
		return "", errors.New("no expense IDs to confirm")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	batchID := uuid.NewString()
	if _, err := tx.Exec(`
	INSERT INTO reconciliation_batches (id, owner_id, name, file_name)
	VALUES (?, ?, ?, ?)`, batchID, ownerID, name, fileName); err != nil {
		return "", err
	}

	for _, expenseID := range expenseIDs {
		result, err := tx.Exec(`
		UPDATE expenses
		SET reconciliation_status = ?, batch_id = ?
		WHERE id = ? AND owner_id = ?`, StatusReconciled, batchID, expenseID, ownerID)
		if err != nil {
			return "", err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return "", err
		}
		if affected != 1 {
			return "", fmt.Errorf("expense %s: %w", expenseID, ErrExpenseNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	return batchID, nil
}

// DeleteBatch atomically reverts every linked expense to UNRECONCILED
// and removes the batch row. The revert happens before the delete so a
// failure cannot leave expenses pointing at a missing batch.
func (s *Storage) DeleteBatch(ownerID, batchID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	UPDATE expenses
	SET reconciliation_status = ?, batch_id = NULL
	WHERE batch_id = ? AND owner_id = ?`, StatusUnreconciled, batchID, ownerID); err != nil {
		return err
	}

	result, err := tx.Exec(`
	DELETE FROM reconciliation_batches WHERE id = ? AND owner_id = ?`, batchID, ownerID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBatchNotFound
	}

	return tx.Commit()
}

// GetBatch retrieves a batch and its linked expenses
func (s *Storage) GetBatch(ownerID, batchID string) (*Batch, []*Expense, error) {
	batch := &Batch{}
	err := s.db.QueryRow(`
	SELECT b.id, b.owner_id, b.name, b.file_name, b.created_at,
	       (SELECT COUNT(*) FROM expenses e WHERE e.batch_id = b.id)
	FROM reconciliation_batches b
	WHERE b.id = ? AND b.owner_id = ?`, batchID, ownerID).Scan(
		&batch.ID, &batch.OwnerID, &batch.Name, &batch.FileName, &batch.CreatedAt, &batch.ExpenseCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.Query(`
	SELECT id, owner_id, date, amount_cents, merchant, category, reconciliation_status, batch_id
	FROM expenses
	WHERE batch_id = ?
	ORDER BY date DESC, id`, batchID)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	expenses, err := collectExpenses(rows)
	if err != nil {
		return nil, nil, err
	}

	return batch, expenses, nil
}

// ListBatches returns an owner's batches with expense counts, newest first
func (s *Storage) ListBatches(ownerID string) ([]*Batch, error) {
	rows, err := s.db.Query(`
	SELECT b.id, b.owner_id, b.name, b.file_name, b.created_at,
	       (SELECT COUNT(*) FROM expenses e WHERE e.batch_id = b.id)
	FROM reconciliation_batches b
	WHERE b.owner_id = ?
	ORDER BY b.created_at DESC, b.id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var batches []*Batch
	for rows.Next() {
		b := &Batch{}
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &b.FileName, &b.CreatedAt, &b.ExpenseCount); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}

	return batches, rows.Err()
}

// SaveManualLink atomically records a manual link and marks the target
// expense RECONCILED.
func (s *Storage) SaveManualLink(link *ManualLink) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	INSERT INTO manual_links (id, owner_id, expense_id, date, amount_cents, description)
	VALUES (?, ?, ?, ?, ?, ?)`,
		link.ID, link.OwnerID, link.ExpenseID, link.Date, link.AmountCents, link.Description); err != nil {
		return err
	}

	result, err := tx.Exec(`
	UPDATE expenses
	SET reconciliation_status = ?
	WHERE id = ? AND owner_id = ?`, StatusReconciled, link.ExpenseID, link.OwnerID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected != 1 {
		return fmt.Errorf("expense %s: %w", link.ExpenseID, ErrExpenseNotFound)
	}

	return tx.Commit()
}

// scanner abstracts *sql.Row and *sql.Rows for expense scanning.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row scanner) (*Expense, error) {
	expense := &Expense{}
	var batchID sql.NullString
	err := row.Scan(
		&expense.ID,
		&expense.OwnerID,
		&expense.Date,
		&expense.AmountCents,
		&expense.Merchant,
		&expense.Category,
		&expense.Status,
		&batchID,
	)
	if err != nil {
		return nil, err
	}
	if batchID.Valid {
		expense.BatchID = batchID.String
	}
	return expense, nil
}

func collectExpenses(rows *sql.Rows) ([]*Expense, error) {
	var expenses []*Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
