package repository

import (
	"encoding/json"
	"fmt"

	"caseclash/internal/catalog"
	"caseclash/internal/database"
)

// CaseRepository persists catalog cases. The cases table is the source the
// server loads its in-memory catalog from; the seed tool writes it.
type CaseRepository struct {
	db database.DBTX
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db database.DBTX) *CaseRepository {
	return &CaseRepository{db: db}
}

// Upsert writes a case row keyed by its content ID
func (r *CaseRepository) Upsert(in catalog.CaseInput) error {
	id := catalog.ContentID(in.Diagnosis)

	alternatives, err := json.Marshal(in.Alternatives)
	if err != nil {
		return fmt.Errorf("marshal alternatives: %w", err)
	}
	hints, err := json.Marshal(in.Hints)
	if err != nil {
		return fmt.Errorf("marshal hints: %w", err)
	}

	update := `
		UPDATE cases
		SET diagnosis = ?, alternatives = ?, hints = ?, category = ?, difficulty = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(update, in.Diagnosis, string(alternatives), string(hints), in.Category, in.Difficulty, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	insert := `
		INSERT INTO cases (id, diagnosis, alternatives, hints, category, difficulty)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(insert, id, in.Diagnosis, string(alternatives), string(hints), in.Category, in.Difficulty)
	return err
}

// ListInputs loads all case rows back into catalog inputs
func (r *CaseRepository) ListInputs() ([]catalog.CaseInput, error) {
	query := `
		SELECT diagnosis, alternatives, hints, category, difficulty
		FROM cases
		ORDER BY id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inputs []catalog.CaseInput
	for rows.Next() {
		var in catalog.CaseInput
		var alternatives, hints string
		if err := rows.Scan(&in.Diagnosis, &alternatives, &hints, &in.Category, &in.Difficulty); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(alternatives), &in.Alternatives); err != nil {
			return nil, fmt.Errorf("case %q: bad alternatives: %w", in.Diagnosis, err)
		}
		if err := json.Unmarshal([]byte(hints), &in.Hints); err != nil {
			return nil, fmt.Errorf("case %q: bad hints: %w", in.Diagnosis, err)
		}
		inputs = append(inputs, in)
	}
	return inputs, rows.Err()
}

// LoadCatalog builds the in-memory catalog from the cases table
func (r *CaseRepository) LoadCatalog() (*catalog.Catalog, error) {
	inputs, err := r.ListInputs()
	if err != nil {
		return nil, err
	}
	return catalog.New(inputs)
}

// Count returns the number of cases stored
func (r *CaseRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM cases").Scan(&count)
	return count, err
}
