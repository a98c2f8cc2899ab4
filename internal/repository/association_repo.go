package repository

import (
	"database/sql"

	"wordassoc/internal/database"
	"wordassoc/internal/models"
)

// AssociationRepository handles the append-only association log. There
// is no update or delete path; progress is always derived from the full
// log rather than a maintained counter.
type AssociationRepository struct {
	db *database.DB
}

// NewAssociationRepository creates a new association repository
func NewAssociationRepository(db *database.DB) *AssociationRepository {
	return &AssociationRepository{db: db}
}

// Insert appends one completed round to the log
func (r *AssociationRepository) Insert(rec *models.AssociationRecord) (*models.AssociationRecord, error) {
	query := `
		INSERT INTO associations (user_id, card_id, word, association_1, association_2, association_3, time_taken, ai_summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query,
		rec.UserID,
		rec.CardID,
		rec.Word,
		rec.Association1,
		rec.Association2,
		rec.Association3,
		rec.TimeTaken,
		rec.AISummary,
	)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a single record
func (r *AssociationRepository) GetByID(id int64) (*models.AssociationRecord, error) {
	query := `
		SELECT id, user_id, card_id, word, association_1, association_2, association_3,
		       time_taken, ai_summary, created_at
		FROM associations
		WHERE id = ?
	`

	rec := &models.AssociationRecord{}
	var summary sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.CardID,
		&rec.Word,
		&rec.Association1,
		&rec.Association2,
		&rec.Association3,
		&rec.TimeTaken,
		&summary,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.AISummary = summary.String
	return rec, nil
}

// HistoryForUser retrieves a user's records, most recent first
func (r *AssociationRepository) HistoryForUser(userID int64, limit int) ([]models.AssociationRecord, error) {
	query := `
		SELECT id, user_id, card_id, word, association_1, association_2, association_3,
		       time_taken, ai_summary, created_at
		FROM associations
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.AssociationRecord
	for rows.Next() {
		var rec models.AssociationRecord
		var summary sql.NullString

		err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.CardID,
			&rec.Word,
			&rec.Association1,
			&rec.Association2,
			&rec.Association3,
			&rec.TimeTaken,
			&summary,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		rec.AISummary = summary.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

// CompletedCardIDs returns the distinct card ids a user has completed.
// A card completed twice counts once.
func (r *AssociationRepository) CompletedCardIDs(userID int64) ([]int64, error) {
	query := `
		SELECT DISTINCT card_id
		FROM associations
		WHERE user_id = ?
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
