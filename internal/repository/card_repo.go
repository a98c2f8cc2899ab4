package repository

import (
	"database/sql"

	"wordassoc/internal/database"
	"wordassoc/internal/models"
)

// CardRepository handles word card database operations
type CardRepository struct {
	db *database.DB
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *database.DB) *CardRepository {
	return &CardRepository{db: db}
}

// GetByID retrieves a card by ID. Returns nil when no card exists.
func (r *CardRepository) GetByID(id int64) (*models.WordCard, error) {
	query := `
		SELECT id, word, category, active, created_at
		FROM cards
		WHERE id = ?
	`

	card, err := r.scanCard(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return card, nil
}

// RandomActive picks one active card uniformly at random, optionally
// restricted to a category. Returns nil when no active card matches.
func (r *CardRepository) RandomActive(category string) (*models.WordCard, error) {
	query := `
		SELECT id, word, category, active, created_at
		FROM cards
		WHERE active = ?
	`
	args := []interface{}{true}

	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}

	query += " ORDER BY " + r.db.Dialect.RandomOrder() + " LIMIT 1"

	card, err := r.scanCard(r.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return card, nil
}

// ListAll retrieves every card, active or not, ordered for the admin view
func (r *CardRepository) ListAll() ([]models.WordCard, error) {
	query := `
		SELECT id, word, category, active, created_at
		FROM cards
		ORDER BY category, word
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.WordCard
	for rows.Next() {
		var card models.WordCard
		var category sql.NullString

		err := rows.Scan(&card.ID, &card.Word, &category, &card.Active, &card.CreatedAt)
		if err != nil {
			return nil, err
		}
		card.Category = category.String
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

// Create inserts a new active card
func (r *CardRepository) Create(word, category string) (*models.WordCard, error) {
	query := `INSERT INTO cards (word, category, active) VALUES (?, ?, ` + r.db.Dialect.BoolValue(true) + `)`

	var cat interface{}
	if category != "" {
		cat = category
	}

	id, err := r.db.ExecReturningID(query, word, cat)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// SetActive activates or deactivates a card
func (r *CardRepository) SetActive(id int64, active bool) error {
	query := "UPDATE cards SET active = ? WHERE id = ?"
	_, err := r.db.Exec(query, active, id)
	return err
}

// Delete removes a card from the catalogue. Association records keep
// their copy of the word text, so history survives deletion.
func (r *CardRepository) Delete(id int64) error {
	query := "DELETE FROM cards WHERE id = ?"
	_, err := r.db.Exec(query, id)
	return err
}

// Categories lists the distinct non-null categories in use
func (r *CardRepository) Categories() ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM cards
		WHERE category IS NOT NULL
		ORDER BY category
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

func (r *CardRepository) scanCard(row *sql.Row) (*models.WordCard, error) {
	card := &models.WordCard{}
	var category sql.NullString

	err := row.Scan(&card.ID, &card.Word, &category, &card.Active, &card.CreatedAt)
	if err != nil {
		return nil, err
	}

	card.Category = category.String
	return card, nil
}
