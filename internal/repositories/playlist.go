package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/intune/internal/models"
	"github.com/desertthunder/intune/internal/shared"
)

// PlaylistHistoryRepository records playlists created through the backend.
type PlaylistHistoryRepository struct {
	db *sql.DB
}

// NewPlaylistHistoryRepository creates a new [PlaylistHistoryRepository] with the given database connection
func NewPlaylistHistoryRepository(db *sql.DB) *PlaylistHistoryRepository {
	return &PlaylistHistoryRepository{db: db}
}

// Record inserts a history entry for playlist with a generated ID and sequence.
func (r *PlaylistHistoryRepository) Record(playlist *models.CreatedPlaylist) (*models.PlaylistRecord, error) {
	if playlist == nil || strings.TrimSpace(playlist.Name) == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	sequence, err := NextSequence(r.db, "playlist_history")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	record := &models.PlaylistRecord{
		ID:          playlist.ID,
		Sequence:    sequence,
		Name:        playlist.Name,
		URL:         playlist.URL,
		TracksAdded: playlist.TracksAdded,
		CreatedAt:   time.Now().UTC(),
	}
	if record.ID == "" {
		record.ID = shared.GenerateID()
	}

	query := `
		INSERT INTO playlist_history (id, sequence, name, url, tracks_added, created_at) VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, record.ID, record.Sequence, record.Name, record.URL, record.TracksAdded, record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert playlist history: %w", err)
	}

	return record, nil
}

// Get retrieves a history entry by ID.
func (r *PlaylistHistoryRepository) Get(id string) (*models.PlaylistRecord, error) {
	query := `
		SELECT id, sequence, name, url, tracks_added, created_at
		FROM playlist_history
		WHERE id = ?
	`

	var rec models.PlaylistRecord
	err := r.db.QueryRow(query, id).Scan(&rec.ID, &rec.Sequence, &rec.Name, &rec.URL, &rec.TracksAdded, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist history: %w", err)
	}
	return &rec, nil
}

// Resolve finds an entry by ID or by the sequence number shown in history listings ("3" or "#3").
func (r *PlaylistHistoryRepository) Resolve(ref string) (*models.PlaylistRecord, error) {
	ref = strings.TrimSpace(ref)
	seq, err := strconv.Atoi(strings.TrimPrefix(ref, "#"))
	if err != nil {
		return r.Get(ref)
	}

	query := `
		SELECT id, sequence, name, url, tracks_added, created_at
		FROM playlist_history
		WHERE sequence = ?
	`

	var rec models.PlaylistRecord
	err = r.db.QueryRow(query, seq).Scan(&rec.ID, &rec.Sequence, &rec.Name, &rec.URL, &rec.TracksAdded, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// IDs are free-form, so a numeric ID is still possible.
		return r.Get(ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist history: %w", err)
	}
	return &rec, nil
}

// List returns the most recent entries first. A limit of zero or less returns everything.
func (r *PlaylistHistoryRepository) List(limit int) ([]*models.PlaylistRecord, error) {
	query := `
		SELECT id, sequence, name, url, tracks_added, created_at
		FROM playlist_history
		ORDER BY sequence DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist history: %w", err)
	}
	defer rows.Close()

	var records []*models.PlaylistRecord
	for rows.Next() {
		var rec models.PlaylistRecord
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.Name, &rec.URL, &rec.TracksAdded, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist history: %w", err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// Delete removes a history entry.
func (r *PlaylistHistoryRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM playlist_history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist history: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return nil
}
