package repositories

import (
	"github.com/desertthunder/intune/internal/models"
)

// HeadersKey is the local storage key holding header label overrides.
const HeadersKey = "intune_custom_headers"

// HeaderRepository stores header label overrides as one JSON object under [HeadersKey].
type HeaderRepository struct {
	storage *LocalStorage
}

// NewHeaderRepository creates a new [HeaderRepository] backed by storage
func NewHeaderRepository(storage *LocalStorage) *HeaderRepository {
	return &HeaderRepository{storage: storage}
}

// LoadHeaders returns every stored override. Returns an empty map when nothing is stored.
func (r *HeaderRepository) LoadHeaders() (models.HeaderOverrides, error) {
	headers := models.HeaderOverrides{}
	if _, err := r.storage.getJSON(HeadersKey, &headers); err != nil {
		return nil, err
	}
	if headers == nil {
		headers = models.HeaderOverrides{}
	}
	return headers, nil
}

// SaveHeader stores text for field, keeping the other overrides.
func (r *HeaderRepository) SaveHeader(field, text string) error {
	headers, err := r.LoadHeaders()
	if err != nil {
		return err
	}
	headers[field] = text
	return r.storage.setJSON(HeadersKey, headers)
}

// RemoveHeader deletes the override for field.
func (r *HeaderRepository) RemoveHeader(field string) error {
	headers, err := r.LoadHeaders()
	if err != nil {
		return err
	}
	delete(headers, field)
	return r.storage.setJSON(HeadersKey, headers)
}
