package repositories

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/desertthunder/intune/internal/custom"
	"github.com/desertthunder/intune/internal/models"
	"github.com/desertthunder/intune/internal/shared"
)

var (
	_ custom.HeaderStore = (*HeaderRepository)(nil)
	_ custom.BoardStore  = (*BoardRepository)(nil)
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Every pooled connection to ":memory:" is a separate database.
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestLocalStorage(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		s := NewLocalStorage(db)
		if err := s.Set("theme", "dark"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := s.Set("theme", "light"); err != nil {
			t.Fatalf("Set() overwrite error = %v", err)
		}

		got, err := s.Get("theme")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "light" {
			t.Errorf("expected overwritten value 'light', got %q", got)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewLocalStorage(db).Get("missing")
		if !errors.Is(err, shared.ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("remove and keys", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		s := NewLocalStorage(db)
		s.Set("b", "2")
		s.Set("a", "1")

		keys, err := s.Keys()
		if err != nil {
			t.Fatalf("Keys() error = %v", err)
		}
		if !reflect.DeepEqual(keys, []string{"a", "b"}) {
			t.Errorf("unexpected keys %v", keys)
		}

		if err := s.Remove("a"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if err := s.Remove("never-set"); err != nil {
			t.Errorf("removing a missing key should succeed, got %v", err)
		}
		if _, err := s.Get("a"); !errors.Is(err, shared.ErrKeyNotFound) {
			t.Errorf("expected removed key to be gone, got %v", err)
		}
	})

	t.Run("closed database", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()

		s := NewLocalStorage(db)
		if err := s.Set("k", "v"); err == nil {
			t.Error("expected error on closed database")
		}
		if _, err := s.Get("k"); err == nil || errors.Is(err, shared.ErrKeyNotFound) {
			t.Errorf("expected query error, got %v", err)
		}
	})
}

func TestHeaderRepository(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		headers, err := NewHeaderRepository(NewLocalStorage(db)).LoadHeaders()
		if err != nil {
			t.Fatalf("LoadHeaders() error = %v", err)
		}
		if headers == nil || len(headers) != 0 {
			t.Errorf("expected empty non-nil map, got %v", headers)
		}
	})

	t.Run("save and remove", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		storage := NewLocalStorage(db)
		repo := NewHeaderRepository(storage)

		if err := repo.SaveHeader("page_title", "Mine"); err != nil {
			t.Fatalf("SaveHeader() error = %v", err)
		}
		if err := repo.SaveHeader("tracks_header", "Bangers"); err != nil {
			t.Fatalf("SaveHeader() error = %v", err)
		}
		if err := repo.RemoveHeader("page_title"); err != nil {
			t.Fatalf("RemoveHeader() error = %v", err)
		}

		headers, _ := repo.LoadHeaders()
		want := models.HeaderOverrides{"tracks_header": "Bangers"}
		if !reflect.DeepEqual(headers, want) {
			t.Errorf("LoadHeaders() = %v, want %v", headers, want)
		}

		raw, err := storage.Get(HeadersKey)
		if err != nil {
			t.Fatalf("expected value under %s: %v", HeadersKey, err)
		}
		if raw != `{"tracks_header":"Bangers"}` {
			t.Errorf("unexpected stored JSON %s", raw)
		}
	})

	t.Run("corrupt value", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		storage := NewLocalStorage(db)
		storage.Set(HeadersKey, "{not json")
		repo := NewHeaderRepository(storage)

		if _, err := repo.LoadHeaders(); err == nil {
			t.Error("expected decode error")
		}
		if err := repo.SaveHeader("page_title", "x"); err == nil {
			t.Error("expected save to refuse overwriting a corrupt value")
		}
	})

	t.Run("drives header editor", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewHeaderRepository(NewLocalStorage(db))
		editor := custom.NewHeaderEditor(custom.DefaultHeaders(), repo, nil)

		editor.Finish(custom.FieldArtistsHeader, "Faves")
		editor.Finish(custom.FieldArtistsHeader, "")

		headers, _ := repo.LoadHeaders()
		if _, ok := headers[custom.FieldArtistsHeader]; ok {
			t.Errorf("empty edit should remove the stored override, got %v", headers)
		}
	})
}

func TestBoardRepository(t *testing.T) {
	t.Run("round trip drops placeholders", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewBoardRepository(NewLocalStorage(db))

		artist := models.NewPlaceholderCard(models.ArtistCard, 2)
		artist.Populate(models.Item{ID: "a1", Name: "Mitski", Popularity: 80, Genres: []string{"indie"}, Followers: 10})
		track := models.NewPlaceholderCard(models.TrackCard, 0)
		track.Populate(models.Item{ID: "t1", Name: "Kyoto", Popularity: 70, Artists: []string{"Phoebe"}, ReleaseDate: "6/1/2020"})
		placeholder := models.NewPlaceholderCard(models.ArtistCard, 0)

		if err := repo.SaveCards([]models.Card{placeholder, artist, track}); err != nil {
			t.Fatalf("SaveCards() error = %v", err)
		}

		cards, err := repo.LoadCards()
		if err != nil {
			t.Fatalf("LoadCards() error = %v", err)
		}
		if !reflect.DeepEqual(cards, []models.Card{artist, track}) {
			t.Errorf("unexpected cards:\n got %+v\nwant %+v", cards, []models.Card{artist, track})
		}
	})

	t.Run("never saved", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		cards, err := NewBoardRepository(NewLocalStorage(db)).LoadCards()
		if err != nil || len(cards) != 0 {
			t.Errorf("expected no cards, got %v, %v", cards, err)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		storage := NewLocalStorage(db)
		storage.Set(CardsKey, `[{"type":"album","index":0,"populated":true}]`)

		if _, err := NewBoardRepository(storage).LoadCards(); err == nil {
			t.Error("expected error for unknown card type")
		}
	})
}

func TestPlaylistHistoryRepository(t *testing.T) {
	t.Run("record and get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistHistoryRepository(db)
		rec, err := repo.Record(&models.CreatedPlaylist{ID: "p1", Name: "Road Trip", TracksAdded: 25, URL: "https://open.spotify.com/playlist/p1"})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if rec.Sequence != 1 || rec.CreatedAt.IsZero() {
			t.Errorf("unexpected record %+v", rec)
		}

		got, err := repo.Get("p1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Name != "Road Trip" || got.TracksAdded != 25 || got.URL != rec.URL {
			t.Errorf("unexpected stored record %+v", got)
		}
	})

	t.Run("generates ID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		rec, err := NewPlaylistHistoryRepository(db).Record(&models.CreatedPlaylist{Name: "No ID"})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if rec.ID == "" {
			t.Error("expected generated ID")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistHistoryRepository(db)
		if _, err := repo.Record(nil); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if _, err := repo.Record(&models.CreatedPlaylist{Name: "  "}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if _, err := repo.Get("missing"); err == nil {
			t.Error("expected not found error")
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistHistoryRepository(db)
		for _, name := range []string{"one", "two", "three"} {
			if _, err := repo.Record(&models.CreatedPlaylist{Name: name}); err != nil {
				t.Fatalf("Record(%s) error = %v", name, err)
			}
		}

		all, err := repo.List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 3 || all[0].Name != "three" || all[2].Name != "one" {
			t.Errorf("unexpected order: %v, %v, %v", all[0].Name, all[1].Name, all[2].Name)
		}

		limited, _ := repo.List(2)
		if len(limited) != 2 {
			t.Errorf("expected 2 records, got %d", len(limited))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistHistoryRepository(db)
		rec, _ := repo.Record(&models.CreatedPlaylist{Name: "gone"})

		if err := repo.Delete(rec.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := repo.Delete(rec.ID); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound deleting twice, got %v", err)
		}
	})

	t.Run("resolve by id or sequence", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistHistoryRepository(db)
		repo.Record(&models.CreatedPlaylist{ID: "p1", Name: "one"})
		repo.Record(&models.CreatedPlaylist{ID: "p2", Name: "two"})
		repo.Record(&models.CreatedPlaylist{ID: "7", Name: "numeric id"})

		tests := []struct {
			ref  string
			want string
		}{
			{"p1", "one"},
			{"2", "two"},
			{"#2", "two"},
			{" #1 ", "one"},
			{"7", "numeric id"},
		}
		for _, tt := range tests {
			rec, err := repo.Resolve(tt.ref)
			if err != nil {
				t.Errorf("Resolve(%q) error = %v", tt.ref, err)
				continue
			}
			if rec.Name != tt.want {
				t.Errorf("Resolve(%q) = %s, want %s", tt.ref, rec.Name, tt.want)
			}
		}

		for _, ref := range []string{"#9", "missing"} {
			if _, err := repo.Resolve(ref); !errors.Is(err, shared.ErrPlaylistNotFound) {
				t.Errorf("Resolve(%q): expected ErrPlaylistNotFound, got %v", ref, err)
			}
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	seq1, err := NextSequence(db, "playlist_history")
	if err != nil {
		t.Fatalf("failed to get first sequence: %v", err)
	}
	if seq1 != 1 {
		t.Errorf("expected first sequence to be 1, got %d", seq1)
	}

	seq2, err := NextSequence(db, "playlist_history")
	if err != nil {
		t.Fatalf("failed to get second sequence: %v", err)
	}
	if seq2 != 2 {
		t.Errorf("expected second sequence to be 2, got %d", seq2)
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for table without a sequence")
	}
}
