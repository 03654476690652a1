package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

var fixedNow = time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

func TestParseCardType(t *testing.T) {
	tc := []struct {
		in      string
		want    CardType
		wantErr bool
	}{
		{in: "artist", want: ArtistCard},
		{in: " Track ", want: TrackCard},
		{in: "album", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCardType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCardType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCardType(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCard(t *testing.T) {
	t.Run("placeholder artist", func(t *testing.T) {
		c := NewPlaceholderCard(ArtistCard, 2)

		if c.Populated {
			t.Error("placeholder should not be populated")
		}
		if c.Title != "Artist Name" || c.SecondaryStat != "--" || c.PopularityStat != "--/100" {
			t.Errorf("unexpected placeholder labels: %+v", c)
		}
		if !reflect.DeepEqual(c.Tags, []string{"Genre"}) {
			t.Errorf("expected Genre tag, got %v", c.Tags)
		}
		if !c.ShowAdd() || c.ShowDelete() {
			t.Error("placeholder should show add and hide delete")
		}
		if c.Key() != "artist-2" {
			t.Errorf("Key() = %s", c.Key())
		}
	})

	t.Run("placeholder track", func(t *testing.T) {
		c := NewPlaceholderCard(TrackCard, 0)
		if c.Title != "Track Name" || c.SecondaryStat != "--/--/----" {
			t.Errorf("unexpected placeholder labels: %+v", c)
		}
		if !reflect.DeepEqual(c.Tags, []string{"Artist"}) {
			t.Errorf("expected Artist tag, got %v", c.Tags)
		}
	})

	t.Run("populate artist", func(t *testing.T) {
		c := NewPlaceholderCard(ArtistCard, 1)
		c.Populate(Item{
			ID:         "abc",
			Name:       "Phoebe Bridgers",
			Image:      "https://i.scdn.co/image/1",
			Popularity: 74,
			Genres:     []string{"indie", "folk", "emo", "pop"},
			Followers:  2345678,
		})

		if !c.Populated || c.Title != "Phoebe Bridgers" {
			t.Errorf("card not populated: %+v", c)
		}
		if !reflect.DeepEqual(c.Tags, []string{"indie", "folk", "emo"}) {
			t.Errorf("expected first three genres, got %v", c.Tags)
		}
		if c.PopularityStat != "74/100" || c.Popularity != 74 {
			t.Errorf("unexpected popularity: %s (%d)", c.PopularityStat, c.Popularity)
		}
		if c.SecondaryStat != "2,345,678" {
			t.Errorf("expected formatted followers, got %s", c.SecondaryStat)
		}
		if c.Link != "https://open.spotify.com/artist/abc" {
			t.Errorf("unexpected link %s", c.Link)
		}
		if c.ShowAdd() || !c.ShowDelete() {
			t.Error("populated card should hide add and show delete")
		}
	})

	t.Run("populate track without artists", func(t *testing.T) {
		c := NewPlaceholderCard(TrackCard, 0)
		c.Populate(Item{ID: "t1", Name: "Song", ReleaseDate: "7/4/2019"})

		if !reflect.DeepEqual(c.Tags, []string{"No artists listed"}) {
			t.Errorf("expected fallback tag, got %v", c.Tags)
		}
		if c.SecondaryStat != "7/4/2019" {
			t.Errorf("expected release date, got %s", c.SecondaryStat)
		}
		if c.Link != "https://open.spotify.com/track/t1" {
			t.Errorf("unexpected link %s", c.Link)
		}
	})

	t.Run("clear restores initial state", func(t *testing.T) {
		for _, ct := range []CardType{ArtistCard, TrackCard} {
			initial := NewPlaceholderCard(ct, 4)
			c := initial
			c.Populate(Item{ID: "x", Name: "X", Popularity: 50, Genres: []string{"a"}, Artists: []string{"b"}})
			c.Clear()

			if !reflect.DeepEqual(c, initial) {
				t.Errorf("%s: cleared card differs from initial state:\n got %+v\nwant %+v", ct, c, initial)
			}
		}
	})

	t.Run("populate copies tags", func(t *testing.T) {
		genres := []string{"rock"}
		c := NewPlaceholderCard(ArtistCard, 0)
		c.Populate(Item{ID: "x", Name: "X", Genres: genres})
		genres[0] = "mutated"

		if c.Tags[0] != "rock" {
			t.Error("card tags should not alias item genres")
		}
	})
}

func TestDecodeItems(t *testing.T) {
	t.Run("artists", func(t *testing.T) {
		raw := []json.RawMessage{
			json.RawMessage(`{"id":"a1","name":"Mitski","popularity":80,"genres":["indie"],"followers":{"total":1500},"images":[{"url":"https://img/1"},{"url":"https://img/2"}]}`),
			json.RawMessage(`{"id":"a2","name":"Nobody","images":[]}`),
		}

		items, err := DecodeItems(ArtistCard, raw, fixedNow)
		if err != nil {
			t.Fatalf("DecodeItems() error = %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}

		if items[0].Image != "https://img/1" || items[0].Subtitle != "1,500" || items[0].Followers != 1500 {
			t.Errorf("unexpected first artist: %+v", items[0])
		}
		if items[1].Subtitle != "No follower data" || items[1].Image != "" || items[1].Popularity != 0 {
			t.Errorf("unexpected second artist: %+v", items[1])
		}
	})

	t.Run("tracks", func(t *testing.T) {
		raw := []json.RawMessage{
			json.RawMessage(`{"id":"t1","name":"Motion Sickness","popularity":65,"artists":[{"name":"Phoebe Bridgers"},{"name":"Guest"}],"album":{"name":"Stranger in the Alps","release_date":"2017-09-22","images":[{"url":"https://img/a"}]}}`),
			json.RawMessage(`{"id":"t2","name":"Loose","popularity":10}`),
		}

		items, err := DecodeItems(TrackCard, raw, fixedNow)
		if err != nil {
			t.Fatalf("DecodeItems() error = %v", err)
		}

		first := items[0]
		if first.Subtitle != "Phoebe Bridgers, Guest" {
			t.Errorf("unexpected subtitle %q", first.Subtitle)
		}
		if first.ReleaseDate != "9/22/2017" || first.Album != "Stranger in the Alps" || first.Image != "https://img/a" {
			t.Errorf("unexpected first track: %+v", first)
		}

		second := items[1]
		if second.Subtitle != "Unknown artist" || !reflect.DeepEqual(second.Artists, []string{"Unknown artist"}) {
			t.Errorf("unexpected fallback artists: %+v", second)
		}
		if second.ReleaseDate != "2026" {
			t.Errorf("expected current year fallback, got %q", second.ReleaseDate)
		}
	})

	t.Run("malformed item", func(t *testing.T) {
		_, err := DecodeItems(ArtistCard, []json.RawMessage{json.RawMessage(`"nope"`)}, fixedNow)
		if err == nil {
			t.Error("expected decode error")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := DecodeItems(CardType("album"), []json.RawMessage{json.RawMessage(`{}`)}, fixedNow)
		if err == nil {
			t.Error("expected error for unknown type")
		}
	})
}
