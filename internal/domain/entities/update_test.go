//go:build unit

package entities_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
	"github.com/rios0rios0/clubcms/test/domain/entitybuilders"
)

func TestUpdateValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		update  entities.Update
		wantErr bool
	}{
		{
			name:   "should accept a complete update",
			update: entitybuilders.NewUpdateBuilder().BuildUpdate(),
		},
		{
			name:    "should reject a blank title",
			update:  entitybuilders.NewUpdateBuilder().WithTitle(" ").BuildUpdate(),
			wantErr: true,
		},
		{
			name:    "should reject empty content",
			update:  entitybuilders.NewUpdateBuilder().WithContent("").BuildUpdate(),
			wantErr: true,
		},
		{
			name:    "should reject a non ISO date",
			update:  entitybuilders.NewUpdateBuilder().WithDate("14/03/2026").BuildUpdate(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			err := tt.update.Validate()

			// then
			if tt.wantErr {
				require.ErrorIs(t, err, entities.ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestToday(t *testing.T) {
	t.Parallel()

	t.Run("should format the date as YYYY-MM-DD", func(t *testing.T) {
		t.Parallel()

		// given
		now := time.Date(2026, time.October, 19, 23, 59, 0, 0, time.UTC)

		// when
		today := entities.Today(now)

		// then
		assert.Equal(t, "2026-10-19", today)
	})
}

func TestUpdatesDocument(t *testing.T) {
	t.Parallel()

	newDocument := func(titles ...string) *entities.UpdatesDocument {
		document := &entities.UpdatesDocument{}
		for _, title := range titles {
			document.Updates = append(document.Updates, entitybuilders.NewUpdateBuilder().WithTitle(title).BuildUpdate())
		}
		return document
	}

	t.Run("should prepend new updates at the top", func(t *testing.T) {
		t.Parallel()

		// given
		document := newDocument("older")

		// when
		err := document.Prepend(entitybuilders.NewUpdateBuilder().WithTitle("newer").BuildUpdate())

		// then
		require.NoError(t, err)
		require.Len(t, document.Updates, 2)
		assert.Equal(t, "newer", document.Updates[0].Title)
		assert.Equal(t, "older", document.Updates[1].Title)
	})

	t.Run("should not prepend an invalid update", func(t *testing.T) {
		t.Parallel()

		// given
		document := newDocument("older")

		// when
		err := document.Prepend(entitybuilders.NewUpdateBuilder().WithTitle("").BuildUpdate())

		// then
		require.ErrorIs(t, err, entities.ErrValidation)
		assert.Len(t, document.Updates, 1)
	})

	t.Run("should return at most n latest updates", func(t *testing.T) {
		t.Parallel()

		// given
		document := newDocument("1", "2", "3", "4", "5", "6", "7", "8")

		// when
		latest := document.Latest(entities.FeedSize)

		// then
		require.Len(t, latest, 6)
		assert.Equal(t, "1", latest[0].Title)
		assert.Equal(t, "6", latest[5].Title)
	})

	t.Run("should return everything when the feed is short", func(t *testing.T) {
		t.Parallel()

		// given
		document := newDocument("1", "2")

		// when
		latest := document.Latest(entities.FeedSize)

		// then
		assert.Len(t, latest, 2)
	})

	t.Run("should replace an update by index", func(t *testing.T) {
		t.Parallel()

		// given
		document := newDocument("a", "b", "c")

		// when
		err := document.Replace(1, entitybuilders.NewUpdateBuilder().WithTitle("B").BuildUpdate())

		// then
		require.NoError(t, err)
		assert.Equal(t, "B", document.Updates[1].Title)
		assert.Len(t, document.Updates, 3)
	})

	t.Run("should remove an update by index and return it", func(t *testing.T) {
		t.Parallel()

		// given
		document := newDocument("a", "b", "c")

		// when
		removed, err := document.Remove(0)

		// then
		require.NoError(t, err)
		assert.Equal(t, "a", removed.Title)
		require.Len(t, document.Updates, 2)
		assert.Equal(t, "b", document.Updates[0].Title)
	})

	t.Run("should reject out of range indexes", func(t *testing.T) {
		t.Parallel()

		// given
		document := newDocument("a")

		// when
		replaceErr := document.Replace(1, entitybuilders.NewUpdateBuilder().BuildUpdate())
		_, removeErr := document.Remove(-1)

		// then
		require.ErrorIs(t, replaceErr, entities.ErrValidation)
		require.ErrorIs(t, removeErr, entities.ErrValidation)
	})
}

func TestUpdateJSON(t *testing.T) {
	t.Parallel()

	t.Run("should keep fields it does not manage", func(t *testing.T) {
		t.Parallel()

		// given
		raw := []byte(`{"title":"Cup","date":"2026-05-30","content":"Won","image":"IMAGES/cup.jpg","pinned":true}`)

		// when
		var update entities.Update
		err := json.Unmarshal(raw, &update)
		require.NoError(t, err)
		encoded, marshalErr := json.Marshal(update)

		// then
		require.NoError(t, marshalErr)
		assert.Equal(t, "Cup", update.Title)
		assert.JSONEq(t, `"IMAGES/cup.jpg"`, string(update.Extra["image"]))
		assert.Equal(t,
			`{"title":"Cup","date":"2026-05-30","content":"Won","image":"IMAGES/cup.jpg","pinned":true}`,
			string(encoded))
	})

	t.Run("should leave Extra empty for a plain entry", func(t *testing.T) {
		t.Parallel()

		// given
		raw := []byte(`{"title":"Cup","date":"2026-05-30","content":"Won"}`)

		// when
		var update entities.Update
		err := json.Unmarshal(raw, &update)

		// then
		require.NoError(t, err)
		assert.Nil(t, update.Extra)
		assert.Equal(t, entities.Update{Title: "Cup", Date: "2026-05-30", Content: "Won"}, update)
	})

	t.Run("should carry the old fields over when replacing", func(t *testing.T) {
		t.Parallel()

		// given
		var document entities.UpdatesDocument
		require.NoError(t, json.Unmarshal(
			[]byte(`{"updates":[{"title":"a","date":"2026-01-01","content":"x","image":"a.jpg"}]}`), &document))

		// when
		err := document.Replace(0, entitybuilders.NewUpdateBuilder().WithTitle("A").BuildUpdate())

		// then
		require.NoError(t, err)
		assert.Equal(t, "A", document.Updates[0].Title)
		assert.JSONEq(t, `"a.jpg"`, string(document.Updates[0].Extra["image"]))
	})
}
