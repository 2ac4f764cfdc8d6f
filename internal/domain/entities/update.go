package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// UpdatesPath is where the site reads its news feed from.
	UpdatesPath = "UPDATES/updates.json"
	// FeedSize is how many updates the public site shows.
	FeedSize   = 6
	dateLayout = "2006-01-02"
)

// Update is one news entry. Fields the CMS does not manage are kept in Extra
// and written back after the known ones.
type Update struct {
	Title   string                     `json:"title"`
	Date    string                     `json:"date"`
	Content string                     `json:"content"`
	Extra   map[string]json.RawMessage `json:"-"`
}

var updateFields = []string{"title", "date", "content"}

// UnmarshalJSON decodes the known fields and collects the rest into Extra.
func (u *Update) UnmarshalJSON(data []byte) error {
	type plain Update
	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for key := range fields {
		for _, field := range updateFields {
			if strings.EqualFold(key, field) {
				delete(fields, key)
			}
		}
	}

	known.Extra = nil
	if len(fields) > 0 {
		known.Extra = fields
	}
	*u = Update(known)
	return nil
}

// MarshalJSON writes title, date and content followed by Extra in key order.
func (u Update) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for i, value := range []string{u.Title, u.Date, u.Content} {
		if i > 0 {
			buffer.WriteByte(',')
		}
		if err := writeMember(&buffer, updateFields[i], value); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(u.Extra))
	for key := range u.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		buffer.WriteByte(',')
		if err := writeMember(&buffer, key, u.Extra[key]); err != nil {
			return nil, err
		}
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

func writeMember(buffer *bytes.Buffer, key string, value any) error {
	encodedKey, err := encodeUnescaped(key)
	if err != nil {
		return err
	}
	encodedValue, err := encodeUnescaped(value)
	if err != nil {
		return fmt.Errorf("update field %q: %w", key, err)
	}
	buffer.Write(encodedKey)
	buffer.WriteByte(':')
	buffer.Write(encodedValue)
	return nil
}

func encodeUnescaped(value any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

// Validate requires all fields and an ISO calendar date.
func (u Update) Validate() error {
	if strings.TrimSpace(u.Title) == "" {
		return fmt.Errorf("%w: update title is required", ErrValidation)
	}
	if strings.TrimSpace(u.Content) == "" {
		return fmt.Errorf("%w: update content is required", ErrValidation)
	}
	if _, err := time.Parse(dateLayout, u.Date); err != nil {
		return fmt.Errorf("%w: update date %q must look like YYYY-MM-DD", ErrValidation, u.Date)
	}
	return nil
}

// Today formats the current date the way updates store it.
func Today(now time.Time) string {
	return now.Format(dateLayout)
}

// UpdatesDocument is the JSON file behind the news feed. Newest entries come first.
type UpdatesDocument struct {
	Updates []Update `json:"updates"`
}

// Latest returns at most n entries from the top of the feed.
func (d *UpdatesDocument) Latest(n int) []Update {
	if n <= 0 || n >= len(d.Updates) {
		return d.Updates
	}
	return d.Updates[:n]
}

// Prepend inserts a new entry at the top of the feed.
func (d *UpdatesDocument) Prepend(update Update) error {
	if err := update.Validate(); err != nil {
		return err
	}
	d.Updates = append([]Update{update}, d.Updates...)
	return nil
}

// Replace overwrites the entry at index. Without Extra of its own, the new
// entry keeps the fields the old one carried beyond title, date and content.
func (d *UpdatesDocument) Replace(index int, update Update) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	if err := update.Validate(); err != nil {
		return err
	}
	if update.Extra == nil {
		update.Extra = d.Updates[index].Extra
	}
	d.Updates[index] = update
	return nil
}

// Remove deletes the entry at index and returns it.
func (d *UpdatesDocument) Remove(index int) (Update, error) {
	if err := d.checkIndex(index); err != nil {
		return Update{}, err
	}
	removed := d.Updates[index]
	d.Updates = append(d.Updates[:index], d.Updates[index+1:]...)
	return removed, nil
}

func (d *UpdatesDocument) checkIndex(index int) error {
	if index < 0 || index >= len(d.Updates) {
		return fmt.Errorf("%w: update index %d out of range (have %d)", ErrValidation, index, len(d.Updates))
	}
	return nil
}
