//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/clubcms/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// UpdateBuilder helps create test news updates with a fluent interface.
type UpdateBuilder struct {
	*testkit.BaseBuilder
	title   string
	date    string
	content string
}

// NewUpdateBuilder creates a new update builder with sensible defaults.
func NewUpdateBuilder() *UpdateBuilder {
	return &UpdateBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		title:       "Season opener",
		date:        "2026-03-14",
		content:     "The first match of the season is on Saturday.",
	}
}

// WithTitle sets the title.
func (b *UpdateBuilder) WithTitle(title string) *UpdateBuilder {
	b.title = title
	return b
}

// WithDate sets the date (YYYY-MM-DD).
func (b *UpdateBuilder) WithDate(date string) *UpdateBuilder {
	b.date = date
	return b
}

// WithContent sets the body text.
func (b *UpdateBuilder) WithContent(content string) *UpdateBuilder {
	b.content = content
	return b
}

// Build creates the update (satisfies testkit.Builder interface).
func (b *UpdateBuilder) Build() interface{} {
	return b.BuildUpdate()
}

// BuildUpdate creates the update with a concrete return type.
func (b *UpdateBuilder) BuildUpdate() entities.Update {
	return entities.Update{Title: b.title, Date: b.date, Content: b.content}
}

// Reset clears the builder state, allowing it to be reused.
func (b *UpdateBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.title = "Season opener"
	b.date = "2026-03-14"
	b.content = "The first match of the season is on Saturday."
	return b
}

// Clone creates a deep copy of the UpdateBuilder.
func (b *UpdateBuilder) Clone() testkit.Builder {
	return &UpdateBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		title:       b.title,
		date:        b.date,
		content:     b.content,
	}
}
