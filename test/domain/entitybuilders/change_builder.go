//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/clubcms/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ChangeBuilder helps create test changes with a fluent interface.
type ChangeBuilder struct {
	*testkit.BaseBuilder
	path     string
	content  []byte
	encoding entities.Encoding
}

// NewChangeBuilder creates a new change builder with sensible defaults.
func NewChangeBuilder() *ChangeBuilder {
	return &ChangeBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		path:        "index.html",
		content:     []byte("<h1>club</h1>\n"),
		encoding:    entities.EncodingUTF8,
	}
}

// WithPath sets the repository path.
func (b *ChangeBuilder) WithPath(path string) *ChangeBuilder {
	b.path = path
	return b
}

// WithContent sets the file bytes.
func (b *ChangeBuilder) WithContent(content []byte) *ChangeBuilder {
	b.content = content
	return b
}

// WithEncoding sets how the content travels.
func (b *ChangeBuilder) WithEncoding(encoding entities.Encoding) *ChangeBuilder {
	b.encoding = encoding
	return b
}

// Build creates the change (satisfies testkit.Builder interface).
func (b *ChangeBuilder) Build() interface{} {
	return b.BuildChange()
}

// BuildChange creates the change with a concrete return type.
func (b *ChangeBuilder) BuildChange() entities.Change {
	return entities.Change{
		Path:     b.path,
		Content:  append([]byte(nil), b.content...),
		Encoding: b.encoding,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ChangeBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.path = "index.html"
	b.content = []byte("<h1>club</h1>\n")
	b.encoding = entities.EncodingUTF8
	return b
}

// Clone creates a deep copy of the ChangeBuilder.
func (b *ChangeBuilder) Clone() testkit.Builder {
	return &ChangeBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		path:        b.path,
		content:     append([]byte(nil), b.content...),
		encoding:    b.encoding,
	}
}
