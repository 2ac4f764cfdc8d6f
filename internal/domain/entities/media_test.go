//go:build unit

package entities_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00")
	webpBytes = []byte("RIFF\x24\x00\x00\x00WEBPVP8 ")
)

func TestParseMediaKind(t *testing.T) {
	t.Parallel()

	t.Run("should accept known kinds in any case", func(t *testing.T) {
		t.Parallel()

		// given
		raw := " Team "

		// when
		kind, err := entities.ParseMediaKind(raw)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.MediaTeam, kind)
		assert.Equal(t, "IMAGES/TEAM", kind.Directory())
	})

	t.Run("should reject unknown kinds", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "gallery"

		// when
		_, err := entities.ParseMediaKind(raw)

		// then
		require.ErrorIs(t, err, entities.ErrValidation)
	})

	t.Run("should map every kind to its folder", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "IMAGES/slider", entities.MediaSlider.Directory())
		assert.Equal(t, "IMAGES/TEAM", entities.MediaTeam.Directory())
		assert.Equal(t, "IMAGES/PATRONS", entities.MediaPatrons.Directory())
	})
}

func TestMediaUploadContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{name: "should sniff PNG", content: pngBytes, expected: "image/png"},
		{name: "should sniff JPEG", content: jpegBytes, expected: "image/jpeg"},
		{name: "should sniff GIF", content: gifBytes, expected: "image/gif"},
		{name: "should sniff WebP", content: webpBytes, expected: "image/webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			upload := entities.MediaUpload{Kind: entities.MediaSlider, FileName: "x", Content: tt.content}

			// when
			contentType, err := upload.ContentType()

			// then
			require.NoError(t, err)
			assert.Equal(t, tt.expected, contentType)
		})
	}

	t.Run("should reject non images", func(t *testing.T) {
		t.Parallel()

		// given
		upload := entities.MediaUpload{FileName: "notes.png", Content: []byte("just some text")}

		// when
		_, err := upload.ContentType()

		// then
		require.ErrorIs(t, err, entities.ErrValidation)
	})

	t.Run("should reject empty files", func(t *testing.T) {
		t.Parallel()

		// given
		upload := entities.MediaUpload{FileName: "empty.png"}

		// when
		_, err := upload.ContentType()

		// then
		require.ErrorIs(t, err, entities.ErrValidation)
	})

	t.Run("should reject files over the size limit", func(t *testing.T) {
		t.Parallel()

		// given
		content := append(append([]byte(nil), pngBytes...), bytes.Repeat([]byte{0}, entities.MaxMediaSize)...)
		upload := entities.MediaUpload{FileName: "huge.png", Content: content}

		// when
		_, err := upload.ContentType()

		// then
		require.ErrorIs(t, err, entities.ErrValidation)
		assert.Contains(t, err.Error(), "5.0 MiB")
	})

	t.Run("should accept a file of exactly the limit", func(t *testing.T) {
		t.Parallel()

		// given
		content := append(append([]byte(nil), pngBytes...), bytes.Repeat([]byte{0}, entities.MaxMediaSize-len(pngBytes))...)
		upload := entities.MediaUpload{FileName: "big.png", Content: content}

		// when
		_, err := upload.ContentType()

		// then
		require.NoError(t, err)
	})
}

func TestMediaUploadNaming(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1760000000123)

	t.Run("should keep the original extension in lower case", func(t *testing.T) {
		t.Parallel()

		// given
		upload := entities.MediaUpload{FileName: "Photo.JPEG"}

		// when
		ext := upload.Extension("image/jpeg")

		// then
		assert.Equal(t, "jpeg", ext)
	})

	t.Run("should derive the extension from the content type", func(t *testing.T) {
		t.Parallel()

		// given
		upload := entities.MediaUpload{FileName: "clipboard"}

		// when
		ext := upload.Extension("image/webp")

		// then
		assert.Equal(t, "webp", ext)
	})

	t.Run("should number slider images after the highest existing one", func(t *testing.T) {
		t.Parallel()

		// given
		upload := entities.MediaUpload{Kind: entities.MediaSlider}
		existing := []entities.File{
			{Path: "IMAGES/slider/slidder1.jpg"},
			{Path: "IMAGES/slider/slidder7.png"},
			{Path: "IMAGES/slider/slidder3.jpg"},
			{Path: "IMAGES/slider/banner.jpg"},
			{Path: "IMAGES/slider/slidder10.txt.bak"},
		}

		// when
		name := upload.TargetName("jpg", existing, now)

		// then
		assert.Equal(t, "slidder8.jpg", name)
	})

	t.Run("should start slider numbering at one", func(t *testing.T) {
		t.Parallel()

		// given
		upload := entities.MediaUpload{Kind: entities.MediaSlider}

		// when
		name := upload.TargetName("png", nil, now)

		// then
		assert.Equal(t, "slidder1.png", name)
	})

	t.Run("should timestamp team and patron images", func(t *testing.T) {
		t.Parallel()

		// given
		team := entities.MediaUpload{Kind: entities.MediaTeam}
		patron := entities.MediaUpload{Kind: entities.MediaPatrons}

		// when
		teamName := team.TargetName("png", nil, now)
		patronName := patron.TargetName("gif", nil, now)

		// then
		assert.Equal(t, "team-member-1760000000123.png", teamName)
		assert.Equal(t, "patron-1760000000123.gif", patronName)
	})

	t.Run("should recognise image file names", func(t *testing.T) {
		t.Parallel()

		assert.True(t, entities.IsImageName("a.JPG"))
		assert.True(t, entities.IsImageName("b.webp"))
		assert.False(t, entities.IsImageName("README.md"))
		assert.False(t, entities.IsImageName("noext"))
	})
}
