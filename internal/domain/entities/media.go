package entities

import (
	"fmt"
	"net/http"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// MaxMediaSize is the upload limit for a single image.
const MaxMediaSize = 5 * 1024 * 1024

// MediaKind is a section of the site that shows images.
type MediaKind string

const (
	MediaSlider  MediaKind = "slider"
	MediaTeam    MediaKind = "team"
	MediaPatrons MediaKind = "patrons"
)

var (
	allowedImageTypes = map[string]string{
		"image/jpeg": "jpg",
		"image/png":  "png",
		"image/gif":  "gif",
		"image/webp": "webp",
	}
	sliderNamePattern = regexp.MustCompile(`^slidder(\d+)\.[A-Za-z0-9]+$`)
)

// ParseMediaKind accepts the kind names used on the command line and in URLs.
func ParseMediaKind(raw string) (MediaKind, error) {
	switch kind := MediaKind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case MediaSlider, MediaTeam, MediaPatrons:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: unknown media kind %q (want slider, team or patrons)", ErrValidation, raw)
	}
}

// Directory is the repository folder for images of this kind.
func (k MediaKind) Directory() string {
	switch k {
	case MediaSlider:
		return "IMAGES/slider"
	case MediaTeam:
		return "IMAGES/TEAM"
	case MediaPatrons:
		return "IMAGES/PATRONS"
	default:
		return "IMAGES"
	}
}

// MediaUpload is an image the editor wants to publish.
type MediaUpload struct {
	Kind     MediaKind
	FileName string
	Content  []byte
}

// ContentType sniffs the upload and rejects anything that is not an allowed image.
func (m MediaUpload) ContentType() (string, error) {
	if len(m.Content) == 0 {
		return "", fmt.Errorf("%w: %q is empty", ErrValidation, m.FileName)
	}
	if len(m.Content) > MaxMediaSize {
		return "", fmt.Errorf("%w: %q is %s, the limit is %s", ErrValidation, m.FileName,
			humanize.IBytes(uint64(len(m.Content))), humanize.IBytes(MaxMediaSize))
	}
	contentType := http.DetectContentType(m.Content)
	if _, ok := allowedImageTypes[contentType]; !ok {
		return "", fmt.Errorf("%w: %q is %s; only JPEG, PNG, GIF and WebP images are allowed",
			ErrValidation, m.FileName, contentType)
	}
	return contentType, nil
}

// Extension keeps the original extension when there is one, otherwise derives it
// from the sniffed content type.
func (m MediaUpload) Extension(contentType string) string {
	if ext := strings.TrimPrefix(path.Ext(m.FileName), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return allowedImageTypes[contentType]
}

// TargetName picks the stored file name. Slider images are numbered after the
// highest existing "slidderN" file, the rest are timestamped.
func (m MediaUpload) TargetName(ext string, existing []File, now time.Time) string {
	switch m.Kind {
	case MediaSlider:
		return fmt.Sprintf("slidder%d.%s", NextSliderNumber(existing), ext)
	case MediaTeam:
		return fmt.Sprintf("team-member-%d.%s", now.UnixMilli(), ext)
	case MediaPatrons:
		return fmt.Sprintf("patron-%d.%s", now.UnixMilli(), ext)
	default:
		return fmt.Sprintf("%s-%d.%s", m.Kind, now.UnixMilli(), ext)
	}
}

// NextSliderNumber returns one more than the highest slidderN in the listing.
func NextSliderNumber(existing []File) int {
	highest := 0
	for _, file := range existing {
		match := sliderNamePattern.FindStringSubmatch(FileName(file))
		if match == nil {
			continue
		}
		if n, err := strconv.Atoi(match[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

// IsImageName reports whether a listed file looks like a site image.
func IsImageName(name string) bool {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "jpg", "jpeg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}
