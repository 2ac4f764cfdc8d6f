package commands

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/dustin/go-humanize"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// Media is the interface for managing site images.
type Media interface {
	Upload(ctx context.Context, session *Session, upload entities.MediaUpload) (*MediaResult, error)
	UploadMany(ctx context.Context, session *Session, uploads []entities.MediaUpload) (*BulkMediaResult, error)
	List(ctx context.Context, session *Session, kind entities.MediaKind) ([]entities.File, error)
}

// MediaResult is where an upload landed and the commit that added it.
type MediaResult struct {
	Path        string                 `json:"path"`
	ContentType string                 `json:"content_type"`
	Commit      *entities.CommitResult `json:"commit"`
}

// UploadedImage is one image of a bulk upload.
type UploadedImage struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
}

// BulkMediaResult lists every image of a bulk upload and the one commit that
// added them all.
type BulkMediaResult struct {
	Images []UploadedImage         `json:"images"`
	Commit *entities.CommitResult `json:"commit"`
}

// MediaCommand uploads and lists images for the slider, team and patrons sections.
type MediaCommand struct {
	now func() time.Time
}

// NewMediaCommand creates a new MediaCommand.
func NewMediaCommand() *MediaCommand {
	return &MediaCommand{now: time.Now}
}

// Upload validates the image, names it after the section's convention and
// commits it.
func (it *MediaCommand) Upload(
	ctx context.Context,
	session *Session,
	upload entities.MediaUpload,
) (*MediaResult, error) {
	result, err := it.UploadMany(ctx, session, []entities.MediaUpload{upload})
	if err != nil {
		return nil, err
	}
	return &MediaResult{
		Path:        result.Images[0].Path,
		ContentType: result.Images[0].ContentType,
		Commit:      result.Commit,
	}, nil
}

// UploadMany validates every image before naming any of them and publishes
// them in a single commit. Slider images get consecutive numbers after the
// highest one on the branch.
func (it *MediaCommand) UploadMany(
	ctx context.Context,
	session *Session,
	uploads []entities.MediaUpload,
) (*BulkMediaResult, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", entities.ErrValidation)
	}

	contentTypes := make([]string, len(uploads))
	kinds := map[entities.MediaKind]int{}
	for i, upload := range uploads {
		contentType, err := upload.ContentType()
		if err != nil {
			return nil, err
		}
		contentTypes[i] = contentType
		kinds[upload.Kind]++
	}

	existing := map[entities.MediaKind][]entities.File{}
	if kinds[entities.MediaSlider] > 0 {
		files, err := session.Pipeline.ListDirectory(ctx, entities.MediaSlider.Directory())
		if err != nil {
			return nil, err
		}
		existing[entities.MediaSlider] = files
	}

	now := it.now()
	images := make([]UploadedImage, 0, len(uploads))
	changes := make([]entities.Change, 0, len(uploads))
	for i, upload := range uploads {
		name := upload.TargetName(
			upload.Extension(contentTypes[i]),
			existing[upload.Kind],
			now.Add(time.Duration(i)*time.Millisecond),
		)
		target := path.Join(upload.Kind.Directory(), name)
		existing[upload.Kind] = append(existing[upload.Kind], entities.File{Path: target})

		logger.Infof("Uploading %s (%s, %s) as %s",
			upload.FileName, contentTypes[i], humanize.IBytes(uint64(len(upload.Content))), target)
		images = append(images, UploadedImage{Path: target, ContentType: contentTypes[i]})
		changes = append(changes, entities.Change{
			Path:     target,
			Content:  upload.Content,
			Encoding: entities.EncodingBase64,
		})
	}

	commit, err := session.Pipeline.Commit(ctx, changes, uploadMessage(uploads, kinds))
	if err != nil {
		return nil, err
	}
	return &BulkMediaResult{Images: images, Commit: commit}, nil
}

// List returns the images currently stored for kind.
func (it *MediaCommand) List(
	ctx context.Context,
	session *Session,
	kind entities.MediaKind,
) ([]entities.File, error) {
	files, err := session.Pipeline.ListDirectory(ctx, kind.Directory())
	if err != nil {
		return nil, err
	}

	images := make([]entities.File, 0, len(files))
	for _, file := range files {
		if !file.IsDir && entities.IsImageName(entities.FileName(file)) {
			images = append(images, file)
		}
	}
	return images, nil
}

func uploadMessage(uploads []entities.MediaUpload, kinds map[entities.MediaKind]int) string {
	switch {
	case len(uploads) == 1:
		return fmt.Sprintf("Upload %s image via CMS", uploads[0].Kind)
	case len(kinds) == 1:
		return fmt.Sprintf("Upload %d %s images via CMS", len(uploads), uploads[0].Kind)
	default:
		return fmt.Sprintf("Upload %d images via CMS", len(uploads))
	}
}
