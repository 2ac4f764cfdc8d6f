package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/clubcms/internal/domain/commands"
	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// Handler serves the CMS operations over HTTP for one long-lived session.
type Handler struct {
	session   *commands.Session
	configure commands.Configure
	status    commands.Status
	updates   commands.Updates
	media     commands.Media
}

// NewHandler creates a new Handler.
func NewHandler(
	session *commands.Session,
	configure commands.Configure,
	status commands.Status,
	updates commands.Updates,
	media commands.Media,
) *Handler {
	return &Handler{
		session:   session,
		configure: configure,
		status:    status,
		updates:   updates,
		media:     media,
	}
}

// SettingsRequest is the body of PUT /settings.
type SettingsRequest struct {
	Owner  string  `json:"owner"`
	Repo   string  `json:"repo"`
	Branch string  `json:"branch"`
	APIURL *string `json:"api_url,omitempty"`
}

// TokenRequest is the body of PUT /session/token.
type TokenRequest struct {
	Token string `json:"token"`
}

// ChangeRequest is one file of POST /commits. Content is plain text for
// "utf-8" and base64 text for "base64".
type ChangeRequest struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// CommitRequest is the body of POST /commits.
type CommitRequest struct {
	Message string          `json:"message"`
	Changes []ChangeRequest `json:"changes"`
}

// MediaFileResponse is one image of GET /media/{kind}.
type MediaFileResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
	SHA  string `json:"sha"`
}

// maxBulkImages caps the file parts of one multipart upload.
const maxBulkImages = 20

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Step  string `json:"step,omitempty"`
}

// GetStatus handles GET /status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	verify, _ := strconv.ParseBool(r.URL.Query().Get("verify"))
	report, err := h.status.Execute(r.Context(), h.session, commands.StatusOptions{Verify: verify})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// PutSettings handles PUT /settings
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if !decode(w, r, &req) {
		return
	}

	settings, err := h.configure.Execute(r.Context(), h.session, commands.ConfigureOptions{
		Owner:  req.Owner,
		Repo:   req.Repo,
		Branch: req.Branch,
		APIURL: req.APIURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// PutToken handles PUT /session/token
func (h *Handler) PutToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Token == "" {
		writeError(w, fmt.Errorf("%w: token is required", entities.ErrValidation))
		return
	}
	h.session.Credentials.SetToken(req.Token)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteToken handles DELETE /session/token
func (h *Handler) DeleteToken(w http.ResponseWriter, _ *http.Request) {
	h.session.Credentials.ClearToken()
	w.WriteHeader(http.StatusNoContent)
}

// ListUpdates handles GET /updates
func (h *Handler) ListUpdates(w http.ResponseWriter, r *http.Request) {
	document, err := h.updates.List(r.Context(), h.session)
	if err != nil {
		writeError(w, err)
		return
	}
	if all, _ := strconv.ParseBool(r.URL.Query().Get("all")); !all {
		document = &entities.UpdatesDocument{Updates: document.Latest(entities.FeedSize)}
	}
	writeJSON(w, http.StatusOK, document)
}

// AddUpdate handles POST /updates
func (h *Handler) AddUpdate(w http.ResponseWriter, r *http.Request) {
	var update entities.Update
	if !decode(w, r, &update) {
		return
	}
	result, err := h.updates.Add(r.Context(), h.session, update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// EditUpdate handles PUT /updates/{index}
func (h *Handler) EditUpdate(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: index must be a number", entities.ErrValidation))
		return
	}
	var update entities.Update
	if !decode(w, r, &update) {
		return
	}
	result, err := h.updates.Edit(r.Context(), h.session, index, update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DeleteUpdate handles DELETE /updates/{index}
func (h *Handler) DeleteUpdate(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: index must be a number", entities.ErrValidation))
		return
	}
	result, err := h.updates.Delete(r.Context(), h.session, index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListMedia handles GET /media/{kind}
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	kind, err := entities.ParseMediaKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	images, err := h.media.List(r.Context(), h.session, kind)
	if err != nil {
		writeError(w, err)
		return
	}
	response := make([]MediaFileResponse, 0, len(images))
	for _, image := range images {
		response = append(response, MediaFileResponse{
			Name: entities.FileName(image),
			Path: image.Path,
			SHA:  image.ObjectID,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

// UploadMedia handles POST /media/{kind}. A multipart/form-data body carries
// several images that are committed together; any other body is one raw image
// whose original name is in the X-File-Name header.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	kind, err := entities.ParseMediaKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		h.uploadMany(w, r, kind)
		return
	}

	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, entities.MaxMediaSize+1))
	if err != nil {
		writeError(w, bodyError(err))
		return
	}

	result, err := h.media.Upload(r.Context(), h.session, entities.MediaUpload{
		Kind:     kind,
		FileName: r.Header.Get("X-File-Name"),
		Content:  content,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) uploadMany(w http.ResponseWriter, r *http.Request, kind entities.MediaKind) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBulkImages*(entities.MaxMediaSize+1)+1<<20)
	reader, err := r.MultipartReader()
	if err != nil {
		writeError(w, fmt.Errorf("%w: malformed multipart body: %w", entities.ErrValidation, err))
		return
	}

	var uploads []entities.MediaUpload
	for {
		part, partErr := reader.NextPart()
		if errors.Is(partErr, io.EOF) {
			break
		}
		if partErr != nil {
			writeError(w, bodyError(partErr))
			return
		}
		if part.FileName() == "" {
			_ = part.Close()
			continue
		}
		if len(uploads) == maxBulkImages {
			_ = part.Close()
			writeError(w, fmt.Errorf("%w: at most %d images per upload", entities.ErrValidation, maxBulkImages))
			return
		}

		content, readErr := io.ReadAll(io.LimitReader(part, entities.MaxMediaSize+1))
		_ = part.Close()
		if readErr != nil {
			writeError(w, bodyError(readErr))
			return
		}
		uploads = append(uploads, entities.MediaUpload{Kind: kind, FileName: part.FileName(), Content: content})
	}

	result, err := h.media.UploadMany(r.Context(), h.session, uploads)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// CreateCommit handles POST /commits
func (h *Handler) CreateCommit(w http.ResponseWriter, r *http.Request) {
	var req CommitRequest
	if !decode(w, r, &req) {
		return
	}

	changes := make([]entities.Change, 0, len(req.Changes))
	for i, change := range req.Changes {
		encoding := entities.Encoding(change.Encoding)
		content := []byte(change.Content)
		if encoding == "" || encoding == entities.EncodingBase64 {
			decoded, err := base64.StdEncoding.DecodeString(change.Content)
			if err != nil {
				writeError(w, fmt.Errorf("%w: changes[%d].content is not base64", entities.ErrValidation, i))
				return
			}
			content = decoded
		}
		changes = append(changes, entities.Change{Path: change.Path, Content: content, Encoding: encoding})
	}

	result, err := h.session.Pipeline.Commit(r.Context(), changes, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// RegisterRoutes registers REST API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/status", h.GetStatus)
	r.Put("/settings", h.PutSettings)
	r.Put("/session/token", h.PutToken)
	r.Delete("/session/token", h.DeleteToken)
	r.Get("/updates", h.ListUpdates)
	r.Post("/updates", h.AddUpdate)
	r.Put("/updates/{index}", h.EditUpdate)
	r.Delete("/updates/{index}", h.DeleteUpdate)
	r.Get("/media/{kind}", h.ListMedia)
	r.Post("/media/{kind}", h.UploadMedia)
	r.Post("/commits", h.CreateCommit)
}

func decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, fmt.Errorf("%w: malformed JSON body: %w", entities.ErrValidation, err))
		return false
	}
	return true
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: request body is larger than %d bytes", entities.ErrValidation, tooLarge.Limit)
	}
	return fmt.Errorf("%w: failed to read body: %w", entities.ErrValidation, err)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warnf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf("Request failed: %v", err)
	} else {
		logger.Debugf("Request rejected: %v", err)
	}

	response := ErrorResponse{Error: err.Error()}
	var pipelineErr *entities.PipelineError
	if errors.As(err, &pipelineErr) {
		response.Step = pipelineErr.Step.String()
	}
	writeJSON(w, status, response)
}

// StatusFor maps the error kinds onto HTTP statuses.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, entities.ErrTransient):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
