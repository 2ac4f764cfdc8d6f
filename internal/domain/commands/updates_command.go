package commands

import (
	"context"
	"encoding/json"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
	"github.com/rios0rios0/clubcms/internal/domain/repositories"
)

// Updates is the interface for managing the news feed document.
type Updates interface {
	List(ctx context.Context, session *Session) (*entities.UpdatesDocument, error)
	Add(ctx context.Context, session *Session, update entities.Update) (*UpdatesResult, error)
	Edit(ctx context.Context, session *Session, index int, update entities.Update) (*UpdatesResult, error)
	Delete(ctx context.Context, session *Session, index int) (*UpdatesResult, error)
}

// UpdatesResult is the document as committed, with the commit that stored it.
type UpdatesResult struct {
	Document *entities.UpdatesDocument `json:"document"`
	Commit   *entities.CommitResult    `json:"commit"`
}

// UpdatesCommand reads and rewrites UPDATES/updates.json.
type UpdatesCommand struct {
	cache repositories.FeedCache
}

// NewUpdatesCommand creates a new UpdatesCommand.
func NewUpdatesCommand(cache repositories.FeedCache) *UpdatesCommand {
	return &UpdatesCommand{cache: cache}
}

// List returns the feed, serving it from the cache while it is fresh.
func (it *UpdatesCommand) List(ctx context.Context, session *Session) (*entities.UpdatesDocument, error) {
	key := feedCacheKey(session)
	if document, ok := it.cache.Get(key); ok {
		logger.Debugf("Serving %s from cache", entities.UpdatesPath)
		return document, nil
	}

	document, err := it.fetch(ctx, session)
	if err != nil {
		return nil, err
	}
	it.cache.Set(key, document, session.Credentials.Settings().FeedTTL)
	return document, nil
}

// Add puts a new update at the top of the feed.
func (it *UpdatesCommand) Add(
	ctx context.Context,
	session *Session,
	update entities.Update,
) (*UpdatesResult, error) {
	return it.mutate(ctx, session, fmt.Sprintf("Add update %q via CMS", update.Title),
		func(document *entities.UpdatesDocument) error {
			return document.Prepend(update)
		})
}

// Edit replaces the update at index.
func (it *UpdatesCommand) Edit(
	ctx context.Context,
	session *Session,
	index int,
	update entities.Update,
) (*UpdatesResult, error) {
	return it.mutate(ctx, session, fmt.Sprintf("Edit update %q via CMS", update.Title),
		func(document *entities.UpdatesDocument) error {
			return document.Replace(index, update)
		})
}

// Delete removes the update at index.
func (it *UpdatesCommand) Delete(ctx context.Context, session *Session, index int) (*UpdatesResult, error) {
	var removed entities.Update
	result, err := it.mutate(ctx, session, "", func(document *entities.UpdatesDocument) error {
		var removeErr error
		removed, removeErr = document.Remove(index)
		return removeErr
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("Deleted update %q", removed.Title)
	return result, nil
}

// mutate always starts from the remote document, never from the cache, so an
// edit cannot silently drop entries someone else committed.
func (it *UpdatesCommand) mutate(
	ctx context.Context,
	session *Session,
	message string,
	apply func(document *entities.UpdatesDocument) error,
) (*UpdatesResult, error) {
	document, err := it.fetch(ctx, session)
	if err != nil {
		return nil, err
	}
	if err = apply(document); err != nil {
		return nil, err
	}
	if message == "" {
		message = "Update news feed via CMS"
	}

	commit, err := session.Pipeline.CommitJSONDocument(ctx, entities.UpdatesPath, document, message)
	if err != nil {
		return nil, err
	}

	it.cache.Invalidate(feedCacheKey(session))
	return &UpdatesResult{Document: document, Commit: commit}, nil
}

func (it *UpdatesCommand) fetch(ctx context.Context, session *Session) (*entities.UpdatesDocument, error) {
	content, found, err := session.Pipeline.ReadFile(ctx, entities.UpdatesPath)
	if err != nil {
		return nil, err
	}

	document := &entities.UpdatesDocument{Updates: []entities.Update{}}
	if !found {
		logger.Debugf("%s does not exist yet, starting an empty feed", entities.UpdatesPath)
		return document, nil
	}
	if err = json.Unmarshal(content, document); err != nil {
		return nil, fmt.Errorf("%s is not a valid updates document: %w", entities.UpdatesPath, err)
	}
	if document.Updates == nil {
		document.Updates = []entities.Update{}
	}
	return document, nil
}

func feedCacheKey(session *Session) string {
	return session.Credentials.Identity().String() + ":" + entities.UpdatesPath
}
