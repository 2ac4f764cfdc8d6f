package commands

import (
	"fmt"
	"strings"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
	"github.com/rios0rios0/clubcms/internal/domain/repositories"
)

// CredentialStore holds the repository identity and the access token for one
// editing session. The identity is persisted through the settings repository;
// the token only ever lives in memory.
type CredentialStore struct {
	mu                 sync.RWMutex
	settingsRepository repositories.SettingsRepository
	settings           entities.Settings
	token              string
}

// NewCredentialStore creates a store seeded with a copy of already loaded
// settings and token; the caller's settings are left untouched.
func NewCredentialStore(
	settingsRepository repositories.SettingsRepository,
	settings *entities.Settings,
	token string,
) *CredentialStore {
	current := entities.NewDefaultSettings()
	if settings != nil {
		copied := *settings
		current = &copied
	}
	current.ApplyDefaults()
	return &CredentialStore{
		settingsRepository: settingsRepository,
		settings:           *current,
		token:              strings.TrimSpace(token),
	}
}

// Configure replaces the repository identity and persists it. The in-memory
// identity is replaced even when persisting fails; only that failure is returned.
func (it *CredentialStore) Configure(identity entities.RepositoryIdentity) error {
	if err := identity.Validate(); err != nil {
		return err
	}

	it.mu.Lock()
	it.settings.RepositoryIdentity = identity
	snapshot := it.settings
	it.mu.Unlock()

	logger.Debugf("Repository identity set to %s", identity)
	return it.persist(&snapshot)
}

// ConfigureAPI points the store at another API root (GitHub Enterprise); an empty
// value goes back to api.github.com.
func (it *CredentialStore) ConfigureAPI(apiURL string) error {
	it.mu.Lock()
	candidate := it.settings
	candidate.APIURL = strings.TrimSpace(apiURL)
	if err := candidate.Validate(); err != nil {
		it.mu.Unlock()
		return err
	}
	it.settings = candidate
	it.mu.Unlock()

	return it.persist(&candidate)
}

// SetToken keeps token for the rest of the session, replacing any previous one.
func (it *CredentialStore) SetToken(token string) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.token = strings.TrimSpace(token)
}

// ClearToken forgets the session token.
func (it *CredentialStore) ClearToken() {
	it.SetToken("")
}

// IsReady reports whether both a complete identity and a token are present.
func (it *CredentialStore) IsReady() bool {
	_, _, ready := it.snapshot()
	return ready
}

// HasToken reports whether a token is present, without exposing it.
func (it *CredentialStore) HasToken() bool {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.token != ""
}

// Identity returns the current repository identity.
func (it *CredentialStore) Identity() entities.RepositoryIdentity {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.settings.RepositoryIdentity
}

// Settings returns a copy of the current settings.
func (it *CredentialStore) Settings() entities.Settings {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.settings
}

// SettingsLocation is where Configure writes to.
func (it *CredentialStore) SettingsLocation() string {
	if it.settingsRepository == nil {
		return ""
	}
	return it.settingsRepository.Location()
}

// snapshot reads settings, token and readiness under one lock so a pipeline run
// works against a consistent view.
func (it *CredentialStore) snapshot() (entities.Settings, string, bool) {
	it.mu.RLock()
	defer it.mu.RUnlock()
	ready := it.token != "" && it.settings.RepositoryIdentity.IsComplete()
	return it.settings, it.token, ready
}

func (it *CredentialStore) persist(settings *entities.Settings) error {
	if it.settingsRepository == nil {
		return nil
	}
	if err := it.settingsRepository.Save(settings); err != nil {
		return fmt.Errorf("failed to persist settings to %q: %w", it.settingsRepository.Location(), err)
	}
	logger.Infof("Saved settings to %s", it.settingsRepository.Location())
	return nil
}
