package entities

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultProvider is the Git hosting API used when settings name none.
const DefaultProvider = "github"

const (
	defaultBlobConcurrency = 4
	maxBlobConcurrency     = 16
	defaultFeedTTL         = time.Hour
	defaultRequestTimeout  = 30 * time.Second
)

// Settings is the durable CMS configuration. The access token is deliberately
// not part of it.
type Settings struct {
	RepositoryIdentity `yaml:",inline"`

	Provider        string        `yaml:"provider,omitempty"         json:"provider,omitempty"`
	APIURL          string        `yaml:"api_url,omitempty"          json:"api_url,omitempty"`
	BlobConcurrency int           `yaml:"blob_concurrency,omitempty" json:"blob_concurrency,omitempty"`
	FeedTTL         time.Duration `yaml:"feed_ttl,omitempty"         json:"feed_ttl,omitempty"`
	RequestTimeout  time.Duration `yaml:"request_timeout,omitempty"  json:"request_timeout,omitempty"`
}

// NewDefaultSettings returns the settings used before anything is configured.
func NewDefaultSettings() *Settings {
	return &Settings{
		RepositoryIdentity: DefaultRepositoryIdentity(),
		Provider:           DefaultProvider,
		BlobConcurrency:    defaultBlobConcurrency,
		FeedTTL:            defaultFeedTTL,
		RequestTimeout:     defaultRequestTimeout,
	}
}

// ApplyDefaults fills zero values in place.
func (s *Settings) ApplyDefaults() {
	if s.Provider == "" {
		s.Provider = DefaultProvider
	}
	if s.BlobConcurrency <= 0 {
		s.BlobConcurrency = defaultBlobConcurrency
	}
	if s.BlobConcurrency > maxBlobConcurrency {
		s.BlobConcurrency = maxBlobConcurrency
	}
	if s.FeedTTL <= 0 {
		s.FeedTTL = defaultFeedTTL
	}
	if s.RequestTimeout <= 0 {
		s.RequestTimeout = defaultRequestTimeout
	}
}

// Validate checks the identity and the optional API URL.
func (s *Settings) Validate() error {
	if err := s.RepositoryIdentity.Validate(); err != nil {
		return err
	}
	if s.APIURL != "" {
		parsed, err := url.Parse(s.APIURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%w: api_url %q is not an absolute URL", ErrValidation, s.APIURL)
		}
	}
	return nil
}
