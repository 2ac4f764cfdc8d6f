package commands

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// Status is the interface for reporting the session state.
type Status interface {
	Execute(ctx context.Context, session *Session, opts StatusOptions) (*StatusReport, error)
}

// StatusOptions controls whether the remote branch is contacted.
type StatusOptions struct {
	Verify bool
}

// StatusReport describes the session without exposing the token.
type StatusReport struct {
	Identity         entities.RepositoryIdentity `json:"identity"`
	APIURL           string                      `json:"api_url,omitempty"`
	SettingsLocation string                      `json:"settings_location"`
	HasToken         bool                        `json:"has_token"`
	Ready            bool                        `json:"ready"`
	Head             *entities.BranchHead        `json:"head,omitempty"`
	Counts           *SectionCounts              `json:"counts,omitempty"`
}

// SectionCounts is how much content each section of the site holds.
type SectionCounts struct {
	Slider  int `json:"slider"`
	Team    int `json:"team"`
	Patrons int `json:"patrons"`
	Updates int `json:"updates"`
}

// StatusCommand builds a StatusReport.
type StatusCommand struct {
	media   Media
	updates Updates
}

// NewStatusCommand creates a new StatusCommand.
func NewStatusCommand(media Media, updates Updates) *StatusCommand {
	return &StatusCommand{media: media, updates: updates}
}

// Execute reports the session; with Verify it also resolves the branch head,
// which proves the token and branch are usable, and counts the content of
// every section.
func (it *StatusCommand) Execute(
	ctx context.Context,
	session *Session,
	opts StatusOptions,
) (*StatusReport, error) {
	credentials := session.Credentials
	settings := credentials.Settings()

	report := &StatusReport{
		Identity:         settings.RepositoryIdentity,
		APIURL:           settings.APIURL,
		SettingsLocation: credentials.SettingsLocation(),
		HasToken:         credentials.HasToken(),
		Ready:            credentials.IsReady(),
	}
	if !opts.Verify {
		return report, nil
	}

	head, err := session.Pipeline.ResolveHead(ctx)
	if err != nil {
		return report, err
	}
	report.Head = head

	counts, err := it.count(ctx, session)
	if err != nil {
		return report, err
	}
	report.Counts = counts
	return report, nil
}

func (it *StatusCommand) count(ctx context.Context, session *Session) (*SectionCounts, error) {
	counts := &SectionCounts{}
	group, groupCtx := errgroup.WithContext(ctx)

	sections := map[entities.MediaKind]*int{
		entities.MediaSlider:  &counts.Slider,
		entities.MediaTeam:    &counts.Team,
		entities.MediaPatrons: &counts.Patrons,
	}
	for kind, target := range sections {
		group.Go(func() error {
			images, err := it.media.List(groupCtx, session, kind)
			if err != nil {
				return err
			}
			*target = len(images)
			return nil
		})
	}
	group.Go(func() error {
		document, err := it.updates.List(groupCtx, session)
		if err != nil {
			return err
		}
		counts.Updates = len(document.Updates)
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}
