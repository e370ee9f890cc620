package release

import (
	"context"
	"fmt"
	"strings"

	"github.com/halyard-dev/halyard/internal/domain/version"
)

// ArtifactBuilder produces the platform artifact (ipa, aab).
type ArtifactBuilder interface {
	// Build builds the artifact for the platform and returns its path.
	Build(ctx context.Context, platform Platform) (string, error)
}

// StoreUploader pushes a built artifact to the platform's store.
type StoreUploader interface {
	// Available reports whether the upload tooling for the platform is
	// installed and configured.
	Available(platform Platform) bool
	// Upload uploads the artifact to the platform's store.
	Upload(ctx context.Context, platform Platform, artifact string) error
}

// ReviewSubmitter submits an uploaded build for store review.
type ReviewSubmitter interface {
	// Available reports whether the submission tooling for the platform
	// is installed and configured.
	Available(platform Platform) bool
	// Submit submits the uploaded build for review on the given channel.
	Submit(ctx context.Context, platform Platform, ver version.AppVersion, channel Channel) error
}

// TrackSpec describes how one platform track should run. The caller
// resolves configuration and credentials into plain facts so the
// pipeline never reads ambient state.
type TrackSpec struct {
	Platform           Platform
	Skip               bool
	Submit             bool
	HasCredentials     bool
	MissingCredentials []string
}

// RunInput carries everything one release run needs. Tag, Tagged, and
// Pushed describe git side effects already performed by the caller;
// they only influence the follow-up list.
type RunInput struct {
	Version version.AppVersion
	Channel Channel
	Tracks  []TrackSpec
	Tag     string
	Tagged  bool
	Pushed  bool
}

// Pipeline executes release tracks sequentially and independently. A
// failure in one track never aborts the other.
type Pipeline struct {
	builder   ArtifactBuilder
	uploader  StoreUploader
	submitter ReviewSubmitter
}

// NewPipeline creates a release pipeline around the three collaborators.
func NewPipeline(builder ArtifactBuilder, uploader StoreUploader, submitter ReviewSubmitter) (*Pipeline, error) {
	// Building the track machine validates the transition table at
	// construction time instead of mid-release.
	if _, err := NewTrackMachine(); err != nil {
		return nil, err
	}
	return &Pipeline{
		builder:   builder,
		uploader:  uploader,
		submitter: submitter,
	}, nil
}

// Run executes every requested track and assembles the release report.
// Collaborator failures are recorded on the affected track; only an
// internal invariant violation returns an error.
func (p *Pipeline) Run(ctx context.Context, in RunInput) (*Report, error) {
	if len(in.Tracks) == 0 {
		return nil, ErrNoTracks
	}
	if !in.Channel.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChannel, in.Channel)
	}

	tracks := make([]*Track, 0, len(in.Tracks))
	for _, spec := range in.Tracks {
		track, err := NewTrack(spec.Platform)
		if err != nil {
			return nil, err
		}
		if err := p.runTrack(ctx, track, spec, in.Version, in.Channel); err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	return NewReport(in.Version, in.Channel, tracks, in.Tag, in.Tagged, in.Pushed), nil
}

// runTrack drives a single track to a terminal state. The returned
// error is nil for every collaborator outcome; it is non-nil only when
// a track transition itself is rejected, which indicates a bug.
func (p *Pipeline) runTrack(ctx context.Context, track *Track, spec TrackSpec, ver version.AppVersion, channel Channel) error {
	if spec.Skip {
		return track.Skip("skipped by configuration")
	}

	// Credential preflight: fail the track before the build step so no
	// partial artifact is produced.
	if err := ValidateTransition(track, EventStart, spec.HasCredentials); err != nil {
		return track.Fail(credentialReason(spec))
	}
	if err := track.Start(); err != nil {
		return err
	}

	artifact, err := p.builder.Build(ctx, track.Platform())
	if err != nil {
		return track.Fail(fmt.Sprintf("build failed: %v", err))
	}
	track.RecordArtifact(artifact)

	if !p.uploader.Available(track.Platform()) {
		return track.Degrade(fmt.Sprintf("upload %s to %s manually (upload tooling not installed)",
			artifact, track.Platform().StoreName()))
	}
	if err := p.uploader.Upload(ctx, track.Platform(), artifact); err != nil {
		return track.Fail(fmt.Sprintf("upload failed: %v", err))
	}

	if !spec.Submit {
		return track.Succeed()
	}
	if !p.submitter.Available(track.Platform()) {
		return track.Degrade(fmt.Sprintf("submit version %s for review in %s manually (submission tooling not installed)",
			ver.ReleaseString(), track.Platform().StoreName()))
	}
	if err := p.submitter.Submit(ctx, track.Platform(), ver, channel); err != nil {
		return track.Degrade(fmt.Sprintf("review submission did not complete (%v); finish it in %s",
			err, track.Platform().StoreName()))
	}

	return track.Succeed()
}

func credentialReason(spec TrackSpec) string {
	if len(spec.MissingCredentials) == 0 {
		return "store credentials missing"
	}
	return "store credentials missing: " + strings.Join(spec.MissingCredentials, ", ")
}
