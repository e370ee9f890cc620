package release

import (
	"github.com/google/uuid"

	"github.com/halyard-dev/halyard/internal/domain/version"
)

// RunID uniquely identifies one release run.
type RunID string

// NewRunID generates a fresh run identifier.
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

// String returns the string representation of the RunID.
func (id RunID) String() string {
	return string(id)
}

// Short returns the first 8 characters of the RunID for display.
func (id RunID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// TrackReport is the per-platform outcome of a release run.
type TrackReport struct {
	Platform Platform   `json:"platform"`
	State    TrackState `json:"state"`
	Artifact string     `json:"artifact,omitempty"`
	Reason   string     `json:"reason,omitempty"`
}

// Report is the structured result of a release run: one outcome per
// requested track plus the manual follow-up list.
type Report struct {
	RunID     RunID         `json:"run_id"`
	Version   string        `json:"version"`
	Channel   Channel       `json:"channel"`
	Tracks    []TrackReport `json:"tracks"`
	FollowUps []string      `json:"follow_ups,omitempty"`
}

// NewReport assembles the release report for a finished run. The tag
// name and the tagged/pushed flags describe the git side effects the
// run performed, so unfinished ones land on the follow-up list.
func NewReport(ver version.AppVersion, channel Channel, tracks []*Track, tag string, tagged, pushed bool) *Report {
	r := &Report{
		RunID:   NewRunID(),
		Version: ver.String(),
		Channel: channel,
	}
	for _, t := range tracks {
		r.Tracks = append(r.Tracks, TrackReport{
			Platform: t.Platform(),
			State:    t.State(),
			Artifact: t.Artifact(),
			Reason:   t.Reason(),
		})
	}
	r.FollowUps = FollowUps(tracks, tag, tagged, pushed)
	return r
}

// Failed returns true if any track failed. Manual outcomes are not
// failures: the run completed, a human just has steps left.
func (r *Report) Failed() bool {
	for _, t := range r.Tracks {
		if t.State == StateFailed {
			return true
		}
	}
	return false
}

// NeedsFollowUp returns true if the follow-up list is non-empty.
func (r *Report) NeedsFollowUp() bool {
	return len(r.FollowUps) > 0
}

// FollowUps derives the manual follow-up list from final track states
// and the git side-effect flags. It is a pure function: the same inputs
// always produce the same list.
//
// A Manual track contributes its reason, which names the step a human
// must finish. A tag that was created but not pushed contributes a push
// step. Failed tracks are reported as failures, not follow-ups.
func FollowUps(tracks []*Track, tag string, tagged, pushed bool) []string {
	var steps []string
	for _, t := range tracks {
		if t.State() == StateManual && t.Reason() != "" {
			steps = append(steps, t.Reason())
		}
	}
	if tagged && !pushed && tag != "" {
		steps = append(steps, "push tag "+tag)
	}
	return steps
}
