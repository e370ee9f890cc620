package toolchain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halyard-dev/halyard/internal/domain/release"
	"github.com/halyard-dev/halyard/internal/domain/version"
	hlerrors "github.com/halyard-dev/halyard/internal/errors"
)

func newTestSubmitter(mock *mockRunner) *Submitter {
	s := NewSubmitter(mock, testConfig("/project"))
	s.lookPath = foundLookPath
	return s
}

func TestSubmitter_Available(t *testing.T) {
	s := newTestSubmitter(&mockRunner{})
	assert.True(t, s.Available(release.PlatformIOS))

	s.lookPath = missingLookPath
	assert.False(t, s.Available(release.PlatformAndroid), "fastlane missing")
}

func TestSubmitter_Submit_IOS(t *testing.T) {
	mock := &mockRunner{results: []mockResult{{ExitCode: 0}}}
	s := newTestSubmitter(mock)

	ver := version.NewAppVersion(1, 2, 3, 45)
	err := s.Submit(context.Background(), release.PlatformIOS, ver, release.ChannelProduction)
	require.NoError(t, err)

	command := mock.calls[0].Command
	assert.True(t, strings.HasPrefix(command, "fastlane deliver --submit_for_review"), "command = %q", command)
	assert.Contains(t, command, "--app_version 1.2.3", "release triple without build number")
	assert.Contains(t, command, "--skip_binary_upload")
}

func TestSubmitter_Submit_Android(t *testing.T) {
	mock := &mockRunner{results: []mockResult{{ExitCode: 0}}}
	s := newTestSubmitter(mock)

	ver := version.NewAppVersion(1, 2, 3, 45)
	err := s.Submit(context.Background(), release.PlatformAndroid, ver, release.ChannelBeta)
	require.NoError(t, err)

	command := mock.calls[0].Command
	assert.True(t, strings.HasPrefix(command, "fastlane supply --package_name 'com.example.harbor'"), "command = %q", command)
	assert.Contains(t, command, "--track beta")
	assert.Contains(t, command, "--skip_upload_aab")
}

func TestSubmitter_Submit_Failure(t *testing.T) {
	mock := &mockRunner{results: []mockResult{
		{ExitCode: 1, Stderr: "Google Api Error: the current user has insufficient permissions"},
	}}
	s := newTestSubmitter(mock)

	err := s.Submit(context.Background(), release.PlatformAndroid, version.NewAppVersion(1, 0, 0, 1), release.ChannelProduction)
	require.Error(t, err)
	assert.True(t, hlerrors.IsKind(err, hlerrors.KindTrack), "kind = %v", hlerrors.GetKind(err))
	assert.Contains(t, err.Error(), "Android review submission failed")
}

func TestSubmitter_Submit_RunnerError(t *testing.T) {
	mock := &mockRunner{results: []mockResult{{Err: errors.New("exec: fastlane: not found")}}}
	s := newTestSubmitter(mock)

	err := s.Submit(context.Background(), release.PlatformIOS, version.NewAppVersion(1, 0, 0, 1), release.ChannelProduction)
	require.Error(t, err)
	assert.True(t, hlerrors.IsKind(err, hlerrors.KindCollaborator), "kind = %v", hlerrors.GetKind(err))
}

func TestSubmitter_Submit_UnknownPlatform(t *testing.T) {
	s := newTestSubmitter(&mockRunner{})

	err := s.Submit(context.Background(), release.Platform("web"), version.NewAppVersion(1, 0, 0, 1), release.ChannelBeta)
	require.Error(t, err)
	assert.True(t, hlerrors.IsKind(err, hlerrors.KindInternal), "kind = %v", hlerrors.GetKind(err))
}
