package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSharer scripts the native share capability for tests.
type fakeSharer struct {
	filesAvailable bool
	textAvailable  bool
	filesErr       error
	textErr        error

	sharedFiles [][]*Artifact
	sharedTexts []string
}

func (f *fakeSharer) CanShareFiles([]*Artifact) bool { return f.filesAvailable }
func (f *fakeSharer) ShareFiles(_ context.Context, artifacts []*Artifact, _, _ string) error {
	if f.filesErr != nil {
		return f.filesErr
	}
	f.sharedFiles = append(f.sharedFiles, artifacts)
	return nil
}
func (f *fakeSharer) CanShareText() bool { return f.textAvailable }
func (f *fakeSharer) ShareText(_ context.Context, _, text string) error {
	if f.textErr != nil {
		return f.textErr
	}
	f.sharedTexts = append(f.sharedTexts, text)
	return nil
}

// fakeSaver records save calls in order.
type fakeSaver struct {
	names []string
	err   error
}

func (f *fakeSaver) Save(_ context.Context, name string, _ []byte) error {
	if f.err != nil {
		return f.err
	}
	f.names = append(f.names, name)
	return nil
}

func testArtifacts(n int) []*Artifact {
	out := make([]*Artifact, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, &Artifact{
			DesignID: "d",
			Filename: (&Compositor{appName: "Hub"}).Filename(i),
			Data:     []byte{0xff, 0xd8},
		})
	}
	return out
}

func TestDeliverPrefersNativeFiles(t *testing.T) {
	sharer := &fakeSharer{filesAvailable: true, textAvailable: true}
	saver := &fakeSaver{}
	n := NewNegotiator(sharer, saver, time.Nanosecond)

	delivery, err := n.Deliver(context.Background(), &ExportRequest{Artifacts: testArtifacts(3)})
	require.NoError(t, err)

	assert.Equal(t, ChannelNativeFiles, delivery.Channel)
	assert.False(t, delivery.LinksPending)
	assert.Len(t, sharer.sharedFiles, 1)
	// Native delivery leaves nothing on disk.
	assert.Empty(t, saver.names)
	assert.Empty(t, sharer.sharedTexts)
}

func TestDeliverFallsThroughToTextShare(t *testing.T) {
	sharer := &fakeSharer{filesAvailable: false, textAvailable: true}
	saver := &fakeSaver{}
	n := NewNegotiator(sharer, saver, time.Nanosecond)

	req := &ExportRequest{
		Artifacts: testArtifacts(2),
		Caption:   "caption",
		Summary:   "1. Silk - ₹2,500",
	}
	delivery, err := n.Deliver(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, ChannelNativeText, delivery.Channel)
	assert.False(t, delivery.LinksPending)
	require.Len(t, sharer.sharedTexts, 1)
	assert.Equal(t, "caption\n\n1. Silk - ₹2,500", sharer.sharedTexts[0])

	// Text went out without files, so they are saved for manual attach.
	assert.Equal(t, []string{"Hub_Design_1.jpg", "Hub_Design_2.jpg"}, saver.names)
}

func TestDeliverFallsBackToDownload(t *testing.T) {
	saver := &fakeSaver{}
	n := NewNegotiator(&fakeSharer{}, saver, time.Nanosecond)

	delivery, err := n.Deliver(context.Background(), &ExportRequest{Artifacts: testArtifacts(3)})
	require.NoError(t, err)

	assert.Equal(t, ChannelDownloadLink, delivery.Channel)
	assert.True(t, delivery.LinksPending)
	assert.Equal(t, []string{"Hub_Design_1.jpg", "Hub_Design_2.jpg", "Hub_Design_3.jpg"}, saver.names)
}

func TestDeliverNilSharerDefaultsToDownload(t *testing.T) {
	saver := &fakeSaver{}
	n := NewNegotiator(nil, saver, time.Nanosecond)

	delivery, err := n.Deliver(context.Background(), &ExportRequest{Artifacts: testArtifacts(1)})
	require.NoError(t, err)
	assert.Equal(t, ChannelDownloadLink, delivery.Channel)
}

func TestDeliverCancellationTerminates(t *testing.T) {
	sharer := &fakeSharer{filesAvailable: true, textAvailable: true, filesErr: ErrShareCancelled}
	saver := &fakeSaver{}
	n := NewNegotiator(sharer, saver, time.Nanosecond)

	_, err := n.Deliver(context.Background(), &ExportRequest{Artifacts: testArtifacts(2)})
	assert.ErrorIs(t, err, ErrShareCancelled)

	// No fall-through after the user dismissed the prompt.
	assert.Empty(t, sharer.sharedTexts)
	assert.Empty(t, saver.names)
}

func TestDeliverShareErrorFallsThrough(t *testing.T) {
	sharer := &fakeSharer{filesAvailable: true, filesErr: errors.New("share sheet crashed")}
	saver := &fakeSaver{}
	n := NewNegotiator(sharer, saver, time.Nanosecond)

	delivery, err := n.Deliver(context.Background(), &ExportRequest{Artifacts: testArtifacts(1)})
	require.NoError(t, err)
	assert.Equal(t, ChannelDownloadLink, delivery.Channel)
	assert.Equal(t, []string{"Hub_Design_1.jpg"}, saver.names)
}

func TestDeliverNoChannelAvailable(t *testing.T) {
	n := NewNegotiator(&fakeSharer{}, nil, time.Nanosecond)

	_, err := n.Deliver(context.Background(), &ExportRequest{Artifacts: testArtifacts(1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShareUnavailable)
}

func TestDeliverSaveFailureSurfaces(t *testing.T) {
	saver := &fakeSaver{err: ErrPersistence}
	n := NewNegotiator(&fakeSharer{}, saver, time.Nanosecond)

	_, err := n.Deliver(context.Background(), &ExportRequest{Artifacts: testArtifacts(2)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestTextShareSaveFailureStillDelivers(t *testing.T) {
	sharer := &fakeSharer{textAvailable: true}
	saver := &fakeSaver{err: ErrPersistence}
	n := NewNegotiator(sharer, saver, time.Nanosecond)

	delivery, err := n.Deliver(context.Background(), &ExportRequest{
		Artifacts: testArtifacts(1),
		Caption:   "caption",
	})
	require.NoError(t, err)
	assert.Equal(t, ChannelNativeText, delivery.Channel)
}
