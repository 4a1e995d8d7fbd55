package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Sharer is the platform-native share capability (the share sheet on
// mobile). Implementations return ErrShareCancelled when the user
// dismisses the prompt.
type Sharer interface {
	// CanShareFiles reports whether this artifact set can be handed to the
	// platform share sheet with files attached.
	CanShareFiles(artifacts []*Artifact) bool
	ShareFiles(ctx context.Context, artifacts []*Artifact, title, text string) error

	CanShareText() bool
	ShareText(ctx context.Context, title, text string) error
}

// FileSaver persists one artifact to local storage.
type FileSaver interface {
	Save(ctx context.Context, name string, data []byte) error
}

// LinkOpener navigates to an external deep link.
type LinkOpener interface {
	Open(ctx context.Context, url string) error
}

// NoSharer is the Sharer for environments without a native share
// capability; every attempt reports unavailable.
type NoSharer struct{}

func (NoSharer) CanShareFiles([]*Artifact) bool { return false }
func (NoSharer) ShareFiles(context.Context, []*Artifact, string, string) error {
	return ErrShareUnavailable
}
func (NoSharer) CanShareText() bool { return false }
func (NoSharer) ShareText(context.Context, string, string) error {
	return ErrShareUnavailable
}

// LocalFileSaver writes artifacts into a folder under the user's
// Downloads directory.
type LocalFileSaver struct {
	dir string
}

// NewLocalFileSaver creates a saver targeting Downloads/<subdir>
func NewLocalFileSaver(subdir string) (*LocalFileSaver, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return &LocalFileSaver{dir: filepath.Join(homeDir, "Downloads", subdir)}, nil
}

// Ensure LocalFileSaver implements FileSaver
var _ FileSaver = (*LocalFileSaver)(nil)

// Save writes one file, creating the directory on first use
func (s *LocalFileSaver) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	log.Printf("✓ Saved: %s", path)
	return nil
}

// LoggingLinkOpener records deep links in the log instead of navigating.
// Used when the links are returned to the caller to open themselves.
type LoggingLinkOpener struct{}

// Ensure LoggingLinkOpener implements LinkOpener
var _ LinkOpener = (*LoggingLinkOpener)(nil)

// Open logs the link
func (LoggingLinkOpener) Open(_ context.Context, url string) error {
	log.Printf("🔗 Open: %s", url)
	return nil
}
