package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Outcome is the three-way result of one delivery channel attempt.
type Outcome int

const (
	// OutcomeDelivered means the channel handled the export.
	OutcomeDelivered Outcome = iota
	// OutcomeCancelled means the user dismissed the channel's prompt;
	// the negotiation terminates without falling through.
	OutcomeCancelled
	// OutcomeUnavailable means the channel cannot serve this request;
	// the negotiator tries the next one.
	OutcomeUnavailable
)

// Channel names, reported in the Delivery result.
const (
	ChannelNativeFiles  = "native-files"
	ChannelNativeText   = "native-text"
	ChannelDownloadLink = "download-link"
)

// Inter-item delay between local file saves, to avoid save-dialog
// collisions on browsers that prompt per file.
const saveStagger = 300 * time.Millisecond

// ExportRequest is one negotiation: the artifacts to deliver plus the
// caption text accompanying them.
type ExportRequest struct {
	Artifacts []*Artifact
	Title     string
	Caption   string
	// Summary is the per-design text (index, fabric, price) appended when
	// only text can be shared natively.
	Summary string
}

// ExportChannel is one delivery path. Channels are attempted in priority
// order; see Negotiator.Deliver.
type ExportChannel interface {
	Name() string
	Attempt(ctx context.Context, req *ExportRequest) (Outcome, error)
}

// Delivery reports which channel delivered an export. LinksPending is set
// when the artifacts were saved locally and the caller still needs to open
// the messaging deep link (files cannot be attached programmatically on
// that path).
type Delivery struct {
	Channel      string
	LinksPending bool
}

// Negotiator tries delivery channels in strict priority order, falling
// through on unavailability. User cancellation terminates the whole
// negotiation.
type Negotiator struct {
	channels []ExportChannel
}

// NewNegotiator builds the standard channel order: native file share,
// native text share, download-then-link. A zero saveDelay takes the
// default stagger.
func NewNegotiator(sharer Sharer, saver FileSaver, saveDelay time.Duration) *Negotiator {
	if sharer == nil {
		sharer = NoSharer{}
	}
	if saveDelay == 0 {
		saveDelay = saveStagger
	}
	return &Negotiator{
		channels: []ExportChannel{
			&NativeFileShare{Sharer: sharer},
			&NativeTextShare{Sharer: sharer, Saver: saver, SaveDelay: saveDelay},
			&DownloadAndLink{Saver: saver, SaveDelay: saveDelay},
		},
	}
}

// Deliver runs the negotiation. Returns ErrShareCancelled when the user
// dismissed a native prompt, or the last channel's error when no channel
// could deliver.
func (n *Negotiator) Deliver(ctx context.Context, req *ExportRequest) (*Delivery, error) {
	var lastErr error
	for _, ch := range n.channels {
		outcome, err := ch.Attempt(ctx, req)
		switch outcome {
		case OutcomeDelivered:
			log.Printf("✅ Export delivered via %s (%d artifacts)", ch.Name(), len(req.Artifacts))
			return &Delivery{
				Channel:      ch.Name(),
				LinksPending: ch.Name() == ChannelDownloadLink,
			}, nil
		case OutcomeCancelled:
			log.Printf("🚫 Export cancelled by user during %s", ch.Name())
			return &Delivery{Channel: ch.Name()}, ErrShareCancelled
		case OutcomeUnavailable:
			if err != nil && !errors.Is(err, ErrShareUnavailable) {
				log.Printf("⚠️  Channel %s failed, trying next: %v", ch.Name(), err)
			}
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = ErrShareUnavailable
	}
	return nil, fmt.Errorf("no delivery channel available: %w", lastErr)
}

// NativeFileShare hands the artifact files to the platform share sheet.
type NativeFileShare struct {
	Sharer Sharer
}

// Name implements ExportChannel
func (c *NativeFileShare) Name() string { return ChannelNativeFiles }

// Attempt implements ExportChannel. Cancellation is terminal; any other
// share failure falls through to the next channel.
func (c *NativeFileShare) Attempt(ctx context.Context, req *ExportRequest) (Outcome, error) {
	if !c.Sharer.CanShareFiles(req.Artifacts) {
		return OutcomeUnavailable, nil
	}
	if err := c.Sharer.ShareFiles(ctx, req.Artifacts, req.Title, req.Caption); err != nil {
		if errors.Is(err, ErrShareCancelled) {
			return OutcomeCancelled, err
		}
		return OutcomeUnavailable, err
	}
	return OutcomeDelivered, nil
}

// NativeTextShare shares the caption plus per-design summary as text, and
// saves the artifacts locally so the user can attach them manually.
type NativeTextShare struct {
	Sharer    Sharer
	Saver     FileSaver
	SaveDelay time.Duration
}

// Name implements ExportChannel
func (c *NativeTextShare) Name() string { return ChannelNativeText }

// Attempt implements ExportChannel
func (c *NativeTextShare) Attempt(ctx context.Context, req *ExportRequest) (Outcome, error) {
	if !c.Sharer.CanShareText() {
		return OutcomeUnavailable, nil
	}

	text := req.Caption
	if req.Summary != "" {
		text += "\n\n" + req.Summary
	}
	if err := c.Sharer.ShareText(ctx, req.Title, text); err != nil {
		if errors.Is(err, ErrShareCancelled) {
			return OutcomeCancelled, err
		}
		return OutcomeUnavailable, err
	}

	// Manual-attach fallback: the text went out without files, so keep
	// local copies. Save failures here don't undo the delivered text.
	if err := saveAll(ctx, c.Saver, req.Artifacts, c.SaveDelay); err != nil {
		log.Printf("⚠️  Post-share save failed: %v", err)
	}
	return OutcomeDelivered, nil
}

// DownloadAndLink persists every artifact locally, one at a time. The
// caller then opens the messaging deep link; the user attaches the saved
// files manually.
type DownloadAndLink struct {
	Saver     FileSaver
	SaveDelay time.Duration
}

// Name implements ExportChannel
func (c *DownloadAndLink) Name() string { return ChannelDownloadLink }

// Attempt implements ExportChannel
func (c *DownloadAndLink) Attempt(ctx context.Context, req *ExportRequest) (Outcome, error) {
	if c.Saver == nil {
		return OutcomeUnavailable, nil
	}
	if err := saveAll(ctx, c.Saver, req.Artifacts, c.SaveDelay); err != nil {
		// Saves already performed are harmless side effects, not rolled back.
		return OutcomeUnavailable, err
	}
	return OutcomeDelivered, nil
}

// saveAll writes artifacts sequentially in index order, pausing between
// items when more than one is saved.
func saveAll(ctx context.Context, saver FileSaver, artifacts []*Artifact, delay time.Duration) error {
	for i, a := range artifacts {
		if err := saver.Save(ctx, a.Filename, a.Data); err != nil {
			return fmt.Errorf("failed to save %s: %w", a.Filename, err)
		}
		if len(artifacts) > 1 && i < len(artifacts)-1 {
			sleepCtx(ctx, delay)
		}
	}
	return nil
}

// sleepCtx waits for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
