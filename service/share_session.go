package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"textilehub/models"
	"textilehub/utils"
)

// SessionState is the share workflow phase.
type SessionState int

const (
	// StateConfiguring accepts option/selection changes; each change
	// regenerates the live preview.
	StateConfiguring SessionState = iota
	// StateProcessing is the batch generation + delivery negotiation.
	StateProcessing
	// StateReadyToLink means artifacts were saved locally and the deep
	// link(s) are waiting to be opened.
	StateReadyToLink
	// StateClosed is terminal; the preview artifact has been released.
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StateProcessing:
		return "processing"
	case StateReadyToLink:
		return "ready-to-link"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Default pacing for the link flows.
const (
	defaultLinkStagger = 1800 * time.Millisecond
	defaultCloseGrace  = 500 * time.Millisecond
)

// SessionConfig wires one ShareSession.
type SessionConfig struct {
	AppName    string
	Designs    []*models.Design // selection order is export order
	Options    models.LabelOptions
	FirmName   string
	Compositor *Compositor
	Negotiator *Negotiator
	Previews   *PreviewStore
	Saver      FileSaver
	Opener     LinkOpener

	// LinkStagger spaces consecutive deep-link opens so the platform does
	// not treat them as popups. CloseGrace is the pause before the session
	// closes after opening links. Zero values take the defaults.
	LinkStagger time.Duration
	CloseGrace  time.Duration
	SaveDelay   time.Duration
}

// ShareSession drives one share workflow: live preview regeneration while
// options change, then a batch export through the negotiator, then the
// optional deep-link step.
type ShareSession struct {
	mu       sync.Mutex
	state    SessionState
	designs  []*models.Design
	opts     models.LabelOptions
	firmName string
	appName  string

	compositor *Compositor
	negotiator *Negotiator
	previews   *PreviewStore
	saver      FileSaver
	opener     LinkOpener

	linkStagger time.Duration
	closeGrace  time.Duration
	saveDelay   time.Duration

	// previewGen orders preview regenerations; only the newest may publish.
	previewGen atomic.Uint64
	preview    *PreviewHandle

	pendingLinks []string
}

// NewShareSession creates a session in StateConfiguring.
func NewShareSession(cfg SessionConfig) *ShareSession {
	s := &ShareSession{
		state:       StateConfiguring,
		designs:     cfg.Designs,
		opts:        cfg.Options,
		firmName:    cfg.FirmName,
		appName:     cfg.AppName,
		compositor:  cfg.Compositor,
		negotiator:  cfg.Negotiator,
		previews:    cfg.Previews,
		saver:       cfg.Saver,
		opener:      cfg.Opener,
		linkStagger: cfg.LinkStagger,
		closeGrace:  cfg.CloseGrace,
		saveDelay:   cfg.SaveDelay,
	}
	if s.linkStagger == 0 {
		s.linkStagger = defaultLinkStagger
	}
	if s.closeGrace == 0 {
		s.closeGrace = defaultCloseGrace
	}
	if s.saveDelay == 0 {
		s.saveDelay = saveStagger
	}
	if s.opener == nil {
		s.opener = LoggingLinkOpener{}
	}
	return s
}

// State returns the current phase.
func (s *ShareSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PreviewToken returns the token of the live preview, or "".
func (s *ShareSession) PreviewToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preview == nil {
		return ""
	}
	return s.preview.Token()
}

// Links returns the deep links pending in StateReadyToLink.
func (s *ShareSession) Links() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.pendingLinks))
	copy(out, s.pendingLinks)
	return out
}

// SetOptions updates the label toggles and regenerates the preview.
func (s *ShareSession) SetOptions(ctx context.Context, opts models.LabelOptions) error {
	s.mu.Lock()
	if s.state != StateConfiguring {
		s.mu.Unlock()
		return fmt.Errorf("cannot change options in state %s", s.state)
	}
	s.opts = opts
	s.mu.Unlock()
	return s.RefreshPreview(ctx)
}

// SetDesigns replaces the selected-designs list and regenerates the
// preview. The selection always reflects the caller's current list; a
// removed design disappears from the session atomically.
func (s *ShareSession) SetDesigns(ctx context.Context, designs []*models.Design) error {
	s.mu.Lock()
	if s.state != StateConfiguring {
		s.mu.Unlock()
		return fmt.Errorf("cannot change selection in state %s", s.state)
	}
	s.designs = designs
	s.mu.Unlock()
	return s.RefreshPreview(ctx)
}

// RefreshPreview regenerates the single-image preview from the first
// selected design. Last write wins: a newer regeneration supersedes an
// older in-flight one, and results arriving after Close are discarded
// without being published.
func (s *ShareSession) RefreshPreview(ctx context.Context) error {
	gen := s.previewGen.Add(1)

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	if len(s.designs) == 0 {
		old := s.preview
		s.preview = nil
		s.mu.Unlock()
		if old != nil {
			old.Release()
		}
		return nil
	}
	design := s.designs[0]
	opts := s.opts
	firmName := s.firmName
	s.mu.Unlock()

	artifact, err := s.compositor.Compose(ctx, design, opts, firmName)
	if err != nil {
		log.Printf("⚠️  Preview generation failed for design %s: %v", design.ID, err)
		return err
	}

	s.mu.Lock()
	if s.state == StateClosed || gen != s.previewGen.Load() {
		// Superseded or torn down; this result must not reach the UI.
		s.mu.Unlock()
		return nil
	}
	old := s.preview
	s.preview = s.previews.Publish(artifact)
	s.mu.Unlock()

	if old != nil {
		old.Release()
	}
	return nil
}

// generateAll composes a branded artifact for every selected design, in
// selection order. One compose failure aborts the whole batch: an export
// with missing images would silently under-deliver, so the caller gets a
// single error naming the failed design instead. (Preview generation stays
// per-item tolerant.)
func (s *ShareSession) generateAll(ctx context.Context) ([]*Artifact, error) {
	s.mu.Lock()
	designs := make([]*models.Design, len(s.designs))
	copy(designs, s.designs)
	opts := s.opts
	firmName := s.firmName
	s.mu.Unlock()

	artifacts := make([]*Artifact, 0, len(designs))
	for i, d := range designs {
		a, err := s.compositor.Compose(ctx, d, opts, firmName)
		if err != nil {
			return nil, fmt.Errorf("design %d (%s): %w", i+1, d.ID, err)
		}
		a.Filename = s.compositor.Filename(i + 1)
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

// Export runs the standard negotiation across all selected designs.
// On the download path the session moves to StateReadyToLink with the
// broadcast link pending; on native delivery it closes. Cancellation
// closes the session and is reported as ErrShareCancelled (a normal
// outcome, not an error message). Any other failure returns the session
// to StateConfiguring.
func (s *ShareSession) Export(ctx context.Context) (*Delivery, error) {
	if err := s.enterProcessing(); err != nil {
		return nil, err
	}

	artifacts, err := s.generateAll(ctx)
	if err != nil {
		s.backToConfiguring()
		return nil, err
	}

	s.mu.Lock()
	caption := Caption(s.appName, len(s.designs))
	summary := SummaryLines(s.designs)
	title := s.appName + " Design Catalogue"
	s.mu.Unlock()

	delivery, err := s.negotiator.Deliver(ctx, &ExportRequest{
		Artifacts: artifacts,
		Title:     title,
		Caption:   caption,
		Summary:   summary,
	})
	if err != nil {
		if errors.Is(err, ErrShareCancelled) {
			s.Close()
			return delivery, err
		}
		s.backToConfiguring()
		return nil, err
	}

	if delivery.LinksPending {
		s.mu.Lock()
		s.state = StateReadyToLink
		s.pendingLinks = []string{BroadcastLink(caption)}
		s.mu.Unlock()
	} else {
		s.Close()
	}
	return delivery, nil
}

// ExportToGroup broadcasts to every member of a group: native file share
// when available, otherwise (including user cancellation of the share
// sheet) save-all followed by one deep link per member. Rejected before
// any artifact generation when the group has no member with a usable
// phone number.
func (s *ShareSession) ExportToGroup(ctx context.Context, group *models.Group) (*Delivery, error) {
	phones := make([]string, 0, len(group.Members))
	for _, m := range group.Members {
		if p := utils.NormalizePhone(m.PhoneNumber); p != "" {
			phones = append(phones, p)
		}
	}
	if len(phones) == 0 {
		return nil, ErrNoGroupMembers
	}

	if err := s.enterProcessing(); err != nil {
		return nil, err
	}

	artifacts, err := s.generateAll(ctx)
	if err != nil {
		s.backToConfiguring()
		return nil, err
	}

	s.mu.Lock()
	caption := Caption(s.appName, len(s.designs))
	title := s.appName + " Design Catalogue"
	s.mu.Unlock()

	req := &ExportRequest{Artifacts: artifacts, Title: title, Caption: caption}
	fileShare := &NativeFileShare{Sharer: s.sharerOrNone()}
	outcome, attemptErr := fileShare.Attempt(ctx, req)
	if outcome == OutcomeDelivered {
		s.Close()
		return &Delivery{Channel: ChannelNativeFiles}, nil
	}
	if attemptErr != nil && !errors.Is(attemptErr, ErrShareCancelled) && !errors.Is(attemptErr, ErrShareUnavailable) {
		log.Printf("⚠️  Group native share failed, falling back to download: %v", attemptErr)
	}

	// Fallback: save everything, then one link per member.
	if s.saver != nil {
		if err := saveAll(ctx, s.saver, artifacts, s.saveDelay); err != nil {
			s.backToConfiguring()
			return nil, err
		}
	}

	links := make([]string, 0, len(phones))
	for _, p := range phones {
		links = append(links, MemberLink(p, caption))
	}

	s.mu.Lock()
	s.state = StateReadyToLink
	s.pendingLinks = links
	s.mu.Unlock()

	return &Delivery{Channel: ChannelDownloadLink, LinksPending: true}, nil
}

// OpenLinks opens the pending deep links sequentially, staggered so the
// platform does not suppress them as popups, then closes the session
// after a short grace delay. Ordering follows member order.
func (s *ShareSession) OpenLinks(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateReadyToLink {
		s.mu.Unlock()
		return fmt.Errorf("no links pending in state %s", s.state)
	}
	links := make([]string, len(s.pendingLinks))
	copy(links, s.pendingLinks)
	s.mu.Unlock()

	for i, link := range links {
		if i > 0 {
			sleepCtx(ctx, s.linkStagger)
		}
		if err := s.opener.Open(ctx, link); err != nil {
			log.Printf("⚠️  Failed to open link: %v", err)
		}
	}

	sleepCtx(ctx, s.closeGrace)
	s.Close()
	return nil
}

// Cancel closes the session from any state.
func (s *ShareSession) Cancel() {
	s.Close()
}

// Close moves the session to StateClosed and releases the live preview.
// Idempotent; in-flight preview work observes the state and discards its
// result.
func (s *ShareSession) Close() {
	// Invalidate any in-flight regeneration before taking the lock.
	s.previewGen.Add(1)

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	old := s.preview
	s.preview = nil
	s.pendingLinks = nil
	s.mu.Unlock()

	if old != nil {
		old.Release()
	}
}

func (s *ShareSession) enterProcessing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConfiguring {
		return fmt.Errorf("cannot export in state %s", s.state)
	}
	if len(s.designs) == 0 {
		return fmt.Errorf("no designs selected")
	}
	s.state = StateProcessing
	return nil
}

func (s *ShareSession) backToConfiguring() {
	s.mu.Lock()
	if s.state == StateProcessing {
		s.state = StateConfiguring
	}
	s.mu.Unlock()
}

func (s *ShareSession) sharerOrNone() Sharer {
	for _, ch := range s.negotiator.channels {
		if fs, ok := ch.(*NativeFileShare); ok {
			return fs.Sharer
		}
	}
	return NoSharer{}
}

// SessionManager keeps live sessions addressable by token.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*ShareSession
}

// NewSessionManager creates an empty SessionManager
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*ShareSession)}
}

// Add registers a session and returns its token
func (m *SessionManager) Add(s *ShareSession) string {
	token := uuid.New().String()
	m.mu.Lock()
	m.sessions[token] = s
	m.mu.Unlock()
	return token
}

// Get looks up a session by token
func (m *SessionManager) Get(token string) (*ShareSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	return s, ok
}

// Remove closes and drops a session
func (m *SessionManager) Remove(token string) {
	m.mu.Lock()
	s := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()
	if s != nil {
		s.Close()
	}
}
