// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package activation

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/activation/lib/clock"
	"github.com/bureau-foundation/activation/lib/startup"
)

// maxGenerateAttempts bounds retries when the generator returns a
// token that is already in use. With UUIDs this never happens; a
// broken generator gets its requests denied instead of looping.
const maxGenerateAttempts = 3

// Config carries the collaborators and limits of a Service.
type Config struct {
	// Grants decides whether an input serial authorizes a token. Required.
	Grants GrantChecker

	// Clock reports display event time for new sequences. Required.
	Clock EventClock

	// Notifier is the startup-notification registry. Required.
	Notifier Notifier

	// Windows is the window model. Required.
	Windows WindowManager

	// Replier sends done and failed replies. Required.
	Replier Replier

	// Generate creates token strings. Nil means NewUUIDToken.
	Generate TokenGenerator

	// Timers drives token expiry. Required when TokenTTL is positive.
	Timers clock.Clock

	// TokenTTL is how long an issued token may wait for Associate.
	// Zero disables expiry.
	TokenTTL time.Duration

	// MaxTokensPerClient caps the unassociated tokens one client may
	// hold. Zero disables the cap.
	MaxTokensPerClient int

	// Post hands timer work to the goroutine that owns the service.
	// Nil runs it inline, which is only correct with a fake clock
	// driven by that goroutine.
	Post func(func())

	// Logger receives debug records for every operation. Nil discards.
	Logger *slog.Logger
}

// Service is the activation protocol handler. See the package
// documentation for the handshake and the concurrency contract.
type Service struct {
	grants   GrantChecker
	clock    EventClock
	notifier Notifier
	windows  WindowManager
	replier  Replier
	generate TokenGenerator
	timers   clock.Clock
	post     func(func())
	logger   *slog.Logger

	tokenTTL           time.Duration
	maxTokensPerClient int

	handles   *handleArena
	tokens    *tokenRegistry
	sequences *sequenceStore
	pending   *pendingTable
}

// New creates a Service. Panics if a required collaborator is missing.
func New(config Config) *Service {
	switch {
	case config.Grants == nil:
		panic("activation.New: Grants is required")
	case config.Clock == nil:
		panic("activation.New: Clock is required")
	case config.Notifier == nil:
		panic("activation.New: Notifier is required")
	case config.Windows == nil:
		panic("activation.New: Windows is required")
	case config.Replier == nil:
		panic("activation.New: Replier is required")
	case config.TokenTTL > 0 && config.Timers == nil:
		panic("activation.New: Timers is required when TokenTTL is set")
	}

	generate := config.Generate
	if generate == nil {
		generate = NewUUIDToken
	}
	post := config.Post
	if post == nil {
		post = func(fn func()) { fn() }
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Service{
		grants:             config.Grants,
		clock:              config.Clock,
		notifier:           config.Notifier,
		windows:            config.Windows,
		replier:            config.Replier,
		generate:           generate,
		timers:             config.Timers,
		post:               post,
		logger:             logger,
		tokenTTL:           config.TokenTTL,
		maxTokensPerClient: config.MaxTokensPerClient,
		handles:            newHandleArena(),
		tokens:             newTokenRegistry(),
		sequences:          newSequenceStore(),
		pending:            newPendingTable(),
	}
}

// RequestToken handles a token request on the client's new token
// object. Exactly one of Replier.SendDone and Replier.SendFailed is
// called for the object before RequestToken returns, unless the object
// id is already in use (ErrHandleInUse), in which case neither is.
func (s *Service) RequestToken(client ClientID, object ObjectID, surface SurfaceID, serial uint32, seat SeatID) (Token, Outcome, error) {
	handle := Handle{Client: client, Object: object}
	if !s.handles.bind(handle) {
		return "", OutcomeDenied, fmt.Errorf("token object %s: %w", handle, ErrHandleInUse)
	}

	if s.maxTokensPerClient > 0 && s.tokens.outstandingFor(client) >= s.maxTokensPerClient {
		s.deny(handle)
		return "", OutcomeDenied, fmt.Errorf("client %d holds %d unassociated tokens: %w",
			client, s.tokens.outstandingFor(client), ErrDenied)
	}

	if !s.grants.GrantCheck(seat, surface, serial) {
		s.deny(handle)
		return "", OutcomeDenied, fmt.Errorf("serial %d on surface %d: %w", serial, surface, ErrDenied)
	}

	token, ok := s.newToken()
	if !ok {
		s.deny(handle)
		return "", OutcomeDenied, fmt.Errorf("generator returned tokens already in use: %w", ErrDenied)
	}

	entry := &tokenEntry{
		token:  token,
		handle: handle,
	}
	if s.timers != nil {
		entry.issuedAt = s.timers.Now()
	}
	if s.tokenTTL > 0 {
		entry.expiry = s.timers.AfterFunc(s.tokenTTL, func() {
			s.post(func() { s.expireToken(entry) })
		})
	}
	s.tokens.insert(entry)
	s.replier.SendDone(handle, token)

	s.logger.Debug("activation token issued",
		"client", client,
		"object", object,
		"surface", surface,
		"token", Fingerprint(token),
	)
	return token, OutcomeGranted, nil
}

// deny sends the failed reply and discards the handle.
func (s *Service) deny(handle Handle) {
	s.replier.SendFailed(handle)
	s.handles.release(handle)
	s.logger.Debug("activation token denied", "client", handle.Client, "object", handle.Object)
}

// newToken generates a token that no table or the startup registry
// currently knows.
func (s *Service) newToken() (Token, bool) {
	for range maxGenerateAttempts {
		token := s.generate()
		if token == "" || s.tokens.contains(token) || s.sequences.contains(SequenceID(token)) {
			continue
		}
		if _, registered := s.notifier.Lookup(string(token)); registered {
			continue
		}
		return token, true
	}
	return "", false
}

func (s *Service) expireToken(entry *tokenEntry) {
	if !s.tokens.expire(entry) {
		return
	}
	s.logger.Debug("activation token expired",
		"token", Fingerprint(entry.token),
		"age", s.timers.Now().Sub(entry.issuedAt),
		"requester_connected", s.handles.live(entry.handle),
	)
}

// Associate consumes an issued token and starts a startup sequence for
// the application. A token can be associated once; later calls return
// ErrNotFound and change nothing.
//
// If another launcher has since registered a sequence under the same
// id, Associate fails with ErrNotFound and startup.ErrDuplicateSequence
// and the token stays issued.
func (s *Service) Associate(token Token, appID string) (SequenceID, Outcome, error) {
	if !s.tokens.contains(token) {
		return "", OutcomeNotFound, fmt.Errorf("associate %s: %w", Fingerprint(token), ErrNotFound)
	}
	if _, registered := s.notifier.Lookup(string(token)); registered {
		return "", OutcomeNotFound, fmt.Errorf("associate %s: %w: %w",
			Fingerprint(token), ErrNotFound, startup.ErrDuplicateSequence)
	}
	entry, _ := s.tokens.take(token)

	id := SequenceID(token)
	var createdAt time.Time
	if s.timers != nil {
		createdAt = s.timers.Now()
	}
	sequence := startup.NewSequence(startup.SequenceOptions{
		ID:        string(token),
		AppID:     appID,
		Timestamp: s.clock.CurrentTimestamp(),
		CreatedAt: createdAt,
	})

	record := &sequenceRecord{sequence: sequence, handle: entry.handle}
	if err := s.notifier.Add(sequence); err != nil {
		return "", OutcomeNotFound, fmt.Errorf("associate %s: registering sequence: %w", Fingerprint(token), err)
	}
	record.unsubscribe = sequence.OnComplete(func(completed *startup.Sequence) {
		s.sequenceCompleted(id, completed)
	})
	s.sequences.insert(id, record)

	s.logger.Debug("activation token associated",
		"token", Fingerprint(token),
		"app_id", appID,
		"timestamp", sequence.Timestamp(),
	)
	return id, OutcomeAssociated, nil
}

// sequenceCompleted runs when anyone completes a stored sequence. The
// record is dropped; nothing is sent to the requester, which may be
// long gone.
func (s *Service) sequenceCompleted(id SequenceID, sequence *startup.Sequence) {
	record, ok := s.sequences.remove(id, sequence)
	if !ok {
		return
	}
	s.logger.Debug("startup sequence completed",
		"app_id", sequence.AppID(),
		"requester_connected", s.handles.live(record.handle),
	)
}

// SetCurrentToken records that the client is the application the
// token was handed to. The sequence is completed at once, ending
// launch feedback for it. Unknown, expired, and already claimed
// tokens are ignored.
//
// A client that claims a second sequence before activating retires
// the first one: it is removed from the startup registry.
func (s *Service) SetCurrentToken(client ClientID, token Token) (Outcome, error) {
	sequence, ok := s.notifier.Lookup(string(token))
	if !ok || sequence.Completed() {
		return OutcomeNotFound, fmt.Errorf("set current token %s: %w", Fingerprint(token), ErrNotFound)
	}

	sequence.Complete()
	if previous, replaced := s.pending.claim(client, sequence); replaced && previous != sequence {
		s.retire(previous)
	}

	s.logger.Debug("activation token claimed",
		"client", client,
		"token", Fingerprint(token),
		"app_id", sequence.AppID(),
	)
	return OutcomeClaimed, nil
}

// retire removes a sequence from the store and the startup registry.
func (s *Service) retire(sequence *startup.Sequence) {
	sequence.Complete()
	s.sequences.remove(SequenceID(sequence.ID()), sequence)
	s.notifier.Remove(sequence)
}

// Activate handles the client's request to activate a surface. With a
// claimed sequence, the window is moved to the sequence's workspace (if
// any) and then activated with the sequence's timestamp. Without one,
// the window is only marked as demanding attention.
func (s *Service) Activate(client ClientID, surface SurfaceID) (Outcome, error) {
	window, ok := s.windows.WindowForSurface(surface)
	if !ok {
		return OutcomeNoWindow, fmt.Errorf("activate surface %d: %w", surface, ErrNoWindow)
	}

	sequence, claimed := s.pending.take(client)
	if !claimed {
		s.windows.SetDemandsAttention(window)
		s.logger.Debug("activation without token",
			"client", client,
			"surface", surface,
			"window", window,
		)
		return OutcomeAttentionRequested, fmt.Errorf("activate surface %d: %w", surface, ErrNoProvenance)
	}

	workspace := sequence.Workspace()
	timestamp := sequence.Timestamp()
	s.retire(sequence)

	if workspace >= 0 {
		s.windows.ChangeWorkspace(window, workspace)
	}
	s.windows.ActivateWindow(window, timestamp, SourceApplication)

	s.logger.Debug("window activated",
		"client", client,
		"surface", surface,
		"window", window,
		"app_id", sequence.AppID(),
		"workspace", workspace,
		"timestamp", timestamp,
	)
	return OutcomeActivated, nil
}

// DestroyToken releases a token object. The token string, if issued,
// stays redeemable: the object was only the address for the reply.
func (s *Service) DestroyToken(client ClientID, object ObjectID) bool {
	return s.handles.release(Handle{Client: client, Object: object})
}

// HandleLive reports whether a client's token object exists.
func (s *Service) HandleLive(handle Handle) bool {
	return s.handles.live(handle)
}

// Disconnect is the connection teardown hook. It drops the client's
// handles and its claim. Tokens the client requested stay redeemable
// until they expire: the launched application usually outlives the
// launcher that asked for its token.
func (s *Service) Disconnect(client ClientID) {
	released := s.handles.dropClient(client)
	s.tokens.forgetClient(client)

	sequence, claimed := s.pending.take(client)
	if claimed {
		s.retire(sequence)
	}

	s.logger.Debug("activation client disconnected",
		"client", client,
		"handles_released", released,
		"claim_retired", claimed,
	)
}

// Stats returns the current table sizes.
func (s *Service) Stats() Stats {
	return Stats{
		Tokens:    s.tokens.len(),
		Sequences: s.sequences.len(),
		Pending:   s.pending.len(),
		Handles:   s.handles.len(),
	}
}

// SequenceForToken returns the stored sequence created from token, if
// it is still in the sequence store.
func (s *Service) SequenceForToken(token Token) (*startup.Sequence, bool) {
	record, ok := s.sequences.lookup(SequenceID(token))
	if !ok {
		return nil, false
	}
	return record.sequence, true
}
