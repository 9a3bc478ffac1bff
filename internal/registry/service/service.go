// Package service implements the identity registry state machine.
//
// Every mutating operation runs under one mutex: validations are evaluated
// against the state as of the start of the operation, and either the whole
// mutation applies or nothing does. The logical clock ticks once per
// successful mutation; rejected operations leave both the state and the clock
// untouched.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"selfid/internal/audit"
	"selfid/internal/registry/clock"
	registrymetrics "selfid/internal/registry/metrics"
	"selfid/internal/registry/models"
	"selfid/internal/registry/store"
	id "selfid/pkg/domain"
	dErrors "selfid/pkg/domain-errors"
	"selfid/pkg/platform/sentinel"
	"selfid/pkg/requestcontext"
)

//go:generate mockgen -destination=mocks/store.go -package=mocks selfid/internal/registry/store Store
//go:generate mockgen -destination=mocks/publisher.go -package=mocks selfid/internal/audit Publisher

// Store is the persistence dependency of the registry.
type Store = store.Store

// Service is the identity registry. All mutation of registry state anywhere
// in the system goes through its methods.
type Service struct {
	mu      sync.Mutex // serialization boundary: one mutating operation at a time
	store   Store
	clock   clock.Clock
	logger  *slog.Logger
	metrics *registrymetrics.Metrics
	audit   audit.Publisher
	tracer  trace.Tracer
}

// Option configures optional service dependencies.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *registrymetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

// New constructs the registry service. The store and clock are required.
func New(st Store, clk clock.Clock, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, errors.New("registry store is required")
	}
	if clk == nil {
		return nil, errors.New("registry clock is required")
	}
	svc := &Service{
		store:  st,
		clock:  clk,
		logger: slog.Default(),
		tracer: otel.Tracer("selfid/registry"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// RegisterIdentity binds caller to a self-asserted DID. The caller must not
// already own an identity and the DID must be unclaimed.
func (s *Service) RegisterIdentity(ctx context.Context, caller id.Principal, rawDID string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "registry.RegisterIdentity",
		trace.WithAttributes(attribute.String("registry.caller", caller.String())))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnpaused(ctx); err != nil {
		return false, s.reject(ctx, "register_identity", err)
	}
	did, err := id.ParseDID(rawDID)
	if err != nil {
		return false, s.reject(ctx, "register_identity", err)
	}
	if _, err := s.store.GetIdentity(ctx, caller); err == nil {
		return false, s.reject(ctx, "register_identity",
			dErrors.New(dErrors.CodeAlreadyRegistered, "caller already owns an identity"))
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return false, s.internal(ctx, "register_identity", err)
	}
	if _, err := s.store.OwnerOfDID(ctx, did); err == nil {
		return false, s.reject(ctx, "register_identity",
			dErrors.New(dErrors.CodeAlreadyRegistered, "did already claimed"))
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return false, s.internal(ctx, "register_identity", err)
	}

	seq := s.clock.Next()
	ident := models.NewIdentity(caller, did, seq)
	if err := s.store.CreateIdentity(ctx, ident); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return false, s.reject(ctx, "register_identity",
				dErrors.New(dErrors.CodeAlreadyRegistered, "identity or did already registered"))
		}
		return false, s.internal(ctx, "register_identity", err)
	}

	s.logger.InfoContext(ctx, "identity registered",
		"caller", caller.String(),
		"sequence", seq,
	)
	if s.metrics != nil {
		s.metrics.IncrementRegistrations()
		if cfg, err := s.store.Config(ctx); err == nil {
			s.metrics.SetIdentitiesTotal(cfg.TotalIdentities)
		}
	}
	s.emit(ctx, audit.Event{
		Action:   audit.ActionIdentityRegistered,
		Actor:    caller,
		DID:      did.String(),
		Sequence: seq,
	})
	return true, nil
}

// UpdateDID replaces the caller's DID with a new, unclaimed one. The old DID
// is released in the same step; createdAt is untouched.
func (s *Service) UpdateDID(ctx context.Context, caller id.Principal, rawDID string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "registry.UpdateDID",
		trace.WithAttributes(attribute.String("registry.caller", caller.String())))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnpaused(ctx); err != nil {
		return false, s.reject(ctx, "update_did", err)
	}
	ident, err := s.requireIdentity(ctx, caller)
	if err != nil {
		return false, s.reject(ctx, "update_did", err)
	}
	newDID, err := id.ParseDID(rawDID)
	if err != nil {
		return false, s.reject(ctx, "update_did", err)
	}
	if err := ident.CanReplaceDID(newDID); err != nil {
		return false, s.reject(ctx, "update_did", err)
	}
	if _, err := s.store.OwnerOfDID(ctx, newDID); err == nil {
		return false, s.reject(ctx, "update_did",
			dErrors.New(dErrors.CodeAlreadyRegistered, "did already claimed"))
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return false, s.internal(ctx, "update_did", err)
	}

	seq := s.clock.Next()
	ident.ApplyDIDReplacement(newDID, seq)
	if err := s.store.UpdateDID(ctx, ident); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return false, s.reject(ctx, "update_did",
				dErrors.New(dErrors.CodeAlreadyRegistered, "did already claimed"))
		}
		return false, s.internal(ctx, "update_did", err)
	}

	s.logger.InfoContext(ctx, "did updated",
		"caller", caller.String(),
		"sequence", seq,
	)
	if s.metrics != nil {
		s.metrics.IncrementDIDUpdates()
	}
	s.emit(ctx, audit.Event{
		Action:   audit.ActionDIDUpdated,
		Actor:    caller,
		DID:      newDID.String(),
		Sequence: seq,
	})
	return true, nil
}

// LinkCredential appends an opaque credential reference to the caller's
// identity, preserving insertion order.
func (s *Service) LinkCredential(ctx context.Context, caller id.Principal, rawCred string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "registry.LinkCredential",
		trace.WithAttributes(attribute.String("registry.caller", caller.String())))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnpaused(ctx); err != nil {
		return false, s.reject(ctx, "link_credential", err)
	}
	ident, err := s.requireIdentity(ctx, caller)
	if err != nil {
		return false, s.reject(ctx, "link_credential", err)
	}
	cred, err := id.ParseCredentialID(rawCred)
	if err != nil {
		return false, s.reject(ctx, "link_credential", err)
	}
	if err := ident.CanLinkCredential(cred); err != nil {
		return false, s.reject(ctx, "link_credential", err)
	}

	seq := s.clock.Next()
	ident.ApplyCredentialLink(cred, seq)
	if err := s.store.UpdateCredentials(ctx, ident); err != nil {
		return false, s.internal(ctx, "link_credential", err)
	}

	s.logger.InfoContext(ctx, "credential linked",
		"caller", caller.String(),
		"credentials", len(ident.Credentials),
		"sequence", seq,
	)
	if s.metrics != nil {
		s.metrics.IncrementCredentialLinks()
	}
	s.emit(ctx, audit.Event{
		Action:     audit.ActionCredentialLinked,
		Actor:      caller,
		Credential: cred.String(),
		Sequence:   seq,
	})
	return true, nil
}

// UnlinkCredential removes a previously linked credential reference,
// preserving the relative order of the remaining entries.
func (s *Service) UnlinkCredential(ctx context.Context, caller id.Principal, rawCred string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "registry.UnlinkCredential",
		trace.WithAttributes(attribute.String("registry.caller", caller.String())))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUnpaused(ctx); err != nil {
		return false, s.reject(ctx, "unlink_credential", err)
	}
	ident, err := s.requireIdentity(ctx, caller)
	if err != nil {
		return false, s.reject(ctx, "unlink_credential", err)
	}

	cred := id.CredentialID(rawCred)
	if err := ident.CanUnlinkCredential(cred); err != nil {
		return false, s.reject(ctx, "unlink_credential", err)
	}

	seq := s.clock.Next()
	ident.ApplyCredentialUnlink(cred, seq)
	if err := s.store.UpdateCredentials(ctx, ident); err != nil {
		return false, s.internal(ctx, "unlink_credential", err)
	}

	s.logger.InfoContext(ctx, "credential unlinked",
		"caller", caller.String(),
		"credentials", len(ident.Credentials),
		"sequence", seq,
	)
	if s.metrics != nil {
		s.metrics.IncrementCredentialUnlinks()
	}
	s.emit(ctx, audit.Event{
		Action:     audit.ActionCredentialUnlinked,
		Actor:      caller,
		Credential: rawCred,
		Sequence:   seq,
	})
	return true, nil
}

// SetPaused flips the pause gate. Admin only; works while paused.
func (s *Service) SetPaused(ctx context.Context, caller id.Principal, pause bool) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "registry.SetPaused")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(ctx, caller); err != nil {
		return false, s.reject(ctx, "set_paused", err)
	}
	if err := s.store.SetPaused(ctx, pause); err != nil {
		return false, s.internal(ctx, "set_paused", err)
	}

	s.logger.InfoContext(ctx, "pause gate changed",
		"caller", caller.String(),
		"paused", pause,
	)
	if s.metrics != nil {
		s.metrics.SetPaused(pause)
	}
	action := audit.ActionRegistryResumed
	if pause {
		action = audit.ActionRegistryPaused
	}
	s.emit(ctx, audit.Event{Action: action, Actor: caller})
	return pause, nil
}

// TransferAdmin reassigns the admin principal. Admin only; the null identity
// is never a valid admin.
func (s *Service) TransferAdmin(ctx context.Context, caller, newAdmin id.Principal) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "registry.TransferAdmin")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(ctx, caller); err != nil {
		return false, s.reject(ctx, "transfer_admin", err)
	}
	if newAdmin.IsZero() {
		return false, s.reject(ctx, "transfer_admin",
			dErrors.New(dErrors.CodeZeroAddress, "new admin must not be the null identity"))
	}
	if err := s.store.SetAdmin(ctx, newAdmin); err != nil {
		return false, s.internal(ctx, "transfer_admin", err)
	}

	s.logger.InfoContext(ctx, "admin transferred",
		"caller", caller.String(),
		"new_admin", newAdmin.String(),
	)
	s.emit(ctx, audit.Event{Action: audit.ActionAdminTransferred, Actor: caller})
	return true, nil
}

// GetIdentity returns the identity owned by user, or nil if unregistered.
// Absence is not an error; collaborators treat nil as "not registered".
func (s *Service) GetIdentity(ctx context.Context, user id.Principal) (*models.Identity, error) {
	ident, err := s.store.GetIdentity(ctx, user)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity")
	}
	return ident, nil
}

// GetUserByDID resolves a DID to its owner, or the zero principal if the DID
// is unclaimed.
func (s *Service) GetUserByDID(ctx context.Context, did string) (id.Principal, error) {
	owner, err := s.store.OwnerOfDID(ctx, id.DID(did))
	if errors.Is(err, sentinel.ErrNotFound) {
		return id.ZeroPrincipal, nil
	}
	if err != nil {
		return id.ZeroPrincipal, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve did")
	}
	return owner, nil
}

// IsRegistered reports whether user owns an identity.
func (s *Service) IsRegistered(ctx context.Context, user id.Principal) (bool, error) {
	ident, err := s.GetIdentity(ctx, user)
	if err != nil {
		return false, err
	}
	return ident != nil, nil
}

// GetTotalIdentities returns the monotonic registration counter.
func (s *Service) GetTotalIdentities(ctx context.Context) (uint64, error) {
	cfg, err := s.config(ctx)
	if err != nil {
		return 0, err
	}
	return cfg.TotalIdentities, nil
}

// GetAdmin returns the current admin principal.
func (s *Service) GetAdmin(ctx context.Context) (id.Principal, error) {
	cfg, err := s.config(ctx)
	if err != nil {
		return id.ZeroPrincipal, err
	}
	return cfg.Admin, nil
}

// IsPaused reports the pause gate.
func (s *Service) IsPaused(ctx context.Context) (bool, error) {
	cfg, err := s.config(ctx)
	if err != nil {
		return false, err
	}
	return cfg.Paused, nil
}

// Status returns the full scalar configuration in one read.
func (s *Service) Status(ctx context.Context) (models.Config, error) {
	return s.config(ctx)
}

func (s *Service) config(ctx context.Context) (models.Config, error) {
	cfg, err := s.store.Config(ctx)
	if err != nil {
		return models.Config{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registry config")
	}
	return cfg, nil
}

func (s *Service) requireUnpaused(ctx context.Context) error {
	cfg, err := s.store.Config(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registry config")
	}
	if cfg.Paused {
		return dErrors.New(dErrors.CodePaused, "registry is paused")
	}
	return nil
}

func (s *Service) requireAdmin(ctx context.Context, caller id.Principal) error {
	cfg, err := s.store.Config(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registry config")
	}
	if caller.IsZero() || caller != cfg.Admin {
		return dErrors.New(dErrors.CodeNotAuthorized, "caller is not the registry admin")
	}
	return nil
}

func (s *Service) requireIdentity(ctx context.Context, caller id.Principal) (*models.Identity, error) {
	ident, err := s.store.GetIdentity(ctx, caller)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotRegistered, "caller has no identity")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity")
	}
	return ident, nil
}

// reject records a validation failure. Nothing was mutated.
func (s *Service) reject(ctx context.Context, operation string, err error) error {
	code := dErrors.CodeOf(err)
	s.logger.WarnContext(ctx, "registry operation rejected",
		"operation", operation,
		"code", string(code),
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementFailures(operation, string(code))
	}
	return err
}

// internal records an infrastructure failure and hides its detail.
func (s *Service) internal(ctx context.Context, operation string, err error) error {
	s.logger.ErrorContext(ctx, "registry operation failed",
		"operation", operation,
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementFailures(operation, string(dErrors.CodeInternal))
	}
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "registry store failure")
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"action", string(event.Action),
			"error", err.Error(),
		)
	}
}
