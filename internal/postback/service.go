package postback

import (
	"context"
	"time"

	"github.com/prizelink/prizelink-backend/pkg/db/models"
	pkgerrors "github.com/prizelink/prizelink-backend/pkg/errors"
	"github.com/prizelink/prizelink-backend/pkg/enums"
	"github.com/prizelink/prizelink-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// Outcome is the terminal classification of one postback delivery.
type Outcome string

const (
	OutcomeAccepted  Outcome = "accepted"
	OutcomeVerified  Outcome = "verified"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeUnmapped  Outcome = "unmapped_offer"
)

// Result reports how a delivery was reconciled.
type Result struct {
	Outcome      Outcome
	DedupKey     string
	Registration *models.Registration
}

type mappingResolver interface {
	Resolve(ctx context.Context, offerID string) (*models.OfferMapping, error)
}

type registrationStore interface {
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	FindByKey(ctx context.Context, key string) (*models.Registration, error)
	CreateIfAbsent(ctx context.Context, reg *models.Registration) (bool, error)
	MarkVerified(ctx context.Context, id string, payout *decimal.Decimal, now time.Time) (bool, error)
}

type auditTrail interface {
	Append(ctx context.Context, entry *models.PostbackError) error
}

type dedupGuard interface {
	CheckAndMark(ctx context.Context, dedupKey string) (bool, error)
	Release(ctx context.Context, dedupKey string) error
}

type ServiceParams struct {
	Mappings       mappingResolver
	Registrations  registrationStore
	Audit          auditTrail
	Guard          dedupGuard
	Logger         *logger.Logger
	FallbackBucket time.Duration
	NowFn          func() time.Time
}

// Service is the reconciliation engine: it turns normalized postback events
// into at-most-one registration write per dedup key, and verification events
// into idempotent updates of existing registrations.
type Service struct {
	mappings       mappingResolver
	registrations  registrationStore
	audit          auditTrail
	guard          dedupGuard
	log            *logger.Logger
	fallbackBucket time.Duration
	now            func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Mappings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mapping resolver required")
	}
	if params.Registrations == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "registration store required")
	}
	if params.Audit == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "audit trail required")
	}
	if params.Guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "dedup guard required")
	}
	svc := &Service{
		mappings:       params.Mappings,
		registrations:  params.Registrations,
		audit:          params.Audit,
		guard:          params.Guard,
		log:            params.Logger,
		fallbackBucket: params.FallbackBucket,
		now:            params.NowFn,
	}
	if svc.fallbackBucket <= 0 {
		svc.fallbackBucket = defaultFallbackBucket
	}
	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}
	return svc, nil
}

// HandleCompletion reconciles a completion-style event. Unmapped offers and
// duplicates both resolve successfully so the upstream network stops
// retrying; only store failures surface as retry-worthy errors.
func (s *Service) HandleCompletion(ctx context.Context, ev Event) (*Result, error) {
	if ev.Subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject is required")
	}
	ctx = s.withEventFields(ctx, ev)

	mapping, err := s.resolveMapping(ctx, ev)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return &Result{Outcome: OutcomeUnmapped}, nil
	}

	key := DedupKey(ev, s.now(), s.fallbackBucket)
	if s.log != nil {
		ctx = s.log.WithDedupKey(ctx, key)
	}

	claimed, err := s.guard.CheckAndMark(ctx, key)
	if err != nil {
		// Guard is advisory; the conditional insert below stays authoritative.
		s.warn(ctx, "dedup guard unavailable, falling through to store")
		claimed = false
	}
	if claimed {
		// The mark alone never settles a duplicate: only a stored record does.
		// A mark with no record means an earlier delivery claimed the key but
		// its write never landed, so this delivery proceeds to the insert.
		existing, err := s.registrations.FindByID(ctx, key)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing registration")
		}
		if existing != nil {
			return &Result{Outcome: OutcomeDuplicate, DedupKey: key, Registration: existing}, nil
		}
		s.warn(ctx, "dedup mark held without stored registration")
	}

	reg := s.buildRegistration(key, ev, mapping)
	created, err := s.registrations.CreateIfAbsent(ctx, reg)
	if err != nil {
		s.releaseGuard(ctx, key)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create registration")
	}
	if !created {
		return &Result{Outcome: OutcomeDuplicate, DedupKey: key}, nil
	}

	s.info(ctx, "registration accepted")
	return &Result{Outcome: OutcomeAccepted, DedupKey: key, Registration: reg}, nil
}

// HandleVerification marks an existing registration as verified. The target
// is addressed by stored id first, then by the subject key column; a miss
// under both is a terminal not-found for this event.
func (s *Service) HandleVerification(ctx context.Context, ev Event) (*Result, error) {
	if ev.Subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key is required")
	}
	ctx = s.withEventFields(ctx, ev)

	target, err := s.registrations.FindByID(ctx, ev.Subject)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up registration by id")
	}
	if target == nil {
		target, err = s.registrations.FindByKey(ctx, ev.Subject)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up registration by key")
		}
	}
	if target == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
	}

	updated, err := s.registrations.MarkVerified(ctx, target.ID, ev.Payout, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark registration verified")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
	}

	s.info(ctx, "registration verified")
	return &Result{Outcome: OutcomeVerified, DedupKey: target.ID}, nil
}

// resolveMapping returns nil when the offer cannot be mapped, after writing
// the audit entry. A failed audit write is logged but never blocks the
// success response.
func (s *Service) resolveMapping(ctx context.Context, ev Event) (*models.OfferMapping, error) {
	reason := enums.PostbackErrorMissingOffer
	if ev.OfferID != "" {
		mapping, err := s.mappings.Resolve(ctx, ev.OfferID)
		if err != nil {
			return nil, err
		}
		if mapping != nil {
			return mapping, nil
		}
		reason = enums.PostbackErrorMappingNotFound
	}

	entry := &models.PostbackError{
		Reason:    reason,
		OfferID:   ev.OfferID,
		Subject:   ev.Subject,
		RawParams: ev.Raw.JSON(),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.error(ctx, "append postback error audit entry", err)
	}
	s.warn(ctx, "postback offer not mapped")
	return nil, nil
}

func (s *Service) buildRegistration(key string, ev Event, mapping *models.OfferMapping) *models.Registration {
	now := s.now()
	prize := "unknown prize"
	if mapping.PrizeName != nil && *mapping.PrizeName != "" {
		prize = *mapping.PrizeName
	}
	reg := &models.Registration{
		ID:         key,
		Key:        &ev.Subject,
		Subject:    ev.Subject,
		OfferID:    ev.OfferID,
		PrizeID:    &mapping.PrizeID,
		Prize:      prize,
		Status:     enums.RegistrationStatusAccepted,
		Payout:     ev.Payout,
		RawParams:  ev.Raw.JSON(),
		ReceivedAt: now,
	}
	if ev.TxID != "" {
		reg.TxID = &ev.TxID
	}
	return reg
}

func (s *Service) releaseGuard(ctx context.Context, key string) {
	if err := s.guard.Release(ctx, key); err != nil {
		s.error(ctx, "release dedup guard", err)
	}
}

func (s *Service) withEventFields(ctx context.Context, ev Event) context.Context {
	if s.log == nil {
		return ctx
	}
	ctx = s.log.WithSubject(ctx, ev.Subject)
	if ev.OfferID != "" {
		ctx = s.log.WithOfferID(ctx, ev.OfferID)
	}
	return ctx
}

func (s *Service) info(ctx context.Context, msg string) {
	if s.log != nil {
		s.log.Info(ctx, msg)
	}
}

func (s *Service) warn(ctx context.Context, msg string) {
	if s.log != nil {
		s.log.Warn(ctx, msg)
	}
}

func (s *Service) error(ctx context.Context, msg string, err error) {
	if s.log != nil {
		s.log.Error(ctx, msg, err)
	}
}
