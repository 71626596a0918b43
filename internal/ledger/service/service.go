// Package service executes ledger commands against campaigns. Every command
// resolves to exactly one localized reply string; user mistakes never surface
// as errors to the transport.
package service

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/message"

	"github.com/louisbranch/partyledger/internal/ledger/domain"
	"github.com/louisbranch/partyledger/internal/ledger/i18n"
	"github.com/louisbranch/partyledger/internal/ledger/storage"
	"github.com/louisbranch/partyledger/internal/ledger/store"
)

// Request is a single command invocation scoped to a campaign and the
// identity issuing it.
type Request struct {
	// CampaignID identifies the channel-scoped campaign.
	CampaignID int64
	// ActorID identifies the caller; authorization derives from it.
	ActorID int64
	// Command is the raw command text, verb first.
	Command string
}

// Service dispatches ledger commands.
type Service struct {
	campaigns *store.Manager
	printer   *message.Printer
	tracer    trace.Tracer

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a command service backed by the given campaign manager.
func New(campaigns *store.Manager) *Service {
	return &Service{
		campaigns: campaigns,
		printer:   i18n.Printer(i18n.Default()),
		tracer:    otel.Tracer("partyledger/ledger/service"),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Execute runs a command and returns the reply for the caller. It never
// returns an error: parse and authorization failures map to user-facing
// messages, and anything unexpected maps to a generic internal-error reply.
func (s *Service) Execute(ctx context.Context, req Request) (reply string) {
	verb, operands, _ := strings.Cut(strings.TrimSpace(req.Command), " ")
	verb = strings.ToLower(verb)

	ctx, span := s.tracer.Start(ctx, "ledger.Execute", trace.WithAttributes(
		attribute.Int64("ledger.campaign_id", req.CampaignID),
		attribute.String("ledger.verb", verb),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic handling %q: %v", verb, r)
			reply = s.printer.Sprintf(i18n.KeyInternalError)
		}
	}()

	var err error
	switch verb {
	case "initialize":
		reply, err = s.initialize(ctx, req)
	case "register":
		reply, err = s.register(ctx, req, operands)
	case "reregister":
		reply, err = s.reregister(ctx, req, operands)
	case "addgm":
		reply, err = s.addGM(ctx, req, operands)
	case "transact":
		reply, err = s.transact(ctx, req, operands)
	case "convert":
		reply, err = s.convert(ctx, req, operands)
	case "pending":
		reply, err = s.pending(ctx, req)
	case "approve":
		reply, err = s.approve(ctx, req, operands)
	case "deny":
		reply, err = s.deny(ctx, req, operands)
	case "balance":
		reply, err = s.balance(ctx, req, operands)
	case "roll":
		reply = s.roll(operands)
	case "delete":
		reply, err = s.deleteCampaign(ctx, req, operands)
	default:
		reply = s.printer.Sprintf(i18n.KeyUnknownVerb, verb)
	}
	if err != nil {
		log.Printf("execute %q for campaign %d: %v", verb, req.CampaignID, err)
		return s.printer.Sprintf(i18n.KeyInternalError)
	}
	log.Printf("handled %q for campaign %d actor %d", verb, req.CampaignID, req.ActorID)
	return reply
}

// update runs fn under the campaign's lock and persists the result. A
// missing campaign maps to the no-campaign reply.
func (s *Service) update(ctx context.Context, id int64, fn func(*domain.Campaign) (string, error)) (string, error) {
	var reply string
	err := s.campaigns.Update(ctx, id, func(campaign *domain.Campaign) error {
		var err error
		reply, err = fn(campaign)
		return err
	})
	if errors.Is(err, storage.ErrNotFound) {
		return s.printer.Sprintf(i18n.KeyNoCampaign), nil
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}

// view is the read-only counterpart of update.
func (s *Service) view(ctx context.Context, id int64, fn func(*domain.Campaign) (string, error)) (string, error) {
	var reply string
	err := s.campaigns.View(ctx, id, func(campaign *domain.Campaign) error {
		var err error
		reply, err = fn(campaign)
		return err
	})
	if errors.Is(err, storage.ErrNotFound) {
		return s.printer.Sprintf(i18n.KeyNoCampaign), nil
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}
