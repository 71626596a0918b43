package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/louisbranch/partyledger/internal/dice"
	"github.com/louisbranch/partyledger/internal/ledger/command"
	"github.com/louisbranch/partyledger/internal/ledger/currency"
	"github.com/louisbranch/partyledger/internal/ledger/domain"
	"github.com/louisbranch/partyledger/internal/ledger/i18n"
	"github.com/louisbranch/partyledger/internal/ledger/store"
)

// conversionReason labels the archived transaction a convert command leaves
// behind.
const conversionReason = "conversion"

func (s *Service) initialize(ctx context.Context, req Request) (string, error) {
	campaign, err := domain.NewCampaign(req.CampaignID, req.ActorID)
	if err != nil {
		return "", err
	}
	err = s.campaigns.Create(ctx, campaign)
	if errors.Is(err, store.ErrCampaignExists) {
		return s.printer.Sprintf(i18n.KeyCampaignExists), nil
	}
	if err != nil {
		return "", err
	}
	return s.printer.Sprintf(i18n.KeyCampaignInitialized), nil
}

func (s *Service) register(ctx context.Context, req Request, operands string) (string, error) {
	reg, err := command.ParseRegistration(operands)
	if err != nil {
		return s.syntaxReply(err)
	}
	return s.update(ctx, req.CampaignID, func(campaign *domain.Campaign) (string, error) {
		ownerID := req.ActorID
		if reg.OverrideID != 0 {
			if !campaign.IsGM(req.ActorID) {
				return s.printer.Sprintf(i18n.KeyNotAuthorized, "register"), store.ErrUnchanged
			}
			ownerID = reg.OverrideID
		}
		switch err := campaign.Register(ownerID, reg.Name); {
		case errors.Is(err, domain.ErrOwnerRegistered):
			return s.printer.Sprintf(i18n.KeyAlreadyRegistered, campaign.Owners[ownerID]), store.ErrUnchanged
		case errors.Is(err, domain.ErrNameTaken):
			return s.printer.Sprintf(i18n.KeyNameTaken), store.ErrUnchanged
		case errors.Is(err, domain.ErrReservedName):
			return s.printer.Sprintf(i18n.KeyNameReserved), store.ErrUnchanged
		case err != nil:
			return "", err
		}
		return s.printer.Sprintf(i18n.KeyRegistered, reg.Name), nil
	})
}

func (s *Service) reregister(ctx context.Context, req Request, operands string) (string, error) {
	reg, err := command.ParseRegistration(operands)
	if err != nil {
		return s.syntaxReply(err)
	}
	return s.update(ctx, req.CampaignID, func(campaign *domain.Campaign) (string, error) {
		ownerID := req.ActorID
		if reg.OverrideID != 0 {
			if !campaign.IsGM(req.ActorID) {
				return s.printer.Sprintf(i18n.KeyNotAuthorized, "reregister"), store.ErrUnchanged
			}
			ownerID = reg.OverrideID
		}
		switch err := campaign.Reregister(ownerID, reg.Name); {
		case errors.Is(err, domain.ErrNotRegistered):
			return s.printer.Sprintf(i18n.KeyNotRegistered), store.ErrUnchanged
		case errors.Is(err, domain.ErrNameTaken):
			return s.printer.Sprintf(i18n.KeyNameTaken), store.ErrUnchanged
		case errors.Is(err, domain.ErrReservedName):
			return s.printer.Sprintf(i18n.KeyNameReserved), store.ErrUnchanged
		case err != nil:
			return "", err
		}
		return s.printer.Sprintf(i18n.KeyReregistered, reg.Name), nil
	})
}

// addGM grants GM authority to another identity. Only a current GM may
// grant it.
func (s *Service) addGM(ctx context.Context, req Request, operands string) (string, error) {
	ownerID, err := strconv.ParseInt(strings.TrimSpace(operands), 10, 64)
	if err != nil || ownerID <= 0 {
		return s.printer.Sprintf(i18n.KeySyntaxError), nil
	}
	return s.update(ctx, req.CampaignID, func(campaign *domain.Campaign) (string, error) {
		if !campaign.IsGM(req.ActorID) {
			return s.printer.Sprintf(i18n.KeyNotAuthorized, "addgm"), store.ErrUnchanged
		}
		if campaign.IsGM(ownerID) {
			return s.printer.Sprintf(i18n.KeyAlreadyGM), store.ErrUnchanged
		}
		campaign.AddGM(ownerID)
		return s.printer.Sprintf(i18n.KeyGMAdded), nil
	})
}

func (s *Service) transact(ctx context.Context, req Request, operands string) (string, error) {
	inst, err := command.ParseTransact(operands)
	if err != nil {
		return s.syntaxReply(err)
	}
	amounts := inst.Amounts
	if inst.HasOffset {
		amounts = currency.ApplyOffset(amounts, inst.OffsetPct)
	}
	return s.update(ctx, req.CampaignID, func(campaign *domain.Campaign) (string, error) {
		initiator, reply, err := s.initiatorAccount(campaign, req.ActorID, inst.InitiatorName)
		if reply != "" || err != nil {
			return reply, err
		}
		var participant *domain.Account
		if inst.ParticipantName != "" {
			participant, err = campaign.AccountByName(inst.ParticipantName)
			if errors.Is(err, domain.ErrUnknownAccount) {
				return s.printer.Sprintf(i18n.KeyUnknownPlayer, inst.ParticipantName), store.ErrUnchanged
			}
			if err != nil {
				return "", err
			}
		}
		tx, err := domain.NewTransaction(initiator, inst.Mode, amounts, participant, inst.Reason)
		if err != nil {
			return "", err
		}
		campaign.Propose(tx)
		return s.printer.Sprintf(i18n.KeyTransactionRecorded), nil
	})
}

// convert applies immediately: the netted delta is booked as a completed
// take against the world and archived without passing the pending queue.
func (s *Service) convert(ctx context.Context, req Request, operands string) (string, error) {
	conv, err := command.ParseConversion(operands)
	var notIntegral *currency.NotIntegralError
	if errors.As(err, &notIntegral) {
		return s.printer.Sprintf(i18n.KeyCannotConvert,
			notIntegral.N, notIntegral.From.Symbol(), notIntegral.To.Symbol()), nil
	}
	if err != nil {
		return s.syntaxReply(err)
	}
	return s.update(ctx, req.CampaignID, func(campaign *domain.Campaign) (string, error) {
		initiator, reply, err := s.initiatorAccount(campaign, req.ActorID, conv.InitiatorName)
		if reply != "" || err != nil {
			return reply, err
		}
		tx, err := domain.NewTransaction(initiator, domain.ModeTake, conv.Delta, nil, conversionReason)
		if err != nil {
			return "", err
		}
		if err := tx.Complete(); err != nil {
			return "", err
		}
		campaign.Archive = append(campaign.Archive, tx)
		return s.printer.Sprintf(i18n.KeyConverted), nil
	})
}

func (s *Service) pending(ctx context.Context, req Request) (string, error) {
	return s.view(ctx, req.CampaignID, func(campaign *domain.Campaign) (string, error) {
		visible := campaign.VisiblePending(req.ActorID)
		if len(visible) == 0 {
			return s.printer.Sprintf(i18n.KeyNoPending), nil
		}
		lines := make([]string, len(visible))
		for i, tx := range visible {
			description, err := tx.Describe()
			if err != nil {
				return "", err
			}
			lines[i] = fmt.Sprintf("%d: %s", i+1, description)
		}
		return s.printer.Sprintf(i18n.KeyPendingHeader, strings.Join(lines, "\n")), nil
	})
}

func (s *Service) approve(ctx context.Context, req Request, operands string) (string, error) {
	return s.applySelection(ctx, req, operands, i18n.KeyApproved,
		func(campaign *domain.Campaign, indices []int) error {
			return campaign.Approve(indices)
		})
}

func (s *Service) deny(ctx context.Context, req Request, operands string) (string, error) {
	return s.applySelection(ctx, req, operands, i18n.KeyDenied,
		func(campaign *domain.Campaign, indices []int) error {
			campaign.Deny(indices)
			return nil
		})
}

// applySelection resolves the selection inside the campaign lock so the
// visible queue cannot shift between resolution and application.
func (s *Service) applySelection(ctx context.Context, req Request, expression, successKey string, apply func(*domain.Campaign, []int) error) (string, error) {
	return s.update(ctx, req.CampaignID, func(campaign *domain.Campaign) (string, error) {
		indices, err := command.ResolveSelection(expression, campaign, req.ActorID)
		var rangeErr *command.RangeError
		switch {
		case errors.As(err, &rangeErr):
			return s.printer.Sprintf(i18n.KeyInvalidID, rangeErr.Literal), store.ErrUnchanged
		case errors.Is(err, command.ErrBoundOrder):
			return s.printer.Sprintf(i18n.KeyBoundOrder), store.ErrUnchanged
		case errors.Is(err, command.ErrSyntax):
			return s.printer.Sprintf(i18n.KeySyntaxError), store.ErrUnchanged
		case err != nil:
			return "", err
		}
		if len(indices) == 0 {
			return s.printer.Sprintf(i18n.KeyNothingSelected), store.ErrUnchanged
		}
		if err := apply(campaign, indices); err != nil {
			return "", err
		}
		return s.printer.Sprintf(successKey), nil
	})
}

func (s *Service) balance(ctx context.Context, req Request, operands string) (string, error) {
	operands = strings.TrimSpace(operands)
	var name string
	if operands != "" {
		rest, ok := strings.CutPrefix(operands, "of ")
		name = strings.TrimSpace(rest)
		if !ok || name == "" {
			return s.printer.Sprintf(i18n.KeySyntaxError), nil
		}
	}
	return s.view(ctx, req.CampaignID, func(campaign *domain.Campaign) (string, error) {
		if name != "" && !campaign.IsGM(req.ActorID) {
			return s.printer.Sprintf(i18n.KeyNotAuthorized, "balance"), nil
		}
		if name == "all" {
			return s.allBalances(campaign), nil
		}

		var account *domain.Account
		var err error
		if name == "" {
			account, err = campaign.AccountByOwner(req.ActorID)
			if errors.Is(err, domain.ErrNotRegistered) {
				return s.printer.Sprintf(i18n.KeyNotRegistered), nil
			}
		} else {
			account, err = campaign.AccountByName(name)
			if errors.Is(err, domain.ErrUnknownAccount) {
				return s.printer.Sprintf(i18n.KeyUnknownPlayer, name), nil
			}
		}
		if err != nil {
			return "", err
		}
		return s.printer.Sprintf(i18n.KeyBalanceHeader, account.Name, account.DescribeBalance()), nil
	})
}

func (s *Service) allBalances(campaign *domain.Campaign) string {
	if len(campaign.Accounts) == 0 {
		return s.printer.Sprintf(i18n.KeyNoAccounts)
	}
	names := make([]string, 0, len(campaign.Accounts))
	for name := range campaign.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%s: %s", name, campaign.Accounts[name].DescribeBalance())
	}
	return s.printer.Sprintf(i18n.KeyBalanceAllHeader, strings.Join(lines, "\n"))
}

// Roll parses and rolls dice notation with the service's random source.
func (s *Service) Roll(notation string) (dice.Pool, dice.Result, error) {
	pool, err := dice.ParseNotation(notation)
	if err != nil {
		return dice.Pool{}, dice.Result{}, err
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	result, err := dice.Roll(s.rng, pool)
	return pool, result, err
}

func (s *Service) roll(operands string) string {
	notation := strings.TrimSpace(operands)
	pool, result, err := s.Roll(notation)
	if errors.Is(err, dice.ErrPoolTooLarge) {
		return s.printer.Sprintf(i18n.KeyRollPoolTooLarge)
	}
	if err != nil {
		return s.printer.Sprintf(i18n.KeyRollInvalid, notation)
	}

	rolls := make([]string, len(result.Rolls))
	for i, roll := range result.Rolls {
		rolls[i] = strconv.Itoa(roll)
	}
	return s.printer.Sprintf(i18n.KeyRollResult,
		notation, result.Total, strings.Join(rolls, ", "), pool.Offset)
}

// deleteCampaign is a two-step confirmation: a bare delete replies with the
// confirmation prompt, and only delete <campaign id> wipes the campaign.
func (s *Service) deleteCampaign(ctx context.Context, req Request, operands string) (string, error) {
	operands = strings.TrimSpace(operands)
	var confirmed int64
	if operands != "" {
		id, err := strconv.ParseInt(operands, 10, 64)
		if err != nil {
			return s.printer.Sprintf(i18n.KeySyntaxError), nil
		}
		confirmed = id
	}

	var wipe bool
	reply, err := s.view(ctx, req.CampaignID, func(campaign *domain.Campaign) (string, error) {
		if !campaign.IsGM(req.ActorID) {
			return s.printer.Sprintf(i18n.KeyNotAuthorized, "delete"), nil
		}
		switch confirmed {
		case 0:
			return s.printer.Sprintf(i18n.KeyDeleteConfirm, campaign.ID), nil
		case campaign.ID:
			wipe = true
			return "", nil
		default:
			return s.printer.Sprintf(i18n.KeyDeleteWrongID, campaign.ID), nil
		}
	})
	if err != nil || !wipe {
		return reply, err
	}
	if err := s.campaigns.Delete(ctx, req.CampaignID); err != nil {
		return "", err
	}
	return s.printer.Sprintf(i18n.KeyCampaignDeleted), nil
}

// initiatorAccount resolves the acting account: the caller's own account, or
// with an `as` override the named account, which requires GM authority. A
// non-empty reply means the lookup failed in a user-visible way; it carries
// store.ErrUnchanged so the enclosing update skips the save.
func (s *Service) initiatorAccount(campaign *domain.Campaign, actorID int64, override string) (*domain.Account, string, error) {
	if override == "" {
		account, err := campaign.AccountByOwner(actorID)
		if errors.Is(err, domain.ErrNotRegistered) {
			return nil, s.printer.Sprintf(i18n.KeyNotRegistered), store.ErrUnchanged
		}
		if err != nil {
			return nil, "", err
		}
		return account, "", nil
	}

	if !campaign.IsGM(actorID) {
		return nil, s.printer.Sprintf(i18n.KeyNotAuthorized, "as"), store.ErrUnchanged
	}
	account, err := campaign.AccountByName(override)
	if errors.Is(err, domain.ErrUnknownAccount) {
		return nil, s.printer.Sprintf(i18n.KeyUnknownPlayer, override), store.ErrUnchanged
	}
	if err != nil {
		return nil, "", err
	}
	return account, "", nil
}

func (s *Service) syntaxReply(err error) (string, error) {
	if errors.Is(err, command.ErrSyntax) {
		return s.printer.Sprintf(i18n.KeySyntaxError), nil
	}
	return "", err
}
