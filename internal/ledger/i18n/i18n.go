// Package i18n holds the user-facing response catalog for ledger commands.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys for command responses. Every command resolves to exactly one
// of these per reply.
const (
	KeyCampaignInitialized = "ledger.campaign_initialized"
	KeyCampaignExists      = "ledger.campaign_exists"
	KeyNoCampaign          = "ledger.no_campaign"
	KeyCampaignDeleted     = "ledger.campaign_deleted"
	KeyDeleteConfirm       = "ledger.delete_confirm"
	KeyDeleteWrongID       = "ledger.delete_wrong_id"

	KeyRegistered        = "ledger.registered"
	KeyReregistered      = "ledger.reregistered"
	KeyAlreadyRegistered = "ledger.already_registered"
	KeyNotRegistered     = "ledger.not_registered"
	KeyNameTaken         = "ledger.name_taken"
	KeyNameReserved      = "ledger.name_reserved"
	KeyUnknownPlayer     = "ledger.unknown_player"

	KeyTransactionRecorded = "ledger.transaction_recorded"
	KeyConverted           = "ledger.converted"
	KeyCannotConvert       = "ledger.cannot_convert"

	KeyNoPending       = "ledger.no_pending"
	KeyPendingHeader   = "ledger.pending_header"
	KeyApproved        = "ledger.approved"
	KeyDenied          = "ledger.denied"
	KeyNothingSelected = "ledger.nothing_selected"
	KeyInvalidID       = "ledger.invalid_id"
	KeyBoundOrder      = "ledger.bound_order"

	KeyBalanceHeader    = "ledger.balance_header"
	KeyBalanceAllHeader = "ledger.balance_all_header"
	KeyNoAccounts       = "ledger.no_accounts"

	KeyGMAdded   = "ledger.gm_added"
	KeyAlreadyGM = "ledger.already_gm"

	KeyNotAuthorized = "ledger.not_authorized"
	KeySyntaxError   = "ledger.syntax_error"
	KeyUnknownVerb   = "ledger.unknown_verb"
	KeyInternalError = "ledger.internal_error"

	KeyRollResult       = "ledger.roll_result"
	KeyRollInvalid      = "ledger.roll_invalid"
	KeyRollPoolTooLarge = "ledger.roll_pool_too_large"
)

// Default returns the default language tag.
func Default() language.Tag {
	return language.English
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}
