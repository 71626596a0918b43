package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, KeyCampaignInitialized, "New campaign initialized. Register players with `register`.")
	message.SetString(lang, KeyCampaignExists, "Campaign already exists in this channel.")
	message.SetString(lang, KeyNoCampaign, "No campaign exists in this channel.")
	message.SetString(lang, KeyCampaignDeleted, "Campaign has been deleted.")
	message.SetString(lang, KeyDeleteConfirm,
		"Warning: campaign deletion is permanent and irreversible. "+
			"All players, balances and transactions will be wiped.\n\n"+
			"If you are sure you want to do this, retype this command as `delete %d`.")
	message.SetString(lang, KeyDeleteWrongID, "Use your channel id `%d`.")

	message.SetString(lang, KeyRegistered, "Successfully registered %s.")
	message.SetString(lang, KeyReregistered, "Successfully reregistered as %s.")
	message.SetString(lang, KeyAlreadyRegistered, "You are already registered as %s.")
	message.SetString(lang, KeyNotRegistered, "You are not registered in this campaign.")
	message.SetString(lang, KeyNameTaken, "That name is already taken.")
	message.SetString(lang, KeyNameReserved, "That name is a reserved keyword.")
	message.SetString(lang, KeyUnknownPlayer, "No player with name %q exists in this campaign.")

	message.SetString(lang, KeyTransactionRecorded, "Transaction recorded; waiting for approval.")
	message.SetString(lang, KeyConverted, "Successfully converted currency.")
	message.SetString(lang, KeyCannotConvert, "Cannot convert %d %s to %s.")

	message.SetString(lang, KeyNoPending, "You have no pending transactions.")
	message.SetString(lang, KeyPendingHeader, "Pending transactions:\n%s")
	message.SetString(lang, KeyApproved, "Transaction(s) successfully approved.")
	message.SetString(lang, KeyDenied, "Transaction(s) denied.")
	message.SetString(lang, KeyNothingSelected, "Invalid indices or no pending transactions.")
	message.SetString(lang, KeyInvalidID, "%q is an invalid ID.")
	message.SetString(lang, KeyBoundOrder, "Start ID must be lower than end ID.")

	message.SetString(lang, KeyBalanceHeader, "Account balance for %s:\n%s")
	message.SetString(lang, KeyBalanceAllHeader, "Account balances:\n%s")
	message.SetString(lang, KeyNoAccounts, "No players are registered in this campaign.")

	message.SetString(lang, KeyGMAdded, "GM added successfully.")
	message.SetString(lang, KeyAlreadyGM, "That player is already a GM.")

	message.SetString(lang, KeyNotAuthorized, "You are not authorized to use %q.")
	message.SetString(lang, KeySyntaxError, "Invalid syntax. Use `help [command]` to view usage.")
	message.SetString(lang, KeyUnknownVerb, "Unknown command %q. Use `help` to list commands.")
	message.SetString(lang, KeyInternalError, "Error processing command. Use `help` to view usage.")

	message.SetString(lang, KeyRollResult, "Rolled %s: **%d**\n(%s) + %d")
	message.SetString(lang, KeyRollInvalid, "%q is not a valid roll.")
	message.SetString(lang, KeyRollPoolTooLarge, "The number of rolls or sides is too large.")
}
