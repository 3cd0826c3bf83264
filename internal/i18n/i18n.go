// Package i18n holds the display strings shown to members and staff, keyed
// by a stable identifier. Domain types never carry translated text.
package i18n

import "strings"

type Language string

const (
	Greek   Language = "gr"
	English Language = "en"
)

// ParseLanguage falls back to Greek, the venue's default.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en", "en-us", "en-gb", "english":
		return English
	default:
		return Greek
	}
}

type Key string

const (
	KeyNotFound            Key = "not_found"
	KeyConflict            Key = "conflict"
	KeyInsufficientCredits Key = "insufficient_credits"
	KeySessionFull         Key = "session_full"
	KeyUnauthorized        Key = "unauthorized"
	KeyAlreadyUsed         Key = "already_used"
	KeyOutOfWindow         Key = "out_of_window"
	KeyInvalid             Key = "invalid"
	KeyTryAgain            Key = "try_again"
	KeyInternal            Key = "internal"

	KeyBookingConfirmedSubject Key = "mail.booking_confirmed.subject"
	KeyBookingConfirmedBody    Key = "mail.booking_confirmed.body"
	KeyBookingCancelledSubject Key = "mail.booking_cancelled.subject"
	KeyBookingCancelledBody    Key = "mail.booking_cancelled.body"
	KeySubApprovedSubject      Key = "mail.subscription_approved.subject"
	KeySubApprovedBody         Key = "mail.subscription_approved.body"
	KeySubRejectedSubject      Key = "mail.subscription_rejected.subject"
	KeySubRejectedBody         Key = "mail.subscription_rejected.body"
)

var messages = map[Key]map[Language]string{
	KeyNotFound: {
		Greek:   "Δεν βρέθηκε.",
		English: "Not found.",
	},
	KeyConflict: {
		Greek:   "Η ενέργεια δεν επιτρέπεται στην τρέχουσα κατάσταση.",
		English: "This action is not allowed in the current state.",
	},
	KeyInsufficientCredits: {
		Greek:   "Δεν έχετε ενεργή συνδρομή με διαθέσιμα credits.",
		English: "You do not have an active subscription with available credits.",
	},
	KeySessionFull: {
		Greek:   "Το μάθημα είναι πλήρες.",
		English: "This class is full.",
	},
	KeyUnauthorized: {
		Greek:   "Δεν έχετε δικαίωμα για αυτή την ενέργεια.",
		English: "You are not allowed to do this.",
	},
	KeyAlreadyUsed: {
		Greek:   "Ο κωδικός έχει ήδη χρησιμοποιηθεί.",
		English: "This code has already been used.",
	},
	KeyOutOfWindow: {
		Greek:   "Το check-in δεν είναι διαθέσιμο αυτή την ώρα.",
		English: "Check-in is not open for this class right now.",
	},
	KeyInvalid: {
		Greek:   "Μη έγκυρα δεδομένα.",
		English: "Invalid request.",
	},
	KeyTryAgain: {
		Greek:   "Το σύστημα είναι απασχολημένο, δοκιμάστε ξανά.",
		English: "The system is busy, please try again.",
	},
	KeyInternal: {
		Greek:   "Παρουσιάστηκε σφάλμα.",
		English: "Something went wrong.",
	},
	KeyBookingConfirmedSubject: {
		Greek:   "Επιβεβαίωση κράτησης",
		English: "Booking confirmed",
	},
	KeyBookingConfirmedBody: {
		Greek:   "Γεια σας %s,\n\nΗ κράτησή σας για %s επιβεβαιώθηκε.\nΚωδικός check-in: %s\n\nΤα λέμε στο γυμναστήριο!",
		English: "Hi %s,\n\nYour booking for %s is confirmed.\nCheck-in code: %s\n\nSee you at the gym!",
	},
	KeyBookingCancelledSubject: {
		Greek:   "Ακύρωση κράτησης",
		English: "Booking cancelled",
	},
	KeyBookingCancelledBody: {
		Greek:   "Γεια σας %s,\n\nΗ κράτησή σας για %s ακυρώθηκε και το credit επιστράφηκε.",
		English: "Hi %s,\n\nYour booking for %s was cancelled and the credit was refunded.",
	},
	KeySubApprovedSubject: {
		Greek:   "Η συνδρομή σας ενεργοποιήθηκε",
		English: "Your subscription is active",
	},
	KeySubApprovedBody: {
		Greek:   "Γεια σας %s,\n\nΗ πληρωμή σας εγκρίθηκε. Έχετε %d credits έως %s.",
		English: "Hi %s,\n\nYour payment was approved. You have %d credits until %s.",
	},
	KeySubRejectedSubject: {
		Greek:   "Η συνδρομή σας απορρίφθηκε",
		English: "Your subscription was rejected",
	},
	KeySubRejectedBody: {
		Greek:   "Γεια σας %s,\n\nΗ πληρωμή για τη συνδρομή σας δεν εγκρίθηκε.",
		English: "Hi %s,\n\nThe payment for your subscription was not approved.",
	},
}

// T returns the string for key in lang, then in Greek, then the key itself.
func T(key Key, lang Language) string {
	m, ok := messages[key]
	if !ok {
		return string(key)
	}
	if s, ok := m[lang]; ok {
		return s
	}
	if s, ok := m[Greek]; ok {
		return s
	}
	return string(key)
}
