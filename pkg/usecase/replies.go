package usecase

import "fmt"

// All user-facing reply text lives here. Displayed calorie values are
// truncated to whole numbers.

const (
	replyHelp = "Commands:\n" +
		"- add <food> <qty>  (eg: add apple 1)\n" +
		"- today\n" +
		"- settarget <kcal>\n" +
		"Or send a food photo and reply 'yes' to log it."

	replyAddUsage       = "Usage: add <food> <qty> (eg: add apple 1)"
	replyBadQuantity    = "Couldn't parse quantity. Use a number: add apple 1"
	replyTargetUsage    = "Usage: settarget <kcal>"
	replyAskFoodName    = "Couldn't identify the food. Please name it, e.g.: add apple 1"
	replyNothingPending = "Nothing pending to confirm. Send a food photo or 'add <food> <qty>'."
	replyExpired        = "That suggestion expired. Send the photo again or use 'add <food> <qty>'."
	replyDiscarded      = "Okay, discarded."
)

func replyNoLocalData(foodName string) string {
	return fmt.Sprintf("No local data for '%s'. Try: add apple 1 (use common names).", foodName)
}

func replyLogged(quantity float64, foodName string, kcal, total float64, target int) string {
	return fmt.Sprintf("Logged %g x %s = %d kcal. Today: %d/%d kcal.",
		quantity, foodName, int(kcal), int(total), target)
}

func replySuggestion(foodName string, kcal float64) string {
	return fmt.Sprintf("Looks like %s (~%d kcal). Reply 'yes' to log it, or 'add <food> <qty>'.",
		foodName, int(kcal))
}

func replyLabelNoData(label string) string {
	return fmt.Sprintf("Looks like %s, but no calorie data was found. Try: add %s 1", label, label)
}
