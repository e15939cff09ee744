package canvas

// DefaultHardCap is the absolute ceiling on questions per session,
// independent of what the provider suggests.
const DefaultHardCap = 25

const (
	hardCapCompletionMessage = "We've covered a lot of ground! " +
		"Ready to generate your implementation spec."
	genericCompletionMessage = "I think we've explored the key areas of your idea. " +
		"Ready to generate your implementation spec?"
)

// shouldComplete decides whether the session stops asking questions: the
// provider asked to stop, or the hard cap is reached.
func shouldComplete(providerHint bool, questionCount, hardCap int) bool {
	return providerHint || questionCount >= hardCap
}

// completionMessage picks the text shown at session end. The fallbacks are
// qualitatively different, so this stays an ordered chain: a summary the
// provider wrote, then the hard-cap wording, then the generic wording.
func completionMessage(summary string, hardCapReached bool) string {
	if summary != "" {
		return summary
	}
	if hardCapReached {
		return hardCapCompletionMessage
	}
	return genericCompletionMessage
}
