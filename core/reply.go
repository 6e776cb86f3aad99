package core

import (
	"strings"

	"github.com/pfdtrack/pfdstatus/schema"
)

// replyNormalizer flattens hyphens, underscores and %20 to spaces.
var replyNormalizer = strings.NewReplacer(schema.ReplySubstitutions...)

// SplitReplies returns the reply tokens that contain the reply marker.
// Acknowledgement-only tokens are dropped and never count as replies.
func SplitReplies(raw *string) []string {
	tokens := splitField(raw)
	replies := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if strings.Contains(t, schema.ReplyMarker) {
			replies = append(replies, t)
		}
	}
	return replies
}

// NormalizeReplies builds the string used for recipient matching from the
// entire unfiltered reply field. An absent field yields "".
func NormalizeReplies(raw *string) string {
	if raw == nil {
		return ""
	}
	return replyNormalizer.Replace(*raw)
}

// Matches reports whether a recipient name occurs in the normalized reply text.
// There are no token boundaries: a recipient whose name is a substring of
// another recipient's name can match that recipient's reply.
func Matches(recipient, normalized string) bool {
	return strings.Contains(normalized, recipient)
}

// MatchedRecipients returns the recipients found in the normalized reply text,
// in order and with duplicates kept.
func MatchedRecipients(sentTo []string, normalized string) []string {
	matched := make([]string, 0, len(sentTo))
	for _, r := range sentTo {
		if Matches(r, normalized) {
			matched = append(matched, r)
		}
	}
	return matched
}
