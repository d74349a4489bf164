package extract

import (
	"regexp"
	"strings"
)

// A tag starts the text, a line or follows a space.
var hashtagPattern = regexp.MustCompile(`(?m)(?:^| )#[a-zA-Z0-9.\-]+`)

// CollectTags builds the tag stream of a message: every hashtag, in order,
// trimmed, joined by a single space, with the hash markers removed.
func CollectTags(text string) (string, error) {
	tags := hashtagPattern.FindAllString(text, -1)
	if len(tags) == 0 {
		return "", ErrNoTask
	}
	for i, t := range tags {
		tags[i] = strings.TrimSpace(t)
	}
	return strings.ReplaceAll(strings.Join(tags, " "), "#", ""), nil
}
