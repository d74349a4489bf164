package extract

import "time"

// Parsed is everything a message says about a work log, before any
// collaborator has been asked about it.
type Parsed struct {
	Text     string   `json:"text"`
	Stream   string   `json:"tag_stream"`
	ItemKey  string   `json:"item_key"`
	Day      Day      `json:"day"`
	Duration Duration `json:"duration"`
}

// Parse runs the text stages in pipeline order and stops at the first one
// that rejects the message.
func Parse(text string, now time.Time) (Parsed, error) {
	stream, err := CollectTags(text)
	if err != nil {
		return Parsed{}, err
	}
	key, err := FindItemKey(stream)
	if err != nil {
		return Parsed{}, err
	}
	day, err := ResolveDate(stream, now)
	if err != nil {
		return Parsed{}, err
	}
	dur, err := ResolveDuration(stream)
	if err != nil {
		return Parsed{}, err
	}
	return Parsed{Text: text, Stream: stream, ItemKey: key, Day: day, Duration: dur}, nil
}
