package openapi

import (
	"errors"
	"regexp"
)

var ErrInvalidStoryID = errors.New("invalid story ID: must be non-empty and not contain '/'")

var storyIDValidationRegex = regexp.MustCompile("^[^/]+$")

type StoryID struct {
	Value string
}

func (n *StoryID) UnmarshalText(text []byte) error {
	if !storyIDValidationRegex.Match(text) {
		return ErrInvalidStoryID
	}

	*n = StoryID{
		Value: string(text),
	}

	return nil
}

func (n StoryID) String() string {
	return n.Value
}
