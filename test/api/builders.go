package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/unikorn-cloud/storyspoiler/pkg/openapi"

	"k8s.io/utils/ptr"
)

func generateRandomName(prefix string) string {
	bytes := make([]byte, 4) // 8 hex characters
	_, _ = rand.Read(bytes)

	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(bytes))
}

func GenerateTestID() string {
	return generateRandomName("test")
}

// StoryPayloadBuilder builds story payloads for testing.
type StoryPayloadBuilder struct {
	payload openapi.StoryWrite
}

// NewStoryPayload creates a builder populated with the canonical valid story,
// including an explicitly empty URL.
func NewStoryPayload() *StoryPayloadBuilder {
	return &StoryPayloadBuilder{
		payload: openapi.StoryWrite{
			Title:       StoryTitle,
			Description: StoryDescription,
			Url:         ptr.To(""),
		},
	}
}

// NewUpdatedStoryPayload creates a builder populated with the edit applied to
// the canonical story.
func NewUpdatedStoryPayload() *StoryPayloadBuilder {
	return NewStoryPayload().
		WithTitle(UpdatedStoryTitle).
		WithDescription(UpdatedStoryDescription)
}

// NewUniqueStoryPayload creates a valid story with a random title, for tests
// that need to find their own story among others.
func NewUniqueStoryPayload() *StoryPayloadBuilder {
	return NewStoryPayload().
		WithTitle(generateRandomName("story"))
}

// WithTitle sets the title.
func (b *StoryPayloadBuilder) WithTitle(title string) *StoryPayloadBuilder {
	b.payload.Title = title
	return b
}

// WithDescription sets the description.
func (b *StoryPayloadBuilder) WithDescription(description string) *StoryPayloadBuilder {
	b.payload.Description = description
	return b
}

// WithURL sets the optional URL.
func (b *StoryPayloadBuilder) WithURL(url string) *StoryPayloadBuilder {
	b.payload.Url = ptr.To(url)
	return b
}

// WithoutURL omits the URL from the payload entirely.
func (b *StoryPayloadBuilder) WithoutURL() *StoryPayloadBuilder {
	b.payload.Url = nil
	return b
}

// Build returns a copy of the completed payload.
func (b *StoryPayloadBuilder) Build() *openapi.StoryWrite {
	payload := b.payload

	if b.payload.Url != nil {
		payload.Url = ptr.To(*b.payload.Url)
	}

	return &payload
}
