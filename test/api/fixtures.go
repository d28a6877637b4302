/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"net/http"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spjmurray/go-util/pkg/set"

	"github.com/unikorn-cloud/storyspoiler/pkg/openapi"
)

// Story fixtures used by the scenario.
const (
	StoryTitle              = "Test Story Spoiler"
	StoryDescription        = "This is a test story spoiler."
	UpdatedStoryTitle       = "Updated Story Spoiler"
	UpdatedStoryDescription = "This is an updated story spoiler."

	NonExistingStoryTitle       = "Non-existing Story"
	NonExistingStoryDescription = "Story does not exist."

	// UnknownStoryID is assumed not to exist on the service.  Nothing checks
	// this, it's a fixed fixture.
	UnknownStoryID = "0000"
)

// NewMissingFieldsPayload returns a story with blank required fields and no URL.
func NewMissingFieldsPayload() *openapi.StoryWrite {
	return NewStoryPayload().
		WithTitle("").
		WithDescription("").
		WithoutURL().
		Build()
}

// NewNonExistingStoryPayload returns a valid edit for a story that isn't there.
func NewNonExistingStoryPayload() *openapi.StoryWrite {
	return NewStoryPayload().
		WithTitle(NonExistingStoryTitle).
		WithDescription(NonExistingStoryDescription).
		WithoutURL().
		Build()
}

// ExpectStoryResult asserts the status code and, when one is given, the message.
func ExpectStoryResult(result *StoryResult, expectedStatus int, expectedMessage string) {
	GinkgoHelper()

	Expect(result).NotTo(BeNil())
	Expect(result.StatusCode).To(Equal(expectedStatus), "Expected status code %d %s, body: %s", expectedStatus, http.StatusText(expectedStatus), string(result.Body))

	if expectedMessage != "" {
		Expect(result.Message).To(Equal(expectedMessage), "Expected '%s' message.", expectedMessage)
	}
}

// CreateStoryWithCleanup creates a story and schedules its deletion.
func CreateStoryWithCleanup(client *APIClient, ctx context.Context, payload *openapi.StoryWrite) (*StoryResult, string) {
	GinkgoHelper()

	result, err := client.CreateStory(ctx, payload)
	Expect(err).NotTo(HaveOccurred())
	ExpectStoryResult(result, http.StatusCreated, openapi.MessageCreated)
	Expect(result.StoryID).NotTo(BeEmpty())

	storyID := result.StoryID

	GinkgoWriter.Printf("Created story with ID: %s\n", storyID)

	// Schedule cleanup - this runs whether the test passes or fails so we don't need to clean up manually
	DeferCleanup(func() {
		deleted, deleteErr := client.DeleteStory(ctx, storyID)

		switch {
		case deleteErr != nil:
			GinkgoWriter.Printf("Warning: Failed to delete story %s: %v\n", storyID, deleteErr)
		case deleted.StatusCode == http.StatusOK:
			GinkgoWriter.Printf("Successfully deleted story: %s\n", storyID)
		default:
			// The test most likely deleted it itself.
			GinkgoWriter.Printf("Story %s not deleted (status: %d)\n", storyID, deleted.StatusCode)
		}
	})

	return result, storyID
}

// VerifyStoryPresence verifies that stories are present in the list.
func VerifyStoryPresence(stories openapi.StoriesRead, expectedStoryIDs []string) {
	GinkgoHelper()

	listed := set.New[string](extractStoryIDs(stories)...)
	missing := set.New[string](expectedStoryIDs...).Difference(listed)

	Expect(slices.Sorted(missing.All())).To(BeEmpty(), "Expected story IDs to be present in the list")
}

// VerifyStoryAbsence verifies that stories are not present in the list.
func VerifyStoryAbsence(stories openapi.StoriesRead, unexpectedStoryIDs []string) {
	GinkgoHelper()

	listed := set.New[string](extractStoryIDs(stories)...)
	present := set.New[string](unexpectedStoryIDs...).Intersection(listed)

	Expect(slices.Sorted(present.All())).To(BeEmpty(), "Expected story IDs to be absent from the list")
}

// extractStoryIDs extracts story IDs from a list of stories.
func extractStoryIDs(stories openapi.StoriesRead) []string {
	storyIDs := make([]string, len(stories))

	for i, story := range stories {
		storyIDs[i] = story.StoryId
	}

	return storyIDs
}
