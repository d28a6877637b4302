//nolint:testpackage,revive // dot imports are standard for Ginkgo/Gomega test code
package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/storyspoiler/pkg/openapi"
	"github.com/unikorn-cloud/storyspoiler/test/api"
)

var _ = Describe("Story Spoiler", Ordered, ContinueOnFailure, func() {
	Context("When managing a story spoiler", func() {
		It("should create a story spoiler with the required fields", func() {
			// Given: A story with a title, description and empty URL
			// When: I create the story
			// Then: It should be created and its ID recorded for later steps
			result, err := session.CreateStory(ctx, api.NewStoryPayload().Build())
			Expect(err).NotTo(HaveOccurred())

			api.ExpectStoryResult(result, http.StatusCreated, openapi.MessageCreated)
			Expect(result.StoryID).NotTo(BeEmpty(), "Expected a story ID in the response.")

			GinkgoWriter.Printf("Created story with ID: %s\n", result.StoryID)
		})

		It("should edit the created story spoiler", func() {
			// Given: The story created by the previous step
			// When: I replace its title and description
			// Then: The edit should succeed
			result, err := session.EditStory(ctx, api.NewUpdatedStoryPayload().Build())
			Expect(err).NotTo(HaveOccurred())

			api.ExpectStoryResult(result, http.StatusOK, openapi.MessageEdited)
		})

		It("should list all story spoilers", func() {
			// Given: At least one story exists
			// When: I list all stories
			// Then: The list should not be empty
			result, err := session.Client.ListStories(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.StatusCode).To(Equal(http.StatusOK), "Expected status code 200 OK.")
			Expect(result.Stories).NotTo(BeEmpty(), "Expected a non-empty list of stories.")
		})

		It("should delete the created story spoiler", func() {
			// Given: The story created by the first step
			// When: I delete it
			// Then: The deletion should succeed
			result, err := session.DeleteStory(ctx)
			Expect(err).NotTo(HaveOccurred())

			api.ExpectStoryResult(result, http.StatusOK, openapi.MessageDeleted)
		})
	})

	Context("When submitting invalid requests", func() {
		It("should reject a story spoiler without required fields", func() {
			// Given: A story with a blank title and description
			// When: I create the story
			// Then: The request should be rejected
			result, err := session.Client.CreateStory(ctx, api.NewMissingFieldsPayload())
			Expect(err).NotTo(HaveOccurred())

			api.ExpectStoryResult(result, http.StatusBadRequest, "")
		})

		It("should not find a non-existing story spoiler to edit", func() {
			// Given: A story ID that does not exist
			// When: I try to edit it
			// Then: The service should report there are no spoilers
			result, err := session.Client.EditStory(ctx, api.UnknownStoryID, api.NewNonExistingStoryPayload())
			Expect(err).NotTo(HaveOccurred())

			api.ExpectStoryResult(result, http.StatusNotFound, openapi.MessageNoSpoilers)
		})

		It("should not delete a non-existing story spoiler", func() {
			// Given: A story ID that does not exist
			// When: I try to delete it
			// Then: The service should refuse
			result, err := session.Client.DeleteStory(ctx, api.UnknownStoryID)
			Expect(err).NotTo(HaveOccurred())

			api.ExpectStoryResult(result, http.StatusBadRequest, openapi.MessageUnableToDelete)
		})
	})
})
