/*
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

//nolint:revive,testpackage // dot imports are standard for Ginkgo/Gomega test code
package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/storyspoiler/pkg/openapi"
	"github.com/unikorn-cloud/storyspoiler/test/api"
)

var _ = Describe("API Client", func() {
	var (
		ctx     context.Context
		session *api.Session
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error

		session, err = api.NewSession(ctx, newTestConfig(fakeServer.URL))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(session.Close)
	})

	Context("When driving the story lifecycle", func() {
		It("should create, edit, list and delete a story", func() {
			created, err := session.Client.CreateStory(ctx, api.NewStoryPayload().Build())
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStoryResult(created, http.StatusCreated, openapi.MessageCreated)
			Expect(created.StoryID).NotTo(BeEmpty())

			storyID := created.StoryID

			edited, err := session.Client.EditStory(ctx, storyID, api.NewUpdatedStoryPayload().Build())
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStoryResult(edited, http.StatusOK, openapi.MessageEdited)

			listed, err := session.Client.ListStories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(listed.StatusCode).To(Equal(http.StatusOK))
			api.VerifyStoryPresence(listed.Stories, []string{storyID})

			for _, story := range listed.Stories {
				if story.StoryId == storyID {
					Expect(story.Title).To(Equal(api.UpdatedStoryTitle))
					Expect(story.Description).To(Equal(api.UpdatedStoryDescription))
				}
			}

			deleted, err := session.Client.DeleteStory(ctx, storyID)
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStoryResult(deleted, http.StatusOK, openapi.MessageDeleted)

			again, err := session.Client.DeleteStory(ctx, storyID)
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStoryResult(again, http.StatusBadRequest, openapi.MessageUnableToDelete)

			listed, err = session.Client.ListStories(ctx)
			Expect(err).NotTo(HaveOccurred())
			api.VerifyStoryAbsence(listed.Stories, []string{storyID})
		})

		It("should reject a story with missing fields", func() {
			result, err := session.Client.CreateStory(ctx, api.NewMissingFieldsPayload())
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStoryResult(result, http.StatusBadRequest, "")
		})

		It("should report unknown stories", func() {
			edited, err := session.Client.EditStory(ctx, api.UnknownStoryID, api.NewNonExistingStoryPayload())
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStoryResult(edited, http.StatusNotFound, openapi.MessageNoSpoilers)

			deleted, err := session.Client.DeleteStory(ctx, api.UnknownStoryID)
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStoryResult(deleted, http.StatusBadRequest, openapi.MessageUnableToDelete)
		})
	})

	Context("When using cleanup helpers", Ordered, func() {
		var storyID string

		It("should create a story that is deleted afterwards", func() {
			_, storyID = api.CreateStoryWithCleanup(session.Client, ctx, api.NewUniqueStoryPayload().Build())

			listed, err := session.Client.ListStories(ctx)
			Expect(err).NotTo(HaveOccurred())
			api.VerifyStoryPresence(listed.Stories, []string{storyID})
		})

		It("should have removed the previous story", func() {
			Expect(storyID).NotTo(BeEmpty())

			listed, err := session.Client.ListStories(ctx)
			Expect(err).NotTo(HaveOccurred())
			api.VerifyStoryAbsence(listed.Stories, []string{storyID})
		})
	})

	Context("When not authenticated", func() {
		It("should be refused by story endpoints", func() {
			client, err := api.NewAPIClientWithConfig(newTestConfig(fakeServer.URL))
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(client.Close)

			result, err := client.ListStories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(result.Stories).To(BeEmpty())
		})
	})

	Context("When constructed from a base URL", func() {
		It("should authenticate with explicit credentials", func() {
			client, err := api.NewAPIClient(fakeServer.URL + "/")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(client.Close)

			token, err := client.Authenticate(ctx, &openapi.Credentials{Username: username, Password: password})
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())
		})
	})

	Context("When the service breaks its contract", func() {
		It("should report a missing story ID on creation", func() {
			rogue := newRogueServer(http.StatusCreated, `{"msg":"Successfully created!"}`)

			client, err := api.NewAPIClientWithConfig(newTestConfig(rogue.URL))
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(client.Close)

			_, err = client.CreateStory(ctx, api.NewStoryPayload().Build())
			Expect(err).To(MatchError(openapi.ErrContractViolation))
		})

		It("should report an undocumented status", func() {
			rogue := newRogueServer(http.StatusTeapot, `{"msg":"short and stout"}`)

			client, err := api.NewAPIClientWithConfig(newTestConfig(rogue.URL))
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(client.Close)

			_, err = client.DeleteStory(ctx, api.UnknownStoryID)
			Expect(err).To(MatchError(openapi.ErrContractViolation))
		})

		It("should read non-JSON error bodies leniently without validation", func() {
			rogue := newRogueServer(http.StatusBadRequest, `<html>Bad Request</html>`)

			config := newTestConfig(rogue.URL)
			config.ValidateResponses = false

			client, err := api.NewAPIClientWithConfig(config)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(client.Close)

			result, err := client.CreateStory(ctx, api.NewMissingFieldsPayload())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(result.Message).To(BeEmpty())
			Expect(result.StoryID).To(BeEmpty())
		})
	})

	Context("When sending requests", func() {
		It("should attach W3C trace context", func() {
			var traceParent string

			s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				traceParent = r.Header.Get("Traceparent")

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`[]`))
			}))
			DeferCleanup(s.Close)

			client, err := api.NewAPIClientWithConfig(newTestConfig(s.URL))
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(client.Close)

			_, err = client.ListStories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(traceParent).To(MatchRegexp(`^00-[0-9a-f]{32}-[0-9a-f]{16}-01$`))
		})
	})
})
