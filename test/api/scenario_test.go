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
	"strings"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/storyspoiler/pkg/openapi"
	"github.com/unikorn-cloud/storyspoiler/pkg/server"
	"github.com/unikorn-cloud/storyspoiler/pkg/server/handler"
	"github.com/unikorn-cloud/storyspoiler/pkg/server/handler/story"
	"github.com/unikorn-cloud/storyspoiler/test/api"
)

var _ = Describe("Ordered Scenario", func() {
	Context("When every step succeeds", Ordered, func() {
		var (
			ctx     context.Context
			session *api.Session
		)

		BeforeAll(func() {
			ctx = context.Background()

			var err error

			session, err = api.NewSession(ctx, newTestConfig(fakeServer.URL))
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(session.Close)
		})

		It("should record the created story", func() {
			result, err := session.CreateStory(ctx, api.NewStoryPayload().Build())
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStoryResult(result, http.StatusCreated, openapi.MessageCreated)

			storyID, err := session.StoryID()
			Expect(err).NotTo(HaveOccurred())
			Expect(storyID).To(Equal(result.StoryID))
		})

		It("should edit the recorded story", func() {
			result, err := session.EditStory(ctx, api.NewUpdatedStoryPayload().Build())
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStoryResult(result, http.StatusOK, openapi.MessageEdited)
		})

		It("should delete the recorded story", func() {
			result, err := session.DeleteStory(ctx)
			Expect(err).NotTo(HaveOccurred())
			api.ExpectStoryResult(result, http.StatusOK, openapi.MessageDeleted)
		})
	})

	Context("When creating the story fails", Ordered, ContinueOnFailure, func() {
		var (
			ctx     context.Context
			session *api.Session

			// mutations counts edit and delete requests that reached the service.
			mutations atomic.Int32
		)

		BeforeAll(func() {
			ctx = context.Background()

			router, err := server.NewRouter(story.NewMemory(), &handler.Options{Username: username, Password: password}, GinkgoLogr)
			Expect(err).NotTo(HaveOccurred())

			failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch {
				case r.URL.Path == "/api/Story/Create":
					handler.WriteMessage(w, r, http.StatusInternalServerError, openapi.MessageInternalError)

					return
				case strings.HasPrefix(r.URL.Path, "/api/Story/Edit/"), strings.HasPrefix(r.URL.Path, "/api/Story/Delete/"):
					mutations.Add(1)
				}

				router.ServeHTTP(w, r)
			}))
			DeferCleanup(failing.Close)

			// Internal errors aren't documented, so don't fail on them.
			config := newTestConfig(failing.URL)
			config.ValidateResponses = false

			session, err = api.NewSession(ctx, config)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(session.Close)
		})

		It("should not record a story", func() {
			result, err := session.CreateStory(ctx, api.NewStoryPayload().Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StatusCode).To(Equal(http.StatusInternalServerError))

			_, err = session.StoryID()
			Expect(err).To(MatchError(api.ErrNoStoryID))
		})

		It("should fail the edit step fast", func() {
			_, err := session.EditStory(ctx, api.NewUpdatedStoryPayload().Build())
			Expect(err).To(MatchError(api.ErrNoStoryID))
		})

		It("should still list stories", func() {
			result, err := session.Client.ListStories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StatusCode).To(Equal(http.StatusOK))
		})

		It("should fail the delete step fast", func() {
			_, err := session.DeleteStory(ctx)
			Expect(err).To(MatchError(api.ErrNoStoryID))
		})

		It("should not have sent anything for the missing story", func() {
			Expect(mutations.Load()).To(BeZero())
		})
	})
})
