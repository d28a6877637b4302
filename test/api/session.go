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

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/unikorn-cloud/storyspoiler/pkg/openapi"
)

// Session is the state shared by an ordered scenario: the configuration, a
// client authenticated once up front, and the ID of the story the scenario
// is working on.
type Session struct {
	Config *TestConfig
	Client *APIClient

	storyID string
}

// NewSession authenticates with the configured credentials using a throwaway
// client, then returns a session whose client presents the acquired token on
// every request.
func NewSession(ctx context.Context, config *TestConfig) (*Session, error) {
	bootstrap, err := NewAPIClientWithConfig(config)
	if err != nil {
		return nil, err
	}

	defer bootstrap.Close()

	token, err := bootstrap.Authenticate(ctx, config.Credentials())
	if err != nil {
		return nil, err
	}

	client, err := NewAPIClientWithConfig(config)
	if err != nil {
		return nil, err
	}

	client.SetAuthToken(token)

	session := &Session{
		Config: config,
		Client: client,
	}

	return session, nil
}

// SetStoryID records the story created by the scenario.
func (s *Session) SetStoryID(storyID string) {
	s.storyID = storyID
}

// StoryID returns the story created by the scenario, failing if there isn't one
// so dependent steps never run against an undefined story.
func (s *Session) StoryID() (string, error) {
	if strings.TrimSpace(s.storyID) == "" {
		return "", ErrNoStoryID
	}

	return s.storyID, nil
}

// CreateStory creates a story and, if the service accepted it and returned an
// ID, records it for the dependent steps.
func (s *Session) CreateStory(ctx context.Context, story *openapi.StoryWrite) (*StoryResult, error) {
	result, err := s.Client.CreateStory(ctx, story)
	if err != nil {
		return nil, err
	}

	if result.StatusCode == http.StatusCreated && result.StoryID != "" {
		s.SetStoryID(result.StoryID)
	}

	return result, nil
}

// EditStory edits the recorded story.  Nothing is sent if there isn't one.
func (s *Session) EditStory(ctx context.Context, story *openapi.StoryWrite) (*StoryResult, error) {
	storyID, err := s.StoryID()
	if err != nil {
		return nil, err
	}

	return s.Client.EditStory(ctx, storyID, story)
}

// DeleteStory deletes the recorded story.  Nothing is sent if there isn't one.
func (s *Session) DeleteStory(ctx context.Context) (*StoryResult, error) {
	storyID, err := s.StoryID()
	if err != nil {
		return nil, err
	}

	return s.Client.DeleteStory(ctx, storyID)
}

// Close releases the client.  It is safe to call more than once.
func (s *Session) Close() {
	if s.Client != nil {
		s.Client.Close()
	}
}
