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

package openapi

// Messages returned by the service in the "msg" field of a response envelope.
// These are matched literally by callers, so must never change.
const (
	MessageCreated        = "Successfully created!"
	MessageEdited         = "Successfully edited"
	MessageDeleted        = "Deleted successfully!"
	MessageNoSpoilers     = "No spoilers..."
	MessageUnableToDelete = "Unable to delete this story spoiler!"
	MessageInvalidLogin   = "Invalid username or password!"
	MessageRequiredFields = "Title and description are required!"
	MessageInvalidRequest = "Invalid request body!"
	MessageUnauthorized   = "Unauthorized"
	MessageInternalError  = "Internal server error"
	MessageInvalidStoryID = "Invalid story ID!"
)

// Credentials are exchanged for an access token.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Authentication is returned on successful login.
type Authentication struct {
	AccessToken string `json:"accessToken"`
	Username    string `json:"username,omitempty"`
}

// StoryWrite is the request body for story creation and editing.
type StoryWrite struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Url         *string `json:"url,omitempty"` //nolint:revive,stylecheck
}

// StoryRead is a story as returned by a listing.
type StoryRead struct {
	StoryId     string  `json:"storyId,omitempty"` //nolint:revive,stylecheck
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Url         *string `json:"url,omitempty"` //nolint:revive,stylecheck
}

// StoriesRead is a list of stories.
type StoriesRead []StoryRead

// Message is the response envelope for story mutations.  StoryId is only
// populated on creation.
type Message struct {
	Msg     string `json:"msg"`
	StoryId string `json:"storyId,omitempty"` //nolint:revive,stylecheck
}
