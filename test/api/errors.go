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
	"errors"
)

var (
	// ErrAuthentication is raised when session bootstrap cannot acquire a token.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNoStoryID is raised when a scenario step depends on a story that an
	// earlier step failed to create.
	ErrNoStoryID = errors.New("story ID is not set, the story was not created")
)
