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

//go:generate mockgen -source=interfaces.go -destination=mock/interfaces.go -package=mock

package story

import (
	"context"

	"github.com/unikorn-cloud/storyspoiler/pkg/openapi"
)

// Store persists stories.  Implementations must return ErrNotFound when an
// update or deletion references a story that doesn't exist.
type Store interface {
	Create(ctx context.Context, request *openapi.StoryWrite) (*openapi.StoryRead, error)
	Update(ctx context.Context, storyID string, request *openapi.StoryWrite) (*openapi.StoryRead, error)
	List(ctx context.Context) (openapi.StoriesRead, error)
	Delete(ctx context.Context, storyID string) error
}
