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

package story

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/unikorn-cloud/storyspoiler/pkg/openapi"

	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

var ErrNotFound = errors.New("story not found")

// Memory is a Store that keeps stories in process memory, listed in creation order.
type Memory struct {
	lock    sync.Mutex
	stories map[string]*openapi.StoryRead
	order   []string
}

var _ Store = &Memory{}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		stories: map[string]*openapi.StoryRead{},
	}
}

// copyURL prevents callers aliasing stored state through the optional URL.
func copyURL(url *string) *string {
	if url == nil {
		return nil
	}

	return ptr.To(*url)
}

func clone(in *openapi.StoryRead) *openapi.StoryRead {
	out := *in
	out.Url = copyURL(in.Url)

	return &out
}

func (m *Memory) Create(ctx context.Context, request *openapi.StoryWrite) (*openapi.StoryRead, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	story := &openapi.StoryRead{
		StoryId:     uuid.NewString(),
		Title:       request.Title,
		Description: request.Description,
		Url:         copyURL(request.Url),
	}

	m.stories[story.StoryId] = story
	m.order = append(m.order, story.StoryId)

	log.FromContext(ctx).V(1).Info("story created", "id", story.StoryId)

	return clone(story), nil
}

func (m *Memory) Update(ctx context.Context, storyID string, request *openapi.StoryWrite) (*openapi.StoryRead, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	story, ok := m.stories[storyID]
	if !ok {
		return nil, ErrNotFound
	}

	story.Title = request.Title
	story.Description = request.Description
	story.Url = copyURL(request.Url)

	log.FromContext(ctx).V(1).Info("story updated", "id", storyID)

	return clone(story), nil
}

func (m *Memory) List(ctx context.Context) (openapi.StoriesRead, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	result := make(openapi.StoriesRead, 0, len(m.order))

	for _, id := range m.order {
		result = append(result, *clone(m.stories[id]))
	}

	return result, nil
}

func (m *Memory) Delete(ctx context.Context, storyID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.stories[storyID]; !ok {
		return ErrNotFound
	}

	delete(m.stories, storyID)

	m.order = slices.DeleteFunc(m.order, func(id string) bool {
		return id == storyID
	})

	log.FromContext(ctx).V(1).Info("story deleted", "id", storyID)

	return nil
}
