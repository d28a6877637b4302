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

//nolint:revive
package handler

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/pflag"

	"github.com/unikorn-cloud/core/pkg/server/util"
	"github.com/unikorn-cloud/storyspoiler/pkg/openapi"
	"github.com/unikorn-cloud/storyspoiler/pkg/server/handler/story"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

var ErrCredentials = errors.New("username and password must be set")

// Options define the single user the service accepts, and the token issued to them.
type Options struct {
	Username string
	Password string
	Token    string
}

func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.Username, "username", "smo1", "Username accepted by the authentication endpoint")
	f.StringVar(&o.Password, "password", "12345678", "Password accepted by the authentication endpoint")
	f.StringVar(&o.Token, "token", "", "Bearer token to issue, generated at start up when empty")
}

type Handler struct {
	// store holds all stories.
	store story.Store

	// options allows behaviour to be defined on the CLI.
	options *Options
}

func New(store story.Store, options *Options) (*Handler, error) {
	if options.Username == "" || options.Password == "" {
		return nil, ErrCredentials
	}

	o := *options

	if o.Token == "" {
		token, err := generateToken()
		if err != nil {
			return nil, err
		}

		o.Token = token
	}

	h := &Handler{
		store:   store,
		options: &o,
	}

	return h, nil
}

// Token is the bearer token issued on successful authentication.
func (h *Handler) Token() string {
	return h.options.Token
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)

	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func (h *Handler) setUncacheable(w http.ResponseWriter) {
	w.Header().Add("Cache-Control", "no-cache")
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// validStory checks the fields the service requires for create and edit.
func validStory(request *openapi.StoryWrite) bool {
	return strings.TrimSpace(request.Title) != "" && strings.TrimSpace(request.Description) != ""
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	log.FromContext(r.Context()).Error(err, message)

	WriteMessage(w, r, http.StatusInternalServerError, openapi.MessageInternalError)
}

func (h *Handler) PostApiUserAuthentication(w http.ResponseWriter, r *http.Request) {
	request := &openapi.Credentials{}

	if err := util.ReadJSONBody(r, request); err != nil {
		WriteMessage(w, r, http.StatusBadRequest, openapi.MessageInvalidRequest)
		return
	}

	if !equal(request.Username, h.options.Username) || !equal(request.Password, h.options.Password) {
		log.FromContext(r.Context()).Info("authentication rejected", "username", request.Username)

		WriteMessage(w, r, http.StatusUnauthorized, openapi.MessageInvalidLogin)

		return
	}

	result := &openapi.Authentication{
		AccessToken: h.options.Token,
		Username:    request.Username,
	}

	h.setUncacheable(w)
	util.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) PostApiStoryCreate(w http.ResponseWriter, r *http.Request) {
	request := &openapi.StoryWrite{}

	if err := util.ReadJSONBody(r, request); err != nil {
		WriteMessage(w, r, http.StatusBadRequest, openapi.MessageInvalidRequest)
		return
	}

	if !validStory(request) {
		WriteMessage(w, r, http.StatusBadRequest, openapi.MessageRequiredFields)
		return
	}

	result, err := h.store.Create(r.Context(), request)
	if err != nil {
		h.internalError(w, r, err, "unable to create story")
		return
	}

	util.WriteJSONResponse(w, r, http.StatusCreated, &openapi.Message{Msg: openapi.MessageCreated, StoryId: result.StoryId})
}

func (h *Handler) PutApiStoryEditStoryID(w http.ResponseWriter, r *http.Request, storyID openapi.StoryID) {
	request := &openapi.StoryWrite{}

	if err := util.ReadJSONBody(r, request); err != nil {
		WriteMessage(w, r, http.StatusBadRequest, openapi.MessageInvalidRequest)
		return
	}

	if !validStory(request) {
		WriteMessage(w, r, http.StatusBadRequest, openapi.MessageRequiredFields)
		return
	}

	if _, err := h.store.Update(r.Context(), storyID.Value, request); err != nil {
		if errors.Is(err, story.ErrNotFound) {
			WriteMessage(w, r, http.StatusNotFound, openapi.MessageNoSpoilers)
			return
		}

		h.internalError(w, r, err, "unable to edit story")

		return
	}

	WriteMessage(w, r, http.StatusOK, openapi.MessageEdited)
}

func (h *Handler) GetApiStoryAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.store.List(r.Context())
	if err != nil {
		h.internalError(w, r, err, "unable to list stories")
		return
	}

	h.setUncacheable(w)
	util.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) DeleteApiStoryDeleteStoryID(w http.ResponseWriter, r *http.Request, storyID openapi.StoryID) {
	if err := h.store.Delete(r.Context(), storyID.Value); err != nil {
		// The service reports every kind of deletion failure the same way.
		if errors.Is(err, story.ErrNotFound) {
			WriteMessage(w, r, http.StatusBadRequest, openapi.MessageUnableToDelete)
			return
		}

		h.internalError(w, r, err, "unable to delete story")

		return
	}

	WriteMessage(w, r, http.StatusOK, openapi.MessageDeleted)
}
