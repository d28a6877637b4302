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

// Package api provides integration test utilities for the Story Spoiler API.
//
// # Sessions
//
// A Session is acquired once per suite: it logs in with the configured
// credentials, and holds a client that presents the resulting bearer token on
// every request.  Ordered scenarios record the story they create on the
// session, and later steps retrieve it with Session.StoryID, which fails fast
// if creation never happened.
//
// # Separate Client Implementation
//
// The APIClient is hand written rather than generated from the OpenAPI
// document in pkg/openapi.  Any change to the service's contract must be
// mirrored here, which makes API evolution explicit and reviewable.  The
// client also provides features tailored for integration testing:
//   - W3C trace context propagation for request correlation
//   - Detailed error logging with trace IDs for debugging
//   - Optional validation of every response against the OpenAPI document
//   - Direct access to HTTP status codes and response bodies
//
// Response envelopes are read leniently: only "msg" and "storyId" are
// modelled, and a response that isn't JSON simply leaves them empty, so
// assertions on status codes still work against error pages.
package api
