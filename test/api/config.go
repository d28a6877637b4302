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

package api

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/unikorn-cloud/storyspoiler/pkg/openapi"
)

const (
	// DefaultBaseURL is the shared test deployment of the service.
	DefaultBaseURL = "https://d3s5nxhwblsjbi.cloudfront.net"

	// DefaultUsername and DefaultPassword are the test deployment's login.
	DefaultUsername = "smo1"
	DefaultPassword = "12345678"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type TestConfig struct {
	BaseURL           string
	Username          string
	Password          string
	RequestTimeout    time.Duration
	TestTimeout       time.Duration
	SkipIntegration   bool
	UseFakeServer     bool
	ValidateResponses bool
	DebugLogging      bool
	LogRequests       bool
	LogResponses      bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if configuration values are missing or malformed.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	requestTimeout := getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second)
	testTimeout := getDurationWithDefault("TEST_TIMEOUT", 5*time.Minute)
	config := &TestConfig{
		BaseURL:           getStringWithDefault("API_BASE_URL", DefaultBaseURL),
		Username:          getStringWithDefault("STORY_USERNAME", DefaultUsername),
		Password:          getStringWithDefault("STORY_PASSWORD", DefaultPassword),
		RequestTimeout:    requestTimeout,
		TestTimeout:       testTimeout,
		SkipIntegration:   getBoolWithDefault("SKIP_INTEGRATION", false),
		UseFakeServer:     getBoolWithDefault("USE_FAKE_SERVER", false),
		ValidateResponses: getBoolWithDefault("VALIDATE_RESPONSES", false),
		DebugLogging:      getBoolWithDefault("DEBUG_LOGGING", false),
		LogRequests:       getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:      getBoolWithDefault("LOG_RESPONSES", false),
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// Credentials returns the login used to bootstrap a session.
func (c *TestConfig) Credentials() *openapi.Credentials {
	return &openapi.Credentials{
		Username: c.Username,
		Password: c.Password,
	}
}

// getStringWithDefault gets a string from environment variable or returns default.
func getStringWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func loadEnvFile() {
	envPaths := []string{
		"../../.env", // From test/api/suites directory
		"../.env",    // From test/api directory
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Existing environment variables take precedence.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validateConfig checks that the base URL is usable and credentials are present.
func validateConfig(config *TestConfig) error {
	var problems []string

	u, err := url.Parse(config.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("API_BASE_URL %q must be an absolute http(s) URL", config.BaseURL))
	}

	if strings.TrimSpace(config.Username) == "" {
		problems = append(problems, "STORY_USERNAME must not be blank")
	}

	if strings.TrimSpace(config.Password) == "" {
		problems = append(problems, "STORY_PASSWORD must not be blank")
	}

	if config.RequestTimeout <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s. Please set these environment variables or add them to a .env file", ErrInvalidConfig, strings.Join(problems, "; "))
	}

	return nil
}
