// Package i18n provides the UI string catalog with optional yaml overrides.
package i18n

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var defaults = map[string]string{
	"assign.title":             "Assign Attribute",
	"assign.pick_attribute":    "Pick an attribute",
	"assign.no_attributes":     "No attributes found.",
	"assign.pick_value":        "Pick a value",
	"assign.enter_value":       "Enter a value",
	"assign.warning.title":     "Heads up",
	"assign.warning.body":      "Values are added to every selected member and existing values are kept. Apply again to continue.",
	"assign.applying":          "Applying...",
	"assign.loading":           "Loading attributes...",
	"members.title":            "Members",
	"members.loading":          "Loading members...",
	"members.empty":            "No members found.",
	"attributes.title":         "Attributes",
	"attributes.loading":       "Loading attributes...",
	"attributes.empty":         "No attributes found.",
	"profile.title":            "Settings",
	"toast.relogin":            "Re-login complete. API key refreshed.",
}

var overrides map[string]string

// T returns the display string for a key, falling back to the key itself so a
// missing entry is visible instead of blank.
func T(key string) string {
	if s, ok := overrides[key]; ok {
		return s
	}
	if s, ok := defaults[key]; ok {
		return s
	}
	return key
}

// LoadOverrides merges a yaml string catalog over the built-in defaults.
// A missing file is not an error.
func LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read strings: %w", err)
	}

	parsed := map[string]string{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse strings: %w", err)
	}

	if overrides == nil {
		overrides = map[string]string{}
	}
	for k, v := range parsed {
		overrides[k] = v
	}
	return nil
}

// ResetOverrides drops any loaded overrides. Used by tests.
func ResetOverrides() {
	overrides = nil
}
