package api

import "time"

// --- API Response Envelope ---

type apiResponse[T any] struct {
	Data  T       `json:"data"`
	Error *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Attribute ---

// AttributeType tags how an attribute stores and picks its values.
type AttributeType string

const (
	AttributeSingleSelect AttributeType = "SINGLE_SELECT"
	AttributeMultiSelect  AttributeType = "MULTI_SELECT"
	AttributeText         AttributeType = "TEXT"
	AttributeNumber       AttributeType = "NUMBER"
)

// Choice reports whether the attribute picks from a fixed option set.
func (t AttributeType) Choice() bool {
	return t == AttributeSingleSelect || t == AttributeMultiSelect
}

// AttributeOption is one selectable value of a choice attribute.
type AttributeOption struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Attribute is an organization-defined, typed field attachable to members.
type Attribute struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Type    AttributeType     `json:"type"`
	Options []AttributeOption `json:"options,omitempty"`
}

// --- Member ---

// Member is one row of the organization member directory.
type Member struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Role       string              `json:"role,omitempty"`
	Attributes map[string][]string `json:"attributes,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// --- Assignment ---

// AssignOptionRef wraps a chosen option value for the assign payload.
type AssignOptionRef struct {
	Value string `json:"value"`
}

// AttributeAssignment is one attribute being assigned. Choice attributes
// carry Options; text and number attributes carry a single Value.
type AttributeAssignment struct {
	ID      string            `json:"id"`
	Options []AssignOptionRef `json:"options,omitempty"`
	Value   *string           `json:"value,omitempty"`
}

// AssignAttributesInput is the bulk-assign request body.
type AssignAttributesInput struct {
	Attributes []AttributeAssignment `json:"attributes"`
	UserIDs    []string              `json:"userIds"`
}

// AssignResult carries the server's human-readable outcome message.
type AssignResult struct {
	Assigned int    `json:"assigned"`
	Message  string `json:"message"`
}

// --- Auth ---

// LoginInput defines the credentials for logging in.
type LoginInput struct {
	Username string `json:"username"`
}

// LoginResponse contains the session information after successful login.
type LoginResponse struct {
	APIKey   string `json:"api_key"`
	OrgID    string `json:"org_id"`
	Username string `json:"username"`
}

// --- Query ---

// QueryParams is a map of URL query parameters.
type QueryParams map[string]string
