package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "odk_testkey")
	return srv, client
}

func jsonResponse(data any) []byte {
	b, _ := json.Marshal(map[string]any{"data": data})
	return b
}

func TestListAttributes(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer odk_testkey", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/attributes", r.URL.Path)
		w.Write(jsonResponse([]map[string]any{
			{"id": "a1", "name": "Department", "type": "SINGLE_SELECT", "options": []map[string]any{
				{"id": "o1", "value": "Engineering"},
				{"id": "o2", "value": "Sales"},
			}},
			{"id": "a2", "name": "Office floor", "type": "NUMBER"},
		}))
	})

	attrs, err := client.ListAttributes()
	require.NoError(t, err)
	require.Len(t, attrs, 2)
	assert.Equal(t, AttributeSingleSelect, attrs[0].Type)
	assert.Len(t, attrs[0].Options, 2)
	assert.True(t, attrs[0].Type.Choice())
	assert.False(t, attrs[1].Type.Choice())
}

func TestAssignAttributesSendsPayload(t *testing.T) {
	var captured AssignAttributesInput
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/attributes/assign", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write(jsonResponse(map[string]any{"assigned": 2, "message": "2 members updated"}))
	})

	result, err := client.AssignAttributes(AssignAttributesInput{
		Attributes: []AttributeAssignment{{
			ID:      "a1",
			Options: []AssignOptionRef{{Value: "o1"}},
		}},
		UserIDs: []string{"m1", "m2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2 members updated", result.Message)

	require.Len(t, captured.Attributes, 1)
	assert.Equal(t, "a1", captured.Attributes[0].ID)
	assert.Equal(t, []AssignOptionRef{{Value: "o1"}}, captured.Attributes[0].Options)
	assert.Nil(t, captured.Attributes[0].Value)
	assert.Equal(t, []string{"m1", "m2"}, captured.UserIDs)
}

func TestAssignAttributesScalarOmitsOptions(t *testing.T) {
	var raw map[string]any
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.Write(jsonResponse(map[string]any{"assigned": 1, "message": "ok"}))
	})

	value := "3"
	_, err := client.AssignAttributes(AssignAttributesInput{
		Attributes: []AttributeAssignment{{ID: "a2", Value: &value}},
		UserIDs:    []string{"m1"},
	})
	require.NoError(t, err)

	attrs := raw["attributes"].([]any)
	entry := attrs[0].(map[string]any)
	assert.Equal(t, "3", entry["value"])
	_, hasOptions := entry["options"]
	assert.False(t, hasOptions)
}

func TestAssignAttributesSurfacesServerError(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": "FORBIDDEN", "message": "attribute is archived"},
		})
	})

	_, err := client.AssignAttributes(AssignAttributesInput{UserIDs: []string{"m1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attribute is archived")
}

func TestQueryMembers(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ada", r.URL.Query().Get("search_text"))
		w.Write(jsonResponse([]map[string]any{
			{"id": "m1", "name": "Ada", "email": "ada@example.com"},
		}))
	})

	members, err := client.QueryMembers(QueryParams{"search_text": "ada"})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "ada@example.com", members[0].Email)
}
