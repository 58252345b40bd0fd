package ui

import (
	"encoding/json"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/orgdeck/internal/config"
)

func TestProfileViewMasksAPIKey(t *testing.T) {
	cfg := &config.Config{Username: "ada", OrgID: "org_1", APIKey: "odk_secret_key_value"}
	model := NewProfileModel(nil, cfg)
	model.width = 80

	out := model.View()
	assert.Contains(t, out, "ada")
	assert.Contains(t, out, "org_1")
	assert.Contains(t, out, "odk_secr…")
	assert.NotContains(t, out, "odk_secret_key_value")
}

func TestProfileViewWithoutConfig(t *testing.T) {
	model := NewProfileModel(nil, nil)
	model.width = 80

	assert.Contains(t, model.View(), "run orgdeck login")
}

func TestProfileReloginRequestsNewKey(t *testing.T) {
	client := testUIClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" && r.Method == http.MethodPost {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ada", body["username"])
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{
				"api_key": "odk_fresh", "org_id": "org_1", "username": "ada",
			}})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	cfg := &config.Config{Username: "ada"}
	model := NewProfileModel(client, cfg)

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)
	assert.True(t, model.busy)

	msg := cmd()
	done, ok := msg.(reloginDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, "odk_fresh", done.apiKey)
}

func TestProfileReloginUnavailableWithoutUsername(t *testing.T) {
	client := testUIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	model := NewProfileModel(client, &config.Config{})

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)

	msg := cmd()
	failed, ok := msg.(errMsg)
	require.True(t, ok)
	assert.Contains(t, failed.err.Error(), "username missing")
	assert.True(t, model.busy)
}

func TestProfileIgnoresReloginWhileBusy(t *testing.T) {
	model := NewProfileModel(nil, &config.Config{Username: "ada"})
	model.busy = true

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Nil(t, cmd)
}
