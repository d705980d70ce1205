package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techLii/chatobi/internal/client/network"
	"github.com/techLii/chatobi/internal/domain"
)

func push(t *testing.T, msgType string, payload interface{}) network.Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return network.Envelope{Type: msgType, Payload: raw}
}

func TestAnswers(t *testing.T) {
	tests := []struct {
		name    string
		env     network.Envelope
		done    bool
		wantErr bool
	}{
		{"login success is not the answer", push(t, domain.TypeLoginSuccess, domain.LoginSuccessPayload{}), false, false},
		{"profile", push(t, domain.TypeProfile, domain.ProfilePayload{}), true, false},
		{"constituencies", push(t, domain.TypeConstituencies, domain.ConstituenciesPayload{}), true, false},
		{"ack", push(t, domain.TypeSystemMessage, domain.SystemPayload{Op: domain.TypeDeleteEvent, Content: "Event deleted."}), true, false},
		{"rejected", push(t, domain.TypeErrorMessage, domain.SystemPayload{Op: domain.TypeDeleteEvent, Content: "Not found"}), true, true},
		{"login failed", push(t, domain.TypeErrorMessage, domain.SystemPayload{Op: domain.TypeLogin, Content: "Invalid email or password."}), true, true},
		{"other error", push(t, domain.TypeErrorMessage, domain.SystemPayload{Op: domain.TypeCastVote}), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done, err := answers(tt.env, domain.TypeDeleteEvent)
			assert.Equal(t, tt.done, done)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
