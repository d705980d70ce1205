package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techLii/chatobi/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{Kind: CommandNone}},
		{"   ", Command{Kind: CommandNone}},
		{"  Habari yako  ", Command{Kind: CommandSend, Text: "Habari yako"}},
		{"/up 3", Command{Kind: CommandVote, Index: 3, Direction: domain.VoteUp}},
		{"/down 1", Command{Kind: CommandVote, Index: 1, Direction: domain.VoteDown}},
		{"/quit", Command{Kind: CommandQuit}},
		{"/exit", Command{Kind: CommandQuit}},
		{"/help", Command{Kind: CommandHelp}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, line := range []string{"/up", "/up x", "/up 0", "/down -2", "/up 1 2", "/dance"} {
		t.Run(line, func(t *testing.T) {
			_, err := Parse(line)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
