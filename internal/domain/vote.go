package domain

import "fmt"

// VoteDirection is the state of one user's vote on one message.
type VoteDirection string

const (
	VoteNone VoteDirection = "none"
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// ParseVoteDirection accepts "up" or "down".
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch VoteDirection(s) {
	case VoteUp, VoteDown:
		return VoteDirection(s), nil
	}
	return VoteNone, Invalid("direction", fmt.Sprintf("must be up or down, got %q", s))
}
