// Package console turns terminal input into server requests and renders the
// views the server pushes.
package console

import (
	"strconv"
	"strings"

	"github.com/techLii/chatobi/internal/domain"
)

// CommandKind is what a line of input asks for.
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandSend
	CommandVote
	CommandHelp
	CommandQuit
)

// Command is a parsed line of input.
type Command struct {
	Kind      CommandKind
	Text      string
	Index     int // 1-based position in the last rendered list
	Direction domain.VoteDirection
}

// Parse reads one line of input. Lines not starting with a slash are text to
// send.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Kind: CommandNone}, nil
	}
	if !strings.HasPrefix(line, "/") {
		return Command{Kind: CommandSend, Text: line}, nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return Command{Kind: CommandQuit}, nil
	case "/help":
		return Command{Kind: CommandHelp}, nil
	case "/up", "/down":
		if len(fields) != 2 {
			return Command{}, domain.Invalid("command", "use "+fields[0]+" N")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return Command{}, domain.Invalid("command", "N must be a positive number")
		}
		dir := domain.VoteUp
		if fields[0] == "/down" {
			dir = domain.VoteDown
		}
		return Command{Kind: CommandVote, Index: n, Direction: dir}, nil
	}
	return Command{}, domain.Invalid("command", "unknown command "+fields[0])
}

const helpText = `Commands:
  <text>     send a message
  /up N      upvote message N (again to retract)
  /down N    downvote message N (again to retract)
  /help      show this help
  /quit      leave`
