package bot

import (
	"strings"

	"github.com/T-One/krang/internal/errors"
)

// Verb is a command verb recognized by the bot.
type Verb string

const (
	VerbStatus  Verb = "status"
	VerbStart   Verb = "start"
	VerbStop    Verb = "stop"
	VerbRestart Verb = "restart"
	VerbLogs    Verb = "logs"
	VerbHelp    Verb = "help"
)

// verbTakesArg marks verbs that require a container name argument. Extra
// tokens after the argument are ignored, not rejected.
var verbTakesArg = map[Verb]bool{
	VerbStatus:  false,
	VerbStart:   true,
	VerbStop:    true,
	VerbRestart: true,
	VerbLogs:    true,
	VerbHelp:    false,
}

// Invocation is one parsed command, created per inbound message and
// discarded after handling.
type Invocation struct {
	ID        string
	Verb      Verb
	Arg       string
	OriginID  string
	ChannelID string
	AuthorID  string
}

// Parse extracts a verb and optional container argument from raw message
// text. The message must open with a mention of the bot user; anything else
// returns ErrNotAddressed so normal channel traffic is ignored silently.
// Parsing is pure and performs no I/O.
func Parse(content, botID string) (*Invocation, error) {
	rest, ok := stripMention(content, botID)
	if !ok {
		return nil, errors.ErrNotAddressedError
	}

	tokens := strings.Fields(rest)
	if len(tokens) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no command given")
	}

	verb := Verb(strings.ToLower(tokens[0]))
	takesArg, known := verbTakesArg[verb]
	if !known {
		return nil, errors.NewWithDetails(errors.ErrUnknownVerb, "unknown command", tokens[0])
	}

	inv := &Invocation{Verb: verb}
	if takesArg {
		if len(tokens) < 2 {
			return nil, errors.NewWithDetails(errors.ErrMissingArgument, "missing container name", string(verb))
		}
		inv.Arg = tokens[1]
	}

	return inv, nil
}

// stripMention removes a leading bot mention from the text. Discord renders
// user mentions as either <@id> or <@!id> depending on the client.
func stripMention(content, botID string) (string, bool) {
	trimmed := strings.TrimSpace(content)
	for _, mention := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
		if strings.HasPrefix(trimmed, mention) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, mention)), true
		}
	}
	return "", false
}
