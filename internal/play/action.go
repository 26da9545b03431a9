package play

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/playbot/internal/content"
)

// Command names a bot command without its leading slash.
type Command string

// Supported commands.
const (
	CmdStart    Command = "start"
	CmdHelp     Command = "help"
	CmdRoll     Command = "roll"
	CmdGame     Command = "game"
	CmdQuiz     Command = "quiz"
	CmdJoke     Command = "joke"
	CmdFact     Command = "fact"
	CmdAnimal   Command = "animal"
	CmdQuote    Command = "quote"
	CmdMath     Command = "math"
	CmdWeather  Command = "weather"
	CmdReminder Command = "reminder"
	CmdStats    Command = "stats"
	CmdAbout    Command = "about"
)

// CommandInfo describes a command for the transport's command menu.
type CommandInfo struct {
	Name        Command
	Description string
}

var commandList = []CommandInfo{
	{CmdStart, "Start the bot and show the menu"},
	{CmdHelp, "Show all commands"},
	{CmdRoll, "Roll a 6-sided dice"},
	{CmdGame, "Number guessing game"},
	{CmdQuiz, "Quick trivia question"},
	{CmdJoke, "Get a random joke"},
	{CmdFact, "Learn something amazing"},
	{CmdAnimal, "See a cute animal"},
	{CmdQuote, "Daily inspiration"},
	{CmdMath, "Calculate an expression"},
	{CmdWeather, "Weather for a city"},
	{CmdReminder, "Set a reminder"},
	{CmdStats, "Your personal statistics"},
	{CmdAbout, "About this bot"},
}

// Commands lists every command in menu order.
func Commands() []CommandInfo {
	return append([]CommandInfo(nil), commandList...)
}

// ParseCommand maps a name, with or without the slash, to a Command.
func ParseCommand(name string) (Command, bool) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))
	for _, c := range commandList {
		if string(c.Name) == name {
			return c.Name, true
		}
	}
	return "", false
}

// ActionKind discriminates button actions.
type ActionKind int

const (
	// ActionRun runs a command as if it had been typed.
	ActionRun ActionKind = iota + 1
	// ActionQuizAnswer answers the active quiz.
	ActionQuizAnswer
)

// Action is the decoded form of a button token.
type Action struct {
	Kind    ActionKind
	Command Command
	Index   int
}

// Run returns the action that re-runs cmd.
func Run(cmd Command) Action { return Action{Kind: ActionRun, Command: cmd} }

// Answer returns the action that picks quiz option i.
func Answer(i int) Action { return Action{Kind: ActionQuizAnswer, Index: i} }

// ErrUnknownAction is returned for tokens no button ever carries.
var ErrUnknownAction = errors.New("play: unrecognized action")

const quizAnswerPrefix = "quiz_"

// buttonCommands are the commands reachable from a bare button token.
var buttonCommands = []Command{CmdRoll, CmdJoke, CmdFact, CmdAnimal, CmdGame, CmdQuiz, CmdQuote, CmdStats, CmdHelp}

// ParseAction decodes a button token: a bare command mnemonic or
// quiz_<index> with index in [0,3].
func ParseAction(token string) (Action, error) {
	for _, c := range buttonCommands {
		if token == string(c) {
			return Run(c), nil
		}
	}
	if rest, ok := strings.CutPrefix(token, quizAnswerPrefix); ok {
		i, err := strconv.Atoi(rest)
		if err == nil && i >= 0 && i < content.OptionCount && strconv.Itoa(i) == rest {
			return Answer(i), nil
		}
	}
	return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
}

// Token encodes the action for a button payload.
func (a Action) Token() string {
	switch a.Kind {
	case ActionRun:
		return string(a.Command)
	case ActionQuizAnswer:
		return quizAnswerPrefix + strconv.Itoa(a.Index)
	default:
		return ""
	}
}

// ActionTokens lists every token ParseAction accepts.
func ActionTokens() []string {
	out := make([]string, 0, len(buttonCommands)+content.OptionCount)
	for _, c := range buttonCommands {
		out = append(out, string(c))
	}
	for i := 0; i < content.OptionCount; i++ {
		out = append(out, Answer(i).Token())
	}
	return out
}
