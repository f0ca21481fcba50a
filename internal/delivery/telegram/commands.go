package telegram

import (
	"strconv"
	"strings"
)

const HelpText = `Commands:
/checkgas - show the current gas price in gwei
/setgasalert <gwei> - add a gas price alert threshold
/alerts - list alert thresholds
/help - show this help`

const (
	checkGasCommand   = "/checkgas"
	setGasAlertPrefix = "/setgasalert "
	helpCommand       = "/help"
	listAlertsCommand = "/alerts"
)

type CommandKind int

const (
	CommandCheckGas CommandKind = iota + 1
	CommandSetGasAlert
	CommandHelp
	CommandListAlerts
)

func (k CommandKind) String() string {
	switch k {
	case CommandCheckGas:
		return "checkgas"
	case CommandSetGasAlert:
		return "setgasalert"
	case CommandHelp:
		return "help"
	case CommandListAlerts:
		return "alerts"
	default:
		return "unknown"
	}
}

// Command is one recognized chat command. Gwei is set only for
// CommandSetGasAlert.
type Command struct {
	Kind CommandKind
	Gwei uint64
}

// ParseCommand maps raw message text to a command. Matching is exact and
// case-sensitive; anything unrecognized or malformed reports ok == false.
func ParseCommand(text string) (Command, bool) {
	switch text {
	case checkGasCommand:
		return Command{Kind: CommandCheckGas}, true
	case helpCommand:
		return Command{Kind: CommandHelp}, true
	case listAlertsCommand:
		return Command{Kind: CommandListAlerts}, true
	}

	args, found := strings.CutPrefix(text, setGasAlertPrefix)
	if !found {
		return Command{}, false
	}
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return Command{}, false
	}
	gwei, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return Command{}, false
	}
	return Command{Kind: CommandSetGasAlert, Gwei: gwei}, true
}
