// Package checker decides which escalation screen a client shows and how the
// user's answer on that screen maps to a command for the core.
package checker

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/domain"
)

type Screen string

const (
	ScreenNone          Screen = "none"
	ScreenWarning       Screen = "warning"
	ScreenRenegotiation Screen = "renegotiation"
	ScreenTermination   Screen = "termination"
)

type ActionKind string

const (
	ActionAccept      ActionKind = "accept"
	ActionDismiss     ActionKind = "dismiss"
	ActionLater       ActionKind = "later"
	ActionRenegotiate ActionKind = "renegotiate"
	ActionContinue    ActionKind = "continue"
	ActionChoose      ActionKind = "choose"
)

type Action struct {
	Kind   ActionKind
	Choice domain.FinalChoice // ActionChoose only
}

type CommandKind string

const (
	CommandNone    CommandKind = "none"
	CommandResolve CommandKind = "resolve"
	CommandChoose  CommandKind = "choose"
)

// Command is what the client must send after an action. Resolve commands
// apply Resolution to every listed violation.
type Command struct {
	Kind         CommandKind
	ViolationIDs []string
	Resolution   domain.Resolution
	Choice       domain.FinalChoice
}

var ErrActionNotAllowed = errors.New("action not allowed on this screen")

// Route picks the screen for a status. Only a pending termination record opens
// the termination screen; otherwise the highest severity among this week's open
// violations decides, with severity three falling back to renegotiation.
func Route(s app.ViolationStatus) Screen {
	if s.PendingTermination != nil {
		return ScreenTermination
	}
	var top domain.Severity
	for _, v := range openThisWeek(s) {
		if v.Severity > top {
			top = v.Severity
		}
	}
	switch {
	case top >= domain.SeverityRenegotiation:
		return ScreenRenegotiation
	case top == domain.SeverityWarning:
		return ScreenWarning
	default:
		return ScreenNone
	}
}

// Transition applies an action on screen. The returned screen is where the
// client goes next; it re-routes from a fresh status after sending the command.
func Transition(s app.ViolationStatus, screen Screen, a Action) (Screen, Command, error) {
	none := Command{Kind: CommandNone}
	resolve := func(r domain.Resolution) Command {
		return Command{Kind: CommandResolve, ViolationIDs: openIDs(s), Resolution: r}
	}

	switch screen {
	case ScreenWarning:
		switch a.Kind {
		case ActionAccept:
			return ScreenNone, resolve(domain.ResolutionWarningAccepted), nil
		case ActionDismiss:
			return ScreenNone, resolve(domain.ResolutionDismissed), nil
		case ActionLater:
			return ScreenNone, none, nil
		}
	case ScreenRenegotiation:
		switch a.Kind {
		case ActionRenegotiate:
			return ScreenNone, resolve(domain.ResolutionRenegotiated), nil
		case ActionContinue:
			return ScreenNone, resolve(domain.ResolutionContinued), nil
		case ActionLater:
			return ScreenNone, none, nil
		}
	case ScreenTermination:
		// The termination screen blocks until a choice is made.
		if a.Kind == ActionChoose {
			if !domain.ValidChoices[string(a.Choice)] {
				return screen, none, fmt.Errorf("%w: %q", domain.ErrInvalidChoice, a.Choice)
			}
			return ScreenNone, Command{Kind: CommandChoose, Choice: a.Choice}, nil
		}
	}
	return screen, none, fmt.Errorf("%w: %s on %s", ErrActionNotAllowed, a.Kind, screen)
}

// Actions lists what the user may do on screen, in display order.
func Actions(screen Screen) []ActionKind {
	switch screen {
	case ScreenWarning:
		return []ActionKind{ActionAccept, ActionDismiss, ActionLater}
	case ScreenRenegotiation:
		return []ActionKind{ActionRenegotiate, ActionContinue, ActionLater}
	case ScreenTermination:
		return []ActionKind{ActionChoose}
	default:
		return nil
	}
}

func openThisWeek(s app.ViolationStatus) []app.ViolationView {
	var out []app.ViolationView
	for _, v := range s.OpenViolations {
		if v.WeekNumber == s.WeekNumber && v.ResolvedAt == nil {
			out = append(out, v)
		}
	}
	return out
}

func openIDs(s app.ViolationStatus) []string {
	var ids []string
	for _, v := range openThisWeek(s) {
		ids = append(ids, v.ID)
	}
	return ids
}
