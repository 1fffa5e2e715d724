// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-04
// Last Modified: 2026-03-08

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/similigh/asana-link/internal/resolve"
)

// Input names, as declared by the step.
const (
	InputAsanaPAT          = "asana-pat"
	InputAction            = "action"
	InputTriggerPhrase     = "trigger-phrase"
	InputGitHubToken       = "github-token"
	InputLinkRequired      = "link-required"
	InputCommentID         = "comment-id"
	InputText              = "text"
	InputIsPinned          = "is-pinned"
	InputIsComplete        = "is-complete"
	InputTargets           = "targets"
	InputRequestTimeout    = "request-timeout"
	InputStatusContext     = "status-context"
	InputStatusDescription = "status-description"
	InputAsanaBaseURL      = "asana-base-url"
	InputGitHubBaseURL     = "github-base-url"
)

// Action names.
const (
	ActionAssertLink    = "assert-link"
	ActionAddComment    = "add-comment"
	ActionRemoveComment = "remove-comment"
	ActionCompleteTask  = "complete-task"
	ActionMoveSection   = "move-section"
	ActionUpdateFields  = "update-fields"
)

// AllInputs lists every input name.
var AllInputs = []string{
	InputAsanaPAT, InputAction, InputTriggerPhrase, InputGitHubToken,
	InputLinkRequired, InputCommentID, InputText, InputIsPinned,
	InputIsComplete, InputTargets, InputRequestTimeout, InputStatusContext,
	InputStatusDescription, InputAsanaBaseURL, InputGitHubBaseURL,
}

// requiredByAction lists the inputs each action cannot run without.
var requiredByAction = map[string][]string{
	ActionAssertLink:    {InputGitHubToken, InputLinkRequired},
	ActionAddComment:    {InputText},
	ActionRemoveComment: {InputCommentID},
	ActionCompleteTask:  {InputIsComplete},
	ActionMoveSection:   {InputTargets},
	ActionUpdateFields:  {InputTargets},
}

// ErrMissingInput marks a required input that was not supplied.
var ErrMissingInput = errors.New("input required and not supplied")

// Inputs is the validated, typed view of the step inputs.
type Inputs struct {
	AsanaPAT      string
	Action        string
	TriggerPhrase string
	GitHubToken   string
	LinkRequired  bool
	CommentID     string
	Text          string
	IsPinned      bool
	// IsComplete is nil when the input was not supplied.
	IsComplete        *bool
	Targets           []resolve.Target
	RequestTimeout    time.Duration
	StatusContext     string
	StatusDescription string
	AsanaBaseURL      string
	GitHubBaseURL     string
}

// EnvNames returns the environment variables an input is read from. GitHub
// Actions keeps hyphens in the name; the underscore form is accepted for
// shells that cannot export such names.
func EnvNames(input string) []string {
	upper := strings.ToUpper(input)
	names := []string{"INPUT_" + upper}
	if strings.Contains(upper, "-") {
		names = append(names, "INPUT_"+strings.ReplaceAll(upper, "-", "_"))
	}
	return names
}

// BindInputs wires every input to its environment variables, to the flag of
// the same name when one exists, and to the file defaults.
func BindInputs(v *viper.Viper, flags *pflag.FlagSet, file *Config) error {
	if file == nil {
		file = Default()
	}

	for _, name := range AllInputs {
		if err := v.BindEnv(append([]string{name}, EnvNames(name)...)...); err != nil {
			return fmt.Errorf("binding env for %s: %w", name, err)
		}
		if flags != nil {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	targets, err := file.TargetsJSON()
	if err != nil {
		return err
	}
	if file.TriggerPhrase != "" {
		v.SetDefault(InputTriggerPhrase, file.TriggerPhrase)
	}
	if targets != "" {
		v.SetDefault(InputTargets, targets)
	}
	v.SetDefault(InputStatusContext, file.Status.Context)
	v.SetDefault(InputStatusDescription, file.Status.Description)
	v.SetDefault(InputRequestTimeout, file.RequestTimeout)
	return nil
}

// LoadInputs reads and validates the inputs for the configured action.
// Unknown action names pass through; the dispatcher rejects them.
func LoadInputs(v *viper.Viper) (*Inputs, error) {
	get := func(name string) string {
		return strings.TrimSpace(v.GetString(name))
	}

	for _, name := range []string{InputAsanaPAT, InputAction} {
		if get(name) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, name)
		}
	}

	action := get(InputAction)
	for _, name := range requiredByAction[action] {
		if get(name) == "" {
			return nil, fmt.Errorf("%w: %s (needed by %s)", ErrMissingInput, name, action)
		}
	}

	in := &Inputs{
		AsanaPAT:          get(InputAsanaPAT),
		Action:            action,
		TriggerPhrase:     v.GetString(InputTriggerPhrase),
		GitHubToken:       get(InputGitHubToken),
		LinkRequired:      get(InputLinkRequired) == "true",
		CommentID:         get(InputCommentID),
		Text:              v.GetString(InputText),
		IsPinned:          get(InputIsPinned) == "true",
		IsComplete:        parseTriState(get(InputIsComplete)),
		StatusContext:     get(InputStatusContext),
		StatusDescription: get(InputStatusDescription),
		AsanaBaseURL:      get(InputAsanaBaseURL),
		GitHubBaseURL:     get(InputGitHubBaseURL),
		RequestTimeout:    DefaultRequestTimeout,
	}

	if raw := get(InputRequestTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid %s %q", InputRequestTimeout, raw)
		}
		in.RequestTimeout = d
	}

	if action == ActionCompleteTask {
		done := get(InputIsComplete) == "true"
		in.IsComplete = &done
	}

	if action == ActionMoveSection || action == ActionUpdateFields {
		targets, err := resolve.ParseTargets([]byte(get(InputTargets)), action == ActionMoveSection)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", InputTargets, err)
		}
		in.Targets = targets
	}

	if in.StatusContext == "" {
		in.StatusContext = DefaultStatusContext
	}
	if in.StatusDescription == "" {
		in.StatusDescription = DefaultStatusDescription
	}

	return in, nil
}

// parseTriState maps "true" and "false" to a flag and anything else to nil.
func parseTriState(raw string) *bool {
	switch raw {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
