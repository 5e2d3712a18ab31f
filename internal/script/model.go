package script

import "errors"

// Action names one operation of the script protocol.
type Action string

const (
	ActionVerifyKey Action = "verifyKey"
	ActionFetchNews Action = "fetchNews"
	ActionSaveNews  Action = "saveNews"
)

var (
	ErrDisabled      = errors.New("script backend disabled")
	ErrAccessDenied  = errors.New("access key mismatch")
	ErrUnknownAction = errors.New("unknown action")
)
