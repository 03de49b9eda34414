package rbac

import (
	"fmt"
	"regexp"
	"strings"
)

// Application is a top-level namespace such as "purchase" or "settings"
type Application string

// Module is a namespace inside an application such as "purchase_requests"
type Module string

// Action is an operation on a module. The set is fixed.
type Action string

const (
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionExport  Action = "export"
)

const keySeparator = "."

var (
	identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

	knownActions = map[Action]bool{
		ActionView:    true,
		ActionCreate:  true,
		ActionEdit:    true,
		ActionDelete:  true,
		ActionApprove: true,
		ActionExport:  true,
	}
)

// Actions lists every known action in a stable order
func Actions() []Action {
	return []Action{ActionView, ActionCreate, ActionEdit, ActionDelete, ActionApprove, ActionExport}
}

// Valid reports whether a is one of the known actions
func (a Action) Valid() bool {
	return knownActions[a]
}

// ParseAction converts s to a known Action
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf(errUnknownActionFmt, ErrInvalidRequest, s)
	}
	return a, nil
}

// Request asks whether a session may perform Action on Module of Application.
// It is a plain value and never persisted.
type Request struct {
	Application Application `json:"application"`
	Module      Module      `json:"module"`
	Action      Action      `json:"action"`
}

// NewRequest builds and validates a Request from raw strings
func NewRequest(application, module, action string) (Request, error) {
	r := Request{
		Application: Application(application),
		Module:      Module(module),
		Action:      Action(action),
	}
	if err := r.Validate(); err != nil {
		return Request{}, err
	}
	return r, nil
}

// MustRequest is NewRequest for static route tables; it panics on invalid input
func MustRequest(application, module, action string) Request {
	r, err := NewRequest(application, module, action)
	if err != nil {
		panic(fmt.Sprintf(errMustRequestPanicFmt, err))
	}
	return r
}

// ParseKey splits an application.module.action key into a Request
func ParseKey(key string) (Request, error) {
	parts := strings.Split(key, keySeparator)
	if len(parts) != 3 {
		return Request{}, fmt.Errorf(errMalformedKeyFmt, ErrInvalidRequest, key)
	}
	return NewRequest(parts[0], parts[1], parts[2])
}

// Key is the composite access-right name for the request
func (r Request) Key() string {
	return string(r.Application) + keySeparator + string(r.Module) + keySeparator + string(r.Action)
}

func (r Request) String() string {
	return r.Key()
}

// Validate checks the identifiers and the action
func (r Request) Validate() error {
	if r.Application == "" {
		return fmt.Errorf(errEmptyFieldFmt, ErrInvalidRequest, "application")
	}
	if r.Module == "" {
		return fmt.Errorf(errEmptyFieldFmt, ErrInvalidRequest, "module")
	}
	if !identifierPattern.MatchString(string(r.Application)) {
		return fmt.Errorf(errBadIdentifierFmt, ErrInvalidRequest, "application", r.Application)
	}
	if !identifierPattern.MatchString(string(r.Module)) {
		return fmt.Errorf(errBadIdentifierFmt, ErrInvalidRequest, "module", r.Module)
	}
	if !r.Action.Valid() {
		return fmt.Errorf(errUnknownActionFmt, ErrInvalidRequest, r.Action)
	}
	return nil
}
