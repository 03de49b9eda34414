package guard

import "fmt"

// State is the route guard's position in its Checking -> Allowed|Denied cycle
type State int

const (
	Checking State = iota
	Allowed
	Denied
)

var stateNames = map[State]string{
	Checking: "checking",
	Allowed:  "allowed",
	Denied:   "denied",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf(errUnknownStateFmt, int(s))
}

// MarshalText renders the state by name in JSON payloads
func (s State) MarshalText() ([]byte, error) {
	name, ok := stateNames[s]
	if !ok {
		return nil, fmt.Errorf(errUnknownStateFmt, int(s))
	}
	return []byte(name), nil
}

// UnmarshalText parses a state name
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf(errUnknownStateNameFmt, string(text))
}

// Decision is the outcome of evaluating a guard. Redirect and Missing are set
// only when State is Denied.
type Decision struct {
	State    State  `json:"state"`
	Redirect string `json:"redirect,omitempty"`
	Missing  string `json:"missing,omitempty"`
}

// Allowed reports whether the decision lets the caller through
func (d Decision) Allowed() bool {
	return d.State == Allowed
}
