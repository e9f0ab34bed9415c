package operation

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Status is the state of an asynchronous operation as reported by the
// status endpoint. Only Pending, Success and Failed are defined, every
// other value is treated as unknown.
type Status int

const (
	Pending Status = 0
	Success Status = 1
	Failed  Status = 2
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Success:
		return "SUCCESS"
	case Failed:
		return "FAILED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

func (s Status) Valid() bool {
	return s == Pending || s == Success || s == Failed
}

func (s Status) Terminal() bool {
	return s == Success || s == Failed
}

// StatusFromBool maps a node reply flag onto a terminal status.
func StatusFromBool(ok bool) Status {
	if ok {
		return Success
	}
	return Failed
}

// NullableStatus decodes the status field of a status reply. A missing,
// null or non integer value decodes to an unset status rather than an
// error so that callers can report it as unknown.
type NullableStatus struct {
	Status Status
	Set    bool
	Raw    string
}

func (n *NullableStatus) UnmarshalJSON(data []byte) error {
	n.Raw = string(data)

	var v *int
	if err := json.Unmarshal(data, &v); err != nil || v == nil {
		n.Set = false
		return nil
	}

	n.Status = Status(*v)
	n.Set = true
	return nil
}

func (n NullableStatus) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(n.Status))), nil
}

func (n NullableStatus) String() string {
	if !n.Set {
		if n.Raw == "" {
			return "<missing>"
		}
		return n.Raw
	}
	return strconv.Itoa(int(n.Status))
}
