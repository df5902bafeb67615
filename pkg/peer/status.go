package peer

import (
	"encoding/json"
	"fmt"
)

type Status uint8

const (
	Active Status = iota
	Syncing
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Syncing:
		return "syncing"
	default:
		return "unknown"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "active":
		*s = Active
	case "syncing":
		*s = Syncing
	default:
		return fmt.Errorf("unknown peer status %q", str)
	}

	return nil
}

// NextStatus flips between active and syncing when draw falls below
// probability, and keeps the status otherwise.
func NextStatus(s Status, draw, probability float64) Status {
	if draw >= probability {
		return s
	}
	if s == Active {
		return Syncing
	}

	return Active
}
