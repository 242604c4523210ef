package handlespace

import "encoding/json"

// action is the wire shape of a relayed ledger operation: an op name plus
// op-specific arguments.
type action struct {
	Op   string          `json:"op"`
	Args json.RawMessage `json:"args,omitempty"`
}

func decodeAction(payload []byte) (action, bool) {
	var act action
	if err := json.Unmarshal(payload, &act); err != nil {
		return action{}, false
	}
	if act.Op == "" {
		return action{}, false
	}
	return act, true
}

func decodeArgs(act action, into any) bool {
	if len(act.Args) == 0 {
		return false
	}
	return json.Unmarshal(act.Args, into) == nil
}

func okResult(result any) (bool, []byte) {
	if result == nil {
		return true, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return false, failure(err)
	}
	return true, data
}

func failure(err error) []byte {
	data, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return nil
	}
	return data
}
