package providers

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// Decode unmarshals a provider payload into v. Payloads that are not strict
// JSON are read as Hjson, and anything Hjson rejects goes through json-repair.
func Decode(data []byte, v interface{}) error {
	strictErr := json.Unmarshal(data, v)
	if strictErr == nil {
		return nil
	}
	if _, ok := strictErr.(*json.UnmarshalTypeError); ok {
		return fmt.Errorf("failed to decode payload: %w", strictErr)
	}

	var loose interface{}
	if err := hjson.Unmarshal(data, &loose); err == nil {
		normalized, err := json.Marshal(loose)
		if err != nil {
			return fmt.Errorf("failed to re-encode payload: %w", err)
		}
		if err := json.Unmarshal(normalized, v); err != nil {
			return fmt.Errorf("failed to decode payload: %w", err)
		}
		return nil
	}

	repaired, err := jsonrepair.RepairJSON(string(data))
	if err != nil {
		return fmt.Errorf("failed to decode payload: %w", strictErr)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("failed to decode repaired payload: %w", err)
	}
	return nil
}
