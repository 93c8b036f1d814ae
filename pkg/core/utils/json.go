package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON attempts to fix common JSON errors in LLM output:
// single quotes, unquoted keys, trailing commas, unclosed brackets,
// TRUE/FALSE/Null casing, stray markdown fences.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// ParseHJSON parses Human-friendly JSON (comments, unquoted keys, optional
// commas) and returns strict JSON. Last-resort parser for lenient model output.
func ParseHJSON(input string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(input), &result); err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	return string(jsonBytes), nil
}

// SmartParse tries multiple parsing strategies to extract valid JSON into schema.
// Order of attempts:
// 1. Standard JSON parse
// 2. JSON repair
// 3. Hjson parse (most lenient)
// Returns the JSON string that parsed successfully.
func SmartParse(input string, schema interface{}) (string, error) {
	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return input, nil
	}

	repaired, err := RepairJSON(input)
	if err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return repaired, nil
		}
	}

	hjsonResult, err := ParseHJSON(input)
	if err == nil {
		if err := json.Unmarshal([]byte(hjsonResult), schema); err == nil {
			return hjsonResult, nil
		}
	}

	return "", fmt.Errorf("SMART_PARSE_FAILED: all parsing strategies failed for input")
}
