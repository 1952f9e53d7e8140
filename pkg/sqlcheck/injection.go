package sqlcheck

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult contains the result of an injection check on a value.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	Name        string // Name of the field that failed the check
	Value       any    // The value that was checked
}

// CheckValueForInjection uses libinjection to detect SQL injection patterns
// in a single value. Only string values are checked; numbers, booleans, and
// other types cannot carry injection payloads and return nil.
func CheckValueForInjection(name string, value any) *InjectionCheckResult {
	strValue, ok := value.(string)
	if !ok {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(strValue)
	if isSQLi {
		return &InjectionCheckResult{
			IsSQLi:      true,
			Fingerprint: fingerprint,
			Name:        name,
			Value:       value,
		}
	}

	return nil
}

// CheckAllValues screens every value in the map for SQL injection attempts.
// Returns one result per value that failed; empty if all values are clean.
func CheckAllValues(values map[string]any) []*InjectionCheckResult {
	var results []*InjectionCheckResult
	for name, value := range values {
		if result := CheckValueForInjection(name, value); result != nil {
			results = append(results, result)
		}
	}
	return results
}
