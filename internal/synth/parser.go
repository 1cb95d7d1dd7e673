package synth

import "strings"

const fenceTag = "```sql"

// MalformedGenerationError reports a model response with no fenced SQL block.
// It is an attempt-level failure: the loop feeds it back into the next
// synthesis prompt rather than aborting.
type MalformedGenerationError struct {
	Response string
}

func (e *MalformedGenerationError) Error() string {
	return "model response does not contain a fenced ```sql block"
}

// ExtractSQL pulls the query text out of the first ```sql fence in a model
// response. The fence tag match is case-insensitive; everything up to the
// closing ``` is returned trimmed.
func ExtractSQL(response string) (string, error) {
	lower := strings.ToLower(response)
	start := strings.Index(lower, fenceTag)
	if start < 0 {
		return "", &MalformedGenerationError{Response: response}
	}

	body := response[start+len(fenceTag):]
	end := strings.Index(body, "```")
	if end < 0 {
		return "", &MalformedGenerationError{Response: response}
	}

	sql := strings.TrimSpace(body[:end])
	if sql == "" {
		return "", &MalformedGenerationError{Response: response}
	}
	return sql, nil
}
