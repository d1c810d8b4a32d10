package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedResponse marks a model answer that is empty, not JSON, or does
// not satisfy the requested shape. No partial data is returned with it.
var ErrMalformedResponse = errors.New("malformed model response")

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeResponse parses text into dst. Markdown code fences around the JSON
// body are tolerated.
func decodeResponse(text string, dst any) error {
	body := extractJSON(text)
	if body == "" {
		return fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func extractJSON(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
