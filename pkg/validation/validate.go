package validation

import (
	"errors"
	"fmt"
	"strings"

	"convodb/pkg/models"
)

// Rules bounds message payloads. Zero values disable the corresponding
// check.
type Rules struct {
	MaxTextBytes  int
	MaxImageBytes int
}

var rules Rules

func SetRules(r Rules) { rules = r }

// ValidateMessage checks a message before it is appended: sender and
// content are required, the type must be one of the known kinds, and
// image payloads must be data-URL encoded.
func ValidateMessage(m models.Message) error {
	var errs []string
	if strings.TrimSpace(m.Sender) == "" {
		errs = append(errs, "sender is required")
	}
	if m.Content == "" {
		errs = append(errs, "content is required")
	}
	switch m.Type {
	case models.MessageText:
		if rules.MaxTextBytes > 0 && len(m.Content) > rules.MaxTextBytes {
			errs = append(errs, fmt.Sprintf("text content exceeds %d bytes", rules.MaxTextBytes))
		}
	case models.MessageImage:
		if m.Content != "" && !strings.HasPrefix(m.Content, "data:") {
			errs = append(errs, "image content must be a data URL")
		}
		if rules.MaxImageBytes > 0 && len(m.Content) > rules.MaxImageBytes {
			errs = append(errs, fmt.Sprintf("image content exceeds %d bytes", rules.MaxImageBytes))
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown message type %q", m.Type))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
