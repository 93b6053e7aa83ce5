package language

// MaxNameLength is the longest accepted language name
const MaxNameLength = 20

// Validate checks a proposed language name.
// A valid name is 1 to 20 ASCII letters with no spaces or other characters.
func Validate(name string) error {
	if name == "" {
		return &ValidationError{Name: name, Reason: "name cannot be empty"}
	}

	for _, r := range name {
		if !isLetter(r) {
			return &ValidationError{Name: name, Reason: "name must contain only letters without spaces"}
		}
	}

	// Only ASCII letters reach this point, so byte length equals character count
	if len(name) > MaxNameLength {
		return &ValidationError{Name: name, Reason: "name length must be between 1 and 20 characters"}
	}

	return nil
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
