package registry

import (
	"bufio"
	"fmt"
	"strings"

	"excheck/internal/domain/exercise"
)

// MalformedError marks a recognized exercise file whose expected-outcome
// marker cannot be recovered. Malformed files are skipped, never fatal.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed exercise: %s", e.Reason)
}

const (
	directiveOutput = "check:output"
	directiveAssert = "check:assert"
)

// ParseCheck recovers the expected-outcome contract from an exercise file.
//
// The contract is declared with a directive comment, anywhere in the file:
//
//	//check:assert
//
// for exercises whose embedded checks signal pass/fail through the exit
// code, or
//
//	//check:output
//	// The square of 3 is 9
//
// for exercises whose stdout must match the commented lines exactly.
// Python exercises use "#" in place of "//". A file with no directive, an
// unknown directive, or an output directive with no expected lines is
// malformed.
func ParseCheck(lang exercise.Language, source string) (exercise.Check, error) {
	prefix := commentPrefix(lang)

	scanner := bufio.NewScanner(strings.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		rest, ok := strings.CutPrefix(line, prefix)
		if !ok {
			continue
		}

		switch strings.TrimSpace(rest) {
		case directiveAssert:
			return exercise.AssertCheck(), nil
		case directiveOutput:
			expected, err := collectExpected(scanner, prefix)
			if err != nil {
				return exercise.Check{}, err
			}
			return exercise.OutputCheck(expected), nil
		default:
			if strings.HasPrefix(strings.TrimSpace(rest), "check:") {
				return exercise.Check{}, &MalformedError{
					Reason: fmt.Sprintf("unknown check directive %q", strings.TrimSpace(rest)),
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return exercise.Check{}, err
	}

	return exercise.Check{}, &MalformedError{Reason: "no check directive found"}
}

// collectExpected gathers the comment lines immediately following a
// check:output directive. Each contributes one line of expected stdout,
// with the comment prefix and a single leading space stripped.
func collectExpected(scanner *bufio.Scanner, prefix string) (string, error) {
	var sb strings.Builder
	lines := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		rest, ok := strings.CutPrefix(line, prefix)
		if !ok {
			break
		}
		sb.WriteString(strings.TrimPrefix(rest, " "))
		sb.WriteString("\n")
		lines++
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	if lines == 0 {
		return "", &MalformedError{Reason: "check:output directive with no expected lines"}
	}

	return sb.String(), nil
}

func commentPrefix(lang exercise.Language) string {
	if lang == exercise.LanguagePython {
		return "#"
	}
	return "//"
}
