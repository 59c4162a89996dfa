package resolve

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mz/pipeforge/internal/profile"
	"github.com/zclconf/go-cty/cty"
)

// placeholderPattern matches ${project}, ${region}, ${node} and
// ${param.<name>} occurrences inside template strings.
var placeholderPattern = regexp.MustCompile(`\$\{([a-z]+(?:\.[A-Za-z0-9_-]+)?)\}`)

// expand substitutes the fixed placeholder set into one template pattern.
// Unknown placeholders and non-primitive parameter values are errors; they
// indicate a broken schema, not bad user input.
func expand(pattern string, params map[string]cty.Value, prof profile.Profile, nodeID string) (string, error) {
	var expandErr error
	out := placeholderPattern.ReplaceAllStringFunc(pattern, func(match string) string {
		key := match[2 : len(match)-1]
		switch {
		case key == "project":
			return prof.Project
		case key == "region":
			return prof.Region
		case key == "node":
			return nodeID
		case strings.HasPrefix(key, "param."):
			name := strings.TrimPrefix(key, "param.")
			val, ok := params[name]
			if !ok {
				expandErr = fmt.Errorf("pattern %q references undeclared parameter %q", pattern, name)
				return match
			}
			s, err := stringify(val)
			if err != nil {
				expandErr = fmt.Errorf("pattern %q parameter %q: %w", pattern, name, err)
				return match
			}
			return s
		default:
			expandErr = fmt.Errorf("pattern %q contains unknown placeholder %q", pattern, key)
			return match
		}
	})
	if expandErr != nil {
		return "", expandErr
	}
	return out, nil
}

// stringify renders a primitive cty value for interpolation.
func stringify(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", fmt.Errorf("value is null")
	}
	switch val.Type() {
	case cty.String:
		return val.AsString(), nil
	case cty.Number:
		return val.AsBigFloat().Text('f', -1), nil
	case cty.Bool:
		if val.True() {
			return "true", nil
		}
		return "false", nil
	default:
		return "", fmt.Errorf("cannot interpolate %s value", val.Type().FriendlyName())
	}
}

// labelPattern matches every character not allowed in an identifier.
var labelPattern = regexp.MustCompile(`[^A-Za-z0-9_]`)

// sanitizeLabel turns a provider-side resource name into an identifier usable
// as a block label and inside traversals. "user-events" becomes
// "user_events"; names starting with a digit get an underscore prefix.
func sanitizeLabel(name string) string {
	label := labelPattern.ReplaceAllString(name, "_")
	if label == "" || label[0] >= '0' && label[0] <= '9' {
		label = "_" + label
	}
	return label
}
