// Package finding turns diagnosis results from the disease, pest and weed
// screens into task suggestions.
package finding

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind is the diagnostic screen a finding came from
type Kind string

const (
	KindDisease Kind = "disease"
	KindPest    Kind = "pest"
	KindWeed    Kind = "weed"
)

// ErrNoFinding is returned when a response holds no JSON object
var ErrNoFinding = errors.New("no finding in response")

// Finding is one diagnosis
type Finding struct {
	Kind         Kind     `json:"kind"`
	Name         string   `json:"name"`
	Treatment    string   `json:"treatment"`
	RelatedCrops []string `json:"relatedCrops"`
}

// Verb returns the action verb used for suggestions of this kind
func (k Kind) Verb() string {
	switch k {
	case KindDisease:
		return "Treat"
	case KindPest:
		return "Control"
	case KindWeed:
		return "Remove"
	default:
		return "Address"
	}
}

// a period inside a number such as 2.5 is not a break
var clauseSep = regexp.MustCompile(`[.;](?:\s|$)|\n`)

// FirstClause returns the treatment text up to the first sentence break
func FirstClause(s string) string {
	s = StripMarkdown(s)
	for _, part := range clauseSep.Split(s, -1) {
		if p := strings.TrimSpace(part); p != "" {
			return p
		}
	}
	return ""
}

// SuggestedAction composes "<Verb> <name> - <first clause of treatment>"
func (f Finding) SuggestedAction() string {
	name := strings.TrimSpace(StripMarkdown(f.Name))
	action := f.Kind.Verb()
	if name != "" {
		action += " " + name
	}
	if clause := FirstClause(f.Treatment); clause != "" {
		action += " - " + clause
	}
	return action
}

var (
	fencePattern    = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*```")
	emphasisPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\*\*(.+?)\*\*`),
		regexp.MustCompile(`\*(\S(?:.*?\S)?)\*`),
		regexp.MustCompile("`([^`]*)`"),
	}
	// underscores count only at word edges so snake_case names survive
	underscorePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(^|\W)__(\S(?:.*?\S)?)__(\W|$)`),
		regexp.MustCompile(`(^|\W)_(\S(?:.*?\S)?)_(\W|$)`),
	}
	headingPattern  = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s+`)
	bulletPattern   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
)

// StripMarkdown removes headings, bullets and emphasis markers from model output
func StripMarkdown(s string) string {
	s = headingPattern.ReplaceAllString(s, "")
	s = bulletPattern.ReplaceAllString(s, "")
	for _, p := range emphasisPatterns {
		s = p.ReplaceAllString(s, "${1}")
	}
	for _, p := range underscorePatterns {
		s = p.ReplaceAllString(s, "${1}${2}${3}")
	}
	return strings.TrimSpace(s)
}

// Parse decodes a finding from a model response. The JSON may be wrapped
// in a markdown code fence or surrounded by prose.
func Parse(raw []byte) (Finding, error) {
	text := string(raw)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return Finding{}, ErrNoFinding
	}

	var f Finding
	if err := json.Unmarshal([]byte(text[start:end+1]), &f); err != nil {
		return Finding{}, fmt.Errorf("failed to decode finding: %w", err)
	}

	f.Kind = Kind(strings.ToLower(strings.TrimSpace(string(f.Kind))))
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return Finding{}, fmt.Errorf("%w: name is missing", ErrNoFinding)
	}

	crops := f.RelatedCrops[:0]
	for _, c := range f.RelatedCrops {
		if c = strings.TrimSpace(c); c != "" {
			crops = append(crops, c)
		}
	}
	f.RelatedCrops = crops
	return f, nil
}
