// Package prompt assembles the instructions sent with every photo.
package prompt

import "strings"

// Hint is a coarse category chosen by the user to bias classification
type Hint string

const (
	HintNone   Hint = ""
	HintPlant  Hint = "식물"
	HintInsect Hint = "곤충"
	HintBird   Hint = "새"
	HintOther  Hint = "기타"
)

// ParseHint maps a form value onto the closed hint set.
// The second return value is false for values outside the set.
func ParseHint(raw string) (Hint, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return HintNone, true
	case "식물", "plant":
		return HintPlant, true
	case "곤충", "insect":
		return HintInsect, true
	case "새", "bird":
		return HintBird, true
	case "기타", "other":
		return HintOther, true
	default:
		return HintNone, false
	}
}

// Informative reports whether the hint narrows the search at all
func (h Hint) Informative() bool {
	return h == HintPlant || h == HintInsect || h == HintBird
}

// Prompt is the pair of instructions for one inference call
type Prompt struct {
	System string
	User   string
}

var systemPrompt = strings.Join([]string{
	"You are an expert in biological classification.",
	"Return ONLY valid JSON. No extra text, no markdown, no code blocks.",
	"All fields must be present. If unsure, still make a best guess.",
	"If you cannot identify the exact species with confidence, name a higher-level taxonomic group (genus, family or order) instead of guessing a specific species, and lower the confidence.",
	"confidence must be a number between 0 and 1.",
	"rationale_points must contain exactly 3 short strings.",
	"If there are no warnings, use an empty array for warnings.",
	"",
	"Return in this exact JSON shape (example values shown):",
	"{",
	`  "top1": {`,
	`    "name_ko": "한국어 이름",`,
	`    "name_en": "English name",`,
	`    "confidence": 0.73,`,
	`    "rationale_points": ["point 1", "point 2", "point 3"]`,
	"  },",
	`  "warnings": []`,
	"}",
}, "\n")

// SystemInstruction returns the fixed instruction describing the result shape
func SystemInstruction() string {
	return systemPrompt
}

// Build returns the instructions for a photo with the given hint
func Build(hint Hint) Prompt {
	user := "Analyze this organism in the image."
	if hint.Informative() {
		user += " Hint category: " + string(hint)
	}
	return Prompt{
		System: systemPrompt,
		User:   user,
	}
}
