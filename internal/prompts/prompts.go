// Package prompts embeds the task prompt templates sent to the report
// pipeline. Each task template may reference the shared {global_prompt}
// persona block, interpolated at load time.
package prompts

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed *.txt
var promptFS embed.FS

const globalPlaceholder = "{global_prompt}"

// Set holds the fully interpolated task prompts.
type Set struct {
	Prediction    string
	Answers       string
	YesNo         string
	Compatibility string
	Qualities     string
}

// Load reads all embedded templates and resolves the global persona block.
func Load() (*Set, error) {
	global, err := read("global_prompt.txt")
	if err != nil {
		return nil, err
	}

	set := &Set{}
	for name, dst := range map[string]*string{
		"prediction_prompt.txt":    &set.Prediction,
		"answers_prompt.txt":       &set.Answers,
		"yes_no_prompt.txt":        &set.YesNo,
		"compatibility_prompt.txt": &set.Compatibility,
		"qualities_prompt.txt":     &set.Qualities,
	} {
		text, err := read(name)
		if err != nil {
			return nil, err
		}
		*dst = strings.ReplaceAll(text, globalPlaceholder, global)
	}

	return set, nil
}

func read(name string) (string, error) {
	data, err := promptFS.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt %s: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}
