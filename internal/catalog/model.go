package catalog

import (
	"errors"
	"sort"
	"strings"
)

// Model is the descriptor handed to the fallback invoker. Pricing is always
// zero for GitHub Models, so only the modality and tokenizer tags are kept.
type Model struct {
	ID            string
	Name          string
	Description   string
	ContextLength int
	Modality      string
	Tokenizer     string
	HTMLURL       string
	Publisher     string
}

const (
	defaultModality  = "text"
	defaultTokenizer = "GitHub Models"
	maxDescription   = 150
)

// ErrNoModels reports a catalog with no usable model for a task.
var ErrNoModels = errors.New("no models available to pick from")

// ToModel converts a catalog entry into a descriptor.
func ToModel(e Entry) Model {
	m := Model{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Summary,
		Modality:    defaultModality,
		Tokenizer:   defaultTokenizer,
		HTMLURL:     e.HTMLURL,
		Publisher:   e.Publisher,
	}
	if e.Limits != nil {
		m.ContextLength = e.Limits.MaxInputTokens
	}
	return m
}

// ToModels converts entries in order.
func ToModels(entries []Entry) []Model {
	out := make([]Model, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToModel(e))
	}
	return out
}

// Find looks a model up by id.
func Find(models []Model, id string) (Model, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// Describe builds the descriptor for a model known only by id, e.g. the model
// that produced a prompt. The name is the last path segment of the id.
func Describe(id, description string, known []Model) Model {
	m := Model{
		ID:          id,
		Name:        ShortName(id),
		Description: description,
		Modality:    defaultModality,
		Tokenizer:   defaultTokenizer,
	}
	if found, ok := Find(known, id); ok {
		m.HTMLURL = found.HTMLURL
		m.Publisher = found.Publisher
	}
	return m
}

// ShortName returns the segment after the last "/" of a model id.
func ShortName(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 && i < len(id)-1 {
		return id[i+1:]
	}
	return id
}

// ShortDescription truncates long summaries to maxDescription runes for display.
func (m Model) ShortDescription() string {
	runes := []rune(m.Description)
	if len(runes) <= maxDescription {
		return m.Description
	}
	return string(runes[:maxDescription]) + "..."
}

// SortByName orders entries by display name.
func SortByName(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}
