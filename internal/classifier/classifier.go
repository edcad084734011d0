// Package classifier decides the priority of a detection from the set of
// objects it contains. Classification is a pure function over a static
// priority list so it can be unit tested without any storage wired up.
package classifier

import (
	"strings"

	"github.com/faunawatch/faunawatch-go/internal/model"
)

// Classifier maps detected objects to a priority level.
type Classifier struct {
	prioritySet map[string]struct{}
}

// New builds a classifier from the configured priority species list.
// Matching is case-insensitive, so the list is normalized once here.
func New(prioritySpecies []string) *Classifier {
	set := make(map[string]struct{}, len(prioritySpecies))
	for _, name := range prioritySpecies {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return &Classifier{prioritySet: set}
}

// Classify returns PriorityHigh iff at least one object's name, checked
// case-insensitively against both the local-language and the English label,
// is in the priority set. An empty object list is always normal.
func (c *Classifier) Classify(objects []model.DetectedObject) model.Priority {
	for i := range objects {
		if c.isPriority(objects[i].Name) || c.isPriority(objects[i].NameEN) {
			return model.PriorityHigh
		}
	}
	return model.PriorityNormal
}

// PriorityNames returns the names of the objects that triggered a high
// classification, preferring the local-language label. Used to build the
// human-readable alert message.
func (c *Classifier) PriorityNames(objects []model.DetectedObject) []string {
	var names []string
	for i := range objects {
		if c.isPriority(objects[i].Name) {
			names = append(names, objects[i].Name)
		} else if c.isPriority(objects[i].NameEN) {
			names = append(names, objects[i].NameEN)
		}
	}
	return names
}

func (c *Classifier) isPriority(name string) bool {
	if name == "" {
		return false
	}
	_, ok := c.prioritySet[strings.ToLower(name)]
	return ok
}
