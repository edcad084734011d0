package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/faunawatch/faunawatch-go/internal/model"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	c := New([]string{"person", "personne", "cow", "vache", "sheep", "mouton"})

	tests := []struct {
		name    string
		objects []model.DetectedObject
		want    model.Priority
	}{
		{
			name:    "person is high priority",
			objects: []model.DetectedObject{{Name: "person"}},
			want:    model.PriorityHigh,
		},
		{
			name:    "cat is normal priority",
			objects: []model.DetectedObject{{Name: "cat"}},
			want:    model.PriorityNormal,
		},
		{
			name:    "empty object list is normal",
			objects: nil,
			want:    model.PriorityNormal,
		},
		{
			name:    "matching is case insensitive on local name",
			objects: []model.DetectedObject{{Name: "VACHE"}},
			want:    model.PriorityHigh,
		},
		{
			name:    "matching is case insensitive on english name",
			objects: []model.DetectedObject{{Name: "inconnu", NameEN: "Sheep"}},
			want:    model.PriorityHigh,
		},
		{
			name: "one priority object among many is enough",
			objects: []model.DetectedObject{
				{Name: "oiseau"},
				{Name: "renard"},
				{Name: "mouton"},
			},
			want: model.PriorityHigh,
		},
		{
			name:    "unmatched english name stays normal",
			objects: []model.DetectedObject{{Name: "oiseau", NameEN: "bird"}},
			want:    model.PriorityNormal,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.Classify(tt.objects))
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	t.Parallel()

	c := New([]string{"person"})
	objects := []model.DetectedObject{{Name: "person"}}

	// Same input, same output, no state between calls.
	for i := 0; i < 3; i++ {
		assert.Equal(t, model.PriorityHigh, c.Classify(objects))
	}
	assert.Equal(t, []model.DetectedObject{{Name: "person"}}, objects)
}

func TestPriorityNames(t *testing.T) {
	t.Parallel()

	c := New([]string{"vache", "person"})

	names := c.PriorityNames([]model.DetectedObject{
		{Name: "vache"},
		{Name: "oiseau"},
		{Name: "inconnu", NameEN: "person"},
	})
	assert.Equal(t, []string{"vache", "person"}, names)
}

func TestNewNormalizesList(t *testing.T) {
	t.Parallel()

	c := New([]string{"  Person ", "", "VACHE"})
	assert.Equal(t, model.PriorityHigh, c.Classify([]model.DetectedObject{{Name: "person"}}))
	assert.Equal(t, model.PriorityHigh, c.Classify([]model.DetectedObject{{Name: "vache"}}))
	assert.Equal(t, model.PriorityNormal, c.Classify([]model.DetectedObject{{Name: ""}}))
}
