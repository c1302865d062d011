package title

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantCategory string
		wantTitle    string
	}{
		{name: "category prefix", in: "Work - Standup", wantCategory: "Work", wantTitle: "Standup"},
		{name: "no delimiter", in: "Standup", wantTitle: "Standup"},
		{name: "blank prefix", in: " - Standup", wantTitle: " - Standup"},
		{name: "splits on first delimiter only", in: "Work - Clients - Call", wantCategory: "Work", wantTitle: "Clients - Call"},
		{name: "empty", in: "", wantTitle: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantTitle, got.Title)
		})
	}
}

func TestConstruct(t *testing.T) {
	assert.Equal(t, "Work - Standup", Construct("Work", "Standup"))
	assert.Equal(t, "Standup", Construct("", "Standup"))
	assert.Equal(t, "Standup", Construct("   ", "Standup"))
}

func TestConstructFull(t *testing.T) {
	assert.Equal(t, "Work - Clients - Call", ConstructFull("Work", "Clients", "Call"))
	assert.Equal(t, "Work - Call", ConstructFull("Work", "", "Call"))
	assert.Equal(t, "Call", ConstructFull("", "", "Call"))
}

func TestRoundTrip(t *testing.T) {
	p := Parse(Construct("Work", "Standup"))
	assert.Equal(t, "Work", p.Category)
	assert.Equal(t, "Standup", p.Title)

	p = Parse(Construct("", "Standup"))
	assert.Equal(t, "", p.Category)
	assert.Equal(t, "Standup", p.Title)
}
