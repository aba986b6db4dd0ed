package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommentCellRoundTrip(t *testing.T) {
	comments := []Comment{
		{At: "2026-01-05T09:00:00Z", Author: "pat@school.edu", Text: "Projector flickers on boot"},
		{At: "2026-01-05T10:30:00Z", Author: "sam@school.edu", Text: "Swapped the HDMI cable, watching it"},
	}

	cell := encodeComments(comments)
	decoded := decodeComments(cell)
	assert.Equal(t, comments, decoded)
}

func TestEncodeCommentsFlattensNewlines(t *testing.T) {
	cell := encodeComments([]Comment{
		{At: "2026-01-05T09:00:00Z", Author: "pat@school.edu", Text: "line one\nline two"},
	})
	decoded := decodeComments(cell)
	assert.Len(t, decoded, 1)
	assert.Equal(t, "line one line two", decoded[0].Text)
}

func TestDecodeCommentsKeepsPipesInText(t *testing.T) {
	decoded := decodeComments("2026-01-05T09:00:00Z|pat@school.edu|error was A|B|C")
	assert.Len(t, decoded, 1)
	assert.Equal(t, "error was A|B|C", decoded[0].Text)
}

func TestDecodeCommentsToleratesLegacyCells(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want []Comment
	}{
		{"Empty cell", "   ", nil},
		{"Bare text", "printer jammed", []Comment{{Text: "printer jammed"}}},
		{"Author and text only", "pat@school.edu|printer jammed", []Comment{{Author: "pat@school.edu", Text: "printer jammed"}}},
		{"Blank lines skipped", "\npat@school.edu|ok\n\n", []Comment{{Author: "pat@school.edu", Text: "ok"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeComments(tt.cell))
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusOpen, StatusClaimed, StatusResolved, StatusClosed} {
		assert.True(t, validStatus(s), s)
	}
	assert.False(t, validStatus("Reopened"))
	assert.False(t, validStatus(""))
	assert.False(t, validStatus("open"))
}
