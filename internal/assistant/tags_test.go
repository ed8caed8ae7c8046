package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	tags := ParseTags("algebra, calculus, vectors")
	assert.Equal(t, []string{"algebra", "calculus", "vectors"}, tags)
	for _, tag := range tags {
		assert.Less(t, len(tag), 20)
	}
}

func TestParseTagsCleansMarkdownAndNewlines(t *testing.T) {
	tags := ParseTags("```\n#algebra\n- **calculus**\n, ,vectors\n```")
	assert.Equal(t, []string{"algebra", "calculus", "vectors"}, tags)
}

func TestParseTagsDropsOverlongAndCaps(t *testing.T) {
	long := strings.Repeat("x", 40)
	tags := ParseTags("a, b, " + long + ", c, d, e, f, g, h, i, j")
	assert.NotContains(t, tags, long)
	assert.Len(t, tags, maxTags)
}

func TestParseTagsEmptyInput(t *testing.T) {
	assert.Empty(t, ParseTags(""))
	assert.Empty(t, ParseTags(", ,\n,"))
}
