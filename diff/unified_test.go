package diff_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nicolagi/kicadcore/diff"
)

type contentErrorNode struct {
	err error
}

func (contentErrorNode) SameAs(diff.Node) bool {
	return false
}

func (node contentErrorNode) Content() (string, error) {
	return "", node.err
}

func TestUnifiedIfNodesSameNoDiff(t *testing.T) {
	a := diff.StringNode("identical")
	diffOutput, err := diff.Unified(a, a, rand.Intn(100))
	assert.Empty(t, diffOutput)
	assert.Nil(t, err)
}

func TestUnifiedPassesContentError(t *testing.T) {
	a := contentErrorNode{err: errors.New("any error")}
	b := contentErrorNode{err: nil}
	for _, pair := range [][2]diff.Node{
		{a, a},
		{a, b},
		{b, a},
	} {
		diffOutput, err := diff.Unified(pair[0], pair[1], rand.Intn(100))
		assert.Equal(t, "", diffOutput)
		assert.True(t, errors.Is(err, a.err))
	}
}

// From https://www.gnu.org/software/diffutils/manual/html_node/Binary.html:
// diff determines whether a file is text or binary by checking the first few
// bytes in the file; the exact number of bytes is system dependent, but it is
// typically several thousand. If every byte in that part of the file is
// non-null, diff considers the file to be text; otherwise it considers the file
// to be binary.
func TestUnifiedRecognizesBinaryFiles(t *testing.T) {
	a := diff.ByteNode{0}
	b := diff.ByteNode{1}
	output, err := diff.Unified(a, b, 3)
	assert.Equal(t, "Binary files differ\n", output)
	assert.Nil(t, err)
	output, err = diff.Unified(a, a, 3)
	assert.Equal(t, "", output)
	assert.Nil(t, err)
}

func TestUnifiedProducesHunkHeaders(t *testing.T) {
	left := diff.StringNode("one\ntwo\nthree\nfour\nfive\n")
	right := diff.StringNode("one\ntwo\nTHREE\nfour\nfive\n")
	out, err := diff.Unified(left, right, 1)
	assert.Nil(t, err)
	assert.Contains(t, out, "@@ -2,3 +2,3 @@")
	assert.Contains(t, out, "-three")
	assert.Contains(t, out, "+THREE")
}

func TestUnifiedAppendOnlyProducesSingleHunk(t *testing.T) {
	left := diff.StringNode("a\nb\nc\n")
	right := diff.StringNode("a\nb\nc\nd\n")
	out, err := diff.Unified(left, right, 3)
	assert.Nil(t, err)
	assert.Equal(t, 1, countHunks(out))
	assert.Contains(t, out, "+d")
}

func countHunks(s string) int {
	count := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '@' && s[i+1] == '@' && (i == 0 || s[i-1] == '\n') {
			count++
		}
	}
	return count
}

func TestUnifiedEmptyForIdenticalContent(t *testing.T) {
	left := diff.StringNode("same\n")
	right := diff.StringNode("same\n")
	out, err := diff.Unified(left, right, 3)
	assert.Nil(t, err)
	assert.Empty(t, out)
}
