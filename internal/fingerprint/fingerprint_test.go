package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"docrag/internal/document"
)

func TestCompute_KnownValue(t *testing.T) {
	sum := sha256.Sum256([]byte("hello world"))
	want := hex.EncodeToString(sum[:])[:16]

	assert.Equal(t, want, Compute("  Hello\n\tWORLD  ", document.DocTypeText))
	assert.Len(t, Compute("anything", document.DocTypeText), Length)
}

func TestCompute_TextLikeIgnoresCaseAndWhitespace(t *testing.T) {
	for _, dt := range []document.DocType{document.DocTypeText, document.DocTypeHTML, document.DocTypeMarkdown} {
		t.Run(string(dt), func(t *testing.T) {
			a := Compute("Hello   World", dt)
			b := Compute("hello world", dt)
			c := Compute("\n hello\tworld \n", dt)
			assert.Equal(t, a, b)
			assert.Equal(t, a, c)
		})
	}
}

func TestCompute_PDFOnlyTrims(t *testing.T) {
	assert.Equal(t, Compute("Hello World", document.DocTypePDF), Compute("  Hello World\n", document.DocTypePDF))
	assert.NotEqual(t, Compute("Hello World", document.DocTypePDF), Compute("hello world", document.DocTypePDF))
	assert.NotEqual(t, Compute("Hello  World", document.DocTypePDF), Compute("Hello World", document.DocTypePDF))
}

func TestCompute_Deterministic(t *testing.T) {
	first := Compute("same input", document.DocTypeMarkdown)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Compute("same input", document.DocTypeMarkdown))
	}
	assert.NotEqual(t, first, Compute("other input", document.DocTypeMarkdown))
}

func TestPrepare(t *testing.T) {
	assert.Equal(t, "a b c", Prepare(" A\nB  c ", document.DocTypeText))
	assert.Equal(t, "A\nB  c", Prepare(" A\nB  c ", document.DocTypePDF))
	assert.Equal(t, "", Prepare("   ", document.DocTypeHTML))
}
