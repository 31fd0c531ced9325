package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrag/internal/chunking"
	"docrag/internal/document"
	"docrag/internal/normalize/pdftest"
)

func trimmedPages(pages []document.PageSpan) map[int]string {
	out := make(map[int]string, len(pages))
	for _, p := range pages {
		out[p.PageNumber] = strings.TrimSpace(p.Text)
	}
	return out
}

func TestPDFExtractor_ExtractPages_SkipsEmptyPage(t *testing.T) {
	data := pdftest.Build([]string{"alpha beta", "", "invoice total due"})

	pages, err := NewPDFExtractor().ExtractPages(data)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, 1, pages[0].PageNumber)
	assert.Equal(t, 3, pages[1].PageNumber)
	assert.Equal(t, map[int]string{
		1: "alpha beta",
		3: "invoice total due",
	}, trimmedPages(pages))
}

func TestPDFExtractor_ExtractPages_AllEmpty(t *testing.T) {
	pages, err := NewPDFExtractor().ExtractPages(pdftest.Build([]string{"", ""}))
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestNormalize_RealPDF(t *testing.T) {
	data := pdftest.Build([]string{"alpha beta gamma", "", "invoice total due", "delta epsilon"})

	res, err := New().Normalize(data, document.DocTypePDF)
	require.NoError(t, err)
	require.Len(t, res.Pages, 3)
	assert.Equal(t, JoinPages(res.Pages), res.CanonicalText)
	assert.Equal(t, []string{"alpha", "beta", "gamma", "invoice", "total", "due", "delta", "epsilon"}, strings.Fields(res.CanonicalText))
}

func TestNormalize_RealPDF_PageAttribution(t *testing.T) {
	data := pdftest.Build([]string{"alpha beta gamma", "", "invoice total due", "delta epsilon"})

	res, err := New().Normalize(data, document.DocTypePDF)
	require.NoError(t, err)

	chunker, err := chunking.NewChunker(20, 0)
	require.NoError(t, err)
	attributor := chunking.NewWordOverlapAttributor()

	got := map[string]int{}
	for _, chunk := range chunker.Split(res.CanonicalText) {
		got[chunk] = attributor.Attribute(chunk, res.Pages)
	}
	assert.Equal(t, map[string]int{
		"alpha beta gamma":  1,
		"invoice total due": 3,
		"delta epsilon":     4,
	}, got)
}
