package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// makePDF builds a minimal n-page PDF. Page i (0-based) gets a MediaBox
// width of base+i points, so after a merge every page can be traced
// back to (input, page index) by width alone.
func makePDF(t *testing.T, n int, base float64) []byte {
	t.Helper()
	if n < 1 {
		t.Fatalf("makePDF: need at least one page, got %d", n)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	kids := make([]string, n)
	for i := 0; i < n; i++ {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
		strings.Join(kids, " "), n))

	for i := 0; i < n; i++ {
		pageNr := 3 + 2*i
		streamNr := pageNr + 1
		writeObj(fmt.Sprintf(
			"%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.0f 842] /Resources << >> /Contents %d 0 R >>\nendobj\n",
			pageNr, base+float64(i), streamNr))
		content := "BT ET\n"
		writeObj(fmt.Sprintf(
			"%d 0 obj\n<< /Length %d >>\nstream\n%sendstream\nendobj\n",
			streamNr, len(content), content))
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefPos)

	return buf.Bytes()
}

// makeEncryptedPDF wraps makePDF output in AES encryption with a user
// password, so opening it without the password fails.
func makeEncryptedPDF(t *testing.T, n int, base float64) []byte {
	t.Helper()
	plain := makePDF(t, n, base)

	conf := model.NewDefaultConfiguration()
	conf.UserPW = "secret"
	conf.OwnerPW = "secret"

	var out bytes.Buffer
	if err := pdfapi.Encrypt(bytes.NewReader(plain), &out, conf); err != nil {
		t.Fatalf("encrypting fixture: %v", err)
	}
	return out.Bytes()
}

// pageWidths reads back the page dimensions of a produced PDF, in page
// order.
func pageWidths(t *testing.T, data []byte) []float64 {
	t.Helper()
	dims, err := pdfapi.PageDims(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		t.Fatalf("reading page dims: %v", err)
	}
	widths := make([]float64, len(dims))
	for i, d := range dims {
		widths[i] = d.Width
	}
	return widths
}

// countPages reads back the page count of a produced PDF.
func countPages(t *testing.T, data []byte) int {
	t.Helper()
	n, err := pdfapi.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		t.Fatalf("counting pages: %v", err)
	}
	return n
}
