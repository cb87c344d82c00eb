package extract

import (
	"bytes"
	"fmt"
	"strings"
)

// buildPDF renders a minimal PDF 1.4 document with one page per entry. Each
// string becomes its own text run, laid out top to bottom.
func buildPDF(pages [][]string) []byte {
	// 1 catalog, 2 page tree, 3 font, then a page/content pair per page.
	const firstPageObj = 4
	total := 3 + 2*len(pages)

	var buf bytes.Buffer
	offsets := make([]int, total+1)
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", firstPageObj+2*i))
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, items := range pages {
		pageObj := firstPageObj + 2*i
		contentObj := pageObj + 1
		writeObj(pageObj, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			contentObj,
		))
		stream := contentStream(items)
		writeObj(contentObj, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", total+1)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= total; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", total+1, xref)
	return buf.Bytes()
}

func contentStream(items []string) string {
	var b strings.Builder
	for i, item := range items {
		// x grows and y shrinks so both row and column ordering agree.
		fmt.Fprintf(&b, "BT /F1 12 Tf 1 0 0 1 %d %d Tm (%s) Tj ET\n", 72+i, 720-20*i, escapePDFString(item))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func escapePDFString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
