package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestSupported(t *testing.T) {
	tests := []struct {
		fileName string
		want     bool
	}{
		{"paper.pdf", true},
		{"paper.PDF", true},
		{"notes.docx", true},
		{"readme.md", true},
		{"plain.txt", true},
		{"slides.pptx", false},
		{"archive.zip", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		if got := Supported(tt.fileName); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.fileName, got, tt.want)
		}
	}
}

func TestExtract_PlainText(t *testing.T) {
	text, err := Extract(context.Background(), "notes.txt", []byte("hello world"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "hello world" {
		t.Errorf("Extract() = %q, want %q", text, "hello world")
	}
}

func TestExtract_InvalidUTF8(t *testing.T) {
	_, err := Extract(context.Background(), "notes.txt", []byte{0xff, 0xfe, 0xfd})
	if err == nil {
		t.Fatal("Extract() expected error for invalid UTF-8")
	}
}

func TestExtract_UnsupportedType(t *testing.T) {
	_, err := Extract(context.Background(), "slides.pptx", []byte("x"))
	if err == nil {
		t.Fatal("Extract() expected error for unsupported type")
	}
}

func TestExtract_Docx(t *testing.T) {
	docXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t></w:r><w:r><w:t> paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(docXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	text, err := Extract(context.Background(), "doc.docx", buf.Bytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	lines := strings.Split(text, "\n")
	if len(lines) != 2 {
		t.Fatalf("Extract() returned %d lines, want 2: %q", len(lines), text)
	}
	if lines[0] != "First paragraph." {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "Second paragraph." {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestExtract_DocxMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("word/other.xml")
	f.Write([]byte("<x/>"))
	zw.Close()

	_, err := Extract(context.Background(), "doc.docx", buf.Bytes())
	if err == nil {
		t.Fatal("Extract() expected error for docx without document.xml")
	}
}
