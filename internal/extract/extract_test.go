package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>GitHub: github.com/janedoe</w:t></w:r></w:p>
</w:body>
</w:document>`

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func minimalDocx(t *testing.T) []byte {
	return buildZip(t, map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": `<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`,
	})
}

func TestTextFromBytes_Docx(t *testing.T) {
	text, err := TextFromBytes(context.Background(), minimalDocx(t), MimeDOCX, "resume.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") || !strings.Contains(text, "github.com/janedoe") {
		t.Fatalf("unexpected text %q", text)
	}
	if strings.Contains(text, "<w:t>") {
		t.Fatalf("xml tags leaked into text: %q", text)
	}
}

func TestTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	if _, err := TextFromBytes(context.Background(), minimalDocx(t), "application/zip", "test.bin"); err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
}

func TestTextFromBytes_RealZipRejected(t *testing.T) {
	data := buildZip(t, map[string]string{"notes.txt": "hello"})

	_, err := TextFromBytes(context.Background(), data, "application/zip", "notes.zip")
	if err == nil {
		t.Fatal("expected unsupported type error for zip")
	}
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "application/zip") {
		t.Fatalf("error should name the type: %v", err)
	}
}

func TestTextFromBytes_PlainText(t *testing.T) {
	in := "\xef\xbb\xbfSenior Backend Engineer  \r\n\r\n\r\n\r\n5+ years Go\r\n"
	text, err := TextFromBytes(context.Background(), []byte(in), "", "jd.txt")
	if err != nil {
		t.Fatalf("extract text: %v", err)
	}
	if text != "Senior Backend Engineer\n\n5+ years Go" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestTextFromBytes_SniffsOctetStreamText(t *testing.T) {
	text, err := TextFromBytes(context.Background(), []byte("plain resume body"), "application/octet-stream", "upload")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "plain resume body" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestTextFromBytes_Empty(t *testing.T) {
	_, err := TextFromBytes(context.Background(), []byte("  \n\t "), MimeText, "blank.txt")
	if !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestTextFromBytes_InvalidPDF(t *testing.T) {
	_, err := TextFromBytes(context.Background(), []byte("%PDF-1.4 garbage"), MimePDF, "x.pdf")
	if err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}

func TestTextFromBytes_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := TextFromBytes(ctx, []byte("x"), MimeText, "x.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReadUploadLimit(t *testing.T) {
	big := bytes.Repeat([]byte("a"), MaxUploadBytes+1)
	if _, err := ReadUpload(bytes.NewReader(big)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	data, err := ReadUpload(strings.NewReader("ok"))
	if err != nil || string(data) != "ok" {
		t.Fatalf("unexpected read result %q %v", data, err)
	}
}
