package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextFromBytesDocx(t *testing.T) {
	data := buildDocx(t, `<w:document><w:body><w:p><w:r><w:t>Senior Engineer</w:t></w:r></w:p><w:p><w:r><w:t>Acme Corp</w:t></w:r></w:p></w:body></w:document>`)

	text, err := TextFromBytes(context.Background(), data, mimeDOCX, "resume.docx")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if !strings.Contains(text, "Senior Engineer") || !strings.Contains(text, "Acme Corp") {
		t.Fatalf("unexpected extracted text: %q", text)
	}
	if !strings.Contains(text, "Senior Engineer\n") {
		t.Fatalf("expected paragraph break after first paragraph, got %q", text)
	}
}

func TestTextFromBytesDocxDisguisedAsZip(t *testing.T) {
	data := buildDocx(t, `<w:document><w:body><w:p><w:r><w:t>hello</w:t></w:r></w:p></w:body></w:document>`)

	text, err := TextFromBytes(context.Background(), data, "application/zip", "resume.docx")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if text != "hello" {
		t.Fatalf("expected %q, got %q", "hello", text)
	}
}

func TestTextFromBytesUnsupportedMime(t *testing.T) {
	_, err := TextFromBytes(context.Background(), []byte("plain"), "image/png", "photo.png")
	if err == nil {
		t.Fatal("expected error for unsupported mime type")
	}
	if !strings.Contains(err.Error(), "unsupported mime type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := ownerID + "/" + fileName
	m.objects[key] = data
	return key, int64(len(data)), "application/octet-stream", nil
}

func (m *memStore) SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.objects[storageKey] = data
	return int64(len(data)), nil
}

func (m *memStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	data, ok := m.objects[storageKey]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestTextSavesDerivedCopy(t *testing.T) {
	store := newMemStore()
	store.objects["owner/resume.docx"] = buildDocx(t, `<w:document><w:body><w:p><w:r><w:t>Chronology</w:t></w:r></w:p></w:body></w:document>`)

	text, err := Text(context.Background(), store, "owner/resume.docx", mimeDOCX, "resume.docx")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "Chronology" {
		t.Fatalf("expected %q, got %q", "Chronology", text)
	}

	derived, ok := store.objects[ExtractedKey("owner/resume.docx")]
	if !ok {
		t.Fatal("expected derived .extracted.txt copy to be saved")
	}
	if string(derived) != "Chronology" {
		t.Fatalf("derived copy mismatch: %q", string(derived))
	}
}
