package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/melevanoronha/admin-console/internal/domain/catalog"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeBody returns the payload and its content type. No body yields (nil, "", nil).
func encodeBody(req Request) ([]byte, string, error) {
	switch {
	case req.Form != nil:
		return encodeMultipart(*req.Form)
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", err
		}
		return data, "application/json", nil
	default:
		return nil, "", nil
	}
}

// encodeMultipart writes fields then files, each in sorted key order, so the
// same form always produces the same parts. The boundary is left to the writer.
func encodeMultipart(form catalog.FormValues) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, name := range sortedKeys(form.Fields) {
		for _, value := range form.Fields[name] {
			if err := w.WriteField(name, value); err != nil {
				return nil, "", fmt.Errorf("write field %s: %w", name, err)
			}
		}
	}

	for _, name := range sortedKeys(form.Files) {
		for _, file := range form.Files[name] {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
				quoteEscaper.Replace(name), quoteEscaper.Replace(fileName(file))))
			contentType := file.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			h.Set("Content-Type", contentType)

			part, err := w.CreatePart(h)
			if err != nil {
				return nil, "", fmt.Errorf("create part %s: %w", name, err)
			}
			if _, err := part.Write(file.Data); err != nil {
				return nil, "", fmt.Errorf("write part %s: %w", name, err)
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func fileName(f catalog.File) string {
	if f.Name == "" {
		return "blob"
	}
	return f.Name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
