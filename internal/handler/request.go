package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/offerhub/offerhub-go/internal/model"
)

// multipartMemory is the part of a multipart body kept in memory; the rest spills to disk.
const multipartMemory = 8 << 20

// requestBody gives uniform access to form, multipart, and JSON request bodies.
type requestBody struct {
	r    *http.Request
	json map[string]any
}

// readBody parses the request body according to its content type.
func readBody(w http.ResponseWriter, r *http.Request, maxBytes int64) (*requestBody, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	body := &requestBody{r: r}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, err
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
	default:
		if r.ContentLength == 0 {
			return body, nil
		}
		if err := json.NewDecoder(r.Body).Decode(&body.json); err != nil && err != io.EOF {
			return nil, err
		}
	}
	return body, nil
}

// String returns a text field. JSON numbers and booleans are formatted as text.
func (b *requestBody) String(name string) string {
	if b.json != nil {
		switch v := b.json[name].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		case nil:
			return ""
		default:
			return fmt.Sprint(v)
		}
	}
	return b.r.PostFormValue(name)
}

// Bool interprets a checkbox-style field.
func (b *requestBody) Bool(name string) bool {
	switch b.String(name) {
	case "true", "1", "on", "yes":
		return true
	default:
		return false
	}
}

// Files reads every file uploaded under name.
func (b *requestBody) Files(name string) ([]model.Upload, error) {
	if b.r.MultipartForm == nil {
		return nil, nil
	}

	headers := b.r.MultipartForm.File[name]
	uploads := make([]model.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, model.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}
