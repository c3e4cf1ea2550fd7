package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// upload is a file normalized to a data-URI, ready to be stored inline.
type upload struct {
	DataURI string
	Name    string
	Type    string
	Size    int64
}

// inlineFile is the JSON alternative to a multipart "file" part.
type inlineFile struct {
	Data string `json:"data"`
	Tipo string `json:"tipo"`
	Name string `json:"name"`
}

var errNoFile = errors.New("no file part")

func isMultipart(c *gin.Context) bool {
	mt, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// readMultipartFile reads the "file" part. It returns errNoFile when the part
// is absent.
func readMultipartFile(c *gin.Context) (upload, error) {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return upload{}, errNoFile
	}
	if err != nil {
		return upload{}, err
	}
	if fh.Filename == "" {
		return upload{}, badRequest("No file selected")
	}
	f, err := fh.Open()
	if err != nil {
		return upload{}, err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return upload{}, err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = mimetype.Detect(raw).String()
	}
	return upload{
		DataURI: dataURI(ct, base64.StdEncoding.EncodeToString(raw)),
		Name:    fh.Filename,
		Type:    ct,
		Size:    int64(len(raw)),
	}, nil
}

// normalizeInline accepts either a complete data-URI or raw base64 text.
// Raw base64 gets the declared type, or a sniffed one.
func normalizeInline(in inlineFile) (upload, error) {
	data := strings.TrimSpace(in.Data)
	if data == "" {
		return upload{}, errNoFile
	}
	if strings.HasPrefix(data, "data:") {
		ct, payload, ok := splitDataURI(data)
		if !ok {
			return upload{}, badRequest("invalid data URI")
		}
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return upload{}, badRequest("invalid base64 data")
		}
		return upload{DataURI: data, Name: in.Name, Type: ct, Size: int64(len(raw))}, nil
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return upload{}, badRequest("invalid base64 data")
	}
	ct := in.Tipo
	if ct == "" {
		ct = mimetype.Detect(raw).String()
	}
	return upload{DataURI: dataURI(ct, data), Name: in.Name, Type: ct, Size: int64(len(raw))}, nil
}

func dataURI(contentType, payload string) string {
	return "data:" + contentType + ";base64," + payload
}

func splitDataURI(s string) (contentType, payload string, ok bool) {
	header, payload, found := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !found || !strings.HasSuffix(header, ";base64") {
		return "", "", false
	}
	return strings.TrimSuffix(header, ";base64"), payload, true
}
