package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
	"strings"

	"github.com/datambit/datambit/client/auth/transport"
	"github.com/datambit/datambit/schema"
)

// File is a named multipart attachment.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// NewFile creates a file attachment from memory.
func NewFile(name string, content []byte) *File {
	return &File{Name: name, Content: bytes.NewReader(content)}
}

// Upload sends media files for analysis and returns the upload ID.
func (c *Client) Upload(ctx context.Context, media string, files ...*File) (string, error) {
	switch media {
	case schema.MediaAudio, schema.MediaImage, schema.MediaVideo:
	default:
		return "", fmt.Errorf("unsupported media type: %q", media)
	}
	if len(files) == 0 {
		return "", errors.New("no files to upload")
	}
	if len(files) > schema.MaxUploadFiles {
		return "", fmt.Errorf("too many files: %d, max: %d", len(files), schema.MaxUploadFiles)
	}
	form, err := newForm(nil, files)
	if err != nil {
		return "", err
	}
	ctx, cancel := c.withUploadTimeout(ctx)
	defer cancel()
	return send[string](ctx, c, form.request(fmt.Sprintf(schema.EndpointUploadFormat, media)))
}

func (c *Client) withUploadTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.uploadTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.uploadTimeout)
}

type form struct {
	body        *bytes.Buffer
	contentType string
}

func (f *form) request(endpoint string) *transport.Request {
	header := http.Header{}
	header.Set("Content-Type", f.contentType)
	return &transport.Request{
		Endpoint:     endpoint,
		Method:       http.MethodPost,
		Body:         f.body.Bytes(),
		FormData:     true,
		RequiresAuth: true,
		Header:       header,
	}
}

// newForm encodes fields followed by every file as a "files" part.
func newForm(fields map[string]string, files []*File) (*form, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	for i, file := range files {
		if file == nil || file.Content == nil {
			return nil, fmt.Errorf("file %d had no content", i)
		}
		part, err := writer.CreatePart(fileHeader(file))
		if err != nil {
			return nil, err
		}
		if _, err = io.Copy(part, file.Content); err != nil {
			return nil, fmt.Errorf("failed to read %v: %w", file.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return &form{body: body, contentType: writer.FormDataContentType()}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func fileHeader(file *File) textproto.MIMEHeader {
	header := make(textproto.MIMEHeader)
	name := path.Base(file.Name)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(name)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	return header
}
