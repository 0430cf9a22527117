package fusion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
)

// analyzeForm carries the multipart fields of one analysis request.
// Exactly one of imageURL and image is set.
type analyzeForm struct {
	imageURL    string
	filename    string
	contentType string
	image       []byte
	survey      []byte
}

func (c *Client) postMultipart(ctx context.Context, path string, form analyzeForm) (*domain.InferenceResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if len(form.image) > 0 {
		part, err := writer.CreatePart(imagePartHeader(form.filename, form.contentType))
		if err != nil {
			return nil, fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(form.image); err != nil {
			return nil, fmt.Errorf("write image part: %w", err)
		}
	} else {
		if err := writer.WriteField("image_url", form.imageURL); err != nil {
			return nil, fmt.Errorf("write image_url field: %w", err)
		}
	}

	survey := form.survey
	if len(survey) == 0 {
		survey = []byte("{}")
	}
	if err := writer.WriteField("survey", string(survey)); err != nil {
		return nil, fmt.Errorf("write survey field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, newHTTPStatusError("analyze", resp)
	}

	var decoded domain.InferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode analyze response: %w", err)
	}
	return &decoded, nil
}

func imagePartHeader(filename, contentType string) textproto.MIMEHeader {
	if filename == "" {
		filename = "image"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image_file"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	return h
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func newHTTPStatusError(operation string, resp *http.Response) *HTTPStatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &HTTPStatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}
}
