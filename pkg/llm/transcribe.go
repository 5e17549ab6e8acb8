package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/lucasmr/memoria/pkg/model"
)

type transcriptionResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Transcribe uploads a recorded clip to the transcription endpoint and
// returns its text. The clip file is removed afterwards, success or not.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	defer os.Remove(audioPath)

	file, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: open clip: %v", model.ErrTranscription, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("%w: build form: %v", model.ErrTranscription, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("%w: read clip: %v", model.ErrTranscription, err)
	}
	_ = writer.WriteField("model", c.cfg.TranscribeModel)
	_ = writer.WriteField("language", c.cfg.Language)
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: finish form: %v", model.ErrTranscription, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", model.ErrTranscription, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrTranscription, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", model.ErrTranscription, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", model.ErrTranscription, resp.StatusCode, string(respBody))
	}

	var out transcriptionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", model.ErrTranscription, err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("%w: %s", model.ErrTranscription, out.Error.Message)
	}
	return out.Text, nil
}
