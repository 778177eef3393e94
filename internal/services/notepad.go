package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// NotepadCreator is the external note-taking collaborator: create a note,
// get back its URL path. Satisfied by NotepadClient.
type NotepadCreator interface {
	CreateNote(ctx context.Context, title string) (string, error)
	CreateChallengeNote(ctx context.Context, title string, points int) (string, error)
}

// NotepadClient talks to a HedgeDoc-compatible pad service. Calls are
// bounded by the configured timeout and redirects are not followed: the
// service answers note creation with a redirect whose Location is the pad.
type NotepadClient struct {
	baseURL string
	client  *http.Client
}

func NewNotepadClient(baseURL string, timeout time.Duration) *NotepadClient {
	return &NotepadClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *NotepadClient) CreateNote(ctx context.Context, title string) (string, error) {
	body := title + "\n" + strings.Repeat("=", len(title))
	return c.post(ctx, body)
}

func (c *NotepadClient) CreateChallengeNote(ctx context.Context, title string, points int) (string, error) {
	body := title + "\n" + strings.Repeat("=", len(title)) +
		"\n|Points|\n----\n" + strconv.Itoa(points)
	return c.post(ctx, body)
}

func (c *NotepadClient) post(ctx context.Context, markdown string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/new", strings.NewReader(markdown))
	if err != nil {
		return "", fmt.Errorf("failed to build notepad request: %w", err)
	}
	req.Header.Set("Content-Type", "text/markdown")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("notepad request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return "", fmt.Errorf("notepad service returned status %d", resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("notepad service returned no Location header")
	}
	return strings.TrimPrefix(location, "/"), nil
}
