package relay

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"discord-audit-relay/models"

	"github.com/rs/zerolog"
)

// MaxAttachments is how many attachments are mirrored per message.
const MaxAttachments = 5

// Mirror downloads attachments so they can be uploaded again with the audit entry.
type Mirror struct {
	limit int
	log   zerolog.Logger
}

// NewMirror creates a Mirror. A limit <= 0 falls back to MaxAttachments.
func NewMirror(limit int, log zerolog.Logger) *Mirror {
	if limit <= 0 {
		limit = MaxAttachments
	}
	return &Mirror{
		limit: limit,
		log:   log.With().Str("component", "attachments").Logger(),
	}
}

// Fetch downloads the first attachments in order. Failed downloads are logged
// and left out; they never fail the whole call.
func (m *Mirror) Fetch(ctx context.Context, refs []models.AttachmentRef) []models.File {
	if len(refs) == 0 {
		return nil
	}
	if len(refs) > m.limit {
		refs = refs[:m.limit]
	}

	// Each call gets its own client so no connections outlive the event.
	client := &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	defer client.CloseIdleConnections()

	files := make([]models.File, 0, len(refs))
	for _, ref := range refs {
		data, err := download(ctx, client, ref.URL)
		if err != nil {
			m.log.Warn().Err(err).Str("filename", ref.Filename).Msg("Skipping attachment")
			continue
		}
		files = append(files, models.File{Name: ref.Filename, Data: data})
	}
	return files
}

func download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	return data, nil
}
