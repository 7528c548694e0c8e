package payload

import (
	"net/http"
	"strings"
	"time"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/pkg/portal"
)

type DocumentResponse struct {
	UUID         string     `json:"uuid"`
	Slug         string     `json:"slug"`
	Title        string     `json:"title"`
	PublishStart *time.Time `json:"publish_start"`
	PublishEnd   *time.Time `json:"publish_end"`
}

type DocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// ViewerLinkResponse hands the caller a signed, short-lived URL together
// with the watermark line the renderer stamps across the pages.
type ViewerLinkResponse struct {
	URL       string `json:"url"`
	Watermark string `json:"watermark"`
	ExpiresAt string `json:"expires_at"`
}

// ViewerDescriptorResponse is what the external renderer receives for a
// valid viewer token: where the file lives and what to stamp on it.
type ViewerDescriptorResponse struct {
	Document  string `json:"document"`
	Tenant    string `json:"tenant"`
	FilePath  string `json:"file_path"`
	Watermark string `json:"watermark"`
}

func GetSlugFrom(r *http.Request) string {
	str := portal.NewStringable(r.PathValue("slug"))

	return strings.TrimSpace(str.ToLower())
}

func GetDocumentResponse(d database.Document) DocumentResponse {
	return DocumentResponse{
		UUID:         d.UUID,
		Slug:         d.Slug,
		Title:        d.Title,
		PublishStart: d.PublishStart,
		PublishEnd:   d.PublishEnd,
	}
}

func GetDocumentsResponse(items []database.Document) DocumentsResponse {
	documents := make([]DocumentResponse, 0, len(items))

	for _, item := range items {
		documents = append(documents, GetDocumentResponse(item))
	}

	return DocumentsResponse{Documents: documents}
}
