package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"claims-registry/internal/claims/registry"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/models"
)

// DefaultSearchIndex is used when no index name is configured.
const DefaultSearchIndex = "claims"

// SearchIndexer mirrors claims into Elasticsearch, one document per
// session and claim id.
type SearchIndexer struct {
	client *elasticsearch.Client
	index  string
}

var _ registry.Indexer = (*SearchIndexer)(nil)

func NewSearchIndexer(client *elasticsearch.Client, index string) *SearchIndexer {
	if index == "" {
		index = DefaultSearchIndex
	}
	return &SearchIndexer{client: client, index: index}
}

type claimDocument struct {
	SessionID string `json:"sessionId"`
	models.Claim
}

// DocumentID is the mirror document id of a claim.
func DocumentID(sessionID, claimID string) string {
	return sessionID + ":" + claimID
}

func (s *SearchIndexer) Index(ctx context.Context, sessionID string, c models.Claim) error {
	body, err := json.Marshal(claimDocument{SessionID: sessionID, Claim: c})
	if err != nil {
		return apperrors.NewSearchIndexFailedError("encode", err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: DocumentID(sessionID, c.ID),
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return apperrors.NewSearchIndexFailedError("index", err)
	}
	defer drain(res)

	if res.IsError() {
		return apperrors.NewSearchIndexFailedError("index", fmt.Errorf("index request failed: %s", res.Status()))
	}
	return nil
}

// Remove deletes the mirror document. A document that is already gone is
// not an error.
func (s *SearchIndexer) Remove(ctx context.Context, sessionID, id string) error {
	req := esapi.DeleteRequest{
		Index:      s.index,
		DocumentID: DocumentID(sessionID, id),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return apperrors.NewSearchIndexFailedError("delete", err)
	}
	defer drain(res)

	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return apperrors.NewSearchIndexFailedError("delete", fmt.Errorf("delete request failed: %s", res.Status()))
	}
	return nil
}

func drain(res *esapi.Response) {
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}
