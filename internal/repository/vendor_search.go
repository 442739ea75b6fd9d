// internal/repository/vendor_search.go
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"vendor-matching-workers/internal/matching"
	"vendor-matching-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrSearchFailed = errors.New("search failed")

// maxSearchSize bounds a single category read; the index holds one document
// per vendor so categories stay well below it.
const maxSearchSize = 10000

var _ matching.Catalog = (*VendorSearch)(nil)

// VendorSearch serves the catalog from the vendor search index. Documents
// use the same JSON shape as models.Vendor.
type VendorSearch struct {
	client *elasticsearch.Client
	index  string
}

func NewVendorSearch(client *elasticsearch.Client, index string) *VendorSearch {
	return &VendorSearch{client: client, index: index}
}

func (s *VendorSearch) VendorsByCategory(ctx context.Context, category models.Category) ([]models.Vendor, error) {
	return s.search(ctx, map[string]interface{}{
		"bool": map[string]interface{}{
			"filter": []interface{}{
				map[string]interface{}{"term": map[string]interface{}{"category": string(category)}},
				map[string]interface{}{"term": map[string]interface{}{"isActive": true}},
			},
		},
	})
}

func (s *VendorSearch) VendorsByIDs(ctx context.Context, ids []string) ([]models.Vendor, error) {
	if len(ids) == 0 {
		return []models.Vendor{}, nil
	}
	return s.search(ctx, map[string]interface{}{
		"ids": map[string]interface{}{"values": ids},
	})
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *VendorSearch) search(ctx context.Context, query map[string]interface{}) ([]models.Vendor, error) {
	body, err := json.Marshal(map[string]interface{}{
		"query": query,
		"sort":  []interface{}{map[string]interface{}{"id": "asc"}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: build query: %v", ErrSearchFailed, err)
	}

	size := maxSearchSize
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrDecodeFailed, err)
	}

	vendors := make([]models.Vendor, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		var v models.Vendor
		if err := json.Unmarshal(hit.Source, &v); err != nil {
			return nil, fmt.Errorf("%w: vendor %s: %v", ErrDecodeFailed, hit.ID, err)
		}
		if v.ID == "" {
			v.ID = hit.ID
		}
		vendors = append(vendors, v)
	}
	return vendors, nil
}
