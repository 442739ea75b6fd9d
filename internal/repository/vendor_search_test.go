package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"vendor-matching-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSearchServer fakes the _search endpoint and captures the last request body.
func newSearchServer(t *testing.T, status int, response string) (*VendorSearch, *map[string]interface{}) {
	t.Helper()
	var captured map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if len(body) > 0 {
			_ = json.Unmarshal(body, &captured)
		}
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	return NewVendorSearch(client, "vendors"), &captured
}

func TestVendorSearch_VendorsByCategory(t *testing.T) {
	search, captured := newSearchServer(t, http.StatusOK, `{
		"hits": {
			"total": {"value": 2},
			"hits": [
				{"_id": "dj-1", "_source": {"id": "dj-1", "name": "Beats", "category": "music",
					"startingPrice": 60000, "rating": 4.6, "reviewCount": 41,
					"attributes": {"genres": ["Bollywood"], "musicianType": "DJ", "soundEquipment": true}}},
				{"_id": "band-1", "_source": {"name": "Strings", "category": "music"}}
			]
		}
	}`)

	vendors, err := search.VendorsByCategory(context.Background(), models.CategoryMusic)

	require.NoError(t, err)
	require.Len(t, vendors, 2)

	assert.Equal(t, "dj-1", vendors[0].ID)
	require.NotNil(t, vendors[0].StartingPrice)
	assert.Equal(t, 60000.0, *vendors[0].StartingPrice)
	music, ok := vendors[0].Attributes.(*models.MusicAttributes)
	require.True(t, ok)
	assert.True(t, music.SoundEquipment)

	assert.Equal(t, "band-1", vendors[1].ID)
	assert.Nil(t, vendors[1].StartingPrice)

	query := (*captured)["query"].(map[string]interface{})
	filters := query["bool"].(map[string]interface{})["filter"].([]interface{})
	term := filters[0].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "music", term["category"])
}

func TestVendorSearch_VendorsByIDs(t *testing.T) {
	search, captured := newSearchServer(t, http.StatusOK, `{"hits": {"hits": []}}`)

	vendors, err := search.VendorsByIDs(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Empty(t, vendors)

	ids := (*captured)["query"].(map[string]interface{})["ids"].(map[string]interface{})["values"]
	assert.Equal(t, []interface{}{"a", "b"}, ids)
}

func TestVendorSearch_Errors(t *testing.T) {
	t.Run("index missing", func(t *testing.T) {
		search, _ := newSearchServer(t, http.StatusNotFound, `{"error": {"type": "index_not_found_exception"}, "status": 404}`)

		_, err := search.VendorsByCategory(context.Background(), models.CategoryVenue)

		assert.ErrorIs(t, err, ErrSearchFailed)
	})

	t.Run("malformed document", func(t *testing.T) {
		search, _ := newSearchServer(t, http.StatusOK, `{"hits": {"hits": [{"_id": "x", "_source": {"category": "venue", "attributes": {"capacityMax": "lots"}}}]}}`)

		_, err := search.VendorsByCategory(context.Background(), models.CategoryVenue)

		assert.ErrorIs(t, err, ErrDecodeFailed)
	})
}
