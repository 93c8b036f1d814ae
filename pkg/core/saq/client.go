// Package saq queries the SAQ (Quebec liquor board) product catalog through
// its public GraphQL storefront API.
package saq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	baseURL = "https:"
	apiURL  = "https://catalog-service.adobe.io/graphql"

	// Storefront identity headers captured from the public site.
	apiKey        = "7a7d7422bd784f2481a047e03a73feaf"
	environmentID = "2ce24571-9db9-4786-84a9-5f129257ccbb"
	customerGroup = "b6589fc6ab0dc82cf12099d1c2d40ab994e8410c"
)

const searchQuery = `
query productSearch(
  $phrase: String!,
  $pageSize: Int,
  $currentPage: Int = 1,
  $filter: [SearchClauseInput!],
  $sort: [ProductSearchSortInput!],
  $context: QueryContextInput
) {
  productSearch(
    phrase: $phrase,
    page_size: $pageSize,
    current_page: $currentPage,
    filter: $filter,
    sort: $sort,
    context: $context
  ) {
    items {
      product {
        name
        canonical_url
        price_range {
          minimum_price {
            final_price {
              value
              currency
            }
            regular_price {
              value
              currency
            }
          }
        }
      }
      productView {
        attributes {
          name
          value
        }
      }
    }
  }
}
`

// Price is one price point in the catalog's currency.
type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// Product is the best catalog match for a search phrase.
type Product struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Size         string `json:"size"`
	PriceFinal   Price  `json:"price_final"`
	PriceRegular Price  `json:"price_regular"`
}

// Client calls the SAQ storefront search endpoint.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type searchRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type searchResponse struct {
	Data struct {
		ProductSearch struct {
			Items []searchItem `json:"items"`
		} `json:"productSearch"`
	} `json:"data"`
}

type searchItem struct {
	Product struct {
		Name         string `json:"name"`
		CanonicalURL string `json:"canonical_url"`
		PriceRange   struct {
			MinimumPrice struct {
				FinalPrice   Price `json:"final_price"`
				RegularPrice Price `json:"regular_price"`
			} `json:"minimum_price"`
		} `json:"price_range"`
	} `json:"product"`
	ProductView struct {
		Attributes []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"attributes"`
	} `json:"productView"`
}

// SearchFirst returns the best match for a phrase, or nil when the catalog
// has no result. Results are sorted by relevance server-side.
func (c *Client) SearchFirst(ctx context.Context, phrase string) (*Product, error) {
	payload := searchRequest{
		Query: searchQuery,
		Variables: map[string]interface{}{
			"phrase":      phrase,
			"pageSize":    5,
			"currentPage": 1,
			"filter": []map[string]interface{}{
				{"attribute": "visibility", "in": []string{"Search", "Catalog, Search"}},
			},
			"sort": []map[string]interface{}{
				{"attribute": "relevance", "direction": "DESC"},
			},
			"context": map[string]interface{}{
				"customerGroup": customerGroup,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", apiKey)
	req.Header.Set("Magento-Environment-Id", environmentID)
	req.Header.Set("Magento-Store-Code", "main_website_store")
	req.Header.Set("Magento-Store-View-Code", "en")
	req.Header.Set("Magento-Website-Code", "base")
	req.Header.Set("Magento-Customer-Group", customerGroup)
	req.Header.Set("Origin", "https://www.saq.com")
	req.Header.Set("Referer", "https://www.saq.com/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SAQ search request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read SAQ response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SAQ search returned status %d: %s", resp.StatusCode, string(raw))
	}

	return decodeFirstProduct(raw)
}

// decodeFirstProduct extracts the first search result. A response with no
// items decodes to nil without error.
func decodeFirstProduct(raw []byte) (*Product, error) {
	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode SAQ response: %w", err)
	}

	items := parsed.Data.ProductSearch.Items
	if len(items) == 0 {
		return nil, nil
	}

	first := items[0]
	product := &Product{
		Name:         first.Product.Name,
		PriceFinal:   first.Product.PriceRange.MinimumPrice.FinalPrice,
		PriceRegular: first.Product.PriceRange.MinimumPrice.RegularPrice,
	}
	if first.Product.CanonicalURL != "" {
		product.URL = baseURL + first.Product.CanonicalURL
	}
	for _, attr := range first.ProductView.Attributes {
		if attr.Name == "format_contenant_ml" {
			product.Size = attr.Value + " ml"
			break
		}
	}
	return product, nil
}
