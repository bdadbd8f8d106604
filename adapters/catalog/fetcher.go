// Package catalog persists vendor price records per (service, region,
// currency) key and fills them through a paged fetch collaborator.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"plancost/core/types"
	"plancost/internal/errors"
)

// Page is one page of fetched price records
type Page struct {
	// Records are the page's price records
	Records []types.PriceRecord

	// NextPage is the opaque token for the following page, empty at the end
	NextPage string
}

// PageFetcher produces price record pages for a catalog key.
// Implementations must treat an empty token as the first page.
type PageFetcher interface {
	FetchPage(ctx context.Context, key types.CatalogKey, pageToken string) (Page, error)
}

// RetailFetcher pages the vendor retail price API. The API returns at
// most 1000 items per page and links the next page explicitly.
type RetailFetcher struct {
	// Endpoint is the API base URL
	Endpoint string

	// Client is the HTTP client used for requests
	Client *http.Client
}

// NewRetailFetcher creates a fetcher against the given endpoint
func NewRetailFetcher(endpoint string) *RetailFetcher {
	return &RetailFetcher{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// retailItem mirrors the vendor API's item shape. Prices arrive as
// floats; they are re-read through decimal at the record boundary.
type retailItem struct {
	ServiceName        string    `json:"serviceName"`
	ServiceFamily      string    `json:"serviceFamily"`
	ProductName        string    `json:"productName"`
	SkuName            string    `json:"skuName"`
	MeterName          string    `json:"meterName"`
	ArmSkuName         string    `json:"armSkuName"`
	ArmRegionName      string    `json:"armRegionName"`
	UnitOfMeasure      string    `json:"unitOfMeasure"`
	UnitPrice          float64   `json:"unitPrice"`
	RetailPrice        float64   `json:"retailPrice"`
	CurrencyCode       string    `json:"currencyCode"`
	PriceType          string    `json:"type"`
	EffectiveStartDate time.Time `json:"effectiveStartDate"`
}

// retailResponse mirrors the vendor API's page envelope
type retailResponse struct {
	Items        []retailItem `json:"Items"`
	NextPageLink string       `json:"NextPageLink"`
}

// FetchPage retrieves one page. The first page builds a filter query;
// subsequent pages follow the link the API handed back.
func (f *RetailFetcher) FetchPage(ctx context.Context, key types.CatalogKey, pageToken string) (Page, error) {
	pageURL := pageToken
	if pageURL == "" {
		filter := fmt.Sprintf("serviceName eq '%s' and armRegionName eq '%s'", key.Service, key.Region)
		q := url.Values{}
		q.Set("currencyCode", string(key.Currency))
		q.Set("$filter", filter)
		pageURL = f.Endpoint + "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Page{}, errors.CatalogFetch("building page request", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return Page{}, errors.CatalogFetch("requesting price page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, errors.CatalogFetch(fmt.Sprintf("price API returned %d", resp.StatusCode), nil)
	}

	var body retailResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Page{}, errors.CatalogFetch("decoding price page", err)
	}

	page := Page{NextPage: body.NextPageLink}
	for _, item := range body.Items {
		page.Records = append(page.Records, item.toRecord())
	}
	return page, nil
}

// toRecord converts an API item to the immutable record shape
func (i retailItem) toRecord() types.PriceRecord {
	price := i.UnitPrice
	if price == 0 {
		price = i.RetailPrice
	}
	return types.PriceRecord{
		ServiceName:        i.ServiceName,
		ServiceFamily:      i.ServiceFamily,
		ProductName:        i.ProductName,
		SkuName:            i.SkuName,
		MeterName:          i.MeterName,
		ArmSkuName:         i.ArmSkuName,
		ArmRegionName:      i.ArmRegionName,
		UnitOfMeasure:      i.UnitOfMeasure,
		UnitPrice:          floatToDecimal(price),
		CurrencyCode:       i.CurrencyCode,
		PriceType:          i.PriceType,
		EffectiveStartDate: i.EffectiveStartDate,
	}
}
