package csfloat

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://csfloat.com/api/v1"

// ListingParams identifies an item on the CSFloat listings API.
type ListingParams struct {
	DefIndex   int
	PaintIndex *int
	MinFloat   *float64
	MaxFloat   *float64
	Category   *int
	Limit      int
}

// Listing is a single buy-now listing. Price is in cents.
type Listing struct {
	ID             string  `json:"id"`
	Price          int64   `json:"price"`
	WearValue      float64 `json:"wear_value"`
	DefIndex       int     `json:"def_index"`
	PaintIndex     int     `json:"paint_index"`
	MarketHashName string  `json:"market_hash_name"`
}

// ListingsResponse is the CSFloat listings envelope.
type ListingsResponse struct {
	Cursor string    `json:"cursor"`
	Data   []Listing `json:"data"`
}

type Client struct {
	baseURL string
	apiKey  string
	client  *resty.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
	}
}

// Listings fetches buy-now listings sorted by ascending price. One network
// call, no retries; any transport error or non-2xx status is returned to the
// caller.
func (c *Client) Listings(ctx context.Context, params ListingParams) ([]Listing, error) {
	req := c.client.R().SetContext(ctx)
	req.SetQueryParam("sort_by", "lowest_price")
	req.SetQueryParam("type", "buy_now")
	req.SetQueryParam("def_index", strconv.Itoa(params.DefIndex))
	if params.PaintIndex != nil {
		req.SetQueryParam("paint_index", strconv.Itoa(*params.PaintIndex))
	}
	if params.MinFloat != nil {
		req.SetQueryParam("min_float", strconv.FormatFloat(*params.MinFloat, 'f', -1, 64))
	}
	if params.MaxFloat != nil {
		req.SetQueryParam("max_float", strconv.FormatFloat(*params.MaxFloat, 'f', -1, 64))
	}
	if params.Category != nil {
		req.SetQueryParam("category", strconv.Itoa(*params.Category))
	}
	if params.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(params.Limit))
	}
	if c.apiKey != "" {
		req.SetHeader("Authorization", c.apiKey)
	}

	resp, err := req.Get(c.baseURL + "/listings")
	if err != nil {
		return nil, fmt.Errorf("csfloat request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("csfloat API returned %d: %s", resp.StatusCode(), resp.Status())
	}

	var listings ListingsResponse
	if err := json.Unmarshal(resp.Body(), &listings); err != nil {
		return nil, fmt.Errorf("failed to parse csfloat response: %w", err)
	}

	return listings.Data, nil
}
