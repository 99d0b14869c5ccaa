package compat

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/blackwell-systems/appcompat/internal/store"
)

// DefaultURL serves the complete RoaringApps dataset.
const DefaultURL = "http://static.roaringapps.com/all.json"

var (
	// ErrUnreachable is returned when the dataset could not be downloaded.
	ErrUnreachable = errors.New("couldn't fetch compatibility data; are you connected to the Internet?")

	// ErrMalformed is returned when the downloaded dataset is not valid JSON
	// of the expected shape.
	ErrMalformed = errors.New("malformed compatibility data")
)

// Fetcher downloads the compatibility dataset and keeps it cached.
type Fetcher struct {
	url    string
	client *http.Client
	store  *store.Store
}

// NewFetcher creates a Fetcher for url. A nil client uses http.DefaultClient.
func NewFetcher(url string, client *http.Client, st *store.Store) *Fetcher {
	if url == "" {
		url = DefaultURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{url: url, client: client, store: st}
}

// URL returns the dataset location.
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch downloads and decodes the dataset with a single GET request and
// saves it to the cache. There are no retries.
func (f *Fetcher) Fetch() (Dataset, error) {
	resp, err := f.client.Get(f.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrUnreachable, f.url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	dataset, err := Decode(body)
	if err != nil {
		return nil, err
	}

	if err := f.store.Put(store.CompatibilityDataKey, dataset); err != nil {
		return nil, fmt.Errorf("failed to cache compatibility data: %w", err)
	}

	return dataset, nil
}

// Cached returns the cached dataset. It reports false when no dataset has
// been cached.
func (f *Fetcher) Cached() (Dataset, bool, error) {
	var dataset Dataset
	found, err := f.store.Get(store.CompatibilityDataKey, &dataset)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached compatibility data: %w", err)
	}
	if found && dataset == nil {
		dataset = Dataset{}
	}
	return dataset, found, nil
}

// Decode parses a JSON object of identifier to record.
func Decode(data []byte) (Dataset, error) {
	var dataset Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dataset == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformed)
	}
	return dataset, nil
}
