package nutrition

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const (
	defaultBaseURL = "https://trackapi.nutritionix.com"
	defaultTimeout = 15 * time.Second
)

// client implements Service using the Nutritionix natural-language
// nutrients endpoint. Nutritionix has no Go SDK, so the API is called
// directly over HTTP.
type client struct {
	appID   string
	appKey  string
	baseURL string
	http    *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithBaseURL overrides the API base URL, used for testing
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the request timeout budget
func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		c.http.Timeout = timeout
	}
}

// New creates a Nutritionix-backed Service with the provided credentials
func New(appID, appKey string, opts ...Option) (Service, error) {
	if appID == "" || appKey == "" {
		return nil, goerr.New("nutrition API credentials are required")
	}

	c := &client{
		appID:   appID,
		appKey:  appKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type naturalNutrientsRequest struct {
	Query string `json:"query"`
}

type naturalNutrientsResponse struct {
	Foods []struct {
		FoodName string  `json:"food_name"`
		Calories float64 `json:"nf_calories"`
	} `json:"foods"`
}

// Lookup sends the phrase to the natural nutrients endpoint and aggregates
// calories across all food components the service parsed from it.
func (c *client) Lookup(ctx context.Context, phrase string) (*Result, error) {
	payload, err := json.Marshal(naturalNutrientsRequest{Query: phrase})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal nutrition query", goerr.V("phrase", phrase))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/natural/nutrients", bytes.NewReader(payload))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create nutrition request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-app-id", c.appID)
	req.Header.Set("x-app-key", c.appKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call nutrition API", goerr.V("phrase", phrase))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read nutrition response")
	}

	// 404 means the service could not parse any food from the phrase
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("nutrition API returned non-success status",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(body)))
	}

	var parsed naturalNutrientsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse nutrition response")
	}

	if len(parsed.Foods) == 0 {
		return nil, nil
	}

	var total float64
	names := make([]string, 0, len(parsed.Foods))
	for _, food := range parsed.Foods {
		total += food.Calories
		names = append(names, food.FoodName)
	}

	return &Result{
		FoodName:  strings.Join(names, ", "),
		TotalKcal: total,
	}, nil
}
