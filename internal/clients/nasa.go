package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go-akashdhara/internal/domain"
)

const nasaService = "NASA API"

// NasaClient fetches the Astronomy Picture of the Day
type NasaClient struct {
	http    *HTTPClient
	baseURL string
	apiKey  string
}

// NewNasaClient creates a new NASA API client
func NewNasaClient(httpClient *HTTPClient, baseURL, apiKey string) *NasaClient {
	return &NasaClient{
		http:    httpClient,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// FetchAPOD fetches the picture for date (YYYY-MM-DD); an empty date means today
func (c *NasaClient) FetchAPOD(ctx context.Context, date string) (*domain.DailyImage, error) {
	params := url.Values{}
	if date != "" {
		params.Set("date", date)
	}

	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, apodStatusError(resp, false)
	}

	var image domain.DailyImage
	if err := json.Unmarshal(resp.Body, &image); err != nil {
		return nil, &domain.UpstreamResponseError{Service: nasaService, Message: "Invalid response format from NASA API"}
	}
	if err := validateImage(&image); err != nil {
		return nil, err
	}
	return &image, nil
}

// FetchAPODRange fetches every picture between start and end inclusive
func (c *NasaClient) FetchAPODRange(ctx context.Context, start, end string) ([]domain.DailyImage, error) {
	params := url.Values{}
	params.Set("start_date", start)
	params.Set("end_date", end)

	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, apodStatusError(resp, true)
	}

	var images []domain.DailyImage
	if err := json.Unmarshal(resp.Body, &images); err != nil {
		return nil, &domain.UpstreamResponseError{
			Service: nasaService,
			Message: "Invalid response format from NASA API - expected array",
		}
	}
	for i := range images {
		if err := validateImage(&images[i]); err != nil {
			return nil, err
		}
	}
	return images, nil
}

func (c *NasaClient) get(ctx context.Context, params url.Values) (*Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse apod url: %w", err)
	}
	q := u.Query()
	q.Set("api_key", c.apiKey)
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	return c.http.Get(ctx, nasaService, u.String())
}

func validateImage(image *domain.DailyImage) error {
	if image.Title == "" || image.URL == "" || image.Explanation == "" {
		return &domain.UpstreamResponseError{Service: nasaService, Message: "Incomplete data received from NASA API"}
	}
	return nil
}

func apodStatusError(resp *Response, ranged bool) error {
	e := &domain.UpstreamRequestError{
		Service:    nasaService,
		StatusCode: resp.StatusCode,
		Category:   domain.CategoryForStatus(resp.StatusCode),
	}
	switch resp.StatusCode {
	case http.StatusBadRequest:
		e.Category = domain.CategoryInvalidInput
		if ranged {
			e.Message = "Invalid date range provided. Please check your start and end dates."
		} else {
			e.Message = "Invalid date provided. Please select a date between June 16, 1995 and today."
		}
	case http.StatusForbidden:
		e.Category = domain.CategoryAuth
		e.Message = "NASA API key is invalid or has exceeded its limit. Please check your API key configuration."
	case http.StatusTooManyRequests:
		e.Message = "Too many requests to NASA API. Please try again in a moment."
	case http.StatusInternalServerError:
		e.Message = "NASA API is experiencing technical difficulties. Please try again later."
	default:
		e.Message = fmt.Sprintf("Failed to fetch APOD: %d %s", resp.StatusCode, resp.Status)
	}
	return e
}
