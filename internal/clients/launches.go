package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-akashdhara/internal/domain"
)

const (
	launchService = "Launch Library API"

	// LaunchPageSize caps the launches returned for one date
	LaunchPageSize = 10
)

// LaunchLibraryClient fetches launches from the Launch Library 2 API
type LaunchLibraryClient struct {
	http    *HTTPClient
	baseURL string
}

// NewLaunchLibraryClient creates a new launch client
func NewLaunchLibraryClient(httpClient *HTTPClient, baseURL string) *LaunchLibraryClient {
	return &LaunchLibraryClient{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type launchPage struct {
	Results *[]launchWire `json:"results"`
}

type launchWire struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status struct {
		Name   string `json:"name"`
		Abbrev string `json:"abbrev"`
	} `json:"status"`
	Provider struct {
		Name string `json:"name"`
	} `json:"launch_service_provider"`
	Rocket struct {
		Configuration struct {
			Name string `json:"name"`
		} `json:"configuration"`
	} `json:"rocket"`
	Mission *struct {
		Description string `json:"description"`
	} `json:"mission"`
	Net   string `json:"net"`
	Image string `json:"image"`
}

// FetchLaunchesForDate fetches the launches whose NET falls on date (YYYY-MM-DD)
func (c *LaunchLibraryClient) FetchLaunchesForDate(ctx context.Context, date string) ([]domain.LaunchRecord, error) {
	u, err := url.Parse(c.baseURL + "/launch/")
	if err != nil {
		return nil, fmt.Errorf("parse launch url: %w", err)
	}
	q := u.Query()
	q.Set("net__date", date)
	q.Set("limit", strconv.Itoa(LaunchPageSize))
	u.RawQuery = q.Encode()

	resp, err := c.http.Get(ctx, launchService, u.String())
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &domain.UpstreamRequestError{
			Service:    launchService,
			StatusCode: resp.StatusCode,
			Category:   domain.CategoryForStatus(resp.StatusCode),
			Message:    fmt.Sprintf("Failed to fetch launches: %s", resp.Status),
		}
	}

	var page launchPage
	if err := json.Unmarshal(resp.Body, &page); err != nil || page.Results == nil {
		return nil, &domain.UpstreamResponseError{Service: launchService, Message: "Invalid response format from Launch Library API"}
	}

	launches := make([]domain.LaunchRecord, 0, len(*page.Results))
	for _, w := range *page.Results {
		launches = append(launches, w.toRecord())
	}
	return launches, nil
}

func (w launchWire) toRecord() domain.LaunchRecord {
	rec := domain.LaunchRecord{
		ID:               w.ID,
		Name:             w.Name,
		Status:           domain.LaunchStatus{Name: w.Status.Name, Abbrev: w.Status.Abbrev},
		Provider:         domain.LaunchProvider{Name: w.Provider.Name},
		RocketConfigName: w.Rocket.Configuration.Name,
		ImageURL:         w.Image,
	}
	if w.Mission != nil {
		rec.MissionDescription = w.Mission.Description
	}
	if t, err := time.Parse(time.RFC3339, w.Net); err == nil {
		rec.Net = t
	}
	return rec
}
