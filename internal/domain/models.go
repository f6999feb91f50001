// Package domain provides domain models for the application
package domain

import (
	"encoding/json"
	"time"
)

// DateLayout is the calendar date format used by every upstream API
const DateLayout = "2006-01-02"

// DailyImage represents NASA's Astronomy Picture of the Day for one date
type DailyImage struct {
	Date           string `json:"date"`
	Title          string `json:"title"`
	Explanation    string `json:"explanation"`
	MediaType      string `json:"media_type"`
	URL            string `json:"url"`
	HDURL          string `json:"hdurl,omitempty"`
	Copyright      string `json:"copyright,omitempty"`
	ServiceVersion string `json:"service_version,omitempty"`
}

// IsVideo reports whether the image of the day is an embedded video
func (d *DailyImage) IsVideo() bool {
	return d.MediaType == "video"
}

// LaunchStatus is the upstream launch status label
type LaunchStatus struct {
	Name   string `json:"name"`
	Abbrev string `json:"abbrev"`
}

// LaunchProvider is the organisation responsible for a launch
type LaunchProvider struct {
	Name string `json:"name"`
}

// LaunchRecord represents one launch scheduled or flown on a date
type LaunchRecord struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Status             LaunchStatus   `json:"status"`
	Provider           LaunchProvider `json:"provider"`
	RocketConfigName   string         `json:"rocket_config_name"`
	MissionDescription string         `json:"mission_description"`
	Net                time.Time      `json:"net"`
	ImageURL           string         `json:"image_url,omitempty"`
}

// HistoricalEvent is a curated space-history annotation.
// Date is "MM-DD" for dated entries and the month name for monthly overviews.
// Year 0 marks an entry that is not tied to a specific year.
type HistoricalEvent struct {
	Date        string `json:"date" yaml:"date"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Year        int    `json:"year" yaml:"year"`
	Category    string `json:"category" yaml:"category"`
}

// Timeline holds the date-scoped launches and historical events
type Timeline struct {
	Date     string            `json:"date"`
	Launches []LaunchRecord    `json:"launches"`
	Events   []HistoricalEvent `json:"events"`
}

// DaySnapshot is the aggregated view data for one selected date
type DaySnapshot struct {
	Date       string      `json:"date"`
	Image      *DailyImage `json:"image,omitempty"`
	ImageError *ApiError   `json:"image_error,omitempty"`
	Timeline   *Timeline   `json:"timeline"`
}

// SpaceCache represents cached upstream data
type SpaceCache struct {
	ID        int64           `json:"id"`
	Source    string          `json:"source"`
	Key       string          `json:"key"`
	FetchedAt time.Time       `json:"fetched_at"`
	Payload   json.RawMessage `json:"payload"`
}

// Health represents health check response
type Health struct {
	Status string    `json:"status"`
	Now    time.Time `json:"now"`
}

// ApiResponse wraps API responses
type ApiResponse struct {
	Ok    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error *ApiError   `json:"error,omitempty"`
}

// ApiError represents an error response
type ApiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Action    string `json:"action,omitempty"`
}

// SuccessResponse creates a successful response
func SuccessResponse(data interface{}) ApiResponse {
	return ApiResponse{Ok: true, Data: data}
}

// ErrorResponse creates an error response
func ErrorResponse(code, message string) ApiResponse {
	return ApiResponse{Ok: false, Error: &ApiError{Code: code, Message: message}}
}

// ErrorResponseFrom builds an error response from a typed domain error
func ErrorResponseFrom(err error) ApiResponse {
	return ApiResponse{Ok: false, Error: ToApiError(err)}
}
