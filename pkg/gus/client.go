package gus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIURL is the public DBW API base.
const DefaultAPIURL = "https://api-dbw.stat.gov.pl/api/1.1.0"

// Fixed query identifiers for regional public income by budget division.
const (
	DefaultVariableID = "1192" // dochody budżetów
	DefaultSectionID  = "1046" // województwa x działy
	DefaultPeriodID   = "282"  // rok
	DefaultPageSize   = 5000
	DefaultLang       = "pl"
)

// VariableDataSectionPath is the endpoint path under the base URL.
const VariableDataSectionPath = "/variable/variable-data-section"

// ClientConfig represents the configuration for the GUS API client.
type ClientConfig struct {
	APIURL     string
	VariableID string
	SectionID  string
	PeriodID   string
	PageSize   int
	Page       int
	Lang       string
	Timeout    time.Duration // Default: 30 seconds
	HTTPClient *http.Client  // Optional; Timeout is still applied per call
	Logger     *slog.Logger
}

// Client is a GUS DBW API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	variableID string
	sectionID  string
	periodID   string
	pageSize   int
	page       int
	lang       string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewClient creates a new GUS API client, filling unset fields with defaults.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(orDefault(config.APIURL, DefaultAPIURL), "/"),
		variableID: orDefault(config.VariableID, DefaultVariableID),
		sectionID:  orDefault(config.SectionID, DefaultSectionID),
		periodID:   orDefault(config.PeriodID, DefaultPeriodID),
		pageSize:   config.PageSize,
		page:       config.Page,
		lang:       orDefault(config.Lang, DefaultLang),
		timeout:    timeout,
		logger:     logger,
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}

	return c
}

// RequestURL returns the full URL FetchYear would call for year.
func (c *Client) RequestURL(year int) string {
	params := url.Values{}
	params.Set("id-zmienna", c.variableID)
	params.Set("id-przekroj", c.sectionID)
	params.Set("id-rok", strconv.Itoa(year))
	params.Set("id-okres", c.periodID)
	params.Set("ile-na-stronie", strconv.Itoa(c.pageSize))
	params.Set("numer-strony", strconv.Itoa(c.page))
	params.Set("lang", c.lang)

	return fmt.Sprintf("%s%s?%s", c.baseURL, VariableDataSectionPath, params.Encode())
}

// FetchYear fetches one page of income records for year.
// regionID and categoryID are not sent upstream; the full page is returned
// and filtered by the caller.
func (c *Client) FetchYear(ctx context.Context, year int, regionID, categoryID int64) (*VariableDataResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.RequestURL(year)
	c.logger.Debug("Fetching GUS data",
		"year", year,
		"region_id", regionID,
		"category_id", categoryID,
		"url", endpoint,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{Year: year, Err: err}
		}
		return nil, &NetworkError{Year: year, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.parseError(year, resp)
	}

	var data VariableDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{Year: year, Err: err}
		}
		return nil, &DecodeError{Year: year, Err: err}
	}

	c.logger.Debug("Fetched GUS data",
		"year", year,
		"records", len(data.Data),
		"duration", time.Since(start),
	)

	return &data, nil
}

// parseError builds a StatusError from a non-success response.
func (c *Client) parseError(year int, resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return &StatusError{Year: year, StatusCode: resp.StatusCode}
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return &StatusError{Year: year, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	msg := errResp.Error
	if errResp.ErrorDescription != "" {
		msg = fmt.Sprintf("%s - %s", errResp.Error, errResp.ErrorDescription)
	}
	return &StatusError{Year: year, StatusCode: resp.StatusCode, Message: msg}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func orDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}
