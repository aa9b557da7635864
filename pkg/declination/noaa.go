package declination

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"vespawatch/pkg/geodesy"
)

const DefaultNOAAURL = "https://www.ngdc.noaa.gov/geomag-web/calculators/calculateDeclination"

// NOAAModel queries the NOAA NCEI magnetic field calculator. Each call is a
// single request; retries are left to the caller.
type NOAAModel struct {
	BaseURL string
	Key     string
	Model   string // WMM, IGRF or EMM; empty lets the service decide
	client  *http.Client
}

func NewNOAAModel(baseURL, key, model string, timeout time.Duration) *NOAAModel {
	if baseURL == "" {
		baseURL = DefaultNOAAURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NOAAModel{
		BaseURL: baseURL,
		Key:     key,
		Model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type noaaResponse struct {
	Result []struct {
		Declination float64 `json:"declination"`
	} `json:"result"`
}

func (m *NOAAModel) DeclinationAt(ctx context.Context, p geodesy.Point) (float64, error) {
	q := url.Values{}
	q.Set("lat1", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lon1", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	q.Set("resultFormat", "json")
	if m.Key != "" {
		q.Set("key", m.Key)
	}
	if m.Model != "" {
		q.Set("model", m.Model)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return 0, fmt.Errorf("%w: read noaa response: %v", ErrModelUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: noaa status %d %s", ErrModelUnavailable, resp.StatusCode, string(body))
	}
	var out noaaResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("%w: decode noaa response: %v", ErrModelUnavailable, err)
	}
	if len(out.Result) == 0 {
		return 0, fmt.Errorf("%w: noaa returned no result", ErrModelUnavailable)
	}
	return out.Result[0].Declination, nil
}
