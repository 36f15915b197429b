package media

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	apperrors "performance-prime/internal/common/errors"
	commonhttp "performance-prime/internal/common/http"
)

// NewHTTPLoader resolves media keys against the CDN resolver endpoint.
// The endpoint answers GET {base}/resolve/{key} with {"url": "..."}.
func NewHTTPLoader(client *commonhttp.Client, baseURL string) Loader {
	return func(ctx context.Context, key string) (string, error) {
		endpoint := fmt.Sprintf("%s/resolve/%s", baseURL, url.PathEscape(key))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return "", err
		}

		resp, err := client.Do(req)
		if err != nil {
			return "", apperrors.NewMediaResolveFailedError(key, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", apperrors.NewMediaResolveFailedError(key, fmt.Errorf("resolver returned status %d", resp.StatusCode))
		}

		var payload struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return "", apperrors.NewMediaResolveFailedError(key, err)
		}
		if payload.URL == "" {
			return "", apperrors.NewMediaResolveFailedError(key, fmt.Errorf("resolver returned empty url"))
		}
		return payload.URL, nil
	}
}
