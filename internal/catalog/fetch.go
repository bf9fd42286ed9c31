package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/importJL/GlyphWrAIte/internal/gateway"
)

// fetcher lists models from the OpenRouter models endpoint.
type fetcher struct {
	baseURL string
	client  *http.Client
}

func newFetcher(baseURL string) *fetcher {
	return &fetcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type modelsResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Description   string `json:"description"`
		ContextLength int    `json:"context_length"`
		Pricing       struct {
			Prompt     string `json:"prompt"`
			Completion string `json:"completion"`
		} `json:"pricing"`
	} `json:"data"`
}

func (f *fetcher) fetch(ctx context.Context, credential string) ([]ModelDescriptor, error) {
	url := strings.TrimRight(f.baseURL, "/") + "/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, gateway.NewFailure(gateway.KindNetwork, "invalid models URL", err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, gateway.NewFailure(gateway.KindNetwork, "could not reach OpenRouter", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, gateway.NewFailure(gateway.KindAuth, "API key rejected by OpenRouter",
			fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, gateway.NewFailure(gateway.KindProviderResponse,
			fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			fmt.Errorf("models endpoint: %s", strings.TrimSpace(string(body))))
	}

	var decoded modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, gateway.NewFailure(gateway.KindProviderResponse, "invalid response format", err)
	}

	models := make([]ModelDescriptor, 0, len(decoded.Data))
	for _, d := range decoded.Data {
		if d.ID == "" {
			continue
		}
		input, okIn := perMillion(d.Pricing.Prompt)
		output, okOut := perMillion(d.Pricing.Completion)
		if !okIn || !okOut {
			continue
		}
		desc := d.Description
		if desc == "" {
			desc = "Advanced AI model"
		}
		name := d.Name
		if name == "" {
			name = d.ID
		}
		models = append(models, ModelDescriptor{
			ID:            d.ID,
			DisplayName:   name,
			Description:   desc,
			Cost:          Cost{Input: input, Output: output},
			ContextLength: d.ContextLength,
		})
	}
	if len(models) == 0 {
		return nil, gateway.NewFailure(gateway.KindProviderResponse, "invalid response format",
			errors.New("models endpoint returned no usable models"))
	}
	return models, nil
}

// perMillion converts a per-token USD price string to USD per million
// tokens. Unparseable and negative (dynamic) prices are rejected.
func perMillion(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v * 1_000_000, true
}
