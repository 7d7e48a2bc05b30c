package discount

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/angelmondragon/basket-service/pkg/config"
	pkgerrors "github.com/angelmondragon/basket-service/pkg/errors"
	"github.com/angelmondragon/basket-service/pkg/logger"
)

// HTTPClient calls the discount service over HTTP. An absent coupon is not
// an error; the service answers with a zero amount.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logg    *logger.Logger
}

// NewHTTPClient wires the discount client from config.
func NewHTTPClient(cfg config.DiscountConfig, logg *logger.Logger) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("discount base url is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logg:    logg,
	}, nil
}

func (c *HTTPClient) Lookup(ctx context.Context, productName string) (Coupon, error) {
	endpoint := fmt.Sprintf("%s/v1/discount/%s", c.baseURL, url.PathEscape(productName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Coupon{}, pkgerrors.Wrap(pkgerrors.CodeDiscountLookup, err, "building discount request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Coupon{}, pkgerrors.Wrap(pkgerrors.CodeDiscountLookup, err, "calling discount service")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Coupon{Description: "no discount"}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Coupon{}, pkgerrors.New(
			pkgerrors.CodeDiscountLookup,
			fmt.Sprintf("discount service returned status %d", resp.StatusCode),
		)
	}

	var coupon Coupon
	if err := json.NewDecoder(resp.Body).Decode(&coupon); err != nil {
		return Coupon{}, pkgerrors.Wrap(pkgerrors.CodeDiscountLookup, err, "decoding discount response")
	}
	return coupon, nil
}
