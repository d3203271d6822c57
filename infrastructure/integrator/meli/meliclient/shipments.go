package meliclient

import (
	"context"
	"fmt"
	"net/http"

	melidomain "github.com/vendalytics/sales-sync-api/infrastructure/integrator/meli/domain"
)

func (c *MeliClient) GetShipment(ctx context.Context, accessToken string, shipmentID int64) (*melidomain.Shipment, error) {
	requestURL := fmt.Sprintf("%s/shipments/%d", c.cfg.URL, shipmentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	shipment := &melidomain.Shipment{}
	if err := c.doRequest(req, shipment); err != nil {
		return nil, err
	}

	return shipment, nil
}
