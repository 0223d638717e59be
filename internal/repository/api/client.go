// Package api reads products and scheduled maintenances from the back-office
// REST API. It is read-only.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/mamadbah2/signcare/internal/config"
	"github.com/mamadbah2/signcare/internal/domain/models"
)

// ErrUpstream wraps every failure talking to the REST API.
var ErrUpstream = errors.New("upstream api error")

const (
	productsPath     = "products"
	maintenancesPath = "maintenances"
)

// envelopePaths are tried in order to find the record array in a response.
var envelopePaths = []string{"data", "results", "items"}

// Client is a resty-backed reader of the back-office API.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient builds an API client using the provided configuration values.
func NewClient(cfg config.APIConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)
	if cfg.Token != "" {
		restyClient.SetAuthToken(cfg.Token)
	}

	return &Client{httpClient: restyClient, logger: logger}
}

// ListProducts fetches every installed product.
func (c *Client) ListProducts(ctx context.Context) ([]models.ExpiryRecord, error) {
	items, err := c.fetch(ctx, productsPath, nil)
	if err != nil {
		return nil, err
	}

	records := make([]models.ExpiryRecord, 0, len(items))
	for i, item := range items {
		record, err := decodeProduct(item)
		if err != nil {
			c.logger.Warn("skip product with invalid payload", zap.Int("index", i), zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// ListMaintenances fetches the maintenances scheduled between from and to, inclusive.
func (c *Client) ListMaintenances(ctx context.Context, from, to models.Date) ([]models.ScheduledMaintenance, error) {
	query := map[string]string{"from": from.String(), "to": to.String()}
	items, err := c.fetch(ctx, maintenancesPath, query)
	if err != nil {
		return nil, err
	}

	records := make([]models.ScheduledMaintenance, 0, len(items))
	for i, item := range items {
		record, err := decodeMaintenance(item)
		if err != nil {
			c.logger.Warn("skip maintenance with invalid payload", zap.Int("index", i), zap.Error(err))
			continue
		}
		if !record.MaintenanceType.Valid() || !record.Status.Valid() {
			c.logger.Debug("maintenance with unrecognized enum values",
				zap.String("id", record.ID),
				zap.String("type", string(record.MaintenanceType)),
				zap.String("status", string(record.Status)))
		}
		records = append(records, record)
	}
	return records, nil
}

func (c *Client) fetch(ctx context.Context, path string, query map[string]string) ([]gjson.Result, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrUpstream, path, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := gjson.GetBytes(resp.Body(), "message").String()
		if message == "" {
			message = gjson.GetBytes(resp.Body(), "error").String()
		}
		return nil, fmt.Errorf("%w: get %s: status=%d, message=%s", ErrUpstream, path, resp.StatusCode(), message)
	}

	if !gjson.ValidBytes(resp.Body()) {
		return nil, fmt.Errorf("%w: get %s: response is not valid json", ErrUpstream, path)
	}

	body := gjson.ParseBytes(resp.Body())
	if body.IsArray() {
		return body.Array(), nil
	}
	for _, p := range envelopePaths {
		if list := body.Get(p); list.IsArray() {
			return list.Array(), nil
		}
	}
	return nil, fmt.Errorf("%w: get %s: no record array in response", ErrUpstream, path)
}

// firstOf returns the first existing value among the candidate field names.
func firstOf(item gjson.Result, names ...string) gjson.Result {
	for _, name := range names {
		if v := item.Get(name); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func optionalFloat(item gjson.Result, names ...string) *float64 {
	v := firstOf(item, names...)
	if !v.Exists() {
		return nil
	}
	f := v.Float()
	return &f
}

func decodeProduct(item gjson.Result) (models.ExpiryRecord, error) {
	id := firstOf(item, "id", "product_id").String()
	if id == "" {
		return models.ExpiryRecord{}, errors.New("missing product id")
	}

	installed, err := models.ParseDate(firstOf(item, "installation_date", "data_installazione").String())
	if err != nil {
		return models.ExpiryRecord{}, fmt.Errorf("product %s: %w", id, err)
	}

	return models.ExpiryRecord{
		ProductID:        id,
		QRCode:           firstOf(item, "qr_code", "codice_qr").String(),
		InstallationDate: installed,
		FilmClass:        models.FilmClass(firstOf(item, "film_class", "classe_pellicola").String()),
		GPSLat:           optionalFloat(item, "gps_lat", "latitude"),
		GPSLng:           optionalFloat(item, "gps_lng", "longitude"),
	}, nil
}

func decodeMaintenance(item gjson.Result) (models.ScheduledMaintenance, error) {
	id := firstOf(item, "id").String()
	if id == "" {
		return models.ScheduledMaintenance{}, errors.New("missing maintenance id")
	}

	date, err := models.ParseDate(firstOf(item, "scheduled_date", "data_programmata").String())
	if err != nil {
		return models.ScheduledMaintenance{}, fmt.Errorf("maintenance %s: %w", id, err)
	}
	start, err := models.ParseClock(firstOf(item, "start_time", "ora_inizio").String())
	if err != nil {
		return models.ScheduledMaintenance{}, fmt.Errorf("maintenance %s: %w", id, err)
	}
	end, err := models.ParseClock(firstOf(item, "end_time", "ora_fine").String())
	if err != nil {
		return models.ScheduledMaintenance{}, fmt.Errorf("maintenance %s: %w", id, err)
	}

	typ, _ := models.ParseMaintenanceType(firstOf(item, "intervention_type", "maintenance_type", "tipo_intervento").String())
	status, _ := models.ParseMaintenanceStatus(firstOf(item, "status", "stato").String())
	priority, _ := models.ParseMaintenancePriority(firstOf(item, "priority", "priorita").String())

	record := models.ScheduledMaintenance{
		ID:              id,
		EmployeeID:      firstOf(item, "employee_id", "dipendente_id").String(),
		EmployeeName:    firstOf(item, "employee_name", "dipendente_nome").String(),
		ProductID:       firstOf(item, "product_id", "prodotto_id").String(),
		ProductName:     firstOf(item, "product_name", "prodotto_nome").String(),
		ProductLocation: firstOf(item, "product_location", "posizione").String(),
		MaintenanceType: typ,
		ScheduledDate:   date,
		StartTime:       start,
		EndTime:         end,
		Duration:        int(firstOf(item, "duration", "durata").Int()),
		Status:          status,
		Priority:        priority,
		Notes:           firstOf(item, "notes", "note").String(),
		GPSLat:          optionalFloat(item, "gps_lat", "latitude"),
		GPSLng:          optionalFloat(item, "gps_lng", "longitude"),
	}
	if err := record.Validate(); err != nil {
		return models.ScheduledMaintenance{}, err
	}
	return record, nil
}
