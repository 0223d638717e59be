// Package sheets reads the product and maintenance registry kept in Google Sheets.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/signcare/internal/config"
	"github.com/mamadbah2/signcare/internal/domain/models"
)

// Product sheet columns.
const (
	colProductID = iota
	colProductQR
	colProductInstalled
	colProductClass
	colProductLat
	colProductLng
)

// Maintenance sheet columns.
const (
	colMaintID = iota
	colMaintEmployeeID
	colMaintEmployeeName
	colMaintProductID
	colMaintProductName
	colMaintLocation
	colMaintType
	colMaintDate
	colMaintStart
	colMaintEnd
	colMaintDuration
	colMaintStatus
	colMaintPriority
	colMaintNotes
	colMaintLat
	colMaintLng
)

// sheetDateLayout is how the back office types dates by hand.
const sheetDateLayout = "02/01/2006"

// Registry maps spreadsheet rows onto domain records.
type Registry struct {
	reader           RangeReader
	productsRange    string
	maintenanceRange string
	logger           *zap.Logger
}

// NewRegistry wires a registry over the given reader.
func NewRegistry(reader RangeReader, cfg config.SheetsConfig, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		reader:           reader,
		productsRange:    cfg.ProductsRange,
		maintenanceRange: cfg.MaintenanceRange,
		logger:           logger,
	}
}

// ListProducts returns every product row that can be decoded. Invalid rows are
// logged and skipped.
func (r *Registry) ListProducts(ctx context.Context) ([]models.ExpiryRecord, error) {
	rows, err := r.reader.ReadRange(ctx, r.productsRange)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	records := make([]models.ExpiryRecord, 0, len(rows))
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		record, err := productFromRow(row)
		if err != nil {
			r.logger.Warn("skip product row", zap.String("range", r.productsRange), zap.Int("row", i), zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// ListMaintenances returns the maintenance rows scheduled between from and to, inclusive.
func (r *Registry) ListMaintenances(ctx context.Context, from, to models.Date) ([]models.ScheduledMaintenance, error) {
	rows, err := r.reader.ReadRange(ctx, r.maintenanceRange)
	if err != nil {
		return nil, fmt.Errorf("list maintenances: %w", err)
	}

	records := make([]models.ScheduledMaintenance, 0, len(rows))
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		record, err := maintenanceFromRow(row)
		if err != nil {
			r.logger.Warn("skip maintenance row", zap.String("range", r.maintenanceRange), zap.Int("row", i), zap.Error(err))
			continue
		}
		if record.ScheduledDate.Before(from) || record.ScheduledDate.After(to) {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func productFromRow(row []interface{}) (models.ExpiryRecord, error) {
	id := cell(row, colProductID)
	if id == "" {
		return models.ExpiryRecord{}, errors.New("missing product id")
	}

	installed, err := parseSheetDate(cell(row, colProductInstalled))
	if err != nil {
		return models.ExpiryRecord{}, fmt.Errorf("product %s: %w", id, err)
	}

	return models.ExpiryRecord{
		ProductID:        id,
		QRCode:           cell(row, colProductQR),
		InstallationDate: installed,
		FilmClass:        models.FilmClass(cell(row, colProductClass)),
		GPSLat:           floatCell(row, colProductLat),
		GPSLng:           floatCell(row, colProductLng),
	}, nil
}

func maintenanceFromRow(row []interface{}) (models.ScheduledMaintenance, error) {
	id := cell(row, colMaintID)
	if id == "" {
		return models.ScheduledMaintenance{}, errors.New("missing maintenance id")
	}

	date, err := parseSheetDate(cell(row, colMaintDate))
	if err != nil {
		return models.ScheduledMaintenance{}, fmt.Errorf("maintenance %s: %w", id, err)
	}
	start, err := models.ParseClock(cell(row, colMaintStart))
	if err != nil {
		return models.ScheduledMaintenance{}, fmt.Errorf("maintenance %s: %w", id, err)
	}
	end, err := models.ParseClock(cell(row, colMaintEnd))
	if err != nil {
		return models.ScheduledMaintenance{}, fmt.Errorf("maintenance %s: %w", id, err)
	}

	duration := 0
	if raw := cell(row, colMaintDuration); raw != "" {
		if duration, err = strconv.Atoi(raw); err != nil {
			return models.ScheduledMaintenance{}, fmt.Errorf("maintenance %s: duration %q: %w", id, raw, err)
		}
	}

	typ, _ := models.ParseMaintenanceType(cell(row, colMaintType))
	status, _ := models.ParseMaintenanceStatus(cell(row, colMaintStatus))
	priority, _ := models.ParseMaintenancePriority(cell(row, colMaintPriority))

	record := models.ScheduledMaintenance{
		ID:              id,
		EmployeeID:      cell(row, colMaintEmployeeID),
		EmployeeName:    cell(row, colMaintEmployeeName),
		ProductID:       cell(row, colMaintProductID),
		ProductName:     cell(row, colMaintProductName),
		ProductLocation: cell(row, colMaintLocation),
		MaintenanceType: typ,
		ScheduledDate:   date,
		StartTime:       start,
		EndTime:         end,
		Duration:        duration,
		Status:          status,
		Priority:        priority,
		Notes:           cell(row, colMaintNotes),
		GPSLat:          floatCell(row, colMaintLat),
		GPSLng:          floatCell(row, colMaintLng),
	}
	if err := record.Validate(); err != nil {
		return models.ScheduledMaintenance{}, err
	}
	return record, nil
}

// parseSheetDate accepts dd/mm/yyyy as typed in the sheet, then the ISO forms.
func parseSheetDate(raw string) (models.Date, error) {
	if t, err := time.Parse(sheetDateLayout, raw); err == nil {
		return models.DateOf(t), nil
	}
	return models.ParseDate(raw)
}

func cell(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}

// floatCell reads a coordinate, accepting a decimal comma.
func floatCell(row []interface{}, idx int) *float64 {
	raw := strings.ReplaceAll(cell(row, idx), ",", ".")
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

func isBlank(row []interface{}) bool {
	for i := range row {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}
