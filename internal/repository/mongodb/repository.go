package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/signcare/internal/domain/models"
)

const (
	productsCollection     = "products"
	maintenancesCollection = "scheduled_maintenances"
)

// MongoDBRepository reads products and maintenances from the catalog mirror.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
	logger *zap.Logger
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
		logger: logger,
	}, nil
}

// ListProducts returns every product in the mirror, oldest installation first.
func (r *MongoDBRepository) ListProducts(ctx context.Context) ([]models.ExpiryRecord, error) {
	collection := r.client.Database(r.dbName).Collection(productsCollection)
	opts := options.Find().SetSort(bson.D{{Key: "installation_date", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	records := make([]models.ExpiryRecord, 0, len(docs))
	for _, doc := range docs {
		if doc.InstallationDate.IsZero() {
			r.logger.Warn("skip product without installation date", zap.String("product_id", doc.ProductID))
			continue
		}
		records = append(records, doc.toRecord())
	}
	return records, nil
}

// ListMaintenances returns the maintenances scheduled between from and to, inclusive.
func (r *MongoDBRepository) ListMaintenances(ctx context.Context, from, to models.Date) ([]models.ScheduledMaintenance, error) {
	collection := r.client.Database(r.dbName).Collection(maintenancesCollection)
	filter := bson.M{"scheduled_date": bson.M{
		"$gte": from.Time(),
		"$lt":  to.AddDays(1).Time(),
	}}
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_date", Value: 1}, {Key: "start_time", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query maintenances: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []maintenanceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode maintenances: %w", err)
	}

	records := make([]models.ScheduledMaintenance, 0, len(docs))
	for _, doc := range docs {
		record, err := doc.toRecord()
		if err != nil {
			r.logger.Warn("skip maintenance document", zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

type geoDocument struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

type productDocument struct {
	ProductID        string       `bson:"product_id"`
	QRCode           string       `bson:"qr_code"`
	InstallationDate time.Time    `bson:"installation_date"`
	FilmClass        string       `bson:"film_class"`
	GPS              *geoDocument `bson:"gps,omitempty"`
}

func (d productDocument) toRecord() models.ExpiryRecord {
	record := models.ExpiryRecord{
		ProductID:        d.ProductID,
		QRCode:           d.QRCode,
		InstallationDate: models.DateOf(d.InstallationDate.UTC()),
		FilmClass:        models.FilmClass(d.FilmClass),
	}
	if d.GPS != nil {
		lat, lng := d.GPS.Lat, d.GPS.Lng
		record.GPSLat, record.GPSLng = &lat, &lng
	}
	return record
}

type maintenanceDocument struct {
	ID              string       `bson:"_id"`
	EmployeeID      string       `bson:"employee_id"`
	EmployeeName    string       `bson:"employee_name"`
	ProductID       string       `bson:"product_id"`
	ProductName     string       `bson:"product_name"`
	ProductLocation string       `bson:"product_location"`
	Type            string       `bson:"intervention_type"`
	ScheduledDate   time.Time    `bson:"scheduled_date"`
	StartTime       string       `bson:"start_time"`
	EndTime         string       `bson:"end_time"`
	Duration        int          `bson:"duration"`
	Status          string       `bson:"status"`
	Priority        string       `bson:"priority"`
	Notes           string       `bson:"notes,omitempty"`
	GPS             *geoDocument `bson:"gps,omitempty"`
}

func (d maintenanceDocument) toRecord() (models.ScheduledMaintenance, error) {
	start, err := models.ParseClock(d.StartTime)
	if err != nil {
		return models.ScheduledMaintenance{}, err
	}
	end, err := models.ParseClock(d.EndTime)
	if err != nil {
		return models.ScheduledMaintenance{}, err
	}

	typ, _ := models.ParseMaintenanceType(d.Type)
	status, _ := models.ParseMaintenanceStatus(d.Status)
	priority, _ := models.ParseMaintenancePriority(d.Priority)

	record := models.ScheduledMaintenance{
		ID:              d.ID,
		EmployeeID:      d.EmployeeID,
		EmployeeName:    d.EmployeeName,
		ProductID:       d.ProductID,
		ProductName:     d.ProductName,
		ProductLocation: d.ProductLocation,
		MaintenanceType: typ,
		ScheduledDate:   models.DateOf(d.ScheduledDate.UTC()),
		StartTime:       start,
		EndTime:         end,
		Duration:        d.Duration,
		Status:          status,
		Priority:        priority,
		Notes:           d.Notes,
	}
	if d.GPS != nil {
		lat, lng := d.GPS.Lat, d.GPS.Lng
		record.GPSLat, record.GPSLng = &lat, &lng
	}
	if err := record.Validate(); err != nil {
		return models.ScheduledMaintenance{}, err
	}
	return record, nil
}
