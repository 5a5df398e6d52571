package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mateusmacedo/bus-catalog/internal/trip/domain"
	pkgApp "github.com/mateusmacedo/bus-catalog/pkg/application"
)

type gormTripRepository struct {
	db     *gorm.DB
	logger pkgApp.AppLogger
}

// NewGormTripRepository opens a Postgres connection and migrates the trips
// table.
func NewGormTripRepository(dsn string, logger pkgApp.AppLogger) (domain.TripRepository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewGormTripRepositoryFromDB(db, logger)
}

// NewGormTripRepositoryFromDB migrates and wraps an existing handle, which
// may be a transaction.
func NewGormTripRepositoryFromDB(db *gorm.DB, logger pkgApp.AppLogger) (domain.TripRepository, error) {
	if err := db.AutoMigrate(&domain.Trip{}); err != nil {
		return nil, fmt.Errorf("migrate trips: %w", err)
	}
	return &gormTripRepository{db: db, logger: logger}, nil
}

func (r *gormTripRepository) Save(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if trip.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&trip).Error; err != nil {
			pkgApp.LogError(ctx, r.logger, "failed to insert trip", err, map[string]interface{}{"name": trip.Name})
			return domain.Trip{}, err
		}
		pkgApp.LogDebug(ctx, r.logger, "trip inserted", map[string]interface{}{"trip_id": trip.ID})
		return trip, nil
	}

	// Select("*") writes zero values too, which whole-record replacement needs.
	res := r.db.WithContext(ctx).
		Model(&domain.Trip{ID: trip.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(&trip)
	if res.Error != nil {
		pkgApp.LogError(ctx, r.logger, "failed to replace trip", res.Error, map[string]interface{}{"trip_id": trip.ID})
		return domain.Trip{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Trip{}, domain.ErrNotFound
	}

	pkgApp.LogDebug(ctx, r.logger, "trip replaced", map[string]interface{}{"trip_id": trip.ID})
	return r.FindByID(ctx, trip.ID)
}

func (r *gormTripRepository) FindByID(ctx context.Context, id uint64) (domain.Trip, error) {
	var trip domain.Trip
	err := r.db.WithContext(ctx).First(&trip, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Trip{}, domain.ErrNotFound
	}
	if err != nil {
		pkgApp.LogError(ctx, r.logger, "failed to find trip", err, map[string]interface{}{"trip_id": id})
		return domain.Trip{}, err
	}
	return trip, nil
}

func (r *gormTripRepository) FindAll(ctx context.Context) ([]domain.Trip, error) {
	trips := make([]domain.Trip, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&trips).Error; err != nil {
		pkgApp.LogError(ctx, r.logger, "failed to list trips", err, nil)
		return nil, err
	}
	return trips, nil
}

func (r *gormTripRepository) FindByFieldContaining(ctx context.Context, field domain.SearchField, text string) ([]domain.Trip, error) {
	column, err := searchColumn(field)
	if err != nil {
		return nil, err
	}

	trips := make([]domain.Trip, 0)
	err = r.db.WithContext(ctx).
		Where("LOWER("+column+") LIKE ? ESCAPE '\\'", containsPattern(text)).
		Order("id ASC").
		Find(&trips).Error
	if err != nil {
		pkgApp.LogError(ctx, r.logger, "failed to search trips", err, map[string]interface{}{
			"field": string(field),
			"text":  text,
		})
		return nil, err
	}

	pkgApp.LogDebug(ctx, r.logger, "trips matched", map[string]interface{}{
		"field": string(field),
		"count": len(trips),
	})
	return trips, nil
}

// searchColumn maps a field to a fixed column name so that user input never
// reaches the SQL text.
func searchColumn(field domain.SearchField) (string, error) {
	switch field {
	case domain.FieldName:
		return "name", nil
	case domain.FieldRoute:
		return "route", nil
	default:
		return "", fmt.Errorf("unsupported search field %q", field)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching text literally anywhere in
// a lowercased column.
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
}
