package retention

import (
	"context"
	"time"

	"go-helpdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// RetentionRepository deletes aged operational records. Only the Mongo side is
// swept; domain records in the spreadsheet store are never touched.
type RetentionRepository interface {
	PurgeAuditLogs(ctx context.Context, before time.Time) (int64, error)
	PurgeAppLogs(ctx context.Context, before time.Time) (int64, error)
}

type RetentionRepositoryImpl struct {
	AuditLogs *mongo.Collection
	AppLogs   *mongo.Collection
}

func NewRetentionRepository(mongodb *database.MongodbDB) RetentionRepository {
	return &RetentionRepositoryImpl{
		AuditLogs: mongodb.DB.Collection("audit_logs"),
		AppLogs:   mongodb.DB.Collection("logs"),
	}
}

func (r *RetentionRepositoryImpl) PurgeAuditLogs(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.AuditLogs.DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": before}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *RetentionRepositoryImpl) PurgeAppLogs(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.AppLogs.DeleteMany(ctx, bson.M{"created_on_utc": bson.M{"$lt": before}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
