package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	AuditActionLogin  AuditAction = "LOGIN"
	AuditActionClaim  AuditAction = "CLAIM"
	AuditActionMatch  AuditAction = "MATCH"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Module    string             `bson:"module" json:"module"`           // Feature name ("role", "mapping", "ticket")
	RecordID  string             `bson:"record_id" json:"record_id"`     // Key of the record being modified
	ActorID   string             `bson:"actor_id" json:"actor_id"`       // Email of the user who performed the action
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Log is the shape of application log entries shipped to the database
// by the async zap writer.
type Log struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Message      string             `bson:"message"`
	Caller       string             `bson:"caller"`
	LogLevelId   int                `bson:"log_level_id"`
	AppId        string             `bson:"app_id"`
	CreatedOnUtc time.Time          `bson:"created_on_utc"`
}
