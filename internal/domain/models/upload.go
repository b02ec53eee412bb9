// internal/domain/models/upload.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Upload records a file stored in object storage.
type Upload struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Key          string              `bson:"key" json:"key"`
	URL          string              `bson:"url,omitempty" json:"url,omitempty"`
	OriginalName string              `bson:"original_name" json:"original_name"`
	Size         int64               `bson:"size" json:"size"`
	ContentType  string              `bson:"content_type" json:"content_type"`
	UploadedBy   *primitive.ObjectID `bson:"uploaded_by,omitempty" json:"uploaded_by,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
}
