package entity

import "time"

type FileMetadata struct {
	ID          string    `json:"id" firestore:"id"`
	Path        string    `json:"path" firestore:"path"`
	URL         string    `json:"url" firestore:"url"`
	ContentType string    `json:"content_type" firestore:"contentType"`
	Size        int64     `json:"size" firestore:"size"`
	UploadedBy  string    `json:"uploaded_by" firestore:"uploadedBy"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}
