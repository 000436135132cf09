package models

// Queue names shared by producers and workers.
const (
	FileQueue = "fileQueue"
	UserQueue = "userQueue"
)

// ThumbnailJob asks the worker to derive resized copies of an uploaded image.
type ThumbnailJob struct {
	FileID string `json:"fileId"`
	UserID string `json:"userId"`
}

// WelcomeJob asks the worker to acknowledge a freshly registered user.
type WelcomeJob struct {
	UserID string `json:"userId"`
}
