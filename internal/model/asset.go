package model

// AssetDescriptor is the metadata returned by the object store for a stored image.
type AssetDescriptor struct {
	SecureURL   string `json:"secure_url"`
	PublicID    string `json:"public_id"`
	Folder      string `json:"folder"`
	ContentType string `json:"content_type"`
	Bytes       int64  `json:"bytes"`
	ETag        string `json:"etag,omitempty"`
}

// Upload is a single file received from a multipart form field.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
