package domain

// StoredObject is an object in the bucket paired with a time-limited download URL.
type StoredObject struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
