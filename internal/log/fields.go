package log

// Canonical field names for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldSourceID    = "source_id"
	FieldSearchText  = "search_text"
	FieldCacheKey    = "cache_key"
	FieldNamespace   = "namespace"
	FieldVideoServer = "video_server"
	FieldPlaylistID  = "playlist_id"
	FieldDuration    = "duration_ms"
)
