package domain

// SnapshotCache holds the read-side projections served to the display
// client. A nil result with nil error is a cache miss.
type SnapshotCache interface {
	CacheNowPlaying(view *NowPlayingView) error
	GetNowPlaying() (*NowPlayingView, error)
	CacheMetadata(meta *QueueMetadata) error
	GetMetadata() (*QueueMetadata, error)
	Invalidate() error
	Ping() error
}
