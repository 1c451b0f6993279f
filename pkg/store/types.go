package store

// Config holds configuration for the todo store
type Config struct {
	DataDir    string        // Directory for the region file
	BucketSize int64         // Bucket size for a fresh region file (0 = default)
	Clock      func() uint64 // Timestamp source in nanoseconds (nil = wall clock)
}

// RecoveryResult contains information about the rebuild performed at open
type RecoveryResult struct {
	SlotsScanned     int64 // Slots examined during the scan
	RecordsValidated int64 // Records that passed checksum validation
	SlotsRepaired    int64 // Torn or superseded slots returned to the free list
	IndexRebuilt     bool  // Whether the in-memory index was rebuilt
	RecoveryTime     int64 // Time taken for recovery in nanoseconds
}

// StoreStats reports the live state of an open store
type StoreStats struct {
	Todos    int    // Number of live records
	LastID   uint64 // Highest id handed out so far
	DataSize int64  // Size of the region file in bytes
}

// Errors
var (
	ErrNotOpen = &StoreError{"store is not open"}
)

// StoreError represents a store lifecycle error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
