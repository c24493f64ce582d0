package repository

// JSONLOption applies a configuration option to the JSONLLog.
type JSONLOption func(*JSONLLog)

// WithSyncOnAppend controls whether every append is fsynced. Disabling
// trades durability for throughput; replay correctness is unaffected.
func WithSyncOnAppend(sync bool) JSONLOption {
	return func(l *JSONLLog) {
		l.sync = sync
	}
}
