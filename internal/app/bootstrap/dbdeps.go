package bootstrap

import (
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the backend handles shared by every store, plus the
// background workers started while building the handler.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Workers *Workers
}

// Workers collects the stop functions of background loops so Shutdown can
// end them.
type Workers struct {
	mu    sync.Mutex
	stops []func()
}

// Add registers stop to be called by StopAll.
func (w *Workers) Add(stop func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stops = append(w.stops, stop)
}

// StopAll stops every registered worker, newest first. Later calls are
// no-ops.
func (w *Workers) StopAll() {
	w.mu.Lock()
	stops := w.stops
	w.stops = nil
	w.mu.Unlock()
	for i := len(stops) - 1; i >= 0; i-- {
		stops[i]()
	}
}
