package observation

import (
	"context"
	"os"

	"lantern/etl-core/internal/infrastructure/logger"
	"lantern/etl-core/internal/pipeline/item"
)

// FileCallback consumes an open file handle and yields downstream items.
// The handle is only valid while the returned sequence is being iterated.
type FileCallback func(ctx context.Context, f *os.File) item.Result

// FileObservation reads a local file as a scoped resource: the handle is
// opened when the observation runs and closed when the item sequence is
// exhausted, on every exit path.
type FileObservation struct {
	base
	callback FileCallback
	log      logger.Logger
}

var _ item.Observation = (*FileObservation)(nil)

func NewFileObservation(path string, callback FileCallback) *FileObservation {
	return &FileObservation{
		base:     base{url: path},
		callback: callback,
		log:      logger.NewNoOpLogger(),
	}
}

func (o *FileObservation) WithXCom(xcom any) *FileObservation {
	o.xcom = xcom
	return o
}

func (o *FileObservation) WithLogger(log logger.Logger) *FileObservation {
	o.log = log
	return o
}

func (o *FileObservation) Hash() uint64 {
	return digest(o.url)
}

func (o *FileObservation) Observe(ctx context.Context, _ item.Runtime) item.Result {
	f, err := os.Open(o.url)
	if err != nil {
		o.log.WithFields(map[string]any{
			"path":         o.url,
			"error_detail": err.Error(),
		}).Warn("File open failed")
		return nil
	}

	items := o.callback(ctx, f)
	if items == nil {
		f.Close()
		return nil
	}

	return func(yield func(item.Item) bool) {
		defer f.Close()
		for i := range items {
			if !yield(i) {
				return
			}
		}
	}
}
