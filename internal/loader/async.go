package loader

import (
	"LotusPond/internal/logger"
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
)

type result struct {
	url     string
	err     error
	deliver func()
}

// Loader decodes assets on a worker pool. Finished assets queue up until the
// render goroutine calls Poll, which hands them to their callbacks and only
// then reports them to the Manager.
type Loader struct {
	manager *Manager
	pool    pond.Pool
	results chan result
	closed  sync.Once
}

func NewLoader(manager *Manager, workers int) *Loader {
	if workers < 1 {
		workers = 1
	}
	return &Loader{
		manager: manager,
		pool:    pond.NewPool(workers),
		results: make(chan result, 64),
	}
}

func (l *Loader) Manager() *Manager {
	return l.manager
}

// LoadModel decodes a glTF binary and passes it to onLoad on the render
// goroutine.
func (l *Loader) LoadModel(url string, onLoad func(*Model)) {
	l.submit(url, func() (func(), error) {
		m, err := LoadGLB(url)
		if err != nil {
			return nil, err
		}
		return func() { onLoad(m) }, nil
	})
}

// LoadImage decodes a PNG or JPEG file.
func (l *Loader) LoadImage(url string, onLoad func(image.Image)) {
	l.submit(url, func() (func(), error) {
		raw, err := os.ReadFile(url)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode image %q: %w", url, err)
		}
		return func() { onLoad(img) }, nil
	})
}

func (l *Loader) submit(url string, decode func() (func(), error)) {
	l.manager.ItemStart(url)
	logger.Log.Debug("Asset queued", zap.String("url", url))
	l.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				l.results <- result{url: url, err: fmt.Errorf("decode %q: panic: %v", url, r)}
			}
		}()
		deliver, err := decode()
		l.results <- result{url: url, err: err, deliver: deliver}
	})
}

// Poll delivers every finished asset without blocking and returns how many
// it handled. It must run on the render goroutine.
func (l *Loader) Poll() int {
	n := 0
	for {
		select {
		case r := <-l.results:
			n++
			if r.err != nil {
				l.manager.ItemError(r.url, r.err)
				continue
			}
			r.deliver()
			l.manager.ItemEnd(r.url)
		default:
			return n
		}
	}
}

// Close waits for running decodes and stops the pool. Results still queued
// are dropped. Calling Close again is a no-op.
func (l *Loader) Close() {
	l.closed.Do(l.stop)
}

func (l *Loader) stop() {
	done := make(chan struct{})
	go func() {
		l.pool.StopAndWait()
		close(done)
	}()
	for {
		select {
		case <-done:
			return
		case <-l.results:
			// drain so blocked workers can finish
		}
	}
}
