package presenter

import "github.com/okian/hiscorewatch/pkg/logger"

// Option applies a configuration option to the Presenter.
type Option func(*Presenter)

// WithSinks appends sinks. Every alert goes to every sink in order.
func WithSinks(sinks ...Sink) Option {
	return func(p *Presenter) {
		for _, s := range sinks {
			if s != nil {
				p.sinks = append(p.sinks, s)
			}
		}
	}
}

// WithBuffer sets how many tasks may wait for the presenter goroutine.
func WithBuffer(size int) Option {
	return func(p *Presenter) {
		if size > 0 {
			p.buffer = size
		}
	}
}

// WithLogger sets a custom logger for the presenter.
func WithLogger(l logger.Logger) Option {
	return func(p *Presenter) {
		if l != nil {
			p.logger = l
		}
	}
}
