// Package instance models the "ambient handle" spec.md §9 calls for: a
// small capability bundle threaded through the pool at construction instead
// of package-level singletons for logger, configuration, or the
// object-adapter factory.
package instance

import (
	"github.com/fzft/leaderpool/config"
	"go.uber.org/zap"
)

// ShutdownFunc stands in for the external "object-adapter factory" whose
// Shutdown is invoked exactly once when a pool's idle timeout fires
// (spec.md §4.5 step 5, §6). It is supplied by the enclosing runtime; the
// pool never constructs or owns it.
type ShutdownFunc func()

// Instance bundles everything the pool core needs from its environment.
type Instance struct {
	Logger     *zap.Logger
	Properties *config.Properties
	// Shutdown is called exactly once per idle-timeout expiry. A nil
	// Shutdown is treated as a no-op so pools without an idle timeout
	// (TimeoutSeconds <= 0) never need to supply one.
	Shutdown ShutdownFunc
	// MessageSizeMax bounds the total frame size the framer accepts
	// (wire.ErrMemoryLimit when exceeded).
	MessageSizeMax int
	// WarnDatagrams mirrors the Warn.Datagrams property (spec.md §6):
	// when set, a DatagramLimitError is logged as a warning instead of
	// passing silently.
	WarnDatagrams bool
}

// New builds an Instance, defaulting Logger to a no-op logger and
// MessageSizeMax to a generous default if unset.
func New(logger *zap.Logger, props *config.Properties) *Instance {
	if logger == nil {
		logger = zap.NewNop()
	}
	if props == nil {
		props = config.New()
	}
	return &Instance{
		Logger:         logger,
		Properties:     props,
		MessageSizeMax: props.GetInt("Ice.MessageSizeMax", 1024*1024),
		WarnDatagrams:  props.GetInt("Warn.Datagrams", 0) > 0,
	}
}

// WithShutdown attaches the object-adapter-factory shutdown hook and
// returns the same Instance for chaining.
func (i *Instance) WithShutdown(fn ShutdownFunc) *Instance {
	i.Shutdown = fn
	return i
}
