package bind

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"github.com/signadot/tony-format/go-bind/cache"
	"github.com/signadot/tony-format/go-bind/contract"
	"github.com/signadot/tony-format/go-bind/debug"
	"github.com/signadot/tony-format/go-bind/docio"
)

// Builder selects how bound objects are produced.
type Builder int

const (
	// Dynamic routes every call through the classifier and resolver.
	Dynamic Builder = iota
	// Specialized compiles a plan once per contract with categories and
	// paths fixed.
	Specialized
)

func (b Builder) String() string {
	if b == Specialized {
		return "specialized"
	}
	return "dynamic"
}

func ParseBuilder(s string) (Builder, error) {
	switch s {
	case "dynamic", "":
		return Dynamic, nil
	case "specialized":
		return Specialized, nil
	}
	return 0, fmt.Errorf("unknown builder %q", s)
}

// Context is the configuration shared by every object bound under it.  It
// is immutable once built.
type Context struct {
	producer docio.Producer
	cache    cache.Factory
	builder  Builder
	debug    bool
	log      *slog.Logger
	workers  int
	provider contract.Provider
}

type Option func(*Context)

func WithProducer(p docio.Producer) Option {
	return func(c *Context) { c.producer = p }
}

func WithCache(f cache.Factory) Option {
	return func(c *Context) { c.cache = f }
}

func WithBuilder(b Builder) Option {
	return func(c *Context) { c.builder = b }
}

// WithDebug makes String() append the JSON of the bound node.
func WithDebug(d bool) Option {
	return func(c *Context) { c.debug = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.log = l }
}

// WithWorkers bounds the goroutines used for one parallel collection.
func WithWorkers(n int) Option {
	return func(c *Context) { c.workers = n }
}

func WithProvider(p contract.Provider) Option {
	return func(c *Context) { c.provider = p }
}

// NewContext returns a context with JSON documents, the concurrent cache
// and the dynamic builder unless overridden by opts.
func NewContext(opts ...Option) *Context {
	c := &Context{
		producer: docio.JSON(),
		cache:    cache.Concurrent,
		builder:  Dynamic,
		debug:    debug.Bind(),
		workers:  runtime.GOMAXPROCS(0),
		provider: contract.Reflect(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = defaultLogger()
	}
	if c.workers < 1 {
		c.workers = 1
	}
	return c
}

// defaultLogger discards records unless TONY_BIND_DEBUG is set, in which
// case debug records go to stderr.
func defaultLogger() *slog.Logger {
	if !debug.Bind() {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// FromEnv returns options read from TONY_BIND_CACHE, TONY_BIND_BUILDER,
// TONY_BIND_FORMAT, TONY_BIND_WORKERS and TONY_BIND_DEBUG.  Unset variables
// yield no option.
func FromEnv() ([]Option, error) {
	var opts []Option
	if v := os.Getenv("TONY_BIND_CACHE"); v != "" {
		p, err := cache.ParsePolicy(v)
		if err != nil {
			return nil, fmt.Errorf("TONY_BIND_CACHE: %w", err)
		}
		opts = append(opts, WithCache(p.Factory()))
	}
	if v := os.Getenv("TONY_BIND_BUILDER"); v != "" {
		b, err := ParseBuilder(v)
		if err != nil {
			return nil, fmt.Errorf("TONY_BIND_BUILDER: %w", err)
		}
		opts = append(opts, WithBuilder(b))
	}
	if v := os.Getenv("TONY_BIND_FORMAT"); v != "" {
		p, err := docio.ByName(v)
		if err != nil {
			return nil, fmt.Errorf("TONY_BIND_FORMAT: %w", err)
		}
		opts = append(opts, WithProducer(p))
	}
	if v := os.Getenv("TONY_BIND_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("TONY_BIND_WORKERS: %w", err)
		}
		opts = append(opts, WithWorkers(n))
	}
	if v := os.Getenv("TONY_BIND_DEBUG"); v != "" {
		d, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("TONY_BIND_DEBUG: %w", err)
		}
		opts = append(opts, WithDebug(d))
	}
	return opts, nil
}

func (c *Context) Producer() docio.Producer { return c.producer }

func (c *Context) Builder() Builder { return c.builder }

func (c *Context) Debug() bool { return c.debug }

func (c *Context) Logger() *slog.Logger { return c.log }

func (c *Context) Provider() contract.Provider { return c.provider }
