package countries

import (
	"net/http"

	"github.com/goliatone/go-regforms/pkg/registration"
)

// EmptySearchMode controls the response to a request without a query.
type EmptySearchMode string

const (
	// EmptySearchAll returns every country up to the limit.
	EmptySearchAll EmptySearchMode = "all"
	// EmptySearchNone returns an empty list.
	EmptySearchNone EmptySearchMode = "none"
)

// GuardFunc rejects requests before the lookup runs. Errors implementing
// HTTPError choose the response status; anything else yields 403.
type GuardFunc func(r *http.Request) error

// Options configures the handler.
type Options struct {
	RoutePath       string
	SearchParam     string
	LimitParam      string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode
	Guard           GuardFunc

	// Countries overrides the registration country list.
	Countries []registration.Option
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions returns the handler defaults.
func DefaultOptions() Options {
	return Options{
		RoutePath:       "/api/countries",
		SearchParam:     "q",
		LimitParam:      "limit",
		DefaultLimit:    50,
		MaxLimit:        200,
		EmptySearchMode: EmptySearchAll,
	}
}

// NewOptions applies fns on top of DefaultOptions and restores defaults for
// zero values.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	defaults := DefaultOptions()
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaults.DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaults.MaxLimit
	}
	if opts.EmptySearchMode == "" {
		opts.EmptySearchMode = defaults.EmptySearchMode
	}
	if opts.RoutePath == "" {
		opts.RoutePath = defaults.RoutePath
	}
	if opts.SearchParam == "" {
		opts.SearchParam = defaults.SearchParam
	}
	if opts.LimitParam == "" {
		opts.LimitParam = defaults.LimitParam
	}
	if opts.Countries != nil {
		opts.Countries = append([]registration.Option{}, opts.Countries...)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		o.RoutePath = path
	}
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) {
		o.SearchParam = name
	}
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) {
		o.LimitParam = name
	}
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		o.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		o.MaxLimit = limit
	}
}

func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) {
		o.EmptySearchMode = mode
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		o.Guard = guard
	}
}

func WithCountries(countries []registration.Option) OptionFn {
	return func(o *Options) {
		if countries == nil {
			o.Countries = nil
			return
		}
		o.Countries = append([]registration.Option{}, countries...)
	}
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
