package sink

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shopmonkeyus/go-common/logger"
)

// ErrInvalidName is returned by Write when a document name is not a single path element.
var ErrInvalidName = errors.New("invalid document name")

// checkName rejects names that could resolve outside the destination.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Sink is an output destination for generated documents.
type Sink interface {
	// Write stores buf under name. It returns false if the destination already held the same content and was left untouched.
	Write(ctx context.Context, name string, buf []byte) (bool, error)

	// Close releases any resources held by the sink.
	Close() error

	// String returns a printable location of the sink.
	String() string
}

// Options are passed to every sink when it is opened.
type Options struct {
	// SkipUnchanged leaves existing documents with identical content untouched.
	SkipUnchanged bool

	// DryRun logs what would be written without writing.
	DryRun bool
}

// Factory opens a sink for a parsed target URL.
type Factory func(ctx context.Context, logger logger.Logger, u *url.URL, opts Options) (Sink, error)

var registry = map[string]Factory{}

// Register will register a sink factory for a URL scheme.
func Register(scheme string, factory Factory) {
	if _, ok := registry[scheme]; ok {
		panic(fmt.Sprintf("sink %s already registered", scheme))
	}
	registry[scheme] = factory
}

// Schemes returns the registered URL schemes.
func Schemes() []string {
	res := make([]string, 0, len(registry))
	for scheme := range registry {
		res = append(res, scheme)
	}
	sort.Strings(res)
	return res
}

// Open returns the sink for target, which is either a directory path or a URL with a registered scheme.
func Open(ctx context.Context, logger logger.Logger, target string, opts Options) (Sink, error) {
	if target == "" {
		return nil, fmt.Errorf("target is required")
	}
	u := &url.URL{Scheme: "file", Path: target}
	if strings.Contains(target, "://") {
		var err error
		if u, err = url.Parse(target); err != nil {
			return nil, fmt.Errorf("unable to parse target: %w", err)
		}
	}
	factory, ok := registry[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("unsupported target scheme %q, expected one of: %s", u.Scheme, strings.Join(Schemes(), ", "))
	}
	return factory(ctx, logger, u, opts)
}
