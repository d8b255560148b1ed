package generator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopmonkeyus/go-common/logger"
	"github.com/shopmonkeyus/product-type-generator/internal/metrics"
	"github.com/shopmonkeyus/product-type-generator/internal/producttype"
	"github.com/shopmonkeyus/product-type-generator/internal/schema"
	"github.com/shopmonkeyus/product-type-generator/internal/sink"
	"github.com/shopmonkeyus/product-type-generator/internal/table"
	"golang.org/x/sync/semaphore"
)

// Config is the configuration of a single run.
type Config struct {
	Logger logger.Logger

	// TypesFile is the path to the types table.
	TypesFile string

	// AttributesFile is the path to the attributes table.
	AttributesFile string

	// Sink receives the generated documents.
	Sink sink.Sink

	// Retailer also generates the retailer variant with the master SKU attribute.
	Retailer bool

	// Validator validates every document before it is written. Nil disables validation.
	Validator *schema.Validator

	// Concurrency is the number of documents written in parallel.
	Concurrency int

	// SharedRename renames attribute definitions in place instead of per product type copies.
	SharedRename bool

	// Metrics receives the run counters. Nil disables metrics.
	Metrics *metrics.Metrics
}

// Summary is the outcome of a run.
type Summary struct {
	Generated int
	Skipped   int
	Written   int
	Unchanged int
	Failed    int
	Invalid   int
	Elapsed   time.Duration
}

// HasFailures returns true if any row was skipped or any document was not written.
func (s *Summary) HasFailures() bool {
	return s.Skipped > 0 || s.Failed > 0 || s.Invalid > 0
}

func (s *Summary) String() string {
	return fmt.Sprintf("generated %d product types (%d skipped), wrote %d files (%d unchanged, %d failed, %d invalid) in %v",
		s.Generated, s.Skipped, s.Written, s.Unchanged, s.Failed, s.Invalid, s.Elapsed.Round(time.Millisecond))
}

type variant struct {
	name   string
	prefix string
	extra  *producttype.AttributeDefinition
}

type document struct {
	name string
	buf  []byte
}

type generator struct {
	config  Config
	logger  logger.Logger
	summary Summary
	lock    sync.Mutex
}

// Run reads both tables, builds the attribute definitions, assembles every variant and writes one document per product type.
// An error is only returned for fatal conditions. Skipped rows and failed writes are counted in the summary.
func Run(ctx context.Context, config Config) (*Summary, error) {
	if config.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if config.Sink == nil {
		return nil, errors.New("sink is required")
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	g := &generator{
		config: config,
		logger: config.Logger.WithPrefix("[generator]"),
	}
	started := time.Now()
	if err := g.run(ctx); err != nil {
		return nil, err
	}
	g.summary.Elapsed = time.Since(started)
	if m := config.Metrics; m != nil {
		m.Duration.Set(g.summary.Elapsed.Seconds())
		m.LastRun.SetToCurrentTime()
	}
	return &g.summary, nil
}

func (g *generator) run(ctx context.Context) error {
	tables, err := table.ReadAll(ctx, g.config.TypesFile, g.config.AttributesFile)
	if err != nil {
		return errors.Wrap(err, "error reading input tables")
	}
	types, attributes := tables[0], tables[1]
	g.logger.Debug("read %d type rows from %s and %d attribute rows from %s", len(types.Rows), types.Path, len(attributes.Rows), attributes.Path)
	if m := g.config.Metrics; m != nil {
		m.RowsRead.WithLabelValues("types").Add(float64(len(types.Rows)))
		m.RowsRead.WithLabelValues("attributes").Add(float64(len(attributes.Rows)))
	}

	defs := producttype.BuildAttributeDefinitions(g.config.Logger.WithPrefix("[attributes]"), toRows(attributes))
	g.logger.Debug("built %d attribute definitions", defs.Len())
	if m := g.config.Metrics; m != nil {
		m.AttributeDefinitions.Set(float64(defs.Len()))
	}

	variants := []variant{{name: "plain", prefix: producttype.FilePrefix}}
	if g.config.Retailer {
		variants = append(variants, variant{name: "retailer", prefix: producttype.RetailerFilePrefix, extra: producttype.MasterSKUAttribute()})
	}

	typeRows := toRows(types)
	var docs []document
	index := make(map[string]int)
	for _, v := range variants {
		if err := ctx.Err(); err != nil {
			return err
		}
		// encode before the next variant renames shared definitions
		for _, def := range g.assemble(typeRows, defs, v) {
			buf, err := producttype.Encode(def)
			if err != nil {
				return errors.Wrapf(err, "error encoding product type %s", def.Name)
			}
			name := producttype.FileName(v.prefix, def)
			if i, ok := index[name]; ok {
				g.logger.Warn("product type %s is defined more than once, the last definition is written to %s", def.Name, name)
				docs[i].buf = buf
				continue
			}
			index[name] = len(docs)
			docs = append(docs, document{name: name, buf: buf})
		}
	}

	g.write(ctx, docs)
	if err := ctx.Err(); err != nil {
		return err
	}
	g.logger.Trace("%s", g.summary.String())
	return nil
}

func (g *generator) assemble(rows []producttype.Row, defs *producttype.AttributeDefinitions, v variant) []*producttype.ProductTypeDefinition {
	results := producttype.AssembleProductTypes(rows, defs, producttype.AssembleOptions{
		Extra:        v.extra,
		SharedRename: g.config.SharedRename,
		Logger:       g.logger,
	})
	for _, r := range results {
		if r.Err != nil {
			g.logger.Warn("skipping invalid product type definition '%s' because: %s", r.Name, r.Err)
			g.summary.Skipped++
			g.countProductType(v.name, "skipped")
			continue
		}
		g.summary.Generated++
		g.countProductType(v.name, "generated")
	}
	return producttype.Successful(results)
}

func (g *generator) write(ctx context.Context, docs []document) {
	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(int64(g.config.Concurrency))
	for _, doc := range docs {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(doc document) {
			defer func() {
				sem.Release(1)
				wg.Done()
			}()
			g.writeDocument(ctx, doc)
		}(doc)
	}
	g.logger.Trace("waiting for %d documents to be written", len(docs))
	wg.Wait()
}

func (g *generator) writeDocument(ctx context.Context, doc document) {
	if v := g.config.Validator; v != nil {
		if err := v.Validate(doc.buf); err != nil {
			g.logger.Error("document %s is invalid: %s", doc.name, err)
			g.record(func(s *Summary) { s.Invalid++ }, "invalid")
			return
		}
	}
	started := time.Now()
	written, err := g.config.Sink.Write(ctx, doc.name, doc.buf)
	if m := g.config.Metrics; m != nil {
		m.WriteDuration.Observe(time.Since(started).Seconds())
	}
	switch {
	case err != nil:
		g.logger.Error("error writing %s: %s", doc.name, err)
		g.record(func(s *Summary) { s.Failed++ }, "failed")
	case !written:
		g.record(func(s *Summary) { s.Unchanged++ }, "unchanged")
	default:
		g.logger.Trace("wrote %s", doc.name)
		g.record(func(s *Summary) { s.Written++ }, "written")
	}
}

func (g *generator) record(fn func(s *Summary), result string) {
	g.lock.Lock()
	fn(&g.summary)
	g.lock.Unlock()
	if m := g.config.Metrics; m != nil {
		m.Files.WithLabelValues(result).Inc()
	}
}

func (g *generator) countProductType(variant string, result string) {
	if m := g.config.Metrics; m != nil {
		m.ProductTypes.WithLabelValues(variant, result).Inc()
	}
}

func toRows(t *table.Table) []producttype.Row {
	rows := make([]producttype.Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, row)
	}
	return rows
}
