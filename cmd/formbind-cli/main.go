package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/joeshaw/envdecode"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/diagnostic"
	"github.com/goliatone/go-formbind/pkg/filter"
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/provider"
	"github.com/goliatone/go-formbind/pkg/reflection"
	"github.com/goliatone/go-formbind/pkg/renderers/tui"
	"github.com/goliatone/go-formbind/pkg/uischema"
	"github.com/goliatone/go-formbind/pkg/widgets"
)

// config is read from the environment first; flags override it.
type config struct {
	Presets  string `env:"FORMBIND_PRESETS"`
	Form     string `env:"FORMBIND_FORM,default=person"`
	LogLevel string `env:"FORMBIND_LOG_LEVEL,default=warn"`
}

// Person is the demo type bound by the CLI.
type Person struct {
	ID       int       `form:"id,readonly"`
	Name     string    `form:"name,required" category:"identity"`
	Email    string    `form:"email" category:"contact" help:"Work address"`
	Phone    string    `form:"phone" category:"contact"`
	Role     string    `form:"role" enum:"engineer|manager|designer"`
	Active   bool      `form:"active"`
	Birthday time.Time `form:"birthday" category:"identity"`
	Notes    string    `form:"notes,nonvisual"`
}

// loadConfig decodes config from the environment. Having no variables set is
// not an error; defaults come from struct tags.
func loadConfig() (config, error) {
	var cfg config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("env config: %w", err)
	}
	return cfg, nil
}

func main() {
	cfg, cfgErr := loadConfig()

	presets := flag.String("presets", cfg.Presets, "directory of JSON/YAML form presets")
	form := flag.String("form", cfg.Form, "preset form id")
	level := flag.String("log-level", cfg.LogLevel, "diagnostic log level")
	schema := flag.String("schema", "", "describe the form with this OpenAPI schema file instead of the demo pair")
	data := flag.String("data", "", "JSON object bound with -schema; - reads stdin")
	edit := flag.Bool("edit", false, "edit the right-hand person interactively")
	swap := flag.Bool("swap", false, "swap the bound pair and print the form again")
	watch := flag.Bool("watch", false, "reload presets on change until interrupted")
	flag.Parse()

	logger, err := diagnostic.NewLogger(*level)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	if cfgErr != nil {
		logger.Warn("environment ignored", zap.Error(cfgErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := runOptions{
		presets: *presets,
		form:    *form,
		schema:  *schema,
		data:    *data,
		stdin:   os.Stdin,
		edit:    *edit,
		swap:    *swap,
		watch:   *watch,
	}
	if err := run(ctx, os.Stdout, logger, opts); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			os.Exit(130)
		}
		logger.Error("formbind-cli failed", zap.Error(err))
		os.Exit(1)
	}
}

type runOptions struct {
	presets string
	form    string
	schema  string
	data    string
	stdin   io.Reader
	edit    bool
	swap    bool
	watch   bool
}

func run(ctx context.Context, out io.Writer, logger *zap.Logger, opts runOptions) error {
	chain, err := loadFilters(opts.presets, opts.form)
	if err != nil {
		return err
	}

	options := []provider.Option{provider.WithDiagnostics(diagnostic.NewZapSink(logger))}
	var source any
	var tail []filter.FieldFilter
	if opts.data != "" && opts.schema == "" {
		return errors.New("-data requires -schema")
	}
	if opts.schema != "" {
		fields, err := loadSchema(opts.schema)
		if err != nil {
			return err
		}
		doc, err := loadData(opts.data, opts.stdin)
		if err != nil {
			return err
		}
		options = append(options, provider.WithFieldProvider(fields))
		source = doc
	} else {
		tail = append(tail, filter.Sided(reflection.SideRight, "email", "phone"))
		source = demoPair()
	}
	tail = append(tail, widgets.Decorate())

	p := provider.New(options...)
	defer p.Close()

	value := binding.NewValue(source)
	filters := binding.NewList(append(chain, tail...)...)
	elements := p.Elements(value, filters)

	printForm(out, elements.Items())

	if opts.edit {
		if err := tui.New().EditList(ctx, elements); err != nil {
			return err
		}
		printForm(out, elements.Items())
	}

	if opts.swap {
		if pair, ok := source.(*reflection.Pair); ok {
			value.Set(&reflection.Pair{Left: pair.Right, Right: pair.Left})
			fmt.Fprintln(out, "\nafter swap:")
			printForm(out, elements.Items())
		}
	}

	if opts.watch && opts.presets != "" {
		return watchPresets(ctx, out, logger, opts, filters, elements, tail)
	}
	return nil
}

// watchPresets applies reloaded presets to the live filter list until ctx is
// done. The provider re-derives the element list on every reload.
func watchPresets(ctx context.Context, out io.Writer, logger *zap.Logger, opts runOptions, filters *binding.List[filter.FieldFilter], elements *binding.List[*model.Element], tail []filter.FieldFilter) error {
	w, err := uischema.Watch(opts.presets, opts.form)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-w.Updates():
			if !ok {
				return nil
			}
			if update.Err != nil {
				logger.Warn("preset reload failed", zap.Error(update.Err))
				continue
			}
			filters.SetAll(append(update.Filters, tail...))
			fmt.Fprintln(out, "\npresets reloaded:")
			printForm(out, elements.Items())
		}
	}
}

func loadFilters(dir, form string) ([]filter.FieldFilter, error) {
	if dir == "" {
		return nil, nil
	}
	store, err := uischema.LoadFS(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	return store.Filters(form)
}

func loadSchema(path string) (*openapi.SchemaFieldProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return openapi.LoadSchemaFieldProvider(data)
}

// loadData decodes the JSON object at path, or from stdin when path is "-".
// An empty path yields an empty object.
func loadData(path string, stdin io.Reader) (map[string]any, error) {
	doc := map[string]any{}
	if path == "" {
		return doc, nil
	}
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("read data: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	if r == nil {
		return nil, errors.New("read data: no stdin")
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return doc, nil
}

func demoPair() *reflection.Pair {
	return &reflection.Pair{
		Left: &Person{
			ID:       1,
			Name:     "Ada Lovelace",
			Email:    "ada@example.com",
			Phone:    "+44 20 0000 0000",
			Role:     "engineer",
			Active:   true,
			Birthday: time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC),
		},
		Right: &Person{
			ID:       2,
			Name:     "Grace Hopper",
			Email:    "grace@example.com",
			Phone:    "+1 202 000 0000",
			Role:     "manager",
			Birthday: time.Date(1906, 12, 9, 0, 0, 0, 0, time.UTC),
		},
	}
}

func printForm(out io.Writer, elements []*model.Element) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tTYPE\tWIDGET\tCATEGORY\tSIDE\tVALUE")
	for _, el := range elements {
		value, err := el.Value()
		if err != nil {
			value = "<" + err.Error() + ">"
		}
		side := el.Metadata()[model.MetadataSide]
		if side == "" {
			side = reflection.SideLeft
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%v\n",
			el.Label(), el.Type(), el.Metadata()[model.MetadataWidget], el.Category(), side, value)
	}
	_ = w.Flush()
}
