package app

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/gosuri/uilive"
	uuid "github.com/nu7hatch/gouuid"
	logging "github.com/op/go-logging"
)

var log = logging.MustGetLogger("log4shell/app")

type scanner struct {
	config

	catalog *Catalog

	writer *uilive.Writer
	report *Reporter
	output *writer

	scanID string

	stats Stats
}

type writer struct {
	f io.WriteCloser
	m sync.Mutex
}

func NewWriter(path string) (*writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	return &writer{
		f: f,
		m: sync.Mutex{},
	}, nil
}

func (w *writer) WriteLine(format string, args ...interface{}) {
	w.m.Lock()
	defer w.m.Unlock()

	fmt.Fprintln(w.f, fmt.Sprintf(format, args...))
}

func New(options ...OptionFn) (*scanner, error) {
	b := &scanner{
		config:  defaultConfig(),
		catalog: NewCatalog(),
	}

	for _, optionFunc := range options {
		if err := optionFunc(b); err != nil {
			return nil, err
		}
	}

	if len(b.targetPaths) == 0 {
		b.targetPaths = []string{"/"}
	}

	b.writer = uilive.New()
	b.writer.Out = color.Output

	b.report = NewReporter(b.writer.Bypass(), b.noColor, b.output)

	if u, err := uuid.NewV4(); err == nil {
		b.scanID = u.String()
	}

	return b, nil
}
