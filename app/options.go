package app

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/gobwas/glob"
	logging "github.com/op/go-logging"
	yaml "gopkg.in/yaml.v3"
)

const defaultMaxArchiveDepth = 32

type config struct {
	verbose bool
	debug   bool
	noColor bool

	targetPaths []string

	targetNames       map[string]struct{}
	archiveExtensions []string

	excludeList []glob.Glob

	maxDepth int
}

func defaultConfig() config {
	return config{
		targetNames: map[string]struct{}{
			"jndimanager.class": {},
		},
		archiveExtensions: []string{".jar", ".war", ".ear"},
		maxDepth:          defaultMaxArchiveDepth,
	}
}

type OptionFn func(*scanner) error

func TargetPaths(paths []string) (OptionFn, error) {
	return func(b *scanner) error {
		b.targetPaths = append(b.targetPaths, paths...)
		return nil
	}, nil
}

func ExcludeList(patterns []string) (OptionFn, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}

		globs = append(globs, g)
	}

	return func(b *scanner) error {
		b.excludeList = append(b.excludeList, globs...)
		return nil
	}, nil
}

func AllowList(sums []string) (OptionFn, error) {
	for _, sum := range sums {
		if _, err := hex.DecodeString(sum); err != nil {
			return nil, fmt.Errorf("invalid md5 hash %q: %w", sum, err)
		} else if len(sum) != 32 {
			return nil, fmt.Errorf("invalid md5 hash %q: expected 32 hex characters", sum)
		}
	}

	return func(b *scanner) error {
		for _, sum := range sums {
			b.catalog.Allow(sum, "allowed")
		}

		return nil
	}, nil
}

func LogFile(path string) (OptionFn, error) {
	return func(b *scanner) error {
		w, err := NewWriter(path)
		if err != nil {
			return err
		}

		b.output = w
		return nil
	}, nil
}

func MaxDepth(depth int) (OptionFn, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("max archive depth must be positive, got %d", depth)
	}

	return func(b *scanner) error {
		b.maxDepth = depth
		return nil
	}, nil
}

func Verbose() (OptionFn, error) {
	return func(b *scanner) error {
		b.verbose = true

		logging.SetLevel(logging.INFO, "")
		return nil
	}, nil
}

func Debug() (OptionFn, error) {
	return func(b *scanner) error {
		b.debug = true

		logging.SetLevel(logging.DEBUG, "")
		return nil
	}, nil
}

func DisableColor() (OptionFn, error) {
	return func(b *scanner) error {
		b.noColor = true
		return nil
	}, nil
}

// Profile is an optional scan profile loaded from YAML, overriding which
// filenames are fingerprinted and which extensions are treated as archives.
type Profile struct {
	Filenames  []string `yaml:"filenames"`
	Extensions []string `yaml:"extensions"`
	Exclude    []string `yaml:"exclude"`
	Allow      []string `yaml:"allow"`
}

func ProfileFile(path string) (OptionFn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("could not parse profile %s: %w", path, err)
	}

	excludeFn, err := ExcludeList(p.Exclude)
	if err != nil {
		return nil, err
	}

	allowFn, err := AllowList(p.Allow)
	if err != nil {
		return nil, err
	}

	return func(b *scanner) error {
		if len(p.Filenames) > 0 {
			b.targetNames = map[string]struct{}{}

			for _, name := range p.Filenames {
				b.targetNames[strings.ToLower(name)] = struct{}{}
			}
		}

		if len(p.Extensions) > 0 {
			b.archiveExtensions = b.archiveExtensions[:0]

			for _, ext := range p.Extensions {
				b.archiveExtensions = append(b.archiveExtensions, strings.ToLower(ext))
			}
		}

		if err := excludeFn(b); err != nil {
			return err
		}

		return allowFn(b)
	}, nil
}
