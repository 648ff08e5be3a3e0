package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/brickc/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Keys are flag names. Nested maps join their keys with "-", so
//
//	log:
//	  level: debug
//
// sets --log-level. Underscores may stand in for hyphens. A file that does not
// parse is ignored with a warning, and the flags keep their defaults.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).DecodeContext(ctx, &doc); err != nil {
			if errors.Is(err, io.EOF) {
				return config{}, nil
			}

			log.WarnContext(ctx, "ignoring configuration file", slog.Any("error", err))

			return config{}, nil
		}

		cfg := make(config, len(doc))
		flatten(cfg, "", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flattened configuration map.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flatten copies m into c, joining nested keys with "-" under prefix.
func flatten(c config, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "-" + k
		}

		if sub, ok := v.(map[string]any); ok {
			flatten(c, key, sub)

			continue
		}

		c[key] = scalar(v)
	}
}

// scalar converts numbers to strings, which kong parses with the flag's own
// mapper. Lists are converted element-wise.
func scalar(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out
	default:
		return v
	}
}
