package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sysconf/log"
)

func TestResolveConfig(t *testing.T) {
	src := `
other = {'log_level': 'error'}
config = {
  'log_level': 'debug',
  'log-format': 'json',
  'search': '$(HOME)/lib,/usr/lib',
  'env_fallback': 1,
  'name': '$(UNDEFINED)',
}`

	loader := resolve(context.Background(), "config", []string{"HOME=/home/u"})

	resolver, err := loader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("loader() error = %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "json"},
		{"search", "/home/u/lib,/usr/lib"},
		{"env-fallback", "1"},
		{"name", "$(UNDEFINED)"},
		{"log-caller", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := &kong.Flag{Value: &kong.Value{Name: tt.flag}}

			got, err := resolver.Resolve(nil, nil, flag)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%s) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}

	if err := resolver.Validate(nil); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestResolveInvalidConfig(t *testing.T) {
	var buf bytes.Buffer

	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	log.Config(log.WithOutput(&buf), log.WithFormat(log.FormatJSON), log.WithPretty(false))

	for _, src := range []string{
		"config = {'a': 'unterminated}",
		"other = {'log_level': 'debug'}",
		"config = {'a': '$(a)'}",
	} {
		resolver, err := resolve(context.Background(), "config", nil)(strings.NewReader(src))
		if err != nil {
			t.Fatalf("loader(%q) error = %v", src, err)
		}

		got, _ := resolver.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "a"}})
		if got != nil {
			t.Errorf("loader(%q) resolved a = %v, want nil", src, got)
		}
	}

	if n := strings.Count(buf.String(), "ignoring configuration file"); n != 3 {
		t.Errorf("logged %d warnings, want 3:\n%s", n, buf.String())
	}
}
