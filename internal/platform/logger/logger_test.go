package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	kit "lineview/internal/platform/testkit"
)

func TestParseLevel_AllBranches(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"fatal", "fatal"},
		{"panic", "panic"},
		{"", "info"},
		{"   nonsense   ", "info"},
	}
	for _, c := range cases {
		lvl := parseLevel(c.in)
		if strings.ToLower(lvl.String()) != c.want {
			t.Fatalf("parseLevel(%q) = %q, want %q", c.in, lvl, c.want)
		}
	}
}

func TestInit_Get_Named_C_WithRequest(t *testing.T) {
	var buf bytes.Buffer

	Init(Options{
		Level:   "debug",
		Format:  "json",
		Service: "lineview-test",
		Writer:  &buf,
		StaticFields: map[string]string{
			"build": "test",
		},
	})

	Get().Info().Str("k", "v").Msg("root-msg")
	out := buf.String()
	kit.MustContain(t, out, `"service":"lineview-test"`)
	kit.MustContain(t, out, `"build":"test"`)
	kit.MustContain(t, out, "root-msg")

	buf.Reset()
	Named("timeline").Info().Msg("named-msg")
	kit.MustContain(t, buf.String(), `"component":"timeline"`)

	buf.Reset()
	ctx := WithRequest(context.Background(), "req-123")
	C(ctx).Info().Msg("scoped")
	kit.MustContain(t, buf.String(), `"request_id":"req-123"`)

	buf.Reset()
	C(context.Background()).Info().Msg("unscoped")
	if strings.Contains(buf.String(), "request_id") {
		t.Fatalf("unscoped log should not carry request_id: %s", buf.String())
	}
}
