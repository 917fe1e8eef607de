package maxsubmit

import "testing"

func TestRenderMessage(t *testing.T) {
	cases := []struct {
		name     string
		template string
		expect   string
	}{
		{name: "both placeholders", template: "max={max_count} got={form_count}", expect: "max=1000 got=1200"},
		{name: "repeated placeholders", template: "{form_count}/{max_count} ({form_count})", expect: "1200/1000 (1200)"},
		{name: "no placeholders", template: "Too many fields", expect: "Too many fields"},
		{name: "unknown placeholder untouched", template: "{other}", expect: "{other}"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RenderMessage(tc.template, 1000, 1200); got != tc.expect {
				t.Fatalf("expected %q, got %q", tc.expect, got)
			}
		})
	}
}
