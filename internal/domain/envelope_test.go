package domain_test

import (
	"strings"
	"testing"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
)

func TestNewEnvelope_StructuredBody(t *testing.T) {
	env := domain.NewEnvelope(200, []byte(`{"id":"acc_1","apiKey":"key_1"}`))

	if env.NonStructured {
		t.Fatal("expected structured envelope")
	}
	if env.Str("id") != "acc_1" {
		t.Errorf("expected id 'acc_1', got '%s'", env.Str("id"))
	}
	if env.Str("apiKey") != "key_1" {
		t.Errorf("expected apiKey 'key_1', got '%s'", env.Str("apiKey"))
	}
	if !env.OK() {
		t.Error("expected OK for status 200")
	}
}

func TestNewEnvelope_EmptyBody(t *testing.T) {
	env := domain.NewEnvelope(200, []byte(""))

	if !env.NonStructured {
		t.Fatal("expected non-structured envelope for empty body")
	}
	if env.StatusCode != 200 {
		t.Errorf("expected status 200, got %d", env.StatusCode)
	}
	if env.RawText != "" {
		t.Errorf("expected empty raw text, got '%s'", env.RawText)
	}
}

func TestNewEnvelope_HTMLErrorPage(t *testing.T) {
	env := domain.NewEnvelope(502, []byte("<html><body>Bad Gateway</body></html>"))

	if !env.NonStructured {
		t.Fatal("expected non-structured envelope for HTML body")
	}
	if !strings.Contains(env.RawText, "Bad Gateway") {
		t.Errorf("expected raw text to carry the page, got '%s'", env.RawText)
	}
}

func TestNewEnvelope_TruncatesRawText(t *testing.T) {
	long := strings.Repeat("x", 2000)
	env := domain.NewEnvelope(500, []byte(long))

	if len(env.RawText) != 500 {
		t.Errorf("expected raw text truncated to 500 chars, got %d", len(env.RawText))
	}
}

func TestNewEnvelope_TopLevelArrayIsNonStructured(t *testing.T) {
	env := domain.NewEnvelope(200, []byte(`[{"id":"1"}]`))

	if !env.NonStructured {
		t.Fatal("expected non-structured envelope for a top-level array")
	}
}

func TestEnvelope_Data(t *testing.T) {
	env := domain.NewEnvelope(200, []byte(`{"data":[{"id":"cus_1"},{"id":"cus_2"}]}`))

	data := env.Data()
	if len(data) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(data))
	}
	if data[0]["id"] != "cus_1" {
		t.Errorf("expected first id 'cus_1', got %v", data[0]["id"])
	}
}

func TestEnvelope_FirstErrorDescription(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "first of several",
			body: `{"errors":[{"code":"invalid","description":"CNPJ inválido"},{"description":"other"}]}`,
			want: "CNPJ inválido",
		},
		{
			name: "absent list",
			body: `{"id":"x"}`,
			want: "",
		},
		{
			name: "malformed list",
			body: `{"errors":"boom"}`,
			want: "",
		},
		{
			name: "entry without description",
			body: `{"errors":[{"code":"invalid"}]}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := domain.NewEnvelope(400, []byte(tt.body))
			if got := env.FirstErrorDescription(); got != tt.want {
				t.Errorf("FirstErrorDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}
