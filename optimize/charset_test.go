package optimize

import (
	"testing"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		forced   encoding.Encoding
		want     string
		wantName string
	}{
		{
			name: "plain",
			data: []byte("a{color:red}"),
			want: "a{color:red}",
		},
		{
			name: "UTF-8 BOM",
			data: []byte("\xEF\xBB\xBFa{color:red}"),
			want: "a{color:red}",
		},
		{
			name:     "UTF-16 Little Endian BOM",
			data:     []byte{0xFF, 0xFE, 'a', 0, '{', 0, '}', 0},
			want:     "a{}",
			wantName: "utf-16le",
		},
		{
			name:     "UTF-16 Big Endian BOM",
			data:     []byte{0xFE, 0xFF, 0, 'a', 0, '{', 0, '}'},
			want:     "a{}",
			wantName: "utf-16be",
		},
		{
			name: "utf-8 charset rule",
			data: []byte(`@charset "UTF-8";a{}`),
			want: `@charset "UTF-8";a{}`,
		},
		{
			name:     "charset rule",
			data:     []byte("@charset \"windows-1251\";a{content:\"\xE0\"}"),
			want:     "@charset \"windows-1251\";a{content:\"а\"}",
			wantName: "windows-1251",
		},
		{
			name:     "forced",
			data:     []byte("a{content:\"\xE0\"}"),
			forced:   charmap.Windows1251,
			want:     "a{content:\"а\"}",
			wantName: "windows-1251",
		},
		{
			name: "charset rule not first",
			data: []byte(" @charset \"windows-1251\";"),
			want: " @charset \"windows-1251\";",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, name, err := decode(tt.data, tt.forced)
			if err != nil {
				t.Fatalf("decode() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("decode() = %q, want %q", got, tt.want)
			}
			if name != tt.wantName {
				t.Errorf("decode() name = %q, want %q", name, tt.wantName)
			}
		})
	}
}

func TestDecode_Unsupported(t *testing.T) {
	if _, _, err := decode([]byte(`@charset "klingon";a{}`), nil); err == nil {
		t.Error("decode() expected error for unknown charset")
	}
}

func TestCharsetRule(t *testing.T) {
	tests := []struct {
		data string
		want string
	}{
		{`@charset "iso-8859-1";`, "iso-8859-1"},
		{`@charset "";`, ""},
		{`@charset 'iso-8859-1';`, ""},
		{`a{}`, ""},
		{`@charset "unterminated`, ""},
	}
	for _, tt := range tests {
		if got := charsetRule([]byte(tt.data)); got != tt.want {
			t.Errorf("charsetRule(%q) = %q, want %q", tt.data, got, tt.want)
		}
	}
}

func TestLookupCharset(t *testing.T) {
	if enc, err := LookupCharset(""); enc != nil || err != nil {
		t.Errorf("LookupCharset(\"\") = %v, %v, want nil, nil", enc, err)
	}
	if enc, err := LookupCharset("windows-1251"); err != nil || enc != charmap.Windows1251 {
		t.Errorf("LookupCharset(windows-1251) = %v, %v", enc, err)
	}
	if _, err := LookupCharset("no-such-charset"); err == nil {
		t.Error("LookupCharset() expected error for unknown name")
	}
}
