package properties

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{in: "plain", want: "plain"},
		{in: `a\tb\nc\fd\re`, want: "a\tb\nc\fd\re"},
		{in: `a\\b`, want: `a\b`},
		{in: `a\:b\=c\ d`, want: "a:b=c d"},
		{in: `trailing\`, want: "trailing"},
		{in: `\u0041\u00e9`, want: "Aé"},
		{in: `\ud83d\ude00`, want: "\U0001F600"},
		{in: `\u12`, err: true},
		{in: `\u12G4`, err: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Unescape(tt.in)
			if tt.err {
				require.ErrorIs(t, err, ErrMalformedEncoding)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `a\tb\nc\\d`, Escape("a\tb\nc\\d"))
	assert.Equal(t, "café", Escape("café"))
	assert.Equal(t, `\u2B22`, Escape("⬢"))
	assert.Equal(t, `\u00A0`, Escape("\u00a0"))
	assert.Equal(t, `\uD83D\uDE00`, Escape("\U0001F600"))
	assert.Equal(t, "key=value", Escape("key=value"))

	for _, s := range []string{"café", "tab\there", "\U0001F600 smile", `back\slash`} {
		got, err := Unescape(Escape(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}
