package valueparse

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yaml-reconciler/internal/diagnostic"
)

func TestIntegerRange(t *testing.T) {
	lo, hi := 0, 150

	tests := []struct {
		name    string
		parser  Parser
		input   string
		want    any
		wantErr string
	}{
		{"in range", IntegerRange(&lo, &hi), "42", 42, ""},
		{"upper bound inclusive", IntegerRange(&lo, &hi), "150", 150, ""},
		{"too large", IntegerRange(&lo, &hi), "200", nil, "Value must be at most 150"},
		{"negative with zero bound", IntegerRange(&lo, &hi), "-1", nil, "Value must be positive"},
		{"at least", IntegerAtLeast(5), "4", nil, "Value must be at least 5"},
		{"at most", IntegerAtMost(5), "6", nil, "Value must be at most 5"},
		{"unbounded", Integer, "-99", -99, ""},
		{"not a number", Integer, "abc", nil, "'abc' is not a valid 'int'"},
		{"positive", PositiveInteger, "-3", nil, "Value must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.parser.Parse(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, MessageOf(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestNonBlankString(t *testing.T) {
	_, err := NonBlankString.Parse("   ")
	require.Error(t, err)
	assert.Equal(t, "String should not be empty", err.Error())

	v, err := NonBlankString.Parse("x")
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}

func TestBoolean(t *testing.T) {
	for _, in := range []string{"true", "TRUE", "False"} {
		_, err := Boolean.Parse(in)
		assert.NoError(t, err, in)
	}

	_, err := Boolean.Parse("yes")
	require.Error(t, err)
	assert.Equal(t, "Value should be 'true' or 'false'", MessageOf(err))
}

func TestRadixInteger(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"10", 10},
		{"0x1F", 31},
		{"#ff", 255},
		{"0b101", 5},
		{"017", 15},
		{"0", 0},
		{"-0x10", -16},
	}

	p := RadixInteger(32)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := p.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	_, err := p.Parse("0x")
	require.Error(t, err)
	assert.Equal(t, "'0x' is not a valid 'int'", MessageOf(err))

	_, err = RadixInteger(8).Parse("300")
	require.Error(t, err)
	assert.Contains(t, MessageOf(err), "'byte'")
}

func TestRadixInteger_Bounds(t *testing.T) {
	long := RadixInteger(64)

	for _, in := range []string{"-9223372036854775808", "-0x8000000000000000"} {
		v, err := long.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, int64(math.MinInt64), v)
	}

	v, err := RadixInteger(8).Parse("-128")
	require.NoError(t, err)
	assert.Equal(t, int64(-128), v)

	for _, in := range []string{"9223372036854775808", "--5", "+-5", "-+5", "-0x-1"} {
		_, err := long.Parse(in)
		require.Error(t, err, in)
		assert.Equal(t, "'"+in+"' is not a valid 'long'", MessageOf(err))
	}
}

func TestDuration(t *testing.T) {
	v, err := Duration.Parse("1500")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, v)

	v, err = Duration.Parse("1h30m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, v)

	_, err = Duration.Parse("soon")
	require.Error(t, err)
}

func TestFloat(t *testing.T) {
	v, err := Float.Parse("2.5")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, v, 0.0001)

	_, err = Float.Parse("two")
	assert.Error(t, err)
}

func TestEnum(t *testing.T) {
	p := Enum("Color", "red", "green")

	v, err := p.Parse("red")
	require.NoError(t, err)
	assert.Equal(t, "red", v)

	_, err = p.Parse("RED")
	require.Error(t, err)
	assert.Equal(t, "'RED' is an unknown 'Color'. Valid values are: red, green", MessageOf(err))

	v, err = p.IgnoringCase().Parse("GREEN")
	require.NoError(t, err)
	assert.Equal(t, "green", v)
	assert.Equal(t, []string{"red", "green"}, p.Values())
}

func TestDelimited(t *testing.T) {
	p := Delimited(Integer)

	v, err := p.Parse("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, v)

	_, err = p.Parse("1, x ,3")
	require.Error(t, err)

	pe, ok := AsParseError(err)
	require.True(t, ok)
	assert.Equal(t, 3, pe.Start)
	assert.Equal(t, 4, pe.End)
	assert.Equal(t, "x", pe.Highlight)

	v, err = p.Parse("")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestAlwaysFail(t *testing.T) {
	_, err := AlwaysFail("Map<String,String>").Parse("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Map<String,String>")
}

func TestOf(t *testing.T) {
	p := Of("port", func(text string) (any, error) {
		if text == "bad" {
			return nil, errors.New("no such port")
		}

		return text, nil
	})

	_, err := p.Parse("bad")
	require.Error(t, err)
	assert.Equal(t, "'bad' is not a valid 'port'", MessageOf(err))

	custom := Of("x", func(string) (any, error) {
		return nil, Errorf("custom").WithType(diagnostic.DeprecatedValue)
	})
	_, err = custom.Parse("y")
	assert.Equal(t, "custom", MessageOf(err))
	assert.Equal(t, diagnostic.DeprecatedValue, ProblemTypeOf(err))
}

func TestMessageOf(t *testing.T) {
	inner := Errorf("Value must be at most 150")
	wrapped := fmt.Errorf("failed to parse: %w", inner)

	assert.Equal(t, "Value must be at most 150", MessageOf(wrapped))
	assert.Equal(t, "boom", MessageOf(fmt.Errorf("outer: %w", errors.New("boom"))))
	assert.Equal(t, "An error occurred: ParseError", MessageOf(&ParseError{Start: -1, End: -1}))
	assert.Empty(t, MessageOf(nil))
}

func TestProblemTypeAndReplacement(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Errorf("old value").WithType(diagnostic.DeprecatedValue).WithFix("Replace", "new"))

	assert.Equal(t, diagnostic.DeprecatedValue, ProblemTypeOf(err))
	require.NotNil(t, ReplacementOf(err))
	assert.Equal(t, "new", ReplacementOf(err).Text)

	assert.Equal(t, diagnostic.SchemaProblem, ProblemTypeOf(errors.New("x")))
	assert.Nil(t, ReplacementOf(errors.New("x")))
}

func TestHighlightRegion(t *testing.T) {
	containing := Region{Start: 100, End: 112}
	text := `a\tb=bad,bad`

	tests := []struct {
		name string
		err  *ParseError
		want Region
	}{
		{
			name: "offsets match highlight",
			err:  &ParseError{Start: 5, End: 8, Highlight: "bad"},
			want: Region{Start: 105, End: 108},
		},
		{
			name: "drifted offsets search after start",
			err:  &ParseError{Start: 6, End: 9, Highlight: "bad"},
			want: Region{Start: 109, End: 112},
		},
		{
			name: "drifted past occurrence searches whole text",
			err:  &ParseError{Start: 10, End: 12, Highlight: `a\t`},
			want: Region{Start: 100, End: 103},
		},
		{
			name: "highlight missing falls back to containing",
			err:  &ParseError{Start: 0, End: 3, Highlight: "zzz"},
			want: containing,
		},
		{
			name: "no highlight uses offsets",
			err:  &ParseError{Start: 1, End: 3},
			want: Region{Start: 101, End: 103},
		},
		{
			name: "no highlight and no offsets",
			err:  &ParseError{Start: -1, End: -1},
			want: containing,
		},
		{
			name: "out of range offsets with highlight",
			err:  &ParseError{Start: 50, End: 60, Highlight: "b=b"},
			want: Region{Start: 103, End: 106},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HighlightRegion(tt.err, containing, text)
			assert.Equal(t, tt.want, got)

			if tt.err.Highlight != "" && got != containing {
				source := make([]byte, 100)
				assert.Equal(t, tt.err.Highlight, got.Text(string(source)+text))
			}
		})
	}
}

func TestBounds(t *testing.T) {
	lo, hi := Bounds(math.MinInt, 5)
	assert.Nil(t, lo)
	require.NotNil(t, hi)
	assert.Equal(t, 5, *hi)
}
