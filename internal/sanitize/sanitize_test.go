package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello", want: "hello"},
		{name: "trims", in: "  hello \n", want: "hello"},
		{name: "strips tags", in: "<script>alert(1)</script>ok", want: "alert(1)ok"},
		{name: "only tags", in: "<b></b>", want: ""},
		{name: "unclosed tag kept", in: "a < b", want: "a < b"},
		{name: "tags then spaces", in: "<i> hi </i>", want: "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestTextTruncates(t *testing.T) {
	got := Text("<b>hi</b>" + strings.Repeat("x", 2000))

	require.Len(t, got, MaxTextLength)
	require.Equal(t, "hi"+strings.Repeat("x", 998), got)
}

func TestTextTruncatesByCharacter(t *testing.T) {
	got := Text(strings.Repeat("é", 1200))

	require.Equal(t, MaxTextLength, len([]rune(got)))
}

func TestIsValidRoomID(t *testing.T) {
	require.True(t, IsValidRoomID("ab12cd"))
	require.True(t, IsValidRoomID("000000"))

	require.False(t, IsValidRoomID(""))
	require.False(t, IsValidRoomID("AB12CD"))
	require.False(t, IsValidRoomID("ab12c"))
	require.False(t, IsValidRoomID("ab12cde"))
	require.False(t, IsValidRoomID("ab12cg"))
	require.False(t, IsValidRoomID(" ab12cd"))
}

func TestIsValidName(t *testing.T) {
	require.True(t, IsValidName("Alice"))
	require.True(t, IsValidName("  Bob  "))
	require.True(t, IsValidName(strings.Repeat("n", MaxNameLength)))

	require.False(t, IsValidName(""))
	require.False(t, IsValidName("   "))
	require.False(t, IsValidName(strings.Repeat("n", MaxNameLength+1)))
}
