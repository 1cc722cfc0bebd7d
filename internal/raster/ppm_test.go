package raster

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	in := "P3\n# made by hand\n2 2\n255\n255 0 0\n0 255 0\n0 0 255\n1 2 3\n"

	img, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, []byte{255, 0, 0, 1}, img.R)
	assert.Equal(t, []byte{0, 255, 0, 2}, img.G)
	assert.Equal(t, []byte{0, 0, 255, 3}, img.B)
}

func TestDecode_CommentsAndWhitespace(t *testing.T) {
	in := "P3 # tag\n#one\n#two\n3\t1 # size\n255\n" +
		"1 2 3   4 5 6\n\n7\n8\n9"

	img, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 4, 7}, img.R)
	assert.Equal(t, []byte{2, 5, 8}, img.G)
	assert.Equal(t, []byte{3, 6, 9}, img.B)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"wrong tag", "P6\n1 1\n255\n0 0 0\n"},
		{"zero width", "P3\n0 4\n255\n"},
		{"zero height", "P3\n4 0\n255\n"},
		{"non-numeric size", "P3\nw h\n255\n"},
		{"missing height", "P3\n4"},
		{"zero max", "P3\n1 1\n0\n0 0 0\n"},
		{"max too large", "P3\n1 1\n65535\n0 0 0\n"},
		{"value above max", "P3\n1 1\n15\n16 0 0\n"},
		{"truncated pixels", "P3\n2 1\n255\n1 2 3\n4 5\n"},
		{"negative value", "P3\n1 1\n255\n-1 0 0\n"},
		{"garbage value", "P3\n1 1\n255\nx 0 0\n"},
		{"size overflows memory", "P3\n2147483647 2147483647\n255\n0 0 0\n"},
		{"size above limit", "P3\n100000 100000\n255\n0 0 0\n"},
		{"large size with little data", "P3\n8192 8192\n255\n0 0 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Nil(t, img)
			assert.True(t, errors.Is(err, ErrMalformed), "want ErrMalformed, got %v", err)
		})
	}
}

func TestEncode(t *testing.T) {
	img := New(2, 1)
	img.Set(0, 1, 2, 3)
	img.Set(1, 255, 128, 0)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))
	assert.Equal(t, "P3\n2 1\n255\n1\t2\t3\n255\t128\t0\n", buf.String())
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	img := New(17, 9)
	for i := 0; i < img.Len(); i++ {
		img.Set(i, byte(i*7), byte(255-i), byte(i*i))
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))

	got, err := Decode(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(img, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisteredFormat(t *testing.T) {
	in := "P3\n3 2\n255\n" + strings.Repeat("9 8 7\n", 6)

	cfg, format, err := image.DecodeConfig(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "ppm", format)
	assert.Equal(t, 3, cfg.Width)
	assert.Equal(t, 2, cfg.Height)

	img, format, err := image.Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "ppm", format)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	r, g, b, _ := img.At(2, 1).RGBA()
	assert.Equal(t, [3]uint32{9, 8, 7}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestRegisteredFormat_Oversized(t *testing.T) {
	in := "P3\n2147483647 2147483647\n255\n0 0 0\n"

	_, _, err := image.DecodeConfig(strings.NewReader(in))
	assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)

	_, _, err = image.Decode(strings.NewReader(in))
	assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
}
