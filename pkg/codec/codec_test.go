package codec

import (
	"bytes"
	"strings"
	"testing"
)

func TestSHA256Hex_KnownVectors(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"hello", "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
	}
	for _, tc := range cases {
		if got := SHA256HexString(tc.input); got != tc.expected {
			t.Errorf("SHA256HexString(%q) = %s, want %s", tc.input, got, tc.expected)
		}
		if got := SHA256Hex([]byte(tc.input)); got != tc.expected {
			t.Errorf("SHA256Hex(%q) = %s, want %s", tc.input, got, tc.expected)
		}
	}
}

func TestSHA256Hex_Lowercase64Chars(t *testing.T) {
	digest := SHA256HexString("Hello, World!")
	if len(digest) != 64 {
		t.Fatalf("digest length = %d, want 64", len(digest))
	}
	if digest != strings.ToLower(digest) {
		t.Errorf("digest not lowercase: %s", digest)
	}
}

func TestBase64RoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		[]byte("Hello, World!"),
		{0x00, 0xff, 0x10, 0x80},
		bytes.Repeat([]byte{0xab}, 1024),
	}
	for _, in := range inputs {
		encoded := BytesToBase64(in)
		decoded, err := Base64ToBytes(encoded)
		if err != nil {
			t.Fatalf("Base64ToBytes(%q): %v", encoded, err)
		}
		if !bytes.Equal(decoded, in) {
			t.Errorf("round trip mismatch: in=%v out=%v", in, decoded)
		}
	}
}

func TestBase64ToBytes_Empty(t *testing.T) {
	decoded, err := Base64ToBytes("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != 0 {
		t.Errorf("expected empty result, got %v", decoded)
	}
}

func TestBase64ToBytes_Invalid(t *testing.T) {
	if _, err := Base64ToBytes("not base64!!!"); err == nil {
		t.Error("expected decoding error for invalid input")
	}
}

func TestBytesToBase64_KnownVector(t *testing.T) {
	if got := BytesToBase64([]byte("Hello, World!")); got != "SGVsbG8sIFdvcmxkIQ==" {
		t.Errorf("BytesToBase64 = %q, want %q", got, "SGVsbG8sIFdvcmxkIQ==")
	}
}

func TestIsValidHex(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"0123456789abcdef", true},
		{"ABCDEF", true},
		{"aBcDeF09", true},
		{"xyz", false},
		{"12g4", false},
		{"12 34", false},
	}
	for _, tc := range cases {
		if got := IsValidHex(tc.input); got != tc.want {
			t.Errorf("IsValidHex(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestIsValidSwarmReference(t *testing.T) {
	valid := strings.Repeat("ab", 32)
	cases := []struct {
		input string
		want  bool
	}{
		{valid, true},
		{strings.ToUpper(valid), true},
		{valid[:63], false},
		{valid + "a", false},
		{strings.Repeat("zz", 32), false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidSwarmReference(tc.input); got != tc.want {
			t.Errorf("IsValidSwarmReference(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeReference(t *testing.T) {
	in := "  AbCdEf1234  \n"
	if got := NormalizeReference(in); got != "abcdef1234" {
		t.Errorf("NormalizeReference(%q) = %q", in, got)
	}
}
