package seedfile

import (
	"strings"
	"testing"

	"github.com/cloudflare/circl/sign/ed25519"
)

func TestRoundTrip(t *testing.T) {
	sf, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	text := sf.Encode()
	decoded, err := Decode(text, "test")
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Seed != sf.Seed {
		t.Fatalf("decoded seed does not match original")
	}
}

func TestDistinctSeeds(t *testing.T) {
	a, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	if a.Seed == b.Seed {
		t.Fatal("two generated seeds were identical")
	}
	if a.Encode() == b.Encode() {
		t.Fatal("two generated seed files encoded identically")
	}
}

func mustGenerate(t *testing.T) *SeedFile {
	t.Helper()
	sf, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	return sf
}

func TestDecodeRejectsWrongLineCount(t *testing.T) {
	if _, err := Decode("one\ntwo", "src"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestDecodeRejectsWrongHeader(t *testing.T) {
	text := mustGenerate(t).Encode()
	lines := strings.SplitN(text, "\n", 3)
	bad := strings.Join([]string{"not the header", lines[1], lines[2]}, "\n")
	if _, err := Decode(bad, "src"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestDecodeRejectsWrongFooter(t *testing.T) {
	text := mustGenerate(t).Encode()
	lines := strings.SplitN(text, "\n", 3)
	bad := strings.Join([]string{lines[0], lines[1], "not the footer"}, "\n")
	if _, err := Decode(bad, "src"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestDecodeRejectsWrongLine2Length(t *testing.T) {
	text := mustGenerate(t).Encode()
	lines := strings.SplitN(text, "\n", 3)
	bad := strings.Join([]string{lines[0], lines[1][:bodyLen-1], lines[2]}, "\n")
	if _, err := Decode(bad, "src"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestDecodeRejectsNonBase64Seed(t *testing.T) {
	text := mustGenerate(t).Encode()
	lines := strings.SplitN(text, "\n", 3)
	mangled := strings.Repeat("!", seedB64Len) + lines[1][seedB64Len:]
	bad := strings.Join([]string{lines[0], mangled, lines[2]}, "\n")
	if _, err := Decode(bad, "src"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestDecodeRejectsNonBase64CRC(t *testing.T) {
	text := mustGenerate(t).Encode()
	lines := strings.SplitN(text, "\n", 3)
	mangled := lines[1][:seedB64Len] + strings.Repeat("!", crcB64Len)
	bad := strings.Join([]string{lines[0], mangled, lines[2]}, "\n")
	if _, err := Decode(bad, "src"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestDecodeRejectsCRCMismatch(t *testing.T) {
	text := mustGenerate(t).Encode()
	lines := strings.SplitN(text, "\n", 3)
	body := []rune(lines[1])
	// Flip one seed-region character to another valid base64 char, corrupting
	// the seed without touching the stored checksum.
	if body[0] == 'A' {
		body[0] = 'B'
	} else {
		body[0] = 'A'
	}
	bad := strings.Join([]string{lines[0], string(body), lines[2]}, "\n")
	if _, err := Decode(bad, "src"); err == nil {
		t.Fatal("expected a checksum mismatch error")
	}
}

func TestKeypairSignsAndVerifies(t *testing.T) {
	sf := mustGenerate(t)
	pub, priv := sf.Keypair()
	msg := []byte("turboshell archive payload")
	sig := ed25519.Sign(priv, msg)
	if !ed25519.Verify(pub, msg, sig) {
		t.Fatal("signature failed to verify")
	}
}
