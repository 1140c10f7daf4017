package domain_test

import (
	"strings"
	"testing"

	"basecli/internal/modules/cli/domain"
)

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	valid := domain.Manifest{Name: "p", Version: "1.0.0", Binary: "/bin/p", SHA256: strings.Repeat("a", 64)}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid manifest: %v", err)
	}
	unsigned := valid
	unsigned.SHA256 = ""
	if err := unsigned.Validate(); err != nil {
		t.Fatalf("checksum should be optional: %v", err)
	}

	cases := map[string]domain.Manifest{
		"missing name":   {Version: "1", Binary: "/bin/p"},
		"missing binary": {Name: "p", Version: "1"},
		"bad checksum":   {Name: "p", Version: "1", Binary: "/bin/p", SHA256: "ABC"},
	}
	for name, m := range cases {
		if err := m.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestOperationValidate(t *testing.T) {
	t.Parallel()
	for _, op := range []domain.Operation{
		{Method: "set", Key: "a", Value: "b"},
		{Method: "enable", Key: "verbose"},
		{Method: "del", Key: "a"},
	} {
		if err := op.Validate(); err != nil {
			t.Fatalf("expected %s to be valid: %v", op.Method, err)
		}
	}
	if err := (domain.Operation{Method: "use", Key: "x"}).Validate(); err == nil {
		t.Fatalf("expected unknown method error")
	}
	if err := (domain.Operation{Method: "set"}).Validate(); err == nil {
		t.Fatalf("expected missing key error")
	}
}
