package internalcheck

import (
	"testing"

	"golang.org/x/tools/go/packages"
)

// secretPackages handle private scalars or shared secrets.
var secretPackages = []string{
	"github.com/smallyu/go-ecc/internal/crypto/field448",
	"github.com/smallyu/go-ecc/internal/crypto/montgomery",
	"github.com/smallyu/go-ecc/internal/crypto/primefield",
	"github.com/smallyu/go-ecc/pkg/ecc",
}

func load(t *testing.T, mode packages.LoadMode) []*packages.Package {
	t.Helper()
	cfg := &packages.Config{Mode: mode}
	pkgs, err := packages.Load(cfg, secretPackages...)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			t.Fatalf("load %s: %v", pkg.PkgPath, e)
		}
	}
	if len(pkgs) != len(secretPackages) {
		t.Fatalf("loaded %d packages, want %d", len(pkgs), len(secretPackages))
	}
	return pkgs
}
