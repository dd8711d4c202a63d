package ecc

import (
	"fmt"
	"math/big"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/smallyu/go-ecc/internal/crypto/curves"
)

// DomainFile is the YAML form of a curve domain. Integers may be written
// in decimal or with a 0x prefix. When Base names a catalog curve, its
// parameters are the starting point and every field set in the file
// overrides them. A missing cofactor means 1.
//
//	name: toy23
//	field:
//	  prime: 23
//	a: 1
//	b: 4
//	generator: {x: 0, y: 2}
//	order: 29
//	cofactor: 1
type DomainFile struct {
	Name      string         `yaml:"name"`
	OID       string         `yaml:"oid,omitempty"`
	Base      string         `yaml:"base,omitempty"`
	Field     FieldSection   `yaml:"field"`
	A         *yamlInt       `yaml:"a"`
	B         *yamlInt       `yaml:"b"`
	Generator GeneratorBlock `yaml:"generator"`
	Order     *yamlInt       `yaml:"order"`
	Cofactor  int            `yaml:"cofactor,omitempty"`
}

// FieldSection describes either a prime field or a binary field
// F_2[z]/(z^m + z^k3 + z^k2 + z^k1 + 1). Trinomials leave k3 and k2 at 0.
type FieldSection struct {
	Prime *yamlInt `yaml:"prime,omitempty"`
	M     int      `yaml:"m,omitempty"`
	K3    int      `yaml:"k3,omitempty"`
	K2    int      `yaml:"k2,omitempty"`
	K1    int      `yaml:"k1,omitempty"`
}

type GeneratorBlock struct {
	X *yamlInt `yaml:"x"`
	Y *yamlInt `yaml:"y"`
}

// yamlInt is an arbitrary precision integer read from a YAML scalar.
type yamlInt struct {
	big.Int
}

func (v *yamlInt) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected an integer", node.Line)
	}
	if _, ok := v.SetString(node.Value, 0); !ok {
		return fmt.Errorf("line %d: invalid integer %q", node.Line, node.Value)
	}
	return nil
}

func (v *yamlInt) MarshalYAML() (any, error) {
	return "0x" + v.Text(16), nil
}

func (v *yamlInt) big() *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(&v.Int)
}

func toYAMLInt(x *big.Int) *yamlInt {
	if x == nil {
		return nil
	}
	v := new(yamlInt)
	v.Set(x)
	return v
}

// Params resolves the file into domain parameters.
func (f *DomainFile) Params() (Params, error) {
	var p Params
	if f.Base != "" {
		base, err := curves.NamedParams(f.Base)
		if err != nil {
			return Params{}, err
		}
		p = base
	}
	if f.Name != "" {
		p.Name = f.Name
	}
	if f.OID != "" {
		p.OID = f.OID
	}
	switch {
	case f.Field.Prime != nil && f.Field.M != 0:
		return Params{}, errorf(ErrDomainParameter, "field sets both prime and m")
	case f.Field.Prime != nil:
		p.P, p.M, p.K3, p.K2, p.K1 = f.Field.Prime.big(), 0, 0, 0, 0
	case f.Field.M != 0:
		p.P, p.M, p.K3, p.K2, p.K1 = nil, f.Field.M, f.Field.K3, f.Field.K2, f.Field.K1
	}
	if f.A != nil {
		p.A = f.A.big()
	}
	if f.B != nil {
		p.B = f.B.big()
	}
	if f.Generator.X != nil {
		p.Gx = f.Generator.X.big()
	}
	if f.Generator.Y != nil {
		p.Gy = f.Generator.Y.big()
	}
	if f.Order != nil {
		p.N = f.Order.big()
	}
	if f.Cofactor != 0 {
		p.H = f.Cofactor
	}
	if p.H == 0 {
		p.H = 1
	}
	return p, nil
}

// DomainFileOf renders params in the YAML form accepted by ParseDomainYAML.
func DomainFileOf(p Params) *DomainFile {
	f := &DomainFile{
		Name:      p.Name,
		OID:       p.OID,
		A:         toYAMLInt(p.A),
		B:         toYAMLInt(p.B),
		Generator: GeneratorBlock{X: toYAMLInt(p.Gx), Y: toYAMLInt(p.Gy)},
		Order:     toYAMLInt(p.N),
		Cofactor:  p.H,
	}
	if p.Kind() == PrimeField {
		f.Field.Prime = toYAMLInt(p.P)
	} else {
		f.Field.M, f.Field.K3, f.Field.K2, f.Field.K1 = p.M, p.K3, p.K2, p.K1
	}
	return f
}

// ParseDomainYAML builds a domain from a YAML document.
func ParseDomainYAML(data []byte, opts ...Option) (*Domain, error) {
	var f DomainFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, NewOpError("parse domain", "", errorf(ErrDomainParameter, "%v", err))
	}
	p, err := f.Params()
	if err != nil {
		return nil, NewOpError("parse domain", f.Name, err)
	}
	return NewDomain(p, opts...)
}

// LoadDomainFile reads and parses a YAML domain file.
func LoadDomainFile(path string, opts ...Option) (*Domain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewOpError("load domain", "", err)
	}
	return ParseDomainYAML(data, opts...)
}
