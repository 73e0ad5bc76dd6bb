package udunits

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/renjie/prism-units/pkg/core/domain"
)

//go:embed units.yaml
var builtinUnits []byte

// Definitions is the YAML shape of a unit database document.
type Definitions struct {
	Base       []BaseDef     `yaml:"base"`
	Prefixes   []PrefixDef   `yaml:"prefixes"`
	Units      []UnitDef     `yaml:"units"`
	Categories []CategoryDef `yaml:"categories"`
}

type BaseDef struct {
	Symbol  string   `yaml:"symbol"`
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

type PrefixDef struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
	Symbols []string `yaml:"symbols"`
	Value   string   `yaml:"value"`
}

type UnitDef struct {
	Name     string   `yaml:"name"`
	Aliases  []string `yaml:"aliases"`
	Symbols  []string `yaml:"symbols"`
	Def      string   `yaml:"def"`
	Label    string   `yaml:"label"`
	NoPrefix bool     `yaml:"no_prefix"`
}

type CategoryDef struct {
	Name string         `yaml:"name"`
	Dims map[string]int `yaml:"dims"`
}

type entry struct {
	unit       *Unit
	symbol     bool
	prefixable bool
}

type prefix struct {
	text   string
	value  *big.Rat
	symbol bool
}

type category struct {
	name string
	dims dimension
}

// Database is the immutable unit/prefix/category table an Engine resolves against.
// It is safe for concurrent lookups once built.
type Database struct {
	bases      []BaseDef
	baseOrder  []int // base slots sorted by symbol, for canonical rendering
	units      map[string]entry
	prefixes   []prefix // longest first
	categories []category
}

// LoadDatabase builds a database from the embedded definitions followed by any extra documents.
func LoadDatabase(extra ...io.Reader) (*Database, error) {
	docs := []io.Reader{bytes.NewReader(builtinUnits)}
	docs = append(docs, extra...)

	db := &Database{units: make(map[string]entry)}
	for i, r := range docs {
		var defs Definitions
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&defs); err != nil && !errors.Is(err, io.EOF) {
			return nil, dbError(fmt.Sprintf("document %d", i), err)
		}
		if i > 0 && len(defs.Base) > 0 {
			return nil, dbError(fmt.Sprintf("document %d", i), fmt.Errorf("base units can only be declared by the builtin database"))
		}
		if err := db.apply(defs); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func (db *Database) apply(defs Definitions) error {
	for _, b := range defs.Base {
		if err := db.addBase(b); err != nil {
			return err
		}
	}
	for _, p := range defs.Prefixes {
		if err := db.addPrefix(p); err != nil {
			return err
		}
	}
	for _, u := range defs.Units {
		if err := db.addUnit(u); err != nil {
			return err
		}
	}
	for _, c := range defs.Categories {
		if err := db.addCategory(c); err != nil {
			return err
		}
	}

	sort.SliceStable(db.prefixes, func(i, j int) bool {
		return len(db.prefixes[i].text) > len(db.prefixes[j].text)
	})
	return nil
}

func (db *Database) addBase(b BaseDef) error {
	if len(db.bases) == maxBaseUnits {
		return dbError(b.Symbol, fmt.Errorf("too many base units (max %d)", maxBaseUnits))
	}
	slot := len(db.bases)
	db.bases = append(db.bases, b)

	var dims dimension
	dims[slot] = 1
	u := &Unit{db: db, scale: ratOne, dims: dims}
	if err := db.register(b.Symbol, entry{unit: u, symbol: true, prefixable: true}); err != nil {
		return err
	}
	for _, name := range append([]string{b.Name}, b.Aliases...) {
		if err := db.register(name, entry{unit: u, prefixable: true}); err != nil {
			return err
		}
	}

	db.baseOrder = append(db.baseOrder, slot)
	sort.Slice(db.baseOrder, func(i, j int) bool {
		return db.bases[db.baseOrder[i]].Symbol < db.bases[db.baseOrder[j]].Symbol
	})
	return nil
}

func (db *Database) addPrefix(p PrefixDef) error {
	v, ok := new(big.Rat).SetString(p.Value)
	if !ok || v.Sign() <= 0 {
		return dbError(p.Name, fmt.Errorf("invalid prefix value %q", p.Value))
	}
	for _, name := range append([]string{p.Name}, p.Aliases...) {
		db.prefixes = append(db.prefixes, prefix{text: name, value: v})
	}
	for _, sym := range p.Symbols {
		db.prefixes = append(db.prefixes, prefix{text: sym, value: v, symbol: true})
	}
	return nil
}

func (db *Database) addUnit(d UnitDef) error {
	if d.Name == "" {
		return dbError(d.Def, fmt.Errorf("unit without name"))
	}
	u, err := newParser(db, d.Def).parse()
	if err != nil {
		return dbError(d.Name, err)
	}
	u.label = d.Label

	prefixable := !d.NoPrefix
	for _, sym := range d.Symbols {
		if err := db.register(sym, entry{unit: u, symbol: true, prefixable: prefixable}); err != nil {
			return err
		}
	}
	for _, name := range append([]string{d.Name}, d.Aliases...) {
		if err := db.register(name, entry{unit: u, prefixable: prefixable}); err != nil {
			return err
		}
	}
	return nil
}

func (db *Database) addCategory(c CategoryDef) error {
	var dims dimension
	for sym, exp := range c.Dims {
		slot := db.baseSlot(sym)
		if slot < 0 {
			return dbError(c.Name, fmt.Errorf("unknown base unit %q in category", sym))
		}
		dims[slot] = int8(exp)
	}
	db.categories = append(db.categories, category{name: c.Name, dims: dims})
	return nil
}

func (db *Database) register(name string, e entry) error {
	if name == "" {
		return nil
	}
	if _, dup := db.units[name]; dup {
		return dbError(name, fmt.Errorf("duplicate unit identifier"))
	}
	db.units[name] = e
	return nil
}

func (db *Database) baseSlot(symbol string) int {
	for i, b := range db.bases {
		if b.Symbol == symbol {
			return i
		}
	}
	return -1
}

// lookup resolves an identifier: exact match first, then prefix + unit.
// Symbol prefixes only combine with symbols, name prefixes only with names.
func (db *Database) lookup(id string) (*Unit, bool) {
	if e, ok := db.units[id]; ok {
		return e.unit, true
	}
	for _, p := range db.prefixes {
		rest, ok := strings.CutPrefix(id, p.text)
		if !ok || rest == "" {
			continue
		}
		e, ok := db.units[rest]
		if !ok || !e.prefixable || e.symbol != p.symbol {
			continue
		}
		return e.unit.withPrefix(p.value), true
	}
	return nil, false
}

func (db *Database) category(dims dimension) (string, bool) {
	for _, c := range db.categories {
		if c.dims == dims {
			return c.name, true
		}
	}
	return "", false
}

func dbError(input string, err error) error {
	return domain.NewError("udunits.load", domain.KindUnitDatabase, input, err)
}
