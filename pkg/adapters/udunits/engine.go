package udunits

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"sync"

	"github.com/renjie/prism-units/pkg/core/domain"
	"github.com/renjie/prism-units/pkg/core/ports"
)

// Engine implements ports.UnitEngine over an immutable Database.
type Engine struct {
	db *Database
}

var _ ports.UnitEngine = (*Engine)(nil)

var (
	defaultEngine *Engine
	defaultErr    error
	once          sync.Once
)

// Default returns the shared engine built from the embedded unit database.
func Default() (*Engine, error) {
	once.Do(func() {
		defaultEngine, defaultErr = New()
	})
	return defaultEngine, defaultErr
}

// New builds an engine from the embedded database extended by the given YAML documents.
func New(extra ...io.Reader) (*Engine, error) {
	db, err := LoadDatabase(extra...)
	if err != nil {
		return nil, err
	}
	return &Engine{db: db}, nil
}

// NewFromFiles builds an engine extended by unit definition files.
func NewFromFiles(paths ...string) (*Engine, error) {
	var readers []io.Reader
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, domain.NewError("udunits.load", domain.KindUnitDatabase, path, err)
		}
		defer f.Close()
		readers = append(readers, f)
	}
	return New(readers...)
}

// Parse resolves a canonical unit expression.
func (e *Engine) Parse(expr string) (ports.Unit, error) {
	u, err := newParser(e.db, expr).parse()
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Convert maps value from one unit to another through their common base representation.
func (e *Engine) Convert(from, to ports.Unit, value *big.Rat) (*big.Rat, error) {
	src, err := e.unwrap(from)
	if err != nil {
		return nil, err
	}
	dst, err := e.unwrap(to)
	if err != nil {
		return nil, err
	}
	if src.dims != dst.dims {
		return nil, domain.NewError("udunits.convert", domain.KindIncompatibleDimensions,
			src.String()+" -> "+dst.String(), fmt.Errorf("units are not commensurable"))
	}

	base := new(big.Rat).Mul(src.scale, value)
	if src.offset != nil {
		base.Add(base, src.offset)
	}
	if dst.offset != nil {
		base.Sub(base, dst.offset)
	}
	return base.Quo(base, dst.scale), nil
}

// Describe renders "<scale> <base>", "<base>", a dimensionless label, or "(<base>) @ <offset>".
func (e *Engine) Describe(u ports.Unit) string {
	unit, err := e.unwrap(u)
	if err != nil {
		return u.String()
	}
	return describe(unit)
}

// Category maps the unit's dimensions onto the database's category table.
func (e *Engine) Category(u ports.Unit) string {
	unit, err := e.unwrap(u)
	if err != nil {
		return "Derived"
	}
	if name, ok := e.db.category(unit.dims); ok {
		return name
	}
	return "Derived"
}

func (e *Engine) unwrap(u ports.Unit) (*Unit, error) {
	unit, ok := u.(*Unit)
	if !ok || unit == nil || unit.db != e.db {
		return nil, domain.NewError("udunits", domain.KindUnitDatabase, fmt.Sprint(u),
			fmt.Errorf("unit was not resolved by this engine"))
	}
	return unit, nil
}
