// Package vm lowers IR programs to bytecode for the Oxide virtual machine.
//
// Generation runs in three phases. The static section is laid out first, then
// every function graph is lowered to code with jump targets left as
// placeholders holding a label key, and finally every placeholder is replaced
// by the address its key resolved to.
package vm

import (
	"fmt"

	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/oxide/bytecode"
	"github.com/pontaoski/oxide/errors"
	"github.com/pontaoski/oxide/image"
	"github.com/pontaoski/oxide/ir"
	"github.com/pontaoski/oxide/symbols"
	"github.com/pontaoski/oxide/types"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/oxide", "targets/vm")

type Options struct {
	// Entry names the function the program starts in. When empty the
	// first of ir.DefaultEntries that is defined is used.
	Entry string
}

type labelRef struct {
	fn    int
	label symbols.LabelID
}

type generator struct {
	prog *ir.Program
	opts Options
	emitter

	img         *image.Image
	staticAddrs map[symbols.StaticID]uint64

	// Label keys are global: every function entry and every (function,
	// label) pair gets its own.
	nextKey   uint64
	fnKeys    map[string]uint64
	labelKeys map[labelRef]uint64
	keyAddrs  map[uint64]uint64
}

// Generate lowers prog into an image. Failures are internal errors: they mean
// an earlier phase handed over inconsistent IR.
func Generate(prog *ir.Program, opts Options) (img *image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	g := &generator{
		prog:        prog,
		opts:        opts,
		img:         image.New(),
		staticAddrs: map[symbols.StaticID]uint64{},
		fnKeys:      map[string]uint64{},
		labelKeys:   map[labelRef]uint64{},
		keyAddrs:    map[uint64]uint64{},
	}
	g.generate()
	return g.img, nil
}

func (g *generator) generate() {
	g.emitStatics()

	for _, fn := range g.prog.Functions {
		if _, ok := g.fnKeys[fn.Name]; ok {
			panic(errors.Internalf(errors.DuplicateLabel, "function %s is defined twice", fn.Name))
		}
		g.fnKeys[fn.Name] = g.newKey()
	}

	entry := g.entry()
	g.img.Entry = uint64(g.offset())
	g.emitBootstrap(entry)

	for i, fn := range g.prog.Functions {
		g.emitFunction(i, fn)
	}

	g.resolveFixups()
	g.img.EntryFunction = g.keyAddrs[g.fnKeys[entry.Name]]

	g.img.Bytes = g.buf
	plog.Debugf("generated %d bytes (%d static), entry %s at %#x", len(g.buf), g.img.StaticSize, entry.Name, g.img.Entry)
}

func (g *generator) newKey() uint64 {
	k := g.nextKey
	g.nextKey++
	return k
}

func (g *generator) labelKey(fn int, label symbols.LabelID) uint64 {
	ref := labelRef{fn, label}
	if k, ok := g.labelKeys[ref]; ok {
		return k
	}
	k := g.newKey()
	g.labelKeys[ref] = k
	return k
}

// mark records that key resolves to the current offset.
func (g *generator) mark(key uint64) {
	if _, ok := g.keyAddrs[key]; ok {
		panic(errors.Internalf(errors.DuplicateLabel, "label key %d is defined twice", key))
	}
	g.keyAddrs[key] = uint64(g.offset())
}

func (g *generator) emitStatics() {
	for _, s := range g.prog.Symbols.Statics() {
		size, err := types.StaticSize(s.DataType)
		if err != nil {
			panic(errors.Internalf(errors.NoStaticSize, "static %s has type %s", s.Name, s.DataType))
		}
		if len(s.Encoded) != size {
			panic(errors.Internalf(errors.StaticSizeMismatch, "static %s of type %s is %d bytes, expected %d", s.Name, s.DataType, len(s.Encoded), size))
		}

		addr := uint64(g.offset())
		g.staticAddrs[s.ID] = addr
		g.buf = append(g.buf, s.Encoded...)
		g.img.Statics = append(g.img.Statics, image.Symbol{
			Name:   s.Name,
			Type:   s.DataType.String(),
			Offset: addr,
			Size:   uint64(size),
		})
		plog.Tracef("static %s at %#x (%d bytes)", s.Name, addr, size)
	}
	g.img.StaticSize = uint64(g.offset())
}

func (g *generator) entry() *ir.FunctionGraph {
	fn, ok := g.prog.Entry(g.opts.Entry)
	switch {
	case ok:
		return fn
	case g.opts.Entry != "":
		panic(errors.Internalf(errors.MissingEntry, "entry function %s is not defined", g.opts.Entry))
	default:
		panic(errors.Internalf(errors.MissingEntry, "none of %v is defined", ir.DefaultEntries))
	}
}

// emitBootstrap calls the entry function and exits with its result.
func (g *generator) emitBootstrap(entry *ir.FunctionGraph) {
	if len(entry.Params) != 0 {
		panic(errors.Internalf(errors.MissingEntry, "entry function %s must not take parameters", entry.Name))
	}
	g.op(bytecode.CALL)
	g.placeholder(g.fnKeys[entry.Name])
	g.moveRegReg(bytecode.EXIT_REGISTER, bytecode.R1)
	g.op(bytecode.EXIT)
}

func (g *generator) resolveFixups() {
	for _, at := range g.fixups {
		key := g.u64At(at)
		addr, ok := g.keyAddrs[key]
		if !ok {
			panic(errors.Internalf(errors.UnresolvedLabel, "%s at %#x", g.describeKey(key), at))
		}
		g.putU64(at, addr)
	}
	plog.Debugf("resolved %d fixups", len(g.fixups))
}

func (g *generator) describeKey(key uint64) string {
	for ref, k := range g.labelKeys {
		if k == key {
			return fmt.Sprintf("label %d of %s", ref.label, g.prog.Functions[ref.fn].Name)
		}
	}
	for name, k := range g.fnKeys {
		if k == key {
			return "function " + name
		}
	}
	return fmt.Sprintf("label key %d", key)
}
