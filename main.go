package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/oxide/bytecode"
	"github.com/pontaoski/oxide/errors"
	"github.com/pontaoski/oxide/image"
	"github.com/pontaoski/oxide/ir"
	"github.com/pontaoski/oxide/targets/llvm"
	"github.com/pontaoski/oxide/targets/vm"
	"github.com/pontaoski/oxide/types"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/oxide", "main")

func setupLogging(level string) error {
	l, err := capnslog.ParseLevel(strings.ToUpper(level))
	if err != nil {
		return err
	}
	capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, l >= capnslog.DEBUG))
	capnslog.SetGlobalLogLevel(l)
	return nil
}

func readProgram(files []string) (*ir.Program, error) {
	var sources []ir.Source
	for _, file := range files {
		data, err := ioutil.ReadFile(file)
		if err != nil {
			return nil, tracerr.Wrap(err)
		}
		sources = append(sources, ir.Source{Filename: file, Src: data})
	}
	plog.Debugf("reading %d source files", len(sources))
	return ir.ParseFiles(sources...)
}

func readImage(file string) (*image.Image, error) {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return image.Unmarshal(data)
}

func writeFile(path string, data []byte) error {
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return tracerr.Wrap(err)
	}
	plog.Infof("wrote %s (%d bytes)", path, len(data))
	return nil
}

func build(c *cli.Context) error {
	mod, path, err := loadModule("./")
	if err != nil {
		return err
	}
	plog.Debugf("using %s", path)

	if c.IsSet("target") {
		mod.Target = c.String("target")
	}
	if c.IsSet("entry") {
		mod.Entry = c.String("entry")
	}
	if c.IsSet("output") {
		mod.Output = c.String("output")
	}
	if !c.IsSet("log-level") {
		if err := setupLogging(mod.LogLevel); err != nil {
			return err
		}
	}
	if err := mod.validate(); err != nil {
		return err
	}

	files, err := mod.sourceFiles("./")
	if err != nil {
		return err
	}
	prog, err := readProgram(files)
	if err != nil {
		return err
	}

	switch mod.Target {
	case "llvm":
		module, err := llvm.Generate(prog, llvm.Options{Entry: mod.Entry})
		if err != nil {
			return err
		}
		out := module.String()
		if c.Bool("dump") {
			fmt.Println(out)
			return nil
		}
		if c.Bool("link") {
			return link(mod.Output, out)
		}
		return writeFile(mod.Output+".ll", []byte(out))
	default:
		img, err := vm.Generate(prog, vm.Options{Entry: mod.Entry})
		if err != nil {
			return err
		}
		if c.Bool("dump") {
			repr.Println(img)
			return nil
		}
		data, err := image.Marshal(img)
		if err != nil {
			return err
		}
		return writeFile(mod.Output+".oxb", data)
	}
}

// link hands the module to clang, entering through the generated wrapper.
func link(out, module string) error {
	fi, err := ioutil.TempFile("", "*.ll")
	if err != nil {
		return tracerr.Wrap(err)
	}
	defer os.Remove(fi.Name())
	defer fi.Close()
	if _, err = io.Copy(fi, strings.NewReader(module)); err != nil {
		return tracerr.Wrap(err)
	}

	cmd := exec.Command("clang", "-nostdlib", "-o", out, "-Wl,-e,"+llvm.MainWrapper, fi.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return tracerr.Wrap(cmd.Run())
}

func disasm(c *cli.Context) error {
	img, err := readImage(c.Args().First())
	if err != nil {
		return err
	}

	for _, s := range img.Statics {
		fmt.Printf("%06x  static %s: %s (%d bytes)\n", s.Offset, s.Name, s.Type, s.Size)
	}
	starts := map[int]image.Symbol{}
	for _, fn := range img.Functions {
		starts[int(fn.Offset)] = fn
	}

	code, err := bytecode.Disassemble(img.Code(), int(img.StaticSize))
	for _, in := range code {
		if uint64(in.Offset) == img.Entry {
			fmt.Println("\n<entry>:")
		}
		if fn, ok := starts[in.Offset]; ok {
			fmt.Printf("\n%s: %s\n", fn.Name, fn.Type)
		}
		fmt.Println(in)
	}
	return err
}

func exportGo(c *cli.Context) error {
	img, err := readImage(c.Args().First())
	if err != nil {
		return err
	}
	src := image.ExportGo(c.String("package"), img)
	if out := c.String("output"); out != "" {
		return writeFile(out, []byte(src))
	}
	fmt.Print(src)
	return nil
}

func typeinfo(c *cli.Context) error {
	file := c.Args().First()
	if strings.HasSuffix(file, ".ll") {
		data, err := llvm.TypeInfoFromFile(file)
		if err != nil {
			return tracerr.Wrap(err)
		}
		repr.Println(data)
		return nil
	}
	img, err := readImage(file)
	if err != nil {
		return err
	}
	repr.Println(img.TypeInfo)
	return nil
}

func cast(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: oxide cast <from> <to>")
	}
	from, err := types.ParseDataType(c.Args().Get(0))
	if err != nil {
		return err
	}
	to, err := types.ParseDataType(c.Args().Get(1))
	if err != nil {
		return err
	}

	var value types.LiteralValue
	if text := c.String("value"); text != "" {
		value, err = ir.ParseLiteral(text, from)
		if err != nil {
			return err
		}
	}

	report := func(ok, implicit bool) {
		if ok {
			fmt.Printf("%s -> %s: allowed\n", from, to)
		} else {
			fmt.Println(errors.NewIllegalCast(from, to, implicit, types.Span{}).Error())
		}
	}
	report(types.IsCastableTo(from, to), false)
	report(types.IsImplicitlyCastableTo(from, to, value), true)
	return nil
}

func main() {
	app := &cli.App{
		Name:  "oxide",
		Usage: "oxide compiler back end",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "INFO",
				Usage: "CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG or TRACE",
			},
		},
		Before: func(c *cli.Context) error {
			return setupLogging(c.String("log-level"))
		},
		ExitErrHandler: func(context *cli.Context, err error) {
			if err == nil {
				return
			}
			tracerr.PrintSourceColor(err)
			os.Exit(1)
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "init a directory",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "toml",
						Usage: "write oxide.toml instead of oxide.yaml",
					},
				},
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return fmt.Errorf("no module name provided")
					}
					path, err := writeModule("./", oxideModule{Package: name}, c.Bool("toml"))
					if err != nil {
						return fmt.Errorf("error creating %s: %w", path, err)
					}
					return nil
				},
			},
			{
				Name:  "build",
				Usage: "build the module in the current directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name: "output",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Value: false,
					},
					&cli.StringFlag{
						Name:  "target",
						Usage: "vm or llvm",
					},
					&cli.StringFlag{
						Name: "entry",
					},
					&cli.BoolFlag{
						Name:  "link",
						Usage: "link an executable with clang (llvm target)",
					},
				},
				Action: build,
			},
			{
				Name:   "disasm",
				Usage:  "disassemble an image",
				Action: disasm,
			},
			{
				Name:  "export-go",
				Usage: "render an image as Go source",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "package",
						Value: "image",
					},
					&cli.StringFlag{
						Name: "output",
					},
				},
				Action: exportGo,
			},
			{
				Name:   "typeinfo",
				Usage:  "dump typeinfo from an image or an LLVM module",
				Action: typeinfo,
			},
			{
				Name:  "cast",
				Usage: "check whether one type casts to another",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "value",
						Usage: "literal source value, for value dependent implicit casts",
					},
				},
				Action: cast,
			},
		},
	}
	app.Run(os.Args)
}
