package image

import (
	"fmt"
	"sort"

	"github.com/dave/jennifer/jen"
)

// ExportGo renders img as a Go source file declaring the image bytes and its
// metadata, so a loader can embed a program without reading files.
func ExportGo(pkgname string, img *Image) string {
	f := jen.NewFile(pkgname)
	f.HeaderComment("Code generated by oxide export-go. DO NOT EDIT.")

	f.Const().Defs(
		jen.Id("BuildID").Op("=").Lit(img.BuildID.String()),
		jen.Id("Entry").Op("=").Lit(int(img.Entry)),
		jen.Id("EntryFunction").Op("=").Lit(int(img.EntryFunction)),
		jen.Id("StaticSize").Op("=").Lit(int(img.StaticSize)),
	)

	f.Var().Id("Image").Op("=").Index().Byte().ValuesFunc(func(g *jen.Group) {
		for _, b := range img.Bytes {
			g.Lit(int(b))
		}
	})

	names := make([]string, 0, len(img.Functions))
	offsets := map[string]uint64{}
	for _, fn := range img.Functions {
		names = append(names, fn.Name)
		offsets[fn.Name] = fn.Offset
	}
	sort.Strings(names)

	f.Comment("Functions maps function names to their entry address.")
	f.Var().Id("Functions").Op("=").Map(jen.String()).Uint64().Values(jen.DictFunc(func(d jen.Dict) {
		for _, name := range names {
			d[jen.Lit(name)] = jen.Lit(int(offsets[name]))
		}
	}))

	return fmt.Sprintf("%#v", f)
}
