package icons

import (
	"tiles-cli/internal/model"

	"github.com/tidwall/gjson"
)

// Parse turns icon-families metadata into one Icon per top-level entry, in document order.
//
// Missing or malformed parts of an entry fall back to empty values; entries are never dropped.
func Parse(b []byte) []model.Icon {
	out := []model.Icon{}
	root := gjson.ParseBytes(b)
	if !root.IsObject() {
		return out
	}
	root.ForEach(func(key, data gjson.Result) bool {
		out = append(out, parseEntry(key.String(), data))
		return true
	})
	return out
}

func parseEntry(name string, data gjson.Result) model.Icon {
	ic := model.Icon{
		Name:    name,
		Label:   data.Get("label").String(),
		Unicode: data.Get("unicode").String(),
		Styles:  []string{},
		ViewBox: []float64{},
		Terms:   []string{},
	}

	for _, it := range data.Get("familyStylesByLicense.free").Array() {
		ic.Styles = append(ic.Styles, it.Get("style").String())
	}
	for _, term := range data.Get("search.terms").Array() {
		ic.Terms = append(ic.Terms, term.String())
	}

	if len(ic.Styles) == 0 {
		return ic
	}
	variant, ok := child(data.Get("svgs.classic"), ic.Styles[0])
	if !ok {
		return ic
	}
	ic.SVGPath = svgPath(variant.Get("path"))
	if vb := variant.Get("viewBox").Array(); len(vb) == 4 {
		ic.ViewBox = []float64{vb[0].Float(), vb[1].Float(), vb[2].Float(), vb[3].Float()}
	}
	return ic
}

// child looks up key without gjson path syntax, so style names are never treated as patterns.
func child(obj gjson.Result, key string) (gjson.Result, bool) {
	var found gjson.Result
	ok := false
	if !obj.IsObject() {
		return found, false
	}
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}

// svgPath reads a path that is either a string or (for layered styles) an array of strings.
func svgPath(v gjson.Result) string {
	if v.IsArray() {
		for _, p := range v.Array() {
			if s := p.String(); s != "" {
				return s
			}
		}
		return ""
	}
	if v.Type != gjson.String {
		return ""
	}
	return v.String()
}
