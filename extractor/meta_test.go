package extractor

import "testing"

func TestClassifyFrameworkOrder(t *testing.T) {
	cases := []struct {
		signals   []string
		generator string
		want      string
	}{
		{nil, "", "unknown"},
		{[]string{"react"}, "", "react"},
		// A Framer export is also a React app; the exporter wins.
		{[]string{"react", "framer"}, "", "framer"},
		{[]string{"webflow", "react"}, "", "webflow"},
		{[]string{"next", "react"}, "", "next"},
		{nil, "WordPress 6.4", "wordpress"},
		{nil, "Squarespace", "squarespace"},
		{[]string{"vue"}, "WordPress", "vue"},
	}
	for _, c := range cases {
		if got := classifyFramework(c.signals, c.generator); got != c.want {
			t.Errorf("classifyFramework(%v, %q): got %q, want %q", c.signals, c.generator, got, c.want)
		}
	}
}

func TestPageMetaDesignToolFlag(t *testing.T) {
	p := &rawPage{Title: " Landing ", Description: "d"}
	meta := pageMeta(p, "framer")
	if !meta.DesignToolSite || meta.DesignToolID != "framer" {
		t.Errorf("framer meta: %+v", meta)
	}
	if meta.Title != "Landing" {
		t.Errorf("title: %q", meta.Title)
	}

	if m := pageMeta(p, "next"); m.DesignToolSite {
		t.Error("next should not flag design-tool site")
	}
}
