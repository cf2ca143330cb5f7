package cvtemplate

import (
	"embed"
	"io/fs"
)

//go:embed assets
var embedded embed.FS

// Assets returns the embedded markup and stylesheets rooted at assets/.
func Assets() fs.FS {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// StylesheetRef returns the reference a template's stylesheet is published under.
func StylesheetRef(name string) string {
	return "css/" + name + ".css"
}

func readStylesheet(fsys fs.FS, name string) (string, error) {
	base, err := fs.ReadFile(fsys, "css/base.css")
	if err != nil {
		return "", err
	}
	specific, err := fs.ReadFile(fsys, StylesheetRef(name))
	if err != nil {
		return "", err
	}
	return string(base) + "\n" + string(specific), nil
}
