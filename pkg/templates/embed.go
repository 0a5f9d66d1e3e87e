package templates

import (
	"embed"
	"io/fs"
)

//go:embed all:files
var embedded embed.FS

// Embedded returns the store compiled into the binary
func Embedded() *Store {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		panic(err)
	}
	return New(sub)
}
