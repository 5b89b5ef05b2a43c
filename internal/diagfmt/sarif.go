package diagfmt

import (
	"io"
	"ergc/internal/diag"
	"ergc/internal/source"
)

// Sarif ничего не выводит: SARIF-форматирование не реализовано, все
// аргументы игнорируются.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) {
	// TODO: реализовать SARIF форматирование
	_ = w
	_ = bag
	_ = fs
	_ = meta
}
