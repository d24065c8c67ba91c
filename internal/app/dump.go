package app

import (
	"github.com/vk/diconfig/internal/expr"
	"github.com/vk/diconfig/internal/node"
)

// generatedHeader prefixes every dumped document so regenerated files are
// recognizable as machine-written.
const generatedHeader = "# generated by diconfig\n"

// Dump serializes a normalized tree back into document text: Statements
// become call expressions again and replace-on-merge markers become
// override-suffixed keys.
func (a *App) Dump(tree node.Node) (string, error) {
	data, err := a.adapter.Encode(expr.Serialize(tree))
	if err != nil {
		return "", err
	}
	return generatedHeader + string(data), nil
}
