package plan

import (
	"github.com/davecgh/go-spew/spew"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump renders the class plans for debugging.
func (p *Plan) Dump() string {
	return dumpConfig.Sdump(p.Classes)
}
