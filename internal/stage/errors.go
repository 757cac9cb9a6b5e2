package stage

import "github.com/sandia-minimega/godotrelay/internal/wire"

// errMissingAutoParse reports that stage ran on a Receive event with no
// parsed *frame.Frame in the scratch pile, i.e. AutoParse never ran
// ahead of it in the chain.
func errMissingAutoParse(stage string) error {
	return wire.NewError(wire.Unsupported, "%s: ran without parsed frame, requires auto_parse", stage)
}
