package assets

import (
	_ "embed"
)

//go:embed icon.svg
var IconBytes []byte
