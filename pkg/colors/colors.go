package colors

import (
	"fmt"
	"hash/crc32"
	"image/color"
	"strconv"
	"strings"
)

// Named colors recognized in styles and config files. The picks favor
// distinguishability over purity, so "red" is a readable brick red.
var colorMap = map[string]color.RGBA{
	"black":     {0, 0, 0, 255},
	"white":     {255, 255, 255, 255},
	"gray":      {128, 128, 128, 255},
	"red":       {215, 48, 39, 255},
	"green":     {26, 152, 80, 255},
	"blue":      {69, 117, 180, 255},
	"orange":    {244, 109, 67, 255},
	"yellow":    {255, 221, 0, 255},
	"purple":    {118, 42, 131, 255},
	"brown":     {140, 81, 10, 255},
	"lightblue": {171, 217, 233, 255},
	"sand":      {245, 230, 179, 255},
}

// GetColor resolves a name to a color, deriving a stable one from the
// name's hash when it is not in the table. Good for keying series by name.
func GetColor(name string) color.RGBA {
	if c, ok := colorMap[strings.ToLower(name)]; ok {
		return c
	}
	return hashToRGB(name)
}

// Parse resolves "#RRGGBB", "#RRGGBBAA" or a color name. Unlike GetColor,
// unknown names are an error so config typos do not silently become hash
// colors.
func Parse(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if hexpart, ok := strings.CutPrefix(s, "#"); ok {
		if len(hexpart) != 6 && len(hexpart) != 8 {
			return color.RGBA{}, fmt.Errorf("color %q: want #RRGGBB or #RRGGBBAA", s)
		}
		v, err := strconv.ParseUint(hexpart, 16, 64)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		if len(hexpart) == 6 {
			v = v<<8 | 0xff
		}
		return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
	}
	if c, ok := colorMap[strings.ToLower(s)]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

func hashToRGB(input string) color.RGBA {
	// Calculate CRC32 hash
	hash := crc32.ChecksumIEEE([]byte(input))
	// Map the hash value to RGB color space
	return color.RGBA{byte(hash >> 8), byte(hash >> 16), byte(hash), 255}
}
