package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"
)

const iconSize = 32

var (
	iconOnce sync.Once
	iconData []byte
)

// GetIcon returns the tray icon: a d-pad cross wrapped in an ICO container.
func GetIcon() []byte {
	iconOnce.Do(func() {
		iconData = buildIcon()
	})
	return iconData
}

func buildIcon() []byte {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	pad := image.NewUniform(color.RGBA{R: 0x30, G: 0x30, B: 0x38, A: 0xff})
	hub := image.NewUniform(color.RGBA{R: 0x5a, G: 0xc8, B: 0xfa, A: 0xff})

	arm := iconSize / 3
	draw.Draw(img, image.Rect(arm, 2, 2*arm, iconSize-2), pad, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(2, arm, iconSize-2, 2*arm), pad, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(arm+2, arm+2, 2*arm-2, 2*arm-2), hub, image.Point{}, draw.Src)

	var pngData bytes.Buffer
	if err := png.Encode(&pngData, img); err != nil {
		return nil
	}

	// ICONDIR + one ICONDIRENTRY pointing at the PNG payload
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, [3]uint16{0, 1, 1})
	buf.WriteByte(iconSize)
	buf.WriteByte(iconSize)
	buf.WriteByte(0) // palette
	buf.WriteByte(0)
	_ = binary.Write(&buf, le, [2]uint16{1, 32}) // planes, bpp
	_ = binary.Write(&buf, le, [2]uint32{uint32(pngData.Len()), 6 + 16})
	buf.Write(pngData.Bytes())
	return buf.Bytes()
}
