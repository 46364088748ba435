/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/chip8vm/chip8vm/chip8"
)

// bytesPerPixel of the RGB888 texture format, stored as B, G, R, X.
const bytesPerPixel = 4

// color is an RGB display color.
type color struct {
	r, g, b byte
}

var (
	// the background and lit pixel colors of the screen
	offColor = color{143, 145, 133}
	onColor  = color{17, 29, 43}
)

// Screen is the streaming texture the CHIP-8 video memory is copied into.
type Screen struct {
	texture *sdl.Texture
	pixels  []byte
}

// NewScreen creates the texture for the CHIP-8 video memory.
func NewScreen(renderer *sdl.Renderer) (*Screen, error) {
	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB888, sdl.TEXTUREACCESS_STREAMING, chip8.ScreenWidth, chip8.ScreenHeight)
	if err != nil {
		return nil, fmt.Errorf("creating screen texture: %w", err)
	}

	return &Screen{
		texture: texture,
		pixels:  make([]byte, chip8.ScreenWidth*chip8.ScreenHeight*bytesPerPixel),
	}, nil
}

// Refresh the texture with the CHIP-8 video memory.
func (s *Screen) Refresh(video []byte) error {
	paint(s.pixels, video)

	if err := s.texture.Update(nil, s.pixels, chip8.ScreenWidth*bytesPerPixel); err != nil {
		return fmt.Errorf("updating screen texture: %w", err)
	}

	return nil
}

// Copy the screen to the render target, stretched to fit dst.
func (s *Screen) Copy(renderer *sdl.Renderer, dst *sdl.Rect) error {
	return renderer.Copy(s.texture, nil, dst)
}

// Destroy releases the texture.
func (s *Screen) Destroy() {
	_ = s.texture.Destroy()
}

// paint converts one byte per pixel video memory into texture pixels.
func paint(pixels, video []byte) {
	for i, p := range video {
		c := offColor
		if p != 0 {
			c = onColor
		}

		px := pixels[i*bytesPerPixel : (i+1)*bytesPerPixel]
		px[0] = c.b
		px[1] = c.g
		px[2] = c.r
		px[3] = 0xFF
	}
}
