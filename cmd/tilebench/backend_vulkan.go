//go:build !nogpu

package main

import (
	// Registers the Vulkan backend with hal.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)
