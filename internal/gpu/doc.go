// Package gpu holds the small HAL helpers shared by the tilemap renderer:
// opening a device on a registered backend, growable GPU buffers, and a
// byte budget that tracks buffer and texture allocations.
package gpu
