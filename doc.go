// Package fat implements ECS150FS, a simple FAT-style filesystem layered
// on top of a fixed-size, sector-addressable BlockDevice. It provides
// POSIX-like file operations — create, delete, open, close, read, write,
// seek, stat, list, info — against a single mounted volume.
package fat
