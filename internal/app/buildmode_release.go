//go:build !dev

package app

// DebugBuild is true for development builds (wails dev).
const DebugBuild = false
